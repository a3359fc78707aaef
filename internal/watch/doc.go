// Package watch detects snapshot changes made outside this process and
// announces them as SnapshotChanged events, so cached views can be
// invalidated. Changes made through the LearningService are already
// announced directly; these detectors cover other writers sharing the store.
//
// Poller re-reads the gateway on a fixed interval and works with every
// backend. FileWatcher uses fsnotify and only applies to the file backend.
package watch
