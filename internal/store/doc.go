// Package store defines the persistence gateway for corpus snapshots.
// The gateway is a key-value store addressed by a single logical key whose
// value is the complete serialized corpus. Concrete backends live under
// internal/platform; the reconciler and mutation service depend only on the
// SnapshotStore interface defined here.
package store
