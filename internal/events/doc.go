// Package events provides the change-notification layer between the
// mutation service and anything that must stay live (the corpus cache, the
// HTTP views, CLI watchers).
//
// The primary components are:
//   - CorpusEvent: A change to the persisted corpus (a word learned here, or a
//     snapshot rewritten by another process)
//   - EventHandler: Interface for components that react to events
//   - EventEmitter: Interface for components that publish events
//   - InMemoryEventEmitter: Fan-out to registered handlers and channel subscribers
package events
