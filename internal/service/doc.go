// Package service contains the word-learning state manager: the use cases
// that sit between the persistence gateway (internal/store) and whatever
// presents the corpus to a learner.
//
// Key components:
//
// 1. Reconciler:
//   - Reads the persisted snapshot and falls back to the injected reference
//     corpus when it is absent or unusable
//   - Never returns an error; failures are logged and exposed as diagnostics
//
// 2. LearningService:
//   - Applies the "mark learned" transition by word identity
//   - Re-reads the snapshot before every write and persists the whole corpus
//   - Emits a WordLearned event after every successful write
//
// 3. CorpusCache:
//   - The single authoritative in-memory copy both views read from
//   - Invalidated by events, so the next read reflects the mutation
package service
