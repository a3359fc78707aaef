// Package corpus provides the read-only reference corpus: the seed data a
// learner starts from and the fallback the reconciler returns whenever no
// usable snapshot has been persisted.
//
// The default corpus is embedded in the binary. LoadFile replaces it with a
// JSON or YAML file of the same shape.
package corpus
