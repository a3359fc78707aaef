// Package domain contains the core vocabulary entities and their invariants.
// It has no knowledge of how a corpus is stored, reconciled, or displayed.
package domain
