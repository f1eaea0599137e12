// dedupe.go
package migration

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultIDOverrides is the static remap table carried over from the
// legacy fixtures. Keys are legacy IDs known to duplicate another record;
// values are the legacy ID of the record that must survive deduplication.
var DefaultIDOverrides = map[string]string{
	"aeropress":      "gear6",
	"v60-dripper":    "gear2",
	"user-cafe-luna": "business-2",
}

// DedupeResult is the audit-friendly outcome of one dedupe pass.
type DedupeResult[T any] struct {
	Canonical []T
	Removed   []T
	// Remapped maps each removed record's legacy ID to the canonical
	// record's legacy ID. References into the removed set must be
	// rewritten through this table before migration.
	Remapped map[string]string
}

// Dedupe groups records by keyFn and keeps exactly one record per group.
// The tie-break inside a group of size > 1: a record whose ID is a target
// of the overrides table wins; otherwise the first record in input order.
// Records with an empty key and singleton groups pass through unchanged,
// and input order is preserved.
func Dedupe[T any](records []T, keyFn func(T) string, idFn func(T) string, overrides map[string]string) DedupeResult[T] {
	result := DedupeResult[T]{
		Remapped: make(map[string]string),
	}

	overrideTargets := make(map[string]bool, len(overrides))
	for _, target := range overrides {
		overrideTargets[target] = true
	}

	groups := make(map[string][]T)
	order := make([]string, 0, len(records))
	var keyless []T

	for _, rec := range records {
		key := keyFn(rec)
		if key == "" {
			keyless = append(keyless, rec)
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			result.Canonical = append(result.Canonical, group[0])
			continue
		}

		canonical := group[0]
		for _, rec := range group {
			if overrideTargets[idFn(rec)] {
				canonical = rec
				break
			}
		}

		result.Canonical = append(result.Canonical, canonical)
		for _, rec := range group {
			if idFn(rec) == idFn(canonical) {
				continue
			}
			result.Removed = append(result.Removed, rec)
			result.Remapped[idFn(rec)] = idFn(canonical)
		}
	}

	result.Canonical = append(result.Canonical, keyless...)
	return result
}

// SuspectPair is a near-duplicate candidate flagged for manual review.
type SuspectPair struct {
	A     string
	B     string
	Score int
}

const suspectMinScore = 40

// SuspectDuplicates runs a fuzzy pass over names that survived exact-key
// deduplication and reports close matches. It never removes anything; the
// pairs go into the verification log for an operator to review.
func SuspectDuplicates(names []string) []SuspectPair {
	var pairs []SuspectPair

	for i, name := range names {
		rest := names[i+1:]
		lowered := make([]string, len(rest))
		for j, n := range rest {
			lowered[j] = strings.ToLower(n)
		}

		matches := fuzzy.Find(strings.ToLower(name), lowered)
		for _, m := range matches {
			other := rest[m.Index]
			if strings.EqualFold(name, other) || m.Score < suspectMinScore {
				continue
			}
			pairs = append(pairs, SuspectPair{A: name, B: other, Score: m.Score})
		}
	}

	return pairs
}
