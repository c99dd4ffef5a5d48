package match

import (
	"episync/internal/index"
	"episync/internal/media"
)

// Decision classifies what should happen to one source file.
type Decision int

const (
	// Move applies to the canonical file of a key absent from the target.
	Move Decision = iota
	// SkipDuplicateInSource applies to every non-canonical file of a key.
	// Moving more than one file per key would leave future runs with an
	// ambiguous match, so duplicates always stay behind.
	SkipDuplicateInSource
	// SkipExistsInTarget applies when the target already holds the key.
	SkipExistsInTarget
)

func (d Decision) String() string {
	switch d {
	case Move:
		return "move"
	case SkipDuplicateInSource:
		return "duplicate in source"
	case SkipExistsInTarget:
		return "episode already in target"
	default:
		return "unknown"
	}
}

// Plan is one decided source file.
type Plan struct {
	Path     string
	Key      media.Key
	Decision Decision
}

// Decide compares the source index against the target index and produces
// one Plan per indexed source file, in deterministic order: keys sorted by
// show, code, and type; within a key the canonical file first, then the
// remaining duplicates in path order.
//
// The canonical file of a key is the one with the highest preference score;
// ties go to the lexicographically smallest path.
func Decide(source, target index.FileIndex) []Plan {
	var plans []Plan

	for _, key := range source.Keys() {
		entries := source[key]
		canonical := canonicalIndex(entries)

		eligible := Move
		if _, exists := target[key]; exists {
			eligible = SkipExistsInTarget
		}
		plans = append(plans, Plan{Path: entries[canonical].Path, Key: key, Decision: eligible})

		for i, e := range entries {
			if i == canonical {
				continue
			}
			plans = append(plans, Plan{Path: e.Path, Key: key, Decision: SkipDuplicateInSource})
		}
	}
	return plans
}

// canonicalIndex picks the entry eligible to move. Entries arrive sorted by
// path, so the first highest-scored entry is the smallest-path tiebreak.
func canonicalIndex(entries []index.Entry) int {
	best := 0
	for i, e := range entries {
		if e.Score > entries[best].Score {
			best = i
		}
	}
	return best
}
