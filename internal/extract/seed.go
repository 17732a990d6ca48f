package extract

import "github.com/tonimelisma/notion-go/internal/notion"

// PageSeed derives the addressing id a dependent block traversal starts
// from. Only page records seed traversals: databases, users, and other
// object kinds have no block children. The test is a pure discriminator:
// it issues no I/O and is independent of whether the record passed the
// cutoff filter.
func PageSeed(rec notion.Record) (string, bool) {
	if rec.Object() != "page" {
		return "", false
	}

	id := rec.ID()
	if id == "" {
		return "", false
	}

	return id, true
}
