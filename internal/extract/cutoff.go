// Package extract implements the incremental pagination and block-tree
// traversal engine: cutoff resolution, cursor walking with early
// termination, and depth-first traversal with lineage enrichment.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Timestamp layouts accepted for start boundaries and ordering keys,
// beyond RFC 3339: a bare date (UTC midnight) and an offset-less
// timestamp (assumed UTC). The fractional-second element is optional.
const (
	dateOnlyLayout = "2006-01-02"
	naiveLayout    = "2006-01-02T15:04:05.999999999"
)

// errEmptyTimestamp is returned by ParseBoundary for blank input.
var errEmptyTimestamp = errors.New("extract: empty timestamp")

// ParseBoundary parses a start boundary or ordering-key string into a
// timezone-normalized UTC instant. Accepted forms: YYYY-MM-DD (interpreted
// as UTC midnight), RFC 3339 with Z or an explicit numeric offset, and an
// ISO timestamp without an offset (assumed UTC).
func ParseBoundary(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}

	if len(s) == len(dateOnlyLayout) && !strings.Contains(s, "T") {
		t, err := time.Parse(dateOnlyLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("extract: parsing date %q: %w", raw, err)
		}

		return t.UTC(), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	if t, err := time.Parse(naiveLayout, s); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("extract: unrecognized timestamp %q", raw)
}

// BookmarkLookup reads the persisted high-water mark for the current
// (stream, context) pair. ok is false when no bookmark exists; absence
// is data, not a failure.
type BookmarkLookup func() (position time.Time, ok bool, err error)

// ResolveCutoff computes the effective watermark for a sync run.
// A persisted bookmark strictly takes precedence over the configured start
// boundary; the two are never merged or compared. Lookup failures and
// unparsable boundaries degrade to "no cutoff": the run syncs more data
// than strictly necessary rather than failing or dropping records.
func ResolveCutoff(lookup BookmarkLookup, startBoundary string, logger *slog.Logger) (time.Time, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	if lookup != nil {
		position, ok, err := lookup()
		if err != nil {
			logger.Warn("bookmark lookup failed, falling back to start boundary",
				slog.String("error", err.Error()),
			)
		} else if ok {
			return position.UTC(), true
		}
	}

	if startBoundary == "" {
		return time.Time{}, false
	}

	cutoff, err := ParseBoundary(startBoundary)
	if err != nil {
		logger.Warn("unparsable start boundary, syncing without cutoff",
			slog.String("start_boundary", startBoundary),
			slog.String("error", err.Error()),
		)

		return time.Time{}, false
	}

	return cutoff, true
}
