package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/tonimelisma/notion-go/internal/notion"
)

// PageFetcher returns one page of results for the given continuation cursor
// ("" requests the first page).
type PageFetcher func(ctx context.Context, cursor string) (*notion.Page, error)

// EmitFunc receives each record that passes filtering.
type EmitFunc func(rec notion.Record) error

// Paginator walks a cursor-paginated source, filtering records against an
// optional cutoff and stopping early once a fetched page proves that every
// remaining record is older than the cutoff.
//
// Precondition: when a cutoff is set, the source must return pages sorted
// newest-first by last_edited_time. The sort directive travels in the
// request; it cannot be verified here, only relied upon.
type Paginator struct {
	Fetch     PageFetcher
	Cutoff    time.Time
	HasCutoff bool
	Logger    *slog.Logger
}

// Run pages through the source until the cursor runs out or early
// termination fires, emitting each record that passes the cutoff filter.
// Any fetch error is fatal and propagated verbatim.
func (p *Paginator) Run(ctx context.Context, emit EmitFunc) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cursor := ""
	pages := 0
	emitted := 0

	for {
		page, err := p.Fetch(ctx, cursor)
		if err != nil {
			return err
		}

		pages++

		for _, rec := range page.Results {
			if !p.keep(rec, logger) {
				continue
			}

			if err := emit(rec); err != nil {
				return err
			}

			emitted++
		}

		if page.NextCursor == "" {
			break
		}

		if p.HasCutoff && p.pageOlderThanCutoff(page, logger) {
			logger.Debug("stopping pagination early",
				slog.Int("pages", pages),
				slog.Time("cutoff", p.Cutoff),
			)

			break
		}

		cursor = page.NextCursor
	}

	logger.Debug("pagination complete",
		slog.Int("pages", pages),
		slog.Int("emitted", emitted),
	)

	return nil
}

// keep reports whether a record passes the cutoff filter. Records whose
// ordering key is missing or unparsable are kept, since dropping them would be
// silent data loss on an unexpected source format. The boundary is strict:
// a key exactly equal to the cutoff is kept.
func (p *Paginator) keep(rec notion.Record, logger *slog.Logger) bool {
	if !p.HasCutoff {
		return true
	}

	raw := rec.LastEditedTime()
	if raw == "" {
		return true
	}

	ts, err := ParseBoundary(raw)
	if err != nil {
		logger.Warn("unparsable ordering key, keeping record",
			slog.String("record_id", rec.ID()),
			slog.String("raw", raw),
		)

		return true
	}

	return !ts.Before(p.Cutoff)
}

// pageOlderThanCutoff scans a page for the minimum parseable ordering key
// and reports whether it is strictly older than the cutoff. With pages
// sorted newest-first, every subsequent page is then guaranteed to be even
// older, so no further requests are needed. A page with no parseable keys
// at all never triggers termination.
func (p *Paginator) pageOlderThanCutoff(page *notion.Page, logger *slog.Logger) bool {
	var oldest time.Time

	seen := false

	for _, rec := range page.Results {
		raw := rec.LastEditedTime()
		if raw == "" {
			continue
		}

		ts, err := ParseBoundary(raw)
		if err != nil {
			continue
		}

		if !seen || ts.Before(oldest) {
			oldest = ts
			seen = true
		}
	}

	if !seen {
		logger.Debug("page has no parseable ordering keys, continuing pagination")
		return false
	}

	return oldest.Before(p.Cutoff)
}
