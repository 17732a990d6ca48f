package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tonimelisma/notion-go/internal/notion"
)

// Stream names, in run order. Parent enumerations run before their
// dependents: search seeds pages and page_blocks, pages_index seeds
// block_children.
const (
	StreamUsers         = "users"
	StreamSearch        = "search"
	StreamPages         = "pages"
	StreamPageBlocks    = "page_blocks"
	StreamPagesIndex    = "pages_index"
	StreamBlockChildren = "block_children"
)

// StreamNames lists every extractable stream in run order.
func StreamNames() []string {
	return []string{
		StreamUsers,
		StreamSearch,
		StreamPages,
		StreamPageBlocks,
		StreamPagesIndex,
		StreamBlockChildren,
	}
}

// IncrementalStreams maps stream names to their replication key, for the
// streams CLI. Streams not listed here are full-table on every run.
var IncrementalStreams = map[string]string{
	StreamSearch: "last_edited_time",
}

// Options configures one extraction run.
type Options struct {
	Streams      []string // stream selection; empty means all
	StartDate    string   // configured start boundary (date or timestamp)
	PageSize     int      // page-size hint, 0 for the API default
	FilterObject string   // search object-kind filter, forwarded verbatim
	Query        string   // search text query, forwarded verbatim
}

// Runner orchestrates a full extraction: it resolves cutoffs, drives
// pagination and traversal, fans parent records out to dependent streams,
// and writes bookmarks after successful emission. Runs single-threaded,
// with one outstanding network call at a time.
type Runner struct {
	client  *notion.Client
	store   Store
	emitter Emitter
	opts    Options
	logger  *slog.Logger

	selected map[string]bool
	emitted  int64
}

// NewRunner creates a Runner. store may be nil, in which case bookmarks
// are neither read nor written and every run is a full sync.
func NewRunner(client *notion.Client, store Store, emitter Emitter, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	selected := make(map[string]bool)

	if len(opts.Streams) == 0 {
		for _, name := range StreamNames() {
			selected[name] = true
		}
	} else {
		for _, name := range opts.Streams {
			selected[name] = true
		}
	}

	return &Runner{
		client:   client,
		store:    store,
		emitter:  emitter,
		opts:     opts,
		logger:   logger,
		selected: selected,
	}
}

// Run executes the extraction and records the outcome in run history.
// The first transport error aborts the run; everything else degrades
// toward syncing more data than strictly necessary.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()

	r.logger.Info("starting extraction run",
		slog.String("run_id", runID),
		slog.Any("streams", r.streamList()),
	)

	if r.store != nil {
		if err := r.store.BeginRun(ctx, runID); err != nil {
			return err
		}
	}

	err := r.runStreams(ctx)

	if r.store != nil {
		status := "succeeded"
		errMsg := ""

		if err != nil {
			status = "failed"
			errMsg = err.Error()
		}

		if finishErr := r.store.FinishRun(ctx, runID, status, r.emitted, errMsg); finishErr != nil {
			r.logger.Warn("recording run outcome failed", slog.String("error", finishErr.Error()))
		}
	}

	if err != nil {
		return err
	}

	r.logger.Info("extraction run complete",
		slog.String("run_id", runID),
		slog.Int64("records", r.emitted),
	)

	return nil
}

func (r *Runner) streamList() []string {
	var names []string

	for _, name := range StreamNames() {
		if r.selected[name] {
			names = append(names, name)
		}
	}

	return names
}

func (r *Runner) runStreams(ctx context.Context) error {
	if r.selected[StreamUsers] {
		if err := r.runUsers(ctx); err != nil {
			return err
		}
	}

	if r.selected[StreamSearch] || r.selected[StreamPages] || r.selected[StreamPageBlocks] {
		if err := r.runSearch(ctx); err != nil {
			return err
		}
	}

	if r.selected[StreamPagesIndex] || r.selected[StreamBlockChildren] {
		if err := r.runPagesIndex(ctx); err != nil {
			return err
		}
	}

	return nil
}

// emit forwards a record to the emitter and counts it.
func (r *Runner) emit(stream string, rec notion.Record) error {
	if err := r.emitter.Emit(stream, rec); err != nil {
		return err
	}

	r.emitted++

	return nil
}

// runUsers enumerates the workspace users stream: full table, standard
// envelope pagination, no cutoff.
func (r *Runner) runUsers(ctx context.Context) error {
	pag := Paginator{
		Fetch: func(ctx context.Context, cursor string) (*notion.Page, error) {
			return r.client.ListUsers(ctx, r.opts.PageSize, cursor)
		},
		Logger: r.logger.With(slog.String("stream", StreamUsers)),
	}

	return pag.Run(ctx, func(rec notion.Record) error {
		return r.emit(StreamUsers, rec)
	})
}

// runSearch drives the incremental workspace search stream and fans each
// emitted page record out to the pages and page_blocks dependents.
func (r *Runner) runSearch(ctx context.Context) error {
	logger := r.logger.With(slog.String("stream", StreamSearch))

	var lookup BookmarkLookup
	if r.store != nil {
		lookup = func() (time.Time, bool, error) {
			return r.store.GetBookmark(ctx, StreamSearch, "")
		}
	}

	cutoff, hasCutoff := ResolveCutoff(lookup, r.opts.StartDate, logger)

	if hasCutoff {
		logger.Info("incremental sync", slog.Time("cutoff", cutoff))
	} else {
		logger.Info("full sync, no cutoff")
	}

	pag := Paginator{
		Fetch: func(ctx context.Context, cursor string) (*notion.Page, error) {
			return r.client.Search(ctx, notion.SearchRequest{
				Query:        r.opts.Query,
				FilterObject: r.opts.FilterObject,
				PageSize:     r.opts.PageSize,
				Cursor:       cursor,
			})
		},
		Cutoff:    cutoff,
		HasCutoff: hasCutoff,
		Logger:    logger,
	}

	var (
		maxSeen time.Time
		haveMax bool
	)

	err := pag.Run(ctx, func(rec notion.Record) error {
		if r.selected[StreamSearch] {
			if err := r.emit(StreamSearch, rec); err != nil {
				return err
			}

			if ts, parseErr := ParseBoundary(rec.LastEditedTime()); parseErr == nil {
				if !haveMax || ts.After(maxSeen) {
					maxSeen = ts
					haveMax = true
				}
			}
		}

		seed, ok := PageSeed(rec)
		if !ok {
			return nil
		}

		if r.selected[StreamPages] {
			if err := r.runPageDetails(ctx, seed); err != nil {
				return err
			}
		}

		if r.selected[StreamPageBlocks] {
			if err := r.runPageBlocks(ctx, seed); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	// Bookmark write happens only after the whole stream emitted cleanly:
	// max replication-key value observed in this run.
	if r.store != nil && r.selected[StreamSearch] && haveMax {
		if err := r.store.SaveBookmark(ctx, StreamSearch, "", maxSeen); err != nil {
			return err
		}
	}

	return nil
}

// runPageDetails fetches full metadata for one page seed.
func (r *Runner) runPageDetails(ctx context.Context, pageID string) error {
	rec, err := r.client.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("fetching page %s: %w", pageID, err)
	}

	return r.emit(StreamPages, rec)
}

// runPageBlocks enumerates one level of a page's blocks, without recursion.
// Each block carries the originating page id for lineage.
func (r *Runner) runPageBlocks(ctx context.Context, pageID string) error {
	pag := Paginator{
		Fetch: func(ctx context.Context, cursor string) (*notion.Page, error) {
			return r.client.BlockChildren(ctx, pageID, r.opts.PageSize, cursor)
		},
		Logger: r.logger.With(slog.String("stream", StreamPageBlocks)),
	}

	return pag.Run(ctx, func(rec notion.Record) error {
		rec.SetIfAbsent(notion.FieldRootID, pageID)
		return r.emit(StreamPageBlocks, rec)
	})
}

// runPagesIndex enumerates every accessible page regardless of cutoff or
// state, and walks the full block tree of each. The index guarantees that
// block_children covers all pages even when search is synced incrementally.
func (r *Runner) runPagesIndex(ctx context.Context) error {
	logger := r.logger.With(slog.String("stream", StreamPagesIndex))

	pag := Paginator{
		Fetch: func(ctx context.Context, cursor string) (*notion.Page, error) {
			return r.client.Search(ctx, notion.SearchRequest{
				FilterObject: "page",
				PageSize:     r.opts.PageSize,
				Cursor:       cursor,
			})
		},
		Logger: logger,
	}

	walker := Walker{
		Fetch: func(ctx context.Context, nodeID, cursor string) (*notion.Page, error) {
			return r.client.BlockChildren(ctx, nodeID, r.opts.PageSize, cursor)
		},
		Logger: r.logger.With(slog.String("stream", StreamBlockChildren)),
	}

	return pag.Run(ctx, func(rec notion.Record) error {
		if r.selected[StreamPagesIndex] {
			if err := r.emit(StreamPagesIndex, rec); err != nil {
				return err
			}
		}

		seed, ok := PageSeed(rec)
		if !ok || !r.selected[StreamBlockChildren] {
			return nil
		}

		return walker.Walk(ctx, seed, func(block notion.Record) error {
			return r.emit(StreamBlockChildren, block)
		})
	})
}
