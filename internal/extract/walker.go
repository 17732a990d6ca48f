package extract

import (
	"context"
	"log/slog"

	"github.com/tonimelisma/notion-go/internal/notion"
)

// NodeFetcher returns one page of a node's children
// ("" cursor requests the first page).
type NodeFetcher func(ctx context.Context, nodeID, cursor string) (*notion.Page, error)

// Walker performs a depth-first pre-order traversal of a block tree whose
// shape is discovered lazily from the source: a node's children exist only
// by fetching its paginated child listing, and the traversal descends only
// where an item's has_children flag says descendants exist.
//
// Every visited node is enriched with its root ancestor (_root_id) and,
// below the top level, its immediate parent (_parent_id); both fields are
// set-if-absent and never overwritten by a more distant ancestor.
//
// Only the containment tree is walked. Reference blocks that point at an
// unrelated page (link_to_page) report has_children false and are never
// dereferenced, which is the sole cycle-avoidance rule.
type Walker struct {
	Fetch  NodeFetcher
	Logger *slog.Logger
}

// frame is one suspended traversal position: a node whose child listing is
// being consumed, holding any unvisited items from the last fetched page
// and the cursor for the next one. An explicit stack of frames keeps
// memory bounded regardless of tree depth.
type frame struct {
	nodeID   string
	parentID string // stamped on items fetched in this frame; "" at the root
	pending  []notion.Record
	cursor   string
	drained  bool // no further pages once pending is consumed
}

// Walk emits every descendant of rootID exactly once, in pre-order
// (ancestors before descendants, a subtree before the next sibling).
// An empty rootID yields an empty result. Any fetch error aborts the whole
// traversal: a skipped subtree would silently under-report data with no
// signal to the caller.
func (w *Walker) Walk(ctx context.Context, rootID string, emit EmitFunc) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if rootID == "" {
		logger.Debug("no traversal root, nothing to walk")
		return nil
	}

	stack := []*frame{{nodeID: rootID}}
	visited := 0

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if len(f.pending) == 0 {
			if f.drained {
				stack = stack[:len(stack)-1]
				continue
			}

			page, err := w.Fetch(ctx, f.nodeID, f.cursor)
			if err != nil {
				return err
			}

			f.pending = page.Results
			f.cursor = page.NextCursor
			f.drained = page.NextCursor == ""

			continue
		}

		rec := f.pending[0]
		f.pending = f.pending[1:]

		rec.SetIfAbsent(notion.FieldRootID, rootID)

		if f.parentID != "" {
			rec.SetIfAbsent(notion.FieldParentID, f.parentID)
		}

		if err := emit(rec); err != nil {
			return err
		}

		visited++

		// Descend before the next sibling. The has_children flag is read
		// once per item, never re-queried.
		if rec.HasChildren() {
			if id := rec.ID(); id != "" {
				stack = append(stack, &frame{nodeID: id, parentID: id})
			}
		}
	}

	logger.Debug("traversal complete",
		slog.String("root_id", rootID),
		slog.Int("visited", visited),
	)

	return nil
}
