package extract

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registers as "sqlite".
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// walJournalSizeLimit caps the WAL journal at 64 MiB.
const walJournalSizeLimit = 67108864

// Store is the bookmark persistence contract the runner depends on.
// The engine core only consumes the read side; the runner (the surrounding
// framework) writes bookmarks after successful emission.
type Store interface {
	GetBookmark(ctx context.Context, stream, scope string) (time.Time, bool, error)
	SaveBookmark(ctx context.Context, stream, scope string, position time.Time) error
	BeginRun(ctx context.Context, id string) error
	FinishRun(ctx context.Context, id, status string, records int64, errMsg string) error
}

// Bookmark is one persisted high-water mark, as listed by the state CLI.
type Bookmark struct {
	Stream    string
	Scope     string
	Position  time.Time
	UpdatedAt time.Time
}

// RunRecord is one row of run history.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero when still running
	Status     string
	Records    int64
	Error      string
}

// SQLiteStore implements Store using an embedded SQLite database with WAL
// mode. Bookmarks and run history are persisted here.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger

	// Prepared statements for repeated queries, grouped by domain.
	bookmarkStmts bookmarkStatements
	runStmts      runStatements
}

type bookmarkStatements struct {
	get, save, list *sql.Stmt
}

type runStatements struct {
	begin, finish, list *sql.Stmt
}

// NewStore creates a SQLiteStore, opening the database at dbPath, applying
// migrations, and preparing all repeated statements.
func NewStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("opening state database", slog.String("path", dbPath))

	// First run on a fresh machine: the default path lives under the user
	// config directory, which may not exist yet.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("extract: create state directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("extract: open sqlite: %w", err)
	}

	if err := setPragmas(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db, logger: logger}

	if err := s.prepareAllStatements(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("extract: prepare statements: %w", err)
	}

	return s, nil
}

// Close releases prepared statements and the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// setPragmas configures SQLite for WAL mode and safety.
func setPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []struct {
		sql  string
		desc string
	}{
		{"PRAGMA journal_mode = WAL", "WAL mode"},
		{"PRAGMA synchronous = FULL", "synchronous FULL"},
		{"PRAGMA foreign_keys = ON", "foreign keys"},
		{fmt.Sprintf("PRAGMA journal_size_limit = %d", walJournalSizeLimit), "journal size limit"},
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.sql); err != nil {
			return fmt.Errorf("extract: set pragma %s: %w", p.desc, err)
		}
	}

	return nil
}

// runMigrations applies all pending schema migrations to the database.
// Uses the goose v3 Provider API (no global state, context-aware).
func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	// Strip the "migrations/" prefix so goose sees files at the root of the FS.
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("extract: creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("extract: creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("extract: running migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("applied migration",
			slog.String("source", r.Source.Path),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		)
	}

	return nil
}

// --- SQL query constants ---

const (
	sqlGetBookmark = `SELECT position FROM bookmarks
		WHERE stream = ? AND scope = ?`

	sqlSaveBookmark = `INSERT INTO bookmarks
		(stream, scope, position, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(stream, scope) DO UPDATE
		SET position = excluded.position, updated_at = excluded.updated_at`

	sqlListBookmarks = `SELECT stream, scope, position, updated_at
		FROM bookmarks ORDER BY stream, scope`

	sqlClearStreamBookmarks = `DELETE FROM bookmarks WHERE stream = ?`

	sqlClearAllBookmarks = `DELETE FROM bookmarks`
)

const (
	sqlBeginRun = `INSERT INTO runs (id, started_at) VALUES (?, ?)`

	sqlFinishRun = `UPDATE runs
		SET finished_at = ?, status = ?, records = ?, error = ?
		WHERE id = ?`

	sqlListRuns = `SELECT id, started_at, finished_at, status, records, error
		FROM runs ORDER BY started_at DESC LIMIT ?`
)

// stmtDef maps a SQL string to the prepared statement pointer it should
// populate, so batch preparation shares one error path.
type stmtDef struct {
	dest **sql.Stmt
	sql  string
	name string
}

func prepareAll(ctx context.Context, db *sql.DB, defs []stmtDef) error {
	for i := range defs {
		stmt, err := db.PrepareContext(ctx, defs[i].sql)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", defs[i].name, err)
		}

		*defs[i].dest = stmt
	}

	return nil
}

func (s *SQLiteStore) prepareAllStatements(ctx context.Context) error {
	if err := prepareAll(ctx, s.db, []stmtDef{
		{&s.bookmarkStmts.get, sqlGetBookmark, "getBookmark"},
		{&s.bookmarkStmts.save, sqlSaveBookmark, "saveBookmark"},
		{&s.bookmarkStmts.list, sqlListBookmarks, "listBookmarks"},
	}); err != nil {
		return err
	}

	return prepareAll(ctx, s.db, []stmtDef{
		{&s.runStmts.begin, sqlBeginRun, "beginRun"},
		{&s.runStmts.finish, sqlFinishRun, "finishRun"},
		{&s.runStmts.list, sqlListRuns, "listRuns"},
	})
}

// GetBookmark retrieves the persisted high-water mark for a (stream, scope)
// pair. ok is false when no bookmark exists. A stored position that fails
// to parse is reported as an error so the resolver can treat it as absent.
func (s *SQLiteStore) GetBookmark(ctx context.Context, stream, scope string) (time.Time, bool, error) {
	var raw string

	err := s.bookmarkStmts.get.QueryRowContext(ctx, stream, scope).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}

	if err != nil {
		return time.Time{}, false, fmt.Errorf("extract: get bookmark %s/%s: %w", stream, scope, err)
	}

	position, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("extract: malformed bookmark %s/%s: %w", stream, scope, err)
	}

	return position, true, nil
}

// SaveBookmark persists a high-water mark (insert or update).
func (s *SQLiteStore) SaveBookmark(ctx context.Context, stream, scope string, position time.Time) error {
	s.logger.Debug("saving bookmark",
		slog.String("stream", stream),
		slog.String("scope", scope),
		slog.Time("position", position),
	)

	_, err := s.bookmarkStmts.save.ExecContext(ctx,
		stream, scope, position.UTC().Format(time.RFC3339Nano), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("extract: save bookmark %s/%s: %w", stream, scope, err)
	}

	return nil
}

// ListBookmarks returns all persisted bookmarks. Rows whose stored position
// fails to parse are skipped with a warning rather than failing the listing.
func (s *SQLiteStore) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	rows, err := s.bookmarkStmts.list.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark

	for rows.Next() {
		var (
			b         Bookmark
			raw       string
			updatedAt int64
		)

		if err := rows.Scan(&b.Stream, &b.Scope, &raw, &updatedAt); err != nil {
			return nil, fmt.Errorf("extract: scan bookmark: %w", err)
		}

		position, parseErr := time.Parse(time.RFC3339Nano, raw)
		if parseErr != nil {
			s.logger.Warn("skipping malformed bookmark",
				slog.String("stream", b.Stream),
				slog.String("scope", b.Scope),
				slog.String("raw", raw),
			)

			continue
		}

		b.Position = position
		b.UpdatedAt = time.Unix(0, updatedAt)
		bookmarks = append(bookmarks, b)
	}

	return bookmarks, rows.Err()
}

// ClearBookmarks deletes bookmarks for one stream, or all bookmarks when
// stream is "". Returns the number of rows removed.
func (s *SQLiteStore) ClearBookmarks(ctx context.Context, stream string) (int64, error) {
	var (
		res sql.Result
		err error
	)

	if stream == "" {
		res, err = s.db.ExecContext(ctx, sqlClearAllBookmarks)
	} else {
		res, err = s.db.ExecContext(ctx, sqlClearStreamBookmarks, stream)
	}

	if err != nil {
		return 0, fmt.Errorf("extract: clear bookmarks: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("extract: clear bookmarks: %w", err)
	}

	return n, nil
}

// BeginRun records the start of an extraction run.
func (s *SQLiteStore) BeginRun(ctx context.Context, id string) error {
	_, err := s.runStmts.begin.ExecContext(ctx, id, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("extract: begin run %s: %w", id, err)
	}

	return nil
}

// FinishRun records the outcome of an extraction run.
func (s *SQLiteStore) FinishRun(ctx context.Context, id, status string, records int64, errMsg string) error {
	_, err := s.runStmts.finish.ExecContext(ctx, time.Now().UnixNano(), status, records, errMsg, id)
	if err != nil {
		return fmt.Errorf("extract: finish run %s: %w", id, err)
	}

	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.runStmts.list.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("extract: list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord

	for rows.Next() {
		var (
			r          RunRecord
			startedAt  int64
			finishedAt sql.NullInt64
		)

		if err := rows.Scan(&r.ID, &startedAt, &finishedAt, &r.Status, &r.Records, &r.Error); err != nil {
			return nil, fmt.Errorf("extract: scan run: %w", err)
		}

		r.StartedAt = time.Unix(0, startedAt)

		if finishedAt.Valid {
			r.FinishedAt = time.Unix(0, finishedAt.Int64)
		}

		runs = append(runs, r)
	}

	return runs, rows.Err()
}
