package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
)

// SaveResult is the outcome of a successful save.
type SaveResult struct {
	Entry Entry `json:"entry"`
	// Deactivated counts the sibling entries that lost their active flag.
	Deactivated int64 `json:"deactivated"`
}

// Option configures a Store.
type Option func(*Store)

// WithFetcher replaces the HTTP fetcher used on save.
func WithFetcher(fetcher Fetcher) Option {
	return func(s *Store) {
		if fetcher != nil {
			s.fetcher = fetcher
		}
	}
}

// WithLogger sets the logger. By default, all logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store persists library entries and enforces that at most one entry per
// library is active.
type Store struct {
	db             *sql.DB
	fetcher        Fetcher
	logger         *slog.Logger
	stmtGet        *sql.Stmt
	stmtList       *sql.Stmt
	stmtActive     *sql.Stmt
	stmtAllActive  *sql.Stmt
	stmtInsert     *sql.Stmt
	stmtUpdate     *sql.Stmt
	stmtDeactivate *sql.Stmt
	stmtDelete     *sql.Stmt
}

const entryColumns = `id, library, version, url_pattern, url, integrity, active`

// NewStore prepares all statements used by the store. SetupSchema must have
// been called on db.
func NewStore(db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{
		db:      db,
		fetcher: HTTPFetcher{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	prepare := func(query string) *sql.Stmt {
		if err != nil {
			return nil
		}
		var stmt *sql.Stmt
		stmt, err = db.Prepare(query)
		return stmt
	}

	s.stmtGet = prepare(`SELECT ` + entryColumns + ` FROM library_entries WHERE id = ?;`)
	s.stmtList = prepare(`SELECT ` + entryColumns + ` FROM library_entries ORDER BY library, id;`)
	s.stmtActive = prepare(`SELECT ` + entryColumns + ` FROM library_entries WHERE library = ? AND active = 1 ORDER BY id DESC LIMIT 1;`)
	s.stmtAllActive = prepare(`SELECT ` + entryColumns + ` FROM library_entries WHERE active = 1 ORDER BY id;`)
	s.stmtInsert = prepare(`INSERT INTO library_entries (library, version, url_pattern, url, integrity, active) VALUES (?, ?, ?, ?, ?, ?) RETURNING id;`)
	s.stmtUpdate = prepare(`UPDATE library_entries SET library = ?, version = ?, url_pattern = ?, url = ?, integrity = ?, active = ? WHERE id = ?;`)
	s.stmtDeactivate = prepare(`UPDATE library_entries SET active = 0 WHERE library = ? AND active = 1 AND id != ?;`)
	s.stmtDelete = prepare(`DELETE FROM library_entries WHERE id = ?;`)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("could not prepare statement: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{
		s.stmtGet, s.stmtList, s.stmtActive, s.stmtAllActive,
		s.stmtInsert, s.stmtUpdate, s.stmtDeactivate, s.stmtDelete,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var lib string
	if err := row.Scan(&e.ID, &lib, &e.Version, &e.URLPattern, &e.URL, &e.Integrity, &e.Active); err != nil {
		return Entry{}, err
	}
	e.Library = bootstrap.Library(lib)
	return e, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	e, err := scanEntry(s.stmtGet.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// List returns every entry grouped by library, newest version first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.query(ctx, s.stmtList)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Library != entries[j].Library {
			return entries[i].Library < entries[j].Library
		}
		return compareVersions(entries[i].Version, entries[j].Version) > 0
	})
	return entries, nil
}

// Active returns the active entry of a library.
func (s *Store) Active(ctx context.Context, lib bootstrap.Library) (Entry, error) {
	e, err := scanEntry(s.stmtActive.QueryRowContext(ctx, string(lib)))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// ActiveEntries returns the active entry of every library that has one.
func (s *Store) ActiveEntries(ctx context.Context) ([]bootstrap.ActiveEntry, error) {
	entries, err := s.query(ctx, s.stmtAllActive)
	if err != nil {
		return nil, err
	}
	active := make([]bootstrap.ActiveEntry, len(entries))
	for i, e := range entries {
		active[i] = e.ActiveEntry()
	}
	return active, nil
}

func (s *Store) query(ctx context.Context, stmt *sql.Stmt) ([]Entry, error) {
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Save validates the entry, fetches its URL to compute the integrity hash and
// stores it. An entry with ID 0 is inserted, any other ID updates the
// existing row. When the entry is active, every other entry of the same
// library is deactivated in the same transaction.
//
// Validation and fetch failures are reported before the transaction starts,
// so a failed save never changes the stored row.
func (s *Store) Save(ctx context.Context, e Entry) (SaveResult, error) {
	resolved, err := e.Resolve()
	if err != nil {
		return SaveResult{}, err
	}
	if e.ID != 0 {
		if _, err = s.Get(ctx, e.ID); err != nil {
			return SaveResult{}, err
		}
	}

	body, err := s.fetcher.Fetch(ctx, resolved)
	if err != nil {
		s.logger.WarnContext(ctx, "Library entry fetch failed",
			slog.String("library", string(e.Library)),
			slog.String("url", resolved),
			slog.Any("error", err),
		)
		return SaveResult{}, err
	}
	e.URL = resolved
	e.Integrity = Integrity(body)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveResult{}, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var deactivated int64
	if e.Active {
		// The first write takes the database write lock, so no other save can
		// activate a sibling before this transaction commits.
		res, err := tx.StmtContext(ctx, s.stmtDeactivate).ExecContext(ctx, string(e.Library), e.ID)
		if err != nil {
			return SaveResult{}, fmt.Errorf("could not deactivate %s entries: %w", e.Library, err)
		}
		if deactivated, err = res.RowsAffected(); err != nil {
			return SaveResult{}, err
		}
	}

	if e.ID == 0 {
		err = tx.StmtContext(ctx, s.stmtInsert).QueryRowContext(ctx,
			string(e.Library), e.Version, e.URLPattern, e.URL, e.Integrity, e.Active,
		).Scan(&e.ID)
		if err != nil {
			return SaveResult{}, fmt.Errorf("could not insert entry: %w", err)
		}
	} else {
		res, err := tx.StmtContext(ctx, s.stmtUpdate).ExecContext(ctx,
			string(e.Library), e.Version, e.URLPattern, e.URL, e.Integrity, e.Active, e.ID,
		)
		if err != nil {
			return SaveResult{}, fmt.Errorf("could not update entry %d: %w", e.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return SaveResult{}, err
		} else if n == 0 {
			return SaveResult{}, ErrNotFound
		}
	}

	if err = tx.Commit(); err != nil {
		return SaveResult{}, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Library entry saved",
		slog.Int64("id", e.ID),
		slog.String("library", string(e.Library)),
		slog.String("url", e.URL),
		slog.Bool("active", e.Active),
		slog.Int64("deactivated", deactivated),
	)
	return SaveResult{Entry: e, Deactivated: deactivated}, nil
}

// Delete removes an entry.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.stmtDelete.ExecContext(ctx, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.logger.InfoContext(ctx, "Library entry deleted", slog.Int64("id", id))
	return nil
}
