package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	domain "github.com/mfinch/furniture-watch/pkg/types"
)

// Timestamps are stored as UTC RFC 3339 text. The original deployment
// wrote ISO 8601 strings, which RFC 3339 parses cleanly.
const timeLayout = time.RFC3339

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// SQLiteStore implements Store on a single local database file. The
// workload is append-mostly single-writer, so the pool is capped at one
// connection and SQLite's busy timeout covers the rare concurrent re-run.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database file at path.
func NewSQLiteStore(ctx context.Context, path string, busyTimeout time.Duration) (*SQLiteStore, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		path, busyTimeout.Milliseconds(),
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database %s: %w", path, err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.db)
}

// InsertListings bulk-inserts listings inside one transaction. Existing
// rows are ignored entirely: no column is updated, and alert_sent_dt is
// never cleared by a re-scrape.
func (s *SQLiteStore) InsertListings(ctx context.Context, listings []domain.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, queryInsertListing)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeLayout)

	var inserted int
	for i := range listings {
		l := &listings[i]
		res, err := stmt.ExecContext(ctx,
			l.ID, string(l.Category), nullString(l.Title), l.Sold,
			nullFloat(l.Price), l.URL, now,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting listing %s: %w", l.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing insert transaction: %w", err)
	}

	return inserted, nil
}

// ListUnalerted returns never-alerted, unsold items of the category in
// first-seen order.
func (s *SQLiteStore) ListUnalerted(ctx context.Context, category domain.Category) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, queryListUnalerted, string(category))
	if err != nil {
		return nil, fmt.Errorf("querying unalerted items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// MarkAlerted sets alert_sent_dt for one item.
func (s *SQLiteStore) MarkAlerted(ctx context.Context, id string, t time.Time) error {
	res, err := s.db.ExecContext(ctx, queryMarkAlerted, t.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("marking item %s alerted: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("marking item %s alerted: %w", id, ErrNotFound)
	}

	return nil
}

// GetItem retrieves one item by id.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx, queryGetItem, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item %s: %w", id, err)
	}
	return item, nil
}

// ListItems returns stored items, newest first, optionally filtered by
// category.
func (s *SQLiteStore) ListItems(ctx context.Context, category *domain.Category, limit int) ([]domain.Item, error) {
	filter := ""
	if category != nil {
		filter = string(*category)
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, queryListItems, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// CountItems returns total and never-alerted item counts.
func (s *SQLiteStore) CountItems(ctx context.Context) (int, int, error) {
	var total int
	var unalerted sql.NullInt64
	err := s.db.QueryRowContext(ctx, queryCountItems).Scan(&total, &unalerted)
	if err != nil {
		return 0, 0, fmt.Errorf("counting items: %w", err)
	}
	return total, int(unalerted.Int64), nil
}

// InsertJobRun opens a run record and returns its id.
func (s *SQLiteStore) InsertJobRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(timeLayout)

	_, err := s.db.ExecContext(ctx, queryInsertJobRun, id, now, domain.JobRunStatusRunning)
	if err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}

	return id, nil
}

// CompleteJobRun closes a run record with its outcome and counters.
func (s *SQLiteStore) CompleteJobRun(ctx context.Context, id, status, errText string, listingsSeen, newItems, alertsSent int) error {
	now := time.Now().UTC().Format(timeLayout)

	_, err := s.db.ExecContext(ctx, queryCompleteJobRun,
		now, status, errText, listingsSeen, newItems, alertsSent, id,
	)
	if err != nil {
		return fmt.Errorf("completing job run %s: %w", id, err)
	}

	return nil
}

// ListJobRuns returns recent runs, newest first.
func (s *SQLiteStore) ListJobRuns(ctx context.Context, limit int) ([]domain.JobRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, queryListJobRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var (
			r           domain.JobRun
			startedAt   string
			completedAt sql.NullString
			errText     sql.NullString
		)
		if err := rows.Scan(
			&r.ID, &startedAt, &completedAt, &r.Status, &errText,
			&r.ListingsSeen, &r.NewItems, &r.AlertsSent,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}

		if r.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parsing job run start time: %w", err)
		}
		if completedAt.Valid {
			t, err := time.Parse(timeLayout, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing job run completion time: %w", err)
			}
			r.CompletedAt = &t
		}
		r.ErrorText = errText.String

		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job runs: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item        domain.Item
		category    string
		title       sql.NullString
		price       sql.NullFloat64
		firstSeen   string
		alertSentDt sql.NullString
	)

	err := row.Scan(
		&item.ID, &category, &title, &item.Sold, &price, &item.URL,
		&firstSeen, &alertSentDt,
	)
	if err != nil {
		return nil, err
	}

	item.Category = domain.Category(category)
	if title.Valid {
		item.Title = &title.String
	}
	if price.Valid {
		item.Price = &price.Float64
	}
	if item.FirstSeenAt, err = time.Parse(timeLayout, firstSeen); err != nil {
		return nil, fmt.Errorf("parsing first_seen_at: %w", err)
	}
	if alertSentDt.Valid {
		t, err := time.Parse(timeLayout, alertSentDt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing alert_sent_dt: %w", err)
		}
		item.AlertSentAt = &t
	}

	return &item, nil
}

func scanItems(rows *sql.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
