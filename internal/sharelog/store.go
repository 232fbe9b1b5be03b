package sharelog

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/kylescorner/corner/internal/db"
	"github.com/kylescorner/corner/internal/statecodec"
)

// Store manages persistence of share history.
type Store struct {
	db *db.DB
}

// NewStore creates a new share history store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// EntryFromResult builds an entry from a composed share URL.
func EntryFromResult(res statecodec.ShareResult, registrySize int, source Source) Entry {
	q := res.Query
	if q == nil {
		q = url.Values{}
	}
	return Entry{
		URL:          res.URL,
		Filters:      q.Get(statecodec.ParamFilters),
		Manual:       q.Get(statecodec.ParamManual),
		Random:       q.Get(statecodec.ParamRandom),
		RegistrySize: registrySize,
		Source:       source,
		Copied:       res.Copied,
	}
}

// Record stores a new entry, assigning its ID and timestamp.
func (s *Store) Record(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Source == "" {
		e.Source = SourceCLI
	}
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO share_links (id, url, filters, manual, random, registry_size, source, copied, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.URL, e.Filters, e.Manual, e.Random, e.RegistrySize, e.Source, e.Copied, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting share link: %w", err)
	}
	return &e, nil
}

// GetByID retrieves an entry by its ID. It returns nil, nil when missing.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, filters, manual, random, registry_size, source, copied, created_at
		 FROM share_links WHERE id = ?`, id)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting share link: %w", err)
	}
	return e, nil
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	query := `SELECT id, url, filters, manual, random, registry_size, source, copied, created_at
		 FROM share_links WHERE 1=1`
	args := []interface{}{}

	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing share links: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning share link: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM share_links`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var e Entry
	if err := sc.Scan(&e.ID, &e.URL, &e.Filters, &e.Manual, &e.Random, &e.RegistrySize, &e.Source, &e.Copied, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
