// Package store keeps the movie selected on the catalog page until the
// search page reads it. Every entry is read at most once.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/handsomefox/movie-sentiment/internal/catalog"

	_ "modernc.org/sqlite"
)

const (
	DefaultTTL = 10 * time.Minute

	// Fixed width so created_at compares correctly as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned by Take when the token is unknown, was already
// taken or has expired.
var ErrNotFound = errors.New("handoff not found")

// Handoffs is a key-value store with delete-on-read semantics.
type Handoffs interface {
	Put(ctx context.Context, token string, movie catalog.Movie) error
	Take(ctx context.Context, token string) (catalog.Movie, error)
	Close() error
}

type Store struct {
	sqldb *sql.DB
	db    *bun.DB
	ttl   time.Duration
	now   func() time.Time
}

var _ Handoffs = (*Store)(nil)

type Handoff struct {
	bun.BaseModel `bun:"table:handoffs,alias:h"`

	Token     string  `bun:"token,pk"`
	MovieID   string  `bun:"movie_id,notnull"`
	Title     string  `bun:"title,notnull"`
	Year      int64   `bun:"year"`
	Genre     string  `bun:"genre"`
	Rating    float64 `bun:"rating"`
	CreatedAt string  `bun:"created_at,notnull"`
}

// Open opens (or creates) the SQLite database at dbPath. ":memory:" keeps
// everything in process.
func Open(dbPath string, ttl time.Duration) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("HANDOFF_DB is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if !strings.HasPrefix(dbPath, ":memory:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	sqldb, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases shared and serialises
	// writers.
	sqldb.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := sqldb.PingContext(ctx); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("ping db: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	if err := initSchema(ctx, sqldb); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("init schema: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	return &Store{sqldb: sqldb, db: bdb, ttl: ttl, now: time.Now}, nil
}

func (s *Store) Close() error { return s.sqldb.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS handoffs (
	token TEXT PRIMARY KEY,
	movie_id TEXT NOT NULL,
	title TEXT NOT NULL,
	year INTEGER,
	genre TEXT,
	rating REAL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_handoffs_created_at ON handoffs(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Put stores movie under token, replacing any previous entry, and drops
// expired entries.
func (s *Store) Put(ctx context.Context, token string, movie catalog.Movie) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is required")
	}
	now := s.now().UTC()

	if err := s.purge(ctx, now); err != nil {
		return fmt.Errorf("purge handoffs: %w", err)
	}

	h := Handoff{
		Token:     token,
		MovieID:   movie.ID,
		Title:     movie.Title,
		Year:      int64(movie.Year),
		Genre:     movie.Genre,
		Rating:    movie.Rating,
		CreatedAt: now.Format(timeLayout),
	}
	_, err := s.db.NewInsert().
		Model(&h).
		On("CONFLICT (token) DO UPDATE").
		Set("movie_id = EXCLUDED.movie_id").
		Set("title = EXCLUDED.title").
		Set("year = EXCLUDED.year").
		Set("genre = EXCLUDED.genre").
		Set("rating = EXCLUDED.rating").
		Set("created_at = EXCLUDED.created_at").
		Exec(ctx)
	return err
}

// Take returns the movie stored under token and deletes it in the same
// transaction.
func (s *Store) Take(ctx context.Context, token string) (catalog.Movie, error) {
	var h Handoff
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&h).Where("token = ?", token).Limit(1).Scan(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*Handoff)(nil)).Where("token = ?", token).Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Movie{}, ErrNotFound
		}
		return catalog.Movie{}, err
	}

	created, err := time.Parse(timeLayout, h.CreatedAt)
	if err != nil || s.now().Sub(created) > s.ttl {
		return catalog.Movie{}, ErrNotFound
	}

	return catalog.Movie{
		ID:     h.MovieID,
		Title:  h.Title,
		Year:   int(h.Year),
		Genre:  h.Genre,
		Rating: h.Rating,
	}, nil
}

func (s *Store) purge(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-s.ttl).UTC().Format(timeLayout)
	_, err := s.db.NewDelete().
		Model((*Handoff)(nil)).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	return err
}
