package framecache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

//go:embed migrations/*.sql
var migrations embed.FS

// secondsSlack widens the indexed float prefilter so rounding never hides
// a row. The exact test is done on the stored fraction.
const secondsSlack = 1e-9

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and migrates
// it to the current schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Path returns the database path.
func (s *SQLiteStore) Path() string { return s.path }

// Version returns the applied schema version.
func (s *SQLiteStore) Version(ctx context.Context) (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, s.db)
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, key string, sm Sample) error {
	if sm.Time.IsInf() {
		return fmt.Errorf("put %s at %s: %w", key, sm.Time, ErrInfiniteTime)
	}
	data, err := json.Marshal(sm.Value)
	if err != nil {
		return fmt.Errorf("failed to encode sample: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO samples (input, num, den, seconds, value) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (input, num, den) DO UPDATE SET value = excluded.value`,
		key, sm.Time.Num(), sm.Time.Den(), sm.Time.Float64(), string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to store sample: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key string, t rational.Rational) (value.Value, bool, error) {
	if t.IsInf() {
		return value.Value{}, false, nil
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM samples WHERE input = ? AND num = ? AND den = ?`,
		key, t.Num(), t.Den(),
	).Scan(&data)
	if err == sql.ErrNoRows {
		return value.Value{}, false, nil
	}
	if err != nil {
		return value.Value{}, false, fmt.Errorf("failed to get sample: %w", err)
	}
	var v value.Value
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return value.Value{}, false, fmt.Errorf("failed to decode sample: %w", err)
	}
	return v, true, nil
}

// Invalidate implements Store.
func (s *SQLiteStore) Invalidate(ctx context.Context, key string, r timerange.Range) (int, error) {
	query := `SELECT num, den FROM samples WHERE input = ?`
	args := []any{key}
	if !r.In().IsInf() {
		query += ` AND seconds >= ?`
		args = append(args, widen(r.In().Float64(), -1))
	}
	if !r.Out().IsInf() {
		query += ` AND seconds <= ?`
		args = append(args, widen(r.Out().Float64(), 1))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to query samples: %w", err)
	}
	var doomed []rational.Rational
	for rows.Next() {
		var num, den int64
		if err := rows.Scan(&num, &den); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan sample: %w", err)
		}
		if t := rational.New(num, den); r.Contains(t) {
			doomed = append(doomed, t)
		}
	}
	if err := rows.Close(); err != nil {
		return 0, fmt.Errorf("failed to read samples: %w", err)
	}

	for _, t := range doomed {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM samples WHERE input = ? AND num = ? AND den = ?`,
			key, t.Num(), t.Den(),
		); err != nil {
			return 0, fmt.Errorf("failed to delete sample: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit invalidation: %w", err)
	}
	return len(doomed), nil
}

// Samples implements Store.
func (s *SQLiteStore) Samples(ctx context.Context, key string) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT num, den, value FROM samples WHERE input = ? ORDER BY seconds`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var num, den int64
		var data string
		if err := rows.Scan(&num, &den, &data); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		var v value.Value
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("failed to decode sample: %w", err)
		}
		out = append(out, Sample{Time: rational.New(num, den), Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	slices.SortStableFunc(out, func(a, b Sample) int { return a.Time.Cmp(b.Time) })
	return out, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func widen(x float64, dir float64) float64 {
	return x + dir*secondsSlack*math.Max(1, math.Abs(x))
}
