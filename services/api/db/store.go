package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool used by the store.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store wraps the run log tables.
type Store struct {
	pool *pgxpool.Pool
	q    querier
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, q: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// RunRecord is one completed sweep. Images are not stored.
type RunRecord struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	OriginX    float64   `json:"origin_x"`
	OriginY    float64   `json:"origin_y"`
	Azimuth    float64   `json:"azimuth"`
	Spacing    float64   `json:"spacing"`
	Sections   int       `json:"num_sections"`
	ClipWidth  float64   `json:"clip_width"`
	Samples    int       `json:"samples"`
	Secondary  int       `json:"secondary"`
	DrillHoles int       `json:"drillholes"`
	ElapsedMS  int64     `json:"elapsed_ms"`
}

const createRunsSQL = `
    CREATE TABLE IF NOT EXISTS section_runs (
        id          uuid PRIMARY KEY,
        created_at  timestamptz NOT NULL,
        origin_x    double precision NOT NULL,
        origin_y    double precision NOT NULL,
        azimuth     double precision NOT NULL,
        spacing     double precision NOT NULL,
        sections    integer NOT NULL,
        clip_width  double precision NOT NULL,
        samples     integer NOT NULL,
        secondary   integer NOT NULL,
        drillholes  integer NOT NULL,
        elapsed_ms  bigint NOT NULL
    )
`

// EnsureSchema creates the run log table if needed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.q.Exec(ctx, createRunsSQL)
	return err
}

const insertRunSQL = `
    INSERT INTO section_runs (id, created_at, origin_x, origin_y, azimuth, spacing, sections, clip_width, samples, secondary, drillholes, elapsed_ms)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    ON CONFLICT (id) DO NOTHING
`

// RecordRun appends a run to the log.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) error {
	_, err := s.q.Exec(ctx, insertRunSQL,
		r.ID,
		r.CreatedAt,
		r.OriginX,
		r.OriginY,
		r.Azimuth,
		r.Spacing,
		r.Sections,
		r.ClipWidth,
		r.Samples,
		r.Secondary,
		r.DrillHoles,
		r.ElapsedMS,
	)
	return err
}

const listRunsSQL = `
    SELECT id::text, created_at, origin_x, origin_y, azimuth, spacing, sections, clip_width, samples, secondary, drillholes, elapsed_ms
    FROM section_runs
    ORDER BY created_at DESC
    LIMIT $1
`

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.q.Query(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunRecord, 0)
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.ID,
			&r.CreatedAt,
			&r.OriginX,
			&r.OriginY,
			&r.Azimuth,
			&r.Spacing,
			&r.Sections,
			&r.ClipWidth,
			&r.Samples,
			&r.Secondary,
			&r.DrillHoles,
			&r.ElapsedMS,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
