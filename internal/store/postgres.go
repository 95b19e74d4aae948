package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/nevintel/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS versions (
	id          TEXT PRIMARY KEY,
	report_date TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	report      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS date_sequences (
	report_date TEXT PRIMARY KEY,
	last_seq    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_versions_date ON versions(report_date, seq);
CREATE INDEX IF NOT EXISTS idx_versions_created ON versions(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) NextSequence(ctx context.Context, date string) (int, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO date_sequences (report_date, last_seq) VALUES ($1, 1)
		 ON CONFLICT (report_date) DO UPDATE SET last_seq = date_sequences.last_seq + 1
		 RETURNING last_seq`,
		date,
	)
	var seq int
	if err := row.Scan(&seq); err != nil {
		return 0, eris.Wrapf(err, "postgres: next sequence for %s", date)
	}
	return seq, nil
}

func (s *PostgresStore) PutVersion(ctx context.Context, v model.Version) error {
	reportJSON, err := json.Marshal(v.Report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}
	_, seq, err := model.ParseVersionID(v.ID)
	if err != nil {
		return eris.Wrap(err, "postgres: put version")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO versions (id, report_date, seq, report, created_at) VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.Report.Date, seq, reportJSON, v.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: put version %s", v.ID)
}

func (s *PostgresStore) GetVersion(ctx context.Context, id string) (*model.Version, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, report, created_at FROM versions WHERE id = $1`, id,
	)

	var v model.Version
	var reportJSON []byte
	err := row.Scan(&v.ID, &reportJSON, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get version %s", id)
	}
	if err := json.Unmarshal(reportJSON, &v.Report); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal report %s", id)
	}
	return &v, nil
}

func (s *PostgresStore) ListByDate(ctx context.Context, date string) ([]VersionRef, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, report_date, seq, created_at FROM versions WHERE report_date = $1 ORDER BY seq ASC`,
		date,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list versions for %s", date)
	}
	return scanPgRefs(rows)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]VersionRef, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, report_date, seq, created_at FROM versions ORDER BY created_at ASC, seq ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list versions")
	}
	return scanPgRefs(rows)
}

func (s *PostgresStore) DeleteVersion(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM versions WHERE id = $1`, id)
	return eris.Wrapf(err, "postgres: delete version %s", id)
}

func scanPgRefs(rows pgx.Rows) ([]VersionRef, error) {
	defer rows.Close()

	var refs []VersionRef
	for rows.Next() {
		var r VersionRef
		if err := rows.Scan(&r.ID, &r.Date, &r.Seq, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan version ref")
		}
		refs = append(refs, r)
	}
	return refs, eris.Wrap(rows.Err(), "postgres: iterate version refs")
}
