package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/nevintel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS versions (
	id          TEXT PRIMARY KEY,
	report_date TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	report      TEXT NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS date_sequences (
	report_date TEXT PRIMARY KEY,
	last_seq    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_versions_date ON versions(report_date, seq);
CREATE INDEX IF NOT EXISTS idx_versions_created ON versions(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) NextSequence(ctx context.Context, date string) (int, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO date_sequences (report_date, last_seq) VALUES (?, 1)
		 ON CONFLICT(report_date) DO UPDATE SET last_seq = last_seq + 1
		 RETURNING last_seq`,
		date,
	)
	var seq int
	if err := row.Scan(&seq); err != nil {
		return 0, eris.Wrapf(err, "sqlite: next sequence for %s", date)
	}
	return seq, nil
}

func (s *SQLiteStore) PutVersion(ctx context.Context, v model.Version) error {
	reportJSON, err := json.Marshal(v.Report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}
	_, seq, err := model.ParseVersionID(v.ID)
	if err != nil {
		return eris.Wrap(err, "sqlite: put version")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO versions (id, report_date, seq, report, created_at) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Report.Date, seq, string(reportJSON), v.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: put version %s", v.ID)
}

func (s *SQLiteStore) GetVersion(ctx context.Context, id string) (*model.Version, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, report, created_at FROM versions WHERE id = ?`, id,
	)

	var v model.Version
	var reportJSON string
	err := row.Scan(&v.ID, &reportJSON, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get version %s", id)
	}
	if err := json.Unmarshal([]byte(reportJSON), &v.Report); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal report %s", id)
	}
	return &v, nil
}

func (s *SQLiteStore) ListByDate(ctx context.Context, date string) ([]VersionRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_date, seq, created_at FROM versions WHERE report_date = ? ORDER BY seq ASC`,
		date,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list versions for %s", date)
	}
	return scanRefs(rows)
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]VersionRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_date, seq, created_at FROM versions ORDER BY created_at ASC, seq ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list versions")
	}
	return scanRefs(rows)
}

func (s *SQLiteStore) DeleteVersion(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM versions WHERE id = ?`, id)
	return eris.Wrapf(err, "sqlite: delete version %s", id)
}

func scanRefs(rows *sql.Rows) ([]VersionRef, error) {
	defer rows.Close()

	var refs []VersionRef
	for rows.Next() {
		var r VersionRef
		if err := rows.Scan(&r.ID, &r.Date, &r.Seq, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan version ref")
		}
		refs = append(refs, r)
	}
	return refs, eris.Wrap(rows.Err(), "sqlite: iterate version refs")
}
