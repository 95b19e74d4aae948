package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nevintel/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_NextSequence(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`INSERT INTO date_sequences`).
		WithArgs("2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"last_seq"}).AddRow(4))

	seq, err := s.NextSequence(context.Background(), "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, 4, seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PutVersion(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	created := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	v := sampleVersion("2026-09-01_V2", "2026-09-01", 2, created)
	reportJSON, err := json.Marshal(v.Report)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO versions`).
		WithArgs(v.ID, "2026-09-01", 2, reportJSON, created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.PutVersion(context.Background(), v))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PutVersion_BadID(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	err := s.PutVersion(context.Background(), model.Version{ID: "malformed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put version")
}

func TestPostgresStore_GetVersion(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	created := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	want := sampleVersion("2026-09-01_V1", "2026-09-01", 1, created)
	reportJSON, err := json.Marshal(want.Report)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, report, created_at FROM versions WHERE id = \$1`).
		WithArgs(want.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "report", "created_at"}).
			AddRow(want.ID, reportJSON, created))

	got, err := s.GetVersion(context.Background(), want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "2026-09-01", got.Report.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetVersion_Absent(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, report, created_at FROM versions WHERE id = \$1`).
		WithArgs("2026-09-01_V404").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetVersion(context.Background(), "2026-09-01_V404")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListByDate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	created := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, report_date, seq, created_at FROM versions WHERE report_date = \$1`).
		WithArgs("2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"id", "report_date", "seq", "created_at"}).
			AddRow("2026-09-01_V1", "2026-09-01", 1, created).
			AddRow("2026-09-01_V2", "2026-09-01", 2, created.Add(time.Hour)))

	refs, err := s.ListByDate(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, 1, refs[0].Seq)
	assert.Equal(t, 2, refs[1].Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteVersion(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM versions WHERE id = \$1`).
		WithArgs("2026-09-01_V1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.DeleteVersion(context.Background(), "2026-09-01_V1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS versions`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
