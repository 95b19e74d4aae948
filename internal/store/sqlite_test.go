package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nevintel/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleVersion(id, date string, seq int, created time.Time) model.Version {
	return model.Version{
		ID:        id,
		CreatedAt: created,
		Report: model.Report{
			Date:      date,
			VersionID: id,
			Summary:   model.DataSummary{TotalItems: seq},
			Sections: map[model.SectionKey]model.Section{
				model.SectionNews: {
					Key:   model.SectionNews,
					Title: "行业资讯",
					Items: []model.ScoredItem{{
						RawRecord:   model.RawRecord{Title: "测试条目", Origin: "cpca"},
						Fingerprint: "fp-" + id,
						Importance:  3,
					}},
				},
			},
		},
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	created := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	v := sampleVersion("2026-09-01_V1", "2026-09-01", 1, created)
	require.NoError(t, s.PutVersion(ctx, v))

	got, err := s.GetVersion(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, "2026-09-01", got.Report.Date)
	assert.Equal(t, 1, got.Report.Summary.TotalItems)

	sec := got.Report.Sections[model.SectionNews]
	require.Len(t, sec.Items, 1)
	assert.Equal(t, "测试条目", sec.Items[0].Title)
	assert.Equal(t, "fp-2026-09-01_V1", sec.Items[0].Fingerprint)
}

func TestSQLiteGetAbsent(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.GetVersion(context.Background(), "2026-09-01_V99")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteNextSequence(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		seq, err := s.NextSequence(ctx, "2026-09-01")
		require.NoError(t, err)
		assert.Equal(t, want, seq)
	}

	// Independent per date.
	seq, err := s.NextSequence(ctx, "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestSQLiteSequenceSurvivesDelete(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	date := "2026-09-01"

	seq, err := s.NextSequence(ctx, date)
	require.NoError(t, err)
	v := sampleVersion("2026-09-01_V1", date, seq, time.Now().UTC())
	require.NoError(t, s.PutVersion(ctx, v))

	require.NoError(t, s.DeleteVersion(ctx, v.ID))

	// Sequence counter keeps counting; ids are never reused.
	seq, err = s.NextSequence(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)
}

func TestSQLiteListByDate(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutVersion(ctx, sampleVersion("2026-09-01_V2", "2026-09-01", 2, base.Add(time.Hour))))
	require.NoError(t, s.PutVersion(ctx, sampleVersion("2026-09-01_V1", "2026-09-01", 1, base)))
	require.NoError(t, s.PutVersion(ctx, sampleVersion("2026-09-02_V1", "2026-09-02", 1, base.Add(24*time.Hour))))

	refs, err := s.ListByDate(ctx, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "2026-09-01_V1", refs[0].ID)
	assert.Equal(t, "2026-09-01_V2", refs[1].ID)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-09-01_V1", all[0].ID)
	assert.Equal(t, "2026-09-02_V1", all[2].ID)
}

func TestSQLiteDeleteAbsentIsNoop(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.DeleteVersion(context.Background(), "2026-09-01_V404"))
}
