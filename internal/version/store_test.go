package version

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/store"
)

func testReport(date string, items ...model.ScoredItem) model.Report {
	return model.Report{
		Date:    date,
		Summary: model.DataSummary{TotalItems: len(items)},
		Sections: map[model.SectionKey]model.Section{
			model.SectionNews: {Key: model.SectionNews, Title: "行业资讯", Items: items},
		},
	}
}

func newsItem(fp, title string) model.ScoredItem {
	return model.ScoredItem{
		RawRecord:   model.RawRecord{Title: title, Origin: "autohome", Category: model.CategoryNews},
		Fingerprint: fp,
		Importance:  3,
	}
}

func TestSaveAssignsSequentialIDs(t *testing.T) {
	s := New(store.NewMemory(), 30)
	ctx := context.Background()

	v1, err := s.Save(ctx, testReport("2026-09-01"))
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01_V1", v1.ID)
	assert.Equal(t, "2026-09-01_V1", v1.Report.VersionID)

	v2, err := s.Save(ctx, testReport("2026-09-01"))
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01_V2", v2.ID)

	// Dates count independently.
	other, err := s.Save(ctx, testReport("2026-09-02"))
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02_V1", other.ID)
}

func TestSaveRequiresDate(t *testing.T) {
	s := New(store.NewMemory(), 30)
	_, err := s.Save(context.Background(), model.Report{})
	assert.Error(t, err)
}

func TestSequenceNeverReusedAfterEviction(t *testing.T) {
	s := New(store.NewMemory(), 2)
	ctx := context.Background()

	var last string
	for i := 0; i < 5; i++ {
		v, err := s.Save(ctx, testReport("2026-09-01"))
		require.NoError(t, err)
		last = v.ID
	}
	assert.Equal(t, "2026-09-01_V5", last)

	// Only the retention cap survives, and the evicted ids stay dead.
	refs, err := s.List(ctx, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "2026-09-01_V4", refs[0].ID)
	assert.Equal(t, "2026-09-01_V5", refs[1].ID)

	_, err = s.Get(ctx, "2026-09-01_V1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvictionNeverRemovesJustSaved(t *testing.T) {
	s := New(store.NewMemory(), 1)
	ctx := context.Background()

	for day := 1; day <= 3; day++ {
		date := fmt.Sprintf("2026-09-%02d", day)
		v, err := s.Save(ctx, testReport(date))
		require.NoError(t, err)

		got, err := s.Get(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, v.ID, got.ID)
	}
}

func TestGetAndLatest(t *testing.T) {
	s := New(store.NewMemory(), 30)
	ctx := context.Background()

	_, err := s.Get(ctx, "2026-09-01_V9")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Latest(ctx, "2026-09-01")
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := s.Save(ctx, testReport("2026-09-01", newsItem("aaa", "第一版")))
	require.NoError(t, err)
	second, err := s.Save(ctx, testReport("2026-09-01", newsItem("aaa", "第二版")))
	require.NoError(t, err)

	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "第一版", got.Report.Sections[model.SectionNews].Items[0].Title)

	latest, err := s.Latest(ctx, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}
