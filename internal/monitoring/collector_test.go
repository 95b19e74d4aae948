package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/store"
)

func putVersion(t *testing.T, st store.Store, id, date string, created time.Time) {
	t.Helper()
	require.NoError(t, st.PutVersion(context.Background(), model.Version{
		ID:        id,
		CreatedAt: created,
		Report:    model.Report{Date: date, VersionID: id},
	}))
}

func TestCollect(t *testing.T) {
	st := store.NewMemory()
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	putVersion(t, st, yesterday+"_V1", yesterday, now.Add(-25*time.Hour))
	putVersion(t, st, today+"_V1", today, now.Add(-2*time.Hour))
	putVersion(t, st, today+"_V2", today, now.Add(-1*time.Hour))
	// Outside the lookback window.
	putVersion(t, st, "2026-01-01_V1", "2026-01-01", now.AddDate(0, 0, -60))

	snap, err := NewCollector(st).Collect(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.VersionsTotal)
	assert.Equal(t, 2, snap.DatesCovered)
	assert.Equal(t, 2, snap.VersionsByDay[today])
	assert.Equal(t, today+"_V2", snap.LatestVersionID)
	assert.False(t, snap.Stale())
}

func TestCollectStale(t *testing.T) {
	st := store.NewMemory()
	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	putVersion(t, st, yesterday+"_V1", yesterday, now.Add(-30*time.Hour))

	snap, err := NewCollector(st).Collect(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, snap.Stale())
}

func TestCollectEmptyStore(t *testing.T) {
	snap, err := NewCollector(store.NewMemory()).Collect(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, snap.LookbackDays)
	assert.Equal(t, 0, snap.VersionsTotal)
	assert.True(t, snap.Stale())
}
