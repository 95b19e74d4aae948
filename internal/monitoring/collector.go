// Package monitoring derives health metrics from the version store.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nevintel/internal/store"
)

// MetricsSnapshot holds a point-in-time view of report production health.
type MetricsSnapshot struct {
	// Version counts within the lookback window.
	VersionsTotal int            `json:"versions_total"`
	DatesCovered  int            `json:"dates_covered"`
	VersionsByDay map[string]int `json:"versions_by_day"`

	// Latest saved version, if any.
	LatestVersionID string    `json:"latest_version_id,omitempty"`
	LatestCreatedAt time.Time `json:"latest_created_at,omitempty"`

	// Metadata.
	LookbackDays int       `json:"lookback_days"`
	CollectedAt  time.Time `json:"collected_at"`
}

// Stale reports whether no report has been produced for today (UTC).
func (s MetricsSnapshot) Stale() bool {
	today := s.CollectedAt.UTC().Format("2006-01-02")
	return s.VersionsByDay[today] == 0
}

// Collector gathers metrics from the version store.
type Collector struct {
	store store.Store
}

// NewCollector creates a metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect builds a snapshot covering the last lookbackDays of versions.
func (c *Collector) Collect(ctx context.Context, lookbackDays int) (*MetricsSnapshot, error) {
	if lookbackDays <= 0 {
		lookbackDays = 7
	}

	refs, err := c.store.ListAll(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list versions")
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -lookbackDays)

	snap := &MetricsSnapshot{
		VersionsByDay: make(map[string]int),
		LookbackDays:  lookbackDays,
		CollectedAt:   now,
	}

	for _, ref := range refs {
		if ref.CreatedAt.Before(cutoff) {
			continue
		}
		snap.VersionsTotal++
		snap.VersionsByDay[ref.Date]++
		// ListAll is creation-ordered, so the last ref in range is latest.
		snap.LatestVersionID = ref.ID
		snap.LatestCreatedAt = ref.CreatedAt
	}
	snap.DatesCovered = len(snap.VersionsByDay)

	return snap, nil
}
