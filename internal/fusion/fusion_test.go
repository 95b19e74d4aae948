package fusion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/scorer"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	lex, err := scorer.DefaultLexicons()
	require.NoError(t, err)
	sc := scorer.New(lex, scorer.Config{
		Recognized:        []string{"cpca", "autohome"},
		GovernmentOrigins: []string{"cpca"},
	})
	return New(sc, cfg)
}

func okBatch(records ...model.RawRecord) *model.Batch {
	return &model.Batch{
		ID:          "run-1",
		CollectedAt: time.Now().UTC(),
		Records:     records,
		Sources: map[string]model.SourceResult{
			"cpca":     {Source: "cpca", OK: true, Items: len(records)},
			"autohome": {Source: "autohome", OK: true},
		},
	}
}

func rec(title, origin string, at time.Time) model.RawRecord {
	return model.RawRecord{Title: title, Origin: origin, PublishedAt: at}
}

func TestFuseRejectsUnusableBatch(t *testing.T) {
	e := newTestEngine(t, Config{})
	now := time.Now().UTC()

	_, err := e.Fuse(nil, now)
	assert.Error(t, err)

	_, err = e.Fuse(&model.Batch{}, now)
	assert.Error(t, err)
}

func TestFuseCountInvariant(t *testing.T) {
	e := newTestEngine(t, Config{})
	now := time.Now().UTC()

	batch := okBatch(
		rec("比亚迪销量创新高", "cpca", now.Add(-1*time.Hour)),
		rec("蔚来新车发布", "autohome", now.Add(-2*time.Hour)),
		rec("", "autohome", now),                    // empty title, dropped
		rec("无时间戳的记录", "autohome", time.Time{}), // zero timestamp, dropped
	)

	res, err := e.Fuse(batch, now)
	require.NoError(t, err)

	assert.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Summary.TotalItems)

	var shape int
	for _, w := range res.Warnings {
		if w.Kind == model.WarnDataShape {
			shape++
			assert.Contains(t, w.Detail, "2")
		}
	}
	assert.Equal(t, 1, shape)
}

func TestFuseDedupe(t *testing.T) {
	e := newTestEngine(t, Config{})
	now := time.Now().UTC()

	// Same title, origin, and day: one fingerprint. The richer record
	// (body raises data quality) must win regardless of input order.
	thin := rec("比亚迪销量创新高", "autohome", now.Add(-4*time.Hour))
	rich := thin
	rich.Body = "详细销量数据"

	res, err := e.Fuse(okBatch(thin, rich), now)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "详细销量数据", res.Items[0].Body)

	res, err = e.Fuse(okBatch(rich, thin), now)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "详细销量数据", res.Items[0].Body)
}

func TestFuseDedupeTieLaterTimestampWins(t *testing.T) {
	e := newTestEngine(t, Config{})
	now := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

	early := rec("蔚来新车发布", "autohome", now.Add(-10*time.Hour))
	late := rec("蔚来新车发布", "autohome", now.Add(-1*time.Hour))

	res, err := e.Fuse(okBatch(early, late), now)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, late.PublishedAt, res.Items[0].PublishedAt)
}

func TestFuseSourceFailureWarnings(t *testing.T) {
	e := newTestEngine(t, Config{})
	now := time.Now().UTC()

	batch := okBatch(rec("比亚迪销量创新高", "cpca", now))
	batch.Sources["dongchedi"] = model.SourceResult{Source: "dongchedi", OK: false, Error: "timeout"}

	res, err := e.Fuse(batch, now)
	require.NoError(t, err)

	var found bool
	for _, w := range res.Warnings {
		if w.Kind == model.WarnSourceFailure {
			found = true
			assert.Equal(t, "dongchedi", w.Source)
			assert.Equal(t, "timeout", w.Detail)
		}
	}
	assert.True(t, found)
}

func TestFuseCoverageWarning(t *testing.T) {
	e := newTestEngine(t, Config{RequiredSources: []string{"cpca", "autohome"}})
	now := time.Now().UTC()

	res, err := e.Fuse(okBatch(rec("比亚迪销量创新高", "cpca", now)), now)
	require.NoError(t, err)

	var coverage []model.Warning
	for _, w := range res.Warnings {
		if w.Kind == model.WarnCoverage {
			coverage = append(coverage, w)
		}
	}
	require.Len(t, coverage, 1)
	assert.Equal(t, "autohome", coverage[0].Source)
}

func TestFuseQualityWarningsNeverDrop(t *testing.T) {
	e := newTestEngine(t, Config{MinDataQuality: 90})
	now := time.Now().UTC()

	res, err := e.Fuse(okBatch(rec("论坛随笔", "somewhere", now)), now)
	require.NoError(t, err)

	// Low-quality items stay in the result, flagged.
	assert.Len(t, res.Items, 1)
	var quality int
	for _, w := range res.Warnings {
		if w.Kind == model.WarnQuality {
			quality++
		}
	}
	assert.Equal(t, 1, quality)
}

func TestFuseSummary(t *testing.T) {
	e := newTestEngine(t, Config{})
	now := time.Now().UTC()

	sales := rec("比亚迪销量创新高，增长领先", "cpca", now.Add(-1*time.Hour))
	sales.Category = model.CategorySales
	sales.Attrs = map[string]any{model.AttrBrand: "比亚迪"}

	complaint := rec("某车型电池技术故障问题引发担忧", "autohome", now.Add(-2*time.Hour))
	complaint.Category = model.CategoryComplaint
	complaint.Attrs = map[string]any{model.AttrBrand: "比亚迪"}

	res, err := e.Fuse(okBatch(sales, complaint), now)
	require.NoError(t, err)

	sum := res.Summary
	assert.Equal(t, 2, sum.TotalItems)
	assert.Equal(t, 1, sum.ByOrigin["cpca"])
	assert.Equal(t, 1, sum.ByOrigin["autohome"])
	assert.Equal(t, 1, sum.ByCategory[model.CategorySales])
	assert.Equal(t, 1, sum.ByCategory[model.CategoryComplaint])
	assert.Equal(t, 2, sum.ByBrand["比亚迪"])
	assert.Equal(t, 1, sum.ByImportance["high"])   // 创新高
	assert.Equal(t, 1, sum.ByImportance["medium"]) // 故障
	assert.Equal(t, 1, sum.BySentiment[model.SentimentPositive])
	assert.Equal(t, 1, sum.BySentiment[model.SentimentNegative])
	assert.Equal(t, 1, sum.BrandSentiment["比亚迪"][model.SentimentPositive])
	assert.Equal(t, 1, sum.BrandSentiment["比亚迪"][model.SentimentNegative])
	assert.Contains(t, sum.TechTrends, "电池技术")
}
