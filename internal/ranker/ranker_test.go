package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/nevintel/internal/model"
)

func testEngine() *Engine {
	return New(Config{
		FreshnessWeight: 0.4,
		QualityWeight:   0.4,
		TrustWeight:     0.2,
		DefaultTrust:    0.5,
		Trust: map[string]float64{
			"cpca":     0.95,
			"autohome": 0.8,
			"sketchy":  1.7, // clamped to 1
		},
	})
}

func item(fp, origin string, freshness, quality int) model.ScoredItem {
	return model.ScoredItem{
		RawRecord:   model.RawRecord{Origin: origin},
		Fingerprint: fp,
		Freshness:   freshness,
		DataQuality: quality,
	}
}

func TestBlendedScore(t *testing.T) {
	e := testEngine()

	// 0.4*100 + 0.4*80 + 0.2*0.95*100 = 91
	got := e.BlendedScore(item("a", "cpca", 100, 80))
	assert.InDelta(t, 91.0, got, 1e-9)

	// Unconfigured origin uses the default trust of 0.5.
	got = e.BlendedScore(item("b", "unknown", 50, 50))
	assert.InDelta(t, 0.4*50+0.4*50+0.2*0.5*100, got, 1e-9)

	// Trust above 1 is clamped.
	got = e.BlendedScore(item("c", "sketchy", 0, 0))
	assert.InDelta(t, 20.0, got, 1e-9)
}

func TestRankOrderAndDeterminism(t *testing.T) {
	e := testEngine()

	items := []model.ScoredItem{
		item("bbb", "unknown", 50, 50),
		item("aaa", "unknown", 50, 50),
		item("top", "cpca", 100, 100),
		item("low", "unknown", 10, 10),
	}

	ranked := e.Rank(items)
	assert.Equal(t, "top", ranked[0].Fingerprint)
	// Equal scores break ties by fingerprint.
	assert.Equal(t, "aaa", ranked[1].Fingerprint)
	assert.Equal(t, "bbb", ranked[2].Fingerprint)
	assert.Equal(t, "low", ranked[3].Fingerprint)

	// Input order never changes the result.
	reversed := []model.ScoredItem{items[3], items[2], items[1], items[0]}
	assert.Equal(t, ranked, e.Rank(reversed))

	// Input slice is untouched.
	assert.Equal(t, "bbb", items[0].Fingerprint)
}

func TestRecommended(t *testing.T) {
	e := testEngine()

	ranked := []model.ScoredItem{
		{Fingerprint: "1", FreshnessTier: model.TierNormal},
		{Fingerprint: "2", FreshnessTier: model.TierVeryFresh},
		{Fingerprint: "3", FreshnessTier: model.TierFresh},
		{Fingerprint: "4", FreshnessTier: model.TierVeryFresh},
	}

	got := e.Recommended(ranked, 0)
	assert.Equal(t, []string{"2", "4", "1", "3"}, fingerprints(got))

	got = e.Recommended(ranked, 3)
	assert.Equal(t, []string{"2", "4", "1"}, fingerprints(got))
}

func TestNewFallsBackToDefaults(t *testing.T) {
	e := New(Config{})
	assert.InDelta(t, DefaultConfig().FreshnessWeight, e.cfg.FreshnessWeight, 1e-9)
	assert.InDelta(t, DefaultConfig().DefaultTrust, e.cfg.DefaultTrust, 1e-9)
}

func fingerprints(items []model.ScoredItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Fingerprint
	}
	return out
}
