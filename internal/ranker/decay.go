package ranker

import (
	"math"
	"time"

	"github.com/sells-group/nevintel/internal/model"
)

// Freshness computes the age-decayed freshness score and tier for an item
// published at the given time. The curve is piecewise linear:
//
//	age ≤ 24h:   100 → 70  (very_fresh)
//	24h–72h:      70 → 50  (fresh)
//	72h–168h:     50 → 20  (normal)
//	> 168h:       20 → 0   (expired)
//
// The score is clamped to [0,100] and rounded to the nearest integer.
func Freshness(publishedAt, now time.Time) (int, model.FreshnessTier) {
	h := now.Sub(publishedAt).Hours()
	if h < 0 {
		h = 0
	}
	return FreshnessAt(h)
}

// FreshnessAt computes the freshness score and tier for an age in hours.
func FreshnessAt(h float64) (int, model.FreshnessTier) {
	var score float64
	var tier model.FreshnessTier

	switch {
	case h <= 24:
		score = 100 - (h/24)*30
		tier = model.TierVeryFresh
	case h <= 72:
		score = 70 - ((h-24)/48)*20
		tier = model.TierFresh
	case h <= 168:
		score = 50 - ((h-72)/96)*30
		tier = model.TierNormal
	default:
		score = 20 - ((h-168)/168)*20
		tier = model.TierExpired
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score)), tier
}

// RecentWindow filters out expired items. Expired items stay in the batch
// and report for audit; this is only the default view.
func RecentWindow(items []model.ScoredItem) []model.ScoredItem {
	out := make([]model.ScoredItem, 0, len(items))
	for _, it := range items {
		if it.FreshnessTier == model.TierExpired {
			continue
		}
		out = append(out, it)
	}
	return out
}
