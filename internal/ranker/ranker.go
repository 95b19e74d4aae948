package ranker

import (
	"sort"

	"github.com/sells-group/nevintel/internal/model"
)

// Config holds the blend weights and per-origin trust coefficients.
// The weights are calibration values, not business rules; they are kept
// configurable so they can be tuned without recompilation.
type Config struct {
	FreshnessWeight float64            `yaml:"freshness_weight" mapstructure:"freshness_weight"`
	QualityWeight   float64            `yaml:"quality_weight" mapstructure:"quality_weight"`
	TrustWeight     float64            `yaml:"trust_weight" mapstructure:"trust_weight"`
	Trust           map[string]float64 `yaml:"trust" mapstructure:"trust"`
	DefaultTrust    float64            `yaml:"default_trust" mapstructure:"default_trust"`
}

// DefaultConfig returns the standard 0.4/0.4/0.2 blend with 0.5 default trust.
func DefaultConfig() Config {
	return Config{
		FreshnessWeight: 0.4,
		QualityWeight:   0.4,
		TrustWeight:     0.2,
		DefaultTrust:    0.5,
	}
}

// Engine produces a deterministic total order over scored items.
type Engine struct {
	cfg Config
}

// New creates a ranking engine. Zero-valued weights fall back to defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.FreshnessWeight <= 0 && cfg.QualityWeight <= 0 && cfg.TrustWeight <= 0 {
		cfg.FreshnessWeight = def.FreshnessWeight
		cfg.QualityWeight = def.QualityWeight
		cfg.TrustWeight = def.TrustWeight
	}
	if cfg.DefaultTrust <= 0 {
		cfg.DefaultTrust = def.DefaultTrust
	}
	return &Engine{cfg: cfg}
}

// BlendedScore computes the ranking score for one item:
// freshnessWeight·freshness + qualityWeight·dataQuality + trustWeight·(trust·100).
func (e *Engine) BlendedScore(it model.ScoredItem) float64 {
	trust, ok := e.cfg.Trust[it.Origin]
	if !ok {
		trust = e.cfg.DefaultTrust
	}
	if trust < 0 {
		trust = 0
	}
	if trust > 1 {
		trust = 1
	}
	return e.cfg.FreshnessWeight*float64(it.Freshness) +
		e.cfg.QualityWeight*float64(it.DataQuality) +
		e.cfg.TrustWeight*trust*100
}

// Rank returns the items in stable descending blended-score order.
// Ties break by fingerprint lexical order so the output is a deterministic
// function of its input.
func (e *Engine) Rank(items []model.ScoredItem) []model.ScoredItem {
	out := make([]model.ScoredItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := e.BlendedScore(out[i]), e.BlendedScore(out[j])
		if si != sj {
			return si > sj
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}

// Recommended returns the very-fresh items first, preserving their relative
// rank order, followed by the remaining ranked items, truncated to limit.
// A non-positive limit returns everything.
func (e *Engine) Recommended(ranked []model.ScoredItem, limit int) []model.ScoredItem {
	out := make([]model.ScoredItem, 0, len(ranked))
	for _, it := range ranked {
		if it.FreshnessTier == model.TierVeryFresh {
			out = append(out, it)
		}
	}
	for _, it := range ranked {
		if it.FreshnessTier != model.TierVeryFresh {
			out = append(out, it)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
