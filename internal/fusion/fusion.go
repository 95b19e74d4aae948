// Package fusion merges a collection batch into a single quality-scored,
// deduplicated item stream with aggregate statistics.
package fusion

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/scorer"
)

// Config controls coverage checks and quality warning thresholds.
type Config struct {
	// RequiredSources must each contribute at least one item; gaps become
	// coverage warnings, never errors.
	RequiredSources []string `yaml:"required_sources" mapstructure:"required_sources"`

	// MinDataQuality and MinRelevance produce quality warnings for items
	// below the threshold. Warnings only; data is never dropped for score.
	MinDataQuality int `yaml:"min_data_quality" mapstructure:"min_data_quality"`
	MinRelevance   int `yaml:"min_relevance" mapstructure:"min_relevance"`
}

// Result is the report-ready output of one fusion pass.
type Result struct {
	Items    []model.ScoredItem
	Summary  model.DataSummary
	Warnings []model.Warning
}

// Engine scores, cleans, deduplicates, and aggregates collection batches.
type Engine struct {
	scorer *scorer.Scorer
	cfg    Config
}

// New creates a fusion engine.
func New(sc *scorer.Scorer, cfg Config) *Engine {
	return &Engine{scorer: sc, cfg: cfg}
}

// Fuse turns a batch into the report-ready collection. Data-shape problems
// drop the offending item and accumulate as warnings; Fuse fails only when
// the batch itself is unusable.
func (e *Engine) Fuse(batch *model.Batch, now time.Time) (*Result, error) {
	if batch == nil || len(batch.Sources) == 0 {
		return nil, eris.New("fusion: batch failed upstream")
	}

	res := &Result{}

	// Carry forward per-source failures from collection.
	for _, name := range sortedSourceNames(batch) {
		sr := batch.Sources[name]
		if !sr.OK {
			res.Warnings = append(res.Warnings, model.Warning{
				Kind:   model.WarnSourceFailure,
				Source: name,
				Detail: sr.Error,
			})
		}
	}

	// Score and clean.
	var dropped int
	scored := make([]model.ScoredItem, 0, len(batch.Records))
	for _, rec := range batch.Records {
		if strings.TrimSpace(rec.Title) == "" || rec.PublishedAt.IsZero() {
			dropped++
			continue
		}
		scored = append(scored, e.scorer.Score(rec, now))
	}
	if dropped > 0 {
		res.Warnings = append(res.Warnings, model.Warning{
			Kind:   model.WarnDataShape,
			Detail: fmt.Sprintf("dropped %d malformed items", dropped),
		})
	}

	// Deduplicate by fingerprint: higher data quality wins, ties go to the
	// later publish timestamp.
	res.Items = dedupe(scored)

	// Coverage check against the required-source list.
	counts := originCounts(res.Items)
	for _, required := range e.cfg.RequiredSources {
		if counts[required] == 0 {
			res.Warnings = append(res.Warnings, model.Warning{
				Kind:   model.WarnCoverage,
				Source: required,
				Detail: "required source produced zero items",
			})
		}
	}

	// Threshold warnings (warn-only, never dropped).
	for _, it := range res.Items {
		if e.cfg.MinDataQuality > 0 && it.DataQuality < e.cfg.MinDataQuality {
			res.Warnings = append(res.Warnings, model.Warning{
				Kind:   model.WarnQuality,
				Source: it.Origin,
				Detail: fmt.Sprintf("item %s below quality threshold (%d < %d)", it.Fingerprint, it.DataQuality, e.cfg.MinDataQuality),
			})
		} else if e.cfg.MinRelevance > 0 && it.Relevance < e.cfg.MinRelevance {
			res.Warnings = append(res.Warnings, model.Warning{
				Kind:   model.WarnQuality,
				Source: it.Origin,
				Detail: fmt.Sprintf("item %s below relevance threshold (%d < %d)", it.Fingerprint, it.Relevance, e.cfg.MinRelevance),
			})
		}
	}

	res.Summary = e.summarize(res.Items)

	zap.L().Info("fusion complete",
		zap.Int("input", len(batch.Records)),
		zap.Int("fused", len(res.Items)),
		zap.Int("dropped", dropped),
		zap.Int("warnings", len(res.Warnings)),
	)

	return res, nil
}

// dedupe keeps one item per fingerprint. On collision the higher data
// quality wins; equal quality resolves to the later publish timestamp.
func dedupe(items []model.ScoredItem) []model.ScoredItem {
	best := make(map[string]model.ScoredItem, len(items))
	order := make([]string, 0, len(items))

	for _, it := range items {
		cur, seen := best[it.Fingerprint]
		if !seen {
			best[it.Fingerprint] = it
			order = append(order, it.Fingerprint)
			continue
		}
		if it.DataQuality > cur.DataQuality ||
			(it.DataQuality == cur.DataQuality && it.PublishedAt.After(cur.PublishedAt)) {
			best[it.Fingerprint] = it
		}
	}

	out := make([]model.ScoredItem, 0, len(order))
	for _, fp := range order {
		out = append(out, best[fp])
	}
	return out
}

func (e *Engine) summarize(items []model.ScoredItem) model.DataSummary {
	sum := model.DataSummary{
		TotalItems:   len(items),
		ByOrigin:     make(map[string]int),
		ByCategory:   make(map[model.Category]int),
		ByBrand:      make(map[string]int),
		ByImportance: map[string]int{"high": 0, "medium": 0, "low": 0},
		BySentiment: map[model.Sentiment]int{
			model.SentimentPositive: 0,
			model.SentimentNegative: 0,
			model.SentimentNeutral:  0,
		},
		BrandSentiment: make(map[string]map[model.Sentiment]int),
	}

	for _, it := range items {
		sum.ByOrigin[it.Origin]++
		sum.ByCategory[it.Category]++
		sum.BySentiment[it.Sentiment]++

		switch {
		case it.Importance >= 4:
			sum.ByImportance["high"]++
		case it.Importance >= 2:
			sum.ByImportance["medium"]++
		default:
			sum.ByImportance["low"]++
		}

		if brand := it.Brand(); brand != "" {
			sum.ByBrand[brand]++
			if sum.BrandSentiment[brand] == nil {
				sum.BrandSentiment[brand] = make(map[model.Sentiment]int)
			}
			sum.BrandSentiment[brand][it.Sentiment]++
		}
	}

	sum.TechTrends = e.scorer.TechTrends(items)
	return sum
}

func originCounts(items []model.ScoredItem) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Origin]++
	}
	return counts
}

func sortedSourceNames(batch *model.Batch) []string {
	names := make([]string, 0, len(batch.Sources))
	for name := range batch.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
