// Package report buckets ranked items into the fixed daily-report sections
// and derives the executive summary.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/sells-group/nevintel/internal/model"
)

// sectionTitles maps section keys to their display titles.
var sectionTitles = map[model.SectionKey]string{
	model.SectionSales:          "销量分析",
	model.SectionNewModels:      "新车型动态",
	model.SectionUserFeedback:   "用户反馈",
	model.SectionPolicy:         "政策更新",
	model.SectionLeaderInsights: "行业领袖洞察",
	model.SectionNews:           "行业资讯",
}

// categorySection maps item categories to sections; unmapped categories
// fall into the news catch-all.
var categorySection = map[model.Category]model.SectionKey{
	model.CategorySales:           model.SectionSales,
	model.CategoryNewModel:        model.SectionNewModels,
	model.CategoryComplaint:       model.SectionUserFeedback,
	model.CategoryForum:           model.SectionUserFeedback,
	model.CategoryPolicy:          model.SectionPolicy,
	model.CategoryLeaderStatement: model.SectionLeaderInsights,
	model.CategoryNews:            model.SectionNews,
}

// Builder assembles immutable reports from ranked items.
type Builder struct {
	topHighlights int
}

// NewBuilder creates a report builder. topHighlights bounds the per-section
// highlight list; non-positive means the default of 5.
func NewBuilder(topHighlights int) *Builder {
	if topHighlights <= 0 {
		topHighlights = 5
	}
	return &Builder{topHighlights: topHighlights}
}

// Build produces the report for one date from already-ranked items. The
// result is deterministic given identical ranked input; the generation
// timestamp is the only clock-dependent field.
func (b *Builder) Build(ranked []model.ScoredItem, summary model.DataSummary, date string, now time.Time) *model.Report {
	r := &model.Report{
		Date:        date,
		GeneratedAt: now,
		Summary:     summary,
		Sections:    make(map[model.SectionKey]model.Section, len(model.SectionOrder)),
	}

	for _, key := range model.SectionOrder {
		r.Sections[key] = model.Section{Key: key, Title: sectionTitles[key]}
	}

	// Each item lands in exactly one section, so the total across sections
	// never exceeds the input count.
	for _, it := range ranked {
		key, ok := categorySection[it.Category]
		if !ok {
			key = model.SectionNews
		}
		sec := r.Sections[key]
		sec.Items = append(sec.Items, it)
		r.Sections[key] = sec
	}

	for key, sec := range r.Sections {
		sec.Highlights = b.highlights(sec.Items)
		r.Sections[key] = sec
	}

	r.Executive = b.executiveSummary(ranked, summary)
	r.Alert = criticalAlert(ranked)

	return r
}

// highlights returns the section's top items by importance, rank order
// breaking ties.
func (b *Builder) highlights(items []model.ScoredItem) []model.Highlight {
	if len(items) == 0 {
		return nil
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return items[idx[i]].Importance > items[idx[j]].Importance
	})

	n := b.topHighlights
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]model.Highlight, 0, n)
	for _, i := range idx[:n] {
		it := items[i]
		out = append(out, model.Highlight{
			Fingerprint: it.Fingerprint,
			Title:       it.Title,
			Source:      it.Origin,
			Brand:       it.Brand(),
			Importance:  it.Importance,
			Sentiment:   it.Sentiment,
		})
	}
	return out
}

func (b *Builder) executiveSummary(ranked []model.ScoredItem, summary model.DataSummary) model.ExecutiveSummary {
	ex := model.ExecutiveSummary{
		MarketSentiment: overallSentiment(summary),
	}

	ex.KeyHighlights = []string{
		fmt.Sprintf("今日收集 %d 条数据，涵盖 %d 个数据源", summary.TotalItems, len(summary.ByOrigin)),
		fmt.Sprintf("重要销量数据 %d 条", summary.ByCategory[model.CategorySales]),
		fmt.Sprintf("新车型发布信息 %d 条", summary.ByCategory[model.CategoryNewModel]),
		fmt.Sprintf("行业领袖重要言论 %d 条", summary.ByCategory[model.CategoryLeaderStatement]),
	}

	// Top stories: the highest-ranked high-importance items.
	for _, it := range ranked {
		if it.Importance < 4 {
			continue
		}
		ex.TopStories = append(ex.TopStories, model.Highlight{
			Fingerprint: it.Fingerprint,
			Title:       it.Title,
			Source:      it.Origin,
			Brand:       it.Brand(),
			Importance:  it.Importance,
			Sentiment:   it.Sentiment,
		})
		if len(ex.TopStories) == 5 {
			break
		}
	}

	return ex
}

func overallSentiment(summary model.DataSummary) model.Sentiment {
	pos := summary.BySentiment[model.SentimentPositive]
	neg := summary.BySentiment[model.SentimentNegative]
	switch {
	case pos > neg:
		return model.SentimentPositive
	case neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// criticalAlert raises at most one alert per run: the top-ranked negative
// complaint with importance at least 4.
func criticalAlert(ranked []model.ScoredItem) *model.Alert {
	for _, it := range ranked {
		if it.Category != model.CategoryComplaint {
			continue
		}
		if it.Importance < 4 || it.Sentiment != model.SentimentNegative {
			continue
		}
		return &model.Alert{
			Title:       "高严重度投诉预警",
			Description: fmt.Sprintf("发现高严重度投诉：%s (%s)", it.Title, it.Origin),
			Fingerprint: it.Fingerprint,
			Severity:    it.Importance,
		}
	}
	return nil
}
