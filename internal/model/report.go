package model

import "time"

// SectionKey identifies one of the fixed report sections.
type SectionKey string

const (
	SectionSales          SectionKey = "sales_analysis"
	SectionNewModels      SectionKey = "new_models"
	SectionUserFeedback   SectionKey = "user_feedback"
	SectionPolicy         SectionKey = "policy_updates"
	SectionLeaderInsights SectionKey = "leader_insights"
	SectionNews           SectionKey = "news" // catch-all for unmapped categories
)

// SectionOrder is the canonical rendering order of report sections.
var SectionOrder = []SectionKey{
	SectionSales,
	SectionNewModels,
	SectionUserFeedback,
	SectionPolicy,
	SectionLeaderInsights,
	SectionNews,
}

// Section holds the ranked items bucketed under one section key, plus
// the section-local top highlights.
type Section struct {
	Key        SectionKey   `json:"key"`
	Title      string       `json:"title"`
	Items      []ScoredItem `json:"items"`
	Highlights []Highlight  `json:"highlights,omitempty"`
}

// Highlight is a compact pointer to a notable item.
type Highlight struct {
	Fingerprint string    `json:"fingerprint"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Brand       string    `json:"brand,omitempty"`
	Importance  int       `json:"importance"`
	Sentiment   Sentiment `json:"sentiment"`
}

// Alert flags a condition requiring manual attention. At most one per run.
type Alert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Fingerprint string `json:"fingerprint"`
	Severity    int    `json:"severity"`
}

// ExecutiveSummary condenses the day's corpus into headline findings.
type ExecutiveSummary struct {
	KeyHighlights   []string    `json:"key_highlights"`
	MarketSentiment Sentiment   `json:"market_sentiment"`
	TopStories      []Highlight `json:"top_stories"`
}

// DataSummary aggregates counts over the fused corpus.
type DataSummary struct {
	TotalItems     int                       `json:"total_items"`
	ByOrigin       map[string]int            `json:"by_origin"`
	ByCategory     map[Category]int          `json:"by_category"`
	ByBrand        map[string]int            `json:"by_brand,omitempty"`
	ByImportance   map[string]int            `json:"by_importance"` // high (4-5), medium (2-3), low (1)
	BySentiment    map[Sentiment]int         `json:"by_sentiment"`
	BrandSentiment map[string]map[Sentiment]int `json:"brand_sentiment,omitempty"`
	TechTrends     []string                  `json:"tech_trends,omitempty"`
}

// Report is the finalized, sectioned, ranked output of one pipeline run.
// One per calendar day; immutable once built.
type Report struct {
	Date        string                 `json:"date"` // YYYY-MM-DD
	GeneratedAt time.Time              `json:"generated_at"`
	VersionID   string                 `json:"version_id,omitempty"` // assigned on save
	Summary     DataSummary            `json:"summary"`
	Executive   ExecutiveSummary       `json:"executive_summary"`
	Sections    map[SectionKey]Section `json:"sections"`
	Alert       *Alert                 `json:"critical_alert,omitempty"`
}

// Items flattens all section items in canonical section order.
func (r *Report) Items() []ScoredItem {
	var out []ScoredItem
	for _, key := range SectionOrder {
		sec, ok := r.Sections[key]
		if !ok {
			continue
		}
		out = append(out, sec.Items...)
	}
	return out
}

// ItemByFingerprint returns the item with the given fingerprint, if present.
func (r *Report) ItemByFingerprint(fp string) (ScoredItem, bool) {
	for _, key := range SectionOrder {
		for _, it := range r.Sections[key].Items {
			if it.Fingerprint == fp {
				return it, true
			}
		}
	}
	return ScoredItem{}, false
}

// Version is an immutable snapshot of a saved report.
type Version struct {
	ID        string    `json:"id"` // <date>_V<n>
	Report    Report    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}

// FieldChange records one differing field on a modified item.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// ModifiedItem describes an item present in both compared versions with
// differing content or scores.
type ModifiedItem struct {
	Fingerprint string        `json:"fingerprint"`
	Title       string        `json:"title"`
	Changes     []FieldChange `json:"changes"`
}

// Diff is the structural difference between two report versions, matched
// by fingerprint.
type Diff struct {
	FromID   string         `json:"from_id"`
	ToID     string         `json:"to_id"`
	Added    []Highlight    `json:"added"`
	Removed  []Highlight    `json:"removed"`
	Modified []ModifiedItem `json:"modified"`
}
