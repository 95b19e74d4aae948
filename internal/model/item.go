package model

import (
	"time"
)

// Category classifies a collected document.
type Category string

const (
	CategorySales           Category = "sales"
	CategoryNewModel        Category = "new_model"
	CategoryComplaint       Category = "complaint"
	CategoryPolicy          Category = "policy"
	CategoryReview          Category = "review"
	CategoryForum           Category = "forum"
	CategoryNews            Category = "news"
	CategoryLeaderStatement Category = "leader_statement"
)

// Sentiment is the tri-state tone of a document.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// DataType distinguishes factual records from opinion and prediction.
type DataType string

const (
	DataTypeFact         DataType = "fact"
	DataTypeOpinion      DataType = "opinion"
	DataTypePrediction   DataType = "prediction"
	DataTypeUserFeedback DataType = "user_feedback"
)

// VerificationStatus tracks manual review state of an item.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationDisputed VerificationStatus = "disputed"
)

// FreshnessTier buckets items by age-decayed freshness.
type FreshnessTier string

const (
	TierVeryFresh FreshnessTier = "very_fresh"
	TierFresh     FreshnessTier = "fresh"
	TierNormal    FreshnessTier = "normal"
	TierExpired   FreshnessTier = "expired"
)

// Attribute keys used in RawRecord.Attrs by the source adapters.
const (
	AttrBrand          = "brand"
	AttrModel          = "model"
	AttrSalesVolume    = "sales_volume"
	AttrGrowthRate     = "growth_rate"
	AttrPriceRange     = "price_range"
	AttrSeverity       = "severity"
	AttrComplaintType  = "complaint_type"
	AttrRating         = "rating"
	AttrLeaderName     = "leader_name"
	AttrLeaderCompany  = "leader_company"
	AttrStatementType  = "statement_type"
	AttrStrategicLevel = "strategic_level"
	AttrURL            = "url"
)

// RawRecord is a lightly parsed document as produced by a source adapter.
// Immutable once produced; the collector stamps Origin before handing the
// record downstream.
type RawRecord struct {
	Title       string         `json:"title"`
	Body        string         `json:"body,omitempty"`
	Origin      string         `json:"origin"`
	PublishedAt time.Time      `json:"published_at"`
	Category    Category       `json:"category"`
	DataType    DataType       `json:"data_type,omitempty"`
	Attrs       map[string]any `json:"attrs,omitempty"`
}

// Brand returns the brand attribute, if present.
func (r RawRecord) Brand() string { return r.stringAttr(AttrBrand) }

// Model returns the vehicle model attribute, if present.
func (r RawRecord) Model() string { return r.stringAttr(AttrModel) }

// LeaderName returns the industry-leader attribute, if present.
func (r RawRecord) LeaderName() string { return r.stringAttr(AttrLeaderName) }

// Severity returns the complaint severity attribute, or 0.
func (r RawRecord) Severity() int { return r.intAttr(AttrSeverity) }

// SalesVolume returns the reported sales volume attribute, or 0.
func (r RawRecord) SalesVolume() int { return r.intAttr(AttrSalesVolume) }

func (r RawRecord) stringAttr(key string) string {
	if r.Attrs == nil {
		return ""
	}
	s, _ := r.Attrs[key].(string)
	return s
}

func (r RawRecord) intAttr(key string) int {
	if r.Attrs == nil {
		return 0
	}
	switch v := r.Attrs[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// ScoredItem is a RawRecord enriched with normalized scores and a
// deterministic fingerprint. Never mutated after creation; corrections
// produce a new ScoredItem with the same fingerprint and the later one
// wins during fusion.
type ScoredItem struct {
	RawRecord

	Fingerprint   string             `json:"fingerprint"`
	Importance    int                `json:"importance"`     // 1-5
	Sentiment     Sentiment          `json:"sentiment"`
	DataQuality   int                `json:"data_quality"`   // 0-100
	Relevance     int                `json:"relevance"`      // 0-100
	Freshness     int                `json:"freshness"`      // 0-100
	FreshnessTier FreshnessTier      `json:"freshness_tier"`
	Verification  VerificationStatus `json:"verification"`
	ScoredAt      time.Time          `json:"scored_at"`
}

// SourceResult records the outcome of one adapter invocation within a run.
type SourceResult struct {
	Source   string        `json:"source"`
	OK       bool          `json:"ok"`
	Items    int           `json:"items"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Batch is the union of raw records produced by one collection run,
// tagged with the run timestamp and the per-source outcome map.
type Batch struct {
	ID          string                  `json:"id"`
	CollectedAt time.Time               `json:"collected_at"`
	Records     []RawRecord             `json:"records"`
	Sources     map[string]SourceResult `json:"sources"`
}

// SucceededSources returns the names of sources that completed without error.
func (b *Batch) SucceededSources() []string {
	var out []string
	for name, res := range b.Sources {
		if res.OK {
			out = append(out, name)
		}
	}
	return out
}

// WarningKind classifies non-fatal problems accumulated during a run.
type WarningKind string

const (
	WarnSourceFailure WarningKind = "source_failure"
	WarnDataShape     WarningKind = "data_shape"
	WarnCoverage      WarningKind = "coverage"
	WarnQuality       WarningKind = "quality"
)

// Warning is a non-fatal problem surfaced alongside a successful result.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Source string      `json:"source,omitempty"`
	Detail string      `json:"detail"`
}
