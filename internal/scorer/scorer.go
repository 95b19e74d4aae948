package scorer

import (
	"strings"
	"time"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/ranker"
)

// Config controls scoring behavior beyond the lexicon tables.
type Config struct {
	// Recognized is the set of configured source names; membership earns
	// the +15 quality bonus.
	Recognized []string

	// GovernmentOrigins floor importance at 2 for regulatory sources.
	GovernmentOrigins []string
}

// Scorer turns raw records into scored items. All methods are pure:
// the same record and clock always produce the same ScoredItem.
type Scorer struct {
	lex *Lexicons
	cfg Config

	recognized map[string]bool
	government map[string]bool
}

// New creates a Scorer over the given lexicon tables.
func New(lex *Lexicons, cfg Config) *Scorer {
	s := &Scorer{
		lex:        lex,
		cfg:        cfg,
		recognized: make(map[string]bool, len(cfg.Recognized)),
		government: make(map[string]bool, len(cfg.GovernmentOrigins)),
	}
	for _, o := range cfg.Recognized {
		s.recognized[o] = true
	}
	for _, o := range cfg.GovernmentOrigins {
		s.government[o] = true
	}
	return s
}

// Score computes all normalized scores for a record at the given clock.
func (s *Scorer) Score(rec model.RawRecord, now time.Time) model.ScoredItem {
	text := rec.Title + " " + rec.Body
	freshness, tier := ranker.Freshness(rec.PublishedAt, now)

	return model.ScoredItem{
		RawRecord:     rec,
		Fingerprint:   Fingerprint(rec.Title, rec.Origin, rec.PublishedAt),
		Importance:    s.importance(text, rec.Origin),
		Sentiment:     s.sentiment(text),
		DataQuality:   s.dataQuality(rec),
		Relevance:     s.relevance(text),
		Freshness:     freshness,
		FreshnessTier: tier,
		Verification:  model.VerificationPending,
		ScoredAt:      now,
	}
}

// importance is the maximum lexicon weight matched in the text, floored
// at 2 for government origins and clamped to [1,5].
func (s *Scorer) importance(text, origin string) int {
	score := 1
	for kw, weight := range s.lex.Importance {
		if weight > score && strings.Contains(text, kw) {
			score = weight
		}
	}
	if s.government[origin] && score < 2 {
		score = 2
	}
	if score > 5 {
		score = 5
	}
	return score
}

// sentiment compares positive and negative lexicon hits; ties are neutral.
func (s *Scorer) sentiment(text string) model.Sentiment {
	var pos, neg int
	for _, w := range s.lex.Sentiment.Positive {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range s.lex.Sentiment.Negative {
		if strings.Contains(text, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return model.SentimentPositive
	case neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// dataQuality is a weighted completeness score capped at 100.
func (s *Scorer) dataQuality(rec model.RawRecord) int {
	score := 0
	if strings.TrimSpace(rec.Title) != "" {
		score += 20
	}
	if strings.TrimSpace(rec.Body) != "" {
		score += 20
	}
	if !rec.PublishedAt.IsZero() {
		score += 15
	}
	if s.recognized[rec.Origin] {
		score += 15
	}
	if s.lex.IsAuthoritative(rec.Origin) {
		score += 20
	}
	if rec.DataType == model.DataTypeFact {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

// relevance starts at 50 and gains +5 per matched relevance keyword,
// capped at 100.
func (s *Scorer) relevance(text string) int {
	score := 50
	for _, kw := range s.lex.Relevance {
		if strings.Contains(text, kw) {
			score += 5
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

// TechTrends returns the trend keywords present in the given items,
// in lexicon order.
func (s *Scorer) TechTrends(items []model.ScoredItem) []string {
	var out []string
	for _, kw := range s.lex.TechTrends {
		for _, it := range items {
			if strings.Contains(it.Title+" "+it.Body, kw) {
				out = append(out, kw)
				break
			}
		}
	}
	return out
}
