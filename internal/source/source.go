// Package source implements the adapters that fetch raw documents from
// the configured intelligence sources. Adapters return whatever they
// parsed; an empty result is not an error, only genuine transport or
// parse failures are.
package source

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/resilience"
)

// Adapter fetches and lightly parses one source's documents.
type Adapter interface {
	// Name is the origin label stamped onto every record.
	Name() string

	// Fetch returns the source's current documents. It must not fail for
	// "no results".
	Fetch(ctx context.Context) ([]model.RawRecord, error)
}

// Client is the shared rate-limited HTTP client used by all adapters.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// ClientOptions configures the shared source client.
type ClientOptions struct {
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

// NewClient creates the shared adapter HTTP client.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 2
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "nevintel/1.0"
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		userAgent: opts.UserAgent,
	}
}

// GetJSON fetches url and decodes the response body into v. Retryable
// HTTP statuses are marked transient so the collector's retry loop can
// distinguish them from parse failures.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "source: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrapf(err, "source: build request %s", url)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "source: fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("source: fetch %s: status %d", url, resp.StatusCode)
		if resilience.RetryableStatus(resp.StatusCode) {
			return resilience.MarkTransient(err, resp.StatusCode)
		}
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return eris.Wrapf(err, "source: read body %s", url)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return eris.Wrapf(err, "source: decode %s", url)
	}
	return nil
}

// document is the wire shape shared by the source feeds.
type document struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Category    string         `json:"category"`
	DataType    string         `json:"data_type"`
	PublishDate string         `json:"publish_date"`
	URL         string         `json:"url"`
	Brand       string         `json:"brand"`
	Model       string         `json:"model"`
	SalesVolume int            `json:"sales_volume"`
	GrowthRate  float64        `json:"growth_rate"`
	PriceRange  string         `json:"price_range"`
	Severity    int            `json:"severity"`
	Complaint   string         `json:"complaint_type"`
	Rating      float64        `json:"rating"`
	Extra       map[string]any `json:"extra"`
}

// toRecord maps a wire document into a RawRecord. Absent or unparseable
// publish dates default to the ingestion clock.
func (d document) toRecord(defaultCategory model.Category, now time.Time) model.RawRecord {
	rec := model.RawRecord{
		Title:       strings.TrimSpace(d.Title),
		Body:        strings.TrimSpace(d.Content),
		PublishedAt: parseDate(d.PublishDate, now),
		Category:    defaultCategory,
		DataType:    model.DataTypeFact,
		Attrs:       map[string]any{},
	}
	if d.Category != "" {
		rec.Category = model.Category(d.Category)
	}
	if d.DataType != "" {
		rec.DataType = model.DataType(d.DataType)
	}
	if d.URL != "" {
		rec.Attrs[model.AttrURL] = d.URL
	}
	if d.Brand != "" {
		rec.Attrs[model.AttrBrand] = d.Brand
	}
	if d.Model != "" {
		rec.Attrs[model.AttrModel] = d.Model
	}
	if d.SalesVolume > 0 {
		rec.Attrs[model.AttrSalesVolume] = d.SalesVolume
		rec.Attrs[model.AttrGrowthRate] = d.GrowthRate
	}
	if d.PriceRange != "" {
		rec.Attrs[model.AttrPriceRange] = d.PriceRange
	}
	if d.Severity > 0 {
		rec.Attrs[model.AttrSeverity] = d.Severity
	}
	if d.Complaint != "" {
		rec.Attrs[model.AttrComplaintType] = d.Complaint
	}
	if d.Rating > 0 {
		rec.Attrs[model.AttrRating] = d.Rating
	}
	for k, v := range d.Extra {
		rec.Attrs[k] = v
	}
	return rec
}

// parseDate accepts RFC3339 or date-only stamps; anything else falls back
// to now, per the at-ingestion defaulting rule.
func parseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}
