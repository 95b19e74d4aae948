package source

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nevintel/internal/model"
)

// PlatformConfig configures one vertical-platform monitor (autohome,
// dongchedi, yiche, pcauto).
type PlatformConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// PlatformAdapter monitors one automotive vertical platform for new-car
// coverage, professional reviews, forum posts, and news.
type PlatformAdapter struct {
	cfg    PlatformConfig
	client *Client
}

// NewPlatform creates a vertical-platform adapter.
func NewPlatform(cfg PlatformConfig, client *Client) *PlatformAdapter {
	return &PlatformAdapter{cfg: cfg, client: client}
}

// NewPlatforms creates one adapter per configured platform.
func NewPlatforms(cfgs []PlatformConfig, client *Client) []Adapter {
	out := make([]Adapter, 0, len(cfgs))
	for _, cfg := range cfgs {
		out = append(out, NewPlatform(cfg, client))
	}
	return out
}

func (a *PlatformAdapter) Name() string { return a.cfg.Key }

// Fetch pulls the platform's daily document list. Documents without a
// category hint land in news.
func (a *PlatformAdapter) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	var feed struct {
		Items []document `json:"items"`
	}
	if err := a.client.GetJSON(ctx, a.cfg.Endpoint, &feed); err != nil {
		return nil, eris.Wrapf(err, "platform: fetch %s", a.cfg.Key)
	}

	now := time.Now().UTC()
	out := make([]model.RawRecord, 0, len(feed.Items))
	for _, d := range feed.Items {
		rec := d.toRecord(model.CategoryNews, now)
		if rec.Category == model.CategoryForum && rec.DataType == model.DataTypeFact {
			rec.DataType = model.DataTypeUserFeedback
		}
		if rec.Category == model.CategoryReview && rec.DataType == model.DataTypeFact {
			rec.DataType = model.DataTypeOpinion
		}
		out = append(out, rec)
	}
	return out, nil
}
