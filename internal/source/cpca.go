package source

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nevintel/internal/model"
)

// CPCAConfig configures the regulatory-body feed adapter.
type CPCAConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// CPCAAdapter pulls the China Passenger Car Association daily feed:
// sales figures, new model launches, complaint aggregates, and policy
// announcements in one endpoint.
type CPCAAdapter struct {
	cfg    CPCAConfig
	client *Client
}

// NewCPCA creates the regulatory feed adapter.
func NewCPCA(cfg CPCAConfig, client *Client) *CPCAAdapter {
	if cfg.Name == "" {
		cfg.Name = "cpca"
	}
	return &CPCAAdapter{cfg: cfg, client: client}
}

func (a *CPCAAdapter) Name() string { return a.cfg.Name }

// Fetch retrieves the daily feed and maps each entry by its feed section.
func (a *CPCAAdapter) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	var feed struct {
		Sales      []document `json:"sales"`
		NewModels  []document `json:"new_models"`
		Complaints []document `json:"complaints"`
		Policies   []document `json:"policies"`
	}
	if err := a.client.GetJSON(ctx, a.cfg.Endpoint, &feed); err != nil {
		return nil, eris.Wrapf(err, "cpca: fetch feed %s", a.cfg.Name)
	}

	now := time.Now().UTC()
	var out []model.RawRecord
	for _, d := range feed.Sales {
		out = append(out, d.toRecord(model.CategorySales, now))
	}
	for _, d := range feed.NewModels {
		out = append(out, d.toRecord(model.CategoryNewModel, now))
	}
	for _, d := range feed.Complaints {
		out = append(out, d.toRecord(model.CategoryComplaint, now))
	}
	for _, d := range feed.Policies {
		out = append(out, d.toRecord(model.CategoryPolicy, now))
	}
	return out, nil
}
