package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nevintel/internal/model"
)

// Leader identifies one tracked industry figure.
type Leader struct {
	ID      string `yaml:"id" mapstructure:"id"`
	Name    string `yaml:"name" mapstructure:"name"`
	Company string `yaml:"company" mapstructure:"company"`
}

// LeaderConfig configures the industry-leader statement tracker.
type LeaderConfig struct {
	Name     string   `yaml:"name" mapstructure:"name"`
	Endpoint string   `yaml:"endpoint" mapstructure:"endpoint"`
	Roster   []Leader `yaml:"roster" mapstructure:"roster"`
}

// LeaderAdapter tracks public statements (weibo posts, interviews,
// speeches) from a configured roster of industry figures.
type LeaderAdapter struct {
	cfg    LeaderConfig
	client *Client
}

// NewLeaderTracker creates the leader statement adapter.
func NewLeaderTracker(cfg LeaderConfig, client *Client) *LeaderAdapter {
	if cfg.Name == "" {
		cfg.Name = "leaders"
	}
	return &LeaderAdapter{cfg: cfg, client: client}
}

func (a *LeaderAdapter) Name() string { return a.cfg.Name }

// Fetch queries the statement feed once per roster entry. A failed query
// for one leader skips that leader; the adapter fails only when every
// query fails, so a single quiet account never sinks the whole source.
func (a *LeaderAdapter) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	now := time.Now().UTC()

	var out []model.RawRecord
	var lastErr error
	failures := 0

	for _, leader := range a.cfg.Roster {
		docs, err := a.fetchLeader(ctx, leader)
		if err != nil {
			failures++
			lastErr = err
			zap.L().Warn("leader query failed",
				zap.String("leader", leader.ID),
				zap.Error(err),
			)
			continue
		}
		for _, d := range docs {
			rec := d.toRecord(model.CategoryLeaderStatement, now)
			rec.DataType = model.DataTypeOpinion
			rec.Attrs[model.AttrLeaderName] = leader.Name
			rec.Attrs[model.AttrLeaderCompany] = leader.Company
			out = append(out, rec)
		}
	}

	if len(a.cfg.Roster) > 0 && failures == len(a.cfg.Roster) {
		return nil, eris.Wrap(lastErr, "leaders: all roster queries failed")
	}
	return out, nil
}

type leaderStatement struct {
	document
	SourceType     string `json:"source_type"`      // weibo, interview, speech
	StrategicLevel string `json:"strategic_level"`  // tactical, strategic, visionary
}

func (a *LeaderAdapter) fetchLeader(ctx context.Context, leader Leader) ([]document, error) {
	var feed struct {
		Statements []leaderStatement `json:"statements"`
	}
	u := fmt.Sprintf("%s?leader=%s", a.cfg.Endpoint, url.QueryEscape(leader.ID))
	if err := a.client.GetJSON(ctx, u, &feed); err != nil {
		return nil, err
	}

	docs := make([]document, 0, len(feed.Statements))
	for _, st := range feed.Statements {
		d := st.document
		if d.Extra == nil {
			d.Extra = map[string]any{}
		}
		if st.SourceType != "" {
			d.Extra[model.AttrStatementType] = st.SourceType
		}
		if st.StrategicLevel != "" {
			d.Extra[model.AttrStrategicLevel] = st.StrategicLevel
		}
		docs = append(docs, d)
	}
	return docs, nil
}
