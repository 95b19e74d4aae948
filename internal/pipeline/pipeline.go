// Package pipeline wires collection, fusion, ranking, report assembly,
// and versioned persistence into one run.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nevintel/internal/collector"
	"github.com/sells-group/nevintel/internal/fusion"
	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/ranker"
	"github.com/sells-group/nevintel/internal/report"
	"github.com/sells-group/nevintel/internal/version"
)

// Pipeline runs the full daily intelligence cycle.
type Pipeline struct {
	collector *collector.Orchestrator
	fusion    *fusion.Engine
	ranker    *ranker.Engine
	builder   *report.Builder
	versions  *version.Store
}

// New assembles a pipeline from its stages.
func New(c *collector.Orchestrator, f *fusion.Engine, r *ranker.Engine, b *report.Builder, v *version.Store) *Pipeline {
	return &Pipeline{collector: c, fusion: f, ranker: r, builder: b, versions: v}
}

// RunResult is the outcome of one completed pipeline run.
type RunResult struct {
	Version  *model.Version
	Warnings []model.Warning
	Sources  map[string]model.SourceResult
	Duration time.Duration
}

// Run executes one collection-to-persistence cycle. Partial source
// failures degrade to warnings on the result; the run fails only when
// every source fails or when the finished report cannot be persisted.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	batch, err := p.collector.Collect(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: collect")
	}

	now := time.Now().UTC()
	fused, err := p.fusion.Fuse(batch, now)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fuse")
	}

	ranked := p.ranker.Rank(fused.Items)
	date := batch.CollectedAt.UTC().Format("2006-01-02")
	rep := p.builder.Build(ranked, fused.Summary, date, now)

	saved, err := p.versions.Save(ctx, *rep)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: save report")
	}

	res := &RunResult{
		Version:  saved,
		Warnings: fused.Warnings,
		Sources:  batch.Sources,
		Duration: time.Since(start),
	}

	zap.L().Info("pipeline run complete",
		zap.String("version", saved.ID),
		zap.Int("items", rep.Summary.TotalItems),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("duration", res.Duration))

	return res, nil
}
