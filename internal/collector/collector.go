// Package collector orchestrates the concurrent fan-out over all source
// adapters and assembles the run's batch.
package collector

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/resilience"
	"github.com/sells-group/nevintel/internal/source"
)

// ErrNoSources is returned when every adapter fails. It is fatal at this
// layer; only an outer scheduler retries a whole run.
var ErrNoSources = eris.New("collector: no data sources available")

// Config bounds the collection phase.
type Config struct {
	// SourceTimeout boxes each adapter call independently.
	SourceTimeout time.Duration

	// MaxAttempts bounds retries per adapter. Empty results are success,
	// never retried.
	MaxAttempts int

	// RunDeadline bounds the whole collection phase. Zero means no
	// deadline beyond the caller's context.
	RunDeadline time.Duration

	// MaxConcurrent limits parallel adapter calls. Zero means unbounded.
	MaxConcurrent int
}

// Orchestrator runs all configured adapters and merges their output.
type Orchestrator struct {
	adapters []source.Adapter
	cfg      Config
}

// New creates an orchestrator over the given adapters.
func New(adapters []source.Adapter, cfg Config) *Orchestrator {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Orchestrator{adapters: adapters, cfg: cfg}
}

type fetchOutcome struct {
	result  model.SourceResult
	records []model.RawRecord
}

// Collect invokes every adapter concurrently, waits for each to complete
// or time out, and returns the union of all successfully fetched records.
// One adapter's failure never aborts the others; the failure reason is
// recorded under that source's name. Only total failure is an error.
func (o *Orchestrator) Collect(ctx context.Context) (*model.Batch, error) {
	if o.cfg.RunDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RunDeadline)
		defer cancel()
	}

	outcomes := make([]fetchOutcome, len(o.adapters))

	// Adapters never share state; each writes only its own slot, and the
	// group's Wait is the fan-in barrier.
	g, gctx := errgroup.WithContext(ctx)
	if o.cfg.MaxConcurrent > 0 {
		g.SetLimit(o.cfg.MaxConcurrent)
	}
	for i, adapter := range o.adapters {
		g.Go(func() error {
			outcomes[i] = o.fetchOne(gctx, adapter)
			return nil
		})
	}
	_ = g.Wait()

	batch := &model.Batch{
		ID:          uuid.New().String(),
		CollectedAt: time.Now().UTC(),
		Sources:     make(map[string]model.SourceResult, len(outcomes)),
	}

	succeeded := 0
	var reasons []string
	for _, out := range outcomes {
		batch.Sources[out.result.Source] = out.result
		if out.result.OK {
			succeeded++
			batch.Records = append(batch.Records, out.records...)
		} else {
			reasons = append(reasons, out.result.Source+": "+out.result.Error)
		}
	}

	if succeeded == 0 {
		return nil, eris.Wrapf(ErrNoSources, "all %d sources failed (%s)",
			len(o.adapters), strings.Join(reasons, "; "))
	}

	zap.L().Info("collection complete",
		zap.String("batch", batch.ID),
		zap.Int("sources_ok", succeeded),
		zap.Int("sources_failed", len(o.adapters)-succeeded),
		zap.Int("records", len(batch.Records)),
	)

	return batch, nil
}

// fetchOne runs a single adapter with its own timeout and retry budget,
// stamping the origin onto every returned record.
func (o *Orchestrator) fetchOne(ctx context.Context, adapter source.Adapter) fetchOutcome {
	name := adapter.Name()
	start := time.Now()

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = o.cfg.MaxAttempts

	records, err := resilience.Retry(ctx, retryCfg, name, func(ctx context.Context) ([]model.RawRecord, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.SourceTimeout)
		defer cancel()
		return adapter.Fetch(attemptCtx)
	})

	duration := time.Since(start)
	result := model.SourceResult{
		Source:   name,
		Items:    len(records),
		Duration: duration,
	}

	if err != nil {
		result.Error = err.Error()
		zap.L().Warn("source failed",
			zap.String("source", name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return fetchOutcome{result: result}
	}

	for i := range records {
		records[i].Origin = name
	}
	result.OK = true

	zap.L().Info("source collected",
		zap.String("source", name),
		zap.Int("items", len(records)),
		zap.Duration("duration", duration),
	)

	return fetchOutcome{result: result, records: records}
}
