package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nevintel/internal/collector"
	"github.com/sells-group/nevintel/internal/fusion"
	"github.com/sells-group/nevintel/internal/pipeline"
	"github.com/sells-group/nevintel/internal/ranker"
	"github.com/sells-group/nevintel/internal/report"
	"github.com/sells-group/nevintel/internal/scorer"
	"github.com/sells-group/nevintel/internal/source"
	"github.com/sells-group/nevintel/internal/store"
	"github.com/sells-group/nevintel/internal/version"
)

// pipelineEnv holds the initialized store, version layer, and pipeline
// shared by the collect/versions/diff/render/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Versions *version.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the persistence backend selected by store.driver.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.Path)
	}
	return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// initVersions opens the store, runs migrations, and wraps it in the
// version layer. Callers should defer env.Close() on the returned env.
func initVersions(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return &pipelineEnv{
		Store:    st,
		Versions: version.New(st, cfg.Versions.Retention),
	}, nil
}

// initPipeline builds the full collection pipeline on top of initVersions.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	env, err := initVersions(ctx)
	if err != nil {
		return nil, err
	}

	var lex *scorer.Lexicons
	if cfg.Scoring.LexiconPath != "" {
		lex, err = scorer.LoadLexicons(cfg.Scoring.LexiconPath)
	} else {
		lex, err = scorer.DefaultLexicons()
	}
	if err != nil {
		env.Close()
		return nil, eris.Wrap(err, "load lexicons")
	}

	client := source.NewClient(source.ClientOptions{
		UserAgent:      cfg.Sources.UserAgent,
		Timeout:        time.Duration(cfg.Collector.SourceTimeoutSecs) * time.Second,
		RequestsPerSec: cfg.Sources.RequestsPerSec,
		Burst:          cfg.Sources.Burst,
	})

	var adapters []source.Adapter
	if cfg.Sources.CPCA.Endpoint != "" {
		adapters = append(adapters, source.NewCPCA(cfg.Sources.CPCA, client))
	}
	adapters = append(adapters, source.NewPlatforms(cfg.Sources.Platforms, client)...)
	if cfg.Sources.Leaders.Endpoint != "" {
		adapters = append(adapters, source.NewLeaderTracker(cfg.Sources.Leaders, client))
	}
	zap.L().Info("sources configured", zap.Int("adapters", len(adapters)))

	orch := collector.New(adapters, collector.Config{
		SourceTimeout: time.Duration(cfg.Collector.SourceTimeoutSecs) * time.Second,
		MaxAttempts:   cfg.Collector.MaxAttempts,
		RunDeadline:   time.Duration(cfg.Collector.RunDeadlineSecs) * time.Second,
		MaxConcurrent: cfg.Collector.MaxConcurrent,
	})

	sc := scorer.New(lex, scorer.Config{
		Recognized:        cfg.Sources.Names(),
		GovernmentOrigins: cfg.Scoring.GovernmentOrigins,
	})

	fuseCfg := cfg.Fusion
	if len(fuseCfg.RequiredSources) == 0 {
		fuseCfg.RequiredSources = cfg.Sources.Names()
	}

	env.Pipeline = pipeline.New(
		orch,
		fusion.New(sc, fuseCfg),
		ranker.New(cfg.Ranking),
		report.NewBuilder(cfg.Report.TopHighlights),
		env.Versions,
	)

	return env, nil
}
