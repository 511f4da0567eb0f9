package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/cost"
	"github.com/sells-group/lead-intel/internal/domain"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/monitoring"
	"github.com/sells-group/lead-intel/internal/pipeline"
	"github.com/sells-group/lead-intel/internal/provider"
	"github.com/sells-group/lead-intel/internal/resilience"
	"github.com/sells-group/lead-intel/internal/scorer"
	"github.com/sells-group/lead-intel/internal/store"
	"github.com/sells-group/lead-intel/internal/usage"
	"github.com/sells-group/lead-intel/pkg/apollo"
	"github.com/sells-group/lead-intel/pkg/hunter"
)

// leadEnv holds the store, enricher and bookkeeping shared by the
// enrich/batch/serve/leads commands.
type leadEnv struct {
	Store      store.Store
	Enricher   *pipeline.Enricher
	Tracker    usage.Tracker
	Breakers   *resilience.Breakers
	Calculator *cost.Calculator
	MinScore   int

	closers []func() error
}

// Close releases resources held by the environment.
func (e *leadEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			zap.L().Warn("close failed", zap.Error(err))
		}
	}
}

// Collector builds a monitoring collector over the environment.
func (e *leadEnv) Collector() *monitoring.Collector {
	return monitoring.NewCollector(e.Tracker, e.Calculator, e.Breakers, e.Store)
}

// record persists lead and bumps the dashboard counters. A lead counts as
// found when its score reaches the configured minimum.
func (e *leadEnv) record(ctx context.Context, lead *model.Lead) error {
	if err := e.Store.SaveLead(ctx, lead); err != nil {
		return err
	}
	if err := e.Store.IncrementStat(ctx, model.StatProfilesScanned, 1); err != nil {
		return err
	}
	if lead.Score >= e.MinScore {
		return e.Store.IncrementStat(ctx, model.StatLeadsFound, 1)
	}
	return nil
}

// initEnv validates the config for mode and wires the store, usage tracker,
// breakers and enricher. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*leadEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	env := &leadEnv{
		Store:      st,
		Breakers:   resilience.NewBreakers(resilience.FromConfig(cfg.Circuit)),
		Calculator: cost.NewCalculator(quotasFromConfig(cfg.Usage.Quotas)),
		MinScore:   cfg.Scoring.MinScore,
		closers:    []func() error{st.Close},
	}

	if err := st.Migrate(ctx); err != nil {
		env.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	tracker, closeTracker, err := initTracker(ctx)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Tracker = tracker
	if closeTracker != nil {
		env.closers = append(env.closers, closeTracker)
	}

	env.Enricher, err = buildEnricher(env.Tracker, env.Breakers)
	if err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leadintel.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initTracker(ctx context.Context) (usage.Tracker, func() error, error) {
	if cfg.Usage.Backend != "redis" {
		return usage.NewMemoryTracker(), nil, nil
	}
	rt, err := usage.NewRedisTrackerFromURL(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, eris.Wrap(err, "init usage tracker")
	}
	return rt, rt.Close, nil
}

// buildEnricher creates a guarded provider for every configured key. A
// missing key leaves that provider out and enrichment falls back to
// generated data.
func buildEnricher(tracker usage.Tracker, breakers *resilience.Breakers) (*pipeline.Enricher, error) {
	log := zap.L().With(zap.String("component", "cmd"))

	var (
		searcher  provider.DomainSearcher
		emails    provider.EmailFinder
		companies provider.CompanyDirectory
		people    provider.PersonDirectory
	)

	if cfg.Hunter.Key != "" {
		client := hunter.NewClient(cfg.Hunter.Key,
			hunter.WithBaseURL(cfg.Hunter.BaseURL),
			hunter.WithRateLimit(cfg.Hunter.RateLimit),
		)
		h := provider.NewHunter(client, guardFor(usage.Hunter, tracker, breakers))
		searcher, emails = h, h
	} else {
		log.Info("hunter key not set, using derived domains and generated emails")
	}

	if cfg.Apollo.Key != "" {
		client := apollo.NewClient(cfg.Apollo.Key,
			apollo.WithBaseURL(cfg.Apollo.BaseURL),
			apollo.WithRateLimit(cfg.Apollo.RateLimit),
		)
		a := provider.NewApollo(client, guardFor(usage.Apollo, tracker, breakers))
		companies, people = a, a
	} else {
		log.Info("apollo key not set, company and person data will be unknown")
	}

	sc, err := loadScorer()
	if err != nil {
		return nil, err
	}

	return pipeline.NewEnricher(
		domain.NewResolver(searcher),
		emails, companies, people,
		sc,
		pipeline.WithJitter(scorer.NewRandJitter(cfg.Scoring.JitterSeed)),
	), nil
}

// loadScorer uses the configured rules file, or the built-in rules when
// none is set.
func loadScorer() (*scorer.Scorer, error) {
	if cfg.Scoring.RulesFile == "" {
		return scorer.Default(), nil
	}
	rules, err := scorer.LoadRules(cfg.Scoring.RulesFile)
	if err != nil {
		return nil, eris.Wrap(err, "load scoring rules")
	}
	return scorer.New(rules), nil
}

func guardFor(name string, tracker usage.Tracker, breakers *resilience.Breakers) provider.Guard {
	return provider.Guard{
		Name:    name,
		Timeout: cfg.Enrich.ProviderTimeout(),
		Breaker: breakers.Get(name),
		Usage:   tracker,
	}
}

func quotasFromConfig(in map[string]config.ProviderQuota) map[string]cost.Quota {
	if len(in) == 0 {
		return cost.DefaultQuotas()
	}
	out := make(map[string]cost.Quota, len(in))
	for name, q := range in {
		out[name] = cost.Quota{Monthly: q.Monthly, PlanUSD: q.PlanUSD, OverageUSD: q.OverageUSD}
	}
	return out
}
