package di

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/internal/handler/api"
	mid "Assemblief/internal/middleware"
	internalrepo "Assemblief/internal/repository"
	"Assemblief/internal/service/marketdata"
	svcmetrics "Assemblief/internal/service/metrics"
	"Assemblief/internal/service/ratelimit"
	"Assemblief/internal/services/backtest"
	"Assemblief/internal/services/regime"
	"Assemblief/internal/services/signals"
	"Assemblief/internal/usecase"
	"Assemblief/pkg/cache"
	pkgch "Assemblief/pkg/clickhouse"
	"Assemblief/pkg/config"
	xhttp "Assemblief/pkg/http"
	pkgkafka "Assemblief/pkg/kafka"
	"Assemblief/pkg/logger"
	"Assemblief/pkg/metrics"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("service", cfg.App.Name)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the outbound client shared by market providers.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.MarketData.RequestTimeout),
		xhttp.WithUserAgent(cfg.App.Name+"/1.0"),
	)
}

// ProvideRegistry registers one breaker-guarded provider per market. All
// providers share a pacer keyed by provider name.
func ProvideRegistry(cfg *config.Config, client *xhttp.Client) *marketdata.Registry {
	pacer := ratelimit.New(cfg.MarketData.PacingRPS, cfg.MarketData.PacingBurst)
	bc := marketdata.BreakerConfig{
		ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		MinRequests:         cfg.Breaker.MinRequests,
		FailureRatio:        cfg.Breaker.FailureRatio,
		Interval:            cfg.Breaker.Interval,
		Timeout:             cfg.Breaker.Timeout,
	}
	guard := func(p domrepo.MarketProvider) domrepo.MarketProvider {
		return marketdata.NewBreakerProvider(p, bc)
	}

	return marketdata.NewRegistry().
		Register(marketdata.MarketCrypto, guard(marketdata.NewBinanceProvider(cfg.MarketData.BinanceURL, client, pacer))).
		Register(marketdata.MarketForex, guard(marketdata.NewForexProvider(cfg.MarketData.YahooURL, client, pacer))).
		Register(marketdata.MarketFutures, guard(marketdata.NewFuturesProvider(cfg.MarketData.YahooURL, client, pacer)))
}

// ProvideCandleStore opens the persistent candle store selected by
// store.type. "none" yields a nil store.
func ProvideCandleStore(cfg *config.Config, log *logger.Logger) (domrepo.CandleStore, func(), error) {
	var store domrepo.CandleStore
	switch cfg.Store.Type {
	case "none":
		return nil, func() {}, nil
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, pkgch.CandleSchema(cfg.ClickHouse.Database)); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		store = internalrepo.NewCHCandleStore(client, cfg.ClickHouse.Database, log)
	default:
		if dir := filepath.Dir(cfg.Store.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("store dir: %w", err)
			}
		}
		db, err := internalrepo.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite store: %w", err)
		}
		store = internalrepo.NewGormCandleStore(db)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Warn("candle store close", logger.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideCache creates the Redis-backed series cache fronted by an
// in-process layer. A disabled cache yields nil.
func ProvideCache(cfg *config.Config, log *logger.Logger) (cache.Service, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	layered := cache.NewLayeredCache(rc, cfg.Redis.L1TTL)
	cleanup := func() {
		if err := layered.Close(); err != nil {
			log.Warn("cache close", logger.Error(err))
		}
	}
	return layered, cleanup, nil
}

// ProvideMarketDataSource builds the fetch-and-store manager and wraps it
// with the series cache when one is configured.
func ProvideMarketDataSource(
	cfg *config.Config,
	registry *marketdata.Registry,
	store domrepo.CandleStore,
	c cache.Service,
	log *logger.Logger,
	m domrepo.Metrics,
) domrepo.MarketDataSource {
	manager := marketdata.NewManager(registry, store, cfg.Store.MaxAge, log, m)
	if c == nil {
		return manager
	}
	return marketdata.NewCachedSource(manager, c, cfg.Redis.TTL, log)
}

// ProvideEvaluationPublisher creates the Kafka evaluation publisher. A
// disabled publisher yields nil.
func ProvideEvaluationPublisher(cfg *config.Config, log *logger.Logger) (domrepo.EvaluationPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithBatching(cfg.Kafka.BatchSize, cfg.Kafka.BatchBytes, cfg.Kafka.BatchTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaEvaluationPublisher(producer, cfg.Kafka.Topic)
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Warn("kafka producer close", logger.Error(err))
		}
	}
	return pub, cleanup, nil
}

// ProvideBacktestEngine creates the backtest engine with configured costs.
func ProvideBacktestEngine(cfg *config.Config) *backtest.Engine {
	opts := []backtest.Option{
		backtest.WithCosts(cfg.Engine.TransactionCost, cfg.Engine.Slippage),
		backtest.WithSimulations(cfg.Engine.Simulations),
	}
	if cfg.Engine.Seed != nil {
		opts = append(opts, backtest.WithSeed(*cfg.Engine.Seed))
	}
	return backtest.NewEngine(opts...)
}

func ProvideClassifier() *regime.Classifier {
	return regime.NewClassifier()
}

func ProvideSignalSet() *signals.Set {
	return signals.NewSet()
}

// ProvideRankerConfig converts the cross-benchmark settings.
func ProvideRankerConfig(cfg *config.Config) (usecase.RankerConfig, error) {
	rc := usecase.RankerConfig{
		Workers:      cfg.MarketData.Workers,
		FetchTimeout: cfg.MarketData.FetchTimeout,
		Limit:        cfg.MarketData.DefaultLimit,
		CrossAssets:  cfg.MarketData.CrossAssets,
	}
	for _, s := range cfg.MarketData.CrossTimeframes {
		tf, err := domrepo.ParseTimeframe(s)
		if err != nil {
			return usecase.RankerConfig{}, fmt.Errorf("cross timeframe %q: %w", s, err)
		}
		rc.CrossTimeframes = append(rc.CrossTimeframes, tf)
	}
	return rc, nil
}

// ProvideAnalytics creates the single-series analytics use case.
func ProvideAnalytics(
	cfg *config.Config,
	source domrepo.MarketDataSource,
	classifier *regime.Classifier,
	set *signals.Set,
	engine *backtest.Engine,
	log *logger.Logger,
	m domrepo.Metrics,
	pub domrepo.EvaluationPublisher,
) *usecase.AnalyticsUseCase {
	return usecase.NewAnalyticsUseCase(source, classifier, set, engine, cfg.MarketData.DefaultLimit, log, m, pub)
}

func ProvideRanker(
	source domrepo.MarketDataSource,
	classifier *regime.Classifier,
	engine *backtest.Engine,
	set *signals.Set,
	rc usecase.RankerConfig,
	log *logger.Logger,
	m domrepo.Metrics,
	pub domrepo.EvaluationPublisher,
) *usecase.Ranker {
	return usecase.NewRanker(source, classifier, engine, set, rc, log, m, pub)
}

func ProvideReplayer(
	source domrepo.MarketDataSource,
	classifier *regime.Classifier,
	engine *backtest.Engine,
	set *signals.Set,
	rc usecase.RankerConfig,
	log *logger.Logger,
	m domrepo.Metrics,
	pub domrepo.EvaluationPublisher,
) *usecase.Replayer {
	return usecase.NewReplayer(source, classifier, engine, set, rc, log, m, pub)
}

// ProvideAnalyticsHandler creates the HTTP handler for the analytics API.
func ProvideAnalyticsHandler(
	cfg *config.Config,
	log *logger.Logger,
	analytics *usecase.AnalyticsUseCase,
	ranker *usecase.Ranker,
	replayer *usecase.Replayer,
) *api.AnalyticsEchoHandler {
	return api.NewAnalyticsEchoHandler(cfg.App.Name, log, analytics, ranker, replayer)
}

// ProvideHTTPServer creates the Echo server with per-client rate limiting.
func ProvideHTTPServer(cfg *config.Config, log *logger.Logger, handler *api.AnalyticsEchoHandler) *xhttp.Server {
	svcmetrics.Register()

	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		opts = append(opts, xhttp.WithAllowOrigins(cfg.Server.AllowedOrigins))
	}
	path := cfg.Metrics.Path
	if !cfg.Metrics.Enabled {
		path = ""
	}
	opts = append(opts, xhttp.WithMetrics(path, prometheus.DefaultRegisterer, prometheus.DefaultGatherer))
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		opts = append(opts, xhttp.WithMiddleware(mid.RateLimit(limiter, log, "/health", cfg.Metrics.Path)))
	}
	return xhttp.NewServer(handler, log, opts...)
}
