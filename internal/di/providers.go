package di

import (
	"context"
	"fmt"
	"time"

	"AssetRadar/internal/domain/repository"
	"AssetRadar/internal/handler/api"
	internalrepo "AssetRadar/internal/repository"
	"AssetRadar/internal/service/email"
	"AssetRadar/internal/service/ratelimit"
	"AssetRadar/internal/service/scoring"
	"AssetRadar/internal/service/tacache"
	"AssetRadar/internal/service/telegram"
	"AssetRadar/internal/service/tradingview"
	"AssetRadar/internal/service/yahoo"
	"AssetRadar/internal/usecase"
	pkgch "AssetRadar/pkg/clickhouse"
	"AssetRadar/pkg/config"
	xhttp "AssetRadar/pkg/http"
	pkgkafka "AssetRadar/pkg/kafka"
	applogger "AssetRadar/pkg/logger"
	"AssetRadar/pkg/metrics"
	"AssetRadar/pkg/queue"
	"AssetRadar/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideRecorder creates the ring buffer backing status log reporting.
func ProvideRecorder() *applogger.Recorder {
	return applogger.NewRecorder(100)
}

// ProvideLogger creates the application logger with the recorder attached.
func ProvideLogger(cfg *config.Config, recorder *applogger.Recorder) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AttachRecorder(recorder)
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New()
}

// ProvideQueue creates the background delivery queue.
func ProvideQueue(l *applogger.Logger) *queue.Queue {
	return queue.New(l, queue.WithWorkers(2), queue.WithJobTimeout(time.Minute))
}

// ProvideCacheStore selects the analysis cache backend.
func ProvideCacheStore(cfg *config.Config) tacache.Store {
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return tacache.NewRedisStore(client, "assetradar:analysis_cache")
	}
	return tacache.NewFileStore(cfg.TradingView.CacheFile)
}

// ProvideCache creates the TTL cache over the selected store.
func ProvideCache(store tacache.Store, cfg *config.Config, l *applogger.Logger) *tacache.Cache {
	return tacache.New(store, cfg.TradingView.CacheTTL, l)
}

// ProvideLimiter creates the scanner rate limiter.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.TradingView.CallsPerSecond)
}

// ProvideAnalysisSource creates the technical analysis scanner client.
func ProvideAnalysisSource(cfg *config.Config, cache *tacache.Cache, limiter *ratelimit.Limiter, m *metrics.Metrics, l *applogger.Logger) repository.AnalysisSource {
	return tradingview.NewClient(cfg.TradingView.BaseURL, cfg.TradingView.Timeout, cache, limiter, m, l)
}

// ProvidePriceSource creates the market data price client.
func ProvidePriceSource(cfg *config.Config, m *metrics.Metrics, l *applogger.Logger) repository.PriceSource {
	return yahoo.NewClient(cfg.MarketData.BaseURL, cfg.MarketData.Timeout, m, l)
}

// ProvideMessenger creates the Telegram bot, or nil when no token is set.
func ProvideMessenger(cfg *config.Config, m *metrics.Metrics, l *applogger.Logger) (repository.Messenger, error) {
	if cfg.Telegram.BotToken == "" {
		return nil, nil
	}
	log := telegram.NewMessageLog(cfg.Telegram.MessageLogFile)
	bot, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log, cfg.Telegram.RetryBackoff, m, l)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

// ProvideMailer creates the SMTP mailer, or nil when email is disabled.
func ProvideMailer(cfg *config.Config, q *queue.Queue, m *metrics.Metrics, l *applogger.Logger) repository.Mailer {
	if !cfg.Email.Enabled {
		return nil
	}
	return email.New(email.Config{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Address:   cfg.Email.Address,
		Password:  cfg.Email.Password,
		Recipient: cfg.Email.Recipient,
	}, q, m, l)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideHistory selects the run history backend.
func ProvideHistory(chClient *pkgch.Client) (repository.HistoryStore, error) {
	if chClient == nil {
		return internalrepo.NewMemoryHistory(10), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	history, err := internalrepo.NewClickHouseHistory(ctx, chClient)
	if err != nil {
		return nil, fmt.Errorf("clickhouse history: %w", err)
	}
	return history, nil
}

// ProvidePublisher creates the Kafka result publisher, or nil when disabled.
func ProvidePublisher(cfg *config.Config) (repository.ResultPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideStatusTracker creates the run status tracker.
func ProvideStatusTracker(recorder *applogger.Recorder) *usecase.StatusTracker {
	return usecase.NewStatusTracker(recorder)
}

// ProvideResolver creates the venue resolver.
func ProvideResolver(source repository.AnalysisSource, cfg *config.Config, l *applogger.Logger) *usecase.Resolver {
	return usecase.NewResolver(source, cfg.Analysis.ResolverCacheTTL, l)
}

// ProvideHorizonEvaluator creates the multi-interval evaluator.
func ProvideHorizonEvaluator(source repository.AnalysisSource) *usecase.HorizonEvaluator {
	return usecase.NewHorizonEvaluator(source)
}

// ProvideAnalyzer creates the run orchestrator.
func ProvideAnalyzer(
	cfg *config.Config,
	resolver *usecase.Resolver,
	source repository.AnalysisSource,
	horizons *usecase.HorizonEvaluator,
	prices repository.PriceSource,
	messenger repository.Messenger,
	mailer repository.Mailer,
	history repository.HistoryStore,
	publisher repository.ResultPublisher,
	status *usecase.StatusTracker,
	m *metrics.Metrics,
	l *applogger.Logger,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(
		usecase.AnalyzerConfig{
			Workers:       cfg.Analysis.Workers,
			TopN:          cfg.Analysis.TopN,
			BestN:         cfg.Analysis.BestN,
			TopStocks:     cfg.Analysis.TopStocks,
			TopCryptos:    cfg.Analysis.TopCryptos,
			WalletStocks:  cfg.Analysis.WalletStocks,
			WalletCryptos: cfg.Analysis.WalletCryptos,
			Risk: scoring.RiskParams{
				StopLossPercent: cfg.Analysis.Risk.StopLossPercent,
				RiskRewardRatio: cfg.Analysis.Risk.RiskRewardRatio,
				ATRMultiplier:   cfg.Analysis.Risk.ATRMultiplier,
				ATRRiskReward:   cfg.Analysis.Risk.ATRRiskReward,
			},
		},
		resolver, source, horizons, prices, messenger, mailer, history, publisher, status, m, l,
	)
}

// ProvideScheduler creates the daily scheduler wired to the analyzer.
func ProvideScheduler(cfg *config.Config, analyzer *usecase.Analyzer, l *applogger.Logger) (*usecase.Scheduler, error) {
	trigger := func() {
		if err := analyzer.Trigger("schedule"); err != nil {
			l.Warn("scheduled run not started", applogger.Error(err))
		}
	}
	return usecase.NewScheduler(cfg.Schedule.Times, cfg.Schedule.MisfireGrace, cfg.Schedule.RunOnStart, trigger, l)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(analyzer *usecase.Analyzer, status *usecase.StatusTracker, history repository.HistoryStore, cfg *config.Config, l *applogger.Logger) xhttp.Handler {
	return api.NewAnalysisHandler(analyzer, status, history, cfg.API.Secret, cfg.Environment, l)
}

// ProvideHTTPServer creates the Echo HTTP server.
func ProvideHTTPServer(handler xhttp.Handler, cfg *config.Config, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(handler, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	scheduler *usecase.Scheduler,
	q *queue.Queue,
	chClient *pkgch.Client,
	publisher repository.ResultPublisher,
) *server.App {
	return server.New(cfg, l, httpServer, scheduler, q, chClient, publisher)
}
