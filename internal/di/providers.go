package di

import (
	"context"
	"fmt"
	"time"

	domrepo "ForexPulse/internal/domain/repository"
	"ForexPulse/internal/engine"
	"ForexPulse/internal/handler/api"
	mid "ForexPulse/internal/middleware"
	internalrepo "ForexPulse/internal/repository"
	icache "ForexPulse/internal/service/cache"
	"ForexPulse/internal/service/metrics"
	"ForexPulse/internal/services/quotes"
	"ForexPulse/internal/usecase"
	pkgcache "ForexPulse/pkg/cache"
	pkgch "ForexPulse/pkg/clickhouse"
	"ForexPulse/pkg/config"
	xhttp "ForexPulse/pkg/http"
	pkgkafka "ForexPulse/pkg/kafka"
	applogger "ForexPulse/pkg/logger"
	"ForexPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Log.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Log.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideQuoteService builds the cached quote source with synthetic fallback.
func ProvideQuoteService(cfg *config.Config, log *applogger.Logger) *quotes.Service {
	seed := cfg.Signals.SyntheticSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	synthetic := quotes.NewSynthetic(seed)

	opts := []quotes.Option{quotes.WithPairs(cfg.Signals.Pairs)}
	if cfg.Provider.BaseURL != "" {
		provider := quotes.NewProvider(quotes.ProviderConfig{
			BaseURL: cfg.Provider.BaseURL,
			APIKey:  cfg.Provider.APIKey,
			Timeout: cfg.Provider.Timeout,
		})
		opts = append(opts, quotes.WithProvider(provider))
	}
	return quotes.NewService(icache.NewTTLCache(), synthetic, log, opts...)
}

// ProvideSessionTracker creates the session/risk tracker from config limits.
func ProvideSessionTracker(cfg *config.Config) *engine.SessionTracker {
	return engine.NewSessionTracker(cfg.Signals.SessionGoalBps, cfg.Signals.MaxDrawdownBps)
}

// ProvideCooldownTracker creates the per-pair cooldown tracker.
func ProvideCooldownTracker() *engine.CooldownTracker {
	return engine.NewCooldownTracker(engine.DefaultCooldown)
}

// ProvideClickHouseClient creates a ClickHouse client and initializes the
// signal journal schema. Returns nil when ClickHouse is disabled.
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
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SignalJournalSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideSignalJournal creates the emitted-signal journal. Nil when ClickHouse
// is disabled.
func ProvideSignalJournal(chClient *pkgch.Client, cfg *config.Config) domrepo.SignalJournal {
	if chClient == nil {
		return nil
	}
	table := cfg.ClickHouse.Table
	if table == "" {
		table = "signals"
	}
	return internalrepo.NewClickHouseSignalJournal(chClient.DB(), table)
}

// ProvideKafkaProducer creates a Kafka producer. Nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher. Nil when Kafka
// is disabled.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.SignalPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSignalRecorder fans emitted signals out to journal and publisher.
func ProvideSignalRecorder(journal domrepo.SignalJournal, publisher domrepo.SignalPublisher) *usecase.SignalRecorder {
	return usecase.NewSignalRecorder(journal, publisher)
}

// ProvideEngine builds the decision engine.
func ProvideEngine(
	cfg *config.Config,
	qs *quotes.Service,
	cooldown *engine.CooldownTracker,
	session *engine.SessionTracker,
	recorder *usecase.SignalRecorder,
	m domrepo.Metrics,
	log *applogger.Logger,
) *engine.Engine {
	opts := []engine.Option{
		engine.WithSink(recorder),
		engine.WithMetrics(m),
	}
	if cfg.Signals.CandleDepth > 0 {
		opts = append(opts, engine.WithCandleDepth(cfg.Signals.CandleDepth))
	}
	return engine.New(qs, cooldown, session, log, opts...)
}

// ProvideQuoteCollector builds the optional price stream collector. Nil when
// no WebSocket URL is configured.
func ProvideQuoteCollector(cfg *config.Config, qs *quotes.Service, m domrepo.Metrics, log *applogger.Logger) *usecase.QuoteCollector {
	if cfg.Provider.WebSocketURL == "" {
		return nil
	}
	stream := quotes.NewStream(
		cfg.Provider.APIKey,
		cfg.Provider.WebSocketURL,
		cfg.Signals.Pairs,
		cfg.Provider.ReconnectDelay,
		cfg.Provider.PingInterval,
		log,
	)
	collector := usecase.NewQuoteCollector(stream, qs, m, nil)
	pipe := mid.NewTickPipeline(collector, m, mid.WithMaxRPS(10), mid.WithBufferSize(2000))
	return usecase.NewQuoteCollector(stream, qs, m, pipe)
}

// ProvideResponseCache selects the response cache backend: redis when
// enabled, otherwise in-process memory.
func ProvideResponseCache(cfg *config.Config) (icache.BytesCache, error) {
	if cfg.Redis.Enabled {
		host, port := splitHostPort(cfg.Redis.Addr)
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Redis.Password),
			pkgcache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return icache.NewServiceCache(rc), nil
	}
	return icache.NewServiceCache(pkgcache.NewMemoryCache()), nil
}

// ProvideSignalUseCase wires the HTTP-facing use case.
func ProvideSignalUseCase(
	eng *engine.Engine,
	qs *quotes.Service,
	journal domrepo.SignalJournal,
	session *engine.SessionTracker,
	m domrepo.Metrics,
) *usecase.SignalUseCase {
	return usecase.NewSignalUseCase(eng, qs, journal, session, m)
}

// ProvideHandler builds the Echo handler with response caching.
func ProvideHandler(log *applogger.Logger, uc *usecase.SignalUseCase, respCache icache.BytesCache) xhttp.Handler {
	h := api.NewSignalsHandler(log, uc)
	h.SetCache(respCache)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	eng *engine.Engine,
	recorder *usecase.SignalRecorder,
	collector *usecase.QuoteCollector,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, log, handler, eng, recorder, collector, chClient)
}

func splitHostPort(addr string) (string, int) {
	host := "localhost"
	port := 6379
	if addr == "" {
		return host, port
	}
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			host = addr[:i]
			p := 0
			for _, r := range addr[i+1:] {
				if r < '0' || r > '9' {
					return host, port
				}
				p = p*10 + int(r-'0')
			}
			if p > 0 {
				port = p
			}
			return host, port
		}
	}
	return addr, port
}
