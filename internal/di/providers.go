package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"RiskVaR/internal/domain/repository"
	domsvc "RiskVaR/internal/domain/service"
	"RiskVaR/internal/handler/api"
	mid "RiskVaR/internal/middleware"
	internalrepo "RiskVaR/internal/repository"
	isvc "RiskVaR/internal/service"
	icache "RiskVaR/internal/service/cache"
	"RiskVaR/internal/service/finnhub"
	"RiskVaR/internal/service/ratelimit"
	"RiskVaR/internal/usecase"
	pkgcache "RiskVaR/pkg/cache"
	pkgch "RiskVaR/pkg/clickhouse"
	"RiskVaR/pkg/config"
	xhttp "RiskVaR/pkg/http"
	pkgkafka "RiskVaR/pkg/kafka"
	applogger "RiskVaR/pkg/logger"
	"RiskVaR/pkg/metrics"
	"RiskVaR/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) *applogger.Logger {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		l, _ = applogger.New(&applogger.Config{Level: "info", Format: "json", Output: "stderr"})
	}
	return l
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
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

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS riskvar",
		`CREATE TABLE IF NOT EXISTS riskvar.px_ticks
            (ts DateTime, symbol String, price Float64, volume Float64, source String, event_id String)
            ENGINE=MergeTree ORDER BY (symbol, ts)`,
		`CREATE TABLE IF NOT EXISTS riskvar.px_daily
            (d Date, symbol String, close Float64)
            ENGINE=ReplacingMergeTree ORDER BY (symbol, d)`,
		`CREATE TABLE IF NOT EXISTS riskvar.var_reports
            (generated_at DateTime, symbol String, confidence Float64, horizon_days Int32,
             portfolio_value Float64, hist_var Float64, param_var Float64, mc_var Float64,
             hist_dollar Float64, param_dollar Float64, mc_dollar Float64, report String)
            ENGINE=MergeTree ORDER BY (symbol, generated_at)`,
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
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

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTickStorage creates ClickHouse tick storage repository.
func ProvideTickStorage(chClient *pkgch.Client, cfg *config.Config) repository.TickStorage {
	return internalrepo.NewClickHouseTickStorage(chClient.DB(), cfg.ClickHouse.Database+".px_ticks")
}

// ProvideTickPublisher creates Kafka publisher repository.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaTicksHandler registers handler for ticks topic.
func ProvideKafkaTicksHandler(store repository.TickStorage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideFinnhubStream creates Finnhub WebSocket stream.
func ProvideFinnhubStream(cfg *config.Config) repository.MarketStream {
	return finnhub.New(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
	)
}

// ProvideTickProcessor creates tick processor use case.
func ProvideTickProcessor(
	pub repository.Publisher,
	store repository.TickStorage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideTickCollector creates tick collector use case.
func ProvideTickCollector(
	stream repository.MarketStream,
	processor *usecase.TickProcessor,
	metrics repository.Metrics,
) *usecase.TickCollector {
	// Build middleware pipeline between WebSocket and Kafka
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, processor, metrics, pipe)
}

// ProvidePriceStore creates the ClickHouse daily close store.
func ProvidePriceStore(chClient *pkgch.Client, l *applogger.Logger) repository.PriceStore {
	s := internalrepo.NewCHPriceStore(chClient)
	s.SetLogger(l)
	return s
}

// ProvideReportStore creates the ClickHouse report store.
func ProvideReportStore(chClient *pkgch.Client, l *applogger.Logger) repository.ReportStore {
	s := internalrepo.NewCHReportStore(chClient)
	s.SetLogger(l)
	return s
}

// ProvidePriceCache creates the series cache: layered memory+Redis when Redis
// is enabled, in-process memory otherwise.
func ProvidePriceCache(cfg *config.Config) pkgcache.Service {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(500))
	}
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		host, portStr = cfg.Cache.Redis.Addr, "6379"
	}
	port, _ := strconv.Atoi(portStr)
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix("riskvar"),
	)
	if err != nil {
		// cache is an optimization; fall back to memory only
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(500))
	}
	return pkgcache.NewLayeredCache(c, pkgcache.WithLayeredMemorySize(500))
}

// ProvidePriceSource composes store-first price resolution with Finnhub REST
// fallback.
func ProvidePriceSource(store repository.PriceStore, cfg *config.Config, cache pkgcache.Service, l *applogger.Logger) domsvc.PriceSource {
	history := finnhub.NewHistory(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.RESTURL,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Finnhub.RESTTimeout)),
		ratelimit.New(),
	)
	return isvc.NewStoredPriceSource(store, history, cache, cfg.Cache.PriceTTL, l)
}

// ProvideRiskPipeline creates the VaR pipeline use case.
func ProvideRiskPipeline(source domsvc.PriceSource, reports repository.ReportStore, metrics repository.Metrics) *usecase.RiskPipeline {
	return usecase.NewRiskPipeline(source, reports, metrics)
}

// ProvideRiskHandler creates the Echo API handler.
func ProvideRiskHandler(
	l *applogger.Logger,
	pipeline *usecase.RiskPipeline,
	prices repository.PriceStore,
	reports repository.ReportStore,
	cfg *config.Config,
) *api.RiskEchoHandler {
	h := api.NewRiskEchoHandler(l,
		pipeline,
		usecase.NewPricesUseCase(prices),
		usecase.NewReportsUseCase(reports),
	)
	if cfg.Cache.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideDailyRollup creates the scheduled tick-to-daily rollup.
func ProvideDailyRollup(ticks repository.TickStorage, prices repository.PriceStore, cfg *config.Config, l *applogger.Logger) *usecase.DailyRollup {
	return usecase.NewDailyRollup(ticks, prices, cfg.Finnhub.Symbols, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	handler *api.RiskEchoHandler,
	rollup *usecase.DailyRollup,
) *server.App {
	// Attach hook to consumer: example NoopHook for now; can be replaced via config
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	app.SetRollup(rollup)
	// attach tick processor to app for closing resources via collector
	if collector != nil {
		app.TickProc = collector.Processor()
	}
	return app
}
