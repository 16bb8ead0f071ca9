package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RiskVaR/internal/handler/api"
	"RiskVaR/internal/repository"
	isvc "RiskVaR/internal/service"
	icache "RiskVaR/internal/service/cache"
	"RiskVaR/internal/service/finnhub"
	"RiskVaR/internal/service/ratelimit"
	"RiskVaR/internal/usecase"
	pkgch "RiskVaR/pkg/clickhouse"
	"RiskVaR/pkg/config"
	xhttp "RiskVaR/pkg/http"
	pkgkafka "RiskVaR/pkg/kafka"
	applogger "RiskVaR/pkg/logger"
	"RiskVaR/pkg/queue"

	"github.com/redis/go-redis/v9"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.TickCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	rollup      *usecase.DailyRollup
	jobQueue    *queue.RedisQueue
	TickProc    *usecase.TickProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetRollup allows DI to inject the scheduled tick-to-daily rollup.
func (a *App) SetRollup(r *usecase.DailyRollup) { a.rollup = r }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	// Setup Echo HTTP server using pkg/http and register routes via handler
	var httpHandler xhttp.Handler
	if a.httpHandler != nil {
		httpHandler = a.httpHandler
	} else if a.chClient != nil {
		// Default wiring when DI didn't hand us a handler: ClickHouse-backed
		// prices with a Finnhub REST fallback.
		priceStore := repository.NewCHPriceStore(a.chClient)
		priceStore.SetLogger(l)
		reportStore := repository.NewCHReportStore(a.chClient)
		reportStore.SetLogger(l)

		history := finnhub.NewHistory(
			a.cfg.Finnhub.APIKey,
			a.cfg.Finnhub.RESTURL,
			xhttp.NewClient(xhttp.WithTimeout(a.cfg.Finnhub.RESTTimeout)),
			ratelimit.New(),
		)
		source := isvc.NewStoredPriceSource(priceStore, history, nil, a.cfg.Cache.PriceTTL, l)

		pipeline := usecase.NewRiskPipeline(source, reportStore, nil)
		prices := usecase.NewPricesUseCase(priceStore)
		reports := usecase.NewReportsUseCase(reportStore)

		h := api.NewRiskEchoHandler(l, pipeline, prices, reports)
		h.SetCache(icache.NewTTLCache())
		httpHandler = h
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector error", applogger.Error(err))
		}
	}()
	l.Info("collector started", applogger.Strings("symbols", a.cfg.Finnhub.Symbols))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start scheduled tick-to-daily rollup. With Redis enabled the job goes
	// through a shared queue so only one node executes each run.
	if a.rollup != nil {
		if a.cfg.Cache.Redis.Enabled {
			rdb := redis.NewClient(&redis.Options{
				Addr:     a.cfg.Cache.Redis.Addr,
				Password: a.cfg.Cache.Redis.Password,
				DB:       a.cfg.Cache.Redis.DB,
			})
			a.jobQueue = queue.NewRedisQueue(l, &queue.QueueConfig{Workers: 1, RetryLimit: 3}, rdb, queue.ModeProducerConsumer)
			a.jobQueue.RegisterJob(a.rollup)
			if err := a.jobQueue.Start(); err != nil {
				l.Warn("job queue start error, falling back to local ticker", applogger.Error(err))
				a.jobQueue = nil
				a.rollup.RunEvery(ctx, a.cfg.Risk.RollupEvery)
			} else {
				a.jobQueue.StartRetryProcessor()
				a.rollup.RunVia(ctx, a.jobQueue, a.cfg.Risk.RollupEvery)
				l.Info("daily rollup scheduled via redis queue")
			}
		} else {
			a.rollup.RunEvery(ctx, a.cfg.Risk.RollupEvery)
			l.Info("daily rollup scheduled")
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// best-effort logging via stdout
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop job queue
	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(ctx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close tick processor resources (publisher/storage)
	if a.TickProc != nil {
		a.TickProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
