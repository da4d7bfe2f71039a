package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	instrumentapp "github.com/wyfcoding/markettracker/internal/instrument/application"
	instrumentdomain "github.com/wyfcoding/markettracker/internal/instrument/domain"
	instrumentmysql "github.com/wyfcoding/markettracker/internal/instrument/infrastructure/persistence/mysql"
	instrumenthttp "github.com/wyfcoding/markettracker/internal/instrument/interfaces/http"
	ledgerapp "github.com/wyfcoding/markettracker/internal/ledger/application"
	ledgerdomain "github.com/wyfcoding/markettracker/internal/ledger/domain"
	ledgermysql "github.com/wyfcoding/markettracker/internal/ledger/infrastructure/persistence/mysql"
	ledgerhttp "github.com/wyfcoding/markettracker/internal/ledger/interfaces/http"
	marketapp "github.com/wyfcoding/markettracker/internal/marketdata/application"
	marketdomain "github.com/wyfcoding/markettracker/internal/marketdata/domain"
	"github.com/wyfcoding/markettracker/internal/marketdata/infrastructure/feed"
	marketmessaging "github.com/wyfcoding/markettracker/internal/marketdata/infrastructure/messaging"
	marketpersistence "github.com/wyfcoding/markettracker/internal/marketdata/infrastructure/persistence"
	marketmysql "github.com/wyfcoding/markettracker/internal/marketdata/infrastructure/persistence/mysql"
	marketredis "github.com/wyfcoding/markettracker/internal/marketdata/infrastructure/persistence/redis"
	markethttp "github.com/wyfcoding/markettracker/internal/marketdata/interfaces/http"
	orderapp "github.com/wyfcoding/markettracker/internal/order/application"
	orderdomain "github.com/wyfcoding/markettracker/internal/order/domain"
	ordermessaging "github.com/wyfcoding/markettracker/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/markettracker/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/markettracker/internal/order/interfaces/http"
	"github.com/wyfcoding/markettracker/pkg/cache"
	"github.com/wyfcoding/markettracker/pkg/config"
	"github.com/wyfcoding/markettracker/pkg/db"
	"github.com/wyfcoding/markettracker/pkg/logger"
	"github.com/wyfcoding/markettracker/pkg/metrics"
	"github.com/wyfcoding/markettracker/pkg/middleware"
	"github.com/wyfcoding/markettracker/pkg/mq"
	"github.com/wyfcoding/markettracker/pkg/utils"
)

var configPath = flag.String("config", "configs/tracker/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	log := logger.Get()
	slog.SetDefault(log)

	// 3. 初始化指标
	metricsImpl := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		if err := metricsImpl.Register(); err != nil {
			log.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
		metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 4. 初始化基础设施
	var database *db.DB
	err = utils.RetryWithBackoff(5, time.Second, 10*time.Second, func() error {
		var dbErr error
		database, dbErr = db.Init(db.Config{
			Driver:             cfg.Database.Driver,
			DSN:                cfg.Database.DSN,
			MaxOpenConns:       cfg.Database.MaxOpenConns,
			MaxIdleConns:       cfg.Database.MaxIdleConns,
			ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
			LogEnabled:         cfg.Database.LogEnabled,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		})
		return dbErr
	})
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Auto Migrate (仅用于开发方便)
	if cfg.Environment == "dev" {
		if err := database.DB.AutoMigrate(
			&instrumentdomain.Instrument{},
			&marketdomain.Quote{},
			&marketdomain.LatestQuote{},
			&ledgerdomain.Account{},
			&ledgerdomain.Holding{},
			&orderdomain.Order{},
		); err != nil {
			log.Error("failed to migrate database", "error", err)
		}
	}

	var quoteCache *marketredis.QuoteCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.New(cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Error("failed to init redis, quote cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			quoteCache = marketredis.NewQuoteCache(redisCache)
		}
	}

	var marketPublisher marketdomain.EventPublisher = marketmessaging.NoopEventPublisher{}
	var orderPublisher orderdomain.EventPublisher = ordermessaging.NoopEventPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			log.Error("failed to init kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		marketPublisher = marketmessaging.NewKafkaEventPublisher(producer)
		orderPublisher = ordermessaging.NewKafkaEventPublisher(producer)
	}

	// 5. 初始化仓储
	instrumentRepo := instrumentmysql.NewInstrumentRepository(database.DB)
	quoteRepo := marketpersistence.NewCompositeQuoteRepository(marketmysql.NewQuoteRepository(database.DB), quoteCache)
	ledgerRepo := ledgermysql.NewLedgerRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	txManager := ordermysql.NewTxManager(database.DB)

	// 6. 初始化应用服务
	instrumentSvc := instrumentapp.NewInstrumentService(instrumentRepo)
	marketSvc := marketapp.NewMarketDataService(quoteRepo)
	ledgerSvc := ledgerapp.NewLedgerService(ledgerRepo)
	orderSvc := orderapp.NewOrderService(orderRepo, instrumentRepo)

	// 7. 初始化后台任务：每类行情源一个采集循环，加上订单执行循环
	feedJobs := []*marketapp.IngestJob{
		marketapp.NewIngestJob(
			instrumentdomain.FeedEquity, instrumentRepo,
			feed.NewEquitySource(feedConfig(cfg.Feeds.Equity)),
			quoteRepo, marketPublisher, log, metricsImpl,
			time.Duration(cfg.Feeds.Equity.Interval)*time.Second, cfg.Scheduler.FetchConcurrency,
		),
		marketapp.NewIngestJob(
			instrumentdomain.FeedCrypto, instrumentRepo,
			feed.NewCryptoSource(feedConfig(cfg.Feeds.Crypto)),
			quoteRepo, marketPublisher, log, metricsImpl,
			time.Duration(cfg.Feeds.Crypto.Interval)*time.Second, cfg.Scheduler.FetchConcurrency,
		),
		marketapp.NewIngestJob(
			instrumentdomain.FeedMetal, instrumentRepo,
			feed.NewMetalSource(feedConfig(cfg.Feeds.Metal)),
			quoteRepo, marketPublisher, log, metricsImpl,
			time.Duration(cfg.Feeds.Metal.Interval)*time.Second, cfg.Scheduler.FetchConcurrency,
		),
	}
	executionJob := orderapp.NewExecutionJob(
		orderRepo, ledgerRepo, marketSvc, txManager, orderPublisher, log, metricsImpl,
		time.Duration(cfg.Scheduler.ExecutionInterval)*time.Second, cfg.Scheduler.ExecutionBatchSize,
	)

	// 8. 初始化接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsImpl))
	}

	api := r.Group("/api/v1")
	instrumenthttp.NewInstrumentHandler(instrumentSvc).RegisterRoutes(api)
	markethttp.NewHandler(marketSvc).RegisterRoutes(api)
	ledgerhttp.NewHandler(ledgerSvc).RegisterRoutes(api)
	orderhttp.NewHandler(orderSvc).RegisterRoutes(api)

	// 9. 启动服务
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(rootCtx)

	for _, job := range feedJobs {
		job := job
		g.Go(func() error {
			job.Run(ctx)
			return nil
		})
	}
	g.Go(func() error {
		executionJob.Run(ctx)
		return nil
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 10. 优雅关闭
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
	}
}

func feedConfig(cfg config.FeedConfig) feed.Config {
	return feed.Config{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	}
}
