package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/affiliate-catalog/internal/cfg"
	v1Http "github.com/DRSN-tech/affiliate-catalog/internal/delivery/v1/http"
	"github.com/DRSN-tech/affiliate-catalog/internal/infrastructure/kafka"
	"github.com/DRSN-tech/affiliate-catalog/internal/metrics"
	fileRepo "github.com/DRSN-tech/affiliate-catalog/internal/repository/file"
	mockRepo "github.com/DRSN-tech/affiliate-catalog/internal/repository/mock"
	"github.com/DRSN-tech/affiliate-catalog/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/affiliate-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/affiliate-catalog/internal/repository/redis"
	redisConv "github.com/DRSN-tech/affiliate-catalog/internal/repository/redis/converter"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/affiliate"
	"github.com/DRSN-tech/affiliate-catalog/pkg/clients"
	"github.com/DRSN-tech/affiliate-catalog/pkg/closer"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/DRSN-tech/affiliate-catalog/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout = 5 * time.Second
	topicTimeout   = 10 * time.Second
)

// App связывает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	httpSrv *v1Http.Server
	closer  *closer.Closer
}

// NewApp собирает граф зависимостей. Недоступные Postgres, Redis и Kafka не мешают
// старту: каталог переходит на синтетические данные, кэш и шина деградируют.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(0)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.AddFunc("postgres", db.Close)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverterImpl{})
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverterImpl{})
	statsRepo := pgdb.NewLinkStatsRepo(db.Pool, pgdbConv.LinkStatsConverterImpl{})
	categoryFile := fileRepo.NewCategoryRepo(cfg.Catalog.CategoriesFile)
	synthetic := mockRepo.NewProductRepo(cfg.Catalog.MockProducts, uint64(cfg.Catalog.MockSeed))

	redisClient := initRedis(log, cfg)
	cl.Add("redis", redisClient.Close)
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.PageConverterImpl{}, cfg.Redis, log)

	catalogMetrics := metrics.New()

	publisher := initPublisher(log, cfg, cl)

	productUC := usecase.NewProductUC(productRepo, synthetic, cacheRepo, log, catalogMetrics)

	categories := usecase.NewCategoryStore(log, categoryRepo, categoryFile)
	loadCtx, loadCancel := context.WithTimeout(context.Background(), startupTimeout)
	categories.Load(loadCtx)
	loadCancel()
	log.Infof("categories loaded from %s: %d", categories.Source(), len(categories.Categories()))

	catalogUC := usecase.NewCatalogUC(productUC, categories, log, cfg.Catalog.ShowcaseSize)
	affiliateUC := usecase.NewAffiliateUC(
		affiliate.NewBuilder(cfg.Catalog.AffiliateBaseURL),
		statsRepo,
		publisher,
		log,
		catalogMetrics,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log, catalogMetrics)
	router.Init(catalogUC, affiliateUC, cfg.Catalog.ProductFallbackURL, map[string]v1Http.HealthCheck{
		"postgres": db.Ping,
		"redis":    redisClient.Ping,
	})

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add("http", httpSrv.Stop)

	return &App{
		cfg:     cfg,
		logger:  log,
		httpSrv: httpSrv,
		closer:  cl,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки или падения сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Http.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		appErr = errors.Join(appErr, err)
	}

	a.logger.Infof("application shutdown complete")
	return appErr
}

// initPGDB создаёт пул и применяет миграции. Ошибки миграций и пинга не фатальны:
// база может подняться позже, до тех пор каталог отдаёт синтетические данные.
func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(ctx); err != nil {
		log.Warnf("postgres is unavailable, catalog will serve synthetic data: %v", err)
		return db, nil
	}

	if err := db.RunMigrations(log); err != nil {
		log.Warnf("failed to run migrations: %v", err)
	}

	return db, nil
}

func initRedis(log logger.Logger, cfg *config.Config) *clients.RedisClient {
	client := clients.NewRedisClient(cfg.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Warnf("redis is unavailable, cache disabled until it recovers: %v", err)
	}

	return client
}

// initPublisher выбирает шину событий трекинга: Kafka при заданных брокерах, иначе лог.
func initPublisher(log logger.Logger, cfg *config.Config, cl *closer.Closer) usecase.EventPublisher {
	if !cfg.Kafka.Enabled {
		log.Infof("kafka brokers are not configured, tracking events will be logged")
		return kafka.NewLogPublisher(log)
	}

	producer := kafka.NewProducer(log, cfg.Kafka)
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		log.Warnf("failed to ensure kafka topic %s: %v", cfg.Kafka.Topic, err)
	}
	cl.Add("kafka", func(context.Context) error {
		return producer.Close()
	})

	return producer
}
