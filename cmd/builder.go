package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"aquadash/api"
	apiclient "aquadash/api/client"
	"aquadash/api/health"
	apiorder "aquadash/api/order"
	apisale "aquadash/api/sale"
	clientapp "aquadash/application/client"
	orderapp "aquadash/application/order"
	saleapp "aquadash/application/sale"
	"aquadash/config"
	clientdomain "aquadash/domain/client"
	orderdomain "aquadash/domain/order"
	productdomain "aquadash/domain/product"
	saledomain "aquadash/domain/sale"
	"aquadash/domain/shared"
	"aquadash/infrastructure/lock"
	"aquadash/infrastructure/persistence/mocks"
	"aquadash/infrastructure/persistence/mysql"
	"aquadash/infrastructure/persistence/retry"
	"aquadash/pkg/logger"
	"aquadash/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder builds an App from configuration
type AppBuilder struct {
	cfg      *config.Config
	clock    func() time.Time
	registry *prometheus.Registry
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:   cfg,
		clock: time.Now,
	}
}

// WithClock overrides the wall clock used for due-date evaluation
func (b *AppBuilder) WithClock(clock func() time.Time) *AppBuilder {
	b.clock = clock
	return b
}

// WithRegistry uses the given registry instead of a fresh one
func (b *AppBuilder) WithRegistry(reg *prometheus.Registry) *AppBuilder {
	b.registry = reg
	return b
}

// repositories the persistence backend selected by database.type
type repositories struct {
	orders     orderdomain.Repository
	sales      saledomain.Repository
	clients    clientdomain.Repository
	products   productdomain.Repository
	uowFactory shared.UnitOfWorkFactory
	db         *gorm.DB
}

// Build creates the App instance; the logger must already be initialized
func (b *AppBuilder) Build() (*App, error) {
	cfg := b.cfg

	logger.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("database", cfg.Database.Type),
		zap.String("lock", cfg.Lock.Type))

	location, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}
	policy, err := PolicyFromConfig(&cfg.Policy)
	if err != nil {
		return nil, err
	}

	reg := b.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	serverMetrics := metrics.NewServerMetrics(reg, "api")
	domainMetrics := metrics.NewDomainMetrics(reg)

	bus := shared.NewEventBus()
	if err := bus.Subscribe(shared.WildcardEvent, domainMetrics); err != nil {
		return nil, fmt.Errorf("subscribe domain metrics: %w", err)
	}

	repos, err := b.initRepositories(bus)
	if err != nil {
		return nil, err
	}

	locker, redisClient, err := b.initLocker()
	if err != nil {
		closeDB(repos.db)
		return nil, err
	}

	saleService := saleapp.NewApplicationService(saleapp.Dependencies{
		Sales:      repos.sales,
		Clients:    repos.clients,
		Products:   repos.products,
		UoWFactory: repos.uowFactory,
		Policy:     policy,
		Clock:      b.clock,
		Location:   location,
		Currency:   cfg.App.Currency,
	})
	orderService := orderapp.NewApplicationService(orderapp.Dependencies{
		Orders:     repos.orders,
		Sales:      repos.sales,
		Clients:    repos.clients,
		Products:   repos.products,
		UoWFactory: repos.uowFactory,
		Locker:     locker,
		Policy:     policy,
		Clock:      b.clock,
		Location:   location,
		Currency:   cfg.App.Currency,
		Rejections: domainMetrics,
	})
	clientService := clientapp.NewApplicationService(repos.clients)

	var pinger health.Pinger
	if repos.db != nil {
		db := repos.db
		pinger = func(ctx context.Context) error { return mysql.Ping(ctx, db) }
	}

	router := api.NewRouter(cfg, api.Controllers{
		Health: health.NewController(cfg, pinger),
		Order:  apiorder.NewController(orderService),
		Sale:   apisale.NewController(saleService),
		Client: apiclient.NewController(clientService),
	}, serverMetrics, reg)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		config: cfg,
		router: router,
		server: server,
		db:     repos.db,
		redis:  redisClient,
	}, nil
}

func (b *AppBuilder) initRepositories(bus *shared.EventBus) (*repositories, error) {
	if b.cfg.Database.Type != "mysql" {
		logger.Info("Using in-memory persistence layer")
		return &repositories{
			orders:     mocks.NewMockOrderRepository(),
			sales:      mocks.NewMockSaleRepository(),
			clients:    mocks.NewMockClientRepository(),
			products:   mocks.NewMockProductRepository(),
			uowFactory: mocks.NewMockUnitOfWorkFactory(bus),
		}, nil
	}

	logger.Info("Using MySQL/GORM persistence layer")

	db, err := mysql.FromAppConfig(b.cfg).Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mysql.Ping(ctx, db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}
	logger.Info("Connected to MySQL successfully")

	if b.cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			closeDB(db)
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	return &repositories{
		orders:     mysql.NewOrderRepository(db),
		sales:      mysql.NewSaleRepository(db),
		clients:    mysql.NewClientRepository(db),
		products:   mysql.NewProductRepository(db),
		uowFactory: mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(b.cfg), bus),
		db:         db,
	}, nil
}

func (b *AppBuilder) initLocker() (shared.Locker, *redis.Client, error) {
	lc := b.cfg.Lock
	if lc.Type != "redis" {
		return lock.NewLocalLocker(lc.WaitTimeout), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     lc.RedisAddr,
		Password: lc.RedisPass,
		DB:       lc.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", lc.RedisAddr, err)
	}
	logger.Info("Using redis order locks", zap.String("addr", lc.RedisAddr))

	return lock.NewRedisLocker(client, lock.RedisOptions{
		KeyPrefix:    lc.KeyPrefix,
		TTL:          lc.TTL,
		WaitTimeout:  lc.WaitTimeout,
		PollInterval: lc.PollInterval,
	}), client, nil
}

// PolicyFromConfig parses the configured ratios, falling back to the defaults for blanks
func PolicyFromConfig(pc *config.PolicyConfig) (orderdomain.Policy, error) {
	policy := orderdomain.DefaultPolicy()

	fields := []struct {
		name   string
		raw    string
		target *decimal.Decimal
	}{
		{"policy.min_first_payment_ratio", pc.MinFirstPaymentRatio, &policy.MinFirstPaymentRatio},
		{"policy.default_delivery_fee_ratio", pc.DefaultDeliveryFeeRatio, &policy.DefaultDeliveryFeeRatio},
		{"policy.penalty_ratio", pc.PenaltyRatio, &policy.PenaltyRatio},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return orderdomain.Policy{}, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
		if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
			return orderdomain.Policy{}, fmt.Errorf("%s must be between 0 and 1, got %s", f.name, f.raw)
		}
		*f.target = d
	}
	return policy, nil
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
