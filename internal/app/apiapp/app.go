package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Dutaco/wingoo-clean/internal/config"
	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	"github.com/Dutaco/wingoo-clean/internal/infra/newsapi"
	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
	redrepo "github.com/Dutaco/wingoo-clean/internal/repo/redis"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	flightsvc "github.com/Dutaco/wingoo-clean/internal/services/flights"
	geosvc "github.com/Dutaco/wingoo-clean/internal/services/geo"
	giftsvc "github.com/Dutaco/wingoo-clean/internal/services/gifts"
	matchsvc "github.com/Dutaco/wingoo-clean/internal/services/matching"
	newssvc "github.com/Dutaco/wingoo-clean/internal/services/news"
	profilesvc "github.com/Dutaco/wingoo-clean/internal/services/profiles"
	quotasvc "github.com/Dutaco/wingoo-clean/internal/services/quota"
	subsvc "github.com/Dutaco/wingoo-clean/internal/services/subscriptions"
	zonesvc "github.com/Dutaco/wingoo-clean/internal/services/zones"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	zoneCacheRepo := redrepo.NewZoneCacheRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	quotaRepo := pgrepo.NewQuotaRepo(pool)
	zoneRepo := pgrepo.NewZoneRepo(pool)
	waiterCallRepo := pgrepo.NewWaiterCallRepo(pool)
	giftRepo := pgrepo.NewGiftRepo(pool)
	flightRepo := pgrepo.NewFlightRepo(pool)
	subscriptionRepo := pgrepo.NewSubscriptionRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)

	subscriptionService := subsvc.NewService(pool, subscriptionRepo, userRepo, subsvc.Config{
		PremiumDuration: cfg.Remote.Subscription.PremiumDuration,
	})
	quotaService := quotasvc.NewService(quotaRepo, subscriptionService, quotasvc.Config{
		GiftsPerMonth:   cfg.Remote.Limits.GiftsPerMonth,
		FlightsPerMonth: cfg.Remote.Limits.FlightsPerMonth,
		NewsPerMonth:    cfg.Remote.Limits.NewsPerMonth,
	})
	geoService := geosvc.NewService(userRepo)
	profileService := profilesvc.NewService(userRepo)
	matchService := matchsvc.NewService(userRepo, matchsvc.Config{
		MaxDistanceKM: cfg.Remote.Match.MaxDistanceKM,
	})
	zoneService := zonesvc.NewService(zonesvc.Dependencies{
		Zones:       zoneRepo,
		WaiterCalls: waiterCallRepo,
		Users:       userRepo,
		Cache:       zoneCacheRepo,
		Logger:      log,
		Config:      zonesvc.Config{CacheTTL: cfg.Remote.Zones.CacheTTL},
	})

	giftLimitPolicy, ok := enums.ParseLimitPolicy(cfg.Remote.Limits.GiftLimitPolicy)
	if !ok {
		giftLimitPolicy = enums.LimitPolicyCharge
	}
	giftService := giftsvc.NewService(giftsvc.Dependencies{
		Pool:    pool,
		Gifts:   giftRepo,
		Users:   userRepo,
		Quota:   quotaRepo,
		Premium: subscriptionService,
		Logger:  log,
		Config: giftsvc.Config{
			GiftsPerMonth: cfg.Remote.Limits.GiftsPerMonth,
			LimitPolicy:   giftLimitPolicy,
			FeeCents:      cfg.Remote.Limits.GiftFeeCents,
		},
	})
	flightService := flightsvc.NewService(flightsvc.Dependencies{
		Pool:    pool,
		Flights: flightRepo,
		Users:   userRepo,
		Quota:   quotaRepo,
		Premium: subscriptionService,
		Logger:  log,
		Config: flightsvc.Config{
			FlightsPerMonth: cfg.Remote.Limits.FlightsPerMonth,
			MinShared:       cfg.Remote.Match.FlightMinShared,
			MaxResults:      cfg.Remote.Match.FlightMaxResults,
		},
	})
	newsProvider := newsapi.NewClient(newsapi.Config{
		BaseURL:  cfg.News.BaseURL,
		APIKey:   cfg.News.APIKey,
		PageSize: cfg.News.PageSize,
		Language: cfg.News.Language,
		Timeout:  cfg.News.Timeout,
	})
	newsService := newssvc.NewService(newssvc.Dependencies{
		Pool:     pool,
		Provider: newsProvider,
		Users:    userRepo,
		Gate:     quotaService,
		Quota:    quotaRepo,
		Logger:   log,
		Config: newssvc.Config{
			NewsPerMonth: cfg.Remote.Limits.NewsPerMonth,
			MaxInterests: cfg.Remote.Match.NewsMaxInterests,
		},
	})

	RegisterRoutes(r, Dependencies{
		JWTManager:          jwtManager,
		GeoService:          geoService,
		ProfileService:      profileService,
		MatchService:        matchService,
		ZoneService:         zoneService,
		GiftService:         giftService,
		FlightService:       flightService,
		NewsService:         newsService,
		QuotaService:        quotaService,
		SubscriptionService: subscriptionService,
		Logger:              log,
		Config:              cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
