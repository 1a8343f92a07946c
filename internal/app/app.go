// Package app wires the configuration into databases, services and the HTTP
// handler.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/foodshare/foodshare/config"
	"github.com/foodshare/foodshare/internal/api"
	"github.com/foodshare/foodshare/internal/database"
	"github.com/foodshare/foodshare/internal/geo"
	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/router"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/storage"
	"github.com/foodshare/foodshare/internal/store"
)

const geocodeCacheTTL = 30 * 24 * time.Hour

// App holds the long-lived resources of a running site.
type App struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Store    *store.Context
	Services api.Services
	// Sweeper clears expired sessions; nil when Redis expires them instead.
	Sweeper *service.DBSessions
	Handler http.Handler

	uploadsDir string
}

// New opens the database and Redis, migrates and builds every service and
// the HTTP handler.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		database.Close(db)
		return nil, err
	}

	rdb, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		// The site runs without Redis, just without its extras.
		logger.WithError(err).Warn("continuing without Redis")
		rdb = nil
	}

	a := &App{DB: db, Redis: rdb, Store: store.New(db)}
	if err := a.build(ctx, cfg, logger); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	geocoder := Geocoder(cfg, a.Redis, logger)

	images, err := a.imageStore(ctx, cfg)
	if err != nil {
		return err
	}
	imageSvc := service.NewImageService(images, logger)

	var backend service.SessionBackend
	if a.Redis != nil {
		backend = service.NewRedisSessions(a.Redis)
	} else {
		a.Sweeper = service.NewDBSessions(a.Store.Sessions, service.UTCClock)
		backend = a.Sweeper
	}

	a.Services = api.Services{
		Auth:          service.NewAuthService(a.Store, 0, logger),
		Sessions:      service.NewSessionService(backend, a.Store.Users, cfg.SessionSecret, cfg.SessionTTL, service.UTCClock),
		Users:         service.NewUserService(a.Store, geocoder, 0, logger),
		DonationItems: service.NewDonationItemService(a.Store, imageSvc, geocoder, service.UTCClock, logger),
		Requests:      service.NewRequestService(a.Store, geocoder, logger),
		Contacts:      service.NewContactService(a.Store),
		Health:        a.health,
	}
	if cfg.GoogleEnabled() {
		a.Services.Google = service.NewGoogleAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	opts := api.Options{
		SecureCookies: cfg.Environment == config.Production,
		CORSOrigins:   cfg.CORSAllowedOrigins,
	}
	if a.Redis != nil {
		opts.LoginLimiter = middleware.NewLoginRateLimiter(a.Redis, logger)
		opts.ContactLimiter = middleware.NewContactRateLimiter(a.Redis, cfg.ContactRateLimit, logger)
	}

	engine, err := router.SetupRouter(a.Services, router.Config{
		Options:    opts,
		UploadsDir: a.uploadsDir,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	a.Handler = router.Handler(engine)
	return nil
}

// Geocoder picks TomTom when a key is configured, cached in Redis when
// available, and otherwise stores addresses without a position.
func Geocoder(cfg *config.Config, rdb *redis.Client, logger *logrus.Logger) geo.Geocoder {
	if cfg.TomTomAPIKey == "" {
		logger.Info("TOMTOM_API_KEY not set, addresses will not be geocoded")
		return geo.Offline{}
	}
	var g geo.Geocoder = geo.NewTomTomClient(cfg.TomTomAPIKey)
	if rdb != nil {
		g = geo.NewCachedGeocoder(g, rdb, geocodeCacheTTL, logger)
	}
	return g
}

func (a *App) imageStore(ctx context.Context, cfg *config.Config) (service.ImageStore, error) {
	switch cfg.ImageStore {
	case config.ImageStoreS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(s3cfg), nil
	case config.ImageStoreLocal, "":
		local, err := storage.NewLocalStore(cfg.UploadsDir)
		if err != nil {
			return nil, err
		}
		a.uploadsDir = local.Dir()
		return local, nil
	default:
		return nil, fmt.Errorf("unknown image store: %s", cfg.ImageStore)
	}
}

func (a *App) health(ctx context.Context) error {
	if err := database.HealthCheck(ctx, a.DB); err != nil {
		return err
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	if a.Redis != nil {
		a.Redis.Close()
	}
	return database.Close(a.DB)
}
