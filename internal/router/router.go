package router

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/api"
	"github.com/foodshare/foodshare/internal/metrics"
	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/views"
)

// MaxRequestBody is the largest request body read: one image plus room for
// the other form fields.
const MaxRequestBody = service.MaxImageSize + 1<<20

// Config is everything the router needs beyond the services.
type Config struct {
	Options api.Options
	// UploadsDir is served at /uploads when images are stored locally.
	UploadsDir string
	Logger     *logrus.Logger
}

// SetupRouter configures the application routes
func SetupRouter(svc api.Services, cfg Config) (*gin.Engine, error) {
	funcs := template.FuncMap{}
	if svc.DonationItems != nil {
		funcs["imageURL"] = svc.DonationItems.ImageURL
	}
	renderer, err := views.New(funcs)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.HTMLRender = renderer
	router.HandleMethodNotAllowed = false

	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.Recovery(cfg.Logger, views.ErrorPage))
	if svc.Sessions != nil {
		router.Use(middleware.LoadSession(svc.Sessions, cfg.Logger))
	}
	router.Use(middleware.Authorize(middleware.DefaultPolicies))

	router.StaticFS("/static", views.Static())
	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api.RegisterRoutes(&router.RouterGroup, svc, cfg.Options, cfg.Logger)

	router.NoRoute(func(c *gin.Context) {
		views.ErrorPage(c, http.StatusNotFound, "Page not found")
	})

	return router, nil
}

// Handler wraps the engine with the body limit and the form method override.
// Both have to run before gin picks a route, and the limit has to be in place
// before the override parses the form.
func Handler(engine *gin.Engine) http.Handler {
	return middleware.LimitBody(MaxRequestBody, middleware.MethodOverride(engine))
}
