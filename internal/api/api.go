package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/service"
)

// Services are the dependencies of the web handlers.
type Services struct {
	Auth          service.IAuthService
	Sessions      service.ISessionService
	Users         service.IUserService
	DonationItems service.IDonationItemService
	Requests      service.IRequestService
	Contacts      service.IContactService
	// Google is nil when Google sign-in is not configured.
	Google GoogleSignIn
	Health HealthCheck
}

// Options tune the handlers.
type Options struct {
	SecureCookies  bool
	CORSOrigins    []string
	LoginLimiter   *middleware.RateLimiter
	ContactLimiter *middleware.RateLimiter
}

type routeRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// RegisterRoutes mounts every page and endpoint of the site on router.
func RegisterRoutes(router *gin.RouterGroup, svc Services, opts Options, logger *logrus.Logger) {
	RegisterValidators()

	handlers := []routeRegistrar{
		NewHomeHandler(svc.DonationItems, svc.Health, opts.CORSOrigins, logger),
		NewAuthHandler(svc.Auth, svc.Sessions, svc.Users, svc.Google, opts.LoginLimiter, opts.SecureCookies, logger),
		NewUserHandler(svc.Users, logger),
		NewDonationItemHandler(svc.DonationItems, svc.Requests, svc.Users, logger),
		NewShopHandler(svc.DonationItems, svc.Users, logger),
		NewRequestHandler(svc.Requests, svc.DonationItems, svc.Users, logger),
		NewContactHandler(svc.Contacts, opts.ContactLimiter, logger),
	}
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
}
