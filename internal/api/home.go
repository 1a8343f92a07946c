package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/views"
)

// HealthCheck reports whether the backing services are reachable.
type HealthCheck func(ctx context.Context) error

// HomeHandler serves the public pages, the health check and the JSON
// location endpoint used by the item maps.
type HomeHandler struct {
	base
	items       service.IDonationItemService
	health      HealthCheck
	corsOrigins []string
}

func NewHomeHandler(items service.IDonationItemService, health HealthCheck, corsOrigins []string, logger *logrus.Logger) *HomeHandler {
	return &HomeHandler{
		base:        base{logger: logger},
		items:       items,
		health:      health,
		corsOrigins: corsOrigins,
	}
}

func (h *HomeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.Index)
	router.GET("/about", h.About)
	router.GET("/contact", h.Contact)
	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.CORS(h.corsOrigins))
	{
		v1.GET("/donation-items/:id/location", h.Location)
	}
}

func (h *HomeHandler) Index(c *gin.Context) {
	views.HTML(c, http.StatusOK, "home/index", nil)
}

func (h *HomeHandler) About(c *gin.Context) {
	views.HTML(c, http.StatusOK, "home/about", nil)
}

func (h *HomeHandler) Contact(c *gin.Context) {
	c.Redirect(http.StatusFound, "/contacts/new")
}

func (h *HomeHandler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			h.logger.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Location returns the pickup position of an item for signed-in users.
func (h *HomeHandler) Location(c *gin.Context) {
	if middleware.CurrentUser(c) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "donation item not found"})
		return
	}
	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logFailure(c, err)
		}
		c.JSON(status, gin.H{"error": userMessage(err)})
		return
	}
	coords := item.Address.Coordinates()
	if coords == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location unknown"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"latitude":  coords.Latitude,
		"longitude": coords.Longitude,
		"city":      item.Address.City,
	})
}
