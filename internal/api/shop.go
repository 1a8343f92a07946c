package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/views"
)

// ShopHandler is where pantries browse available items.
type ShopHandler struct {
	base
	items service.IDonationItemService
	users service.IUserService
}

func NewShopHandler(items service.IDonationItemService, users service.IUserService, logger *logrus.Logger) *ShopHandler {
	return &ShopHandler{base: base{logger: logger}, items: items, users: users}
}

func (h *ShopHandler) RegisterRoutes(router *gin.RouterGroup) {
	shop := router.Group("/shop")
	{
		shop.GET("", h.List)
		shop.GET("/:id", h.Show)
	}
}

// origin is the signed-in user's geocoded address, or nil.
func (h *ShopHandler) origin(c *gin.Context) *models.Coordinates {
	user, err := h.users.Get(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.logger.WithError(err).Warn("failed to load shopper address")
		return nil
	}
	return user.Address.Coordinates()
}

func (h *ShopHandler) List(c *gin.Context) {
	q := shopQuery{DaysAfterProduction: 7}
	data := gin.H{"Categories": models.Categories}
	if err := c.ShouldBindQuery(&q); err != nil {
		data["Query"] = q
		data["Items"] = []models.DonationItem{}
		h.invalidForm(c, "shop/index", err, data)
		return
	}
	data["Query"] = q

	items, err := h.items.FindEligibleForShop(c.Request.Context(), store.ShopFilter{
		DaysAfterBestBefore: q.DaysAfterBestBefore,
		DaysAfterProduction: q.DaysAfterProduction,
		Category:            q.Category,
		SearchTerm:          q.SearchTerm,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	data["Items"] = items
	data["Origin"] = h.origin(c)
	views.HTML(c, http.StatusOK, "shop/index", data)
}

func (h *ShopHandler) Show(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "shop/show", gin.H{"Item": item, "Origin": h.origin(c)})
}
