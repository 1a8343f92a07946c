package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/views"
)

// RequestHandler is the requester side: asking for items, cancelling and
// confirming receipt.
type RequestHandler struct {
	base
	requests service.IRequestService
	items    service.IDonationItemService
	users    service.IUserService
}

func NewRequestHandler(requests service.IRequestService, items service.IDonationItemService, users service.IUserService, logger *logrus.Logger) *RequestHandler {
	return &RequestHandler{
		base:     base{logger: logger},
		requests: requests,
		items:    items,
		users:    users,
	}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests")
	{
		requests.GET("", h.List)
		requests.GET("/new/:donationItemId", h.New)
		requests.POST("", h.Create)
		requests.GET("/:requestId", h.Show)
		requests.GET("/:requestId/cancel", h.ConfirmCancel)
		requests.DELETE("/:requestId", h.Cancel)
		requests.POST("/:requestId/complete", h.Complete)
	}
}

func (h *RequestHandler) List(c *gin.Context) {
	reqs, err := h.requests.FindByUser(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "request/index", gin.H{"Requests": reqs})
}

func (h *RequestHandler) newPage(item *models.DonationItem, form requestForm) gin.H {
	return gin.H{"Item": item, "Form": form, "DeliveryMethods": models.DeliveryMethods}
}

// New prefills the request form with the requester's own address.
func (h *RequestHandler) New(c *gin.Context) {
	itemID, ok := h.pathID(c, "donationItemId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	item, err := h.items.Get(ctx, itemID)
	if err != nil {
		h.fail(c, err)
		return
	}

	form := requestForm{DonationItemID: item.ID.String(), DeliveryMethod: models.DeliveryCollect}
	if user, err := h.users.Get(ctx, middleware.CurrentUser(c).ID); err == nil {
		form.Address = addressFormFrom(user.Address)
	}
	views.HTML(c, http.StatusOK, "request/new", h.newPage(item, form))
}

func (h *RequestHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var form requestForm
	bindErr := c.ShouldBind(&form)

	itemID, err := uuid.Parse(form.DonationItemID)
	if err != nil {
		views.ErrorPage(c, http.StatusNotFound, "donation item not found")
		return
	}
	item, err := h.items.Get(ctx, itemID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if bindErr != nil {
		h.invalidForm(c, "request/new", bindErr, h.newPage(item, form))
		return
	}

	if _, err := h.requests.Create(ctx, middleware.CurrentUser(c).ID, form.input(itemID)); err != nil {
		h.formFail(c, "request/new", err, h.newPage(item, form))
		return
	}
	c.Redirect(http.StatusFound, "/requests")
}

func (h *RequestHandler) Show(c *gin.Context) {
	id, ok := h.pathID(c, "requestId")
	if !ok {
		return
	}
	detail, err := h.requests.Get(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "request/show", gin.H{"Detail": detail})
}

func (h *RequestHandler) ConfirmCancel(c *gin.Context) {
	id, ok := h.pathID(c, "requestId")
	if !ok {
		return
	}
	views.HTML(c, http.StatusOK, "request/cancel", gin.H{"RequestID": id})
}

func (h *RequestHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "requestId")
	if !ok {
		return
	}
	if err := h.requests.Cancel(c.Request.Context(), id, middleware.CurrentUser(c).ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/requests")
}

// Complete is the requester confirming they received the item.
func (h *RequestHandler) Complete(c *gin.Context) {
	id, ok := h.pathID(c, "requestId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.requests.Get(ctx, id, middleware.CurrentUser(c)); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.requests.Complete(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/requests")
}
