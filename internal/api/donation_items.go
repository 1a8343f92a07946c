package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/views"
)

// DonationItemHandler is the donor side of the catalogue: listing items,
// managing them and accepting requests for them.
type DonationItemHandler struct {
	base
	items    service.IDonationItemService
	requests service.IRequestService
	users    service.IUserService
}

func NewDonationItemHandler(items service.IDonationItemService, requests service.IRequestService, users service.IUserService, logger *logrus.Logger) *DonationItemHandler {
	return &DonationItemHandler{
		base:     base{logger: logger},
		items:    items,
		requests: requests,
		users:    users,
	}
}

func (h *DonationItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/donation-items")
	{
		items.GET("", h.List)
		items.GET("/new", h.New)
		items.POST("", h.Create)
		items.GET("/:id", h.Show)
		items.GET("/:id/edit", h.Edit)
		items.PATCH("/:id", h.Update)
		items.GET("/:id/delete", h.ConfirmDelete)
		items.DELETE("/:id", h.Delete)
		items.GET("/:id/requests", h.Requests)
		items.GET("/:id/requests/:requestId", h.Request)
		items.POST("/:id/requests/:requestId/accept", h.AcceptRequest)
	}
}

// List shows the signed-in donor's items; admins see every item.
func (h *DonationItemHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	var (
		items []models.DonationItemSummary
		err   error
	)
	all := user.Role == models.RoleAdmin
	if all {
		items, err = h.items.ListAll(ctx)
	} else {
		items, err = h.items.ListByOwner(ctx, user.ID)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "donation-items/index", gin.H{"Items": items, "AllItems": all})
}

func (h *DonationItemHandler) New(c *gin.Context) {
	form := newDonationItemForm{
		donationItemForm: donationItemForm{
			Measurement: measurementForm{Type: models.MeasurementUnit, Value: 1},
			DateInfo:    dateInfoForm{Type: models.DateUseBy},
		},
	}
	if user, err := h.users.Get(c.Request.Context(), middleware.CurrentUser(c).ID); err == nil {
		form.Address = addressFormFrom(user.Address)
	}
	views.HTML(c, http.StatusOK, "donation-items/new", gin.H{"Form": form, "Options": itemOptions})
}

func (h *DonationItemHandler) Create(c *gin.Context) {
	var form newDonationItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.invalidForm(c, "donation-items/new", err, gin.H{"Form": form, "Options": itemOptions})
		return
	}
	data := gin.H{"Form": form, "Options": itemOptions}

	image, err := formUpload(c)
	if err != nil {
		h.formFail(c, "donation-items/new", err, data)
		return
	}

	in := form.input()
	in.Address = form.Address.model()
	if _, err := h.items.Create(c.Request.Context(), middleware.CurrentUser(c).ID, in, image); err != nil {
		h.formFail(c, "donation-items/new", err, data)
		return
	}
	c.Redirect(http.StatusFound, "/donation-items")
}

// managed loads the :id item for its owner or an admin, rendering the error
// page otherwise.
func (h *DonationItemHandler) managed(c *gin.Context) (*models.DonationItem, bool) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return nil, false
	}
	item, err := h.items.GetManaged(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return item, true
}

func (h *DonationItemHandler) Show(c *gin.Context) {
	item, ok := h.managed(c)
	if !ok {
		return
	}
	count, err := h.requests.CountByDonationItem(c.Request.Context(), item.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "donation-items/show", gin.H{"Item": item, "RequestCount": count})
}

func (h *DonationItemHandler) Edit(c *gin.Context) {
	item, ok := h.managed(c)
	if !ok {
		return
	}
	views.HTML(c, http.StatusOK, "donation-items/edit", gin.H{
		"Form":    donationItemFormFrom(item),
		"Options": itemOptions,
		"Item":    item,
	})
}

func (h *DonationItemHandler) Update(c *gin.Context) {
	item, ok := h.managed(c)
	if !ok {
		return
	}

	var form donationItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.invalidForm(c, "donation-items/edit", err, gin.H{"Form": form, "Options": itemOptions, "Item": item})
		return
	}
	data := gin.H{"Form": form, "Options": itemOptions, "Item": item}

	image, err := formUpload(c)
	if err != nil {
		h.formFail(c, "donation-items/edit", err, data)
		return
	}
	if _, err := h.items.Update(c.Request.Context(), item.ID, form.input(), image); err != nil {
		h.formFail(c, "donation-items/edit", err, data)
		return
	}
	c.Redirect(http.StatusFound, "/donation-items")
}

func (h *DonationItemHandler) ConfirmDelete(c *gin.Context) {
	item, ok := h.managed(c)
	if !ok {
		return
	}
	views.HTML(c, http.StatusOK, "donation-items/delete", gin.H{"Item": item})
}

func (h *DonationItemHandler) Delete(c *gin.Context) {
	item, ok := h.managed(c)
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), item.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/donation-items")
}

func (h *DonationItemHandler) Requests(c *gin.Context) {
	item, ok := h.managed(c)
	if !ok {
		return
	}
	reqs, err := h.requests.FindByDonationItem(c.Request.Context(), item.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "donation-items/requests/index", gin.H{"Item": item, "Requests": reqs})
}

func (h *DonationItemHandler) Request(c *gin.Context) {
	item, ok := h.managed(c)
	if !ok {
		return
	}
	requestID, ok := h.pathID(c, "requestId")
	if !ok {
		return
	}
	req, err := h.requests.GetForItem(c.Request.Context(), item.ID, requestID)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "donation-items/requests/show", gin.H{"Item": item, "Request": req})
}

// AcceptRequest claims the item for one request.
func (h *DonationItemHandler) AcceptRequest(c *gin.Context) {
	item, ok := h.managed(c)
	if !ok {
		return
	}
	requestID, ok := h.pathID(c, "requestId")
	if !ok {
		return
	}
	if err := h.requests.AcceptForItem(c.Request.Context(), item.ID, requestID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/donation-items/%s/requests", item.ID))
}
