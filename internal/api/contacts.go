package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/views"
)

type ContactHandler struct {
	base
	contacts service.IContactService
	limiter  *middleware.RateLimiter
}

// NewContactHandler creates the contact form handlers. limiter may be nil.
func NewContactHandler(contacts service.IContactService, limiter *middleware.RateLimiter, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{base: base{logger: logger}, contacts: contacts, limiter: limiter}
}

func (h *ContactHandler) RegisterRoutes(router *gin.RouterGroup) {
	contacts := router.Group("/contacts")
	{
		contacts.GET("", h.List)
		contacts.GET("/new", h.New)
		if h.limiter != nil {
			contacts.POST("", h.limiter.Middleware(views.ErrorPage), h.Create)
		} else {
			contacts.POST("", h.Create)
		}
		contacts.GET("/:id", h.Show)
	}
}

func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "contact/index", gin.H{"Contacts": contacts})
}

func (h *ContactHandler) New(c *gin.Context) {
	views.HTML(c, http.StatusOK, "contact/new", gin.H{"Form": contactForm{}})
}

func (h *ContactHandler) Create(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		h.invalidForm(c, "contact/new", err, gin.H{"Form": form})
		return
	}
	if _, err := h.contacts.Create(c.Request.Context(), service.ContactInput{
		Name:    form.Name,
		Email:   form.Email,
		Message: form.Message,
	}); err != nil {
		h.formFail(c, "contact/new", err, gin.H{"Form": form})
		return
	}
	views.HTML(c, http.StatusOK, "contact/new", gin.H{
		"Form":    contactForm{},
		"Success": "Message sent successfully.",
	})
}

func (h *ContactHandler) Show(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "contact/show", gin.H{"Contact": contact})
}
