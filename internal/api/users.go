package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/views"
)

// UserHandler is the admin user management section.
type UserHandler struct {
	base
	users service.IUserService
}

func NewUserHandler(users service.IUserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{base: base{logger: logger}, users: users}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/new", h.New)
		users.POST("", h.Create)
		users.GET("/:id/edit", h.Edit)
		users.PATCH("/:id", h.Update)
		users.GET("/:id/delete", h.ConfirmDelete)
		users.DELETE("/:id", h.Delete)
		users.GET("/:id", h.Show)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "users/index", gin.H{"Users": users})
}

func (h *UserHandler) New(c *gin.Context) {
	views.HTML(c, http.StatusOK, "users/new", gin.H{
		"Form":  newUserForm{userForm: userForm{Role: models.RoleDonator}},
		"Roles": models.Roles,
	})
}

func (h *UserHandler) Create(c *gin.Context) {
	var form newUserForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		h.invalidForm(c, "users/new", err, gin.H{"Form": form, "Roles": models.Roles})
		return
	}

	in := form.input()
	in.Password = form.Password
	if _, err := h.users.Create(c.Request.Context(), in); err != nil {
		form.Password = ""
		h.formFail(c, "users/new", err, gin.H{"Form": form, "Roles": models.Roles})
		return
	}
	c.Redirect(http.StatusFound, "/users")
}

func (h *UserHandler) Edit(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "users/edit", gin.H{
		"Form":   userFormFrom(user),
		"UserID": user.ID,
		"Roles":  models.Roles,
	})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var form userForm
	data := gin.H{"UserID": id, "Roles": models.Roles}
	if err := c.ShouldBind(&form); err != nil {
		data["Form"] = form
		h.invalidForm(c, "users/edit", err, data)
		return
	}
	data["Form"] = form

	if _, err := h.users.Update(c.Request.Context(), id, form.input()); err != nil {
		h.formFail(c, "users/edit", err, data)
		return
	}
	c.Redirect(http.StatusFound, "/users")
}

func (h *UserHandler) ConfirmDelete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "users/delete", gin.H{"User": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/users")
}

func (h *UserHandler) Show(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "users/show", gin.H{"User": user})
}
