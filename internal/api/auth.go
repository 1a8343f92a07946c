package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/views"
)

const oauthStateCookie = "foodshare_oauth_state"

// GoogleSignIn is the OAuth2 flow used by the Google routes.
type GoogleSignIn interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*service.GoogleProfile, error)
}

type AuthHandler struct {
	base
	auth          service.IAuthService
	sessions      service.ISessionService
	users         service.IUserService
	google        GoogleSignIn
	loginLimiter  *middleware.RateLimiter
	secureCookies bool
}

// NewAuthHandler creates the login, registration and profile handlers.
// google may be nil, which disables the Google routes.
func NewAuthHandler(auth service.IAuthService, sessions service.ISessionService, users service.IUserService, google GoogleSignIn, loginLimiter *middleware.RateLimiter, secureCookies bool, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		base:          base{logger: logger},
		auth:          auth,
		sessions:      sessions,
		users:         users,
		google:        google,
		loginLimiter:  loginLimiter,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/login", h.LoginForm)
		if h.loginLimiter != nil {
			auth.POST("/login", h.loginLimiter.Middleware(views.ErrorPage), h.Login)
		} else {
			auth.POST("/login", h.Login)
		}
		auth.GET("/register", h.RegisterForm)
		auth.POST("/register", h.Register)
		auth.GET("/logout", h.Logout)
		auth.GET("/unauthorized", h.Unauthorized)
		auth.GET("/google", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)

		profile := auth.Group("/profile")
		profile.Use(middleware.RequireUser())
		{
			profile.GET("", h.Profile)
			profile.PATCH("", h.UpdateProfile)
		}
	}
}

func (h *AuthHandler) loginPage(form loginForm) gin.H {
	return gin.H{"Form": form, "GoogleEnabled": h.google != nil}
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	views.HTML(c, http.StatusOK, "auth/login", h.loginPage(loginForm{}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.invalidForm(c, "auth/login", err, h.loginPage(form))
		return
	}
	password := form.Password
	form.Password = ""

	user, err := h.auth.Authenticate(c.Request.Context(), form.Email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		data := h.loginPage(form)
		data["Errors"] = []string{"Incorrect username or password."}
		views.HTML(c, http.StatusUnauthorized, "auth/login", data)
		return
	}
	if err != nil {
		h.logFailure(c, err)
		data := h.loginPage(form)
		data["Errors"] = []string{genericError}
		views.HTML(c, http.StatusInternalServerError, "auth/login", data)
		return
	}

	if err := h.startSession(c, user); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) error {
	token, err := h.sessions.Issue(c.Request.Context(), user)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, token, int(h.sessions.TTL().Seconds()), h.secureCookies)
	h.logger.WithField("user_id", user.ID).Info("user logged in")
	return nil
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	views.HTML(c, http.StatusOK, "auth/register", gin.H{"Form": registerForm{}})
}

// Register creates a DONATOR account and shows the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		h.invalidForm(c, "auth/register", err, gin.H{"Form": form})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Mobile:    form.Mobile,
		Email:     form.Email,
		Password:  form.Password,
	})
	if err != nil {
		form.Password = ""
		h.formFail(c, "auth/register", err, gin.H{"Form": form})
		return
	}

	data := h.loginPage(loginForm{Email: user.Email})
	data["Success"] = "User registered successfully"
	views.HTML(c, http.StatusOK, "auth/login", data)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			h.logger.WithError(err).Warn("failed to revoke session")
		}
	}
	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *AuthHandler) Unauthorized(c *gin.Context) {
	views.HTML(c, http.StatusForbidden, "auth/unauthorized", nil)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	current := middleware.CurrentUser(c)
	user, err := h.users.Get(c.Request.Context(), current.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	views.HTML(c, http.StatusOK, "auth/profile", gin.H{
		"Form":  profileFormFrom(user),
		"Role":  user.Role,
		"Score": user.Score,
	})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	current := middleware.CurrentUser(c)
	data := gin.H{"Role": current.Role, "Score": current.Score}

	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		data["Form"] = form
		h.invalidForm(c, "auth/profile", err, data)
		return
	}
	data["Form"] = form

	id, err := uuid.Parse(form.ID)
	if err != nil {
		views.ErrorPage(c, http.StatusForbidden, "You can only edit your own profile")
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), current, id, service.ProfileInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Mobile:    form.Mobile,
		Address:   form.Address.model(),
	})
	if err != nil {
		h.formFail(c, "auth/profile", err, data)
		return
	}

	views.HTML(c, http.StatusOK, "auth/profile", gin.H{
		"Form":    profileFormFrom(user),
		"Role":    user.Role,
		"Score":   user.Score,
		"Success": "Profile successfully updated!",
	})
}

// GoogleLogin sends the browser to Google with a one-off state cookie.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		views.ErrorPage(c, http.StatusNotFound, "Google sign-in is not enabled")
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/auth/google", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		views.ErrorPage(c, http.StatusNotFound, "Google sign-in is not enabled")
		return
	}
	state, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", h.secureCookies, true)
	if err != nil || state == "" || state != c.Query("state") {
		views.ErrorPage(c, http.StatusUnauthorized, "Google sign-in failed")
		return
	}

	ctx := c.Request.Context()
	profile, err := h.google.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.auth.LoginWithGoogle(ctx, *profile)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.startSession(c, user); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
