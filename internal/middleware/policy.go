package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare/internal/models"
)

const (
	LoginPath        = "/auth/login"
	UnauthorizedPath = "/auth/unauthorized"
)

// Policy grants the roles access to every path under Prefix.
type Policy struct {
	Prefix string
	Roles  []models.Role
}

// Policies is evaluated in order; the first matching prefix wins and paths
// matching nothing are open to everyone.
type Policies []Policy

// DefaultPolicies is the access table of the site.
var DefaultPolicies = Policies{
	{Prefix: "/users", Roles: []models.Role{models.RoleAdmin}},
	{Prefix: "/donation-items", Roles: []models.Role{models.RoleDonator, models.RolePantry, models.RoleAdmin}},
	{Prefix: "/shop", Roles: []models.Role{models.RolePantry}},
	{Prefix: "/requests", Roles: []models.Role{models.RoleDonator, models.RolePantry, models.RoleWarehouse}},
}

// Decision is the outcome of checking a request against the policies.
type Decision int

const (
	Allow Decision = iota
	// RequireLogin means the path is protected and nobody is signed in.
	RequireLogin
	// Deny means the signed-in user lacks a permitted role.
	Deny
)

// Match returns the policy covering path, or nil when the path is open.
// Prefixes match whole path segments, so "/users" covers "/users/1" but not
// "/usersettings".
func (p Policies) Match(path string) *Policy {
	for i := range p {
		prefix := p[i].Prefix
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return &p[i]
		}
	}
	return nil
}

// Decide checks whether user may reach path.
func (p Policies) Decide(path string, user *models.SessionUser) Decision {
	policy := p.Match(path)
	if policy == nil {
		return Allow
	}
	if user == nil {
		return RequireLogin
	}
	for _, role := range policy.Roles {
		if user.Role == role {
			return Allow
		}
	}
	return Deny
}

// Authorize enforces the policies. It must run after LoadSession.
func Authorize(p Policies) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch p.Decide(c.Request.URL.Path, CurrentUser(c)) {
		case RequireLogin:
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
		case Deny:
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// RequireUser sends anonymous visitors to the login page. It guards pages
// outside the policy table that still need a signed-in user, like the profile.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
