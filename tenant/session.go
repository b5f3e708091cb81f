// Package tenant carries the authenticated session through a request. Handlers never
// read the company from the payload; they take it from the Session the auth middleware
// stored on the gin context.
package tenant

import (
	"net/http"
	"strings"

	"gestion-peluqueria-backend/apperr"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Roles an admin user or profile may hold
const (
	RoleAdmin      = "administrador"
	RoleAccountant = "contador"
	RoleUser1      = "usuario1"
	RoleUser2      = "usuario2"
	RoleUser3      = "usuario3"
)

// Roles lists every accepted role
var Roles = []string{RoleAdmin, RoleAccountant, RoleUser1, RoleUser2, RoleUser3}

// ValidRole reports whether role is one of Roles
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Session is the authenticated caller: which company they act for, who they are and
// what they may touch.
type Session struct {
	Tenant      string       `json:"empresaRUT"`
	UserID      string       `json:"id"`
	Email       string       `json:"email"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
	TokenID     string       `json:"-"`
}

// Can reports whether the session may perform action on page. Administrators can do anything.
func (s Session) Can(page, action string) bool {
	if s.Role == RoleAdmin {
		return true
	}
	for _, p := range s.Permissions {
		if p.Page == page {
			return p.Allows(action)
		}
	}
	return false
}

// CanGrant checks that s may give role and perms to a profile. Only an administrator
// assigns the administrator role; anyone else grants at most the actions it holds.
func (s Session) CanGrant(role string, perms []Permission) error {
	if s.Role == RoleAdmin {
		return nil
	}
	if role == RoleAdmin {
		return apperr.Forbiddenf("only an administrator can assign the %s role", RoleAdmin)
	}
	for _, p := range perms {
		for _, a := range p.Actions {
			if !s.Can(p.Page, a) {
				return apperr.Forbiddenf("cannot grant %s on %s", a, p.Page)
			}
		}
	}
	return nil
}

// Scope returns the tenant or a validation error when the session has none.
func (s Session) Scope() (string, error) {
	t := strings.TrimSpace(s.Tenant)
	if t == "" {
		return "", apperr.Validationf("empresaRUT is required")
	}
	return t, nil
}

// Set stores s on the gin context
func Set(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

// FromGin returns the session stored by the auth middleware
func FromGin(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// Resolve returns the tenant a request operates on. A client may repeat its empresaRUT
// in the query or body; when it does, it has to match the session.
func Resolve(c *gin.Context, requested string) (string, error) {
	s, ok := FromGin(c)
	if !ok {
		return "", apperr.Unauthorizedf("no session")
	}
	t, err := s.Scope()
	if err != nil {
		return "", err
	}
	if r := strings.TrimSpace(requested); r != "" && r != t {
		return "", apperr.Validationf("empresaRUT does not match the session")
	}
	return t, nil
}

// RequirePermission aborts with 403 unless the session can perform action on page.
func RequirePermission(page, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := FromGin(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}
		if !s.Can(page, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to " + strings.ToLower(action) + " " + page})
			return
		}
		c.Next()
	}
}
