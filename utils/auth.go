// utils/auth.go
package utils

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/config"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/tenant"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Token scopes. A tenant token acts for one company's profile; a platform token belongs
// to a models.User and is only accepted on the platform administration routes.
const (
	ScopeTenant   = "tenant"
	ScopePlatform = "platform"
)

// Claims is what a session token carries. The subject is the profile id, or the user id
// for platform tokens.
type Claims struct {
	Scope       string              `json:"scope"`
	EmpresaRUT  string              `json:"empresaRUT,omitempty"`
	Email       string              `json:"email"`
	Role        string              `json:"role"`
	Permissions []tenant.Permission `json:"permissions"`
	jwt.RegisteredClaims
}

// Session turns the claims back into the request session
func (c *Claims) Session() tenant.Session {
	return tenant.Session{
		Tenant:      c.EmpresaRUT,
		UserID:      c.Subject,
		Email:       c.Email,
		Role:        c.Role,
		Permissions: c.Permissions,
		TokenID:     c.ID,
	}
}

// TokenManager signs and verifies session tokens
type TokenManager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// Generate JWT token for a company profile
func (m *TokenManager) GenerateToken(p models.Profile) (string, *Claims, error) {
	return m.sign(&Claims{
		Scope:       ScopeTenant,
		EmpresaRUT:  p.EmpresaRUT,
		Email:       p.Email,
		Role:        p.Role,
		Permissions: p.Permissions,
	}, p.ID.String())
}

// GeneratePlatformToken signs a token for a platform account. It carries no company.
func (m *TokenManager) GeneratePlatformToken(u models.User) (string, *Claims, error) {
	return m.sign(&Claims{
		Scope: ScopePlatform,
		Email: u.Email,
		Role:  u.Role,
	}, u.ID.String())
}

func (m *TokenManager) sign(claims *Claims, subject string) (string, *Claims, error) {
	if len(m.secret) == 0 {
		return "", nil, errors.New("jwt secret not set")
	}
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseToken verifies signature, expiry and issuer
func (m *TokenManager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	switch claims.Scope {
	case ScopeTenant:
		if strings.TrimSpace(claims.EmpresaRUT) == "" {
			return nil, errors.New("token has no empresaRUT")
		}
	case ScopePlatform:
		if claims.EmpresaRUT != "" {
			return nil, errors.New("platform token carries an empresaRUT")
		}
	default:
		return nil, errors.New("token has no scope")
	}
	return claims, nil
}

// Remaining is how long the token stays valid
func (m *TokenManager) Remaining(c *Claims) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(m.now())
}

// CompanyFinder looks a company up by RUT
type CompanyFinder interface {
	ByRUT(ctx context.Context, rut string) (*models.Company, error)
}

// authenticate reads the bearer token and checks it against the blacklist. It writes
// the error response and aborts when it returns false.
func authenticate(c *gin.Context, tokens *TokenManager, blacklist TokenBlacklist, logger *zap.Logger) (*Claims, bool) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
		c.Abort()
		return nil, false
	}
	if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
		tokenString = tokenString[7:]
	}

	claims, err := tokens.ParseToken(tokenString)
	if err != nil {
		RespondWithError(c, http.StatusUnauthorized, "Invalid token")
		c.Abort()
		return nil, false
	}

	revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
	if err != nil {
		logger.Error("token blacklist lookup failed", zap.Error(err))
		RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
		return nil, false
	}
	if revoked {
		RespondWithError(c, http.StatusUnauthorized, "Session has been closed")
		c.Abort()
		return nil, false
	}
	return claims, true
}

// Auth middleware. Rejects missing, invalid and blacklisted tokens, platform tokens and
// tokens of companies whose access was closed; otherwise stores the tenant.Session.
func AuthMiddleware(tokens *TokenManager, blacklist TokenBlacklist, companies CompanyFinder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, tokens, blacklist, logger)
		if !ok {
			return
		}
		if claims.Scope != ScopeTenant {
			RespondWithError(c, http.StatusForbidden, "A company session is required")
			c.Abort()
			return
		}

		company, err := companies.ByRUT(c.Request.Context(), claims.EmpresaRUT)
		if apperr.IsKind(err, apperr.KindNotFound) {
			RespondWithError(c, http.StatusUnauthorized, "Company not found")
			c.Abort()
			return
		}
		if err != nil {
			HandleError(c, logger, err)
			c.Abort()
			return
		}
		if !company.ArriendoActivo {
			RespondWithError(c, http.StatusForbidden, "Company access is closed")
			c.Abort()
			return
		}

		tenant.Set(c, claims.Session())
		c.Set("empresaRUT", claims.EmpresaRUT)
		c.Set("claims", claims)
		c.Next()
	}
}

// PlatformMiddleware guards the platform administration routes. Only platform tokens
// whose role is one of roles get through; company profiles are refused whatever their
// role, so no tenant session can reach other companies' data.
func PlatformMiddleware(tokens *TokenManager, blacklist TokenBlacklist, logger *zap.Logger, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, tokens, blacklist, logger)
		if !ok {
			return
		}
		if claims.Scope != ScopePlatform {
			RespondWithError(c, http.StatusForbidden, "A platform session is required")
			c.Abort()
			return
		}
		allowed := len(roles) == 0
		for _, r := range roles {
			if claims.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			RespondWithError(c, http.StatusForbidden, "Role not allowed")
			c.Abort()
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// ClaimsFromGin returns the token claims stored by AuthMiddleware
func ClaimsFromGin(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
