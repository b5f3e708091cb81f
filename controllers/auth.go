package controllers

import (
	"net/http"
	"strings"
	"time"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/store"
	"gestion-peluqueria-backend/tenant"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RenewalWarningDays is how close the next payment must be before login warns about it
const RenewalWarningDays = 7

type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	EmpresaRUT string `json:"empresaRUT" binding:"required"`
}

// companySummary is the part of the company a logged in profile gets to see
type companySummary struct {
	RUT              string     `json:"rut"`
	NombreFantasia   string     `json:"nombreFantasia"`
	Logo             string     `json:"logo"`
	FechaProximoPago *time.Time `json:"fechaProximoPago"`
	ArriendoActivo   bool       `json:"arriendoActivo"`
}

func summarize(c *models.Company) companySummary {
	return companySummary{
		RUT:              c.RUT,
		NombreFantasia:   c.NombreFantasia,
		Logo:             c.Logo,
		FechaProximoPago: c.FechaProximoPago,
		ArriendoActivo:   c.ArriendoActivo,
	}
}

type sessionUser struct {
	models.Profile
	Empresa            companySummary `json:"empresa"`
	MensajeVencimiento string         `json:"mensajeVencimiento"`
}

// ExpiryMessage warns about a payment due within RenewalWarningDays or already overdue.
// It is empty otherwise.
func ExpiryMessage(c *models.Company, now time.Time) string {
	days, ok := c.DaysUntilPayment(now)
	if !ok {
		return ""
	}
	due := c.FechaProximoPago.In(utils.Location).Format("02-01-2006")
	switch {
	case days < 0:
		return "Arriendo vencido el: " + due
	case days <= RenewalWarningDays:
		return "Próximo vencimiento: " + due
	}
	return ""
}

func (h *Handler) sessionUser(p *models.Profile, company *models.Company) sessionUser {
	if p.Permissions == nil {
		p.Permissions = models.Permissions{}
	}
	return sessionUser{
		Profile:            *p,
		Empresa:            summarize(company),
		MensajeVencimiento: ExpiryMessage(company, h.now()),
	}
}

// Login authenticates a profile of one company
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	ctx := c.Request.Context()
	rut := strings.TrimSpace(input.EmpresaRUT)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	profile, err := h.profiles.FindOne(ctx, rut, store.Equals("email", email))
	if apperr.IsKind(err, apperr.KindNotFound) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if !utils.CheckPasswordHash(input.Password, profile.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !profile.Active {
		utils.RespondWithError(c, http.StatusForbidden, "Profile is disabled")
		return
	}

	company, err := h.companies.ByRUT(ctx, rut)
	if apperr.IsKind(err, apperr.KindNotFound) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Company not found")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if !company.ArriendoActivo {
		utils.RespondWithError(c, http.StatusForbidden, "Company access is closed")
		return
	}

	token, claims, err := h.Tokens.GenerateToken(*profile)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": claims.ExpiresAt.Time,
		"user":      h.sessionUser(profile, company),
	})
}

type PlatformLoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PlatformLogin authenticates a platform account. The token it returns only opens the
// platform administration routes, never a company's data.
func (h *Handler) PlatformLogin(c *gin.Context) {
	var input PlatformLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	ctx := c.Request.Context()

	user, err := h.users.ByEmail(ctx, input.Email)
	if apperr.IsKind(err, apperr.KindNotFound) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		utils.RespondWithError(c, http.StatusForbidden, "User is disabled")
		return
	}

	token, claims, err := h.Tokens.GeneratePlatformToken(*user)
	if err != nil {
		h.fail(c, err)
		return
	}
	now := h.now()
	if err := h.users.TouchLogin(ctx, user.ID, now); err != nil {
		h.Logger.Warn("last login not recorded", zap.String("user", user.Email), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": claims.ExpiresAt.Time,
		"user":      user,
	})
}

// Logout revokes the current token until it would have expired anyway
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := utils.ClaimsFromGin(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "No session")
		return
	}
	if err := h.Blacklist.Add(c.Request.Context(), claims.ID, h.Tokens.Remaining(claims)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the logged in profile with its company
func (h *Handler) Me(c *gin.Context) {
	s, ok := tenant.FromGin(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "No session")
		return
	}
	ctx := c.Request.Context()
	profile, err := h.profiles.Get(ctx, s.Tenant, s.UserID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Profile not found")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	company, err := h.companies.ByRUT(ctx, s.Tenant)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": h.sessionUser(profile, company)})
}
