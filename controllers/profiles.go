package controllers

import (
	"net/http"
	"strings"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/store"
	"gestion-peluqueria-backend/tenant"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
)

// MinPasswordLength applies to profiles and platform users
const MinPasswordLength = 6

type ProfileInput struct {
	EmpresaRUT  string             `json:"empresaRUT"`
	Name        string             `json:"name" binding:"required"`
	Email       string             `json:"email" binding:"required,email"`
	Password    string             `json:"password"`
	Role        string             `json:"role" binding:"required"`
	Permissions models.Permissions `json:"permissions"`
	Active      *bool              `json:"active"`
}

// toProfile validates the input. An empty password is only allowed on update, where the
// stored hash is kept.
func (in ProfileInput) toProfile(creating bool) (*models.Profile, error) {
	if !tenant.ValidRole(in.Role) {
		return nil, apperr.Validationf("role must be one of %s", strings.Join(tenant.Roles, ", "))
	}
	if (creating || in.Password != "") && len(in.Password) < MinPasswordLength {
		return nil, apperr.Validationf("password must have at least %d characters", MinPasswordLength)
	}
	p := &models.Profile{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Role:        in.Role,
		Permissions: in.Permissions,
		Active:      in.Active == nil || *in.Active,
	}
	if p.Permissions == nil {
		p.Permissions = models.Permissions{}
	}
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		p.Password = hash
	}
	return p, nil
}

// guardProfile refuses writes a non-administrator session may not make: touching an
// administrator profile, or handing out a role or permissions it does not hold itself.
func guardProfile(c *gin.Context, existing, p *models.Profile) error {
	s, ok := tenant.FromGin(c)
	if !ok {
		return apperr.Unauthorizedf("no session")
	}
	if existing != nil && existing.Role == tenant.RoleAdmin && s.Role != tenant.RoleAdmin {
		return apperr.Forbiddenf("only an administrator can change an administrator profile")
	}
	if p == nil {
		return nil
	}
	return s.CanGrant(p.Role, p.Permissions)
}

func (h *Handler) ListProfiles(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	profiles, err := h.profiles.List(c.Request.Context(), rut, store.OrderBy("nombre ASC"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *Handler) CreateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	rut, ok := h.tenantOf(c, input.EmpresaRUT)
	if !ok {
		return
	}
	p, err := input.toProfile(true)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := guardProfile(c, nil, p); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	taken, err := h.profiles.Exists(ctx, rut, store.Equals("email", p.Email))
	if err != nil {
		h.fail(c, err)
		return
	}
	if taken {
		h.fail(c, apperr.Conflictf("a profile with email %s already exists", p.Email))
		return
	}
	if err := h.profiles.Create(ctx, rut, p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	rut, ok := h.tenantOf(c, input.EmpresaRUT)
	if !ok {
		return
	}
	p, err := input.toProfile(false)
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	existing, err := h.profiles.Get(ctx, rut, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := guardProfile(c, existing, p); err != nil {
		h.fail(c, err)
		return
	}
	if p.Password == "" {
		p.Password = existing.Password
	}
	if err := h.profiles.Update(ctx, rut, c.Param("id"), p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	if s, _ := tenant.FromGin(c); s.UserID == c.Param("id") {
		h.fail(c, apperr.Validationf("a profile cannot delete itself"))
		return
	}
	ctx := c.Request.Context()
	existing, err := h.profiles.Get(ctx, rut, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := guardProfile(c, existing, nil); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.profiles.Delete(ctx, rut, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted"})
}
