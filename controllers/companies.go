package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/tenant"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
)

type CompanyInput struct {
	RUT              string     `json:"rut" binding:"required,rut"`
	RazonSocial      string     `json:"razonSocial" binding:"required"`
	NombreFantasia   string     `json:"nombreFantasia" binding:"required"`
	Direccion        string     `json:"direccion"`
	AdminNombre      string     `json:"adminNombre"`
	AdminTelefono    string     `json:"adminTelefono" binding:"omitempty,phone_cl"`
	AdminCorreo      string     `json:"adminCorreo" binding:"omitempty,email"`
	ClienteTelefono  string     `json:"clienteTelefono" binding:"omitempty,phone_cl"`
	Logo             string     `json:"logo"`
	ArriendoActivo   *bool      `json:"arriendoActivo"`
	FechaProximoPago *time.Time `json:"fechaProximoPago"`
}

func (in CompanyInput) toCompany() *models.Company {
	return &models.Company{
		RUT:              strings.ToUpper(strings.TrimSpace(in.RUT)),
		RazonSocial:      strings.TrimSpace(in.RazonSocial),
		NombreFantasia:   strings.TrimSpace(in.NombreFantasia),
		Direccion:        in.Direccion,
		AdminNombre:      in.AdminNombre,
		AdminTelefono:    utils.FormatPhone(in.AdminTelefono),
		AdminCorreo:      in.AdminCorreo,
		ClienteTelefono:  utils.FormatPhone(in.ClienteTelefono),
		Logo:             in.Logo,
		ArriendoActivo:   in.ArriendoActivo == nil || *in.ArriendoActivo,
		FechaProximoPago: in.FechaProximoPago,
	}
}

func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *Handler) GetCompany(c *gin.Context) {
	company, err := h.companies.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) CreateCompany(c *gin.Context) {
	var input CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	company := input.toCompany()
	if err := h.companies.Create(c.Request.Context(), company); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *Handler) UpdateCompany(c *gin.Context) {
	var input CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	company := input.toCompany()
	if err := h.companies.Update(c.Request.Context(), c.Param("id"), company); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) DeleteCompany(c *gin.Context) {
	if err := h.companies.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}

type CloseAccessInput struct {
	EmpresaRUT string `json:"empresaRUT" binding:"required"`
	Clave      string `json:"clave" binding:"required"`
}

// CloseAccess turns a company's rental off. It is called from the link in the overdue
// notice, so it authenticates with the shared closing key instead of a session.
func (h *Handler) CloseAccess(c *gin.Context) {
	var input CloseAccessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	key := h.Config.CloseAccessKey
	if key == "" || subtle.ConstantTimeCompare([]byte(input.Clave), []byte(key)) != 1 {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid closing key")
		return
	}
	if err := h.companies.CloseAccess(c.Request.Context(), input.EmpresaRUT); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access closed for the company"})
}

type UserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Nombre   string `json:"nombre"`
	Role     string `json:"role" binding:"required"`
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser registers a platform account
func (h *Handler) CreateUser(c *gin.Context) {
	var input UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	if !tenant.ValidRole(input.Role) {
		h.fail(c, apperr.Validationf("role must be one of %s", strings.Join(tenant.Roles, ", ")))
		return
	}
	if len(input.Password) < MinPasswordLength {
		h.fail(c, apperr.Validationf("password must have at least %d characters", MinPasswordLength))
		return
	}
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hash,
		Name:     strings.TrimSpace(input.Nombre),
		Role:     input.Role,
		IsActive: true,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
