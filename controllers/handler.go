// controllers/handler.go
package controllers

import (
	"net/http"
	"time"

	"gestion-peluqueria-backend/config"
	"gestion-peluqueria-backend/reports"
	"gestion-peluqueria-backend/store"
	"gestion-peluqueria-backend/tenant"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves every HTTP endpoint. It holds the stores instead of reaching for
// config.DB so tests can run each handler against their own database.
type Handler struct {
	Config    *config.Config
	Logger    *zap.Logger
	Tokens    *utils.TokenManager
	Blacklist utils.TokenBlacklist

	clients       *store.Clients
	services      *store.Services
	professionals *store.Professionals
	products      *store.Products
	profiles      *store.Profiles
	appointments  *store.Appointments
	attentions    *store.Attentions
	rules         *store.CommissionRules
	companies     *store.Companies
	users         *store.Users

	now func() time.Time
}

func New(db *gorm.DB, cfg *config.Config, logger *zap.Logger, tokens *utils.TokenManager, blacklist utils.TokenBlacklist) *Handler {
	return &Handler{
		Config:        cfg,
		Logger:        logger,
		Tokens:        tokens,
		Blacklist:     blacklist,
		clients:       store.NewClients(db),
		services:      store.NewServices(db),
		professionals: store.NewProfessionals(db),
		products:      store.NewProducts(db),
		profiles:      store.NewProfiles(db),
		appointments:  store.NewAppointments(db),
		attentions:    store.NewAttentions(db),
		rules:         store.NewCommissionRules(db),
		companies:     store.NewCompanies(db),
		users:         store.NewUsers(db),
		now:           func() time.Time { return time.Now().In(utils.Location) },
	}
}

// Companies is used by the auth middleware to reject closed tenants
func (h *Handler) Companies() *store.Companies {
	return h.companies
}

func (h *Handler) fail(c *gin.Context, err error) {
	utils.HandleError(c, h.Logger, err)
}

// tenantOf resolves the company the request acts for. A body that repeats its
// empresaRUT is checked against the session as well as the query.
func (h *Handler) tenantOf(c *gin.Context, fromBody ...string) (string, bool) {
	rut, err := tenant.Resolve(c, c.Query("empresaRUT"))
	for _, b := range fromBody {
		if err != nil {
			break
		}
		rut, err = tenant.Resolve(c, b)
	}
	if err != nil {
		h.fail(c, err)
		return "", false
	}
	return rut, true
}

// wantsXLSX reports whether the caller asked for a workbook instead of JSON
func wantsXLSX(c *gin.Context) bool {
	return c.Query("format") == "xlsx"
}

func (h *Handler) sendXLSX(c *gin.Context, filename string, sheets ...reports.Sheet) {
	c.Header("Content-Type", reports.ContentTypeXLSX)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := reports.WriteXLSX(c.Writer, sheets...); err != nil {
		h.Logger.Error("xlsx export failed", zap.String("file", filename), zap.Error(err))
		_ = c.Error(err)
	}
}
