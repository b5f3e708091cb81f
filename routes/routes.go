package routes

import (
	"gestion-peluqueria-backend/config"
	"gestion-peluqueria-backend/controllers"
	"gestion-peluqueria-backend/tenant"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, h *controllers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.RequestLogger(h.Logger), config.Recovery(h.Logger))

	authMiddleware := utils.AuthMiddleware(h.Tokens, h.Blacklist, h.Companies(), h.Logger)
	platformAuth := utils.PlatformMiddleware(h.Tokens, h.Blacklist, h.Logger)
	platformAdmin := utils.PlatformMiddleware(h.Tokens, h.Blacklist, h.Logger, tenant.RoleAdmin)

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/plataforma/login", h.PlatformLogin)
		auth.POST("/plataforma/logout", platformAuth, h.Logout)

		auth.POST("/logout", authMiddleware, h.Logout)
		auth.GET("/me", authMiddleware, h.Me)
	}

	// reached from the overdue notice; guarded by the closing key
	r.POST("/api/cerrar-acceso", h.CloseAccess)

	api := r.Group("/api")
	api.Use(authMiddleware)
	{
		api.GET("/dashboard", allow(tenant.PageDashboard, tenant.ActionView), h.Dashboard)

		registry(api.Group("/clientes"), tenant.PageClients, h.Clients())
		registry(api.Group("/servicios"), tenant.PageServices, h.Services())
		registry(api.Group("/profesionales"), tenant.PageProfessionals, h.Professionals())

		products := api.Group("/productos")
		registry(products, tenant.PageInventory, h.Products())
		products.PATCH("/:id/stock", allow(tenant.PageInventory, tenant.ActionEdit), h.AdjustStock)

		appointments := api.Group("/citas")
		{
			appointments.GET("", allow(tenant.PageAppointments, tenant.ActionView), h.ListAppointments)
			appointments.GET("/folio/:folio", allow(tenant.PageAppointments, tenant.ActionView), h.AppointmentByFolio)
			appointments.POST("", allow(tenant.PageAppointments, tenant.ActionCreate), h.CreateAppointment)
			appointments.DELETE("/:id", allow(tenant.PageAppointments, tenant.ActionDelete), h.DeleteAppointment)
		}

		attentions := api.Group("/atenciones")
		{
			attentions.GET("", allow(tenant.PageAttentions, tenant.ActionView), h.ListAttentions)
			attentions.GET("/:id", allow(tenant.PageAttentions, tenant.ActionView), h.GetAttention)
			attentions.POST("", allow(tenant.PageAttentions, tenant.ActionCreate), h.CreateAttention)
			attentions.PUT("/:id", allow(tenant.PageAttentions, tenant.ActionEdit), h.UpdateAttention)
			attentions.DELETE("/:id", allow(tenant.PageAttentions, tenant.ActionDelete), h.DeleteAttention)
		}

		rules := api.Group("/comisiones")
		{
			rules.GET("", allow(tenant.PageCommissions, tenant.ActionView), h.ListCommissionRules)
			rules.POST("", allow(tenant.PageCommissions, tenant.ActionCreate), h.CreateCommissionRule)
			rules.PUT("/:id", allow(tenant.PageCommissions, tenant.ActionEdit), h.UpdateCommissionRule)
			rules.DELETE("/:id", allow(tenant.PageCommissions, tenant.ActionDelete), h.DeleteCommissionRule)
		}

		profiles := api.Group("/perfiles")
		{
			profiles.GET("", allow(tenant.PageProfiles, tenant.ActionView), h.ListProfiles)
			profiles.POST("", allow(tenant.PageProfiles, tenant.ActionCreate), h.CreateProfile)
			profiles.PUT("/:id", allow(tenant.PageProfiles, tenant.ActionEdit), h.UpdateProfile)
			profiles.DELETE("/:id", allow(tenant.PageProfiles, tenant.ActionDelete), h.DeleteProfile)
		}

		api.GET("/reportes", allow(tenant.PageReports, tenant.ActionView), h.GetReport)
		api.GET("/caja", allow(tenant.PageAttentions, tenant.ActionView), h.CashClose)
	}

	// platform administration; company profiles never get in, whatever their role
	admin := r.Group("/api", platformAdmin)
	{
		admin.GET("/empresas", h.ListCompanies)
		admin.GET("/empresas/:id", h.GetCompany)
		admin.POST("/empresas", h.CreateCompany)
		admin.PUT("/empresas/:id", h.UpdateCompany)
		admin.DELETE("/empresas/:id", h.DeleteCompany)

		admin.GET("/usuarios", h.ListUsers)
		admin.POST("/usuarios", h.CreateUser)
	}

	return r
}

func allow(page, action string) gin.HandlerFunc {
	return tenant.RequirePermission(page, action)
}

type crud interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

// registry mounts the five CRUD routes of a page
func registry(g *gin.RouterGroup, page string, r crud) {
	g.GET("", allow(page, tenant.ActionView), r.List)
	g.GET("/:id", allow(page, tenant.ActionView), r.Get)
	g.POST("", allow(page, tenant.ActionCreate), r.Create)
	g.PUT("/:id", allow(page, tenant.ActionEdit), r.Update)
	g.DELETE("/:id", allow(page, tenant.ActionDelete), r.Delete)
}
