package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/billing"
	"gestion-peluqueria-backend/models"

	"gorm.io/gorm"
)

type (
	Clients       = Scoped[models.Client, *models.Client]
	Professionals = Scoped[models.Professional, *models.Professional]
	Profiles      = Scoped[models.Profile, *models.Profile]
)

func NewClients(db *gorm.DB) *Clients             { return NewScoped[models.Client](db, "client") }
func NewProfessionals(db *gorm.DB) *Professionals { return NewScoped[models.Professional](db, "professional") }
func NewProfiles(db *gorm.DB) *Profiles           { return NewScoped[models.Profile](db, "profile") }

// Services is the catalog. It also resolves a line's category from its service name.
type Services struct {
	*Scoped[models.Service, *models.Service]
}

func NewServices(db *gorm.DB) *Services {
	return &Services{NewScoped[models.Service](db, "service")}
}

// Categories maps the folded service name to its category
func (s *Services) Categories(ctx context.Context, rut string) (map[string]string, error) {
	services, err := s.List(ctx, rut)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(services))
	for _, svc := range services {
		out[billing.NormalizeKey(svc.Nombre)] = svc.Categoria
	}
	return out, nil
}

// Products is the inventory
type Products struct {
	*Scoped[models.Product, *models.Product]
}

func NewProducts(db *gorm.DB) *Products {
	return &Products{NewScoped[models.Product](db, "product")}
}

// AdjustStock adds qty (which may be negative) to the product's stock. The update is a
// single conditional statement so concurrent adjustments cannot drive stock below zero.
func (s *Products) AdjustStock(ctx context.Context, rut, id string, qty int64) (*models.Product, error) {
	p, err := s.Get(ctx, rut, id)
	if err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND "+tenantColumn+" = ? AND stock + ? >= 0", p.ID, p.EmpresaRUT, qty).
		Updates(map[string]any{"stock": gorm.Expr("stock + ?", qty), "updated_at": time.Now()})
	if res.Error != nil {
		return nil, translate(res.Error, s.name)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Validationf("stock cannot go below zero (current %d, change %d)", p.Stock, qty)
	}
	return s.Get(ctx, rut, id)
}

// Appointments are bookings
type Appointments struct {
	*Scoped[models.Appointment, *models.Appointment]
	now func() time.Time
}

func NewAppointments(db *gorm.DB) *Appointments {
	return &Appointments{Scoped: NewScoped[models.Appointment](db, "appointment"), now: time.Now}
}

// Create assigns the folio CITA-<unix millis> and inserts the appointment
func (s *Appointments) Create(ctx context.Context, rut string, a *models.Appointment) error {
	if len(a.Atenciones) == 0 {
		return apperr.Validationf("an appointment needs at least one service")
	}
	for _, it := range a.Atenciones {
		if strings.TrimSpace(it.Service) == "" || strings.TrimSpace(it.Professional) == "" {
			return apperr.Validationf("every booked service needs a service and a professional")
		}
	}
	a.Folio = fmt.Sprintf("CITA-%d", s.now().UnixMilli())
	a.Fecha = a.Fecha.UTC()
	return s.Scoped.Create(ctx, rut, a)
}

// ByDay lists the appointments within dr, earliest first
func (s *Appointments) ByDay(ctx context.Context, rut string, dr billing.DateRange) ([]models.Appointment, error) {
	return s.List(ctx, rut, Between("fecha", &dr), OrderBy("fecha ASC"))
}

// ByFolio finds the appointment an attention is being created from
func (s *Appointments) ByFolio(ctx context.Context, rut, folio string) (*models.Appointment, error) {
	return s.FindOne(ctx, rut, Equals("folio", folio))
}
