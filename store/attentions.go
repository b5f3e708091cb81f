package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/billing"
	"gestion-peluqueria-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttentionLimit caps attention listings
const AttentionLimit = 100

// AttentionFilter narrows an attention listing. Text fields match case-insensitively as
// substrings, except Folio which must match exactly.
type AttentionFilter struct {
	Folio        string
	Client       string
	Service      string
	Professional string
	Range        *billing.DateRange
}

// Attentions persists billed visits. Every write recomputes the total, resolves line
// categories from the catalog, stamps commissions and requires a settled balance.
type Attentions struct {
	*Scoped[models.Attention, *models.Attention]
	services *Services
	rules    *CommissionRules
	now      func() time.Time
}

func NewAttentions(db *gorm.DB) *Attentions {
	return &Attentions{
		Scoped:   NewScoped[models.Attention](db, "attention"),
		services: NewServices(db),
		rules:    NewCommissionRules(db),
		now:      time.Now,
	}
}

// Search lists attentions newest first, at most AttentionLimit of them
func (s *Attentions) Search(ctx context.Context, rut string, f AttentionFilter) ([]models.Attention, error) {
	scopes := []Scope{Between("fecha", f.Range), OrderBy("fecha DESC")}
	if f.Folio != "" {
		scopes = append(scopes, Equals("folio", f.Folio))
	}
	if f.Client != "" {
		scopes = append(scopes, Search(f.Client, "cliente"))
	}
	lineFilter := f.Service != "" || f.Professional != ""
	if lineFilter {
		// coarse match on the JSON text; refined per line below
		scopes = append(scopes, Search(f.Service, "CAST(servicios AS TEXT)"), Search(f.Professional, "CAST(servicios AS TEXT)"))
	} else {
		scopes = append(scopes, Limit(AttentionLimit))
	}

	rows, err := s.List(ctx, rut, scopes...)
	if err != nil || !lineFilter {
		return rows, err
	}

	out := make([]models.Attention, 0, min(len(rows), AttentionLimit))
	for _, a := range rows {
		if matchesLines(a.Servicios, f.Service, f.Professional) {
			out = append(out, a)
			if len(out) == AttentionLimit {
				break
			}
		}
	}
	return out, nil
}

func matchesLines(lines []billing.ServiceLine, service, professional string) bool {
	contains := func(s, sub string) bool {
		return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}
	for _, l := range lines {
		if contains(l.Service, service) && contains(l.Professional, professional) {
			return true
		}
	}
	return false
}

// Prepare validates a and fills in everything the server owns: total, categories,
// commissions, the dominant payment label and a date when missing.
// Nothing is written when it fails.
func (s *Attentions) Prepare(ctx context.Context, rut string, a *models.Attention) error {
	if strings.TrimSpace(a.Cliente) == "" {
		return apperr.Validationf("client is required")
	}
	if err := billing.ValidateLines(a.Servicios); err != nil {
		return err
	}
	a.Total = billing.ComputeTotal(a.Servicios)
	if err := billing.CheckSettled(a.Pagos, a.Total); err != nil {
		return err
	}
	for i := range a.Pagos {
		a.Pagos[i].Kind, _ = billing.ParsePaymentKind(string(a.Pagos[i].Kind))
	}

	categories, err := s.services.Categories(ctx, rut)
	if err != nil {
		return err
	}
	fillCategories(a.Servicios, categories)

	rules, err := s.rules.RuleSet(ctx, rut)
	if err != nil {
		return err
	}
	billing.StampCommissions(a.Servicios, rules)

	a.FormaPago = billing.DominantPaymentLabel(a.Pagos)
	a.Folio = strings.TrimSpace(a.Folio)
	if a.Fecha.IsZero() {
		a.Fecha = s.now()
	}
	a.Fecha = a.Fecha.UTC()
	return nil
}

func fillCategories(lines []billing.ServiceLine, categories map[string]string) {
	for i := range lines {
		if lines[i].Category == "" {
			lines[i].Category = categories[billing.NormalizeKey(lines[i].Service)]
		}
	}
}

func (s *Attentions) Create(ctx context.Context, rut string, a *models.Attention) error {
	if _, err := requireTenant(rut); err != nil {
		return err
	}
	if err := s.Prepare(ctx, rut, a); err != nil {
		return err
	}
	if err := s.claimFolio(ctx, rut, a, uuid.Nil); err != nil {
		return err
	}
	return s.Scoped.Create(ctx, rut, a)
}

// claimFolio checks that a's folio is free within the tenant, or picks ATN-<unix millis>
// when it has none, adding a counter if another attention already took that value.
func (s *Attentions) claimFolio(ctx context.Context, rut string, a *models.Attention, exceptID uuid.UUID) error {
	taken := func(folio string) (bool, error) {
		scopes := []Scope{Equals("folio", folio)}
		if exceptID != uuid.Nil {
			scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("id <> ?", exceptID) })
		}
		return s.Exists(ctx, rut, scopes...)
	}

	if a.Folio != "" {
		dup, err := taken(a.Folio)
		if err != nil {
			return err
		}
		if dup {
			return apperr.Conflictf("folio %s is already in use", a.Folio)
		}
		return nil
	}

	base := fmt.Sprintf("ATN-%d", s.now().UnixMilli())
	folio := base
	for n := 2; ; n++ {
		dup, err := taken(folio)
		if err != nil {
			return err
		}
		if !dup {
			a.Folio = folio
			return nil
		}
		folio = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *Attentions) Update(ctx context.Context, rut, id string, a *models.Attention) error {
	existing, err := s.Get(ctx, rut, id)
	if err != nil {
		return err
	}
	if a.Folio == "" {
		a.Folio = existing.Folio
	}
	if a.Fecha.IsZero() {
		a.Fecha = existing.Fecha
	}
	if err := s.Prepare(ctx, rut, a); err != nil {
		return err
	}
	if err := s.claimFolio(ctx, rut, a, existing.ID); err != nil {
		return err
	}
	return s.Scoped.Update(ctx, rut, id, a)
}

// Records loads the attentions in dr as billing records. Lines stored before categories
// were resolved on write get them from the current catalog.
func (s *Attentions) Records(ctx context.Context, rut string, dr *billing.DateRange) ([]billing.Record, error) {
	rows, err := s.List(ctx, rut, Between("fecha", dr), OrderBy("fecha ASC"))
	if err != nil {
		return nil, err
	}
	categories, err := s.services.Categories(ctx, rut)
	if err != nil {
		return nil, err
	}
	records := models.Records(rows)
	for _, r := range records {
		fillCategories(r.Lines, categories)
	}
	return records, nil
}

// Revenue sums attention totals in dr
func (s *Attentions) Revenue(ctx context.Context, rut string, dr *billing.DateRange) (int64, error) {
	db, err := s.DB(ctx, rut)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := db.Scopes(Between("fecha", dr)).Select("COALESCE(SUM(total), 0)").Scan(&total).Error; err != nil {
		return 0, translate(err, s.name)
	}
	return total, nil
}
