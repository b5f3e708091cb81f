package store

import (
	"context"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/billing"
	"gestion-peluqueria-backend/models"

	"gorm.io/gorm"
)

// CommissionRules stores one rule per (professional, category) and company
type CommissionRules struct {
	*Scoped[models.CommissionRule, *models.CommissionRule]
}

func NewCommissionRules(db *gorm.DB) *CommissionRules {
	return &CommissionRules{NewScoped[models.CommissionRule](db, "commission rule")}
}

func (s *CommissionRules) prepare(ctx context.Context, rut, exceptID string, r *models.CommissionRule) error {
	rule := r.Rule()
	if err := rule.Validate(); err != nil {
		return err
	}
	r.Clave = rule.Key()

	scopes := []Scope{Equals("clave", r.Clave)}
	if exceptID != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("id <> ?", exceptID) })
	}
	dup, err := s.Exists(ctx, rut, scopes...)
	if err != nil {
		return err
	}
	if dup {
		return apperr.Conflictf("a rule for %s / %s already exists", r.Profesional, r.Categoria)
	}
	return nil
}

func (s *CommissionRules) Create(ctx context.Context, rut string, r *models.CommissionRule) error {
	if err := s.prepare(ctx, rut, "", r); err != nil {
		return err
	}
	return s.Scoped.Create(ctx, rut, r)
}

func (s *CommissionRules) Update(ctx context.Context, rut, id string, r *models.CommissionRule) error {
	if _, err := s.Get(ctx, rut, id); err != nil {
		return err
	}
	if err := s.prepare(ctx, rut, id, r); err != nil {
		return err
	}
	return s.Scoped.Update(ctx, rut, id, r)
}

// ListFor lists rules, optionally only those of one professional
func (s *CommissionRules) ListFor(ctx context.Context, rut, professional string) ([]models.CommissionRule, error) {
	scopes := []Scope{OrderBy("profesional ASC, categoria ASC")}
	if professional != "" {
		scopes = append(scopes, Search(professional, "profesional"))
	}
	return s.List(ctx, rut, scopes...)
}

// RuleSet loads the company's rules for commission lookups
func (s *CommissionRules) RuleSet(ctx context.Context, rut string) (*billing.RuleSet, error) {
	rows, err := s.List(ctx, rut)
	if err != nil {
		return nil, err
	}
	rules := make([]billing.CommissionRule, len(rows))
	for i, r := range rows {
		rules[i] = r.Rule()
	}
	return billing.NewRuleSet(rules)
}
