package models

import (
	"gestion-peluqueria-backend/billing"

	"gorm.io/gorm"
)

// CommissionRule stores the percentage a professional earns on a category.
// Clave is the accent and case folded (professional, category) pair; the unique index
// on it rejects "Peluquería" and "peluqueria" as the same rule.
type CommissionRule struct {
	Base
	EmpresaRUT  string `gorm:"column:empresa_rut;type:varchar(12);not null;uniqueIndex:idx_comisiones_empresa_clave,priority:1" json:"empresaRUT"`
	Profesional string `gorm:"not null" json:"profesional" binding:"required"`
	Categoria   string `gorm:"not null" json:"categoria" binding:"required"`
	Porcentaje  int    `gorm:"not null" json:"porcentaje"`
	Clave       string `gorm:"not null;uniqueIndex:idx_comisiones_empresa_clave,priority:2" json:"-"`
}

func (CommissionRule) TableName() string { return "comisiones" }

func (r *CommissionRule) GetTenant() string    { return r.EmpresaRUT }
func (r *CommissionRule) SetTenant(rut string) { r.EmpresaRUT = rut }

// Rule converts to the billing type
func (r CommissionRule) Rule() billing.CommissionRule {
	return billing.CommissionRule{Professional: r.Profesional, Category: r.Categoria, Percentage: r.Porcentaje}
}

func (r *CommissionRule) BeforeSave(tx *gorm.DB) error {
	r.Clave = r.Rule().Key()
	return nil
}
