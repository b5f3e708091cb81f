package models

import (
	"time"

	"gestion-peluqueria-backend/billing"
)

// Attention is a billed visit: the services rendered, the materials used and how it was paid.
// Total is always recomputed from the lines before it is written.
type Attention struct {
	Base
	EmpresaRUT string       `gorm:"column:empresa_rut;type:varchar(12);not null;index:idx_atenciones_empresa_fecha,priority:1;uniqueIndex:idx_atenciones_empresa_folio,priority:1" json:"empresaRUT"`
	Folio      string       `gorm:"not null;uniqueIndex:idx_atenciones_empresa_folio,priority:2" json:"folio"`
	Cliente    string       `gorm:"not null" json:"cliente"`
	Telefono   string       `json:"telefono"`
	Fecha      time.Time    `gorm:"not null;index:idx_atenciones_empresa_fecha,priority:2" json:"fecha"`
	Servicios  ServiceLines `gorm:"type:jsonb" json:"servicios"`
	Pagos      Payments     `gorm:"type:jsonb" json:"pagos"`
	Total      int64        `gorm:"not null" json:"total"`
	FormaPago  string       `json:"formaPago"`
}

func (Attention) TableName() string { return "atenciones" }

func (a *Attention) GetTenant() string    { return a.EmpresaRUT }
func (a *Attention) SetTenant(rut string) { a.EmpresaRUT = rut }

// Record is the billing view of the attention
func (a Attention) Record() billing.Record {
	return billing.Record{
		Folio:    a.Folio,
		Client:   a.Cliente,
		Phone:    a.Telefono,
		Date:     a.Fecha,
		Lines:    a.Servicios,
		Payments: a.Pagos,
	}
}

// Records converts a list of attentions
func Records(attentions []Attention) []billing.Record {
	out := make([]billing.Record, len(attentions))
	for i, a := range attentions {
		out[i] = a.Record()
	}
	return out
}
