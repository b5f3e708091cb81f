package models

import "time"

// Appointment is a booking. Its folio is later used to pre-fill the attention.
type Appointment struct {
	Base
	EmpresaRUT string           `gorm:"column:empresa_rut;type:varchar(12);not null;uniqueIndex:idx_citas_empresa_folio,priority:1" json:"empresaRUT"`
	Folio      string           `gorm:"not null;uniqueIndex:idx_citas_empresa_folio,priority:2" json:"folio"`
	Cliente    string           `gorm:"not null" json:"cliente" binding:"required"`
	Telefono   string           `gorm:"not null" json:"telefono" binding:"required"`
	Atenciones AppointmentItems `gorm:"type:jsonb" json:"atenciones" binding:"required,min=1"`
	Fecha      time.Time        `gorm:"not null;index" json:"fecha" binding:"required"`
}

func (Appointment) TableName() string { return "citas" }

func (a *Appointment) GetTenant() string    { return a.EmpresaRUT }
func (a *Appointment) SetTenant(rut string) { a.EmpresaRUT = rut }
