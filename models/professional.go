package models

// Professional is a stylist or technician. Servicios holds the service names they perform.
type Professional struct {
	Base
	EmpresaRUT   string     `gorm:"column:empresa_rut;type:varchar(12);not null;uniqueIndex:idx_profesionales_empresa_codigo,priority:1" json:"empresaRUT"`
	InternalCode string     `gorm:"column:codigo_interno;not null;uniqueIndex:idx_profesionales_empresa_codigo,priority:2" json:"internalCode" binding:"required"`
	Name         string     `gorm:"column:nombre;not null" json:"name" binding:"required"`
	Services     StringList `gorm:"column:servicios;type:jsonb" json:"services" binding:"required,min=1"`
	Phone        string     `gorm:"column:telefono" json:"phone" binding:"omitempty,phone_cl"`
	Email        string     `json:"email" binding:"omitempty,email"`
	Address      string     `gorm:"column:direccion" json:"address"`
	Commune      string     `gorm:"column:comuna" json:"commune"`
	Active       bool       `gorm:"column:activo;not null" json:"active"`
}

func (Professional) TableName() string { return "profesionales" }

func (p *Professional) GetTenant() string    { return p.EmpresaRUT }
func (p *Professional) SetTenant(rut string) { p.EmpresaRUT = rut }
