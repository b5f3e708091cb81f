package models

import "gestion-peluqueria-backend/tenant"

// Profile is a login of a company: an email, a role and the pages it may use.
// Emails are unique per company.
type Profile struct {
	Base
	EmpresaRUT  string      `gorm:"column:empresa_rut;type:varchar(12);not null;uniqueIndex:idx_perfiles_empresa_email,priority:1" json:"empresaRUT"`
	Name        string      `gorm:"column:nombre;not null" json:"name"`
	Email       string      `gorm:"not null;uniqueIndex:idx_perfiles_empresa_email,priority:2" json:"email"`
	Password    string      `gorm:"not null" json:"-"`
	Role        string      `gorm:"type:varchar(20);not null" json:"role"`
	Permissions Permissions `gorm:"column:permisos;type:jsonb" json:"permissions"`
	Active      bool        `gorm:"column:activo;not null" json:"active"`
}

func (Profile) TableName() string { return "perfiles" }

func (p *Profile) GetTenant() string    { return p.EmpresaRUT }
func (p *Profile) SetTenant(rut string) { p.EmpresaRUT = rut }

// Session builds the authenticated session for this profile
func (p Profile) Session(tokenID string) tenant.Session {
	return tenant.Session{
		Tenant:      p.EmpresaRUT,
		UserID:      p.ID.String(),
		Email:       p.Email,
		Role:        p.Role,
		Permissions: p.Permissions,
		TokenID:     tokenID,
	}
}
