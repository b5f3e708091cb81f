package models

// Service is a priced entry of the salon's catalog. Its category drives commissions.
type Service struct {
	Base
	EmpresaRUT string `gorm:"column:empresa_rut;type:varchar(12);not null;uniqueIndex:idx_servicios_empresa_nombre,priority:1" json:"empresaRUT"`
	Nombre     string `gorm:"not null;uniqueIndex:idx_servicios_empresa_nombre,priority:2" json:"nombre" binding:"required"`
	Categoria  string `gorm:"not null;default:'General'" json:"categoria" binding:"required"`
	Precio     int64  `gorm:"not null;default:0" json:"precio" binding:"gte=0"`
}

func (Service) TableName() string { return "servicios" }

func (s *Service) GetTenant() string    { return s.EmpresaRUT }
func (s *Service) SetTenant(rut string) { s.EmpresaRUT = rut }
