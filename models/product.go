package models

// Product is an inventory item. Stock never goes below zero.
type Product struct {
	Base
	EmpresaRUT     string `gorm:"column:empresa_rut;type:varchar(12);not null;uniqueIndex:idx_productos_empresa_nombre,priority:1" json:"empresaRUT"`
	Nombre         string `gorm:"not null;uniqueIndex:idx_productos_empresa_nombre,priority:2" json:"nombre" binding:"required"`
	Stock          int64  `gorm:"not null;default:0" json:"stock" binding:"gte=0"`
	Descripcion    string `json:"descripcion"`
	ImagenProducto string `json:"imagenProducto"`
}

func (Product) TableName() string { return "productos" }

func (p *Product) GetTenant() string    { return p.EmpresaRUT }
func (p *Product) SetTenant(rut string) { p.EmpresaRUT = rut }
