package models

// Client is a salon customer
type Client struct {
	Base
	EmpresaRUT string `gorm:"column:empresa_rut;type:varchar(12);not null;index:idx_clientes_empresa_nombre,priority:1" json:"empresaRUT"`
	Nombre     string `gorm:"not null;index:idx_clientes_empresa_nombre,priority:2" json:"nombre" binding:"required"`
	Email      string `json:"email"`
	Telefono   string `json:"telefono"`
}

func (Client) TableName() string { return "clientes" }

func (c *Client) GetTenant() string    { return c.EmpresaRUT }
func (c *Client) SetTenant(rut string) { c.EmpresaRUT = rut }
