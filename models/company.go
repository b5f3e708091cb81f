package models

import "time"

// Company is a tenant: a salon renting the system. RUT is unique across the platform.
type Company struct {
	Base
	RUT              string     `gorm:"column:rut;type:varchar(12);not null;uniqueIndex" json:"rut"`
	RazonSocial      string     `gorm:"not null" json:"razonSocial"`
	NombreFantasia   string     `gorm:"not null" json:"nombreFantasia"`
	Direccion        string     `json:"direccion"`
	AdminNombre      string     `json:"adminNombre"`
	AdminTelefono    string     `json:"adminTelefono"`
	AdminCorreo      string     `json:"adminCorreo"`
	ClienteTelefono  string     `json:"clienteTelefono"`
	Logo             string     `json:"logo"`
	ArriendoActivo   bool       `gorm:"not null" json:"arriendoActivo"`
	FechaProximoPago *time.Time `json:"fechaProximoPago"`
}

func (Company) TableName() string { return "empresas" }

// DaysUntilPayment is the whole days from now to the next payment, rounded up.
// Negative when the payment is overdue. ok is false when no date is set.
func (c Company) DaysUntilPayment(now time.Time) (days int, ok bool) {
	if c.FechaProximoPago == nil {
		return 0, false
	}
	d := c.FechaProximoPago.Sub(now)
	days = int(d / (24 * time.Hour))
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days, true
}
