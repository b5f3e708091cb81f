package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gestion-peluqueria-backend/billing"
	"gestion-peluqueria-backend/tenant"
)

// JSON columns. Postgres stores them as jsonb; sqlite as text.

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, errors.New("type assertion to []byte failed")
}

func jsonScan(value any, dst any) error {
	b, err := jsonBytes(value)
	if err != nil || len(b) == 0 {
		return err
	}
	return json.Unmarshal(b, dst)
}

// StringList is a list of names, e.g. the services a professional performs
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	return jsonValue([]string(s))
}

func (s *StringList) Scan(value any) error {
	return jsonScan(value, (*[]string)(s))
}

// ServiceLines are the billed lines of an attention
type ServiceLines []billing.ServiceLine

func (l ServiceLines) Value() (driver.Value, error) {
	if l == nil {
		l = ServiceLines{}
	}
	return jsonValue([]billing.ServiceLine(l))
}

func (l *ServiceLines) Scan(value any) error {
	return jsonScan(value, (*[]billing.ServiceLine)(l))
}

// Payments are the tenders applied to an attention
type Payments []billing.Payment

func (p Payments) Value() (driver.Value, error) {
	if p == nil {
		p = Payments{}
	}
	return jsonValue([]billing.Payment(p))
}

func (p *Payments) Scan(value any) error {
	return jsonScan(value, (*[]billing.Payment)(p))
}

// Permissions accept every stored shape on read and always write the object form.
type Permissions []tenant.Permission

func (p Permissions) Value() (driver.Value, error) {
	if p == nil {
		p = Permissions{}
	}
	return jsonValue([]tenant.Permission(p))
}

func (p *Permissions) Scan(value any) error {
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	perms, err := tenant.NormalizePermissions(b)
	if err != nil {
		return err
	}
	*p = perms
	return nil
}

// UnmarshalJSON runs request payloads through the same normalization
func (p *Permissions) UnmarshalJSON(b []byte) error {
	perms, err := tenant.NormalizePermissions(b)
	if err != nil {
		return err
	}
	*p = perms
	return nil
}

// AppointmentItem is one booked service slot
type AppointmentItem struct {
	Service      string `json:"servicio"`
	Professional string `json:"profesional"`
	Time         string `json:"hora"`
}

type AppointmentItems []AppointmentItem

func (a AppointmentItems) Value() (driver.Value, error) {
	if a == nil {
		a = AppointmentItems{}
	}
	return jsonValue([]AppointmentItem(a))
}

func (a *AppointmentItems) Scan(value any) error {
	return jsonScan(value, (*[]AppointmentItem)(a))
}
