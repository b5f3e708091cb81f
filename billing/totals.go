package billing

import (
	"strings"

	"gestion-peluqueria-backend/apperr"
)

// MaxAmount bounds every amount and every sum of amounts a record may carry, so totals
// and payment sums always fit in an int64.
const MaxAmount int64 = 1_000_000_000_000

// addAmount adds two non-negative amounts, reporting false once the sum passes MaxAmount
func addAmount(a, b int64) (int64, bool) {
	if b > MaxAmount-a {
		return 0, false
	}
	return a + b, true
}

// Material is a consumable billed alongside a service
type Material struct {
	Name   string `json:"nombre"`
	Amount int64  `json:"valor"`
}

// ServiceLine is one rendered service within an attention record.
// Category is resolved from the service registry when the record is written;
// Commission is the snapshot computed at that time.
type ServiceLine struct {
	Service      string     `json:"servicio"`
	Category     string     `json:"categoria,omitempty"`
	Professional string     `json:"profesional"`
	Amount       int64      `json:"valor"`
	Materials    []Material `json:"materiales"`
	Commission   int64      `json:"comision"`
}

// Subtotal is the line amount plus its materials
func (l ServiceLine) Subtotal() int64 {
	total := l.Amount
	for _, m := range l.Materials {
		total += m.Amount
	}
	return total
}

// ComputeTotal sums every line amount and every material amount
func ComputeTotal(lines []ServiceLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// ValidateLines checks the invariants of a record's lines. A record that passes has a
// total between 0 and MaxAmount.
func ValidateLines(lines []ServiceLine) error {
	if len(lines) == 0 {
		return apperr.Validationf("at least one service is required")
	}
	var total int64
	for i, l := range lines {
		if strings.TrimSpace(l.Service) == "" {
			return apperr.Validationf("service %d: service is required", i+1)
		}
		if strings.TrimSpace(l.Professional) == "" {
			return apperr.Validationf("service %d: professional is required", i+1)
		}
		if l.Amount < 0 {
			return apperr.Validationf("service %d: amount must not be negative", i+1)
		}
		var ok bool
		if total, ok = addAmount(total, l.Amount); !ok {
			return apperr.Validationf("service %d: total exceeds %s", i+1, FormatCLP(MaxAmount))
		}
		for j, m := range l.Materials {
			if m.Amount < 0 {
				return apperr.Validationf("service %d, material %d: amount must not be negative", i+1, j+1)
			}
			if total, ok = addAmount(total, m.Amount); !ok {
				return apperr.Validationf("service %d, material %d: total exceeds %s", i+1, j+1, FormatCLP(MaxAmount))
			}
		}
	}
	return nil
}
