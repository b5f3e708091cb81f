package billing

import (
	"encoding/json"
	"strings"

	"gestion-peluqueria-backend/apperr"
)

// PaymentKind is the tender used for a payment
type PaymentKind string

const (
	PaymentCash     PaymentKind = "Cash"
	PaymentTransfer PaymentKind = "Transfer"
	PaymentCard     PaymentKind = "Card"
)

// PaymentKinds lists the kinds in display order
var PaymentKinds = []PaymentKind{PaymentCash, PaymentTransfer, PaymentCard}

// ParsePaymentKind accepts the canonical names and the Spanish labels stored by older clients.
func ParsePaymentKind(s string) (PaymentKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash", "efectivo":
		return PaymentCash, true
	case "transfer", "transferencia":
		return PaymentTransfer, true
	case "card", "tarjeta":
		return PaymentCard, true
	}
	return PaymentKind(s), false
}

func (k *PaymentKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*k, _ = ParsePaymentKind(s)
	return nil
}

// Payment is one tender applied against a record's total
type Payment struct {
	Kind               PaymentKind `json:"tipo"`
	Amount             int64       `json:"monto"`
	OperationReference string      `json:"numeroOperacion,omitempty"`
}

func (p Payment) Validate() error {
	kind, ok := ParsePaymentKind(string(p.Kind))
	if !ok {
		return apperr.Validationf("unknown payment kind %q", p.Kind)
	}
	if p.Amount < 0 {
		return apperr.Validationf("payment amount must not be negative")
	}
	if p.Amount > MaxAmount {
		return apperr.Validationf("payment amount exceeds %s", FormatCLP(MaxAmount))
	}
	hasRef := strings.TrimSpace(p.OperationReference) != ""
	if kind == PaymentCard && !hasRef {
		return apperr.Validationf("card payments require an operation reference")
	}
	if kind != PaymentCard && hasRef {
		return apperr.Validationf("only card payments carry an operation reference")
	}
	return nil
}

// Paid sums the payment amounts
func Paid(payments []Payment) int64 {
	var sum int64
	for _, p := range payments {
		sum += p.Amount
	}
	return sum
}

// OutstandingBalance is what remains unpaid. Overpayment clamps to zero.
func OutstandingBalance(payments []Payment, total int64) int64 {
	return max(0, total-Paid(payments))
}

// AppendSuggestedPayment returns payments plus a cash entry for the outstanding balance.
func AppendSuggestedPayment(payments []Payment, total int64) []Payment {
	out := make([]Payment, len(payments), len(payments)+1)
	copy(out, payments)
	return append(out, Payment{Kind: PaymentCash, Amount: OutstandingBalance(payments, total)})
}

// OnAmountEdited sets payments[idx].Amount and re-suggests the balance on the next entry
// only. Later entries keep whatever was typed into them.
func OnAmountEdited(payments []Payment, idx int, newAmount, total int64) ([]Payment, error) {
	if idx < 0 || idx >= len(payments) {
		return nil, apperr.Validationf("payment %d does not exist", idx)
	}
	out := make([]Payment, len(payments))
	copy(out, payments)
	out[idx].Amount = newAmount

	if idx+1 < len(out) {
		out[idx+1].Amount = max(0, total-Paid(out[:idx+1]))
	}
	return out, nil
}

// RemovePayment drops payments[idx]; the others are not recomputed.
func RemovePayment(payments []Payment, idx int) ([]Payment, error) {
	if idx < 0 || idx >= len(payments) {
		return nil, apperr.Validationf("payment %d does not exist", idx)
	}
	out := make([]Payment, 0, len(payments)-1)
	out = append(out, payments[:idx]...)
	return append(out, payments[idx+1:]...), nil
}

// CheckSettled is the submission precondition: every payment valid and nothing left to pay.
func CheckSettled(payments []Payment, total int64) error {
	if total < 0 || total > MaxAmount {
		return apperr.Validationf("total must be between 0 and %s", FormatCLP(MaxAmount))
	}
	var paid int64
	for i, p := range payments {
		if err := p.Validate(); err != nil {
			return apperr.Validationf("payment %d: %s", i+1, err.Error())
		}
		var ok bool
		if paid, ok = addAmount(paid, p.Amount); !ok {
			return apperr.Validationf("payment %d: payments exceed %s", i+1, FormatCLP(MaxAmount))
		}
	}
	if bal := OutstandingBalance(payments, total); bal != 0 {
		return apperr.Validationf("outstanding balance of %s must be paid", FormatCLP(bal))
	}
	return nil
}

// DominantPaymentLabel names the largest payment (first one wins ties). Display only.
func DominantPaymentLabel(payments []Payment) string {
	if len(payments) == 0 {
		return ""
	}
	top := payments[0]
	for _, p := range payments[1:] {
		if p.Amount > top.Amount {
			top = p
		}
	}
	label := string(top.Kind)
	if top.Kind == PaymentCard && top.OperationReference != "" {
		label += " (Op. " + top.OperationReference + ")"
	}
	return label
}

// SumByKind totals payments per kind
func SumByKind(payments []Payment) map[PaymentKind]int64 {
	sums := make(map[PaymentKind]int64)
	for _, p := range payments {
		sums[p.Kind] += p.Amount
	}
	return sums
}
