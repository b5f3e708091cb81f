package billing

import "sort"

// Amount is a labelled total in a cash close
type Amount struct {
	Label  string `json:"label"`
	Amount int64  `json:"monto"`
}

// CashClose summarizes a day of attentions for the till
type CashClose struct {
	Records   int      `json:"atenciones"`
	ByService []Amount `json:"porServicio"`
	ByPayment []Amount `json:"porFormaPago"`
	Total     int64    `json:"total"`
}

// CloseDay totals the given records by service and by payment kind.
// Services keep first-seen order; payment kinds follow PaymentKinds.
func CloseDay(records []Record) CashClose {
	cc := CashClose{Records: len(records)}
	index := make(map[string]int)
	paid := make(map[PaymentKind]int64)

	for _, r := range records {
		for _, l := range r.Lines {
			i, ok := index[l.Service]
			if !ok {
				i = len(cc.ByService)
				index[l.Service] = i
				cc.ByService = append(cc.ByService, Amount{Label: l.Service})
			}
			cc.ByService[i].Amount += l.Amount
		}
		for kind, sum := range SumByKind(r.Payments) {
			paid[kind] += sum
		}
		cc.Total += r.Total()
	}

	for _, kind := range PaymentKinds {
		if sum, ok := paid[kind]; ok {
			cc.ByPayment = append(cc.ByPayment, Amount{Label: string(kind), Amount: sum})
			delete(paid, kind)
		}
	}
	// kinds outside the known set, if any legacy data has them
	var rest []string
	for kind := range paid {
		rest = append(rest, string(kind))
	}
	sort.Strings(rest)
	for _, k := range rest {
		cc.ByPayment = append(cc.ByPayment, Amount{Label: k, Amount: paid[PaymentKind(k)]})
	}
	return cc
}
