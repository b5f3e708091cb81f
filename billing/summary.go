package billing

import (
	"sort"
	"time"
)

// Record is the billing view of an attention: what was done, by whom, and how it was paid.
type Record struct {
	Folio    string        `json:"folio"`
	Client   string        `json:"cliente"`
	Phone    string        `json:"telefono"`
	Date     time.Time     `json:"fecha"`
	Lines    []ServiceLine `json:"servicios"`
	Payments []Payment     `json:"pagos"`
}

// Total is always derived from the lines
func (r Record) Total() int64 {
	return ComputeTotal(r.Lines)
}

// Validate runs the checks required before a record is committed or edited
func (r Record) Validate() error {
	if err := ValidateLines(r.Lines); err != nil {
		return err
	}
	return CheckSettled(r.Payments, r.Total())
}

// DateRange bounds are inclusive; a nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (d *DateRange) Contains(t time.Time) bool {
	if d == nil {
		return true
	}
	if d.From != nil && t.Before(*d.From) {
		return false
	}
	if d.To != nil && t.After(*d.To) {
		return false
	}
	return true
}

type ProfessionalSummary struct {
	Professional    string `json:"profesional"`
	Count           int    `json:"count"`
	TotalAmount     int64  `json:"total"`
	TotalCommission int64  `json:"commission"`
}

type ServiceSummary struct {
	Service     string `json:"servicio"`
	Count       int    `json:"count"`
	TotalAmount int64  `json:"total"`
}

// CommissionRow is one line of the detailed commission report
type CommissionRow struct {
	Date         time.Time `json:"fecha"`
	Folio        string    `json:"folio"`
	Client       string    `json:"cliente"`
	Service      string    `json:"servicio"`
	Professional string    `json:"profesional"`
	Amount       int64     `json:"amount"`
	Commission   int64     `json:"commission"`
}

// SummarizeByProfessional groups every line in range by professional, matching names the
// way commission rules do and reporting the first spelling seen. Lines without a
// matching rule still count, with zero commission. Sorted by total descending; ties keep
// first-seen order.
func SummarizeByProfessional(records []Record, rules *RuleSet, dr *DateRange) []ProfessionalSummary {
	var out []ProfessionalSummary
	index := make(map[string]int)

	for _, r := range records {
		if !dr.Contains(r.Date) {
			continue
		}
		for _, l := range r.Lines {
			key := NormalizeKey(l.Professional)
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				out = append(out, ProfessionalSummary{Professional: l.Professional})
			}
			out[i].Count++
			out[i].TotalAmount += l.Amount
			out[i].TotalCommission += CommissionFor(l, rules.ForLine(l))
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].TotalAmount > out[b].TotalAmount })
	return out
}

// SummarizeByService groups every line in range by service name
func SummarizeByService(records []Record, dr *DateRange) []ServiceSummary {
	var out []ServiceSummary
	index := make(map[string]int)

	for _, r := range records {
		if !dr.Contains(r.Date) {
			continue
		}
		for _, l := range r.Lines {
			i, ok := index[l.Service]
			if !ok {
				i = len(out)
				index[l.Service] = i
				out = append(out, ServiceSummary{Service: l.Service})
			}
			out[i].Count++
			out[i].TotalAmount += l.Amount
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].TotalAmount > out[b].TotalAmount })
	return out
}

// CommissionDetail lists every line in range with the commission it earns
func CommissionDetail(records []Record, rules *RuleSet, dr *DateRange) []CommissionRow {
	var rows []CommissionRow
	for _, r := range records {
		if !dr.Contains(r.Date) {
			continue
		}
		for _, l := range r.Lines {
			rows = append(rows, CommissionRow{
				Date:         r.Date,
				Folio:        r.Folio,
				Client:       r.Client,
				Service:      l.Service,
				Professional: l.Professional,
				Amount:       l.Amount,
				Commission:   CommissionFor(l, rules.ForLine(l)),
			})
		}
	}
	return rows
}
