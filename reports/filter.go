package reports

import (
	"strings"

	"gestion-peluqueria-backend/billing"
)

// FilterLines keeps only the lines performed by professional and of service, compared
// case-insensitively. Empty filters match everything. Records left without lines are dropped.
func FilterLines(records []billing.Record, professional, service string) []billing.Record {
	professional, service = strings.TrimSpace(professional), strings.TrimSpace(service)
	if professional == "" && service == "" {
		return records
	}
	out := make([]billing.Record, 0, len(records))
	for _, r := range records {
		var lines []billing.ServiceLine
		for _, l := range r.Lines {
			if matches(l.Professional, professional) && matches(l.Service, service) {
				lines = append(lines, l)
			}
		}
		if len(lines) > 0 {
			r.Lines = lines
			out = append(out, r)
		}
	}
	return out
}

func matches(value, want string) bool {
	return want == "" || strings.EqualFold(strings.TrimSpace(value), want)
}
