package reports

import (
	"bytes"
	"testing"
	"time"

	"gestion-peluqueria-backend/billing"
	"gestion-peluqueria-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func record(date time.Time, lines ...billing.ServiceLine) billing.Record {
	return billing.Record{Folio: "F", Client: "Ana", Date: date, Lines: lines}
}

func TestWriteXLSX(t *testing.T) {
	cc := billing.CashClose{
		Records:   2,
		ByService: []billing.Amount{{Label: "Corte", Amount: 24000}},
		ByPayment: []billing.Amount{{Label: "Cash", Amount: 20000}, {Label: "Card", Amount: 4000}},
		Total:     24000,
	}
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf,
		CashCloseSheet(day, cc),
		ServiceSheet([]billing.ServiceSummary{{Service: "Corte", Count: 2, TotalAmount: 24000}}),
	))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Caja", "Servicios"}, f.GetSheetList())

	rows, err := f.GetRows("Caja")
	require.NoError(t, err)
	assert.Equal(t, []string{"Concepto", "Monto"}, rows[0])
	assert.Equal(t, []string{"Fecha", "04-03-2025"}, rows[1])
	last := rows[len(rows)-1]
	assert.Equal(t, []string{"Total del día", "24000"}, last)

	v, err := f.GetCellValue("Servicios", "C2")
	require.NoError(t, err)
	assert.Equal(t, "24000", v)

	assert.Equal(t, "caja-2025-03-04.xlsx", Filename("caja", day))
}

func TestCommissionSheets(t *testing.T) {
	detail := CommissionDetailSheet([]billing.CommissionRow{{
		Date: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), Folio: "F-1", Client: "Ana",
		Service: "Corte", Professional: "A", Amount: 12000, Commission: 3600,
	}})
	require.Len(t, detail.Rows, 1)
	assert.Equal(t, []any{"01-03-2025", "F-1", "Ana", "Corte", "A", int64(12000), int64(3600)}, detail.Rows[0])

	summary := ProfessionalSheet([]billing.ProfessionalSummary{{Professional: "A", Count: 1, TotalAmount: 12000, TotalCommission: 3600}})
	assert.Len(t, summary.Headers, 4)
	assert.Equal(t, int64(3600), summary.Rows[0][3])
}

func TestFilterLines(t *testing.T) {
	d := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []billing.Record{
		record(d, billing.ServiceLine{Service: "Corte", Professional: "A", Amount: 1}, billing.ServiceLine{Service: "Color", Professional: "B", Amount: 2}),
		record(d, billing.ServiceLine{Service: "Color", Professional: "B", Amount: 3}),
	}

	assert.Equal(t, records, FilterLines(records, "", " "))

	byA := FilterLines(records, "a", "")
	require.Len(t, byA, 1)
	require.Len(t, byA[0].Lines, 1)
	assert.Equal(t, "Corte", byA[0].Lines[0].Service)
	assert.Len(t, records[0].Lines, 2, "input untouched")

	color := FilterLines(records, "", "COLOR")
	require.Len(t, color, 2)
	assert.Equal(t, int64(5), color[0].Lines[0].Amount+color[1].Lines[0].Amount)

	assert.Empty(t, FilterLines(records, "A", "Color"))
}

func TestBuildDashboard(t *testing.T) {
	// Wednesday
	now := time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)
	at := func(day, hour int) time.Time { return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC) }
	line := func(service string, amount int64) billing.ServiceLine {
		return billing.ServiceLine{Service: service, Professional: "A", Amount: amount}
	}

	in := DashboardInput{
		Now:           now,
		Clients:       12,
		Professionals: 3,
		Records: []billing.Record{
			record(at(5, 10), line("Corte", 10000)),
			record(at(5, 11), line("Color", 30000), line("Corte", 10000)),
			record(at(3, 9), line("Corte", 10000)),
			record(at(1, 9), line("Brushing", 8000)),
			record(time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC), line("Color", 99999)),
		},
		Appointments: []models.Appointment{
			{Fecha: at(5, 16), Atenciones: models.AppointmentItems{{Professional: "B"}, {Professional: "A"}}},
			{Fecha: at(6, 10), Atenciones: models.AppointmentItems{{Professional: "B"}}},
			{Fecha: at(10, 10), Atenciones: models.AppointmentItems{{Professional: "C"}}},
		},
	}
	d := BuildDashboard(in)

	assert.Equal(t, int64(12), d.TotalClients)
	assert.Equal(t, int64(3), d.Professionals)
	assert.Equal(t, int64(50000), d.RevenueToday)
	assert.Equal(t, int64(68000), d.RevenueMonth)
	assert.Equal(t, int64(1), d.AppointmentsToday)

	assert.Equal(t, []Count{{"Corte", 3}, {"Color", 1}, {"Brushing", 1}}, d.TopServices)

	require.Len(t, d.RevenueWeek, 7)
	assert.Equal(t, "Lun", d.RevenueWeek[0].Day)
	assert.Equal(t, int64(10000), d.RevenueWeek[0].Value)
	assert.Equal(t, int64(50000), d.RevenueWeek[2].Value)
	assert.Equal(t, int64(0), d.RevenueWeek[5].Value, "Saturday March 1 is last week")

	assert.Equal(t, int64(1), d.AppointmentsWeek[2].Value)
	assert.Equal(t, int64(1), d.AppointmentsWeek[3].Value)
	assert.Equal(t, []Count{{"B", 2}, {"A", 1}}, d.Occupancy)
}

func TestBounds(t *testing.T) {
	sunday := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	from, to := WeekBounds(sunday)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), to)

	from, to = MonthBounds(sunday)
	assert.Equal(t, 1, from.Day())
	assert.Equal(t, time.April, to.Month())
}
