package reports

import (
	"sort"
	"time"

	"gestion-peluqueria-backend/billing"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/utils"
)

// TopServicesLimit caps the ranking of services on the dashboard
const TopServicesLimit = 5

// Weekdays labels the week series, Monday first
var Weekdays = []string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}

type Count struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type DayFigure struct {
	Day   string `json:"dia"`
	Value int64  `json:"value"`
}

// Dashboard holds the KPIs of the home page
type Dashboard struct {
	TotalClients      int64       `json:"totalClientes"`
	AppointmentsToday int64       `json:"totalCitasHoy"`
	RevenueToday      int64       `json:"totalVentasHoy"`
	RevenueMonth      int64       `json:"totalVentasMes"`
	Professionals     int64       `json:"totalProfesionales"`
	TopServices       []Count     `json:"topServicios"`
	AppointmentsWeek  []DayFigure `json:"citasSemana"`
	RevenueWeek       []DayFigure `json:"ventasPorDia"`
	Occupancy         []Count     `json:"ocupacionProfesionales"`
}

// DashboardInput is what the dashboard is computed from. Records must cover the current
// month and the current week; Appointments the current week.
type DashboardInput struct {
	Now           time.Time
	Clients       int64
	Professionals int64
	Records       []billing.Record
	Appointments  []models.Appointment
}

// WeekBounds returns Monday 00:00 of now's week and the following Monday
func WeekBounds(now time.Time) (time.Time, time.Time) {
	start := utils.BeginningOfWeek(now)
	return start, start.AddDate(0, 0, 7)
}

// MonthBounds returns the first instant of now's month and of the next one
func MonthBounds(now time.Time) (time.Time, time.Time) {
	start := utils.BeginningOfMonth(now)
	return start, start.AddDate(0, 1, 0)
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// weekIndex is 0 for Monday .. 6 for Sunday
func weekIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func BuildDashboard(in DashboardInput) Dashboard {
	today := utils.BeginningOfDay(in.Now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart, weekEnd := WeekBounds(in.Now)
	monthStart, monthEnd := MonthBounds(in.Now)

	d := Dashboard{
		TotalClients:     in.Clients,
		Professionals:    in.Professionals,
		AppointmentsWeek: make([]DayFigure, 7),
		RevenueWeek:      make([]DayFigure, 7),
	}
	for i, day := range Weekdays {
		d.AppointmentsWeek[i].Day = day
		d.RevenueWeek[i].Day = day
	}

	serviceCounts := make(map[string]int64)
	var serviceOrder []string
	for _, r := range in.Records {
		total := r.Total()
		if within(r.Date, today, tomorrow) {
			d.RevenueToday += total
		}
		if within(r.Date, weekStart, weekEnd) {
			d.RevenueWeek[weekIndex(r.Date.In(in.Now.Location()))].Value += total
		}
		if !within(r.Date, monthStart, monthEnd) {
			continue
		}
		d.RevenueMonth += total
		for _, l := range r.Lines {
			if _, ok := serviceCounts[l.Service]; !ok {
				serviceOrder = append(serviceOrder, l.Service)
			}
			serviceCounts[l.Service]++
		}
	}
	d.TopServices = ranked(serviceOrder, serviceCounts, TopServicesLimit)

	occupancy := make(map[string]int64)
	var professionalOrder []string
	for _, a := range in.Appointments {
		if within(a.Fecha, today, tomorrow) {
			d.AppointmentsToday++
		}
		if !within(a.Fecha, weekStart, weekEnd) {
			continue
		}
		d.AppointmentsWeek[weekIndex(a.Fecha.In(in.Now.Location()))].Value++
		for _, item := range a.Atenciones {
			if _, ok := occupancy[item.Professional]; !ok {
				professionalOrder = append(professionalOrder, item.Professional)
			}
			occupancy[item.Professional]++
		}
	}
	d.Occupancy = ranked(professionalOrder, occupancy, 0)
	return d
}

// ranked sorts names by count descending, first seen first on ties. limit 0 keeps all.
func ranked(order []string, counts map[string]int64, limit int) []Count {
	out := make([]Count, len(order))
	for i, name := range order {
		out[i] = Count{Name: name, Value: counts[name]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Value > out[b].Value })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
