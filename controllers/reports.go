package controllers

import (
	"net/http"
	"time"

	"gestion-peluqueria-backend/billing"
	"gestion-peluqueria-backend/reports"
	"gestion-peluqueria-backend/store"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
)

// Report types and views accepted by GetReport
const (
	ReportCommissions = "comisiones"
	ReportServices    = "servicios"

	ViewSummary  = "resumen"
	ViewDetailed = "detallado"
)

// GetReport computes commission or service reports over the attentions in
// fechaInicio..fechaFin, optionally narrowed to one profesional or servicio.
// Add format=xlsx for a workbook.
func (h *Handler) GetReport(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	kind := c.Query("tipoInforme")
	view := c.DefaultQuery("tipoVista", ViewSummary)
	if kind == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "tipoInforme is required")
		return
	}
	if kind != ReportCommissions && kind != ReportServices {
		utils.RespondWithError(c, http.StatusBadRequest, "unsupported report type")
		return
	}
	if view != ViewSummary && view != ViewDetailed {
		utils.RespondWithError(c, http.StatusBadRequest, "tipoVista must be resumen or detallado")
		return
	}

	dr, err := utils.ParseRange(c.Query("fechaInicio"), c.Query("fechaFin"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	records, err := h.attentions.Records(ctx, rut, dr)
	if err != nil {
		h.fail(c, err)
		return
	}
	records = reports.FilterLines(records, c.Query("profesional"), c.Query("servicio"))

	var (
		data  any
		sheet reports.Sheet
	)
	switch {
	case kind == ReportServices:
		rows := billing.SummarizeByService(records, dr)
		data, sheet = orEmpty(rows), reports.ServiceSheet(rows)
	case view == ViewDetailed:
		rules, err := h.rules.RuleSet(ctx, rut)
		if err != nil {
			h.fail(c, err)
			return
		}
		rows := billing.CommissionDetail(records, rules, dr)
		data, sheet = orEmpty(rows), reports.CommissionDetailSheet(rows)
	default:
		rules, err := h.rules.RuleSet(ctx, rut)
		if err != nil {
			h.fail(c, err)
			return
		}
		rows := billing.SummarizeByProfessional(records, rules, dr)
		data, sheet = orEmpty(rows), reports.ProfessionalSheet(rows)
	}

	if wantsXLSX(c) {
		h.sendXLSX(c, reports.Filename("reporte-"+kind, h.now()), sheet)
		return
	}
	c.JSON(http.StatusOK, data)
}

// CashClose totals one day by service and by payment kind, ?fecha=YYYY-MM-DD (default today)
func (h *Handler) CashClose(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	day := utils.BeginningOfDay(h.now())
	if fecha := c.Query("fecha"); fecha != "" {
		var err error
		if day, err = utils.ParseDay(fecha); err != nil {
			h.fail(c, err)
			return
		}
	}
	dr := utils.DayRange(day)
	records, err := h.attentions.Records(c.Request.Context(), rut, &dr)
	if err != nil {
		h.fail(c, err)
		return
	}
	cc := billing.CloseDay(records)

	if wantsXLSX(c) {
		h.sendXLSX(c, reports.Filename("caja", day), reports.CashCloseSheet(day, cc))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fecha":        day.Format("2006-01-02"),
		"atenciones":   cc.Records,
		"porServicio":  cc.ByService,
		"porFormaPago": cc.ByPayment,
		"total":        cc.Total,
	})
}

// Dashboard returns the home page KPIs
func (h *Handler) Dashboard(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	now := h.now()

	clients, err := h.clients.Count(ctx, rut)
	if err != nil {
		h.fail(c, err)
		return
	}
	professionals, err := h.professionals.Count(ctx, rut, store.Equals("activo", true))
	if err != nil {
		h.fail(c, err)
		return
	}

	// the week can start in the previous month and end in the next one
	weekFrom, weekTo := reports.WeekBounds(now)
	monthFrom, monthTo := reports.MonthBounds(now)
	from, to := earliest(weekFrom, monthFrom), latest(weekTo, monthTo).Add(-1)
	records, err := h.attentions.Records(ctx, rut, &billing.DateRange{From: &from, To: &to})
	if err != nil {
		h.fail(c, err)
		return
	}
	weekEnd := weekTo.Add(-1)
	appointments, err := h.appointments.ByDay(ctx, rut, billing.DateRange{From: &weekFrom, To: &weekEnd})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, reports.BuildDashboard(reports.DashboardInput{
		Now:           now,
		Clients:       clients,
		Professionals: professionals,
		Records:       records,
		Appointments:  appointments,
	}))
}

// orEmpty keeps an empty report a JSON array
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
