package controllers

import (
	"net/http"

	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/store"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
)

// ListAppointments lists one day's bookings, ?fecha=YYYY-MM-DD
func (h *Handler) ListAppointments(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	fecha := c.Query("fecha")
	if fecha == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "fecha is required")
		return
	}
	day, err := utils.ParseDay(fecha)
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := h.appointments.ByDay(c.Request.Context(), rut, utils.DayRange(day))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var a models.Appointment
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.BindError(c, err)
		return
	}
	rut, ok := h.tenantOf(c, a.EmpresaRUT)
	if !ok {
		return
	}
	if err := h.appointments.Create(c.Request.Context(), rut, &a); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// AppointmentByFolio is used to pre-fill an attention from its booking
func (h *Handler) AppointmentByFolio(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	a, err := h.appointments.ByFolio(c.Request.Context(), rut, c.Param("folio"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	if err := h.appointments.Delete(c.Request.Context(), rut, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted"})
}

// ListAttentions filters by folio, cliente, servicio, profesional and desde/hasta
func (h *Handler) ListAttentions(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	dr, err := utils.ParseRange(c.Query("desde"), c.Query("hasta"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := h.attentions.Search(c.Request.Context(), rut, store.AttentionFilter{
		Folio:        c.Query("folio"),
		Client:       c.Query("cliente"),
		Service:      c.Query("servicio"),
		Professional: c.Query("profesional"),
		Range:        dr,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) GetAttention(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	a, err := h.attentions.Get(c.Request.Context(), rut, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAttention bills a visit. The total, commissions and payment label are computed
// here; whatever the client sent for them is overwritten.
func (h *Handler) CreateAttention(c *gin.Context) {
	var a models.Attention
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.BindError(c, err)
		return
	}
	rut, ok := h.tenantOf(c, a.EmpresaRUT)
	if !ok {
		return
	}
	if err := h.attentions.Create(c.Request.Context(), rut, &a); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateAttention(c *gin.Context) {
	var a models.Attention
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.BindError(c, err)
		return
	}
	rut, ok := h.tenantOf(c, a.EmpresaRUT)
	if !ok {
		return
	}
	if err := h.attentions.Update(c.Request.Context(), rut, c.Param("id"), &a); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAttention(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	if err := h.attentions.Delete(c.Request.Context(), rut, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attention deleted"})
}
