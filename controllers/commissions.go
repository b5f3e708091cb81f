package controllers

import (
	"net/http"

	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
)

// ListCommissionRules lists the company's rules, optionally those of ?profesional=
func (h *Handler) ListCommissionRules(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	rules, err := h.rules.ListFor(c.Request.Context(), rut, c.Query("profesional"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *Handler) CreateCommissionRule(c *gin.Context) {
	var r models.CommissionRule
	if err := c.ShouldBindJSON(&r); err != nil {
		utils.BindError(c, err)
		return
	}
	rut, ok := h.tenantOf(c, r.EmpresaRUT)
	if !ok {
		return
	}
	if err := h.rules.Create(c.Request.Context(), rut, &r); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpdateCommissionRule(c *gin.Context) {
	var r models.CommissionRule
	if err := c.ShouldBindJSON(&r); err != nil {
		utils.BindError(c, err)
		return
	}
	rut, ok := h.tenantOf(c, r.EmpresaRUT)
	if !ok {
		return
	}
	if err := h.rules.Update(c.Request.Context(), rut, c.Param("id"), &r); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteCommissionRule(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	if err := h.rules.Delete(c.Request.Context(), rut, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commission rule deleted"})
}
