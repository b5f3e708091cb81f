package controllers

import (
	"net/http"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/store"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
)

// Registry serves the plain CRUD endpoints of one registry (clients, services, products...)
type Registry[T any, P interface {
	*T
	models.Tenanted
}] struct {
	h      *Handler
	store  *store.Scoped[T, P]
	search []string // columns matched by ?search=
	order  string

	// bind decodes the request body. Defaults to ShouldBindJSON into a new T.
	bind func(c *gin.Context) (P, error)
	// check runs after binding, before the write
	check func(P) error
}

func (r *Registry[T, P]) decode(c *gin.Context) (P, bool) {
	var (
		rec P
		err error
	)
	if r.bind != nil {
		rec, err = r.bind(c)
	} else {
		rec = P(new(T))
		err = c.ShouldBindJSON(rec)
	}
	if err != nil {
		utils.BindError(c, err)
		return rec, false
	}
	if r.check != nil {
		if err := r.check(rec); err != nil {
			r.h.fail(c, err)
			return rec, false
		}
	}
	return rec, true
}

func (r *Registry[T, P]) List(c *gin.Context) {
	rut, ok := r.h.tenantOf(c)
	if !ok {
		return
	}
	rows, err := r.store.List(c.Request.Context(), rut,
		store.Search(c.Query("search"), r.search...),
		store.OrderBy(r.order),
		store.Limit(store.ListLimit),
	)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (r *Registry[T, P]) Get(c *gin.Context) {
	rut, ok := r.h.tenantOf(c)
	if !ok {
		return
	}
	rec, err := r.store.Get(c.Request.Context(), rut, c.Param("id"))
	if err != nil {
		r.h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *Registry[T, P]) Create(c *gin.Context) {
	rec, ok := r.decode(c)
	if !ok {
		return
	}
	rut, ok := r.h.tenantOf(c, rec.GetTenant())
	if !ok {
		return
	}
	if err := r.store.Create(c.Request.Context(), rut, rec); err != nil {
		r.h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (r *Registry[T, P]) Update(c *gin.Context) {
	rec, ok := r.decode(c)
	if !ok {
		return
	}
	rut, ok := r.h.tenantOf(c, rec.GetTenant())
	if !ok {
		return
	}
	if err := r.store.Update(c.Request.Context(), rut, c.Param("id"), rec); err != nil {
		r.h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *Registry[T, P]) Delete(c *gin.Context) {
	rut, ok := r.h.tenantOf(c)
	if !ok {
		return
	}
	if err := r.store.Delete(c.Request.Context(), rut, c.Param("id")); err != nil {
		r.h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Clients search by name, email and phone
func (h *Handler) Clients() *Registry[models.Client, *models.Client] {
	return &Registry[models.Client, *models.Client]{
		h:      h,
		store:  h.clients,
		search: []string{"nombre", "email", "telefono"},
		order:  "nombre ASC",
		check: func(cl *models.Client) error {
			if cl.Telefono != "" && !utils.ValidatePhone(cl.Telefono) {
				return apperr.Validationf("invalid phone number")
			}
			return nil
		},
	}
}

// Services search by name and category
func (h *Handler) Services() *Registry[models.Service, *models.Service] {
	return &Registry[models.Service, *models.Service]{
		h:      h,
		store:  h.services.Scoped,
		search: []string{"nombre", "categoria"},
		order:  "nombre ASC",
	}
}

// Products are listed by name; stock moves through AdjustStock
func (h *Handler) Products() *Registry[models.Product, *models.Product] {
	return &Registry[models.Product, *models.Product]{
		h:      h,
		store:  h.products.Scoped,
		search: []string{"nombre", "descripcion"},
		order:  "nombre ASC",
	}
}

// professionalInput lets a payload leave out "active"; a new professional is active by default
type professionalInput struct {
	models.Professional
	Active *bool `json:"active"`
}

// Professionals search by name and by the services they perform
func (h *Handler) Professionals() *Registry[models.Professional, *models.Professional] {
	return &Registry[models.Professional, *models.Professional]{
		h:      h,
		store:  h.professionals,
		search: []string{"nombre", "CAST(servicios AS TEXT)"},
		order:  "nombre ASC",
		bind: func(c *gin.Context) (*models.Professional, error) {
			var in professionalInput
			if err := c.ShouldBindJSON(&in); err != nil {
				return nil, err
			}
			p := in.Professional
			p.Active = in.Active == nil || *in.Active
			return &p, nil
		},
	}
}

type stockInput struct {
	Cantidad *int64 `json:"cantidad" binding:"required"`
}

// AdjustStock adds a signed quantity to a product's stock
func (h *Handler) AdjustStock(c *gin.Context) {
	rut, ok := h.tenantOf(c)
	if !ok {
		return
	}
	var input stockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BindError(c, err)
		return
	}
	p, err := h.products.AdjustStock(c.Request.Context(), rut, c.Param("id"), *input.Cantidad)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
