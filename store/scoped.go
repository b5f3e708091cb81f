// Package store is the persistence layer. Every tenant-owned table is read and written
// through Scoped, which adds empresa_rut to each statement so a company can neither see
// nor modify another company's rows.
package store

import (
	"context"
	"errors"
	"strings"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tenantColumn = "empresa_rut"

// Scope narrows a query, e.g. a search filter or an ORDER BY
type Scope = func(*gorm.DB) *gorm.DB

// Scoped is a repository over one tenant-owned model
type Scoped[T any, P interface {
	*T
	models.Tenanted
}] struct {
	db   *gorm.DB
	name string
}

// NewScoped returns a repository for T. name is used in not-found messages.
func NewScoped[T any, P interface {
	*T
	models.Tenanted
}](db *gorm.DB, name string) *Scoped[T, P] {
	return &Scoped[T, P]{db: db, name: name}
}

// TenantScope filters by company
func TenantScope(rut string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(tenantColumn+" = ?", rut)
	}
}

func requireTenant(rut string) (string, error) {
	rut = strings.TrimSpace(rut)
	if rut == "" {
		return "", apperr.Validationf("empresaRUT is required")
	}
	return rut, nil
}

// DB returns a session for rut, already filtered by tenant
func (s *Scoped[T, P]) DB(ctx context.Context, rut string) (*gorm.DB, error) {
	rut, err := requireTenant(rut)
	if err != nil {
		return nil, err
	}
	return s.db.WithContext(ctx).Model(P(new(T))).Scopes(TenantScope(rut)), nil
}

// List returns the company's rows narrowed by scopes
func (s *Scoped[T, P]) List(ctx context.Context, rut string, scopes ...Scope) ([]T, error) {
	db, err := s.DB(ctx, rut)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := db.Scopes(scopes...).Find(&out).Error; err != nil {
		return nil, translate(err, s.name)
	}
	return out, nil
}

// Count counts the company's rows narrowed by scopes
func (s *Scoped[T, P]) Count(ctx context.Context, rut string, scopes ...Scope) (int64, error) {
	db, err := s.DB(ctx, rut)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, translate(err, s.name)
	}
	return n, nil
}

// Get loads one row by id. A row of another company is reported as not found.
func (s *Scoped[T, P]) Get(ctx context.Context, rut, id string) (*T, error) {
	db, err := s.DB(ctx, rut)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFoundf("%s not found", s.name)
	}
	var rec T
	if err := db.Where("id = ?", uid).First(&rec).Error; err != nil {
		return nil, translate(err, s.name)
	}
	return &rec, nil
}

// FindOne loads the first row matching scopes
func (s *Scoped[T, P]) FindOne(ctx context.Context, rut string, scopes ...Scope) (*T, error) {
	db, err := s.DB(ctx, rut)
	if err != nil {
		return nil, err
	}
	var rec T
	if err := db.Scopes(scopes...).First(&rec).Error; err != nil {
		return nil, translate(err, s.name)
	}
	return &rec, nil
}

// Exists is the fast-path uniqueness check. The unique index stays the authority.
func (s *Scoped[T, P]) Exists(ctx context.Context, rut string, scopes ...Scope) (bool, error) {
	n, err := s.Count(ctx, rut, scopes...)
	return n > 0, err
}

// Create stamps rut on rec and inserts it. Whatever tenant the payload carried is overwritten.
func (s *Scoped[T, P]) Create(ctx context.Context, rut string, rec P) error {
	rut, err := requireTenant(rut)
	if err != nil {
		return err
	}
	rec.SetTenant(rut)
	rec.SetID(uuid.Nil)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, s.name)
	}
	return nil
}

// Update replaces the row {id, rut} with rec. Last write wins. A row of another company is
// reported as not found and left untouched.
func (s *Scoped[T, P]) Update(ctx context.Context, rut, id string, rec P) error {
	existing, err := s.Get(ctx, rut, id)
	if err != nil {
		return err
	}
	cur := P(existing)
	rec.SetID(cur.GetID())
	rec.SetTenant(cur.GetTenant())

	err = s.db.WithContext(ctx).Model(cur).
		Where(tenantColumn+" = ?", cur.GetTenant()).
		Select("*").Omit("id", tenantColumn, "created_at").
		Updates(rec).Error
	if err != nil {
		return translate(err, s.name)
	}
	return nil
}

// Delete removes the row {id, rut}
func (s *Scoped[T, P]) Delete(ctx context.Context, rut, id string) error {
	rut, err := requireTenant(rut)
	if err != nil {
		return err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFoundf("%s not found", s.name)
	}
	res := s.db.WithContext(ctx).Where("id = ? AND "+tenantColumn+" = ?", uid, rut).Delete(P(new(T)))
	if res.Error != nil {
		return translate(res.Error, s.name)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("%s not found", s.name)
	}
	return nil
}

// translate maps driver and gorm errors onto apperr kinds
func translate(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFoundf("%s not found", name)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return apperr.Conflictf("%s already exists", name)
	}
	return err
}

// isUniqueViolation catches drivers that were opened without TranslateError
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}
