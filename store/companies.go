package store

import (
	"context"
	"strings"
	"time"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Companies is the tenant registry itself. It is not tenant scoped; RUT is unique
// across the platform.
type Companies struct {
	db *gorm.DB
}

func NewCompanies(db *gorm.DB) *Companies {
	return &Companies{db: db}
}

func (s *Companies) List(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	if err := s.db.WithContext(ctx).Order("nombre_fantasia ASC").Find(&out).Error; err != nil {
		return nil, translate(err, "company")
	}
	return out, nil
}

func (s *Companies) Get(ctx context.Context, id string) (*models.Company, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFoundf("company not found")
	}
	var c models.Company
	if err := s.db.WithContext(ctx).First(&c, "id = ?", uid).Error; err != nil {
		return nil, translate(err, "company")
	}
	return &c, nil
}

func (s *Companies) ByRUT(ctx context.Context, rut string) (*models.Company, error) {
	var c models.Company
	if err := s.db.WithContext(ctx).First(&c, "rut = ?", strings.TrimSpace(rut)).Error; err != nil {
		return nil, translate(err, "company")
	}
	return &c, nil
}

func (s *Companies) rutTaken(ctx context.Context, rut string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Company{}).Where("rut = ?", rut).Count(&n).Error; err != nil {
		return false, translate(err, "company")
	}
	return n > 0, nil
}

func (s *Companies) Create(ctx context.Context, c *models.Company) error {
	c.ID = uuid.Nil
	taken, err := s.rutTaken(ctx, c.RUT)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflictf("a company with RUT %s already exists", c.RUT)
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return translate(err, "company")
	}
	return nil
}

// Update rewrites a company's data. The RUT keys every tenant row, so it is fixed at
// creation and a payload carrying a different one is rejected.
func (s *Companies) Update(ctx context.Context, id string, c *models.Company) error {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if rut := strings.TrimSpace(c.RUT); rut != "" && rut != cur.RUT {
		return apperr.Validationf("the RUT of a company cannot change")
	}
	c.ID, c.RUT = cur.ID, cur.RUT
	err = s.db.WithContext(ctx).Model(cur).Select("*").Omit("id", "created_at").Updates(c).Error
	return translate(err, "company")
}

func (s *Companies) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFoundf("company not found")
	}
	res := s.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", uid)
	if res.Error != nil {
		return translate(res.Error, "company")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("company not found")
	}
	return nil
}

// CloseAccess turns off the company's rental so its profiles can no longer log in
func (s *Companies) CloseAccess(ctx context.Context, rut string) error {
	res := s.db.WithContext(ctx).Model(&models.Company{}).
		Where("rut = ?", strings.TrimSpace(rut)).
		Updates(map[string]any{"arriendo_activo": false, "updated_at": time.Now()})
	if res.Error != nil {
		return translate(res.Error, "company")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("company not found")
	}
	return nil
}

// Overdue lists active companies whose next payment is more than days behind now
func (s *Companies) Overdue(ctx context.Context, now time.Time, days int) ([]models.Company, error) {
	cutoff := now.AddDate(0, 0, -days).UTC()
	var out []models.Company
	err := s.db.WithContext(ctx).
		Where("arriendo_activo = ? AND fecha_proximo_pago IS NOT NULL AND fecha_proximo_pago < ?", true, cutoff).
		Order("fecha_proximo_pago ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, "company")
	}
	return out, nil
}

// Users are platform accounts
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.db.WithContext(ctx).Order("email ASC").Find(&out).Error; err != nil {
		return nil, translate(err, "user")
	}
	return out, nil
}

func (s *Users) Create(ctx context.Context, u *models.User) error {
	u.ID = uuid.Nil
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
		return translate(err, "user")
	}
	if n > 0 {
		return apperr.Conflictf("email %s is already registered", u.Email)
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err, "user")
	}
	return nil
}

// ByEmail finds a platform account for login
func (s *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// TouchLogin records a successful login
func (s *Users) TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at.UTC()).Error
	return translate(err, "user")
}

// EnsureAdmin creates the first platform administrator when no account uses email yet.
// passwordHash must already be a bcrypt hash.
func (s *Users) EnsureAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.ByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return false, err
	}
	u := &models.User{Email: email, Password: passwordHash, Name: "Administrador", Role: tenant.RoleAdmin, IsActive: true}
	if err := s.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
