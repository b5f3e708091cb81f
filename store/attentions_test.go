package store

import (
	"context"
	"math"
	"testing"
	"time"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/billing"
	"gestion-peluqueria-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	services := NewServices(db)
	require.NoError(t, services.Create(ctx, t1, &models.Service{Nombre: "Corte de pelo", Categoria: "Peluquería", Precio: 12000}))
	require.NoError(t, services.Create(ctx, t1, &models.Service{Nombre: "Coloración", Categoria: "Color", Precio: 35000}))
	require.NoError(t, NewCommissionRules(db).Create(ctx, t1, &models.CommissionRule{Profesional: "A", Categoria: "peluqueria", Porcentaje: 30}))
}

func attention(day int, payments ...billing.Payment) *models.Attention {
	return &models.Attention{
		Cliente: "Ana",
		Fecha:   time.Date(2025, 3, day, 11, 0, 0, 0, time.UTC),
		Servicios: models.ServiceLines{
			{Service: "Corte de pelo", Professional: "A", Amount: 12000},
			{Service: "Coloración", Professional: "B", Amount: 35000, Materials: []billing.Material{{Name: "tinte", Amount: 5000}}},
		},
		Pagos: payments,
	}
}

func TestAttentionCreateRejectsUnsettled(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	seedCatalog(t, db)
	atts := NewAttentions(db)

	err := atts.Create(ctx, t1, attention(1, billing.Payment{Kind: billing.PaymentCash, Amount: 50000}))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	n, err := atts.Count(ctx, t1)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing may be persisted")
}

func TestAttentionCreate(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	seedCatalog(t, db)
	atts := NewAttentions(db)
	atts.now = func() time.Time { return time.UnixMilli(42) }

	a := attention(1,
		billing.Payment{Kind: "efectivo", Amount: 40000},
		billing.Payment{Kind: billing.PaymentCard, Amount: 12000, OperationReference: "OP-1"},
	)
	a.Total = 1
	require.NoError(t, atts.Create(ctx, t1, a))

	got, err := atts.Get(ctx, t1, a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(52000), got.Total)
	assert.Equal(t, "ATN-42", got.Folio)
	assert.Equal(t, "Cash", got.FormaPago)
	assert.Equal(t, billing.PaymentCash, got.Pagos[0].Kind)
	require.Len(t, got.Servicios, 2)
	assert.Equal(t, "Peluquería", got.Servicios[0].Category)
	assert.Equal(t, int64(3600), got.Servicios[0].Commission)
	assert.Equal(t, "Color", got.Servicios[1].Category)
	assert.Equal(t, int64(0), got.Servicios[1].Commission)
}

func TestAttentionFolioUniquePerTenant(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	seedCatalog(t, db)
	atts := NewAttentions(db)
	atts.now = func() time.Time { return time.UnixMilli(42) }
	paid := billing.Payment{Kind: billing.PaymentCash, Amount: 52000}

	first := attention(1, paid)
	first.Folio = "F-1"
	require.NoError(t, atts.Create(ctx, t1, first))

	again := attention(2, paid)
	again.Folio = " F-1 "
	err := atts.Create(ctx, t1, again)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	other := attention(2, paid)
	other.Folio = "F-1"
	require.NoError(t, atts.Create(ctx, t2, other), "folios are only unique within a company")

	// generated folios in the same millisecond do not collide
	a, b := attention(3, paid), attention(3, paid)
	require.NoError(t, atts.Create(ctx, t1, a))
	require.NoError(t, atts.Create(ctx, t1, b))
	assert.Equal(t, "ATN-42", a.Folio)
	assert.Equal(t, "ATN-42-2", b.Folio)

	// an edit may keep its own folio but not take another one
	keep := attention(1, paid)
	keep.Folio = "F-1"
	require.NoError(t, atts.Update(ctx, t1, first.ID.String(), keep))
	steal := attention(3, paid)
	steal.Folio = "F-1"
	err = atts.Update(ctx, t1, a.ID.String(), steal)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// the index holds even when the fast path is skipped
	dup := attention(4, paid)
	dup.Folio = "F-1"
	require.NoError(t, atts.Prepare(ctx, t1, dup))
	err = atts.Scoped.Create(ctx, t1, dup)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestAttentionCreateRejectsOverflowingTotal(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	seedCatalog(t, db)
	atts := NewAttentions(db)

	a := &models.Attention{
		Cliente: "Ana",
		Servicios: models.ServiceLines{{
			Service: "Corte de pelo", Professional: "A", Amount: math.MaxInt64,
			Materials: []billing.Material{{Name: "tinte", Amount: 1}},
		}},
	}
	err := atts.Create(ctx, t1, a)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	n, err := atts.Count(ctx, t1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAttentionUpdate(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	seedCatalog(t, db)
	atts := NewAttentions(db)

	a := attention(1, billing.Payment{Kind: billing.PaymentCash, Amount: 52000})
	require.NoError(t, atts.Create(ctx, t1, a))
	id := a.ID.String()

	edit := attention(1, billing.Payment{Kind: billing.PaymentTransfer, Amount: 12000})
	edit.Servicios = edit.Servicios[:1]
	edit.Folio = ""

	err := atts.Update(ctx, t2, id, edit)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	unpaid := attention(1, billing.Payment{Kind: billing.PaymentTransfer, Amount: 1000})
	err = atts.Update(ctx, t1, id, unpaid)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	require.NoError(t, atts.Update(ctx, t1, id, edit))
	got, err := atts.Get(ctx, t1, id)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), got.Total)
	assert.Equal(t, a.Folio, got.Folio)
	assert.Equal(t, "Transfer", got.FormaPago)
}

func TestAttentionSearch(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	seedCatalog(t, db)
	atts := NewAttentions(db)

	for day := 1; day <= 3; day++ {
		a := attention(day, billing.Payment{Kind: billing.PaymentCash, Amount: 52000})
		if day == 3 {
			a.Cliente = "Luis"
			a.Servicios = models.ServiceLines{{Service: "Corte de pelo", Professional: "B", Amount: 12000}}
			a.Pagos = models.Payments{{Kind: billing.PaymentCash, Amount: 12000}}
		}
		require.NoError(t, atts.Create(ctx, t1, a))
	}
	require.NoError(t, atts.Create(ctx, t2, attention(2, billing.Payment{Kind: billing.PaymentCash, Amount: 52000})))

	all, err := atts.Search(ctx, t1, AttentionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Fecha.After(all[1].Fecha), "newest first")

	byClient, err := atts.Search(ctx, t1, AttentionFilter{Client: "luis"})
	require.NoError(t, err)
	require.Len(t, byClient, 1)

	byProfessional, err := atts.Search(ctx, t1, AttentionFilter{Professional: "A"})
	require.NoError(t, err)
	assert.Len(t, byProfessional, 2)

	// days 1 and 2 have Corte by A and Coloración by B, only day 3 has both on one line
	both, err := atts.Search(ctx, t1, AttentionFilter{Service: "corte", Professional: "B"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Luis", both[0].Cliente)

	from := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 23, 59, 59, 0, time.UTC)
	ranged, err := atts.Search(ctx, t1, AttentionFilter{Range: &billing.DateRange{From: &from, To: &to}})
	require.NoError(t, err)
	require.Len(t, ranged, 1)

	byFolio, err := atts.Search(ctx, t1, AttentionFilter{Folio: ranged[0].Folio})
	require.NoError(t, err)
	assert.Len(t, byFolio, 1)

	revenue, err := atts.Revenue(ctx, t1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(52000+52000+12000), revenue)

	records, err := atts.Records(ctx, t1, &billing.DateRange{From: &from})
	require.NoError(t, err)
	require.Len(t, records, 2)
	summary := billing.SummarizeByProfessional(records, nil, nil)
	assert.Equal(t, "B", summary[0].Professional)
}

func TestCommissionRulesStore(t *testing.T) {
	ctx := context.Background()
	rules := NewCommissionRules(setupDB(t))

	r := &models.CommissionRule{Profesional: "Ana", Categoria: "Peluquería", Porcentaje: 30}
	require.NoError(t, rules.Create(ctx, t1, r))

	err := rules.Create(ctx, t1, &models.CommissionRule{Profesional: "ana", Categoria: "PELUQUERIA", Porcentaje: 10})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	err = rules.Create(ctx, t1, &models.CommissionRule{Profesional: "Ana", Categoria: "Color", Porcentaje: 101})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	require.NoError(t, rules.Create(ctx, t2, &models.CommissionRule{Profesional: "Ana", Categoria: "Peluquería", Porcentaje: 50}))

	require.NoError(t, rules.Update(ctx, t1, r.ID.String(), &models.CommissionRule{Profesional: "Ana", Categoria: "Peluquería", Porcentaje: 35}))

	rs, err := rules.RuleSet(ctx, t1)
	require.NoError(t, err)
	rule := rs.Lookup("ANA", "peluqueria")
	require.NotNil(t, rule)
	assert.Equal(t, 35, rule.Percentage)

	listed, err := rules.ListFor(ctx, t1, "an")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCompanies(t *testing.T) {
	ctx := context.Background()
	companies := NewCompanies(setupDB(t))
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	late := now.AddDate(0, 0, -5)
	recent := now.AddDate(0, 0, -2)

	a := &models.Company{RUT: t1, RazonSocial: "Salón Uno SpA", NombreFantasia: "Uno", ArriendoActivo: true, FechaProximoPago: &late}
	require.NoError(t, companies.Create(ctx, a))
	require.NoError(t, companies.Create(ctx, &models.Company{RUT: t2, RazonSocial: "Dos", NombreFantasia: "Dos", ArriendoActivo: true, FechaProximoPago: &recent}))

	err := companies.Create(ctx, &models.Company{RUT: t1, RazonSocial: "Copia", NombreFantasia: "Copia"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	renamed := *a
	renamed.RUT = "11.111.111-1"
	err = companies.Update(ctx, a.ID.String(), &renamed)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "the RUT is fixed at creation")

	edit := &models.Company{RUT: t1, RazonSocial: "Salón Uno Ltda", NombreFantasia: "Uno", ArriendoActivo: true, FechaProximoPago: &late}
	require.NoError(t, companies.Update(ctx, a.ID.String(), edit))
	got, err := companies.ByRUT(ctx, t1)
	require.NoError(t, err)
	assert.Equal(t, "Salón Uno Ltda", got.RazonSocial)
	_, err = companies.ByRUT(ctx, "11.111.111-1")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	overdue, err := companies.Overdue(ctx, now, 3)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, t1, overdue[0].RUT)

	require.NoError(t, companies.CloseAccess(ctx, t1))
	got, err = companies.ByRUT(ctx, t1)
	require.NoError(t, err)
	assert.False(t, got.ArriendoActivo)

	overdue, err = companies.Overdue(ctx, now, 3)
	require.NoError(t, err)
	assert.Empty(t, overdue)

	err = companies.CloseAccess(ctx, "11.111.111-1")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(setupDB(t))

	require.NoError(t, users.Create(ctx, &models.User{Email: "admin@salon.cl", Password: "x", Role: "administrador", IsActive: true}))
	err := users.Create(ctx, &models.User{Email: "admin@salon.cl", Password: "y", Role: "contador"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
