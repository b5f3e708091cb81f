package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gestion-peluqueria-backend/config"
	"gestion-peluqueria-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMessage struct{ to, from, body string }

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(to, from, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to, from, body})
	return "SM123", nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func seedCompanies(t *testing.T, db *gorm.DB) {
	t.Helper()
	late := now.Add(-(4*24 + 12) * time.Hour)
	recent := now.AddDate(0, 0, -2)
	closed := now.AddDate(0, 0, -30)
	for _, c := range []*models.Company{
		{RUT: "76.123.456-0", RazonSocial: "Uno SpA", NombreFantasia: "Salón Uno", ArriendoActivo: true, FechaProximoPago: &late},
		{RUT: "77.777.777-7", RazonSocial: "Dos SpA", NombreFantasia: "Salón Dos", ArriendoActivo: true, FechaProximoPago: &recent},
		{RUT: "11.111.111-1", RazonSocial: "Tres SpA", NombreFantasia: "Salón Tres", ArriendoActivo: false, FechaProximoPago: &closed},
		{RUT: "12.345.678-5", RazonSocial: "Cuatro SpA", NombreFantasia: "Salón Cuatro", ArriendoActivo: true},
	} {
		require.NoError(t, db.Create(c).Error)
	}
}

func newService(db *gorm.DB, sender MessageSender, cfg config.NoticeConfig) *NoticeService {
	s := NewNoticeService(db, sender, cfg, zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestSendOverdueNotices(t *testing.T) {
	db := setupDB(t)
	seedCompanies(t, db)
	sender := &fakeSender{}
	s := newService(db, sender, config.NoticeConfig{DaysOverdue: 3, Recipient: "+56961234567", TwilioFrom: "+15005550006"})

	logs, err := s.SendOverdueNotices(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "76.123.456-0", logs[0].EmpresaRUT)
	assert.Equal(t, 5, logs[0].DaysOverdue)
	assert.Equal(t, StatusSent, logs[0].Status)
	assert.Equal(t, "sms", logs[0].Channel)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+56961234567", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "Salón Uno")
	assert.Contains(t, sender.sent[0].body, "5 días")
	assert.Contains(t, sender.sent[0].body, `POST /api/cerrar-acceso con el cuerpo JSON {"empresaRUT": "`)

	// second run on the same day sends nothing new
	logs, err = s.SendOverdueNotices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Len(t, sender.sent, 1)

	var n int64
	require.NoError(t, db.Model(&models.NoticeLog{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSendOverdueNoticesWhatsApp(t *testing.T) {
	db := setupDB(t)
	seedCompanies(t, db)
	sender := &fakeSender{}
	s := newService(db, sender, config.NoticeConfig{DaysOverdue: 3, Recipient: "+56961234567", TwilioFrom: "+15005550006", WhatsApp: true})

	logs, err := s.SendOverdueNotices(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "whatsapp", logs[0].Channel)
	assert.Equal(t, "whatsapp:+56961234567", sender.sent[0].to)
	assert.Equal(t, "whatsapp:+15005550006", sender.sent[0].from)
}

func TestSendOverdueNoticesFailures(t *testing.T) {
	db := setupDB(t)
	seedCompanies(t, db)

	failing := newService(db, &fakeSender{err: errors.New("twilio down")}, config.NoticeConfig{DaysOverdue: 3, Recipient: "+56961234567"})
	logs, err := failing.SendOverdueNotices(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, StatusFailed, logs[0].Status)
	assert.Equal(t, "twilio down", logs[0].ErrorMessage)

	// a failed attempt does not count as notified
	unconfigured := newService(db, nil, config.NoticeConfig{DaysOverdue: 3})
	logs, err = unconfigured.SendOverdueNotices(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, StatusSkipped, logs[0].Status)
}

func TestDaysOverdue(t *testing.T) {
	due := now.Add(-36 * time.Hour)
	assert.Equal(t, 2, DaysOverdue(models.Company{FechaProximoPago: &due}, now))
	future := now.Add(time.Hour)
	assert.Equal(t, 0, DaysOverdue(models.Company{FechaProximoPago: &future}, now))
	assert.Equal(t, 0, DaysOverdue(models.Company{}, now))
}

func TestStartSchedulerRejectsBadSchedule(t *testing.T) {
	s := newService(setupDB(t), nil, config.NoticeConfig{Schedule: "not a cron"})
	_, err := s.StartScheduler()
	assert.Error(t, err)

	s.cfg.Schedule = "0 9 * * *"
	c, err := s.StartScheduler()
	require.NoError(t, err)
	c.Stop()
}
