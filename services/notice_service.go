// services/notice_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gestion-peluqueria-backend/config"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/store"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// MessageSender delivers a text message and returns the provider's message id
type MessageSender interface {
	Send(to, from, body string) (string, error)
}

// TwilioSender sends through the Twilio messages API
type TwilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender(accountSid, authToken string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *TwilioSender) Send(to, from, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// NoticeService warns the operator about companies whose rent is overdue so their
// access can be closed.
type NoticeService struct {
	db        *gorm.DB
	companies *store.Companies
	sender    MessageSender
	cfg       config.NoticeConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewNoticeService(db *gorm.DB, sender MessageSender, cfg config.NoticeConfig, logger *zap.Logger) *NoticeService {
	return &NoticeService{
		db:        db,
		companies: store.NewCompanies(db),
		sender:    sender,
		cfg:       cfg,
		logger:    logger.Named("notices"),
		now:       time.Now,
	}
}

// StartScheduler runs SendOverdueNotices on the configured cron schedule
func (s *NoticeService) StartScheduler() (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(s.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.SendOverdueNotices(ctx); err != nil {
			s.logger.Error("overdue notices failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid notice schedule %q: %w", s.cfg.Schedule, err)
	}
	c.Start()
	s.logger.Info("notice scheduler started", zap.String("schedule", s.cfg.Schedule))
	return c, nil
}

// SendOverdueNotices sends one notice per overdue company, at most once a day each,
// and logs every attempt. It returns the NoticeLogs written.
func (s *NoticeService) SendOverdueNotices(ctx context.Context) ([]models.NoticeLog, error) {
	now := s.now()
	overdue, err := s.companies.Overdue(ctx, now, s.cfg.DaysOverdue)
	if err != nil {
		return nil, err
	}
	s.logger.Info("processing overdue companies", zap.Int("count", len(overdue)))

	var logs []models.NoticeLog
	for _, company := range overdue {
		notified, err := s.notifiedToday(ctx, company.RUT, now)
		if err != nil {
			return logs, err
		}
		if notified {
			continue
		}

		entry := s.send(company, now)
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			s.logger.Error("failed to log notice", zap.String("empresa_rut", company.RUT), zap.Error(err))
			continue
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

func (s *NoticeService) notifiedToday(ctx context.Context, rut string, now time.Time) (bool, error) {
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	var n int64
	err := s.db.WithContext(ctx).Model(&models.NoticeLog{}).
		Where("empresa_rut = ? AND status = ? AND sent_at >= ?", rut, StatusSent, dayStart.UTC()).
		Count(&n).Error
	return n > 0, err
}

// DaysOverdue counts the started days since the payment was due; 0 when it is not due yet
func DaysOverdue(c models.Company, now time.Time) int {
	if c.FechaProximoPago == nil || !now.After(*c.FechaProximoPago) {
		return 0
	}
	late := now.Sub(*c.FechaProximoPago)
	days := int(late / (24 * time.Hour))
	if late%(24*time.Hour) != 0 {
		days++
	}
	return days
}

func noticeMessage(c models.Company, days int) string {
	return fmt.Sprintf("La empresa %s (RUT: %s) tiene %d días de atraso en el pago del arriendo. "+
		"Para cerrar el acceso envíe POST /api/cerrar-acceso con el cuerpo JSON {\"empresaRUT\": \"%s\", \"clave\": <clave de cierre>}.",
		c.NombreFantasia, c.RUT, days, c.RUT)
}

func (s *NoticeService) send(c models.Company, now time.Time) models.NoticeLog {
	days := DaysOverdue(c, now)
	entry := models.NoticeLog{
		EmpresaRUT:  c.RUT,
		DaysOverdue: days,
		Message:     noticeMessage(c, days),
		Channel:     "sms",
		SentAt:      now.UTC(),
	}

	to, from := strings.TrimSpace(s.cfg.Recipient), strings.TrimSpace(s.cfg.TwilioFrom)
	if s.cfg.WhatsApp {
		entry.Channel = "whatsapp"
		to, from = "whatsapp:"+to, "whatsapp:"+from
	}
	if s.sender == nil || strings.TrimSpace(s.cfg.Recipient) == "" {
		entry.Status = StatusSkipped
		entry.ErrorMessage = "no sender or recipient configured"
		s.logger.Warn("notice not sent", zap.String("empresa_rut", c.RUT), zap.String("reason", entry.ErrorMessage))
		return entry
	}

	sid, err := s.sender.Send(to, from, entry.Message)
	if err != nil {
		entry.Status = StatusFailed
		entry.ErrorMessage = err.Error()
		s.logger.Error("failed to send notice", zap.String("empresa_rut", c.RUT), zap.Error(err))
		return entry
	}
	entry.Status = StatusSent
	s.logger.Info("notice sent", zap.String("empresa_rut", c.RUT), zap.Int("days_overdue", days), zap.String("sid", sid))
	return entry
}
