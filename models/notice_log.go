package models

import "time"

// NoticeLog records every overdue-rent notice the scheduler tried to send
type NoticeLog struct {
	Base
	EmpresaRUT   string    `gorm:"column:empresa_rut;type:varchar(12);index;not null" json:"empresaRUT"`
	DaysOverdue  int       `json:"diasAtraso"`
	Message      string    `gorm:"type:text" json:"mensaje"`
	Status       string    `gorm:"type:varchar(20)" json:"estado"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"error,omitempty"`
	Channel      string    `gorm:"type:varchar(20)" json:"canal"` // whatsapp, sms
	SentAt       time.Time `json:"enviadoEn"`
}

func (NoticeLog) TableName() string { return "avisos" }
