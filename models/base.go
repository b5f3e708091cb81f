package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenanted is implemented by every record that belongs to one company. Each model declares
// its own empresa_rut column so it can lead that table's composite unique index.
type Tenanted interface {
	GetID() uuid.UUID
	SetID(uuid.UUID)
	GetTenant() string
	SetTenant(string)
}

// Base carries the id and timestamps shared by every table
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"creadoEn"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}

func (b *Base) GetID() uuid.UUID   { return b.ID }
func (b *Base) SetID(id uuid.UUID) { b.ID = id }

// Initialize UUID before creating
func (b *Base) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
