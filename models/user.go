package models

import "time"

// User is a platform account (administrators and accountants). Emails are unique
// across the platform.
type User struct {
	Base
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Name      string     `gorm:"column:nombre" json:"nombre"`
	Role      string     `gorm:"type:varchar(20);not null" json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	IsActive  bool       `gorm:"not null" json:"activo"`
}

func (User) TableName() string { return "usuarios" }
