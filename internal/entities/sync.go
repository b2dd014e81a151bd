package entities

import (
	"time"
)

// User is a KOReader sync account. The password key the device sends is
// stored bcrypt-hashed, never verbatim.
type User struct {
	Username     string    `gorm:"primaryKey;size:255" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// ProgressRecord is the reading position a device reported for one
// document. One record per (user, document); later reports overwrite
// earlier ones.
type ProgressRecord struct {
	User       string  `gorm:"primaryKey;size:255" json:"user"`
	Document   string  `gorm:"primaryKey;size:255" json:"document"`
	Percentage float64 `json:"percentage"`
	Progress   string  `gorm:"size:512" json:"progress"`
	Device     string  `gorm:"size:255" json:"device"`
	DeviceID   string  `gorm:"size:255" json:"device_id"`
	Timestamp  int64   `json:"timestamp"`
}

func (ProgressRecord) TableName() string {
	return "sync_records"
}
