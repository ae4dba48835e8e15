package models

import "time"

// ReminderFrequency represents how often a recurring reminder repeats
type ReminderFrequency string

const (
	ReminderFrequencyDaily   ReminderFrequency = "daily"
	ReminderFrequencyWeekly  ReminderFrequency = "weekly"
	ReminderFrequencyMonthly ReminderFrequency = "monthly"
	ReminderFrequencyYearly  ReminderFrequency = "yearly"
)

// Reminder represents a bill reminder. Paying a recurring reminder keeps the
// paid instance as history and spawns a fresh pending instance due one
// frequency unit later.
type Reminder struct {
	Base
	UserID      string             `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string             `gorm:"not null" json:"title"`
	Amount      int64              `gorm:"type:bigint;not null" json:"amount"`
	CategoryID  *string            `gorm:"type:uuid" json:"category_id,omitempty"`
	WalletID    *string            `gorm:"type:uuid" json:"wallet_id,omitempty"`
	DueDate     time.Time          `gorm:"not null;index" json:"due_date"`
	IsRecurring bool               `gorm:"default:false" json:"is_recurring"`
	Frequency   *ReminderFrequency `json:"frequency,omitempty"`
	IsPaid      bool               `gorm:"default:false" json:"is_paid"`
	PaidAt      *time.Time         `json:"paid_at,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Wallet   *Wallet   `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
}
