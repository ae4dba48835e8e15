package models

// WalletType represents the kind of wallet holding the money
type WalletType string

const (
	WalletTypeCash    WalletType = "cash"
	WalletTypeBank    WalletType = "bank"
	WalletTypeEwallet WalletType = "ewallet"
)

// Wallet represents a source of funds owned by a user. Balance is stored in
// minor currency units and must always equal the sum of signed amounts of all
// live transactions referencing this wallet.
type Wallet struct {
	Base
	UserID  string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string     `gorm:"not null" json:"name"`
	Type    WalletType `gorm:"not null" json:"type"`
	Balance int64      `gorm:"type:bigint;not null;default:0" json:"balance"`
	Icon    string     `json:"icon"`
	Color   string     `json:"color"`

	Transactions []Transaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}
