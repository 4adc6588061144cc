package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "pending"
	CheckoutStatusCompleted CheckoutStatus = "completed"
	CheckoutStatusFailed    CheckoutStatus = "failed"
)

// CheckoutSession is the short-lived workflow record for a gateway payment
// in flight. It carries the billing snapshot and the buy-now pointer between
// the initiation request and the gateway callback, and its completed state is
// the idempotency guard against the callback firing twice.
type CheckoutSession struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Token  string `gorm:"uniqueIndex;size:40;not null" json:"token"`
	UserID uint   `gorm:"index;not null" json:"user_id"`

	// Nil means the whole cart is being checked out.
	BuyNowItemID *uint `json:"buy_now_item_id,omitempty"`

	FullName    string `gorm:"size:200" json:"full_name"`
	Email       string `gorm:"size:254" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	AddressLine string `json:"address_line"`
	City        string `gorm:"size:100" json:"city"`
	PostalCode  string `gorm:"size:20" json:"postal_code"`

	Amount          decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	PurchaseOrderID string          `gorm:"size:20" json:"purchase_order_id"`
	GatewayPidx     string          `gorm:"uniqueIndex;size:100" json:"gateway_pidx"`
	Status          CheckoutStatus  `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	OrderID         *uint           `json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
