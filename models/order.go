package models

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentMethodKhalti PaymentMethod = "khalti"
	PaymentMethodCOD    PaymentMethod = "cod"
)

// OrderStatuses lists the valid statuses in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// ShippingCost is the flat per-order shipping fee.
var ShippingCost = decimal.NewFromInt(5)

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	OrderNumber string `gorm:"uniqueIndex;size:20;not null" json:"order_number"`

	// Billing snapshot taken at checkout time.
	FullName    string `gorm:"size:200" json:"full_name"`
	Email       string `gorm:"size:254" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	AddressLine string `json:"address_line"`
	City        string `gorm:"size:100" json:"city"`
	PostalCode  string `gorm:"size:20" json:"postal_code"`

	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ShippingCost    decimal.Decimal `gorm:"type:decimal(10,2)" json:"shipping_cost"`
	PaymentMethod   PaymentMethod   `gorm:"type:VARCHAR(20);not null" json:"payment_method"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentVerified bool            `json:"payment_verified"`

	// Gateway identifiers, empty for cash-on-delivery orders.
	GatewayPidx          string `gorm:"size:100;index" json:"gateway_pidx,omitempty"`
	GatewayTransactionID string `gorm:"size:100" json:"gateway_transaction_id,omitempty"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem snapshots the unit price at purchase time, decoupled from the
// live product price.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index" json:"order_id"`
	ProductID uint            `json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Size      string          `gorm:"size:10" json:"size"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

const orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber returns an "ORD-XXXXXXXXX" reference with nine random
// characters from [A-Z0-9], retrying on the (unlikely) collision.
func NewOrderNumber(db *gorm.DB) (string, error) {
	for {
		buf := make([]byte, 9)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberCharset))))
			if err != nil {
				return "", err
			}
			buf[i] = orderNumberCharset[n.Int64()]
		}
		number := "ORD-" + string(buf)

		var count int64
		if err := db.Model(&Order{}).Where("order_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
}
