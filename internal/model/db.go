package model

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
	OrderCompleted  OrderStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Terminal reports whether the payment has settled. A terminal payment is
// never mutated again; late webhook retries and verify polls are no-ops.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:128;not null"`
	Category    string  `gorm:"size:64;index;not null"`
	Price       float64 `gorm:"not null"`
	DiscountPct float64 `gorm:"not null;default:0"` // percentage, 0-100
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Cart struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:64;uniqueIndex;not null"`
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"`
	CartID    uint `gorm:"uniqueIndex:idx_cart_product;not null"`
	ProductID uint `gorm:"uniqueIndex:idx_cart_product;not null"`
	Quantity  int  `gorm:"not null"`
	Product   Product
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID         uint        `gorm:"primaryKey"`
	UserID     string      `gorm:"size:64;index;not null"`
	Status     OrderStatus `gorm:"size:32;index;not null"`
	Subtotal   float64     `gorm:"not null"`
	Discount   float64     `gorm:"not null"`
	VAT        float64     `gorm:"not null"`
	Total      float64     `gorm:"not null"`
	ShareToken *string     `gorm:"size:64;uniqueIndex"`
	Items      []OrderItem
	Billing    *BillingAddress
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem snapshots the product price at order time. Catalog price
// changes never touch rows that already exist.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Quantity  int     `gorm:"not null"`
	Price     float64 `gorm:"not null"`
	CreatedAt time.Time
}

type BillingAddress struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   uint   `gorm:"uniqueIndex;not null"`
	UserID    string `gorm:"size:64;index;not null"`
	FullName  string `gorm:"size:128;not null"`
	LastName  string `gorm:"size:128;not null"`
	Company   string `gorm:"size:128"`
	Country   string `gorm:"size:64;not null"`
	State     string `gorm:"size:64;not null"`
	Zip       string `gorm:"size:16;not null"`
	Phone     string `gorm:"size:32;not null"`
	Email     string `gorm:"size:128;not null"`
	Address   string `gorm:"size:256;not null"`
	Note      string `gorm:"size:512"`
	CreatedAt time.Time
}

// Payment is the ledger record for one checkout attempt. One active row per
// order: re-initiation upserts on order_id. Reference is the gateway's
// transaction reference and is what webhooks and verify polls key on.
type Payment struct {
	ID        uint          `gorm:"primaryKey"`
	OrderID   uint          `gorm:"uniqueIndex;not null"`
	Reference string        `gorm:"size:128;uniqueIndex;not null"`
	Amount    float64       `gorm:"not null"`
	Email     string        `gorm:"size:128;not null"`
	Status    PaymentStatus `gorm:"size:32;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
