package domain

import "time"

// Order statuses. An order starts at pending; later transitions happen
// through fulfillment endpoints, never at creation.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCOD        = "cod"
	PaymentMethodCard       = "card"
	PaymentMethodUPI        = "upi"
	PaymentMethodNetbanking = "netbanking"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetbanking:
		return true
	}
	return false
}

// Order is the aggregate root: header plus immutable items, created
// atomically. Address references are nullable and non-cascading so the
// order stays a valid historical record after address edits or deletes.
// Invariant: Total == Subtotal + ShippingCost + Tax - Discount.
type Order struct {
	ID                int64     `json:"id,string" form:"id"`
	UserID            int64     `gorm:"index;not null" json:"user_id,string" form:"user_id"`
	OrderNumber       string    `gorm:"uniqueIndex;size:20" json:"order_number" form:"order_number"`
	ShippingAddressID *int64    `json:"shipping_address_id,string" form:"shipping_address_id"`
	BillingAddressID  *int64    `json:"billing_address_id,string" form:"billing_address_id"`
	Status            string    `gorm:"size:20;index;default:'pending'" json:"status" form:"status"`
	PaymentStatus     string    `gorm:"size:20;index;default:'pending'" json:"payment_status" form:"payment_status"`
	PaymentMethod     string    `gorm:"size:20" json:"payment_method" form:"payment_method"`
	Subtotal          float64   `gorm:"not null" json:"subtotal" form:"subtotal"`
	ShippingCost      float64   `gorm:"default:0" json:"shipping_cost" form:"shipping_cost"`
	Tax               float64   `gorm:"default:0" json:"tax" form:"tax"`
	Discount          float64   `gorm:"default:0" json:"discount" form:"discount"`
	Total             float64   `gorm:"not null" json:"total" form:"total"`
	Notes             string    `gorm:"type:text" json:"notes" form:"notes"`
	TrackingNumber    string    `gorm:"size:100" json:"tracking_number" form:"tracking_number"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product price and its owning vendor at order
// time, so line totals and vendor attribution survive later catalog
// changes. Items are created only as part of order creation and never
// mutated afterwards.
type OrderItem struct {
	ID        int64     `json:"id,string" form:"id"`
	OrderID   int64     `gorm:"index;not null" json:"order_id,string" form:"order_id"`
	ProductID int64     `gorm:"index;not null" json:"product_id,string" form:"product_id"`
	VendorID  int64     `gorm:"index;not null" json:"vendor_id,string" form:"vendor_id"`
	Quantity  int       `gorm:"not null" json:"quantity" form:"quantity"`
	Price     float64   `gorm:"not null" json:"price" form:"price"`
	Total     float64   `gorm:"not null" json:"total" form:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_item"
}

// Payment is a passive audit record attached to an order; it is written
// by the payment endpoints and never read back into total computation.
type Payment struct {
	ID            int64     `json:"id,string" form:"id"`
	OrderID       int64     `gorm:"index;not null" json:"order_id,string" form:"order_id"`
	PaymentID     string    `gorm:"uniqueIndex;size:100" json:"payment_id" form:"payment_id"`
	Amount        float64   `gorm:"not null" json:"amount" form:"amount"`
	Status        string    `gorm:"size:20" json:"status" form:"status"`
	PaymentMethod string    `gorm:"size:20" json:"payment_method" form:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName Specify table name
func (Payment) TableName() string {
	return "order_payment"
}
