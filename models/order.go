package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status values. Transitions are monotonic:
// placed -> shipped -> delivered, with cancellation allowed from
// placed or shipped only.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment status values for an order.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// TaxRate is applied on top of the order subtotal to produce the grand total.
const TaxRate = 0.1

type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber   string    `gorm:"uniqueIndex;not null" json:"invoice_number"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName    string    `gorm:"type:varchar(255)" json:"customer_name"`
	StoreID         uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	TotalAmount     float64   `gorm:"not null" json:"total_amount"`
	GrandTotal      float64   `gorm:"not null" json:"grand_total"` // total + tax
	Status          string    `gorm:"type:varchar(20);not null;default:'placed'" json:"status"`
	PaymentStatus   string    `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod   string    `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	ShippingAddress string    `gorm:"type:varchar(512)" json:"shipping_address"`
	ShippedAt       *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	SKU         string    `gorm:"type:varchar(64);not null" json:"sku"`
	ProductName string    `gorm:"type:varchar(255)" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       float64   `gorm:"not null" json:"price"`
}

// CreateOrderRequest is the payload for placing a new order.
type CreateOrderRequest struct {
	CustomerID      string             `json:"customer_id" binding:"required"`
	StoreID         string             `json:"store_id" binding:"required"`
	ShippingAddress string             `json:"shipping_address"`
	Items           []OrderItemRequest `json:"items" binding:"required,dive"`
}

type OrderItemRequest struct {
	SKU         string  `json:"sku" binding:"required"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"gte=0"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=shipped delivered"`
}

// OrderListResponse wraps a paginated order listing.
type OrderListResponse struct {
	Orders []Order  `json:"orders"`
	Meta   MetaData `json:"meta"`
}

// MetaData carries pagination info on list responses.
type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}
