package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment status values.
const (
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
	PaymentPending = "pending"
)

type Payment struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount          float64   `gorm:"not null" json:"amount"`
	Method          string    `gorm:"type:varchar(50);not null" json:"method"`
	Provider        string    `gorm:"type:varchar(50)" json:"provider,omitempty"`
	Status          string    `gorm:"type:varchar(20);not null" json:"status"`
	TransactionID   string    `gorm:"type:varchar(128);uniqueIndex" json:"transaction_id"`
	StripePaymentID *string   `gorm:"uniqueIndex" json:"stripe_payment_id,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RecordPaymentRequest records a gateway outcome against an order.
type RecordPaymentRequest struct {
	OrderID       string  `json:"order_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Method        string  `json:"method" binding:"required"`
	Provider      string  `json:"provider"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id"`
}

// CreateIntentRequest asks the gateway for a new payment intent.
type CreateIntentRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	Currency string `json:"currency"`
}

// PaymentStats summarizes processed payments.
type PaymentStats struct {
	TotalTransactions      int            `json:"total_transactions"`
	SuccessfulTransactions int            `json:"successful_transactions"`
	TotalAmount            float64        `json:"total_amount"`
	MethodBreakdown        map[string]int `json:"method_breakdown"`
	SuccessRatePct         float64        `json:"success_rate_pct"`
}
