package models

import "time"

// Events published to Kafka (and mirrored to SNS best-effort) when
// orders and payments change state. Consumers are external.

type OrderPlacedEvent struct {
	EventType     string    `json:"event_type"` // "order.placed"
	OrderID       string    `json:"order_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    string    `json:"customer_id"`
	StoreID       string    `json:"store_id"`
	GrandTotal    float64   `json:"grand_total"`
	Timestamp     time.Time `json:"timestamp"`
}

type OrderShippedEvent struct {
	EventType      string    `json:"event_type"` // "order.shipped"
	OrderID        string    `json:"order_id"`
	DeliveryTaskID string    `json:"delivery_task_id"`
	AgentID        string    `json:"agent_id"`
	Zone           string    `json:"zone"`
	Timestamp      time.Time `json:"timestamp"`
}

type OrderCancelledEvent struct {
	EventType string    `json:"event_type"` // "order.cancelled"
	OrderID   string    `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
}

type PaymentRecordedEvent struct {
	EventType     string    `json:"event_type"` // "payment.recorded"
	PaymentID     string    `json:"payment_id"`
	OrderID       string    `json:"order_id"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}
