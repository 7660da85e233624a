package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery task status values.
const (
	DeliveryStatusAssigned  = "assigned"
	DeliveryStatusInTransit = "in-transit"
	DeliveryStatusDelivered = "delivered"
)

type DeliveryAgent struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone            string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Zone             string    `gorm:"type:varchar(100)" json:"zone"`
	ActiveDeliveries int       `gorm:"not null;default:0" json:"active_deliveries"`
	TotalDeliveries  int       `gorm:"not null;default:0" json:"total_deliveries"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type DeliveryTask struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	CustomerName      string     `gorm:"type:varchar(255)" json:"customer_name"`
	Address           string     `gorm:"type:varchar(512)" json:"address"`
	Zone              string     `gorm:"type:varchar(100)" json:"zone"`
	AgentID           uuid.UUID  `gorm:"type:uuid;index" json:"agent_id"`
	AgentName         string     `gorm:"type:varchar(255)" json:"agent_name"`
	Status            string     `gorm:"type:varchar(20);not null;default:'assigned'" json:"status"`
	AssignedAt        time.Time  `json:"assigned_at"`
	EstimatedDelivery time.Time  `json:"estimated_delivery"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// AddAgentRequest registers a new delivery agent.
type AddAgentRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Zone  string `json:"zone" binding:"required"`
}

// UpdateAgentRequest edits an agent's contact details or zone.
type UpdateAgentRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Zone  *string `json:"zone"`
}

// UpdateDeliveryStatusRequest advances a delivery task.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=assigned in-transit delivered"`
}

// ReassignDeliveryRequest hands a task to a different agent.
type ReassignDeliveryRequest struct {
	AgentID string `json:"agent_id" binding:"required"`
}

// DeliveryAnalytics summarizes logistics load.
type DeliveryAnalytics struct {
	ByZone   map[string]int       `json:"by_zone"`
	ByStatus map[string]int       `json:"by_status"`
	ByAgent  []AgentDeliveryStats `json:"by_agent"`
}

type AgentDeliveryStats struct {
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Active int    `json:"active"`
}

// AgentPerformance is the per-agent completion view.
type AgentPerformance struct {
	Agent                *DeliveryAgent `json:"agent"`
	TotalDeliveries      int            `json:"total_deliveries"`
	CompletedDeliveries  int            `json:"completed_deliveries"`
	ActiveDeliveries     int            `json:"active_deliveries"`
	CompletionRatePct    float64        `json:"completion_rate_pct"`
}
