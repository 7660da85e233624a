package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loyalty tier labels, ordered by spend.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

type Customer struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone          string     `gorm:"type:varchar(32)" json:"phone,omitempty"`
	TotalSpent     float64    `gorm:"not null;default:0" json:"total_spent"`
	TotalPurchases int        `gorm:"not null;default:0" json:"total_purchases"`
	LoyaltyPoints  int        `gorm:"not null;default:0" json:"loyalty_points"`
	Tier           string     `gorm:"type:varchar(20);not null;default:'Bronze'" json:"tier"`
	RegisteredAt   time.Time  `json:"registered_at"`
	LastPurchase   *time.Time `json:"last_purchase,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Feedback       []Feedback     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"feedback"`
}

type Feedback struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Rating     int       `gorm:"not null" json:"rating"` // 1-5
	Comment    string    `gorm:"type:varchar(1024)" json:"comment,omitempty"`
	Date       time.Time `json:"date"`
}

// RegisterCustomerRequest creates a new customer profile.
type RegisterCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// UpdateCustomerRequest updates mutable profile fields.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// AddFeedbackRequest attaches a rating and comment to a customer.
type AddFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RedeemPointsRequest spends loyalty points.
type RedeemPointsRequest struct {
	Points int `json:"points" binding:"required,min=1"`
}

// CustomerAnalytics is the CRM summary view.
type CustomerAnalytics struct {
	TotalCustomers    int            `json:"total_customers"`
	TierDistribution  map[string]int `json:"tier_distribution"`
	AverageSpent      float64        `json:"average_spent"`
	TotalRevenue      float64        `json:"total_revenue"`
	AvgFeedbackRating float64        `json:"avg_feedback_rating"`
}

// ChurnRiskSummary is the quick per-customer recency check used by the
// CRM view; the full churn model lives in the analytics package.
type ChurnRiskSummary struct {
	CustomerID            uuid.UUID `json:"customer_id"`
	Name                  string    `json:"name"`
	RiskLevel             string    `json:"risk_level"`
	DaysSinceLastPurchase int       `json:"days_since_last_purchase"`
	Recommendation        string    `json:"recommendation"`
}
