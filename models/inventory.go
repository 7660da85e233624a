package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryItem represents the stock of one product at one store.
type InventoryItem struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU          string    `gorm:"type:varchar(64);not null;index:idx_store_sku,unique" json:"sku"`
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Category     string    `gorm:"type:varchar(100)" json:"category"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;index:idx_store_sku,unique" json:"store_id"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`
	MinThreshold int       `gorm:"not null;default:10" json:"min_threshold"`
	Price        float64   `gorm:"not null;default:0" json:"price"`
	Cost         float64   `gorm:"not null;default:0" json:"cost"`
	Supplier     string    `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	LastUpdated  time.Time `json:"last_updated"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Store is a physical retail location.
type Store struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Location      string    `gorm:"type:varchar(255)" json:"location"`
	ContactPerson string    `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Manager       string    `gorm:"type:varchar(255)" json:"manager,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// StockTransfer records a movement of stock between two stores.
type StockTransfer struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FromStoreID   uuid.UUID `gorm:"type:uuid;not null;index" json:"from_store_id"`
	ToStoreID     uuid.UUID `gorm:"type:uuid;not null;index" json:"to_store_id"`
	SKU           string    `gorm:"type:varchar(64);not null" json:"sku"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	Reason        string    `gorm:"type:varchar(255)" json:"reason,omitempty"`
	TransferredAt time.Time `json:"transferred_at"`
}

// AddInventoryRequest is the payload for creating a new inventory item.
type AddInventoryRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	ProductName  string  `json:"product_name" binding:"required"`
	Category     string  `json:"category"`
	StoreID      string  `json:"store_id" binding:"required"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	MinThreshold int     `json:"min_threshold" binding:"gte=0"`
	Price        float64 `json:"price" binding:"gte=0"`
	Cost         float64 `json:"cost" binding:"gte=0"`
	Supplier     string  `json:"supplier"`
}

// UpdateInventoryRequest adjusts fields on an existing item. Pointers so
// zero values can be distinguished from "not provided".
type UpdateInventoryRequest struct {
	ProductName  *string  `json:"product_name"`
	Category     *string  `json:"category"`
	Quantity     *int     `json:"quantity" binding:"omitempty,gte=0"`
	MinThreshold *int     `json:"min_threshold" binding:"omitempty,gte=0"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	Supplier     *string  `json:"supplier"`
}

// TransferStockRequest moves quantity of a SKU between stores.
type TransferStockRequest struct {
	FromStoreID string `json:"from_store_id" binding:"required"`
	ToStoreID   string `json:"to_store_id" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Reason      string `json:"reason"`
}

// AddStoreRequest creates a new store.
type AddStoreRequest struct {
	Name          string `json:"name" binding:"required"`
	Location      string `json:"location" binding:"required"`
	ContactPerson string `json:"contact_person" binding:"required"`
	Phone         string `json:"phone"`
	Manager       string `json:"manager"`
}
