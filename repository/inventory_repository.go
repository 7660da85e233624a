package repository

import (
	"context"
	"errors"
	"time"

	"retail-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateSKU      = errors.New("sku already exists for this store")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InventoryRepository defines data access for inventory items, stores
// and stock transfers.
type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	FindAll(ctx context.Context) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.InventoryItem, error)
	FindBySKUAndStore(ctx context.Context, sku string, storeID uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
	CreateTransfer(ctx context.Context, transfer *models.StockTransfer) error
	FindTransfers(ctx context.Context) ([]models.StockTransfer, error)
}

// GormInventoryRepository implements InventoryRepository using GORM.
type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) InventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Create inserts an item, enforcing the one-SKU-per-store invariant.
func (r *GormInventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("sku = ? AND store_id = ?", item.SKU, item.StoreID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateSKU
	}
	item.LastUpdated = time.Now()
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormInventoryRepository) FindAll(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormInventoryRepository) FindBySKUAndStore(ctx context.Context, sku string, storeID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("sku = ? AND store_id = ?", sku, storeID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	item.LastUpdated = time.Now()
	return r.db.WithContext(ctx).Save(item).Error
}

// AdjustStock applies a relative quantity change in a single
// conditional update, refusing to drive the quantity negative.
func (r *GormInventoryRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", delta),
			"last_updated": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *GormInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id).Error
}

func (r *GormInventoryRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

func (r *GormInventoryRepository) CreateTransfer(ctx context.Context, transfer *models.StockTransfer) error {
	transfer.TransferredAt = time.Now()
	return r.db.WithContext(ctx).Create(transfer).Error
}

func (r *GormInventoryRepository) FindTransfers(ctx context.Context) ([]models.StockTransfer, error) {
	var transfers []models.StockTransfer
	if err := r.db.WithContext(ctx).Order("transferred_at DESC").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
