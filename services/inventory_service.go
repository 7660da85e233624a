package services

import (
	"context"
	"errors"
	"time"

	"retail-service/models"
	"retail-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultWriteTimeout bounds every persistence write so a hung
// connection cannot stall a request indefinitely.
const defaultWriteTimeout = 5 * time.Second

// InventoryService holds the business logic for items, stores and
// stock transfers.
type InventoryService interface {
	AddItem(ctx context.Context, req *models.AddInventoryRequest) (*models.InventoryItem, *ServiceError)
	UpdateItem(ctx context.Context, id uuid.UUID, req *models.UpdateInventoryRequest) (*models.InventoryItem, *ServiceError)
	DeleteItem(ctx context.Context, id uuid.UUID) *ServiceError
	ListItems(ctx context.Context) ([]models.InventoryItem, *ServiceError)
	ItemsByStore(ctx context.Context, storeID uuid.UUID) ([]models.InventoryItem, *ServiceError)
	UpdateStock(ctx context.Context, id uuid.UUID, quantity int) (*models.InventoryItem, *ServiceError)
	TransferStock(ctx context.Context, req *models.TransferStockRequest) *ServiceError
	StockAlerts(ctx context.Context) ([]models.InventoryItem, *ServiceError)
	TotalInventoryValue(ctx context.Context) (float64, *ServiceError)
	ListTransfers(ctx context.Context) ([]models.StockTransfer, *ServiceError)

	AddStore(ctx context.Context, req *models.AddStoreRequest) (*models.Store, *ServiceError)
	ListStores(ctx context.Context) ([]models.Store, *ServiceError)
	DeleteStore(ctx context.Context, id uuid.UUID) *ServiceError
}

type inventoryService struct {
	repo         repository.InventoryRepository
	storeRepo    repository.StoreRepository
	cache        *SnapshotCache
	logger       *zap.Logger
	writeTimeout time.Duration
}

func NewInventoryService(repo repository.InventoryRepository, storeRepo repository.StoreRepository, cache *SnapshotCache, logger *zap.Logger) InventoryService {
	return &inventoryService{
		repo:         repo,
		storeRepo:    storeRepo,
		cache:        cache,
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
	}
}

func (s *inventoryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, CollectionInventory)
	}
}

func (s *inventoryService) AddItem(ctx context.Context, req *models.AddInventoryRequest) (*models.InventoryItem, *ServiceError) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid store ID format"}
	}
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Store not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to look up store"}
	}

	item := &models.InventoryItem{
		SKU:          req.SKU,
		ProductName:  req.ProductName,
		Category:     req.Category,
		StoreID:      storeID,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
		Price:        req.Price,
		Cost:         req.Cost,
		Supplier:     req.Supplier,
	}
	if item.MinThreshold == 0 {
		item.MinThreshold = 10
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Create(wctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			return nil, &ServiceError{StatusCode: 409, Message: "SKU already exists for this store"}
		}
		s.logger.Error("Failed to create inventory item", zap.String("sku", req.SKU), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create inventory item"}
	}

	s.invalidate(ctx)
	return item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id uuid.UUID, req *models.UpdateInventoryRequest) (*models.InventoryItem, *ServiceError) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Inventory item not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch inventory item"}
	}

	if req.ProductName != nil {
		item.ProductName = *req.ProductName
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.MinThreshold != nil {
		item.MinThreshold = *req.MinThreshold
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Supplier != nil {
		item.Supplier = *req.Supplier
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Update(wctx, item); err != nil {
		s.logger.Error("Failed to update inventory item", zap.String("id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update inventory item"}
	}

	s.invalidate(ctx)
	return item, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id uuid.UUID) *ServiceError {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Inventory item not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to fetch inventory item"}
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Delete(wctx, id); err != nil {
		s.logger.Error("Failed to delete inventory item", zap.String("id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete inventory item"}
	}

	s.invalidate(ctx)
	return nil
}

func (s *inventoryService) ListItems(ctx context.Context) ([]models.InventoryItem, *ServiceError) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch inventory"}
	}
	return items, nil
}

func (s *inventoryService) ItemsByStore(ctx context.Context, storeID uuid.UUID) ([]models.InventoryItem, *ServiceError) {
	items, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch inventory"}
	}
	return items, nil
}

func (s *inventoryService) UpdateStock(ctx context.Context, id uuid.UUID, quantity int) (*models.InventoryItem, *ServiceError) {
	if quantity < 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Quantity cannot be negative"}
	}
	return s.UpdateItem(ctx, id, &models.UpdateInventoryRequest{Quantity: &quantity})
}

// TransferStock moves quantity of a SKU between stores, creating the
// destination item when it doesn't exist yet, and records the transfer.
func (s *inventoryService) TransferStock(ctx context.Context, req *models.TransferStockRequest) *ServiceError {
	fromStoreID, err := uuid.Parse(req.FromStoreID)
	if err != nil {
		return &ServiceError{StatusCode: 400, Message: "Invalid source store ID"}
	}
	toStoreID, err := uuid.Parse(req.ToStoreID)
	if err != nil {
		return &ServiceError{StatusCode: 400, Message: "Invalid destination store ID"}
	}
	if fromStoreID == toStoreID {
		return &ServiceError{StatusCode: 400, Message: "Source and destination stores must differ"}
	}

	fromItem, err := s.repo.FindBySKUAndStore(ctx, req.SKU, fromStoreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: 404, Message: "SKU not found at source store"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to fetch source item"}
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	if err := s.repo.AdjustStock(wctx, fromItem.ID, -req.Quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return &ServiceError{StatusCode: 400, Message: "Insufficient stock"}
		case errors.Is(err, repository.ErrNotFound):
			return &ServiceError{StatusCode: 404, Message: "SKU not found at source store"}
		}
		s.logger.Error("Stock transfer failed updating source", zap.String("sku", req.SKU), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update source stock"}
	}

	toItem, err := s.repo.FindBySKUAndStore(ctx, req.SKU, toStoreID)
	switch {
	case err == nil:
		if err := s.repo.AdjustStock(wctx, toItem.ID, req.Quantity); err != nil {
			s.logger.Error("Stock transfer failed updating destination", zap.String("sku", req.SKU), zap.Error(err))
			return &ServiceError{StatusCode: 500, Message: "Failed to update destination stock"}
		}
	case errors.Is(err, repository.ErrNotFound):
		newItem := &models.InventoryItem{
			SKU:          fromItem.SKU,
			ProductName:  fromItem.ProductName,
			Category:     fromItem.Category,
			StoreID:      toStoreID,
			Quantity:     req.Quantity,
			MinThreshold: fromItem.MinThreshold,
			Price:        fromItem.Price,
			Cost:         fromItem.Cost,
			Supplier:     fromItem.Supplier,
		}
		if err := s.repo.Create(wctx, newItem); err != nil {
			s.logger.Error("Stock transfer failed creating destination item", zap.String("sku", req.SKU), zap.Error(err))
			return &ServiceError{StatusCode: 500, Message: "Failed to create destination item"}
		}
	default:
		return &ServiceError{StatusCode: 500, Message: "Failed to fetch destination item"}
	}

	transfer := &models.StockTransfer{
		FromStoreID: fromStoreID,
		ToStoreID:   toStoreID,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
	}
	if err := s.repo.CreateTransfer(wctx, transfer); err != nil {
		s.logger.Warn("Failed to record stock transfer", zap.String("sku", req.SKU), zap.Error(err))
	}

	s.invalidate(ctx)
	return nil
}

// StockAlerts lists items at or below their minimum threshold.
func (s *inventoryService) StockAlerts(ctx context.Context) ([]models.InventoryItem, *ServiceError) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch inventory"}
	}

	alerts := make([]models.InventoryItem, 0)
	for _, item := range items {
		if item.Quantity <= item.MinThreshold {
			alerts = append(alerts, item)
		}
	}
	return alerts, nil
}

func (s *inventoryService) TotalInventoryValue(ctx context.Context) (float64, *ServiceError) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch inventory"}
	}

	total := 0.0
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return total, nil
}

func (s *inventoryService) ListTransfers(ctx context.Context) ([]models.StockTransfer, *ServiceError) {
	transfers, err := s.repo.FindTransfers(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch transfers"}
	}
	return transfers, nil
}

func (s *inventoryService) AddStore(ctx context.Context, req *models.AddStoreRequest) (*models.Store, *ServiceError) {
	store := &models.Store{
		Name:          req.Name,
		Location:      req.Location,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Manager:       req.Manager,
	}
	if store.Manager == "" {
		store.Manager = req.ContactPerson
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.storeRepo.Create(wctx, store); err != nil {
		s.logger.Error("Failed to create store", zap.String("name", req.Name), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create store"}
	}
	return store, nil
}

func (s *inventoryService) ListStores(ctx context.Context) ([]models.Store, *ServiceError) {
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch stores"}
	}
	return stores, nil
}

// DeleteStore refuses to remove a store that still holds inventory.
func (s *inventoryService) DeleteStore(ctx context.Context, id uuid.UUID) *ServiceError {
	count, err := s.repo.CountByStore(ctx, id)
	if err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to check store inventory"}
	}
	if count > 0 {
		return &ServiceError{StatusCode: 409, Message: "Cannot delete store with inventory. Transfer items first."}
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.storeRepo.Delete(wctx, id); err != nil {
		s.logger.Error("Failed to delete store", zap.String("id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete store"}
	}
	return nil
}
