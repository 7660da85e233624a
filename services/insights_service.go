package services

import (
	"context"
	"errors"
	"time"

	"retail-service/analytics"
	"retail-service/models"
	"retail-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InsightsService feeds the heuristic analytics package from cached
// collection snapshots.
type InsightsService interface {
	SalesPredictions(ctx context.Context) ([]analytics.SalesPrediction, *ServiceError)
	TopSellers(ctx context.Context) ([]analytics.TopSeller, *ServiceError)
	DemandForecast(ctx context.Context, itemID uuid.UUID, days int) ([]analytics.DemandForecastPoint, *ServiceError)
	RevenueSpikes(ctx context.Context) ([]analytics.RevenueSpike, *ServiceError)
	StockProjection(ctx context.Context, itemID uuid.UUID, horizon int) ([]analytics.StockProjection, *ServiceError)
	PricingRecommendation(ctx context.Context, itemID uuid.UUID) (*analytics.PricingRecommendation, *ServiceError)
	RestockPlan(ctx context.Context) ([]analytics.RestockRecommendation, *ServiceError)
	ChurnPredictions(ctx context.Context) ([]analytics.ChurnPrediction, *ServiceError)
	CustomerValue(ctx context.Context) ([]analytics.CustomerValue, *ServiceError)
	OffersForCustomer(ctx context.Context, customerID uuid.UUID) ([]analytics.Offer, *ServiceError)
}

type insightsService struct {
	inventoryRepo repository.InventoryRepository
	orderRepo     repository.OrderRepository
	customerRepo  repository.CustomerRepository
	cache         *SnapshotCache
	logger        *zap.Logger
	now           func() time.Time
}

func NewInsightsService(
	inventoryRepo repository.InventoryRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	cache *SnapshotCache,
	logger *zap.Logger,
) InsightsService {
	return &insightsService{
		inventoryRepo: inventoryRepo,
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		cache:         cache,
		logger:        logger,
		now:           time.Now,
	}
}

// loadOrders serves the order snapshot from cache, falling back to the
// repository and memoizing on a miss.
func (s *insightsService) loadOrders(ctx context.Context) ([]models.Order, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(CollectionOrders); ok {
			if orders, ok := snap.([]models.Order); ok {
				return orders, nil
			}
		}
	}
	orders, err := s.orderRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(CollectionOrders, orders)
	}
	return orders, nil
}

func (s *insightsService) loadInventory(ctx context.Context) ([]models.InventoryItem, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(CollectionInventory); ok {
			if items, ok := snap.([]models.InventoryItem); ok {
				return items, nil
			}
		}
	}
	items, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(CollectionInventory, items)
	}
	return items, nil
}

func (s *insightsService) loadCustomers(ctx context.Context) ([]models.Customer, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(CollectionCustomers); ok {
			if customers, ok := snap.([]models.Customer); ok {
				return customers, nil
			}
		}
	}
	customers, err := s.customerRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(CollectionCustomers, customers)
	}
	return customers, nil
}

func (s *insightsService) SalesPredictions(ctx context.Context) ([]analytics.SalesPrediction, *ServiceError) {
	items, err := s.loadInventory(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load inventory"}
	}
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}

	sales := analytics.AggregateHistoricalSales(orders)
	now := s.now()
	predictions := make([]analytics.SalesPrediction, 0, len(items))
	for _, item := range items {
		predictions = append(predictions, analytics.PredictSales(item, sales, orders, now))
	}
	return predictions, nil
}

func (s *insightsService) TopSellers(ctx context.Context) ([]analytics.TopSeller, *ServiceError) {
	items, err := s.loadInventory(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load inventory"}
	}
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}
	return analytics.RankTopSellers(items, orders), nil
}

func (s *insightsService) findItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, *ServiceError) {
	item, err := s.inventoryRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Inventory item not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch inventory item"}
	}
	return item, nil
}

func (s *insightsService) DemandForecast(ctx context.Context, itemID uuid.UUID, days int) ([]analytics.DemandForecastPoint, *ServiceError) {
	if days < 1 || days > 90 {
		days = 30
	}
	item, svcErr := s.findItem(ctx, itemID)
	if svcErr != nil {
		return nil, svcErr
	}
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}
	return analytics.ForecastDemand(*item, days, orders, s.now()), nil
}

func (s *insightsService) RevenueSpikes(ctx context.Context) ([]analytics.RevenueSpike, *ServiceError) {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}
	return analytics.PredictRevenueSpikes(orders, s.now()), nil
}

func (s *insightsService) StockProjection(ctx context.Context, itemID uuid.UUID, horizon int) ([]analytics.StockProjection, *ServiceError) {
	if horizon < 1 || horizon > 90 {
		horizon = 14
	}
	item, svcErr := s.findItem(ctx, itemID)
	if svcErr != nil {
		return nil, svcErr
	}
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}

	sales := analytics.AggregateHistoricalSales(orders)
	now := s.now()
	prediction := analytics.PredictSales(*item, sales, orders, now)
	return analytics.ProjectStockLevels(*item, horizon, int(prediction.PredictedSales), now), nil
}

func (s *insightsService) PricingRecommendation(ctx context.Context, itemID uuid.UUID) (*analytics.PricingRecommendation, *ServiceError) {
	item, svcErr := s.findItem(ctx, itemID)
	if svcErr != nil {
		return nil, svcErr
	}
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}

	forecast := analytics.ForecastDemand(*item, 30, orders, s.now())
	rec := analytics.OptimizePricing(*item, forecast)
	return &rec, nil
}

func (s *insightsService) RestockPlan(ctx context.Context) ([]analytics.RestockRecommendation, *ServiceError) {
	items, err := s.loadInventory(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load inventory"}
	}
	predictions, svcErr := s.SalesPredictions(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	return analytics.OptimizeRestocking(items, predictions, s.now()), nil
}

func (s *insightsService) ChurnPredictions(ctx context.Context) ([]analytics.ChurnPrediction, *ServiceError) {
	customers, err := s.loadCustomers(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load customers"}
	}
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}

	now := s.now()
	predictions := make([]analytics.ChurnPrediction, 0, len(customers))
	for _, c := range customers {
		predictions = append(predictions, analytics.PredictChurn(c, orders, now))
	}
	return predictions, nil
}

func (s *insightsService) CustomerValue(ctx context.Context) ([]analytics.CustomerValue, *ServiceError) {
	customers, err := s.loadCustomers(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load customers"}
	}
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}
	return analytics.ClassifyCustomerValue(customers, orders), nil
}

func (s *insightsService) OffersForCustomer(ctx context.Context, customerID uuid.UUID) ([]analytics.Offer, *ServiceError) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Customer not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch customer"}
	}

	items, lerr := s.loadInventory(ctx)
	if lerr != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load inventory"}
	}
	orders, lerr := s.loadOrders(ctx)
	if lerr != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load orders"}
	}
	return analytics.PersonalizedOffers(*customer, items, orders), nil
}
