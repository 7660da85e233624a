package services

import (
	"context"
	"errors"
	"math"
	"time"

	"retail-service/analytics"
	"retail-service/models"
	"retail-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// loyaltyEarnDivisor converts paid amounts into loyalty points:
// one point per 10 currency units, floored.
const loyaltyEarnDivisor = 10

// CustomerService holds CRM business logic.
type CustomerService interface {
	Register(ctx context.Context, req *models.RegisterCustomerRequest) (*models.Customer, *ServiceError)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, *ServiceError)
	ListCustomers(ctx context.Context) ([]models.Customer, *ServiceError)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *models.UpdateCustomerRequest) (*models.Customer, *ServiceError)
	DeleteCustomer(ctx context.Context, id uuid.UUID) *ServiceError
	RecordPurchase(ctx context.Context, customerID uuid.UUID, amount float64) *ServiceError
	AddFeedback(ctx context.Context, customerID uuid.UUID, req *models.AddFeedbackRequest) (*models.Feedback, *ServiceError)
	RedeemPoints(ctx context.Context, customerID uuid.UUID, points int) (*models.Customer, *ServiceError)
	CustomersByTier(ctx context.Context, tier string) ([]models.Customer, *ServiceError)
	ChurnRisk(ctx context.Context, customerID uuid.UUID) (*models.ChurnRiskSummary, *ServiceError)
	Analytics(ctx context.Context) (*models.CustomerAnalytics, *ServiceError)
}

type customerService struct {
	repo         repository.CustomerRepository
	cache        *SnapshotCache
	logger       *zap.Logger
	writeTimeout time.Duration
	now          func() time.Time
}

func NewCustomerService(repo repository.CustomerRepository, cache *SnapshotCache, logger *zap.Logger) CustomerService {
	return &customerService{
		repo:         repo,
		cache:        cache,
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
		now:          time.Now,
	}
}

func (s *customerService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, CollectionCustomers)
	}
}

func (s *customerService) Register(ctx context.Context, req *models.RegisterCustomerRequest) (*models.Customer, *ServiceError) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, &ServiceError{StatusCode: 409, Message: "Email already registered"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to check email"}
	}

	customer := &models.Customer{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Tier:         models.TierBronze,
		RegisteredAt: s.now(),
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Create(wctx, customer); err != nil {
		s.logger.Error("Failed to register customer", zap.String("email", req.Email), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to register customer"}
	}

	s.invalidate(ctx)
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, *ServiceError) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Customer not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch customer"}
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]models.Customer, *ServiceError) {
	customers, err := s.repo.All(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch customers"}
	}
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *models.UpdateCustomerRequest) (*models.Customer, *ServiceError) {
	customer, svcErr := s.GetCustomer(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Update(wctx, customer); err != nil {
		s.logger.Error("Failed to update customer", zap.String("id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update customer"}
	}

	s.invalidate(ctx)
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) *ServiceError {
	if _, svcErr := s.GetCustomer(ctx, id); svcErr != nil {
		return svcErr
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Delete(wctx, id); err != nil {
		s.logger.Error("Failed to delete customer", zap.String("id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete customer"}
	}

	s.invalidate(ctx)
	return nil
}

// RecordPurchase rolls a paid amount into the customer's history:
// spend, purchase count, loyalty points and tier.
func (s *customerService) RecordPurchase(ctx context.Context, customerID uuid.UUID, amount float64) *ServiceError {
	customer, svcErr := s.GetCustomer(ctx, customerID)
	if svcErr != nil {
		return svcErr
	}

	now := s.now()
	customer.TotalSpent += amount
	customer.TotalPurchases++
	customer.LoyaltyPoints += int(math.Floor(amount / loyaltyEarnDivisor))
	customer.Tier = analytics.TierForSpend(customer.TotalSpent)
	customer.LastPurchase = &now

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Update(wctx, customer); err != nil {
		s.logger.Error("Failed to record purchase", zap.String("customer_id", customerID.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to record purchase"}
	}

	s.invalidate(ctx)
	return nil
}

func (s *customerService) AddFeedback(ctx context.Context, customerID uuid.UUID, req *models.AddFeedbackRequest) (*models.Feedback, *ServiceError) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &ServiceError{StatusCode: 400, Message: "Rating must be between 1 and 5"}
	}
	if _, svcErr := s.GetCustomer(ctx, customerID); svcErr != nil {
		return nil, svcErr
	}

	feedback := &models.Feedback{
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Date:       s.now(),
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.AddFeedback(wctx, feedback); err != nil {
		s.logger.Error("Failed to add feedback", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to add feedback"}
	}

	s.invalidate(ctx)
	return feedback, nil
}

func (s *customerService) RedeemPoints(ctx context.Context, customerID uuid.UUID, points int) (*models.Customer, *ServiceError) {
	if points <= 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Points must be positive"}
	}

	customer, svcErr := s.GetCustomer(ctx, customerID)
	if svcErr != nil {
		return nil, svcErr
	}
	if customer.LoyaltyPoints < points {
		return nil, &ServiceError{StatusCode: 400, Message: "Insufficient loyalty points"}
	}

	customer.LoyaltyPoints -= points

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Update(wctx, customer); err != nil {
		s.logger.Error("Failed to redeem points", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to redeem points"}
	}

	s.invalidate(ctx)
	return customer, nil
}

func (s *customerService) CustomersByTier(ctx context.Context, tier string) ([]models.Customer, *ServiceError) {
	customers, err := s.repo.FindByTier(ctx, tier)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch customers"}
	}
	return customers, nil
}

// ChurnRisk is the quick recency check for a single customer; the full
// scoring model lives in the analytics package.
func (s *customerService) ChurnRisk(ctx context.Context, customerID uuid.UUID) (*models.ChurnRiskSummary, *ServiceError) {
	customer, svcErr := s.GetCustomer(ctx, customerID)
	if svcErr != nil {
		return nil, svcErr
	}

	days := 999
	if customer.LastPurchase != nil {
		days = int(s.now().Sub(*customer.LastPurchase).Hours() / 24)
	}

	summary := &models.ChurnRiskSummary{
		CustomerID:            customer.ID,
		Name:                  customer.Name,
		DaysSinceLastPurchase: days,
	}

	switch {
	case days > 90:
		summary.RiskLevel = "high"
		summary.Recommendation = "Send a win-back offer with a steep discount"
	case days > 45:
		summary.RiskLevel = "medium"
		summary.Recommendation = "Send a personalized reminder with recommendations"
	default:
		summary.RiskLevel = "low"
		summary.Recommendation = "Keep engagement steady with the regular newsletter"
	}

	return summary, nil
}

// Analytics summarizes the customer base.
func (s *customerService) Analytics(ctx context.Context) (*models.CustomerAnalytics, *ServiceError) {
	customers, err := s.repo.All(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch customers"}
	}

	out := &models.CustomerAnalytics{
		TotalCustomers:   len(customers),
		TierDistribution: make(map[string]int),
	}

	var totalRevenue float64
	var ratingSum, ratingCount int
	for _, c := range customers {
		out.TierDistribution[c.Tier]++
		totalRevenue += c.TotalSpent
		for _, f := range c.Feedback {
			ratingSum += f.Rating
			ratingCount++
		}
	}

	out.TotalRevenue = totalRevenue
	if len(customers) > 0 {
		out.AverageSpent = totalRevenue / float64(len(customers))
	}
	if ratingCount > 0 {
		out.AvgFeedbackRating = float64(ratingSum) / float64(ratingCount)
	}

	return out, nil
}
