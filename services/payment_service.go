package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"retail-service/kafka"
	"retail-service/models"
	"retail-service/repository"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// OrderPayer is the slice of the order service the payment service
// needs once a payment succeeds.
type OrderPayer interface {
	MarkPaid(ctx context.Context, id uuid.UUID, method string) (*models.Order, *ServiceError)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError)
}

// PaymentService records gateway outcomes and answers payment queries.
type PaymentService interface {
	RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.Payment, *ServiceError)
	CreatePaymentIntent(ctx context.Context, req *models.CreateIntentRequest) (string, *ServiceError)
	HandleStripeWebhook(ctx context.Context, r *http.Request) *ServiceError
	ListPayments(ctx context.Context) ([]models.Payment, *ServiceError)
	PaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, *ServiceError)
	PaymentsByMethod(ctx context.Context, method string) ([]models.Payment, *ServiceError)
	Stats(ctx context.Context) (*models.PaymentStats, *ServiceError)
}

type paymentService struct {
	repo         repository.PaymentRepository
	orders       OrderPayer
	gateway      PaymentGateway
	producer     kafka.ProducerAPI
	cache        *SnapshotCache
	logger       *zap.Logger
	writeTimeout time.Duration
	now          func() time.Time
}

func NewPaymentService(
	repo repository.PaymentRepository,
	orders OrderPayer,
	gateway PaymentGateway,
	producer kafka.ProducerAPI,
	cache *SnapshotCache,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:         repo,
		orders:       orders,
		gateway:      gateway,
		producer:     producer,
		cache:        cache,
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
		now:          time.Now,
	}
}

func (s *paymentService) invalidate(ctx context.Context, collections ...Collection) {
	if s.cache == nil {
		return
	}
	for _, c := range collections {
		s.cache.Invalidate(ctx, c)
	}
}

func (s *paymentService) publish(payment *models.Payment) {
	if s.producer == nil {
		return
	}
	event := models.PaymentRecordedEvent{
		EventType:     "payment.recorded",
		PaymentID:     payment.ID.String(),
		OrderID:       payment.OrderID.String(),
		Amount:        payment.Amount,
		Method:        payment.Method,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
		Timestamp:     payment.Timestamp,
	}
	if err := s.producer.Publish(payment.OrderID.String(), event); err != nil {
		s.logger.Warn("Failed to publish payment event", zap.String("payment_id", event.PaymentID), zap.Error(err))
	}
}

// RecordPayment stores a gateway outcome. Gateway identifiers are kept
// when present; otherwise transaction ids are generated. A successful
// payment marks the order paid.
func (s *paymentService) RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.Payment, *ServiceError) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order ID format"}
	}
	if req.Amount <= 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Amount must be positive"}
	}

	if _, svcErr := s.orders.GetOrder(ctx, orderID); svcErr != nil {
		return nil, svcErr
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.PaymentSuccess
	}
	switch status {
	case models.PaymentSuccess, models.PaymentFailed, models.PaymentPending:
	default:
		return nil, &ServiceError{StatusCode: 400, Message: "Unknown payment status"}
	}

	now := s.now()
	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = fmt.Sprintf("TXN-%d", now.UnixMilli())
	}

	payment := &models.Payment{
		OrderID:       orderID,
		Amount:        req.Amount,
		Method:        req.Method,
		Provider:      req.Provider,
		Status:        status,
		TransactionID: transactionID,
		Timestamp:     now,
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Create(wctx, payment); err != nil {
		s.logger.Error("Failed to record payment", zap.String("order_id", req.OrderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to record payment"}
	}

	if status == models.PaymentSuccess {
		if _, svcErr := s.orders.MarkPaid(ctx, orderID, req.Method); svcErr != nil {
			s.logger.Warn("Payment recorded but order update failed",
				zap.String("order_id", req.OrderID),
				zap.String("error", svcErr.Message))
		}
	}

	s.publish(payment)
	s.invalidate(ctx, CollectionPayments)
	return payment, nil
}

// CreatePaymentIntent opens a gateway intent for the order's grand
// total, in the smallest currency unit.
func (s *paymentService) CreatePaymentIntent(ctx context.Context, req *models.CreateIntentRequest) (string, *ServiceError) {
	if s.gateway == nil {
		return "", &ServiceError{StatusCode: 503, Message: "Payment gateway is not configured"}
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return "", &ServiceError{StatusCode: 400, Message: "Invalid order ID format"}
	}

	order, svcErr := s.orders.GetOrder(ctx, orderID)
	if svcErr != nil {
		return "", svcErr
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return "", &ServiceError{StatusCode: 409, Message: "Order is already paid"}
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	amount := int64(math.Round(order.GrandTotal * 100))
	intentID, err := s.gateway.CreatePaymentIntent(amount, currency, order.ID.String())
	if err != nil {
		s.logger.Error("Failed to create payment intent", zap.String("order_id", req.OrderID), zap.Error(err))
		return "", &ServiceError{StatusCode: 502, Message: "Payment gateway error"}
	}
	return intentID, nil
}

// HandleStripeWebhook verifies the signature and converts intent
// outcomes into payment rows and order updates.
func (s *paymentService) HandleStripeWebhook(ctx context.Context, r *http.Request) *ServiceError {
	if s.gateway == nil {
		return &ServiceError{StatusCode: 503, Message: "Payment gateway is not configured"}
	}

	event, err := s.gateway.ParseWebhook(r)
	if err != nil {
		return &ServiceError{StatusCode: 400, Message: "Invalid webhook payload"}
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
	default:
		return nil
	}

	intent, err := intentFromEvent(event)
	if err != nil {
		s.logger.Error("Failed to decode payment intent from webhook", zap.String("event_type", string(event.Type)), zap.Error(err))
		return &ServiceError{StatusCode: 400, Message: "Malformed payment intent"}
	}

	orderID, err := uuid.Parse(intent.Metadata["order_id"])
	if err != nil {
		s.logger.Warn("Webhook intent carries no usable order id", zap.String("intent_id", intent.ID))
		return &ServiceError{StatusCode: 400, Message: "Webhook missing order reference"}
	}

	if existing, err := s.repo.FindByTransactionID(ctx, intent.ID); err == nil && existing != nil {
		// Stripe retries webhooks; the intent was already processed.
		return nil
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 500, Message: "Failed to check payment history"}
	}

	status := models.PaymentSuccess
	if event.Type == "payment_intent.payment_failed" {
		status = models.PaymentFailed
	}

	now := s.now()
	stripeID := intent.ID
	payment := &models.Payment{
		OrderID:         orderID,
		Amount:          float64(intent.Amount) / 100,
		Method:          "card",
		Provider:        "stripe",
		Status:          status,
		TransactionID:   intent.ID,
		StripePaymentID: &stripeID,
		Timestamp:       now,
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Create(wctx, payment); err != nil {
		s.logger.Error("Failed to record webhook payment", zap.String("intent_id", intent.ID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to record payment"}
	}

	if status == models.PaymentSuccess {
		if _, svcErr := s.orders.MarkPaid(ctx, orderID, "card"); svcErr != nil {
			s.logger.Warn("Webhook payment recorded but order update failed",
				zap.String("order_id", orderID.String()),
				zap.String("error", svcErr.Message))
		}
	}

	s.publish(payment)
	s.invalidate(ctx, CollectionPayments)
	return nil
}

func intentFromEvent(event stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (s *paymentService) ListPayments(ctx context.Context) ([]models.Payment, *ServiceError) {
	payments, err := s.repo.All(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch payments"}
	}
	return payments, nil
}

func (s *paymentService) PaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, *ServiceError) {
	payments, err := s.repo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch payments"}
	}
	return payments, nil
}

func (s *paymentService) PaymentsByMethod(ctx context.Context, method string) ([]models.Payment, *ServiceError) {
	payments, err := s.repo.FindByMethod(ctx, method)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch payments"}
	}
	return payments, nil
}

// Stats summarizes processed payments: volumes, method mix and the
// success rate over successful transaction amounts.
func (s *paymentService) Stats(ctx context.Context) (*models.PaymentStats, *ServiceError) {
	payments, err := s.repo.All(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch payments"}
	}

	stats := &models.PaymentStats{
		TotalTransactions: len(payments),
		MethodBreakdown:   make(map[string]int),
	}
	for _, p := range payments {
		stats.MethodBreakdown[p.Method]++
		if p.Status == models.PaymentSuccess {
			stats.SuccessfulTransactions++
			stats.TotalAmount += p.Amount
		}
	}
	if len(payments) > 0 {
		stats.SuccessRatePct = float64(stats.SuccessfulTransactions) / float64(len(payments)) * 100
	}
	return stats, nil
}
