package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"retail-service/kafka"
	"retail-service/models"
	"retail-service/pkg/aws"
	"retail-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// deliveryWindow is the promised delivery lead time set on new tasks.
const deliveryWindow = 48 * time.Hour

// PurchaseRecorder is the slice of the customer service the order
// service needs when an order is paid.
type PurchaseRecorder interface {
	RecordPurchase(ctx context.Context, customerID uuid.UUID, amount float64) *ServiceError
}

// OrderService drives the order lifecycle:
// placed -> shipped -> delivered, with cancellation from placed or
// shipped only.
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError)
	ListOrders(ctx context.Context, page, limit int) (*models.OrderListResponse, *ServiceError)
	OrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, *ServiceError)
	OrdersByStatus(ctx context.Context, status string) ([]models.Order, *ServiceError)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError)
	CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError)
	MarkPaid(ctx context.Context, id uuid.UUID, method string) (*models.Order, *ServiceError)
	Revenue(ctx context.Context) (float64, *ServiceError)
	RevenueByDateRange(ctx context.Context, start, end time.Time) (float64, *ServiceError)
}

type orderService struct {
	repo         repository.OrderRepository
	customerRepo repository.CustomerRepository
	deliveryRepo repository.DeliveryRepository
	purchases    PurchaseRecorder
	producer     kafka.ProducerAPI
	sns          aws.SNSPublisher
	snsTopicARN  string
	cache        *SnapshotCache
	logger       *zap.Logger
	writeTimeout time.Duration
	now          func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	deliveryRepo repository.DeliveryRepository,
	purchases PurchaseRecorder,
	producer kafka.ProducerAPI,
	sns aws.SNSPublisher,
	snsTopicARN string,
	cache *SnapshotCache,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		repo:         repo,
		customerRepo: customerRepo,
		deliveryRepo: deliveryRepo,
		purchases:    purchases,
		producer:     producer,
		sns:          sns,
		snsTopicARN:  snsTopicARN,
		cache:        cache,
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
		now:          time.Now,
	}
}

func (s *orderService) invalidate(ctx context.Context, collections ...Collection) {
	if s.cache == nil {
		return
	}
	for _, c := range collections {
		s.cache.Invalidate(ctx, c)
	}
}

func (s *orderService) publish(key string, event interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(key, event); err != nil {
		s.logger.Warn("Failed to publish order event", zap.String("key", key), zap.Error(err))
	}
}

// publishSNS mirrors an event to SNS. Failures are logged, never
// propagated.
func (s *orderService) publishSNS(ctx context.Context, payload []byte) {
	if s.sns == nil || s.snsTopicARN == "" {
		return
	}
	if err := s.sns.Publish(ctx, s.snsTopicARN, payload); err != nil {
		s.logger.Warn("SNS publish failed", zap.Error(err))
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid customer ID format"}
	}
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid store ID format"}
	}
	if len(req.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Order must contain at least one item"}
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Customer not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to look up customer"}
	}

	// Totals are computed here, never trusted from the client.
	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "Item quantity must be positive"}
		}
		total += float64(it.Quantity) * it.Price
		items = append(items, models.OrderItem{
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}

	now := s.now()
	order := &models.Order{
		InvoiceNumber:   fmt.Sprintf("INV-%d", now.UnixMilli()),
		CustomerID:      customerID,
		CustomerName:    customer.Name,
		StoreID:         storeID,
		TotalAmount:     total,
		GrandTotal:      math.Round(total*(1+models.TaxRate)*100) / 100,
		Status:          models.OrderStatusPlaced,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Create(wctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.String("customer_id", req.CustomerID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	s.publish(order.ID.String(), models.OrderPlacedEvent{
		EventType:     "order.placed",
		OrderID:       order.ID.String(),
		InvoiceNumber: order.InvoiceNumber,
		CustomerID:    order.CustomerID.String(),
		StoreID:       order.StoreID.String(),
		GrandTotal:    order.GrandTotal,
		Timestamp:     now,
	})

	s.invalidate(ctx, CollectionOrders)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int) (*models.OrderListResponse, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return &models.OrderListResponse{
		Orders: orders,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    int64(page) < totalPages,
		},
	}, nil
}

func (s *orderService) OrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, *ServiceError) {
	orders, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, nil
}

func (s *orderService) OrdersByStatus(ctx context.Context, status string) ([]models.Order, *ServiceError) {
	orders, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, nil
}

// UpdateOrderStatus advances an order to shipped or delivered.
// Transitions are monotonic; anything else is a conflict.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	switch status {
	case models.OrderStatusShipped:
		if order.Status != models.OrderStatusPlaced {
			return nil, &ServiceError{StatusCode: 409, Message: fmt.Sprintf("Cannot ship order in status %q", order.Status)}
		}
		return s.shipOrder(ctx, order)
	case models.OrderStatusDelivered:
		if order.Status != models.OrderStatusShipped {
			return nil, &ServiceError{StatusCode: 409, Message: fmt.Sprintf("Cannot deliver order in status %q", order.Status)}
		}
		return s.deliverOrder(ctx, order)
	default:
		return nil, &ServiceError{StatusCode: 400, Message: "Unsupported status transition"}
	}
}

// shipOrder marks the order shipped and creates exactly one delivery
// task, assigned to the agent with the fewest active deliveries.
func (s *orderService) shipOrder(ctx context.Context, order *models.Order) (*models.Order, *ServiceError) {
	agents, err := s.deliveryRepo.FindAgents(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch delivery agents"}
	}
	if len(agents) == 0 {
		return nil, &ServiceError{StatusCode: 422, Message: "No delivery agents available"}
	}

	// Ties go to the earliest-registered agent; FindAgents returns
	// registration order.
	agent := &agents[0]
	for i := 1; i < len(agents); i++ {
		if agents[i].ActiveDeliveries < agent.ActiveDeliveries {
			agent = &agents[i]
		}
	}

	now := s.now()
	task := &models.DeliveryTask{
		OrderID:           order.ID,
		CustomerName:      order.CustomerName,
		Address:           order.ShippingAddress,
		Zone:              DetermineZone(order.ShippingAddress),
		AgentID:           agent.ID,
		AgentName:         agent.Name,
		Status:            models.DeliveryStatusAssigned,
		AssignedAt:        now,
		EstimatedDelivery: now.Add(deliveryWindow),
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	if err := s.deliveryRepo.CreateTask(wctx, task); err != nil {
		s.logger.Error("Failed to create delivery task", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create delivery task"}
	}

	agent.ActiveDeliveries++
	if err := s.deliveryRepo.UpdateAgent(wctx, agent); err != nil {
		s.logger.Error("Failed to update agent load", zap.String("agent_id", agent.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update agent"}
	}

	order.Status = models.OrderStatusShipped
	order.ShippedAt = &now
	if err := s.repo.Update(wctx, order); err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	event := models.OrderShippedEvent{
		EventType:      "order.shipped",
		OrderID:        order.ID.String(),
		DeliveryTaskID: task.ID.String(),
		AgentID:        agent.ID.String(),
		Zone:           task.Zone,
		Timestamp:      now,
	}
	s.publish(order.ID.String(), event)
	s.publishSNS(ctx, []byte(fmt.Sprintf(`{"event_type":"order.shipped","order_id":%q,"zone":%q}`, event.OrderID, event.Zone)))

	s.invalidate(ctx, CollectionOrders, CollectionDelivery)
	return order, nil
}

func (s *orderService) deliverOrder(ctx context.Context, order *models.Order) (*models.Order, *ServiceError) {
	now := s.now()
	order.Status = models.OrderStatusDelivered
	order.DeliveredAt = &now

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Update(wctx, order); err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	s.invalidate(ctx, CollectionOrders)
	return order, nil
}

// CancelOrder cancels an order that has not been delivered or already
// cancelled.
func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if order.Status != models.OrderStatusPlaced && order.Status != models.OrderStatusShipped {
		return nil, &ServiceError{StatusCode: 409, Message: fmt.Sprintf("Cannot cancel order in status %q", order.Status)}
	}

	now := s.now()
	order.Status = models.OrderStatusCancelled
	order.CancelledAt = &now

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Update(wctx, order); err != nil {
		s.logger.Error("Failed to cancel order", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to cancel order"}
	}

	s.publish(order.ID.String(), models.OrderCancelledEvent{
		EventType: "order.cancelled",
		OrderID:   order.ID.String(),
		Timestamp: now,
	})

	s.invalidate(ctx, CollectionOrders)
	return order, nil
}

// MarkPaid records payment against the order and rolls the amount into
// the customer's purchase history.
func (s *orderService) MarkPaid(ctx context.Context, id uuid.UUID, method string) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, &ServiceError{StatusCode: 409, Message: "Cannot pay a cancelled order"}
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, &ServiceError{StatusCode: 409, Message: "Order is already paid"}
	}

	now := s.now()
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentMethod = method
	order.PaidAt = &now

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.Update(wctx, order); err != nil {
		s.logger.Error("Failed to mark order paid", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	if s.purchases != nil {
		if svcErr := s.purchases.RecordPurchase(ctx, order.CustomerID, order.GrandTotal); svcErr != nil {
			s.logger.Warn("Failed to record customer purchase",
				zap.String("customer_id", order.CustomerID.String()),
				zap.String("error", svcErr.Message))
		}
	}

	s.invalidate(ctx, CollectionOrders, CollectionCustomers)
	return order, nil
}

// Revenue sums grand totals over paid orders.
func (s *orderService) Revenue(ctx context.Context) (float64, *ServiceError) {
	orders, err := s.repo.All(ctx)
	if err != nil {
		return 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}

	total := 0.0
	for _, o := range orders {
		if o.PaymentStatus == models.PaymentStatusPaid {
			total += o.GrandTotal
		}
	}
	return total, nil
}

func (s *orderService) RevenueByDateRange(ctx context.Context, start, end time.Time) (float64, *ServiceError) {
	total, err := s.repo.RevenueByDateRange(ctx, start, end)
	if err != nil {
		return 0, &ServiceError{StatusCode: 500, Message: "Failed to compute revenue"}
	}
	return total, nil
}
