package services_test

import (
	"context"
	"testing"
	"time"

	"retail-service/models"
	"retail-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orders    *memOrderRepo
	customers *memCustomerRepo
	delivery  *memDeliveryRepo
	producer  *mockProducer
	sns       *mockSNS
	svc       services.OrderService
	custSvc   services.CustomerService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    newMemOrderRepo(),
		customers: newMemCustomerRepo(),
		delivery:  newMemDeliveryRepo(),
		producer:  &mockProducer{},
		sns:       &mockSNS{},
	}
	logger := zap.NewNop()
	f.custSvc = services.NewCustomerService(f.customers, nil, logger)
	f.svc = services.NewOrderService(f.orders, f.customers, f.delivery, f.custSvc, f.producer, f.sns, "arn:aws:sns:test", nil, logger)
	return f
}

func (f *orderFixture) seedCustomer() uuid.UUID {
	return f.customers.add(models.Customer{Name: "Asha Rao", Email: "asha@example.com", Tier: models.TierBronze})
}

func (f *orderFixture) placeOrder(t *testing.T, customerID uuid.UUID, address string) *models.Order {
	t.Helper()
	order, svcErr := f.svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CustomerID:      customerID.String(),
		StoreID:         uuid.New().String(),
		ShippingAddress: address,
		Items: []models.OrderItemRequest{
			{SKU: "SKU-1", ProductName: "Keyboard", Quantity: 2, Price: 500},
		},
	})
	require.Nil(t, svcErr)
	return order
}

func TestCreateOrder_ComputesTotalsServerSide(t *testing.T) {
	f := newOrderFixture()
	customerID := f.seedCustomer()

	order, svcErr := f.svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CustomerID: customerID.String(),
		StoreID:    uuid.New().String(),
		Items: []models.OrderItemRequest{
			{SKU: "SKU-1", Quantity: 2, Price: 500},
			{SKU: "SKU-2", Quantity: 1, Price: 1000},
		},
	})

	require.Nil(t, svcErr)
	assert.Equal(t, 2000.0, order.TotalAmount)
	assert.Equal(t, 2200.0, order.GrandTotal)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Contains(t, order.InvoiceNumber, "INV-")
	assert.Equal(t, "Asha Rao", order.CustomerName)
}

func TestCreateOrder_PublishesPlacedEvent(t *testing.T) {
	f := newOrderFixture()
	order := f.placeOrder(t, f.seedCustomer(), "12 Central Ave")

	require.Len(t, f.producer.events, 1)
	event, ok := f.producer.events[0].(models.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, "order.placed", event.EventType)
	assert.Equal(t, order.ID.String(), event.OrderID)
}

func TestCreateOrder_RejectsEmptyItems(t *testing.T) {
	f := newOrderFixture()
	customerID := f.seedCustomer()

	_, svcErr := f.svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CustomerID: customerID.String(),
		StoreID:    uuid.New().String(),
		Items:      []models.OrderItemRequest{},
	})

	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	f := newOrderFixture()

	_, svcErr := f.svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CustomerID: uuid.New().String(),
		StoreID:    uuid.New().String(),
		Items:      []models.OrderItemRequest{{SKU: "SKU-1", Quantity: 1, Price: 10}},
	})

	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestUpdateOrderStatus_ShipCreatesSingleTaskAndLoadsAgent(t *testing.T) {
	f := newOrderFixture()
	f.delivery.addAgent(models.DeliveryAgent{Name: "Ravi", Zone: "Downtown", ActiveDeliveries: 2})
	lightID := f.delivery.addAgent(models.DeliveryAgent{Name: "Meena", Zone: "Uptown", ActiveDeliveries: 1})
	order := f.placeOrder(t, f.seedCustomer(), "4 Warehouse Road")

	updated, svcErr := f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusShipped)

	require.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	require.NotNil(t, updated.ShippedAt)

	tasks, _ := f.delivery.FindTasks(context.Background())
	require.Len(t, tasks, 1)
	assert.Equal(t, lightID, tasks[0].AgentID)
	assert.Equal(t, "Meena", tasks[0].AgentName)
	assert.Equal(t, "Industrial Area", tasks[0].Zone)
	assert.Equal(t, models.DeliveryStatusAssigned, tasks[0].Status)

	agent, err := f.delivery.FindAgentByID(context.Background(), lightID)
	require.NoError(t, err)
	assert.Equal(t, 2, agent.ActiveDeliveries)
}

func TestUpdateOrderStatus_ShipTieBreaksByRegistrationOrder(t *testing.T) {
	f := newOrderFixture()
	firstID := f.delivery.addAgent(models.DeliveryAgent{Name: "First", Zone: "Downtown"})
	f.delivery.addAgent(models.DeliveryAgent{Name: "Second", Zone: "Uptown"})
	order := f.placeOrder(t, f.seedCustomer(), "home")

	_, svcErr := f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusShipped)

	require.Nil(t, svcErr)
	tasks, _ := f.delivery.FindTasks(context.Background())
	require.Len(t, tasks, 1)
	assert.Equal(t, firstID, tasks[0].AgentID)
}

func TestUpdateOrderStatus_ShipWithoutAgents(t *testing.T) {
	f := newOrderFixture()
	order := f.placeOrder(t, f.seedCustomer(), "home")

	_, svcErr := f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusShipped)

	require.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
}

func TestUpdateOrderStatus_MonotonicTransitions(t *testing.T) {
	f := newOrderFixture()
	f.delivery.addAgent(models.DeliveryAgent{Name: "Ravi", Zone: "Downtown"})
	order := f.placeOrder(t, f.seedCustomer(), "home")

	// delivered before shipped is a conflict
	_, svcErr := f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)

	_, svcErr = f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusShipped)
	require.Nil(t, svcErr)

	// shipping twice is a conflict
	_, svcErr = f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusShipped)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)

	delivered, svcErr := f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	require.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
}

func TestCancelOrder_AllowedFromPlacedAndShippedOnly(t *testing.T) {
	f := newOrderFixture()
	f.delivery.addAgent(models.DeliveryAgent{Name: "Ravi", Zone: "Downtown"})
	customerID := f.seedCustomer()

	placed := f.placeOrder(t, customerID, "home")
	cancelled, svcErr := f.svc.CancelOrder(context.Background(), placed.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	shipped := f.placeOrder(t, customerID, "home")
	_, svcErr = f.svc.UpdateOrderStatus(context.Background(), shipped.ID, models.OrderStatusShipped)
	require.Nil(t, svcErr)
	_, svcErr = f.svc.CancelOrder(context.Background(), shipped.ID)
	require.Nil(t, svcErr)
}

func TestCancelOrder_DeliveredIsConflict(t *testing.T) {
	f := newOrderFixture()
	f.delivery.addAgent(models.DeliveryAgent{Name: "Ravi", Zone: "Downtown"})
	order := f.placeOrder(t, f.seedCustomer(), "home")

	_, svcErr := f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusShipped)
	require.Nil(t, svcErr)
	_, svcErr = f.svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	require.Nil(t, svcErr)

	_, svcErr = f.svc.CancelOrder(context.Background(), order.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestCancelOrder_CancelledIsConflict(t *testing.T) {
	f := newOrderFixture()
	order := f.placeOrder(t, f.seedCustomer(), "home")

	_, svcErr := f.svc.CancelOrder(context.Background(), order.ID)
	require.Nil(t, svcErr)
	_, svcErr = f.svc.CancelOrder(context.Background(), order.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestMarkPaid_RollsUpCustomerAndTier(t *testing.T) {
	f := newOrderFixture()
	customerID := f.seedCustomer()
	order, svcErr := f.svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CustomerID: customerID.String(),
		StoreID:    uuid.New().String(),
		Items:      []models.OrderItemRequest{{SKU: "SKU-1", Quantity: 4, Price: 1000}},
	})
	require.Nil(t, svcErr)
	// 4400 grand total lands the customer in the Silver band

	paid, svcErr := f.svc.MarkPaid(context.Background(), order.ID, "upi")
	require.Nil(t, svcErr)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, "upi", paid.PaymentMethod)
	require.NotNil(t, paid.PaidAt)

	customer, err := f.customers.FindByID(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, 4400.0, customer.TotalSpent)
	assert.Equal(t, 1, customer.TotalPurchases)
	assert.Equal(t, 440, customer.LoyaltyPoints)
	assert.Equal(t, models.TierSilver, customer.Tier)
	require.NotNil(t, customer.LastPurchase)
}

func TestMarkPaid_IdempotencyAndCancelledGuard(t *testing.T) {
	f := newOrderFixture()
	customerID := f.seedCustomer()

	order := f.placeOrder(t, customerID, "home")
	_, svcErr := f.svc.MarkPaid(context.Background(), order.ID, "card")
	require.Nil(t, svcErr)
	_, svcErr = f.svc.MarkPaid(context.Background(), order.ID, "card")
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)

	cancelled := f.placeOrder(t, customerID, "home")
	_, svcErr = f.svc.CancelOrder(context.Background(), cancelled.ID)
	require.Nil(t, svcErr)
	_, svcErr = f.svc.MarkPaid(context.Background(), cancelled.ID, "card")
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestRevenue_OnlyPaidOrdersCount(t *testing.T) {
	f := newOrderFixture()
	customerID := f.seedCustomer()

	paid := f.placeOrder(t, customerID, "home")
	_, svcErr := f.svc.MarkPaid(context.Background(), paid.ID, "card")
	require.Nil(t, svcErr)
	f.placeOrder(t, customerID, "home") // stays pending

	total, svcErr := f.svc.Revenue(context.Background())
	require.Nil(t, svcErr)
	assert.Equal(t, 1100.0, total)
}

func TestListOrders_Pagination(t *testing.T) {
	f := newOrderFixture()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.orders.add(models.Order{
			InvoiceNumber: uuid.New().String(),
			CustomerID:    uuid.New(),
			StoreID:       uuid.New(),
			Status:        models.OrderStatusPlaced,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		})
	}

	resp, svcErr := f.svc.ListOrders(context.Background(), 2, 2)
	require.Nil(t, svcErr)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(5), resp.Meta.Total)
	assert.Equal(t, int64(3), resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasMore)
}
