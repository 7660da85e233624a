package services_test

import (
	"context"
	"net/http"
	"sort"
	"time"

	"retail-service/models"
	"retail-service/repository"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
)

// Shared in-memory mocks for the service tests. State lives in maps so
// multi-step flows (ship, deliver, pay) can assert on side effects.

// ---- inventory ----

type memInventoryRepo struct {
	items     map[uuid.UUID]*models.InventoryItem
	transfers []models.StockTransfer
	failAll   error
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{items: make(map[uuid.UUID]*models.InventoryItem)}
}

func (m *memInventoryRepo) add(item models.InventoryItem) uuid.UUID {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items[item.ID] = &item
	return item.ID
}

func (m *memInventoryRepo) Create(_ context.Context, item *models.InventoryItem) error {
	if m.failAll != nil {
		return m.failAll
	}
	for _, it := range m.items {
		if it.SKU == item.SKU && it.StoreID == item.StoreID {
			return repository.ErrDuplicateSKU
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *memInventoryRepo) FindAll(_ context.Context) ([]models.InventoryItem, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := make([]models.InventoryItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (m *memInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memInventoryRepo) FindByStore(_ context.Context, storeID uuid.UUID) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, it := range m.items {
		if it.StoreID == storeID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memInventoryRepo) FindBySKUAndStore(_ context.Context, sku string, storeID uuid.UUID) (*models.InventoryItem, error) {
	for _, it := range m.items {
		if it.SKU == sku && it.StoreID == storeID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memInventoryRepo) Update(_ context.Context, item *models.InventoryItem) error {
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *memInventoryRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	it, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	if it.Quantity+delta < 0 {
		return repository.ErrInsufficientStock
	}
	it.Quantity += delta
	return nil
}

func (m *memInventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *memInventoryRepo) CountByStore(_ context.Context, storeID uuid.UUID) (int64, error) {
	var n int64
	for _, it := range m.items {
		if it.StoreID == storeID {
			n++
		}
	}
	return n, nil
}

func (m *memInventoryRepo) CreateTransfer(_ context.Context, transfer *models.StockTransfer) error {
	m.transfers = append(m.transfers, *transfer)
	return nil
}

func (m *memInventoryRepo) FindTransfers(_ context.Context) ([]models.StockTransfer, error) {
	return m.transfers, nil
}

// ---- stores ----

type memStoreRepo struct {
	stores map[uuid.UUID]*models.Store
}

func newMemStoreRepo() *memStoreRepo {
	return &memStoreRepo{stores: make(map[uuid.UUID]*models.Store)}
}

func (m *memStoreRepo) add(store models.Store) uuid.UUID {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	m.stores[store.ID] = &store
	return store.ID
}

func (m *memStoreRepo) Create(_ context.Context, store *models.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	cp := *store
	m.stores[store.ID] = &cp
	return nil
}

func (m *memStoreRepo) FindAll(_ context.Context) ([]models.Store, error) {
	out := make([]models.Store, 0, len(m.stores))
	for _, st := range m.stores {
		out = append(out, *st)
	}
	return out, nil
}

func (m *memStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	st, ok := m.stores[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *memStoreRepo) Update(_ context.Context, store *models.Store) error {
	cp := *store
	m.stores[store.ID] = &cp
	return nil
}

func (m *memStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.stores, id)
	return nil
}

// ---- orders ----

type memOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *memOrderRepo) add(order models.Order) uuid.UUID {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.orders[order.ID] = &order
	return order.ID
}

func (m *memOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrderRepo) FindAll(_ context.Context, page, limit int) ([]models.Order, int64, error) {
	all, _ := m.All(context.Background())
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Order{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memOrderRepo) All(_ context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) FindByStatus(_ context.Context, status string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) Update(_ context.Context, order *models.Order) error {
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.orders, id)
	return nil
}

func (m *memOrderRepo) RevenueByDateRange(_ context.Context, start, end time.Time) (float64, error) {
	var total float64
	for _, o := range m.orders {
		if o.PaymentStatus == models.PaymentStatusPaid && !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
			total += o.GrandTotal
		}
	}
	return total, nil
}

// ---- customers ----

type memCustomerRepo struct {
	customers map[uuid.UUID]*models.Customer
	feedback  []models.Feedback
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[uuid.UUID]*models.Customer)}
}

func (m *memCustomerRepo) add(customer models.Customer) uuid.UUID {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	m.customers[customer.ID] = &customer
	return customer.ID
}

func (m *memCustomerRepo) Create(_ context.Context, customer *models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	cp := *customer
	m.customers[customer.ID] = &cp
	return nil
}

func (m *memCustomerRepo) All(_ context.Context) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomerRepo) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	for _, c := range m.customers {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCustomerRepo) FindByTier(_ context.Context, tier string) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range m.customers {
		if c.Tier == tier {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memCustomerRepo) Update(_ context.Context, customer *models.Customer) error {
	cp := *customer
	m.customers[customer.ID] = &cp
	return nil
}

func (m *memCustomerRepo) AddFeedback(_ context.Context, feedback *models.Feedback) error {
	m.feedback = append(m.feedback, *feedback)
	return nil
}

func (m *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.customers, id)
	return nil
}

// ---- delivery ----

type memDeliveryRepo struct {
	agents     []*models.DeliveryAgent
	tasks      map[uuid.UUID]*models.DeliveryTask
	agentsErr  error
	createdSeq int
}

func newMemDeliveryRepo() *memDeliveryRepo {
	return &memDeliveryRepo{tasks: make(map[uuid.UUID]*models.DeliveryTask)}
}

func (m *memDeliveryRepo) addAgent(agent models.DeliveryAgent) uuid.UUID {
	if agent.ID == uuid.Nil {
		agent.ID = uuid.New()
	}
	m.createdSeq++
	agent.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.createdSeq) * time.Minute)
	cp := agent
	m.agents = append(m.agents, &cp)
	return agent.ID
}

func (m *memDeliveryRepo) CreateAgent(_ context.Context, agent *models.DeliveryAgent) error {
	m.addAgent(*agent)
	return nil
}

func (m *memDeliveryRepo) FindAgents(_ context.Context) ([]models.DeliveryAgent, error) {
	if m.agentsErr != nil {
		return nil, m.agentsErr
	}
	out := make([]models.DeliveryAgent, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memDeliveryRepo) FindAgentByID(_ context.Context, id uuid.UUID) (*models.DeliveryAgent, error) {
	for _, a := range m.agents {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memDeliveryRepo) UpdateAgent(_ context.Context, agent *models.DeliveryAgent) error {
	for i, a := range m.agents {
		if a.ID == agent.ID {
			cp := *agent
			cp.CreatedAt = a.CreatedAt
			m.agents[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDeliveryRepo) DeleteAgent(_ context.Context, id uuid.UUID) error {
	for i, a := range m.agents {
		if a.ID == id {
			m.agents = append(m.agents[:i], m.agents[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memDeliveryRepo) CreateTask(_ context.Context, task *models.DeliveryTask) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *memDeliveryRepo) FindTasks(_ context.Context) ([]models.DeliveryTask, error) {
	out := make([]models.DeliveryTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memDeliveryRepo) FindTaskByID(_ context.Context, id uuid.UUID) (*models.DeliveryTask, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memDeliveryRepo) FindTasksByAgent(_ context.Context, agentID uuid.UUID) ([]models.DeliveryTask, error) {
	var out []models.DeliveryTask
	for _, t := range m.tasks {
		if t.AgentID == agentID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memDeliveryRepo) UpdateTask(_ context.Context, task *models.DeliveryTask) error {
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

// ---- payments ----

type memPaymentRepo struct {
	payments map[uuid.UUID]*models.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[uuid.UUID]*models.Payment)}
}

func (m *memPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	cp := *payment
	m.payments[payment.ID] = &cp
	return nil
}

func (m *memPaymentRepo) All(_ context.Context) ([]models.Payment, error) {
	out := make([]models.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPaymentRepo) FindByMethod(_ context.Context, method string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.payments {
		if p.Method == method {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.TransactionID == transactionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ---- messaging ----

type mockProducer struct {
	keys   []string
	events []interface{}
	err    error
}

func (m *mockProducer) Publish(key string, event interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, key)
	m.events = append(m.events, event)
	return nil
}

func (m *mockProducer) Close() {}

type mockSNS struct {
	published  [][]byte
	publishErr error
}

func (m *mockSNS) Publish(_ context.Context, _ string, message []byte) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, message)
	return nil
}

// ---- payment gateway ----

type mockGateway struct {
	intentID  string
	intentErr error
	event     stripe.Event
	parseErr  error

	gotAmount   int64
	gotCurrency string
	gotOrderID  string
}

func (m *mockGateway) CreatePaymentIntent(amount int64, currency string, orderID string) (string, error) {
	m.gotAmount = amount
	m.gotCurrency = currency
	m.gotOrderID = orderID
	return m.intentID, m.intentErr
}

func (m *mockGateway) ParseWebhook(_ *http.Request) (stripe.Event, error) {
	return m.event, m.parseErr
}
