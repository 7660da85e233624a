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

// DeliveryService manages agents and delivery tasks.
type DeliveryService interface {
	AddAgent(ctx context.Context, req *models.AddAgentRequest) (*models.DeliveryAgent, *ServiceError)
	UpdateAgent(ctx context.Context, id uuid.UUID, req *models.UpdateAgentRequest) (*models.DeliveryAgent, *ServiceError)
	DeleteAgent(ctx context.Context, id uuid.UUID) *ServiceError
	ListAgents(ctx context.Context) ([]models.DeliveryAgent, *ServiceError)
	ListTasks(ctx context.Context) ([]models.DeliveryTask, *ServiceError)
	GetTask(ctx context.Context, id uuid.UUID) (*models.DeliveryTask, *ServiceError)
	UpdateDeliveryStatus(ctx context.Context, taskID uuid.UUID, status string) (*models.DeliveryTask, *ServiceError)
	Reassign(ctx context.Context, taskID, agentID uuid.UUID) (*models.DeliveryTask, *ServiceError)
	Analytics(ctx context.Context) (*models.DeliveryAnalytics, *ServiceError)
	AgentPerformance(ctx context.Context, agentID uuid.UUID) (*models.AgentPerformance, *ServiceError)
}

type deliveryService struct {
	repo         repository.DeliveryRepository
	orderRepo    repository.OrderRepository
	cache        *SnapshotCache
	logger       *zap.Logger
	writeTimeout time.Duration
	now          func() time.Time
}

func NewDeliveryService(repo repository.DeliveryRepository, orderRepo repository.OrderRepository, cache *SnapshotCache, logger *zap.Logger) DeliveryService {
	return &deliveryService{
		repo:         repo,
		orderRepo:    orderRepo,
		cache:        cache,
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
		now:          time.Now,
	}
}

func (s *deliveryService) invalidate(ctx context.Context, collections ...Collection) {
	if s.cache == nil {
		return
	}
	for _, c := range collections {
		s.cache.Invalidate(ctx, c)
	}
}

func (s *deliveryService) AddAgent(ctx context.Context, req *models.AddAgentRequest) (*models.DeliveryAgent, *ServiceError) {
	agent := &models.DeliveryAgent{
		Name:  req.Name,
		Phone: req.Phone,
		Zone:  req.Zone,
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.CreateAgent(wctx, agent); err != nil {
		s.logger.Error("Failed to create delivery agent", zap.String("name", req.Name), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create agent"}
	}

	s.invalidate(ctx, CollectionDelivery)
	return agent, nil
}

func (s *deliveryService) UpdateAgent(ctx context.Context, id uuid.UUID, req *models.UpdateAgentRequest) (*models.DeliveryAgent, *ServiceError) {
	agent, err := s.repo.FindAgentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Agent not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch agent"}
	}

	if req.Name != nil {
		agent.Name = *req.Name
	}
	if req.Phone != nil {
		agent.Phone = *req.Phone
	}
	if req.Zone != nil {
		agent.Zone = *req.Zone
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.UpdateAgent(wctx, agent); err != nil {
		s.logger.Error("Failed to update delivery agent", zap.String("id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update agent"}
	}

	s.invalidate(ctx, CollectionDelivery)
	return agent, nil
}

// DeleteAgent refuses to remove an agent with deliveries in flight.
func (s *deliveryService) DeleteAgent(ctx context.Context, id uuid.UUID) *ServiceError {
	agent, err := s.repo.FindAgentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Agent not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to fetch agent"}
	}
	if agent.ActiveDeliveries > 0 {
		return &ServiceError{StatusCode: 409, Message: "Cannot remove an agent with active deliveries. Reassign them first."}
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.repo.DeleteAgent(wctx, id); err != nil {
		s.logger.Error("Failed to delete delivery agent", zap.String("id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete agent"}
	}

	s.invalidate(ctx, CollectionDelivery)
	return nil
}

func (s *deliveryService) ListAgents(ctx context.Context) ([]models.DeliveryAgent, *ServiceError) {
	agents, err := s.repo.FindAgents(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch agents"}
	}
	return agents, nil
}

func (s *deliveryService) ListTasks(ctx context.Context) ([]models.DeliveryTask, *ServiceError) {
	tasks, err := s.repo.FindTasks(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch delivery tasks"}
	}
	return tasks, nil
}

func (s *deliveryService) GetTask(ctx context.Context, id uuid.UUID) (*models.DeliveryTask, *ServiceError) {
	task, err := s.repo.FindTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Delivery task not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch delivery task"}
	}
	return task, nil
}

// UpdateDeliveryStatus advances a task. On delivered it settles the
// agent's counters and propagates the status onto the order.
func (s *deliveryService) UpdateDeliveryStatus(ctx context.Context, taskID uuid.UUID, status string) (*models.DeliveryTask, *ServiceError) {
	task, svcErr := s.GetTask(ctx, taskID)
	if svcErr != nil {
		return nil, svcErr
	}
	if task.Status == models.DeliveryStatusDelivered {
		return nil, &ServiceError{StatusCode: 409, Message: "Delivery task is already completed"}
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	task.Status = status
	if status == models.DeliveryStatusDelivered {
		now := s.now()
		task.DeliveredAt = &now

		agent, err := s.repo.FindAgentByID(ctx, task.AgentID)
		if err == nil {
			if agent.ActiveDeliveries > 0 {
				agent.ActiveDeliveries--
			}
			agent.TotalDeliveries++
			if err := s.repo.UpdateAgent(wctx, agent); err != nil {
				s.logger.Error("Failed to update agent counters", zap.String("agent_id", agent.ID.String()), zap.Error(err))
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to fetch agent for task", zap.String("task_id", taskID.String()), zap.Error(err))
		}

		if order, err := s.orderRepo.FindByID(ctx, task.OrderID); err == nil && order.Status == models.OrderStatusShipped {
			order.Status = models.OrderStatusDelivered
			order.DeliveredAt = &now
			if err := s.orderRepo.Update(wctx, order); err != nil {
				s.logger.Error("Failed to propagate delivery to order", zap.String("order_id", order.ID.String()), zap.Error(err))
			}
		}
	}

	if err := s.repo.UpdateTask(wctx, task); err != nil {
		s.logger.Error("Failed to update delivery task", zap.String("task_id", taskID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update delivery task"}
	}

	s.invalidate(ctx, CollectionDelivery, CollectionOrders)
	return task, nil
}

// Reassign hands a task to another agent, shifting the active-delivery
// count and copying the new agent's name and zone onto the task.
func (s *deliveryService) Reassign(ctx context.Context, taskID, agentID uuid.UUID) (*models.DeliveryTask, *ServiceError) {
	task, svcErr := s.GetTask(ctx, taskID)
	if svcErr != nil {
		return nil, svcErr
	}
	if task.Status == models.DeliveryStatusDelivered {
		return nil, &ServiceError{StatusCode: 409, Message: "Cannot reassign a completed delivery"}
	}

	newAgent, err := s.repo.FindAgentByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Agent not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch agent"}
	}

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	if oldAgent, err := s.repo.FindAgentByID(ctx, task.AgentID); err == nil && oldAgent.ID != newAgent.ID {
		if oldAgent.ActiveDeliveries > 0 {
			oldAgent.ActiveDeliveries--
		}
		if err := s.repo.UpdateAgent(wctx, oldAgent); err != nil {
			s.logger.Error("Failed to release previous agent", zap.String("agent_id", oldAgent.ID.String()), zap.Error(err))
		}
		newAgent.ActiveDeliveries++
		if err := s.repo.UpdateAgent(wctx, newAgent); err != nil {
			s.logger.Error("Failed to load new agent", zap.String("agent_id", newAgent.ID.String()), zap.Error(err))
		}
	}

	task.AgentID = newAgent.ID
	task.AgentName = newAgent.Name
	task.Zone = newAgent.Zone
	if err := s.repo.UpdateTask(wctx, task); err != nil {
		s.logger.Error("Failed to reassign delivery task", zap.String("task_id", taskID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to reassign delivery task"}
	}

	s.invalidate(ctx, CollectionDelivery)
	return task, nil
}

// Analytics summarizes tasks by zone, status and agent.
func (s *deliveryService) Analytics(ctx context.Context) (*models.DeliveryAnalytics, *ServiceError) {
	tasks, err := s.repo.FindTasks(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch delivery tasks"}
	}
	agents, err := s.repo.FindAgents(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch agents"}
	}

	out := &models.DeliveryAnalytics{
		ByZone:   make(map[string]int),
		ByStatus: make(map[string]int),
		ByAgent:  make([]models.AgentDeliveryStats, 0, len(agents)),
	}
	for _, t := range tasks {
		out.ByZone[t.Zone]++
		out.ByStatus[t.Status]++
	}
	for _, a := range agents {
		out.ByAgent = append(out.ByAgent, models.AgentDeliveryStats{
			Name:   a.Name,
			Total:  a.TotalDeliveries,
			Active: a.ActiveDeliveries,
		})
	}
	return out, nil
}

// AgentPerformance computes a single agent's completion rate from its
// task history.
func (s *deliveryService) AgentPerformance(ctx context.Context, agentID uuid.UUID) (*models.AgentPerformance, *ServiceError) {
	agent, err := s.repo.FindAgentByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Agent not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch agent"}
	}

	tasks, err := s.repo.FindTasksByAgent(ctx, agentID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch agent tasks"}
	}

	completed := 0
	for _, t := range tasks {
		if t.Status == models.DeliveryStatusDelivered {
			completed++
		}
	}

	perf := &models.AgentPerformance{
		Agent:               agent,
		TotalDeliveries:     len(tasks),
		CompletedDeliveries: completed,
		ActiveDeliveries:    agent.ActiveDeliveries,
	}
	if len(tasks) > 0 {
		perf.CompletionRatePct = float64(completed) / float64(len(tasks)) * 100
	}
	return perf, nil
}
