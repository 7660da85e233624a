package repository

import (
	"context"
	"errors"

	"retail-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryRepository defines data access for delivery agents and tasks.
type DeliveryRepository interface {
	CreateAgent(ctx context.Context, agent *models.DeliveryAgent) error
	FindAgents(ctx context.Context) ([]models.DeliveryAgent, error)
	FindAgentByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAgent, error)
	UpdateAgent(ctx context.Context, agent *models.DeliveryAgent) error
	DeleteAgent(ctx context.Context, id uuid.UUID) error
	CreateTask(ctx context.Context, task *models.DeliveryTask) error
	FindTasks(ctx context.Context) ([]models.DeliveryTask, error)
	FindTaskByID(ctx context.Context, id uuid.UUID) (*models.DeliveryTask, error)
	FindTasksByAgent(ctx context.Context, agentID uuid.UUID) ([]models.DeliveryTask, error)
	UpdateTask(ctx context.Context, task *models.DeliveryTask) error
}

type GormDeliveryRepository struct {
	db *gorm.DB
}

func NewGormDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

func (r *GormDeliveryRepository) CreateAgent(ctx context.Context, agent *models.DeliveryAgent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

// FindAgents lists agents in registration order, which is also the
// tie-break order for least-loaded assignment.
func (r *GormDeliveryRepository) FindAgents(ctx context.Context) ([]models.DeliveryAgent, error) {
	var agents []models.DeliveryAgent
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *GormDeliveryRepository) FindAgentByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAgent, error) {
	var agent models.DeliveryAgent
	if err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &agent, nil
}

func (r *GormDeliveryRepository) UpdateAgent(ctx context.Context, agent *models.DeliveryAgent) error {
	return r.db.WithContext(ctx).Save(agent).Error
}

func (r *GormDeliveryRepository) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.DeliveryAgent{}, "id = ?", id).Error
}

func (r *GormDeliveryRepository) CreateTask(ctx context.Context, task *models.DeliveryTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *GormDeliveryRepository) FindTasks(ctx context.Context) ([]models.DeliveryTask, error) {
	var tasks []models.DeliveryTask
	if err := r.db.WithContext(ctx).Order("assigned_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormDeliveryRepository) FindTaskByID(ctx context.Context, id uuid.UUID) (*models.DeliveryTask, error) {
	var task models.DeliveryTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *GormDeliveryRepository) FindTasksByAgent(ctx context.Context, agentID uuid.UUID) ([]models.DeliveryTask, error) {
	var tasks []models.DeliveryTask
	if err := r.db.WithContext(ctx).Where("agent_id = ?", agentID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormDeliveryRepository) UpdateTask(ctx context.Context, task *models.DeliveryTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}
