package repository

import (
	"context"
	"errors"

	"taskpilot/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskFilter narrows a listing. Zero values mean "no constraint";
// Search matches title or description case-insensitively.
type TaskFilter struct {
	Status   entity.TaskStatus
	Priority entity.TaskPriority
	Search   string
}

type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	FindByID(ctx context.Context, userID, taskID uuid.UUID) (*entity.Task, error)
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, userID, taskID uuid.UUID) (bool, error)
	Count(ctx context.Context, userID uuid.UUID, status entity.TaskStatus) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, userID, taskID uuid.UUID) (*entity.Task, error) {
	var task entity.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]entity.Task, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var tasks []entity.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete reports whether a row was actually removed so the caller can
// fold a foreign-owned or missing task into the same not-found result.
func (r *taskRepository) Delete(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&entity.Task{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Count with an empty status counts all of the owner's tasks.
func (r *taskRepository) Count(ctx context.Context, userID uuid.UUID, status entity.TaskStatus) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
