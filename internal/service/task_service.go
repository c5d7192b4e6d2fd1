package service

import (
	"context"
	"strings"
	"time"

	"taskpilot/internal/entity"
	"taskpilot/internal/repository"

	"github.com/google/uuid"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    entity.TaskPriority
	DueDate     *time.Time
}

// UpdateTaskInput has pointer fields so a field changes only when it
// was explicitly present in the request.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *entity.TaskStatus
	Priority    *entity.TaskPriority
	DueDate     *time.Time
}

type TaskStats struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
}

type TaskService struct {
	tasks repository.TaskRepository
}

func NewTaskService(tasks repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) List(ctx context.Context, userID uuid.UUID, filter repository.TaskFilter) ([]entity.Task, error) {
	return s.tasks.List(ctx, userID, filter)
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*entity.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = entity.TaskPriorityMedium
	}

	task := &entity.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      entity.TaskStatusPending,
		Priority:    priority,
		DueDate:     input.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*entity.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*entity.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete folds a missing task and a task owned by someone else into
// the same not-found result.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	deleted, err := s.tasks.Delete(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

// Stats reads the four counts independently; they are not a snapshot
// of a single instant.
func (s *TaskService) Stats(ctx context.Context, userID uuid.UUID) (*TaskStats, error) {
	total, err := s.tasks.Count(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	pending, err := s.tasks.Count(ctx, userID, entity.TaskStatusPending)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.tasks.Count(ctx, userID, entity.TaskStatusInProgress)
	if err != nil {
		return nil, err
	}
	completed, err := s.tasks.Count(ctx, userID, entity.TaskStatusCompleted)
	if err != nil {
		return nil, err
	}

	return &TaskStats{
		Total:      total,
		Pending:    pending,
		InProgress: inProgress,
		Completed:  completed,
	}, nil
}
