package dto

import (
	"time"

	"taskpilot/internal/entity"
	"taskpilot/internal/service"
)

type CreateTaskRequest struct {
	// Title presence is enforced by the service so the rejection reads
	// the same regardless of how the field was omitted.
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate" validate:"omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty"`
	Description *string    `json:"description" validate:"omitempty"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate" validate:"omitempty"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TaskStatsResponse struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
}

func TaskResponseFromEntity(task *entity.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func TaskResponsesFromEntities(tasks []entity.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, TaskResponseFromEntity(&tasks[i]))
	}
	return responses
}

func TaskStatsResponseFromStats(stats *service.TaskStats) TaskStatsResponse {
	return TaskStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
	}
}
