package handler

import (
	"taskpilot/api/middleware"
	"taskpilot/internal/dto"
	"taskpilot/internal/entity"
	"taskpilot/internal/repository"
	"taskpilot/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type TaskHandler struct {
	Service  *service.TaskService
	Validate *validator.Validate
	Logger   logrus.FieldLogger
}

func NewTaskHandler(svc *service.TaskService, validate *validator.Validate, logger logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{Service: svc, Validate: validate, Logger: logger}
}

func (h *TaskHandler) List(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	// Unknown status or priority values simply match no rows.
	filter := repository.TaskFilter{
		Status:   entity.TaskStatus(c.QueryParam("status")),
		Priority: entity.TaskPriority(c.QueryParam("priority")),
		Search:   c.QueryParam("search"),
	}
	tasks, err := h.Service.List(c.Request().Context(), userID, filter)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return ok(c, body{"tasks": dto.TaskResponsesFromEntities(tasks)})
}

func (h *TaskHandler) Create(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	var req dto.CreateTaskRequest
	if err := decodeJSON(c, &req); err != nil {
		return fail(c, "invalid request body")
	}
	if err := h.validate(req); err != nil {
		return fail(c, "invalid task fields")
	}
	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    entity.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	}
	task, err := h.Service.Create(c.Request().Context(), userID, input)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return ok(c, body{"message": "task created successfully", "task": dto.TaskResponseFromEntity(task)})
}

func (h *TaskHandler) Get(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fail(c, service.ErrTaskNotFound.Error())
	}
	task, err := h.Service.Get(c.Request().Context(), userID, taskID)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return ok(c, body{"task": dto.TaskResponseFromEntity(task)})
}

func (h *TaskHandler) Update(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fail(c, service.ErrTaskNotFound.Error())
	}
	var req dto.UpdateTaskRequest
	if err := decodeJSON(c, &req); err != nil {
		return fail(c, "invalid request body")
	}
	if err := h.validate(req); err != nil {
		return fail(c, "invalid task fields")
	}
	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := entity.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := entity.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	task, err := h.Service.Update(c.Request().Context(), userID, taskID, input)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return ok(c, body{"message": "task updated successfully", "task": dto.TaskResponseFromEntity(task)})
}

func (h *TaskHandler) Delete(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fail(c, service.ErrTaskNotFound.Error())
	}
	if err := h.Service.Delete(c.Request().Context(), userID, taskID); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return okMessage(c, "task deleted successfully")
}

func (h *TaskHandler) Stats(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	stats, err := h.Service.Stats(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return ok(c, body{"stats": dto.TaskStatsResponseFromStats(stats)})
}

func (h *TaskHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
