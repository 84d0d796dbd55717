package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/core/services"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/infrastructure/logger"
	"github.com/taskhive/backend/internal/transport/http/dto"
	"github.com/taskhive/backend/internal/transport/http/middleware"
)

type TaskHandler struct {
	lifecycle ports.LifecycleService
	history   ports.HistoryService
	logger    *logger.Logger
}

func NewTaskHandler(lifecycle ports.LifecycleService, history ports.HistoryService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{lifecycle: lifecycle, history: history, logger: logger}
}

// List applies the filter engine to the full task set. Query params:
// scope, status, priority, task_type, company_name, brand, due, search.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)

	tasks, err := h.lifecycle.List(c.Context())
	if err != nil {
		return fail(c, err)
	}

	filter := services.TaskFilter{
		Scope:       services.OwnershipScope(c.Query("scope", string(services.ScopeAll))),
		Status:      services.StatusFilter(c.Query("status")),
		Priority:    domain.TaskPriority(c.Query("priority")),
		TaskType:    c.Query("task_type"),
		CompanyName: c.Query("company_name"),
		Brand:       c.Query("brand"),
		Due:         services.DueBucket(c.Query("due")),
		Search:      c.Query("search"),
	}

	visible := services.VisibleTasks(tasks, actor, filter)
	return c.JSON(visible)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	task, err := h.lifecycle.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	entries, _ := h.history.EntriesFor(c.Context(), task.ID)
	badge := services.BadgeFor(task, entries)
	return c.JSON(dto.NewTaskResponse(task, badge, services.IsOverdue(task, time.Now())))
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := req.Validate(); len(fields) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Error: "validation failed", Fields: fields})
	}

	task, err := h.lifecycle.Create(c.Context(), req.ToInput(), middleware.ActorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := req.Validate(); len(fields) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Error: "validation failed", Fields: fields})
	}

	task, err := h.lifecycle.Edit(c.Context(), c.Params("id"), req.ToInput(), middleware.ActorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.Delete(c.Context(), c.Params("id"), middleware.ActorFrom(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *TaskHandler) MarkCompleted(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.MarkCompleted)
}

func (h *TaskHandler) MarkPending(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.MarkPending)
}

func (h *TaskHandler) AdminApprove(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.AdminApprove)
}

func (h *TaskHandler) AdminReject(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.AdminReject)
}

func (h *TaskHandler) PermanentApprove(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.PermanentApprove)
}

func (h *TaskHandler) RemovePermanentApproval(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.RemovePermanentApproval)
}

func (h *TaskHandler) Reassign(c *fiber.Ctx) error {
	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := req.Validate(); len(fields) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Error: "validation failed", Fields: fields})
	}

	task, err := h.lifecycle.Reassign(c.Context(), c.Params("id"), req.AssignedTo, middleware.ActorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) BulkStatus(c *fiber.Ctx) error {
	var req dto.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if fields := req.Validate(); len(fields) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Error: "validation failed", Fields: fields})
	}

	result, err := h.lifecycle.BulkSetStatus(c.Context(), req.TaskIDs, req.Completed, middleware.ActorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func (h *TaskHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error)) error {
	task, err := fn(c.Context(), c.Params("id"), middleware.ActorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(task)
}
