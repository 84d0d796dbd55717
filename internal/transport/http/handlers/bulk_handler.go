package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/core/services"
	"github.com/taskhive/backend/internal/transport/http/dto"
	"github.com/taskhive/backend/internal/transport/http/middleware"
)

type BulkHandler struct {
	bulk ports.BulkImportService
}

func NewBulkHandler(bulk ports.BulkImportService) *BulkHandler {
	return &BulkHandler{bulk: bulk}
}

func (h *BulkHandler) CreateSession(c *fiber.Ctx) error {
	id := h.bulk.CreateSession()
	return c.Status(fiber.StatusCreated).JSON(dto.SessionResponse{SessionID: id})
}

func (h *BulkHandler) AddTitles(c *fiber.Ctx) error {
	var req dto.AddTitlesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	drafts, err := h.bulk.AddTitles(c.Params("id"), req.Text, req.Defaults.ToDefaults())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SessionResponse{SessionID: c.Params("id"), Drafts: drafts})
}

func (h *BulkHandler) ApplyAll(c *fiber.Ctx) error {
	var req dto.ApplyAllRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	drafts, err := h.bulk.ApplyToAll(c.Params("id"), req.Field, req.Defaults.ToDefaults())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SessionResponse{SessionID: c.Params("id"), Drafts: drafts})
}

func (h *BulkHandler) ListDrafts(c *fiber.Ctx) error {
	drafts, err := h.bulk.Drafts(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SessionResponse{SessionID: c.Params("id"), Drafts: drafts})
}

func (h *BulkHandler) UpdateDraft(c *fiber.Ctx) error {
	rowNumber, err := strconv.Atoi(c.Params("rowNumber"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid row number"})
	}

	var req dto.UpdateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	draft, err := h.bulk.UpdateDraft(c.Params("id"), rowNumber, req.ToUpdate())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(draft)
}

func (h *BulkHandler) RemoveDraft(c *fiber.Ctx) error {
	rowNumber, err := strconv.Atoi(c.Params("rowNumber"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid row number"})
	}
	if err := h.bulk.RemoveDraft(c.Params("id"), rowNumber); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Submit dispatches the batch. Validation failures return the annotated
// drafts alongside a 422 so errors can render inline.
func (h *BulkHandler) Submit(c *fiber.Ctx) error {
	result, err := h.bulk.Submit(c.Context(), c.Params("id"), middleware.ActorFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrBulkValidation) && result != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  err.Error(),
				"drafts": result.Retained,
			})
		}
		return fail(c, err)
	}
	return c.JSON(result)
}
