package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/transport/http/dto"
)

type HistoryHandler struct {
	history ports.HistoryService
}

func NewHistoryHandler(history ports.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

type historyEntryView struct {
	domain.HistoryEntry
	Label string `json:"label"`
	// Custom marks an action outside the standard vocabulary; its raw value
	// doubles as the label.
	Custom bool `json:"custom,omitempty"`
}

func newHistoryEntryView(e domain.HistoryEntry) historyEntryView {
	return historyEntryView{
		HistoryEntry: e,
		Label:        domain.ActionLabel(e.Action),
		Custom:       !domain.KnownAction(e.Action),
	}
}

// GetForTask returns the merged ledger, most recent first. Unknown actions
// pass through with their raw value as the label.
func (h *HistoryHandler) GetForTask(c *fiber.Ctx) error {
	entries, err := h.history.EntriesFor(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	views := make([]historyEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newHistoryEntryView(e))
	}
	return c.JSON(views)
}

// Recent returns the newest ledger entries across all tasks for the
// activity feed. The optional limit query param caps the page size.
func (h *HistoryHandler) Recent(c *fiber.Ctx) error {
	entries, err := h.history.Recent(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	views := make([]historyEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newHistoryEntryView(e))
	}
	return c.JSON(views)
}
