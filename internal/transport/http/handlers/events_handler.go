package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/infrastructure/logger"
)

// EventsHandler streams appended ledger entries to websocket clients so the
// activity feed updates without polling.
type EventsHandler struct {
	history ports.HistoryService
	logger  *logger.Logger
}

func NewEventsHandler(history ports.HistoryService, logger *logger.Logger) *EventsHandler {
	return &EventsHandler{history: history, logger: logger}
}

func (h *EventsHandler) Handle(c *websocket.Conn) {
	entries, cancel := h.history.Subscribe()
	defer cancel()
	defer c.Close()

	h.logger.Infow("events_ws_connected", "remote", c.RemoteAddr().String())

	// Drain reads so close frames are processed; the stream is write-only.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			if err := c.WriteJSON(entry); err != nil {
				h.logger.Warnw("events_ws_write_failed", "error", err)
				return
			}
		case <-done:
			return
		}
	}
}
