package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/transport/http/dto"
	"github.com/taskhive/backend/internal/transport/http/middleware"
)

type CommentHandler struct {
	comments ports.CommentService
}

func NewCommentHandler(comments ports.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	comments, err := h.comments.List(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comments)
}

func (h *CommentHandler) Add(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	comment, err := h.comments.Add(c.Context(), c.Params("id"), req.Content, middleware.ActorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	err := h.comments.Delete(c.Context(), c.Params("id"), c.Params("commentId"), middleware.ActorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
