package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/backend/internal/core/services"
	"github.com/taskhive/backend/internal/transport/http/dto"
)

// statusFor maps service sentinels onto HTTP codes: permission denials are
// 403, lookups 404, validation 422, everything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrBulkSessionNotFound),
		errors.Is(err, services.ErrBulkDraftNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrPermissionDenied),
		errors.Is(err, services.ErrNotAssigner),
		errors.Is(err, services.ErrNotAdmin),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrApprovalLocked),
		errors.Is(err, services.ErrCommentNotAuthor):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrTaskInvalidInput),
		errors.Is(err, services.ErrNotCompleted),
		errors.Is(err, services.ErrNotPermanentlyApproved),
		errors.Is(err, services.ErrBulkDefaultUnset),
		errors.Is(err, services.ErrBulkUnknownField),
		errors.Is(err, services.ErrBulkValidation),
		errors.Is(err, services.ErrBulkNoDrafts),
		errors.Is(err, services.ErrCommentEmpty):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrUserExists):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(dto.ErrorResponse{Error: err.Error()})
}
