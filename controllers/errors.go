package controllers

import (
	"errors"

	"procurement-app/procurement/allocation"
	"procurement-app/procurement/status"
	"procurement-app/procurement/verification"
	"procurement-app/repositories"
	"procurement-app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the fiber.Config ErrorHandler. Handlers return domain
// errors as they are and this maps them to a status and a JSON body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, body := errorResponse(err)
	if code >= fiber.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("request_id")),
			zap.Error(err))
	}
	return c.Status(code).JSON(body)
}

func errorResponse(err error) (int, fiber.Map) {
	body := fiber.Map{"success": false, "message": err.Error()}

	var fe *fiber.Error
	var incomplete *allocation.IncompleteAllocationError
	switch {
	case errors.As(err, &fe):
		return fe.Code, body
	case errors.As(err, &incomplete):
		body["lines"] = incomplete.Lines
		return fiber.StatusUnprocessableEntity, body
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound, body
	case errors.Is(err, status.ErrRoleNotAllowed):
		return fiber.StatusForbidden, body
	case errors.Is(err, status.ErrTransitionNotAllowed),
		errors.Is(err, services.ErrNotEditable),
		errors.Is(err, repositories.ErrDuplicate),
		errors.Is(err, services.ErrReceiptNotAllowed),
		errors.Is(err, verification.ErrSourceOverrideNotAllowed):
		return fiber.StatusConflict, body
	case errors.Is(err, allocation.ErrInvalidQuantity),
		errors.Is(err, status.ErrUnknownStatus),
		errors.Is(err, verification.ErrUnknownLine),
		errors.Is(err, services.ErrInvalidLine),
		errors.Is(err, services.ErrInvalidRole):
		return fiber.StatusBadRequest, body
	case errors.Is(err, services.ErrReceiptsDisabled):
		return fiber.StatusServiceUnavailable, body
	case errors.Is(err, allocation.ErrStockFetch):
		return fiber.StatusBadGateway, body
	}
	return fiber.StatusInternalServerError, fiber.Map{"success": false, "message": "Internal server error"}
}
