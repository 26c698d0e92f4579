package controllers

import (
	"procurement-app/procurement/status"
	"procurement-app/services"
	"procurement-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func actorFrom(c *fiber.Ctx) services.Actor {
	userID, _ := c.Locals("userID").(float64)
	username, _ := c.Locals("username").(string)
	role, _ := c.Locals("role").(string)
	return services.Actor{UserID: uint(userID), Username: username, Role: status.Role(role)}
}

func idParam(c *fiber.Ctx) (types.SnowflakeID, error) {
	id, err := types.ParseSnowflakeID(c.Params("id"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// parseBody decodes and validates the JSON body into v.
func parseBody(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
