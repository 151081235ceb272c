package handler

import "github.com/gofiber/fiber/v2"

// envelope is the standard JSON response body for all dossier endpoints.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// writeData writes a success envelope with a payload.
func writeData(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// writeMessage writes a success envelope without a payload.
func writeMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Message: message,
	})
}

// writeError writes a failure envelope. The message must be safe for clients:
// no internal paths or storage details.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{
		Success: false,
		Message: message,
	})
}

// writeValidationErrors writes the 422 envelope with field-level violations.
func writeValidationErrors(c *fiber.Ctx, fields map[string][]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  fields,
	})
}
