package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Health reports process liveness for supervision. Always 200.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
