package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/benytrp/e3-ordertst/internal/models"
	"github.com/benytrp/e3-ordertst/internal/ratelimit"
	"github.com/benytrp/e3-ordertst/internal/services"
)

// User-facing copy. Internal failure detail is logged server-side and
// never echoed to the form.
const (
	rateLimitedMessage   = "Too many order submissions. Please wait a few minutes and try again."
	internalErrorMessage = "We could not process your order right now. Please try again or contact us directly."
	orderPlacedMessage   = "Order submitted successfully. A confirmation email is on its way."
)

// OrderHandler handles HTTP requests for order submissions.
type OrderHandler struct {
	service *services.IntakeService
	gate    ratelimit.Gate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.IntakeService, gate ratelimit.Gate) *OrderHandler {
	return &OrderHandler{
		service: service,
		gate:    gate,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleSubmitOrder)
}

// HandleSubmitOrder accepts one order submission: rate gate, body parse,
// then the intake service. Outcomes map to 200, 400, 429 or 500.
func (h *OrderHandler) HandleSubmitOrder(c *fiber.Ctx) error {
	identity := c.IP()

	allowed, err := h.gate.Allow(c.Context(), identity)
	if err != nil {
		// The gate is advisory; a broken backing store must not block orders.
		log.Printf("Rate gate error for %s, admitting: %v", identity, err)
		allowed = true
	}
	if !allowed {
		return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
			Error: rateLimitedMessage,
		})
	}

	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	record, err := h.service.PlaceOrder(c.Context(), order)
	if err != nil {
		if errors.Is(err, services.ErrMissingCustomerInfo) || errors.Is(err, services.ErrEmptyOrder) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: err.Error(),
			})
		}
		log.Printf("Error placing order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: internalErrorMessage,
		})
	}

	return c.JSON(models.OrderResponse{
		Success:     true,
		OrderNumber: record.OrderNumber,
		Message:     orderPlacedMessage,
	})
}
