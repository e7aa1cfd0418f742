package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/benytrp/e3-ordertst/internal/models"
	"github.com/benytrp/e3-ordertst/internal/notify"
	"github.com/benytrp/e3-ordertst/internal/ordernum"
	"github.com/benytrp/e3-ordertst/pkg/rabbitmq"
)

var (
	ErrMissingCustomerInfo = errors.New("customer name and email are required")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrDispatchFailed      = errors.New("failed to send order notifications")
)

// EventPublisher publishes order lifecycle events. It may be nil, in
// which case publication is skipped.
type EventPublisher interface {
	PublishOrderPlaced(event rabbitmq.OrderPlacedEvent) error
}

// IntakeService handles one order submission end to end: validation,
// order number assignment, message composition and the dual dispatch.
type IntakeService struct {
	validate   *validator.Validate
	numbers    *ordernum.Generator
	composer   *notify.Composer
	dispatcher *notify.Dispatcher
	events     EventPublisher
}

// NewIntakeService creates a new IntakeService.
func NewIntakeService(numbers *ordernum.Generator, composer *notify.Composer, dispatcher *notify.Dispatcher, events EventPublisher) *IntakeService {
	return &IntakeService{
		validate:   validator.New(),
		numbers:    numbers,
		composer:   composer,
		dispatcher: dispatcher,
		events:     events,
	}
}

// PlaceOrder runs one submission through validation, numbering,
// composition and dispatch. The returned record is ephemeral: it lives
// for this request only and is never stored.
func (s *IntakeService) PlaceOrder(ctx context.Context, order models.Order) (*models.OrderRecord, error) {
	if err := s.validateOrder(order); err != nil {
		return nil, err
	}

	record := &models.OrderRecord{
		Order:       order,
		OrderNumber: s.numbers.Next(),
	}

	business, customer := s.composer.Compose(record.Order, record.OrderNumber)

	if err := s.dispatcher.Dispatch(ctx, business, customer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	// Best-effort: a lost event never fails an order whose notifications
	// already went out.
	s.publishOrderPlaced(record)

	return record, nil
}

// validateOrder checks the submission for structural completeness, first
// failure wins: customer identity before the item list. Email syntax,
// numeric ranges and currency formats are deliberately not checked here;
// quantities, prices, subtotals and the declared total are trusted as
// submitted.
func (s *IntakeService) validateOrder(order models.Order) error {
	err := s.validate.Struct(order)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		// Field order in the struct gives customer failures precedence.
		first := verrs[0]
		if strings.Contains(first.Namespace(), "Customer") {
			return ErrMissingCustomerInfo
		}
		if first.Field() == "Items" {
			return ErrEmptyOrder
		}
	}
	return err
}

func (s *IntakeService) publishOrderPlaced(record *models.OrderRecord) {
	if s.events == nil {
		log.Println("Event publisher is not configured. Skipping order event publication.")
		return
	}

	event := rabbitmq.OrderPlacedEvent{
		MessageID:   uuid.New().String(),
		OrderNumber: record.OrderNumber,
		Customer:    record.Customer.Name,
		Total:       record.Total,
		ItemCount:   len(record.Items),
		OrderDate:   record.OrderDate,
	}

	if err := s.events.PublishOrderPlaced(event); err != nil {
		log.Printf("Warning: failed to publish order placed event for %s: %v", record.OrderNumber, err)
		return
	}
	log.Printf("Published order placed event for %s", record.OrderNumber)
}
