package notify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Transport sends one composed message to its recipient. Implementations
// decide latency and timeouts; an unresponded-in-time send must come back
// as an error.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// DispatchError reports which copies of an order notification failed.
// Partial delivery still counts as a failed dispatch; nothing reconciles
// the copy that did go out.
type DispatchError struct {
	Business error
	Customer error
}

func (e *DispatchError) Error() string {
	switch {
	case e.Business != nil && e.Customer != nil:
		return fmt.Sprintf("both copies failed: business: %v; customer: %v", e.Business, e.Customer)
	case e.Business != nil:
		return fmt.Sprintf("business copy failed: %v", e.Business)
	default:
		return fmt.Sprintf("customer copy failed: %v", e.Customer)
	}
}

// Dispatcher submits the two notification copies for an order.
type Dispatcher struct {
	transport Transport
}

// NewDispatcher creates a Dispatcher over the given transport.
func NewDispatcher(transport Transport) *Dispatcher {
	return &Dispatcher{transport: transport}
}

// Dispatch submits both copies concurrently and waits for both to settle.
// It returns nil only if both succeeded; otherwise a *DispatchError naming
// the failed copies. Both sends are always attempted, and no attempt is
// ever retried.
func (d *Dispatcher) Dispatch(ctx context.Context, business, customer Message) error {
	var businessErr, customerErr error

	var g errgroup.Group
	g.Go(func() error {
		businessErr = d.transport.Send(ctx, business)
		return businessErr
	})
	g.Go(func() error {
		customerErr = d.transport.Send(ctx, customer)
		return customerErr
	})
	_ = g.Wait()

	if businessErr != nil || customerErr != nil {
		return &DispatchError{Business: businessErr, Customer: customerErr}
	}
	return nil
}
