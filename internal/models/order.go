package models

import "time"

// Customer holds the contact details submitted with an order.
// Only name and email are required; everything else is optional free text.
type Customer struct {
	Name                string `json:"name" validate:"required"`
	Email               string `json:"email" validate:"required"`
	Phone               string `json:"phone,omitempty"`
	Address             string `json:"address,omitempty"`
	StudentName         string `json:"studentName,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// LineItem represents a single row of an order.
// Quantity, price and subtotal are taken as submitted by the form; the
// server formats but never recomputes them.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

// Order represents one customer's submitted purchase request.
type Order struct {
	Customer  *Customer  `json:"customer" validate:"required"`
	Items     []LineItem `json:"items" validate:"required,min=1"`
	Total     float64    `json:"total"`
	OrderDate time.Time  `json:"orderDate"`
}

// OrderRecord is an Order together with its generated order number.
// It exists only for the duration of one request; nothing stores it.
type OrderRecord struct {
	Order
	OrderNumber string `json:"orderNumber"`
}

// OrderResponse is the success payload returned to the form.
type OrderResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber"`
	Message     string `json:"message"`
}

// ErrorResponse is the failure payload returned to the form.
type ErrorResponse struct {
	Error string `json:"error"`
}
