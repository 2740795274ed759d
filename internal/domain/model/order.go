package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type OrderItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderCustomer struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Order struct {
	ID                int64           `json:"id"`
	OrderNumber       string          `json:"orderNumber"`
	Status            OrderStatus     `json:"status"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	CreatedAt         time.Time       `json:"createdAt"`
	CustomerID        *int64          `json:"customerId,omitempty"`
	CustomerName      string          `json:"customerName,omitempty"`
	CustomerEmail     string          `json:"customerEmail,omitempty"`
	Customer          *OrderCustomer  `json:"customer,omitempty"`
	CheckoutSessionID string          `json:"checkoutSessionId,omitempty"`
	Items             []OrderItem     `json:"items"`
}

type TrackingEvent struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
}

// GET /orders/{id}/tracking
type OrderTracking struct {
	OrderID         int64           `json:"orderId"`
	Status          OrderStatus     `json:"status"`
	PaymentApproved bool            `json:"paymentApproved"`
	Events          []TrackingEvent `json:"events"`
}

type OrderStatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}

// CustomerLabel は customerName → customer.fullName → "Customer #<id>" の順で決める。
func CustomerLabel(o Order) string {
	if o.CustomerName != "" {
		return o.CustomerName
	}
	if o.Customer != nil && o.Customer.FullName != "" {
		return o.Customer.FullName
	}
	if o.CustomerID != nil {
		return fmt.Sprintf("Customer #%d", *o.CustomerID)
	}
	return "Customer #N/A"
}

// CustomerEmail は customerEmail → customer.email → "No email"。
func CustomerEmail(o Order) string {
	if o.CustomerEmail != "" {
		return o.CustomerEmail
	}
	if o.Customer != nil && o.Customer.Email != "" {
		return o.Customer.Email
	}
	return "No email"
}
