package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a customer order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
)

var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusReady, OrderStatusCompleted}

// nextOrderStatus is the only forward move allowed from each state.
var nextOrderStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending: OrderStatusReady,
	OrderStatusReady:   OrderStatusCompleted,
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, s := range OrderStatuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", value)
}

// CanTransitionTo reports whether to is the single next state after s.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	next, ok := nextOrderStatus[s]
	return ok && next == to
}

// Order is a customer order tracked by the order tool.
type Order struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customer_name" validate:"required"`
	CustomerEmail   string          `json:"customer_email" validate:"required,email"`
	CustomerPhone   string          `json:"customer_phone" validate:"omitempty,phone"`
	ItemDescription string          `json:"item_description" validate:"required"`
	Quantity        int             `json:"quantity" validate:"gt=0"`
	PricePerItem    decimal.Decimal `json:"price_per_item"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ReadyAt         *time.Time      `json:"ready_at"`
}

// ComputeTotal sets TotalPrice to Quantity x PricePerItem.
func (o *Order) ComputeTotal() {
	o.TotalPrice = o.PricePerItem.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// OrderStatistics summarises every stored order.
type OrderStatistics struct {
	TotalOrders     int             `json:"total_orders"`
	PendingOrders   int             `json:"pending_orders"`
	ReadyOrders     int             `json:"ready_orders"`
	CompletedOrders int             `json:"completed_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

type PopularItem struct {
	Item   string `json:"item"`
	Orders int    `json:"orders"`
}

// DashboardSummary is the at-a-glance view of the shop.
type DashboardSummary struct {
	DailyRevenue  decimal.Decimal `json:"daily_revenue"`
	PendingOrders int             `json:"pending_orders"`
	NewCustomers  int             `json:"new_customers"`
	PopularItems  []PopularItem   `json:"popular_items"`
}

// SalesReport covers orders created within [From, To] inclusive by calendar day.
type SalesReport struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	TotalOrders     int             `json:"total_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	CompletedOrders int             `json:"completed_orders"`
	PendingOrders   int             `json:"pending_orders"`
}

// Customer is a distinct customer derived from order history.
type Customer struct {
	Name  string `json:"customer_name"`
	Email string `json:"customer_email"`
	Phone string `json:"customer_phone"`
}
