package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"laundryops/internal/common"
	"laundryops/internal/models"
	"laundryops/internal/repositories"
	"laundryops/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const popularItemsLimit = 5

// OrderInput carries the user-editable fields of an order.
type OrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ItemDescription string
	Quantity        int
	PricePerItem    decimal.Decimal
}

// OrderChanges is a partial edit. Status is deliberately absent.
type OrderChanges struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	ItemDescription *string
	Quantity        *int
	PricePerItem    *decimal.Decimal
}

func (c OrderChanges) Empty() bool {
	return c.CustomerName == nil && c.CustomerEmail == nil && c.CustomerPhone == nil &&
		c.ItemDescription == nil && c.Quantity == nil && c.PricePerItem == nil
}

type OrderService interface {
	Create(ctx context.Context, input OrderInput) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, status string) ([]*models.Order, error)
	Update(ctx context.Context, id int64, changes OrderChanges) (*models.Order, error)
	MarkReady(ctx context.Context, id int64) (*models.Order, *models.NotificationReport, error)
	Complete(ctx context.Context, id int64) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (*models.OrderStatistics, error)
	Dashboard(ctx context.Context) (*models.DashboardSummary, error)
	SalesReport(ctx context.Context, from, to time.Time) (*models.SalesReport, error)
	Customers(ctx context.Context) ([]models.Customer, error)
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	notifications NotificationService
	validate      *validator.Validate
	logg          *logger.Logger
	now           func() time.Time
}

func NewOrderService(orderRepo repositories.OrderRepository, notifications NotificationService, logg *logger.Logger) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		notifications: notifications,
		validate:      common.NewValidator(),
		logg:          logg,
		now:           time.Now,
	}
}

func (s *orderService) validateOrder(order *models.Order) error {
	order.CustomerName = strings.TrimSpace(order.CustomerName)
	order.CustomerEmail = strings.TrimSpace(order.CustomerEmail)
	order.CustomerPhone = strings.TrimSpace(order.CustomerPhone)
	order.ItemDescription = strings.TrimSpace(order.ItemDescription)

	if err := s.validate.Struct(order); err != nil {
		return common.ValidationError(err)
	}
	if order.PricePerItem.IsNegative() {
		return common.NewValidationError("price_per_item", "price_per_item must be non-negative")
	}
	return nil
}

// Create validates and stores a new pending order.
func (s *orderService) Create(ctx context.Context, input OrderInput) (*models.Order, error) {
	order := &models.Order{
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ItemDescription: input.ItemDescription,
		Quantity:        input.Quantity,
		PricePerItem:    input.PricePerItem,
		Status:          models.OrderStatusPending,
	}
	if err := s.validateOrder(order); err != nil {
		return nil, err
	}
	order.ComputeTotal()
	order.CreatedAt = s.now().UTC()

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID), "order created")
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, status string) ([]*models.Order, error) {
	if status == "" {
		return s.orderRepo.List(ctx, "")
	}
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, common.NewValidationError("status", err.Error())
	}
	return s.orderRepo.List(ctx, parsed)
}

// Update applies the edit and recomputes the total.
func (s *orderService) Update(ctx context.Context, id int64, changes OrderChanges) (*models.Order, error) {
	if changes.Empty() {
		return nil, common.NewValidationError("", "nothing to update")
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.CustomerName != nil {
		order.CustomerName = *changes.CustomerName
	}
	if changes.CustomerEmail != nil {
		order.CustomerEmail = *changes.CustomerEmail
	}
	if changes.CustomerPhone != nil {
		order.CustomerPhone = *changes.CustomerPhone
	}
	if changes.ItemDescription != nil {
		order.ItemDescription = *changes.ItemDescription
	}
	if changes.Quantity != nil {
		order.Quantity = *changes.Quantity
	}
	if changes.PricePerItem != nil {
		order.PricePerItem = *changes.PricePerItem
	}
	if err := s.validateOrder(order); err != nil {
		return nil, err
	}
	order.ComputeTotal()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkReady moves a pending order to ready, then tries to notify the customer.
// The report describes each channel; delivery failures never undo the transition.
func (s *orderService) MarkReady(ctx context.Context, id int64) (*models.Order, *models.NotificationReport, error) {
	order, err := s.transition(ctx, id, models.OrderStatusReady)
	if err != nil {
		return nil, nil, err
	}

	report := s.notifications.NotifyOrderReady(ctx, order)
	if report.Err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID,
			"error":    report.Err.Error(),
		}), "order ready but notification failed")
	}
	return order, report, nil
}

func (s *orderService) Complete(ctx context.Context, id int64) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusCompleted)
}

func (s *orderService) transition(ctx context.Context, id int64, to models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(to) {
		return nil, common.NewStateConflictError(fmt.Sprintf("order %d cannot move from %s to %s", id, order.Status, to))
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, order.Status, to, s.now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": id,
		"from":     string(order.Status),
		"to":       string(to),
	}), "order status changed")
	return updated, nil
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", id), "order deleted")
	return nil
}

// Statistics counts orders by status. Revenue is the total of every order.
func (s *orderService) Statistics(ctx context.Context) (*models.OrderStatistics, error) {
	orders, err := s.orderRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	stats := &models.OrderStatistics{TotalOrders: len(orders), TotalRevenue: decimal.Zero}
	for _, o := range orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalPrice)
		switch o.Status {
		case models.OrderStatusPending:
			stats.PendingOrders++
		case models.OrderStatusReady:
			stats.ReadyOrders++
		case models.OrderStatusCompleted:
			stats.CompletedOrders++
		}
	}
	return stats, nil
}

// Dashboard summarises today (local calendar day) and the last 24 hours.
func (s *orderService) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	now := s.now()
	start := startOfDay(now)

	today, err := s.orderRepo.ListCreatedBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	pending, err := s.orderRepo.List(ctx, models.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	newCustomers, err := s.orderRepo.CountNewCustomers(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	popular, err := s.orderRepo.PopularItems(ctx, popularItemsLimit)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		DailyRevenue:  decimal.Zero,
		PendingOrders: len(pending),
		NewCustomers:  newCustomers,
		PopularItems:  popular,
	}
	for _, o := range today {
		summary.DailyRevenue = summary.DailyRevenue.Add(o.TotalPrice)
	}
	return summary, nil
}

// SalesReport covers orders created on the calendar days from through to, inclusive.
func (s *orderService) SalesReport(ctx context.Context, from, to time.Time) (*models.SalesReport, error) {
	from, to = startOfDay(from), startOfDay(to)
	if err := common.ValidateDateRange(from, to); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListCreatedBetween(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	report := &models.SalesReport{From: from, To: to, TotalOrders: len(orders), TotalRevenue: decimal.Zero}
	for _, o := range orders {
		report.TotalRevenue = report.TotalRevenue.Add(o.TotalPrice)
		switch o.Status {
		case models.OrderStatusCompleted:
			report.CompletedOrders++
		case models.OrderStatusPending:
			report.PendingOrders++
		}
	}
	return report, nil
}

func (s *orderService) Customers(ctx context.Context) ([]models.Customer, error) {
	return s.orderRepo.ListCustomers(ctx)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
