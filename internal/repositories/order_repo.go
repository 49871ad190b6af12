package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"laundryops/internal/common"
	"laundryops/internal/models"

	"github.com/shopspring/decimal"
)

// storeTimeLayout is fixed width so stored timestamps sort and compare as text.
const storeTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatStoreTime(t time.Time) string {
	return t.UTC().Format(storeTimeLayout)
}

func parseStoreTime(raw string) (time.Time, error) {
	return time.Parse(storeTimeLayout, raw)
}

// OrderRepository persists orders in the local sqlite store.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, status models.OrderStatus) ([]*models.Order, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id int64, from, to models.OrderStatus, at time.Time) error
	Delete(ctx context.Context, id int64) error
	PopularItems(ctx context.Context, limit int) ([]models.PopularItem, error)
	CountNewCustomers(ctx context.Context, since time.Time) (int, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, customer_name, customer_email, customer_phone, item_description, quantity, price_per_item, total_price, status, created_at, updated_at, ready_at`

func scanOrder(scanner interface{ Scan(dest ...any) error }) (*models.Order, error) {
	var (
		order      models.Order
		price      string
		total      string
		status     string
		createdRaw string
		updatedRaw string
		readyRaw   sql.NullString
	)
	if err := scanner.Scan(&order.ID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.ItemDescription, &order.Quantity, &price, &total, &status, &createdRaw, &updatedRaw, &readyRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFoundError("order")
		}
		return nil, err
	}

	var err error
	if order.PricePerItem, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("order %d price: %w", order.ID, err)
	}
	if order.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("order %d total: %w", order.ID, err)
	}
	order.Status = models.OrderStatus(status)
	if order.CreatedAt, err = parseStoreTime(createdRaw); err != nil {
		return nil, fmt.Errorf("order %d created_at: %w", order.ID, err)
	}
	if order.UpdatedAt, err = parseStoreTime(updatedRaw); err != nil {
		return nil, fmt.Errorf("order %d updated_at: %w", order.ID, err)
	}
	if readyRaw.Valid {
		ready, err := parseStoreTime(readyRaw.String)
		if err != nil {
			return nil, fmt.Errorf("order %d ready_at: %w", order.ID, err)
		}
		order.ReadyAt = &ready
	}
	return &order, nil
}

func (r *orderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Create stores a new order and fills in its id and timestamps.
func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (customer_name, customer_email, customer_phone, item_description, quantity,
			price_per_item, total_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.ItemDescription, order.Quantity,
		order.PricePerItem.String(), order.TotalPrice.String(), string(order.Status),
		formatStoreTime(order.CreatedAt), formatStoreTime(order.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}
	order.ID = id
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	return scanOrder(row)
}

// List returns orders newest first. An empty status lists every order.
func (r *orderRepo) List(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	if status == "" {
		return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	}
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = ? ORDER BY created_at DESC, id DESC`, string(status))
}

// ListCreatedBetween returns orders with from <= created_at < to.
func (r *orderRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE created_at >= ? AND created_at < ? ORDER BY created_at ASC, id ASC`,
		formatStoreTime(from), formatStoreTime(to))
}

// Update writes the editable fields. Status and ready_at only move through UpdateStatus.
func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET customer_name = ?, customer_email = ?, customer_phone = ?, item_description = ?,
			quantity = ?, price_per_item = ?, total_price = ?, updated_at = ?
		WHERE id = ?`,
		order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.ItemDescription,
		order.Quantity, order.PricePerItem.String(), order.TotalPrice.String(), formatStoreTime(order.UpdatedAt),
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return requireAffected(res, "order")
}

// UpdateStatus moves the order from one status to the next only if it is still in from.
// Entering ready stamps ready_at.
func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, from, to models.OrderStatus, at time.Time) error {
	var readyAt any
	if to == models.OrderStatusReady {
		readyAt = formatStoreTime(at)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, updated_at = ?, ready_at = COALESCE(?, ready_at)
		WHERE id = ? AND status = ?`,
		string(to), formatStoreTime(at), readyAt, id, string(from),
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return common.NewStateConflictError(fmt.Sprintf("order %d is %s, not %s", id, current.Status, from))
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return requireAffected(res, "order")
}

func (r *orderRepo) PopularItems(ctx context.Context, limit int) ([]models.PopularItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_description, COUNT(*) AS orders
		FROM orders
		GROUP BY item_description
		ORDER BY orders DESC, item_description ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("popular items: %w", err)
	}
	defer rows.Close()

	items := []models.PopularItem{}
	for rows.Next() {
		var item models.PopularItem
		if err := rows.Scan(&item.Item, &item.Orders); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountNewCustomers counts distinct emails whose first order was placed at or after since.
func (r *orderRepo) CountNewCustomers(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT LOWER(customer_email) AS email
			FROM orders
			GROUP BY LOWER(customer_email)
			HAVING MIN(created_at) >= ?
		)`, formatStoreTime(since)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count new customers: %w", err)
	}
	return count, nil
}

func (r *orderRepo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT customer_name, customer_email, customer_phone
		FROM orders
		ORDER BY customer_name ASC, customer_email ASC`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func requireAffected(res sql.Result, resource string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.NewNotFoundError(resource)
	}
	return nil
}
