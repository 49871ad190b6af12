package repositories

import (
	"context"
	"errors"
	"fmt"

	"laundryops/internal/common"
	"laundryops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use. pgxmock satisfies it in tests.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InventoryRepository owns items and their ledger. Quantity is only ever changed by
// ApplyAdjustment or by the ledger entry passed to Create/Update, in the same
// database transaction as the ledger insert.
type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem, initial *models.InventoryTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, filter *models.InventorySearchFilter) ([]*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem, entry *models.InventoryTransaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	ApplyAdjustment(ctx context.Context, entry *models.InventoryTransaction) (*models.InventoryItem, error)
	ListTransactions(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
	ListLowStock(ctx context.Context) ([]*models.InventoryItem, error)
}

type inventoryRepo struct {
	db DBTX
}

func NewInventoryRepo(db DBTX) InventoryRepository {
	return &inventoryRepo{db: db}
}

// numericOutOfRange is the SQLSTATE Postgres raises when a NUMERIC column would overflow.
const numericOutOfRange = "22003"

const itemColumns = `id, name, category, description, quantity, unit, reorder_level, cost_per_unit, supplier, created_at, updated_at`

func scanItem(row pgx.Row) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Description, &item.Quantity, &item.Unit,
		&item.ReorderLevel, &item.CostPerUnit, &item.Supplier, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("inventory item")
		}
		return nil, err
	}
	return item, nil
}

func collectItems(rows pgx.Rows) ([]*models.InventoryItem, error) {
	defer rows.Close()

	items := []*models.InventoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create inserts the item at zero and applies the initial ledger entry in one transaction.
func (r *inventoryRepo) Create(ctx context.Context, item *models.InventoryItem, initial *models.InventoryTransaction) error {
	if initial == nil || initial.Type != models.TransactionInitial {
		return fmt.Errorf("create item %s: an initial ledger entry is required", item.ID)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO inventory_items (id, name, category, description, quantity, unit, reorder_level, cost_per_unit, supplier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, query, item.ID, item.Name, item.Category, item.Description, item.Unit,
		item.ReorderLevel, item.CostPerUnit, item.Supplier); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	initial.ItemID = item.ID
	stored, err := applyEntry(ctx, tx, initial)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	*item = *stored
	return nil
}

func (r *inventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return scanItem(r.db.QueryRow(ctx, query, id))
}

// List applies the optional filters; results are ordered by name.
func (r *inventoryRepo) List(ctx context.Context, filter *models.InventorySearchFilter) ([]*models.InventoryItem, error) {
	if filter == nil {
		filter = &models.InventorySearchFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE 1=1`
	args := []any{}

	if filter.Query != "" {
		args = append(args, filter.Query)
		query += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%' ESCAPE '\'`, len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if filter.LowStockOnly {
		query += ` AND quantity <= reorder_level`
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return collectItems(rows)
}

// Update writes every column except quantity. A non-nil entry is applied in the same
// transaction; it is how a quantity edit reaches the ledger.
func (r *inventoryRepo) Update(ctx context.Context, item *models.InventoryItem, entry *models.InventoryTransaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE inventory_items
		SET name = $1, category = $2, description = $3, unit = $4, reorder_level = $5,
			cost_per_unit = $6, supplier = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING ` + itemColumns
	stored, err := scanItem(tx.QueryRow(ctx, query, item.Name, item.Category, item.Description, item.Unit,
		item.ReorderLevel, item.CostPerUnit, item.Supplier, item.ID))
	if err != nil {
		return err
	}

	if entry != nil {
		entry.ItemID = item.ID
		if stored, err = applyEntry(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	*item = *stored
	return nil
}

// Delete removes the item; its ledger rows go with it through ON DELETE CASCADE.
func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("inventory item")
	}
	return nil
}

// ApplyAdjustment moves the item's quantity by entry.QuantityDelta and appends entry to
// the ledger. Either both happen or neither does.
func (r *inventoryRepo) ApplyAdjustment(ctx context.Context, entry *models.InventoryTransaction) (*models.InventoryItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	item, err := applyEntry(ctx, tx, entry)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return item, nil
}

// applyEntry relies on the row lock taken by the relative UPDATE to serialise
// concurrent adjustments of the same item.
func applyEntry(ctx context.Context, tx pgx.Tx, entry *models.InventoryTransaction) (*models.InventoryItem, error) {
	update := `
		UPDATE inventory_items
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + itemColumns
	item, err := scanItem(tx.QueryRow(ctx, update, entry.QuantityDelta, entry.ItemID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == numericOutOfRange {
			return nil, common.NewValidationError("quantity", "resulting quantity is out of range")
		}
		return nil, err
	}

	insert := `
		INSERT INTO inventory_transactions (id, item_id, transaction_type, quantity_delta, reference_type, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, insert, entry.ID, entry.ItemID, string(entry.Type), entry.QuantityDelta,
		entry.ReferenceType, entry.ReferenceID, entry.Notes).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", err)
	}
	return item, nil
}

// ListTransactions returns the item's ledger, newest first.
func (r *inventoryRepo) ListTransactions(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	query := `
		SELECT id, item_id, transaction_type, quantity_delta, reference_type, reference_id, notes, created_at
		FROM inventory_transactions
		WHERE item_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	entries := []*models.InventoryTransaction{}
	for rows.Next() {
		entry := &models.InventoryTransaction{}
		var txType string
		if err := rows.Scan(&entry.ID, &entry.ItemID, &txType, &entry.QuantityDelta, &entry.ReferenceType,
			&entry.ReferenceID, &entry.Notes, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Type = models.TransactionType(txType)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *inventoryRepo) ListLowStock(ctx context.Context) ([]*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE quantity <= reorder_level ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectItems(rows)
}
