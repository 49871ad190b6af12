package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"laundryops/internal/caching"
	"laundryops/internal/common"
	"laundryops/internal/models"
	"laundryops/internal/repositories"
	"laundryops/pkg/logger"
	"laundryops/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NegativeStockWarning is attached to results whose item ended below zero.
// Over-consumption is allowed; the warning makes it visible.
const NegativeStockWarning = "resulting quantity is negative"

type InventoryService interface {
	Create(ctx context.Context, item *models.InventoryItem, notes *string) (*models.AdjustmentResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, filter *models.InventorySearchFilter) ([]*models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, changes *models.InventoryItemChanges) (*models.AdjustmentResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Adjust(ctx context.Context, adjustment models.Adjustment) (*models.AdjustmentResult, error)
	Consume(ctx context.Context, adjustment models.Adjustment) (*models.AdjustmentResult, error)
	LowStock(ctx context.Context) ([]*models.InventoryItem, error)
	History(ctx context.Context, id uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	cacheService  caching.CacheService
	metrics       *metrics.InventoryMetrics
	logg          *logger.Logger

	// cacheMu orders cache fills against invalidations. generations counts the
	// invalidations of each item; a fill is dropped if the count moved during its read.
	cacheMu     sync.Mutex
	generations map[uuid.UUID]uint64
}

func NewInventoryService(inventoryRepo repositories.InventoryRepository, cacheService caching.CacheService, m *metrics.InventoryMetrics, logg *logger.Logger) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		cacheService:  cacheService,
		metrics:       m,
		logg:          logg,
		generations:   map[uuid.UUID]uint64{},
	}
}

func validateItem(item *models.InventoryItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return common.NewValidationError("name", "name is required")
	}
	if len(item.Name) > 100 {
		return common.NewValidationError("name", "name must be at most 100 characters")
	}
	if !slices.Contains(models.ItemCategories, item.Category) {
		return common.NewValidationError("category", fmt.Sprintf("category must be one of: %s", strings.Join(models.ItemCategories, ", ")))
	}
	if !slices.Contains(models.ItemUnits, item.Unit) {
		return common.NewValidationError("unit", fmt.Sprintf("unit must be one of: %s", strings.Join(models.ItemUnits, ", ")))
	}
	if item.ReorderLevel.IsNegative() {
		return common.NewValidationError("reorder_level", "reorder_level cannot be negative")
	}
	if err := models.CheckQuantity(item.ReorderLevel); err != nil {
		return common.NewValidationError("reorder_level", err.Error())
	}
	if item.CostPerUnit.Valid {
		cost := item.CostPerUnit.Decimal
		if cost.IsNegative() {
			return common.NewValidationError("cost_per_unit", "cost_per_unit cannot be negative")
		}
		if !cost.Equal(cost.Round(2)) || cost.GreaterThanOrEqual(maxCostPerUnit) {
			return common.NewValidationError("cost_per_unit", "cost_per_unit must have at most 2 decimal places and be below 10000000000")
		}
	}
	return nil
}

// maxCostPerUnit is the first value NUMERIC(12,2) cannot hold.
var maxCostPerUnit = decimal.New(1, 10)

// ledgerError maps sign policy failures onto validation errors for the quantity field.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, models.ErrUnknownTransactionType):
		return common.NewValidationError("transaction_type", err.Error())
	case errors.Is(err, models.ErrInvalidMagnitude):
		return common.NewValidationError("quantity", err.Error())
	default:
		return err
	}
}

// Create stores a new item whose starting quantity is recorded as an initial ledger entry.
func (s *inventoryService) Create(ctx context.Context, item *models.InventoryItem, notes *string) (*models.AdjustmentResult, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if item.Quantity.IsNegative() {
		return nil, common.NewValidationError("quantity", "quantity cannot be negative")
	}

	item.ID = uuid.New()
	initial, err := models.Adjustment{
		ItemID:   item.ID,
		Type:     models.TransactionInitial,
		Quantity: item.Quantity,
		Notes:    notes,
	}.Entry()
	if err != nil {
		return nil, ledgerError(err)
	}

	if err := s.inventoryRepo.Create(ctx, item, initial); err != nil {
		return nil, err
	}
	s.metrics.IncAdjustment(string(initial.Type))

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_id":  item.ID.String(),
		"quantity": item.Quantity.String(),
	}), "inventory item created")
	return &models.AdjustmentResult{Item: item, Transaction: initial}, nil
}

// GetByID reads through the item cache. Cache failures only cost a database read.
func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	cached, err := s.cacheService.GetItem(ctx, id)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "item cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	generation := s.generation(id)
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fillCache(ctx, item, generation)
	return item, nil
}

func (s *inventoryService) generation(id uuid.UUID) uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generations[id]
}

// fillCache stores item unless a write invalidated it after generation was read.
// The write may have committed after our SELECT, so the row could be stale.
func (s *inventoryService) fillCache(ctx context.Context, item *models.InventoryItem, generation uint64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generations[item.ID] != generation {
		s.logg.Debug(s.logg.WithField(ctx, "item_id", item.ID.String()), "item changed during read, cache fill skipped")
		return
	}
	if err := s.cacheService.SetItem(ctx, item); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "item cache write failed")
	}
}

func (s *inventoryService) List(ctx context.Context, filter *models.InventorySearchFilter) ([]*models.InventoryItem, error) {
	if filter == nil {
		filter = &models.InventorySearchFilter{}
	}
	if filter.Category != "" && !slices.Contains(models.ItemCategories, filter.Category) {
		return nil, common.NewValidationError("category", fmt.Sprintf("category must be one of: %s", strings.Join(models.ItemCategories, ", ")))
	}
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	return s.inventoryRepo.List(ctx, filter)
}

// Update edits item fields. A quantity that differs from the stored one is
// recorded as an adjustment entry of new minus old.
func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, changes *models.InventoryItemChanges) (*models.AdjustmentResult, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes.Apply(item)
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if changes.Quantity != nil {
		if changes.Quantity.IsNegative() {
			return nil, common.NewValidationError("quantity", "quantity cannot be negative")
		}
		if err := models.CheckQuantity(*changes.Quantity); err != nil {
			return nil, ledgerError(err)
		}
	}

	var entry *models.InventoryTransaction
	if changes.Quantity != nil && !changes.Quantity.Equal(item.Quantity) {
		entry, err = models.Adjustment{
			ItemID:   id,
			Type:     models.TransactionAdjustment,
			Quantity: changes.Quantity.Sub(item.Quantity),
			Notes:    changes.Notes,
		}.Entry()
		if err != nil {
			return nil, ledgerError(err)
		}
	}

	if err := s.inventoryRepo.Update(ctx, item, entry); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	result := &models.AdjustmentResult{Item: item, Transaction: entry}
	if entry != nil {
		s.recordAdjustment(ctx, result)
	}
	return result, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.inventoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	if err := s.cacheService.ClearLowStockAlert(ctx, id); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "low stock alert clear failed")
	}
	s.logg.Info(s.logg.WithField(ctx, "item_id", id.String()), "inventory item deleted")
	return nil
}

// Adjust applies a caller-selected transaction type. Initial entries are reserved for Create.
func (s *inventoryService) Adjust(ctx context.Context, adjustment models.Adjustment) (*models.AdjustmentResult, error) {
	if !adjustment.Type.CallerSelectable() {
		types := make([]string, 0, len(models.AllTransactionTypes))
		for _, t := range models.AllTransactionTypes {
			if t.CallerSelectable() {
				types = append(types, string(t))
			}
		}
		return nil, common.NewValidationError("transaction_type",
			fmt.Sprintf("transaction_type must be one of: %s", strings.Join(types, ", ")))
	}

	entry, err := adjustment.Entry()
	if err != nil {
		return nil, ledgerError(err)
	}

	item, err := s.inventoryRepo.ApplyAdjustment(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, adjustment.ItemID)

	result := &models.AdjustmentResult{Item: item, Transaction: entry}
	s.recordAdjustment(ctx, result)
	return result, nil
}

// Consume is Adjust with the type fixed to usage.
func (s *inventoryService) Consume(ctx context.Context, adjustment models.Adjustment) (*models.AdjustmentResult, error) {
	adjustment.Type = models.TransactionUsage
	return s.Adjust(ctx, adjustment)
}

func (s *inventoryService) LowStock(ctx context.Context) ([]*models.InventoryItem, error) {
	return s.inventoryRepo.ListLowStock(ctx)
}

func (s *inventoryService) History(ctx context.Context, id uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	if _, err := s.inventoryRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.inventoryRepo.ListTransactions(ctx, id, limit, offset)
}

func (s *inventoryService) recordAdjustment(ctx context.Context, result *models.AdjustmentResult) {
	s.metrics.IncAdjustment(string(result.Transaction.Type))

	ctx = s.logg.WithFields(ctx, map[string]any{
		"item_id":  result.Item.ID.String(),
		"type":     string(result.Transaction.Type),
		"delta":    result.Transaction.QuantityDelta.String(),
		"quantity": result.Item.Quantity.String(),
	})
	s.logg.Debug(ctx, "inventory adjusted")

	if result.Item.Quantity.LessThan(decimal.Zero) {
		result.Warnings = append(result.Warnings, NegativeStockWarning)
		s.metrics.IncNegativeStock()
		s.logg.Warn(ctx, "inventory quantity below zero")
	}
	if !result.Item.IsLowStock() {
		if err := s.cacheService.ClearLowStockAlert(ctx, result.Item.ID); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "low stock alert clear failed")
		}
	}
}

// invalidate must run after the write commits. A fill racing it either lands
// before the bump and is deleted below, or sees the bump and is skipped.
func (s *inventoryService) invalidate(ctx context.Context, id uuid.UUID) {
	s.cacheMu.Lock()
	s.generations[id]++
	s.cacheMu.Unlock()

	if err := s.cacheService.DeleteItem(ctx, id); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"item_id": id.String(), "error": err.Error()}), "item cache invalidation failed")
	}
}
