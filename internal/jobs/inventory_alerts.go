package jobs

import (
	"context"
	"time"

	"laundryops/internal/caching"
	"laundryops/internal/services"
	"laundryops/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryAlertService raises low-stock alerts, at most once per item per cooldown.
type InventoryAlertService struct {
	inventory services.InventoryService
	cache     caching.CacheService
	cooldown  time.Duration
	logg      *logger.Logger
}

type InventoryAlert struct {
	ItemID       uuid.UUID
	ItemName     string
	Category     string
	Quantity     decimal.Decimal
	ReorderLevel decimal.Decimal
	Unit         string
}

func NewInventoryAlertService(inventory services.InventoryService, cache caching.CacheService, cooldown time.Duration, logg *logger.Logger) *InventoryAlertService {
	return &InventoryAlertService{
		inventory: inventory,
		cache:     cache,
		cooldown:  cooldown,
		logg:      logg,
	}
}

// CheckLowStock returns alerts for low items not already alerted within the cooldown.
// When the alert store is unreachable the item is alerted anyway.
func (a *InventoryAlertService) CheckLowStock(ctx context.Context) ([]InventoryAlert, error) {
	items, err := a.inventory.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []InventoryAlert
	for _, item := range items {
		fresh, err := a.cache.MarkLowStockAlerted(ctx, item.ID, a.cooldown)
		if err != nil {
			a.logg.Warn(a.logg.WithFields(ctx, map[string]any{
				"item_id": item.ID.String(),
				"error":   err.Error(),
			}), "low stock alert dedupe failed")
			fresh = true
		}
		if !fresh {
			continue
		}
		alerts = append(alerts, InventoryAlert{
			ItemID:       item.ID,
			ItemName:     item.Name,
			Category:     item.Category,
			Quantity:     item.Quantity,
			ReorderLevel: item.ReorderLevel,
			Unit:         item.Unit,
		})
	}
	return alerts, nil
}

func (a *InventoryAlertService) LogLowStockAlerts(ctx context.Context, alerts []InventoryAlert) {
	for _, alert := range alerts {
		a.logg.Warn(a.logg.WithFields(ctx, map[string]any{
			"item_id":       alert.ItemID.String(),
			"item_name":     alert.ItemName,
			"category":      alert.Category,
			"quantity":      alert.Quantity.String(),
			"reorder_level": alert.ReorderLevel.String(),
			"unit":          alert.Unit,
		}), "inventory item at or below reorder level")
	}
}

// Run is the scheduled entry point: check, then log.
func (a *InventoryAlertService) Run(ctx context.Context) (int, error) {
	alerts, err := a.CheckLowStock(ctx)
	if err != nil {
		return 0, err
	}
	a.LogLowStockAlerts(ctx, alerts)
	return len(alerts), nil
}
