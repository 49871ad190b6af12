package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"laundryops/internal/common"
	"laundryops/internal/models"
	"laundryops/internal/repositories"
	"laundryops/pkg/logger"

	"github.com/google/uuid"
)

const (
	exportPageSize  = 500
	downloadURLTTL  = 24 * time.Hour
	csvContentType  = "text/csv"
	exportTimestamp = "20060102T150405Z"
)

// ExportService writes inventory data to object storage as CSV.
type ExportService interface {
	ExportItemLedger(ctx context.Context, itemID uuid.UUID) (*models.ExportResult, error)
	ExportInventorySnapshot(ctx context.Context) (*models.ExportResult, error)
}

type exportService struct {
	inventoryRepo repositories.InventoryRepository
	store         ObjectStore
	logg          *logger.Logger
	now           func() time.Time
}

// NewExportService accepts a nil store; every export then fails with DEPENDENCY_ERROR.
func NewExportService(inventoryRepo repositories.InventoryRepository, store ObjectStore, logg *logger.Logger) ExportService {
	return &exportService{inventoryRepo: inventoryRepo, store: store, logg: logg, now: time.Now}
}

func (s *exportService) ExportItemLedger(ctx context.Context, itemID uuid.UUID) (*models.ExportResult, error) {
	if s.store == nil {
		return nil, common.NewDependencyError("object storage is not configured", nil)
	}

	item, err := s.inventoryRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var entries []*models.InventoryTransaction
	for offset := 0; ; offset += exportPageSize {
		page, err := s.inventoryRepo.ListTransactions(ctx, itemID, exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	data, err := ledgerCSV(item, entries)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("ledgers/%s/%s.csv", itemID.String(), s.now().UTC().Format(exportTimestamp))
	return s.upload(ctx, key, data, len(entries))
}

func (s *exportService) ExportInventorySnapshot(ctx context.Context) (*models.ExportResult, error) {
	if s.store == nil {
		return nil, common.NewDependencyError("object storage is not configured", nil)
	}

	var items []*models.InventoryItem
	for offset := 0; ; offset += 100 {
		page, err := s.inventoryRepo.List(ctx, &models.InventorySearchFilter{Limit: 100, Offset: offset})
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		if len(page) < 100 {
			break
		}
	}

	data, err := snapshotCSV(items)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("snapshots/inventory-%s.csv", s.now().UTC().Format(exportTimestamp))
	return s.upload(ctx, key, data, len(items))
}

func (s *exportService) upload(ctx context.Context, key string, data []byte, rows int) (*models.ExportResult, error) {
	if err := s.store.EnsureBucket(ctx); err != nil {
		return nil, common.NewDependencyError("object storage unavailable", err)
	}
	if err := s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), csvContentType); err != nil {
		return nil, common.NewDependencyError("upload export", err)
	}

	result := &models.ExportResult{Bucket: s.store.Bucket(), ObjectKey: key, Rows: rows, CreatedAt: s.now().UTC()}
	if url, err := s.store.PresignedURL(ctx, key, downloadURLTTL); err == nil {
		result.DownloadURL = url
	} else {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "presign export url failed")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"object_key": key, "rows": rows}), "export uploaded")
	return result, nil
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ledgerCSV(item *models.InventoryItem, entries []*models.InventoryTransaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "item_id", "item_name", "transaction_type", "quantity_delta", "unit", "reference_type", "reference_id", "notes", "created_at"})
	for _, e := range entries {
		_ = w.Write([]string{
			e.ID.String(),
			e.ItemID.String(),
			item.Name,
			string(e.Type),
			e.QuantityDelta.String(),
			item.Unit,
			optional(e.ReferenceType),
			optional(e.ReferenceID),
			optional(e.Notes),
			e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write ledger csv: %w", err)
	}
	return buf.Bytes(), nil
}

func snapshotCSV(items []*models.InventoryItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "name", "category", "quantity", "unit", "reorder_level", "is_low_stock", "cost_per_unit", "supplier", "updated_at"})
	for _, item := range items {
		cost := ""
		if item.CostPerUnit.Valid {
			cost = item.CostPerUnit.Decimal.StringFixed(2)
		}
		_ = w.Write([]string{
			item.ID.String(),
			item.Name,
			item.Category,
			item.Quantity.String(),
			item.Unit,
			item.ReorderLevel.String(),
			fmt.Sprintf("%t", item.IsLowStock()),
			cost,
			optional(item.Supplier),
			item.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write snapshot csv: %w", err)
	}
	return buf.Bytes(), nil
}
