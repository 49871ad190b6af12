package handlers

import (
	"context"

	"laundryops/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Create(ctx context.Context, item *models.InventoryItem, notes *string) (*models.AdjustmentResult, error) {
	args := m.Called(ctx, item, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdjustmentResult), args.Error(1)
}

func (m *MockInventoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) List(ctx context.Context, filter *models.InventorySearchFilter) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) Update(ctx context.Context, id uuid.UUID, changes *models.InventoryItemChanges) (*models.AdjustmentResult, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdjustmentResult), args.Error(1)
}

func (m *MockInventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryService) Adjust(ctx context.Context, adjustment models.Adjustment) (*models.AdjustmentResult, error) {
	args := m.Called(ctx, adjustment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdjustmentResult), args.Error(1)
}

func (m *MockInventoryService) Consume(ctx context.Context, adjustment models.Adjustment) (*models.AdjustmentResult, error) {
	args := m.Called(ctx, adjustment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdjustmentResult), args.Error(1)
}

func (m *MockInventoryService) LowStock(ctx context.Context) ([]*models.InventoryItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) History(ctx context.Context, id uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportItemLedger(ctx context.Context, itemID uuid.UUID) (*models.ExportResult, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExportResult), args.Error(1)
}

func (m *MockExportService) ExportInventorySnapshot(ctx context.Context) (*models.ExportResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExportResult), args.Error(1)
}
