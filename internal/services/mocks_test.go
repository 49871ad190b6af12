package services

import (
	"context"
	"io"
	"time"

	"laundryops/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *models.InventoryItem, initial *models.InventoryTransaction) error {
	args := m.Called(ctx, item, initial)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, filter *models.InventorySearchFilter) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, item *models.InventoryItem, entry *models.InventoryTransaction) error {
	args := m.Called(ctx, item, entry)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryRepository) ApplyAdjustment(ctx context.Context, entry *models.InventoryTransaction) (*models.InventoryItem, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListTransactions(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, itemID, limit, offset)
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockInventoryRepository) ListLowStock(ctx context.Context) ([]*models.InventoryItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockCacheService) SetItem(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCacheService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCacheService) MarkLowStockAlerted(ctx context.Context, id uuid.UUID, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, id, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) ClearLowStockAlert(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockObjectStore struct {
	mock.Mock
	uploaded []byte
}

func (m *MockObjectStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockObjectStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	data, _ := io.ReadAll(reader)
	m.uploaded = data
	args := m.Called(ctx, objectName, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Bucket() string {
	return "inventory-exports"
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(ctx context.Context, to, message string) error {
	args := m.Called(ctx, to, message)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyOrderReady(ctx context.Context, order *models.Order) *models.NotificationReport {
	args := m.Called(ctx, order)
	return args.Get(0).(*models.NotificationReport)
}
