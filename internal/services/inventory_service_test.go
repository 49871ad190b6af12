package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"laundryops/internal/caching"
	"laundryops/internal/common"
	"laundryops/internal/models"
	"laundryops/pkg/logger"
	"laundryops/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type InventoryServiceTestSuite struct {
	suite.Suite
	repo    *MockInventoryRepository
	cache   *MockCacheService
	service InventoryService
	ctx     context.Context
	itemID  uuid.UUID
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.repo = &MockInventoryRepository{}
	suite.cache = &MockCacheService{}
	suite.service = NewInventoryService(suite.repo, suite.cache, metrics.NewInventoryMetrics(nil), logger.Nop())
	suite.ctx = context.Background()
	suite.itemID = uuid.New()
}

func (suite *InventoryServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}

func (suite *InventoryServiceTestSuite) item(quantity, reorder string) *models.InventoryItem {
	return &models.InventoryItem{
		ID:           suite.itemID,
		Name:         "Tide Pro",
		Category:     "detergent",
		Unit:         "kg",
		Quantity:     dec(quantity),
		ReorderLevel: dec(reorder),
	}
}

func (suite *InventoryServiceTestSuite) TestCreate_WritesInitialEntry() {
	item := &models.InventoryItem{Name: " Tide Pro ", Category: "detergent", Unit: "kg", Quantity: dec("45"), ReorderLevel: dec("20")}

	suite.repo.On("Create", suite.ctx, item, mock.MatchedBy(func(entry *models.InventoryTransaction) bool {
		return entry.Type == models.TransactionInitial && entry.QuantityDelta.Equal(dec("45")) && entry.ItemID == item.ID
	})).Return(nil)

	result, err := suite.service.Create(suite.ctx, item, nil)
	require.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, item.ID)
	assert.Equal(suite.T(), "Tide Pro", item.Name)
	assert.Equal(suite.T(), models.TransactionInitial, result.Transaction.Type)
	assert.False(suite.T(), result.Item.IsLowStock())
	assert.Equal(suite.T(), 225.0, *result.Item.StockPercentage())
}

func (suite *InventoryServiceTestSuite) TestCreate_RejectsValuesTheColumnsCannotHold() {
	cases := []struct {
		name  string
		item  *models.InventoryItem
		field string
	}{
		{"quantity below a gram", &models.InventoryItem{Name: "x", Category: "detergent", Unit: "kg", Quantity: dec("0.0004")}, "quantity"},
		{"quantity overflow", &models.InventoryItem{Name: "x", Category: "detergent", Unit: "kg", Quantity: dec("1e11")}, "quantity"},
		{"reorder level scale", &models.InventoryItem{Name: "x", Category: "detergent", Unit: "kg", ReorderLevel: dec("2.0005")}, "reorder_level"},
		{"reorder level overflow", &models.InventoryItem{Name: "x", Category: "detergent", Unit: "kg", ReorderLevel: dec("100000000000")}, "reorder_level"},
		{"cost scale", &models.InventoryItem{Name: "x", Category: "detergent", Unit: "kg", CostPerUnit: decimal.NewNullDecimal(dec("1.005"))}, "cost_per_unit"},
		{"cost overflow", &models.InventoryItem{Name: "x", Category: "detergent", Unit: "kg", CostPerUnit: decimal.NewNullDecimal(dec("10000000000"))}, "cost_per_unit"},
	}
	for _, tc := range cases {
		_, err := suite.service.Create(suite.ctx, tc.item, nil)
		var appErr *common.AppError
		require.ErrorAs(suite.T(), err, &appErr, tc.name)
		assert.Equal(suite.T(), tc.field, appErr.Field, tc.name)
	}
	suite.repo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestCreate_ZeroQuantityStillRecordsInitialEntry() {
	item := &models.InventoryItem{Name: "Bags", Category: "packaging", Unit: "packs", Quantity: decimal.Zero}

	suite.repo.On("Create", suite.ctx, item, mock.MatchedBy(func(entry *models.InventoryTransaction) bool {
		return entry.Type == models.TransactionInitial && entry.QuantityDelta.IsZero()
	})).Return(nil)

	_, err := suite.service.Create(suite.ctx, item, nil)
	assert.NoError(suite.T(), err)
}

func (suite *InventoryServiceTestSuite) TestCreate_ValidationErrors() {
	cases := map[string]*models.InventoryItem{
		"name":          {Name: "  ", Category: "detergent", Unit: "kg"},
		"category":      {Name: "x", Category: "food", Unit: "kg"},
		"unit":          {Name: "x", Category: "detergent", Unit: "tons"},
		"quantity":      {Name: "x", Category: "detergent", Unit: "kg", Quantity: dec("-1")},
		"reorder_level": {Name: "x", Category: "detergent", Unit: "kg", ReorderLevel: dec("-1")},
		"cost_per_unit": {Name: "x", Category: "detergent", Unit: "kg", CostPerUnit: decimal.NewNullDecimal(dec("-0.01"))},
	}
	for field, item := range cases {
		_, err := suite.service.Create(suite.ctx, item, nil)
		var appErr *common.AppError
		require.ErrorAs(suite.T(), err, &appErr, field)
		assert.Equal(suite.T(), common.CodeValidation, appErr.Code, field)
		assert.Equal(suite.T(), field, appErr.Field)
	}
	suite.repo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestGetByID_CacheHit() {
	cached := suite.item("10", "5")
	suite.cache.On("GetItem", suite.ctx, suite.itemID).Return(cached, nil)

	item, err := suite.service.GetByID(suite.ctx, suite.itemID)
	require.NoError(suite.T(), err)
	assert.Same(suite.T(), cached, item)
	suite.repo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestGetByID_CacheFailureFallsBackToRepo() {
	stored := suite.item("10", "5")
	suite.cache.On("GetItem", suite.ctx, suite.itemID).Return(nil, errors.New("connection refused"))
	suite.repo.On("GetByID", suite.ctx, suite.itemID).Return(stored, nil)
	suite.cache.On("SetItem", suite.ctx, stored).Return(errors.New("connection refused"))

	item, err := suite.service.GetByID(suite.ctx, suite.itemID)
	require.NoError(suite.T(), err)
	assert.Same(suite.T(), stored, item)
}

func (suite *InventoryServiceTestSuite) TestGetByID_WriteDuringReadSkipsCacheFill() {
	stale := suite.item("45", "20")
	suite.cache.On("GetItem", suite.ctx, suite.itemID).Return(nil, nil)
	suite.repo.On("ApplyAdjustment", suite.ctx, mock.Anything).Return(suite.item("15", "20"), nil)
	suite.cache.On("DeleteItem", suite.ctx, suite.itemID).Return(nil)
	suite.repo.On("GetByID", suite.ctx, suite.itemID).Run(func(mock.Arguments) {
		// usage commits between the SELECT and the cache fill
		_, err := suite.service.Adjust(suite.ctx, models.Adjustment{ItemID: suite.itemID, Type: models.TransactionUsage, Quantity: dec("30")})
		suite.Require().NoError(err)
	}).Return(stale, nil)

	item, err := suite.service.GetByID(suite.ctx, suite.itemID)
	require.NoError(suite.T(), err)
	assert.Same(suite.T(), stale, item)
	suite.cache.AssertNotCalled(suite.T(), "SetItem", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestGetByID_NotFound() {
	suite.cache.On("GetItem", suite.ctx, suite.itemID).Return(nil, nil)
	suite.repo.On("GetByID", suite.ctx, suite.itemID).Return(nil, common.NewNotFoundError("inventory item"))

	_, err := suite.service.GetByID(suite.ctx, suite.itemID)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *InventoryServiceTestSuite) TestList_SanitizesFilter() {
	filter := &models.InventorySearchFilter{Query: "  ti%de_ ", Limit: 1000, Offset: -3}
	suite.repo.On("List", suite.ctx, mock.MatchedBy(func(f *models.InventorySearchFilter) bool {
		return f.Query == `ti\%de\_` && f.Limit == 100 && f.Offset == 0
	})).Return([]*models.InventoryItem{}, nil)

	_, err := suite.service.List(suite.ctx, filter)
	assert.NoError(suite.T(), err)

	_, err = suite.service.List(suite.ctx, &models.InventorySearchFilter{Category: "food"})
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *InventoryServiceTestSuite) TestAdjust_Usage() {
	after := suite.item("15", "20")
	suite.repo.On("ApplyAdjustment", suite.ctx, mock.MatchedBy(func(entry *models.InventoryTransaction) bool {
		return entry.Type == models.TransactionUsage && entry.QuantityDelta.Equal(dec("-30"))
	})).Return(after, nil)
	suite.cache.On("DeleteItem", suite.ctx, suite.itemID).Return(nil)

	result, err := suite.service.Adjust(suite.ctx, models.Adjustment{ItemID: suite.itemID, Type: models.TransactionUsage, Quantity: dec("30")})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Item.IsLowStock())
	assert.Empty(suite.T(), result.Warnings)
}

func (suite *InventoryServiceTestSuite) TestAdjust_PurchaseClearsLowStockAlert() {
	after := suite.item("50", "20")
	suite.repo.On("ApplyAdjustment", suite.ctx, mock.Anything).Return(after, nil)
	suite.cache.On("DeleteItem", suite.ctx, suite.itemID).Return(nil)
	suite.cache.On("ClearLowStockAlert", mock.Anything, suite.itemID).Return(nil)

	result, err := suite.service.Adjust(suite.ctx, models.Adjustment{ItemID: suite.itemID, Type: models.TransactionPurchase, Quantity: dec("35")})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Transaction.QuantityDelta.Equal(dec("35")))
}

func (suite *InventoryServiceTestSuite) TestAdjust_NegativeResultIsAllowedWithWarning() {
	after := suite.item("-2", "20")
	suite.repo.On("ApplyAdjustment", suite.ctx, mock.Anything).Return(after, nil)
	suite.cache.On("DeleteItem", suite.ctx, suite.itemID).Return(errors.New("redis down"))

	result, err := suite.service.Adjust(suite.ctx, models.Adjustment{ItemID: suite.itemID, Type: models.TransactionDamage, Quantity: dec("5")})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{NegativeStockWarning}, result.Warnings)
}

func (suite *InventoryServiceTestSuite) TestAdjust_RejectsBeforeAnyWrite() {
	cases := []struct {
		name  string
		adj   models.Adjustment
		field string
	}{
		{"initial is reserved", models.Adjustment{Type: models.TransactionInitial, Quantity: dec("1")}, "transaction_type"},
		{"unknown type", models.Adjustment{Type: "theft", Quantity: dec("1")}, "transaction_type"},
		{"negative magnitude", models.Adjustment{Type: models.TransactionPurchase, Quantity: dec("-1")}, "quantity"},
		{"zero adjustment", models.Adjustment{Type: models.TransactionAdjustment, Quantity: decimal.Zero}, "quantity"},
		{"sub-gram purchase", models.Adjustment{Type: models.TransactionPurchase, Quantity: dec("0.0004")}, "quantity"},
		{"overflowing usage", models.Adjustment{Type: models.TransactionUsage, Quantity: dec("1e11")}, "quantity"},
	}
	for _, tc := range cases {
		tc.adj.ItemID = suite.itemID
		_, err := suite.service.Adjust(suite.ctx, tc.adj)
		var appErr *common.AppError
		require.ErrorAs(suite.T(), err, &appErr, tc.name)
		assert.Equal(suite.T(), tc.field, appErr.Field, tc.name)
	}
	suite.repo.AssertNotCalled(suite.T(), "ApplyAdjustment", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestAdjust_NotFound() {
	suite.repo.On("ApplyAdjustment", suite.ctx, mock.Anything).Return(nil, common.NewNotFoundError("inventory item"))

	_, err := suite.service.Adjust(suite.ctx, models.Adjustment{ItemID: suite.itemID, Type: models.TransactionPurchase, Quantity: dec("1")})
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *InventoryServiceTestSuite) TestConsume_AlwaysUsage() {
	suite.repo.On("ApplyAdjustment", suite.ctx, mock.MatchedBy(func(entry *models.InventoryTransaction) bool {
		return entry.Type == models.TransactionUsage && entry.QuantityDelta.Equal(dec("-2"))
	})).Return(suite.item("8", "5"), nil)
	suite.cache.On("DeleteItem", suite.ctx, suite.itemID).Return(nil)
	suite.cache.On("ClearLowStockAlert", mock.Anything, suite.itemID).Return(nil)

	result, err := suite.service.Consume(suite.ctx, models.Adjustment{ItemID: suite.itemID, Type: models.TransactionPurchase, Quantity: dec("2")})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TransactionUsage, result.Transaction.Type)
}

func (suite *InventoryServiceTestSuite) TestUpdate_QuantityEditBecomesAdjustment() {
	stored := suite.item("45", "20")
	newQty := dec("40")
	name := "Tide Ultra"
	changes := &models.InventoryItemChanges{Name: &name, Quantity: &newQty}

	suite.repo.On("GetByID", suite.ctx, suite.itemID).Return(stored, nil)
	suite.repo.On("Update", suite.ctx, mock.MatchedBy(func(item *models.InventoryItem) bool {
		return item.Name == "Tide Ultra" && item.Quantity.Equal(dec("45"))
	}), mock.MatchedBy(func(entry *models.InventoryTransaction) bool {
		return entry != nil && entry.Type == models.TransactionAdjustment && entry.QuantityDelta.Equal(dec("-5"))
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.InventoryItem).Quantity = dec("40")
	}).Return(nil)
	suite.cache.On("DeleteItem", suite.ctx, suite.itemID).Return(nil)
	suite.cache.On("ClearLowStockAlert", mock.Anything, suite.itemID).Return(nil)

	result, err := suite.service.Update(suite.ctx, suite.itemID, changes)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Item.Quantity.Equal(dec("40")))
	require.NotNil(suite.T(), result.Transaction)
}

func (suite *InventoryServiceTestSuite) TestUpdate_SameQuantityWritesNoEntry() {
	stored := suite.item("45", "20")
	same := dec("45.000")
	reorder := dec("30")

	suite.repo.On("GetByID", suite.ctx, suite.itemID).Return(stored, nil)
	suite.repo.On("Update", suite.ctx, stored, (*models.InventoryTransaction)(nil)).Return(nil)
	suite.cache.On("DeleteItem", suite.ctx, suite.itemID).Return(nil)

	result, err := suite.service.Update(suite.ctx, suite.itemID, &models.InventoryItemChanges{Quantity: &same, ReorderLevel: &reorder})
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), result.Transaction)
	assert.True(suite.T(), result.Item.ReorderLevel.Equal(reorder))
}

func (suite *InventoryServiceTestSuite) TestUpdate_RejectsNegativeQuantity() {
	suite.repo.On("GetByID", suite.ctx, suite.itemID).Return(suite.item("45", "20"), nil)
	negative := dec("-1")

	_, err := suite.service.Update(suite.ctx, suite.itemID, &models.InventoryItemChanges{Quantity: &negative})
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *InventoryServiceTestSuite) TestUpdate_RejectsUnstorableQuantity() {
	suite.repo.On("GetByID", suite.ctx, suite.itemID).Return(suite.item("45", "20"), nil)

	for _, raw := range []string{"45.0001", "100000000000"} {
		target := dec(raw)
		_, err := suite.service.Update(suite.ctx, suite.itemID, &models.InventoryItemChanges{Quantity: &target})
		var appErr *common.AppError
		require.ErrorAs(suite.T(), err, &appErr, raw)
		assert.Equal(suite.T(), "quantity", appErr.Field, raw)
	}
	suite.repo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestDelete() {
	suite.repo.On("Delete", suite.ctx, suite.itemID).Return(nil)
	suite.cache.On("DeleteItem", suite.ctx, suite.itemID).Return(nil)
	suite.cache.On("ClearLowStockAlert", suite.ctx, suite.itemID).Return(nil)

	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, suite.itemID))
}

func (suite *InventoryServiceTestSuite) TestHistory_UnknownItem() {
	suite.repo.On("GetByID", suite.ctx, suite.itemID).Return(nil, common.NewNotFoundError("inventory item"))

	_, err := suite.service.History(suite.ctx, suite.itemID, 10, 0)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *InventoryServiceTestSuite) TestHistory_ClampsPaging() {
	suite.repo.On("GetByID", suite.ctx, suite.itemID).Return(suite.item("1", "1"), nil)
	suite.repo.On("ListTransactions", suite.ctx, suite.itemID, 50, 0).Return([]*models.InventoryTransaction{}, nil)

	_, err := suite.service.History(suite.ctx, suite.itemID, 0, -1)
	assert.NoError(suite.T(), err)
}

// memoryInventoryRepo applies entries the way the SQL repository does, for ledger properties.
type memoryInventoryRepo struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*models.InventoryItem
	entries map[uuid.UUID][]*models.InventoryTransaction
}

func newMemoryInventoryRepo() *memoryInventoryRepo {
	return &memoryInventoryRepo{
		items:   map[uuid.UUID]*models.InventoryItem{},
		entries: map[uuid.UUID][]*models.InventoryTransaction{},
	}
}

func (r *memoryInventoryRepo) Create(_ context.Context, item *models.InventoryItem, initial *models.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *item
	stored.Quantity = initial.QuantityDelta
	r.items[item.ID] = &stored
	r.entries[item.ID] = append(r.entries[item.ID], initial)
	*item = stored
	return nil
}

func (r *memoryInventoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewNotFoundError("inventory item")
	}
	copied := *item
	return &copied, nil
}

func (r *memoryInventoryRepo) List(context.Context, *models.InventorySearchFilter) ([]*models.InventoryItem, error) {
	return nil, nil
}

func (r *memoryInventoryRepo) Update(ctx context.Context, item *models.InventoryItem, entry *models.InventoryTransaction) error {
	r.mu.Lock()
	stored, ok := r.items[item.ID]
	if !ok {
		r.mu.Unlock()
		return common.NewNotFoundError("inventory item")
	}
	quantity := stored.Quantity
	*stored = *item
	stored.Quantity = quantity
	r.mu.Unlock()

	if entry != nil {
		updated, err := r.ApplyAdjustment(ctx, entry)
		if err != nil {
			return err
		}
		*item = *updated
	}
	return nil
}

func (r *memoryInventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.NewNotFoundError("inventory item")
	}
	delete(r.items, id)
	delete(r.entries, id)
	return nil
}

func (r *memoryInventoryRepo) ApplyAdjustment(_ context.Context, entry *models.InventoryTransaction) (*models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[entry.ItemID]
	if !ok {
		return nil, common.NewNotFoundError("inventory item")
	}
	item.Quantity = item.Quantity.Add(entry.QuantityDelta)
	r.entries[entry.ItemID] = append(r.entries[entry.ItemID], entry)
	copied := *item
	return &copied, nil
}

func (r *memoryInventoryRepo) ListTransactions(_ context.Context, itemID uuid.UUID, _, _ int) ([]*models.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.InventoryTransaction(nil), r.entries[itemID]...), nil
}

func (r *memoryInventoryRepo) ListLowStock(context.Context) ([]*models.InventoryItem, error) {
	return nil, nil
}

func TestLedgerSumEqualsQuantity(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryInventoryRepo()
	service := NewInventoryService(repo, caching.NewNoopCacheService(), metrics.NewInventoryMetrics(nil), logger.Nop())

	created, err := service.Create(ctx, &models.InventoryItem{
		Name: "Tide Pro", Category: "detergent", Unit: "kg", Quantity: dec("45"), ReorderLevel: dec("20"),
	}, nil)
	require.NoError(t, err)
	id := created.Item.ID

	steps := []models.Adjustment{
		{Type: models.TransactionUsage, Quantity: dec("30")},
		{Type: models.TransactionPurchase, Quantity: dec("12.5")},
		{Type: models.TransactionDamage, Quantity: dec("0.25")},
		{Type: models.TransactionReturn, Quantity: dec("3")},
		{Type: models.TransactionAdjustment, Quantity: dec("-40")},
		{Type: models.TransactionAdjustment, Quantity: dec("2")},
	}
	for _, step := range steps {
		step.ItemID = id
		_, err := service.Adjust(ctx, step)
		require.NoError(t, err)
	}
	newQty := dec("10")
	_, err = service.Update(ctx, id, &models.InventoryItemChanges{Quantity: &newQty})
	require.NoError(t, err)

	item, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	entries, err := repo.ListTransactions(ctx, id, 0, 0)
	require.NoError(t, err)

	sum := decimal.Zero
	initials := 0
	for _, e := range entries {
		sum = sum.Add(e.QuantityDelta)
		if e.Type == models.TransactionInitial {
			initials++
			assert.True(t, e.QuantityDelta.Equal(dec("45")))
		}
	}
	assert.Equal(t, 1, initials)
	assert.Len(t, entries, len(steps)+2)
	assert.True(t, sum.Equal(item.Quantity), "sum %s quantity %s", sum, item.Quantity)
	assert.True(t, item.Quantity.Equal(newQty))
}

func TestConsumeCrossesReorderLevel(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryInventoryRepo()
	service := NewInventoryService(repo, caching.NewNoopCacheService(), metrics.NewInventoryMetrics(nil), logger.Nop())

	created, err := service.Create(ctx, &models.InventoryItem{
		Name: "Tide Pro", Category: "detergent", Unit: "kg", Quantity: dec("45"), ReorderLevel: dec("20"),
	}, nil)
	require.NoError(t, err)
	assert.False(t, created.Item.IsLowStock())
	assert.Equal(t, 225.0, *created.Item.StockPercentage())

	result, err := service.Consume(ctx, models.Adjustment{ItemID: created.Item.ID, Quantity: dec("30")})
	require.NoError(t, err)
	assert.True(t, result.Item.Quantity.Equal(dec("15")))
	assert.True(t, result.Item.IsLowStock())
}
