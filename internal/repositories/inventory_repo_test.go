package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"laundryops/internal/common"
	"laundryops/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var itemColumnNames = []string{"id", "name", "category", "description", "quantity", "unit", "reorder_level", "cost_per_unit", "supplier", "created_at", "updated_at"}

type InventoryRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InventoryRepository
	itemID  uuid.UUID
	now     time.Time
	context context.Context
}

func (suite *InventoryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInventoryRepo(mock)
	suite.itemID = uuid.New()
	suite.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	suite.context = context.Background()
}

func (suite *InventoryRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInventoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryRepoTestSuite))
}

func stringPtr(s string) *string {
	return &s
}

func (suite *InventoryRepoTestSuite) itemRow(quantity, reorder string) *pgxmock.Rows {
	return pgxmock.NewRows(itemColumnNames).AddRow(
		suite.itemID, "Tide Pro", "detergent", nil,
		decimal.RequireFromString(quantity), "kg", decimal.RequireFromString(reorder),
		decimal.NewNullDecimal(decimal.RequireFromString("12.50")), stringPtr("Procter"),
		suite.now, suite.now,
	)
}

func (suite *InventoryRepoTestSuite) TestCreate_WritesItemAndInitialEntryInOneTransaction() {
	item := &models.InventoryItem{
		ID:           suite.itemID,
		Name:         "Tide Pro",
		Category:     "detergent",
		Unit:         "kg",
		ReorderLevel: decimal.NewFromInt(20),
	}
	initial, err := models.Adjustment{ItemID: suite.itemID, Type: models.TransactionInitial, Quantity: decimal.NewFromInt(45)}.Entry()
	require.NoError(suite.T(), err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO inventory_items`).
		WithArgs(suite.itemID, "Tide Pro", "detergent", item.Description, "kg", pgxmock.AnyArg(), pgxmock.AnyArg(), item.Supplier).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`UPDATE inventory_items SET quantity = quantity \+ \$1`).
		WithArgs(pgxmock.AnyArg(), suite.itemID).
		WillReturnRows(suite.itemRow("45", "20"))
	suite.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(initial.ID, suite.itemID, "initial", pgxmock.AnyArg(), initial.ReferenceType, initial.ReferenceID, initial.Notes).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(suite.now))
	suite.mock.ExpectCommit()

	err = suite.repo.Create(suite.context, item, initial)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.NewFromInt(45).Equal(item.Quantity))
	assert.Equal(suite.T(), suite.now, item.CreatedAt)
	assert.Equal(suite.T(), suite.now, initial.CreatedAt)
}

func (suite *InventoryRepoTestSuite) TestCreate_RejectsMissingInitialEntry() {
	item := &models.InventoryItem{ID: suite.itemID}
	usage, err := models.Adjustment{ItemID: suite.itemID, Type: models.TransactionUsage, Quantity: decimal.NewFromInt(1)}.Entry()
	require.NoError(suite.T(), err)

	assert.Error(suite.T(), suite.repo.Create(suite.context, item, nil))
	assert.Error(suite.T(), suite.repo.Create(suite.context, item, usage))
}

func (suite *InventoryRepoTestSuite) TestCreate_LedgerInsertFailureRollsBack() {
	item := &models.InventoryItem{ID: suite.itemID, Name: "Tide Pro", Category: "detergent", Unit: "kg"}
	initial, err := models.Adjustment{ItemID: suite.itemID, Type: models.TransactionInitial, Quantity: decimal.Zero}.Entry()
	require.NoError(suite.T(), err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO inventory_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`UPDATE inventory_items SET quantity = quantity \+ \$1`).
		WithArgs(pgxmock.AnyArg(), suite.itemID).
		WillReturnRows(suite.itemRow("0", "20"))
	suite.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	suite.mock.ExpectRollback()

	err = suite.repo.Create(suite.context, item, initial)
	assert.ErrorContains(suite.T(), err, "insert ledger entry")
}

func (suite *InventoryRepoTestSuite) TestGetByID_Success() {
	suite.mock.ExpectQuery(`SELECT .+ FROM inventory_items WHERE id = \$1`).
		WithArgs(suite.itemID).
		WillReturnRows(suite.itemRow("45", "20"))

	item, err := suite.repo.GetByID(suite.context, suite.itemID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Tide Pro", item.Name)
	assert.Nil(suite.T(), item.Description)
	assert.Equal(suite.T(), "Procter", *item.Supplier)
	assert.True(suite.T(), item.CostPerUnit.Valid)
}

func (suite *InventoryRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM inventory_items WHERE id = \$1`).
		WithArgs(suite.itemID).
		WillReturnError(pgx.ErrNoRows)

	item, err := suite.repo.GetByID(suite.context, suite.itemID)
	assert.Nil(suite.T(), item)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *InventoryRepoTestSuite) TestList_BuildsFilteredQuery() {
	filter := &models.InventorySearchFilter{Query: "tide", Category: "detergent", LowStockOnly: true, Limit: 10, Offset: 20}

	suite.mock.ExpectQuery(`WHERE 1=1 AND name ILIKE '%' \|\| \$1 \|\| '%' ESCAPE '\\' AND category = \$2 AND quantity <= reorder_level ORDER BY name ASC LIMIT \$3 OFFSET \$4`).
		WithArgs("tide", "detergent", 10, 20).
		WillReturnRows(suite.itemRow("5", "20"))

	items, err := suite.repo.List(suite.context, filter)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	assert.True(suite.T(), items[0].IsLowStock())
}

func (suite *InventoryRepoTestSuite) TestList_DefaultsLimit() {
	suite.mock.ExpectQuery(`WHERE 1=1 ORDER BY name ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows(itemColumnNames))

	items, err := suite.repo.List(suite.context, nil)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), items)
}

func (suite *InventoryRepoTestSuite) TestUpdate_WithoutQuantityChange() {
	item := &models.InventoryItem{ID: suite.itemID, Name: "Tide Pro", Category: "detergent", Unit: "kg", ReorderLevel: decimal.NewFromInt(20)}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE inventory_items SET name = \$1`).
		WithArgs("Tide Pro", "detergent", item.Description, "kg", pgxmock.AnyArg(), pgxmock.AnyArg(), item.Supplier, suite.itemID).
		WillReturnRows(suite.itemRow("45", "20"))
	suite.mock.ExpectCommit()

	require.NoError(suite.T(), suite.repo.Update(suite.context, item, nil))
	assert.True(suite.T(), decimal.NewFromInt(45).Equal(item.Quantity))
}

func (suite *InventoryRepoTestSuite) TestUpdate_QuantityChangeGoesThroughLedger() {
	item := &models.InventoryItem{ID: suite.itemID, Name: "Tide Pro", Category: "detergent", Unit: "kg", ReorderLevel: decimal.NewFromInt(20)}
	entry, err := models.Adjustment{ItemID: suite.itemID, Type: models.TransactionAdjustment, Quantity: decimal.NewFromInt(-5)}.Entry()
	require.NoError(suite.T(), err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE inventory_items SET name = \$1`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), suite.itemID).
		WillReturnRows(suite.itemRow("45", "20"))
	suite.mock.ExpectQuery(`UPDATE inventory_items SET quantity = quantity \+ \$1`).
		WithArgs(pgxmock.AnyArg(), suite.itemID).
		WillReturnRows(suite.itemRow("40", "20"))
	suite.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(entry.ID, suite.itemID, "adjustment", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(suite.now))
	suite.mock.ExpectCommit()

	require.NoError(suite.T(), suite.repo.Update(suite.context, item, entry))
	assert.True(suite.T(), decimal.NewFromInt(40).Equal(item.Quantity))
}

func (suite *InventoryRepoTestSuite) TestUpdate_NotFound() {
	item := &models.InventoryItem{ID: suite.itemID}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE inventory_items SET name = \$1`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), suite.itemID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	err := suite.repo.Update(suite.context, item, nil)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *InventoryRepoTestSuite) TestDelete() {
	suite.mock.ExpectExec(`DELETE FROM inventory_items WHERE id = \$1`).
		WithArgs(suite.itemID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, suite.itemID))
}

func (suite *InventoryRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM inventory_items WHERE id = \$1`).
		WithArgs(suite.itemID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, suite.itemID)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *InventoryRepoTestSuite) TestApplyAdjustment_Success() {
	entry, err := models.Adjustment{ItemID: suite.itemID, Type: models.TransactionUsage, Quantity: decimal.NewFromInt(30)}.Entry()
	require.NoError(suite.T(), err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE inventory_items SET quantity = quantity \+ \$1`).
		WithArgs(pgxmock.AnyArg(), suite.itemID).
		WillReturnRows(suite.itemRow("15", "20"))
	suite.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(entry.ID, suite.itemID, "usage", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(suite.now))
	suite.mock.ExpectCommit()

	item, err := suite.repo.ApplyAdjustment(suite.context, entry)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.NewFromInt(15).Equal(item.Quantity))
	assert.True(suite.T(), item.IsLowStock())
}

func (suite *InventoryRepoTestSuite) TestApplyAdjustment_UnknownItemWritesNothing() {
	entry, err := models.Adjustment{ItemID: suite.itemID, Type: models.TransactionPurchase, Quantity: decimal.NewFromInt(3)}.Entry()
	require.NoError(suite.T(), err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE inventory_items SET quantity = quantity \+ \$1`).
		WithArgs(pgxmock.AnyArg(), suite.itemID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	item, err := suite.repo.ApplyAdjustment(suite.context, entry)
	assert.Nil(suite.T(), item)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *InventoryRepoTestSuite) TestApplyAdjustment_NumericOverflowIsValidationError() {
	entry, err := models.Adjustment{ItemID: suite.itemID, Type: models.TransactionPurchase, Quantity: decimal.RequireFromString("99999999999")}.Entry()
	require.NoError(suite.T(), err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE inventory_items SET quantity = quantity \+ \$1`).
		WithArgs(pgxmock.AnyArg(), suite.itemID).
		WillReturnError(&pgconn.PgError{Code: "22003", Message: "numeric field overflow"})
	suite.mock.ExpectRollback()

	item, err := suite.repo.ApplyAdjustment(suite.context, entry)
	assert.Nil(suite.T(), item)
	var appErr *common.AppError
	require.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeValidation, appErr.Code)
	assert.Equal(suite.T(), "quantity", appErr.Field)
}

func (suite *InventoryRepoTestSuite) TestList_EscapedWildcardsPassThrough() {
	filter := &models.InventorySearchFilter{Query: `stain\_remover`, Limit: 10}

	suite.mock.ExpectQuery(`WHERE 1=1 AND name ILIKE '%' \|\| \$1 \|\| '%' ESCAPE '\\' ORDER BY name ASC`).
		WithArgs(`stain\_remover`, 10, 0).
		WillReturnRows(pgxmock.NewRows(itemColumnNames))

	items, err := suite.repo.List(suite.context, filter)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), items)
}

func (suite *InventoryRepoTestSuite) TestApplyAdjustment_CommitFailure() {
	entry, err := models.Adjustment{ItemID: suite.itemID, Type: models.TransactionPurchase, Quantity: decimal.NewFromInt(3)}.Entry()
	require.NoError(suite.T(), err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE inventory_items SET quantity = quantity \+ \$1`).
		WithArgs(pgxmock.AnyArg(), suite.itemID).
		WillReturnRows(suite.itemRow("48", "20"))
	suite.mock.ExpectQuery(`INSERT INTO inventory_transactions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(suite.now))
	suite.mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	_, err = suite.repo.ApplyAdjustment(suite.context, entry)
	assert.ErrorContains(suite.T(), err, "commit tx")
}

func (suite *InventoryRepoTestSuite) TestListTransactions() {
	rows := pgxmock.NewRows([]string{"id", "item_id", "transaction_type", "quantity_delta", "reference_type", "reference_id", "notes", "created_at"}).
		AddRow(uuid.New(), suite.itemID, "usage", decimal.NewFromInt(-30), stringPtr("order"), stringPtr("SO-1"), nil, suite.now.Add(time.Hour)).
		AddRow(uuid.New(), suite.itemID, "initial", decimal.NewFromInt(45), nil, nil, nil, suite.now)

	suite.mock.ExpectQuery(`FROM inventory_transactions WHERE item_id = \$1 ORDER BY created_at DESC`).
		WithArgs(suite.itemID, 50, 0).
		WillReturnRows(rows)

	entries, err := suite.repo.ListTransactions(suite.context, suite.itemID, 50, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), entries, 2)
	assert.Equal(suite.T(), models.TransactionUsage, entries[0].Type)
	assert.Equal(suite.T(), "SO-1", *entries[0].ReferenceID)
	assert.Equal(suite.T(), models.TransactionInitial, entries[1].Type)
}

func (suite *InventoryRepoTestSuite) TestListLowStock() {
	suite.mock.ExpectQuery(`WHERE quantity <= reorder_level ORDER BY name ASC`).
		WillReturnRows(suite.itemRow("20", "20"))

	items, err := suite.repo.ListLowStock(suite.context)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	assert.True(suite.T(), items[0].IsLowStock())
}
