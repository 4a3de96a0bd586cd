package handler

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stocktrail-system/internal/apperrors"
	"stocktrail-system/internal/database"
	"stocktrail-system/internal/database/models"
	ledger "stocktrail-system/internal/services/ledger/handler"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedSale(t *testing.T, db *gorm.DB, customer, productID string, quantity int32, soldAt time.Time) models.SaleRecord {
	t.Helper()
	sale := models.SaleRecord{
		CustomerName: customer,
		ProductID:    productID,
		Quantity:     quantity,
		SoldAt:       soldAt,
		CreatedAt:    soldAt,
	}
	require.NoError(t, db.Create(&sale).Error)
	return sale
}

func TestListSalesByCustomerSubstring(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesHandler(db, nil)
	ctx := context.Background()

	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedSale(t, db, "Jane Doe", "p1", 2, day)
	seedSale(t, db, "Bob", "p1", 1, day.Add(time.Hour))
	seedSale(t, db, "MARY-JANE", "p2", 3, day.Add(2*time.Hour))

	reports, err := sales.ListSales(ctx, ListSalesRequest{Customer: "jane"})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, "Jane Doe", reports[0].CustomerName)
	require.Equal(t, "MARY-JANE", reports[1].CustomerName)
}

func TestListSalesZeroMatchesIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesHandler(db, nil)

	reports, err := sales.ListSales(context.Background(), ListSalesRequest{Customer: "nobody"})
	require.NoError(t, err)
	require.Empty(t, reports)
}

func TestListSalesByProduct(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesHandler(db, nil)
	ctx := context.Background()

	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedSale(t, db, "Jane", "p1", 2, day)
	seedSale(t, db, "Bob", "p2", 1, day.Add(time.Hour))

	reports, err := sales.ListSales(ctx, ListSalesRequest{ProductID: "p2"})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, "Bob", reports[0].CustomerName)
}

func TestListSalesByDateRangeInclusive(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesHandler(db, nil)
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	seedSale(t, db, "Before", "p1", 1, start.Add(-time.Hour))
	onStart := seedSale(t, db, "OnStart", "p1", 1, start)
	seedSale(t, db, "Middle", "p1", 1, start.Add(24*time.Hour))
	onEnd := seedSale(t, db, "OnEnd", "p1", 1, end)
	seedSale(t, db, "After", "p1", 1, end.Add(time.Hour))

	reports, err := sales.ListSales(ctx, ListSalesRequest{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, reports, 3)
	require.Equal(t, onStart.ID, reports[0].ID)
	require.Equal(t, onEnd.ID, reports[2].ID)
}

func TestListSalesInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesHandler(db, nil)
	ctx := context.Background()

	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := seedSale(t, db, "Jane", "p1", 1, day)
	second := seedSale(t, db, "Bob", "p1", 1, day.Add(time.Minute))
	third := seedSale(t, db, "Mary", "p1", 1, day.Add(2*time.Minute))

	reports, err := sales.ListSales(ctx, ListSalesRequest{})
	require.NoError(t, err)
	require.Len(t, reports, 3)
	require.Equal(t, []string{first.ID, second.ID, third.ID},
		[]string{reports[0].ID, reports[1].ID, reports[2].ID})
}

func TestUpdateSaleDoesNotAdjustStock(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesHandler(db, nil)
	stockLedger := ledger.NewLedgerHandler(db, nil)
	ctx := context.Background()

	store := models.Store{Name: "Downtown"}
	require.NoError(t, db.Create(&store).Error)
	folder := models.Folder{Name: "Bags", StoreID: store.ID}
	require.NoError(t, db.Create(&folder).Error)
	product := models.Product{Name: "Canvas Tote", Quantity: 10, FolderID: folder.ID, Source: "warehouse"}
	require.NoError(t, db.Create(&product).Error)

	_, sale, err := stockLedger.RecordSale(ctx, ledger.RecordSaleRequest{
		ProductID:    product.ID,
		Quantity:     4,
		CustomerName: "Jane",
		SoldAt:       time.Now(),
	})
	require.NoError(t, err)

	quantity := int32(1)
	updated, err := sales.UpdateSale(ctx, sale.ID, UpdateSaleRequest{Quantity: &quantity})
	require.NoError(t, err)
	require.Equal(t, int32(1), updated.Quantity)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, int32(6), stored.Quantity)
}

func TestUpdateSaleValidation(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesHandler(db, nil)
	ctx := context.Background()

	sale := seedSale(t, db, "Jane", "p1", 2, time.Now())

	empty := ""
	_, err := sales.UpdateSale(ctx, sale.ID, UpdateSaleRequest{CustomerName: &empty})
	require.True(t, apperrors.IsInvalidInput(err))

	zero := int32(0)
	_, err = sales.UpdateSale(ctx, sale.ID, UpdateSaleRequest{Quantity: &zero})
	require.True(t, apperrors.IsInvalidInput(err))

	_, err = sales.UpdateSale(ctx, "missing", UpdateSaleRequest{})
	require.True(t, apperrors.IsNotFound(err))
}

func TestDeleteSale(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesHandler(db, nil)
	ctx := context.Background()

	sale := seedSale(t, db, "Jane", "p1", 2, time.Now())

	require.NoError(t, sales.DeleteSale(ctx, sale.ID))
	require.True(t, apperrors.IsNotFound(sales.DeleteSale(ctx, sale.ID)))

	_, err := sales.GetSale(ctx, sale.ID)
	require.True(t, apperrors.IsNotFound(err))
}
