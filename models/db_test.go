package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&OperationStatus{}, &OperationType{}, &Category{}, &Subcategory{}, &Operation{},
	))
	return db
}

// seedHierarchy loads the reference rows the repository tests share:
//
//	Пополнение (type 1): Инфраструктура (cat 1): VPS (sub 1)
//	Списание   (type 2): Маркетинг      (cat 2): Avito (sub 2)
func seedHierarchy(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&OperationStatus{ID: 1, Name: "Бизнес"}).Error)
	require.NoError(t, db.Create(&[]OperationType{
		{ID: 1, Name: "Пополнение"},
		{ID: 2, Name: "Списание"},
	}).Error)
	require.NoError(t, db.Create(&[]Category{
		{ID: 1, Name: "Инфраструктура", TypeID: 1},
		{ID: 2, Name: "Маркетинг", TypeID: 2},
	}).Error)
	require.NoError(t, db.Create(&[]Subcategory{
		{ID: 1, Name: "VPS", CategoryID: 1},
		{ID: 2, Name: "Avito", CategoryID: 2},
	}).Error)
}

// seedOperation writes a ledger row directly, bypassing validation, so tests
// can stage referencing rows in any shape.
func seedOperation(t *testing.T, db *gorm.DB, op Operation) Operation {
	t.Helper()

	if op.Date.IsZero() {
		op.Date = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	}
	if op.Amount.IsZero() {
		op.Amount = decimal.NewFromInt(100)
	}
	require.NoError(t, db.Omit("Status", "Type", "Category", "Subcategory").Create(&op).Error)
	return op
}

func ptr[T any](v T) *T {
	return &v
}
