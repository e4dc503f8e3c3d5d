package inventory

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"warehouse-service/internal/model"
	"warehouse-service/pkg/config"
	"warehouse-service/prometheus"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var metricsOnce sync.Once

// initTestMetrics registers the prometheus collectors once per test binary
// so engine code can increment them.
func initTestMetrics() {
	metricsOnce.Do(func() {
		prometheus.InitMetrics(&config.Config{
			Metrics: config.MetricsConfig{Prefix: "warehouse_test"},
		})
	})
}

// newTestDB opens a throwaway sqlite database with the full schema. A
// single connection keeps concurrent transactions serialized the way the
// busy handler expects.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "warehouse.db") + "?cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.InventoryRecord{},
		&model.StockReservation{},
		&model.BundleConfig{},
		&model.GrosirTolerance{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.InventoryMovement{},
		&model.StockAlert{},
		&model.OutboxEvent{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	initTestMetrics()
	db := newTestDB(t)
	return NewService(db, nil, 30*time.Minute), db
}

func seedInventory(t *testing.T, db *gorm.DB, productID, variantID string, quantity, minStock int) *model.InventoryRecord {
	t.Helper()
	rec := &model.InventoryRecord{
		ProductID:         productID,
		VariantID:         variantID,
		SKU:               productID + "-" + variantID,
		Quantity:          quantity,
		AvailableQuantity: quantity,
		MinStockLevel:     minStock,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to seed inventory: %v", err)
	}
	return rec
}

func seedTolerance(t *testing.T, db *gorm.DB, productID, variantID string, maxExcess, currentExcess int) *model.GrosirTolerance {
	t.Helper()
	tol := &model.GrosirTolerance{
		ProductID:      productID,
		VariantID:      variantID,
		MaxExcessUnits: maxExcess,
		CurrentExcess:  currentExcess,
	}
	if err := db.Create(tol).Error; err != nil {
		t.Fatalf("failed to seed tolerance: %v", err)
	}
	return tol
}

func reloadRecord(t *testing.T, db *gorm.DB, id uint) *model.InventoryRecord {
	t.Helper()
	var rec model.InventoryRecord
	if err := db.First(&rec, id).Error; err != nil {
		t.Fatalf("failed to reload inventory record: %v", err)
	}
	return &rec
}

func countOutbox(t *testing.T, db *gorm.DB, eventType string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.OutboxEvent{}).Where("event_type = ?", eventType).Count(&n).Error; err != nil {
		t.Fatalf("failed to count outbox events: %v", err)
	}
	return n
}
