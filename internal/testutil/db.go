// internal/testutil/db.go
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/audit"
	"github.com/your-org/inventory-backend/internal/domain/sale"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/transfer"
	"github.com/your-org/inventory-backend/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an in-memory SQLite database with all tables migrated.
// A single connection is forced so transactions and reads never race across
// separate in-memory databases.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&user.User{},
		&stock.Location{},
		&stock.StockRecord{},
		&sale.SaleRecord{},
		&transfer.TransferRequest{},
		&transfer.ApprovalPolicy{},
		&audit.TransferLedgerEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// NewTestConfig returns a configuration suitable for service tests
func NewTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Inventory Backend",
			Version:     "test",
			Environment: "test",
		},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost:         4,
			RateLimitPerMinute: 1000,
		},
		Inventory: config.InventoryConfig{
			BranchLocations:         []string{"shop1", "shop2", "warehouse"},
			DefaultAutoApproveBelow: 10,
			DefaultRequireApproval:  true,
		},
	}
}
