// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/audit"
	"github.com/your-org/inventory-backend/internal/domain/sale"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/transfer"
	"github.com/your-org/inventory-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	config *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},

		// Stock domain - the inventory ledger
		&stock.Location{},
		&stock.StockRecord{},

		// Sale domain
		&sale.SaleRecord{},

		// Transfer domain - request lifecycle and policy
		&transfer.TransferRequest{},
		&transfer.ApprovalPolicy{},

		// Audit domain - append-only ledger
		&audit.TransferLedgerEntry{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_location ON users(location)",

		// Stock record indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_records_location_quantity ON stock_records(location, quantity)",
		"CREATE INDEX IF NOT EXISTS idx_stock_records_updated_at ON stock_records(updated_at DESC)",

		// Sale record indexes
		"CREATE INDEX IF NOT EXISTS idx_sale_records_location_sold_at ON sale_records(location, sold_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sale_records_sold_by_sold_at ON sale_records(sold_by, sold_at DESC)",

		// Transfer request indexes
		"CREATE INDEX IF NOT EXISTS idx_transfer_requests_status_requested_at ON transfer_requests(status, requested_at)",
		"CREATE INDEX IF NOT EXISTS idx_transfer_requests_from_to ON transfer_requests(from_location, to_location)",

		// Ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_type_recorded_at ON transfer_ledger_entries(entry_type, recorded_at)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Additional database indexes created successfully")
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedLocations(); err != nil {
		return fmt.Errorf("failed to seed locations: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedApprovalPolicy(); err != nil {
		return fmt.Errorf("failed to seed approval policy: %w", err)
	}

	if m.config.IsDevelopment() {
		if err := m.seedDemoStock(); err != nil {
			return fmt.Errorf("failed to seed demo stock: %w", err)
		}
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedLocations creates the configured branch locations
func (m *Migration) seedLocations() error {
	log.Println("🏬 Seeding branch locations...")

	for i, code := range m.config.Inventory.BranchLocations {
		var existing stock.Location
		result := m.db.Where("code = ?", code).First(&existing)
		if result.Error != nil {
			location := stock.Location{
				Code:     code,
				Name:     fmt.Sprintf("Branch %d", i+1),
				IsActive: true,
			}
			if err := m.db.Create(&location).Error; err != nil {
				return fmt.Errorf("failed to create location %s: %w", code, err)
			}
			log.Printf("Created location: %s", code)
		}
	}

	return nil
}

// seedAdminUser creates the default administrator account
func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", m.config.Inventory.SeedAdminEmail).First(&existing)
	if result.Error == nil {
		return nil
	}

	password := m.config.Inventory.SeedAdminPassword
	if password == "" {
		if m.config.IsProduction() {
			return fmt.Errorf("SEED_ADMIN_PASSWORD is required in production")
		}
		password = "Admin@12345"
		log.Println("⚠️ Using default dev admin password. Set SEED_ADMIN_PASSWORD to override.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), m.config.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:    m.config.Inventory.SeedAdminEmail,
		Password: string(hashed),
		FullName: "Super Admin",
		Role:     user.RoleSuperAdmin,
		IsActive: true,
		IsAdmin:  true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Created admin user: %s", admin.Email)
	return nil
}

// seedApprovalPolicy bootstraps the singleton approval policy
func (m *Migration) seedApprovalPolicy() error {
	log.Println("📋 Seeding approval policy...")

	var existing transfer.ApprovalPolicy
	result := m.db.Order("id").First(&existing)
	if result.Error == nil {
		return nil
	}

	policy := transfer.ApprovalPolicy{
		RequireApproval:  m.config.Inventory.DefaultRequireApproval,
		AutoApproveBelow: m.config.Inventory.DefaultAutoApproveBelow,
		AllowedLocations: transfer.StringList(m.config.Inventory.BranchLocations),
		Version:          1,
	}

	if err := m.db.Create(&policy).Error; err != nil {
		return fmt.Errorf("failed to create approval policy: %w", err)
	}

	return nil
}

// seedDemoStock inserts a few stock records for development
func (m *Migration) seedDemoStock() error {
	log.Println("📦 Seeding demo stock...")

	if len(m.config.Inventory.BranchLocations) == 0 {
		return nil
	}
	location := m.config.Inventory.BranchLocations[0]

	records := []stock.StockRecord{
		{
			ItemCode:           "IPH15-128-BLK",
			Location:           location,
			Brand:              "Apple",
			Model:              "iPhone 15",
			Storage:            "128GB",
			Color:              "Black",
			Quantity:           25,
			OrderPrice:         decimal.NewFromInt(58000),
			SalePrice:          decimal.NewFromInt(69900),
			DiscountPercentage: 5,
		},
		{
			ItemCode:           "SGS24-256-GRY",
			Location:           location,
			Brand:              "Samsung",
			Model:              "Galaxy S24",
			Storage:            "256GB",
			Color:              "Gray",
			Quantity:           18,
			OrderPrice:         decimal.NewFromInt(52000),
			SalePrice:          decimal.NewFromInt(64999),
			DiscountPercentage: 0,
		},
	}

	for _, record := range records {
		var existing stock.StockRecord
		result := m.db.Where("item_code = ? AND location = ?", record.ItemCode, record.Location).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create demo stock %s: %w", record.ItemCode, err)
			}
			log.Printf("Created demo stock: %s @ %s", record.ItemCode, record.Location)
		}
	}

	return nil
}

// GetTableInfo logs row counts for the main tables (development helper)
func (m *Migration) GetTableInfo() {
	tables := []string{
		"users",
		"locations",
		"stock_records",
		"sale_records",
		"transfer_requests",
		"approval_policies",
		"transfer_ledger_entries",
	}

	log.Println("📊 Table info:")
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("  %s: error (%v)", table, err)
			continue
		}
		log.Printf("  %s: %d rows", table, count)
	}
}
