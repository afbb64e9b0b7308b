// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/bundle"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
	"github.com/your-org/inventory-backend/internal/domain/order"
	"github.com/your-org/inventory-backend/internal/domain/returns"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:  db,
		cfg: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// Staff accounts
		&user.User{},

		// Catalog - base tables
		&catalog.Item{},
		&catalog.Location{},

		// Stock cells and ledger
		&stock.StockCell{},
		&stock.LedgerEntry{},

		// Bundles
		&bundle.Bundle{},
		&bundle.Component{},

		// Sales orders
		&order.SalesOrder{},
		&order.OrderLine{},
		&order.StatusChange{},

		// Returns
		&returns.ReturnRecord{},
	}

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

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_items_sku ON items(sku)",
		"CREATE INDEX IF NOT EXISTS idx_items_archived ON items(is_archived)",
		"CREATE INDEX IF NOT EXISTS idx_locations_default ON locations(is_default)",

		// Ledger indexes - the audit read path filters on these
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_item_created ON ledger_entries(item_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_location ON ledger_entries(location_id)",
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_kind ON ledger_entries(kind)",
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_reference ON ledger_entries(reference_type, reference_id)",

		// Bundle indexes
		"CREATE INDEX IF NOT EXISTS idx_bundle_components_bundle ON bundle_components(bundle_id, position)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_sales_orders_status_created ON sales_orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_orders_order_number ON sales_orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",

		// Return indexes
		"CREATE INDEX IF NOT EXISTS idx_return_records_item_created ON return_records(item_id, created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedSaleLocation(); err != nil {
		return fmt.Errorf("failed to seed sale location: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedSaleLocation creates the default sale location if none exists
func (m *Migration) seedSaleLocation() error {
	var count int64
	if err := m.db.Model(&catalog.Location{}).Where("is_default = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	loc := catalog.Location{
		Name:      m.cfg.Inventory.SaleLocationName,
		IsDefault: true,
	}
	if err := m.db.Create(&loc).Error; err != nil {
		return err
	}

	log.Printf("📍 Created default sale location %q (id=%d)", loc.Name, loc.ID)
	return nil
}

// seedAdminUser creates the initial admin account if none exists
func (m *Migration) seedAdminUser() error {
	var count int64
	if err := m.db.Model(&user.User{}).Where("role = ?", stock.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123"), m.cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Email:    "admin@example.com",
		Password: string(hashed),
		Name:     "Administrator",
		Role:     stock.RoleAdmin,
		IsActive: true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("👤 Created admin user %s (change the password immediately)", admin.Email)
	return nil
}

// GetTableInfo logs row counts for the main tables
func (m *Migration) GetTableInfo() {
	tables := []string{
		"users", "items", "locations", "stock_cells", "ledger_entries",
		"bundles", "bundle_components", "sales_orders", "order_lines",
		"order_status_history", "return_records",
	}

	log.Println("📊 Table row counts:")
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("  %s: error (%v)", table, err)
			continue
		}
		log.Printf("  %s: %d", table, count)
	}
}
