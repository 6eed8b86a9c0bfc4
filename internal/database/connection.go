// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ceramstore/ceramstore-backend/internal/config"
	"github.com/ceramstore/ceramstore-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Showroom{},
		&models.Warehouse{},
		&models.InventoryRecord{},
		&models.StockReservation{},
		&models.StockMovement{},
		&models.CartItem{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_type_status ON users(user_type, status)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_status ON products(category_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured) WHERE is_featured",
		"CREATE INDEX IF NOT EXISTS idx_products_specifications ON products USING GIN(specifications)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_inventory_low_stock ON inventory_records(warehouse_id) WHERE quantity_available <= reorder_point",
		"CREATE INDEX IF NOT EXISTS idx_reservations_user_product ON stock_reservations(user_id, product_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_reservations_expiry ON stock_reservations(expires_at) WHERE status = 'active'",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id, created_at DESC)",

		// Showroom indexes
		"CREATE INDEX IF NOT EXISTS idx_showrooms_city ON showrooms(city) WHERE is_active",

		// Full-text search
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('simple', name || ' ' || coalesce(description, '')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Email:    "admin@ceramstore.ro",
			FullName: "Administrator",
			UserType: models.UserTypeAdmin,
			Status:   models.UserStatusActive,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Create the default warehouse, required before any reservation works
	var warehouseCount int64
	db.Model(&models.Warehouse{}).Where("is_default = ?", true).Count(&warehouseCount)

	if warehouseCount == 0 {
		warehouse := &models.Warehouse{
			Name:      "Depozit Central",
			Code:      "DC-01",
			Address:   "Sos. de Centura 12, Bucuresti",
			IsDefault: true,
			IsActive:  true,
		}
		if err := db.Create(warehouse).Error; err != nil {
			return fmt.Errorf("failed to create default warehouse: %w", err)
		}
		log.Println("Default warehouse created successfully")
	}

	// Create the storefront categories
	defaultCategories := []models.Category{
		{Code: models.CategoryFaianta, Name: "Faianta", SortOrder: 1, IsActive: true},
		{Code: models.CategoryGresie, Name: "Gresie", SortOrder: 2, IsActive: true},
		{Code: models.CategoryPavaj, Name: "Pavaj", SortOrder: 3, IsActive: true},
		{Code: models.CategoryParchet, Name: "Parchet", SortOrder: 4, IsActive: true},
		{Code: models.CategoryAccesorii, Name: "Accesorii", SortOrder: 5, IsActive: true},
	}

	for _, category := range defaultCategories {
		var count int64
		db.Model(&models.Category{}).Where("code = ?", category.Code).Count(&count)

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Warning: Failed to create category %s: %v", category.Code, err)
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
