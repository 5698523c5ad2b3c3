package database

import (
	"cargoflow/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

var DB *gorm.DB

// InitDB initializes the database connection. Dialect is "sqlite3" for
// local development and tests, "postgres" in deployment.
func InitDB(dialect, dsn string) error {
	var err error
	DB, err = gorm.Open(dialect, dsn)
	if err != nil {
		return err
	}
	return nil
}

// Migrate creates or updates the schema for all entities.
func Migrate() error {
	return DB.AutoMigrate(
		&models.WarehouseItem{},
		&models.Container{},
		&models.Claim{},
		&models.ClaimImage{},
		&models.StatusEvent{},
		&models.User{},
	).Error
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
