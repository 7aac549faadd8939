package infra

import (
	"fmt"

	"ventapos/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the local SQLite file and runs AutoMigrate for the
// relational part of the store (catalog, users, clients, settings). Invoice
// and audit documents live on the filesystem, not here.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Single-writer file database; extra connections just contend on the lock.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Producto{},
		&model.Usuario{},
		&model.Cliente{},
		&model.Setting{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}
