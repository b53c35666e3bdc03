package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"opsboard/internal/model"
)

// DefaultIndustries is seeded into an empty industries table on first open.
var DefaultIndustries = []string{
	"Oil & Gas / Petroleum Refining & Storage",
	"Power Generation",
	"Mining & Mineral Processing",
	"Steel & Metal Processing",
	"Cement & Building Materials",
	"Food & Beverage Manufacturing",
	"Cocoa & Agro-Processing",
	"Chemicals & Pharmaceuticals",
	"Textiles & Light Manufacturing",
	"LNG / LPG & Fuel Storage",
	"Water Treatment & Utilities",
	"Pulp & Paper / Printing",
	"Shipyards & Marine",
	"Other",
}

// NewDB opens a SQLite database, runs migrations and seeds reference data.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "data/opsboard.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.Industry{}, &model.Region{}, &model.Client{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedIndustries(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Reset removes the database file and reopens a fresh schema with reference
// data reseeded. Irreversible. A missing file is not an error.
func Reset(path string) (*gorm.DB, error) {
	if path == "" {
		path = "data/opsboard.db"
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove db file %q: %w", path, err)
	}
	return NewDB(path)
}

// seedIndustries inserts the fixed reference list only when the table is empty.
func seedIndustries(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Industry{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count industries: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, name := range DefaultIndustries {
		if err := db.Create(&model.Industry{Name: name}).Error; err != nil {
			return fmt.Errorf("seed industry %q: %w", name, err)
		}
	}
	return nil
}

// withForeignKeys makes sure the SQLite connection enforces foreign keys, so
// deleting a client clears task references instead of orphaning them.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// ensureDirForSQLite creates the parent dir for the SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
