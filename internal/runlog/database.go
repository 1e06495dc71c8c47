package runlog

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/0tiemWBmine0/specset-go/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitializeDatabase sets up the SQLite database connection using the
// provided configuration.
func InitializeDatabase(ctx *config.Context) error {
	if !ctx.Settings.Output.SQLite.Enabled {
		return nil
	}

	// Separate the directory and file name from the SQLite path
	dir, fileName := filepath.Split(ctx.Settings.Output.SQLite.Path)

	// Expand the directory path to an absolute path
	basePath := config.GetBasePath(dir)
	absoluteFilePath := filepath.Join(basePath, fileName)

	var err error
	ctx.Db, err = gorm.Open(sqlite.Open(absoluteFilePath), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %v", err)
	} else if ctx.Settings.Debug {
		log.Println("SQLite database connection initialized:", absoluteFilePath)
	}

	if err = ctx.Db.AutoMigrate(&Epoch{}); err != nil {
		return fmt.Errorf("failed to auto-migrate SQLite database: %v", err)
	}

	return nil
}

// SaveToDatabase inserts a new Epoch record into the database.
func SaveToDatabase(ctx *config.Context, record Epoch) error {
	// Initialize the database if it's not already connected.
	if ctx.Db == nil {
		if err := InitializeDatabase(ctx); err != nil {
			return fmt.Errorf("failed to initialize database for saving epoch record: %v", err)
		}
	}

	if err := ctx.Db.Create(&record).Error; err != nil {
		log.Printf("Failed to save epoch record: %v\n", err)
		return err
	}

	if ctx.Settings.Debug {
		log.Printf("Saved epoch record: %v\n", record)
	}

	return nil
}
