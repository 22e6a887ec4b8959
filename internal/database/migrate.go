package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytebasket/backend/internal/models"
	"gorm.io/gorm"
)

// Models lists every table owned by this service.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.DietaryRestriction{},
		&models.UserDietaryPreference{},
	}
}

// RunMigrations auto-migrates the schema, then applies any *.sql files in
// migrationsDir that have not been recorded yet. SQL files are skipped on
// SQLite and when migrationsDir is empty.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate schema: %w", err)
	}

	if migrationsDir == "" || db.Dialector.Name() == "sqlite" {
		return nil
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No migrations directory at %s, skipping SQL migrations", migrationsDir)
			return nil
		}
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	// Sort files by name to ensure correct order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var count int64
		if err := db.Table("migrations").Where("name = ?", entry.Name()).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Printf("Skipping migration %s (already applied)", entry.Name())
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", entry.Name()).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", entry.Name(), err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("Applied migration %s", entry.Name())
	}

	return nil
}
