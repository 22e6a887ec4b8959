package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/bytebasket/backend/internal/database"
	"github.com/bytebasket/backend/internal/models"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	pgUser     = "bytebasket"
	pgPassword = "bytebasket"
	pgDatabase = "bytebasket_test"
)

// SetupSQLiteDB returns a migrated in-memory SQLite database private to the test.
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sqlite handle: %v", err)
	}
	// One connection avoids shared-cache table locks between pooled connections.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.RunMigrations(db, ""); err != nil {
		t.Fatalf("failed to migrate sqlite database: %v", err)
	}
	return db
}

// SetupPostgresDB starts a PostgreSQL container and returns a migrated
// connection to it. The test is skipped when docker is unavailable.
func SetupPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						pgUser, pgPassword, host, port.Port(), pgDatabase)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, mappedPort.Port(), pgUser, pgPassword, pgDatabase)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, ""); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// CreateTestUser inserts a user with the given role.
func CreateTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	id := uuid.New()
	user := &models.User{
		ID:    id,
		Name:  "Test User",
		Email: fmt.Sprintf("testuser+%s@example.com", id),
		Role:  role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestRestriction inserts an active restriction.
func CreateTestRestriction(t *testing.T, db *gorm.DB, name string, category models.RestrictionCategory, allergen bool) *models.DietaryRestriction {
	t.Helper()
	r := &models.DietaryRestriction{
		Name:       name,
		Category:   category,
		IsAllergen: allergen,
		IsActive:   true,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create test restriction: %v", err)
	}
	return r
}
