package database_test

import (
	"context"
	"testing"

	"github.com/bytebasket/backend/config"
	"github.com/bytebasket/backend/internal/database"
	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "bb"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=bb sslmode=disable", database.DSN(cfg))

	cfg.DBSSLMode = "require"
	assert.Contains(t, database.DSN(cfg), "sslmode=require")
}

func TestRunMigrationsSQLite(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)

	for _, model := range database.Models() {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.UserDietaryPreference{}, "idx_user_restriction"))

	// Running again is a no-op.
	require.NoError(t, database.RunMigrations(db, t.TempDir()))
	require.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestRunMigrationsPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)

	user := testhelpers.CreateTestUser(t, db, models.RoleRecipient)
	restriction := testhelpers.CreateTestRestriction(t, db, "Nut-Free", models.CategoryAllergen, true)
	pref := &models.UserDietaryPreference{UserID: user.ID, RestrictionID: restriction.ID, IsActive: true}
	require.NoError(t, db.Create(pref).Error)

	var loaded models.UserDietaryPreference
	require.NoError(t, db.Preload("Restriction").First(&loaded, "id = ?", pref.ID).Error)
	require.NotNil(t, loaded.Restriction)
	assert.Equal(t, "Nut-Free", loaded.Restriction.Name)
	assert.Equal(t, models.SeverityMild, loaded.Severity)
}
