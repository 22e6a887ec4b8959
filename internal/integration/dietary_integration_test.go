package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebasket/backend/config"
	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/server"
	"github.com/bytebasket/backend/internal/service"
	"github.com/bytebasket/backend/internal/testhelpers"
	"github.com/bytebasket/backend/internal/types"
)

// TestDietaryFlowPostgres runs the preference and matching flow against a
// real PostgreSQL instance.
func TestDietaryFlowPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	restrictions := service.NewDietaryRestrictionService(db)
	_, err := restrictions.SeedDefaults(ctx)
	require.NoError(t, err)

	catalog, err := restrictions.ListAvailable(ctx, types.RestrictionFilter{})
	require.NoError(t, err)
	byName := map[string]models.DietaryRestriction{}
	for _, r := range catalog {
		byName[r.Name] = r
	}

	user := testhelpers.CreateTestUser(t, db, models.RoleRecipient)
	admin := testhelpers.CreateTestUser(t, db, models.RoleAdmin)
	tokens := service.NewTokenService("integration-secret")
	userToken, err := tokens.GenerateToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateToken(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)

	srv := server.New(&config.Config{JWTSecret: "integration-secret", MismatchLogCapacity: 100}, db,
		server.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		server.WithRegistry(prometheus.NewRegistry()),
	)
	h := srv.Handler()

	call := func(method, path, token string, body interface{}) (int, map[string]interface{}) {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
		return w.Code, decoded
	}

	// Set preferences twice so the second call upserts over existing rows.
	for i := 0; i < 2; i++ {
		status, _ := call(http.MethodPut, "/api/v1/dietary-preferences", userToken, types.UpdatePreferencesRequest{
			Preferences: []types.PreferenceInput{
				{RestrictionID: byName["Gluten-Free"].ID, Severity: models.SeverityStrict},
				{RestrictionID: byName["Dairy-Free"].ID, Severity: models.SeverityMild},
				{RestrictionID: byName["Vegan"].ID, Severity: models.SeverityMild},
			},
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, body := call(http.MethodPost, "/api/v1/dietary-preferences/test-matching", userToken, types.TestMatchingRequest{
		InventoryItems: []types.InventoryItem{
			{"_id": "1", "item_name": "Whole Wheat Bread", "category": "bakery"},
			{"_id": "2", "item_name": "Cheddar Cheese", "category": "dairy"},
			{"_id": "3", "item_name": "Fresh Apples", "category": "produce"},
			{"_id": "4", "item_name": "Honey", "category": "pantry"},
		},
	})
	require.Equal(t, http.StatusOK, status)
	result := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), result["strictExclusions"])
	assert.Equal(t, float64(1), result["mildExclusions"])
	assert.Len(t, result["compatibleItems"], 2)

	status, body = call(http.MethodGet, "/api/v1/admin/dietary-mismatches?userId="+user.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 2)

	// An active preference blocks deletion.
	status, _ = call(http.MethodDelete, "/api/v1/admin/dietary-restrictions/"+byName["Vegan"].ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(http.MethodPut, "/api/v1/dietary-preferences", userToken, types.UpdatePreferencesRequest{Preferences: []types.PreferenceInput{}})
	require.Equal(t, http.StatusOK, status)

	status, _ = call(http.MethodDelete, "/api/v1/admin/dietary-restrictions/"+byName["Vegan"].ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
}
