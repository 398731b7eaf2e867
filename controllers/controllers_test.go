package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recyclink/recyclink/config"
	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/routes"
	"github.com/recyclink/recyclink/utils"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	config.SetForTesting(config.AppConfig{
		JWTSecret:          "test-secret",
		LogLevel:           "error",
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 10000,
	})
	require.NoError(t, utils.InitLogger(config.Get()))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Pickup{}, &models.RewardEntry{}))

	return routes.SetupRouter(db), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func registerAndLogin(t *testing.T, r *gin.Engine, name, email, role string) (token, userID string) {
	t.Helper()

	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "hunter2-ok",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))

	rr, env = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "hunter2-ok",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var loginData struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &loginData))
	require.NotEmpty(t, loginData.Token)

	return loginData.Token, user.UserID
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupAPI(t)

	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "No Role", "email": "norole@example.com", "password": "secret-pass", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Dup One", "email": "dup@example.com", "password": "secret-pass", "role": "customer",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Dup Two", "email": "dup@example.com", "password": "secret-pass", "role": "customer",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLoginAndMe(t *testing.T) {
	r, _ := setupAPI(t)
	token, userID := registerAndLogin(t, r, "Mina Customer", "mina@example.com", models.RoleCustomer)

	rr, env := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, userID, me.UserID)
	assert.Equal(t, models.RoleCustomer, me.Role)
	assert.Zero(t, me.Rewards)

	rr, _ = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "mina@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestClassifyAwardsPointsAndStats(t *testing.T) {
	r, _ := setupAPI(t)
	token, _ := registerAndLogin(t, r, "Ravi Customer", "ravi@example.com", models.RoleCustomer)

	// Very first classification doubles the base points
	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/classifications", token, gin.H{
		"category": "plastic", "label": "Plastic Bottle", "item_count": 1, "weight_kg": 2,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result struct {
		PointsAwarded int     `json:"points_awarded"`
		CO2SavedKg    float64 `json:"co2_saved_kg"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 20, result.PointsAwarded)
	assert.InDelta(t, 4.0, result.CO2SavedKg, 1e-9)

	// Second classification earns plain base points
	rr, env = doJSON(t, r, http.MethodPost, "/api/v1/classifications", token, gin.H{
		"category": "plastic", "label": "Plastic Bag",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 10, result.PointsAwarded)

	// Unknown categories fall back to the default table values
	rr, env = doJSON(t, r, http.MethodPost, "/api/v1/classifications", token, gin.H{
		"category": "unknown-stuff", "item_count": 3,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 30, result.PointsAwarded)

	rr, env = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, 60, me.Rewards)
	assert.Equal(t, 5, me.TotalItems)

	// History carries one entry per award, newest first
	rr, env = doJSON(t, r, http.MethodGet, "/api/v1/users/me/rewards", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var history struct {
		Items []models.RewardEntry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history.Items, 3)
	assert.Equal(t, 30, history.Items[0].Amount)
	assert.Equal(t, "Classified Plastic Bottle", history.Items[2].Reason)
}

func TestClassifyRequiresCustomerRole(t *testing.T) {
	r, _ := setupAPI(t)
	token, _ := registerAndLogin(t, r, "Ana Agent", "ana@example.com", models.RoleAgent)

	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/classifications", token, gin.H{"category": "plastic"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPickupLifecycle(t *testing.T) {
	r, _ := setupAPI(t)
	customerToken, _ := registerAndLogin(t, r, "Cleo Customer", "cleo@example.com", models.RoleCustomer)
	agentToken, agentID := registerAndLogin(t, r, "Abe Agent", "abe@example.com", models.RoleAgent)

	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/pickups", customerToken, gin.H{
		"date": "2026-09-01", "time_slot": "09:00-11:00", "address": "12 Green Way", "items": "3 bags of plastic",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var pickup models.Pickup
	require.NoError(t, json.Unmarshal(env.Data, &pickup))
	require.NotEmpty(t, pickup.PickupID)
	require.Len(t, pickup.VerificationCode, 6)

	// Agent accepts: scheduled -> in-progress
	rr, env = doJSON(t, r, http.MethodPost, "/api/v1/pickups/"+pickup.PickupID+"/accept", agentToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var accepted models.Pickup
	require.NoError(t, json.Unmarshal(env.Data, &accepted))
	assert.Equal(t, models.PickupInProgress, accepted.Status)
	assert.Equal(t, agentID, accepted.AgentID)
	require.NotNil(t, accepted.AcceptedAt)

	// Second accept loses the race
	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/pickups/"+pickup.PickupID+"/accept", agentToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Rating before completion is rejected
	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/pickups/"+pickup.PickupID+"/rating", customerToken, gin.H{"rating": 5})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Verification completes within the hour: base 50 + speed 10
	rr, env = doJSON(t, r, http.MethodPost, "/api/v1/pickups/verify", agentToken, gin.H{
		"verification_code": pickup.VerificationCode,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var completed struct {
		Pickup        models.Pickup `json:"pickup"`
		PointsAwarded int           `json:"points_awarded"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &completed))
	assert.Equal(t, models.PickupCompleted, completed.Pickup.Status)
	assert.Equal(t, 60, completed.PointsAwarded)

	// Re-verification is a conflict
	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/pickups/verify", agentToken, gin.H{
		"verification_code": pickup.VerificationCode,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Agent totals reflect the completed pickup
	rr, env = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", agentToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var agent models.User
	require.NoError(t, json.Unmarshal(env.Data, &agent))
	assert.Equal(t, 60, agent.Rewards)
	assert.Equal(t, 1, agent.TotalPickups)

	// Customer streak now counts today
	rr, env = doJSON(t, r, http.MethodGet, "/api/v1/users/me/streak", customerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var streak struct {
		CurrentStreak int `json:"current_streak"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &streak))
	assert.Equal(t, 1, streak.CurrentStreak)

	// Rating works exactly once after completion
	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/pickups/"+pickup.PickupID+"/rating", customerToken, gin.H{"rating": 5})
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/pickups/"+pickup.PickupID+"/rating", customerToken, gin.H{"rating": 4})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestVerifyWithoutAcceptSkipsSpeedBonus(t *testing.T) {
	r, _ := setupAPI(t)
	customerToken, _ := registerAndLogin(t, r, "Vik Customer", "vik@example.com", models.RoleCustomer)
	agentToken, _ := registerAndLogin(t, r, "Gus Agent", "gus@example.com", models.RoleAgent)

	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/pickups", customerToken, gin.H{
		"date": "2026-09-02", "time_slot": "14:00-16:00", "address": "7 Loop Rd",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var pickup models.Pickup
	require.NoError(t, json.Unmarshal(env.Data, &pickup))

	// Completing a still-scheduled pickup pays base points only
	rr, env = doJSON(t, r, http.MethodPost, "/api/v1/pickups/verify", agentToken, gin.H{
		"verification_code": pickup.VerificationCode,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var completed struct {
		PointsAwarded int `json:"points_awarded"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &completed))
	assert.Equal(t, 50, completed.PointsAwarded)
}

func TestLeaderboardEndpoint(t *testing.T) {
	r, db := setupAPI(t)

	seed := []models.User{
		{UserID: "USER-lb-a", Name: "Asha", Email: "lba@example.com", Role: models.RoleCustomer, Rewards: 30},
		{UserID: "USER-lb-b", Name: "Badru", Email: "lbb@example.com", Role: models.RoleCustomer, Rewards: 90},
		{UserID: "USER-lb-c", Name: "Chen", Email: "lbc@example.com", Role: models.RoleCustomer, Rewards: 10},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	rr, env := doJSON(t, r, http.MethodGet, "/api/v1/leaderboard?role=customer&limit=2", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []struct {
		Rank    int    `json:"rank"`
		Name    string `json:"name"`
		Rewards int    `json:"rewards"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Badru", entries[0].Name)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Asha", entries[1].Name)

	rr, _ = doJSON(t, r, http.MethodGet, "/api/v1/leaderboard?role=banker", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r, db := setupAPI(t)

	require.NoError(t, db.Create(&models.User{
		UserID: "USER-st", Name: "Stat", Email: "stat@example.com",
		Role: models.RoleCustomer, TotalItems: 7, TotalCO2Saved: 12.5,
	}).Error)

	rr, env := doJSON(t, r, http.MethodGet, "/api/v1/stats", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats struct {
		UserCount       int64   `json:"user_count"`
		TotalItems      int64   `json:"total_items"`
		TotalCO2SavedKg float64 `json:"total_co2_saved_kg"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.UserCount)
	assert.Equal(t, int64(7), stats.TotalItems)
	assert.InDelta(t, 12.5, stats.TotalCO2SavedKg, 1e-9)
}

func TestLogoutRevokesToken(t *testing.T) {
	r, _ := setupAPI(t)
	token, _ := registerAndLogin(t, r, "Bye Customer", "bye@example.com", models.RoleCustomer)

	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, _ = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
