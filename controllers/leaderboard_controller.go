package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/rewards"
	"github.com/recyclink/recyclink/utils"
)

const leaderboardCacheTTL = time.Minute

// LeaderboardController serves ranked reward views and per-user reward data.
type LeaderboardController struct {
	db     *gorm.DB
	ledger *rewards.Ledger
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(db *gorm.DB, ledger *rewards.Ledger) *LeaderboardController {
	return &LeaderboardController{db: db, ledger: ledger}
}

// GetLeaderboard returns the top users of a role by accumulated points.
func (l *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	role := strings.TrimSpace(ctx.DefaultQuery("role", models.RoleCustomer))
	if role != models.RoleCustomer && role != models.RoleAgent {
		utils.Error(ctx, http.StatusBadRequest, 40070, "role must be customer or agent")
		return
	}

	limit := 10
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			utils.Error(ctx, http.StatusBadRequest, 40071, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	cacheKey := fmt.Sprintf("cache:leaderboard:%s:%d", role, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	// Registration order matches the original flat array, so ties rank by
	// who joined first.
	var users []models.User
	if err := l.db.Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load users")
		return
	}

	entries := rewards.Leaderboard(users, role, limit)

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: entries}
	utils.CacheSetJSON(cacheKey, wrapper, leaderboardCacheTTL)
	utils.Success(ctx, entries)
}

// MyRewards returns the caller's reward history, newest first.
func (l *LeaderboardController) MyRewards(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	page, pageSize := 1, 20
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	var total int64
	if err := l.db.Model(&models.RewardEntry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to count rewards")
		return
	}

	var entries []models.RewardEntry
	if err := l.db.Where("user_id = ?", userID).Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load rewards")
		return
	}

	utils.Success(ctx, gin.H{
		"items": entries,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// MyStreak recomputes and returns the caller's consecutive-day streak.
func (l *LeaderboardController) MyStreak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	streak, err := l.ledger.RefreshCustomerStreak(ctx, userID, streakLocation())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to compute streak")
		return
	}

	utils.Success(ctx, gin.H{"current_streak": streak})
}
