package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/utils"
)

// StatsController provides platform-wide impact statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate recycling statistics for the platform.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var completedPickups int64
	var totalItems int64
	var totalCO2 float64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}

	if err := s.db.Model(&models.Pickup{}).
		Where("status = ?", models.PickupCompleted).
		Count(&completedPickups).Error; err != nil {
		completedPickups = 0
	}

	if err := s.db.Model(&models.User{}).
		Select("COALESCE(SUM(total_items),0)").
		Scan(&totalItems).Error; err != nil {
		totalItems = 0
	}

	if err := s.db.Model(&models.User{}).
		Select("COALESCE(SUM(total_co2_saved),0)").
		Scan(&totalCO2).Error; err != nil {
		totalCO2 = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":         userCount,
		"completed_pickups":  completedPickups,
		"total_items":        totalItems,
		"total_co2_saved_kg": totalCO2,
	})
}
