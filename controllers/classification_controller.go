package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/rewards"
	"github.com/recyclink/recyclink/utils"
)

// ClassificationController records classification results and pays out
// customer rewards. The image classification itself happens client-side; the
// backend only trusts the resulting category and quantities.
type ClassificationController struct {
	db     *gorm.DB
	ledger *rewards.Ledger
}

// NewClassificationController creates a new controller instance.
func NewClassificationController(db *gorm.DB, ledger *rewards.Ledger) *ClassificationController {
	return &ClassificationController{db: db, ledger: ledger}
}

// Classify awards points and CO2 credit for a classified waste item.
func (c *ClassificationController) Classify(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	type request struct {
		Category  string  `json:"category" binding:"required"`
		Label     string  `json:"label"`
		ItemCount int     `json:"item_count"`
		WeightKg  float64 `json:"weight_kg"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	// Absent or non-positive quantities fall back to a single 1 kg item
	if req.ItemCount <= 0 {
		req.ItemCount = 1
	}
	if req.WeightKg <= 0 {
		req.WeightKg = 1
	}

	var user models.User
	if err := c.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load user")
		return
	}

	category := rewards.Category(req.Category)
	points := rewards.CustomerReward(category, req.ItemCount, user.Stats())
	co2Saved := rewards.CO2Saved(category, req.WeightKg)

	label := utils.SanitizeText(req.Label)
	if label == "" {
		label = req.Category
	}

	reason := fmt.Sprintf("Classified %s", label)
	if err := c.ledger.Award(ctx, userID, points, reason); err != nil {
		utils.Sugar.Errorf("failed to award classification points to %s: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to award points")
		return
	}

	if err := c.ledger.RecordClassification(ctx, userID, req.ItemCount, co2Saved); err != nil {
		utils.Sugar.Errorf("failed to record classification stats for %s: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to record stats")
		return
	}

	utils.Success(ctx, gin.H{
		"category":       req.Category,
		"points_awarded": points,
		"co2_saved_kg":   co2Saved,
	})
}
