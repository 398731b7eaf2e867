package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recyclink/recyclink/middleware"
	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/rewards"
	"github.com/recyclink/recyclink/utils"
)

// PickupController handles the pickup lifecycle: scheduling, acceptance,
// code-verified completion and post-completion rating.
type PickupController struct {
	db     *gorm.DB
	ledger *rewards.Ledger
}

// NewPickupController creates a new controller instance.
func NewPickupController(db *gorm.DB, ledger *rewards.Ledger) *PickupController {
	return &PickupController{db: db, ledger: ledger}
}

// Schedule creates a pickup for the authenticated customer.
func (p *PickupController) Schedule(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	type request struct {
		Date     string `json:"date" binding:"required"`
		TimeSlot string `json:"time_slot" binding:"required"`
		Address  string `json:"address" binding:"required"`
		Items    string `json:"items"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "date must be YYYY-MM-DD")
		return
	}

	pickup := models.Pickup{
		PickupID:         "PICKUP-" + uuid.NewString(),
		VerificationCode: newVerificationCode(),
		CustomerID:       userID,
		Status:           models.PickupScheduled,
		Date:             req.Date,
		TimeSlot:         utils.SanitizeText(req.TimeSlot),
		Address:          utils.SanitizeText(req.Address),
		Items:            utils.SanitizeText(req.Items),
	}

	if err := p.db.Create(&pickup).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to schedule pickup")
		return
	}

	utils.Success(ctx, pickup)
}

// List returns the pickups visible to the caller: customers see their own,
// agents see the open pool plus everything assigned to them.
func (p *PickupController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	var pickups []models.Pickup
	var err error
	if ctx.GetString(middleware.ContextRoleKey) == models.RoleAgent {
		err = p.db.Where("status = ? OR agent_id = ?", models.PickupScheduled, userID).
			Order("created_at DESC").Find(&pickups).Error
	} else {
		err = p.db.Where("customer_id = ?", userID).
			Order("created_at DESC").Find(&pickups).Error
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list pickups")
		return
	}

	// Verification codes are only shown to the owning customer
	if ctx.GetString(middleware.ContextRoleKey) == models.RoleAgent {
		for i := range pickups {
			pickups[i].VerificationCode = ""
		}
	}

	utils.Success(ctx, pickups)
}

// Accept moves a scheduled pickup to in-progress and assigns the agent.
func (p *PickupController) Accept(ctx *gin.Context) {
	agentID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	pickupID := ctx.Param("id")
	now := time.Now()

	// Guarded update: the status predicate makes acceptance first-wins under
	// concurrent agents and keeps transitions forward-only.
	res := p.db.Model(&models.Pickup{}).
		Where("pickup_id = ? AND status = ?", pickupID, models.PickupScheduled).
		Updates(map[string]interface{}{
			"status":      models.PickupInProgress,
			"agent_id":    agentID,
			"accepted_at": now,
		})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to accept pickup")
		return
	}
	if res.RowsAffected == 0 {
		var existing models.Pickup
		if err := p.db.Where("pickup_id = ?", pickupID).First(&existing).Error; err != nil {
			utils.Error(ctx, http.StatusNotFound, 40411, "pickup not found")
			return
		}
		utils.Error(ctx, http.StatusConflict, 40910, "pickup is not available")
		return
	}

	var pickup models.Pickup
	if err := p.db.Where("pickup_id = ?", pickupID).First(&pickup).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load pickup")
		return
	}
	pickup.VerificationCode = ""
	utils.Success(ctx, pickup)
}

// Verify completes a pickup by its verification code and pays the agent.
// Verifying a still-scheduled pickup completes it directly; the agent simply
// never earns the speed bonus without an acceptance timestamp.
func (p *PickupController) Verify(ctx *gin.Context) {
	agentID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	type request struct {
		VerificationCode string `json:"verification_code" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.VerificationCode))

	var pickup models.Pickup
	if err := p.db.Where("verification_code = ?", code).First(&pickup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40412, "invalid verification code")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load pickup")
		return
	}

	if pickup.Status == models.PickupCompleted {
		utils.Error(ctx, http.StatusConflict, 40911, "pickup already completed")
		return
	}

	now := time.Now()
	res := p.db.Model(&models.Pickup{}).
		Where("pickup_id = ? AND status <> ?", pickup.PickupID, models.PickupCompleted).
		Updates(map[string]interface{}{
			"status":       models.PickupCompleted,
			"agent_id":     agentID,
			"completed_at": now,
		})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to complete pickup")
		return
	}
	if res.RowsAffected == 0 {
		// Lost the race with another verification
		utils.Error(ctx, http.StatusConflict, 40911, "pickup already completed")
		return
	}

	if err := p.db.Where("pickup_id = ?", pickup.PickupID).First(&pickup).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load pickup")
		return
	}

	var agent models.User
	if err := p.db.Where("user_id = ?", agentID).First(&agent).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load agent")
		return
	}

	points := rewards.AgentReward(pickup, agent.Stats())
	reason := fmt.Sprintf("Completed pickup %s", pickup.PickupID)
	if err := p.ledger.Award(ctx, agentID, points, reason); err != nil {
		utils.Sugar.Errorf("failed to award pickup points to %s: %v", agentID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to award points")
		return
	}
	if err := p.ledger.RecordPickupCompletion(ctx, agentID); err != nil {
		utils.Sugar.Errorf("failed to bump pickup count for %s: %v", agentID, err)
	}

	if _, err := p.ledger.RefreshCustomerStreak(ctx, pickup.CustomerID, streakLocation()); err != nil {
		utils.Sugar.Errorf("failed to refresh streak for %s: %v", pickup.CustomerID, err)
	}

	pickup.VerificationCode = ""
	utils.Success(ctx, gin.H{
		"pickup":         pickup,
		"points_awarded": points,
	})
}

// Rate records the customer's 1-5 rating on their completed pickup, once.
func (p *PickupController) Rate(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	type request struct {
		Rating int `json:"rating" binding:"required,min=1,max=5"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "rating must be an integer between 1 and 5")
		return
	}

	pickupID := ctx.Param("id")

	var pickup models.Pickup
	if err := p.db.Where("pickup_id = ?", pickupID).First(&pickup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "pickup not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load pickup")
		return
	}

	if pickup.CustomerID != userID {
		utils.Error(ctx, http.StatusForbidden, 40310, "not your pickup")
		return
	}
	if pickup.Status != models.PickupCompleted {
		utils.Error(ctx, http.StatusConflict, 40912, "pickup is not completed yet")
		return
	}
	if pickup.Rating != nil {
		utils.Error(ctx, http.StatusConflict, 40913, "pickup already rated")
		return
	}

	res := p.db.Model(&models.Pickup{}).
		Where("pickup_id = ? AND rating IS NULL", pickupID).
		Update("rating", req.Rating)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to save rating")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusConflict, 40913, "pickup already rated")
		return
	}

	utils.Success(ctx, gin.H{"rating": req.Rating})
}

// newVerificationCode returns a short uppercase code customers hand to agents
// at the door (also embedded in the pickup QR).
func newVerificationCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:6])
}
