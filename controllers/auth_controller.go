package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/utils"
)

const tokenLifetime = 24 * time.Hour

// AuthController handles registration, login and profile endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new controller instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a new customer or agent account.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Name        string `json:"name" binding:"required,min=2,max=128"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6,max=64"`
		Role        string `json:"role" binding:"required"`
		Phone       string `json:"phone"`
		VehicleInfo string `json:"vehicle_info"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	if req.Role != models.RoleCustomer && req.Role != models.RoleAgent {
		utils.Error(ctx, http.StatusBadRequest, 40002, "role must be customer or agent")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		UserID:       "USER-" + uuid.NewString(),
		Name:         utils.SanitizeText(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        utils.SanitizeText(req.Phone),
	}
	if req.Role == models.RoleAgent {
		user.VehicleInfo = utils.SanitizeText(req.VehicleInfo)
	}

	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	utils.Success(ctx, user)
}

// Login verifies credentials, issues a JWT and primes the session projection.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		// Same response for unknown email and wrong password
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.UserID, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to issue token")
		return
	}

	utils.SetSessionUser(user)

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the presented token and drops the session projection.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 {
		token := strings.TrimSpace(parts[1])
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}

	if userID, ok := getUserID(ctx); ok {
		utils.ClearSessionUser(userID)
	}

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current user with live totals, preferring the session
// projection the ledger keeps fresh.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	if cached, ok := utils.GetSessionUser(userID); ok {
		utils.Success(ctx, cached)
		return
	}

	var user models.User
	if err := a.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load user")
		return
	}

	utils.SetSessionUser(user)
	utils.Success(ctx, user)
}

// UpdateProfile patches mutable profile fields.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	type request struct {
		Name        *string `json:"name"`
		Phone       *string `json:"phone"`
		VehicleInfo *string `json:"vehicle_info"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := utils.SanitizeText(*req.Name)
		if len(name) < 2 {
			utils.Error(ctx, http.StatusBadRequest, 40021, "name too short")
			return
		}
		updates["name"] = name
	}
	if req.Phone != nil {
		updates["phone"] = utils.SanitizeText(*req.Phone)
	}
	if req.VehicleInfo != nil {
		updates["vehicle_info"] = utils.SanitizeText(*req.VehicleInfo)
	}

	if len(updates) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40022, "no fields to update")
		return
	}

	if err := a.db.Model(&models.User{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to update profile")
		return
	}

	var user models.User
	if err := a.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load user")
		return
	}

	utils.RefreshSessionUser(user)
	utils.Success(ctx, user)
}
