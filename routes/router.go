package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/recyclink/recyclink/config"
	"github.com/recyclink/recyclink/controllers"
	"github.com/recyclink/recyclink/middleware"
	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/rewards"
	"github.com/recyclink/recyclink/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	ledger := rewards.NewLedger(db)

	authController := controllers.NewAuthController(db)
	classificationController := controllers.NewClassificationController(db, ledger)
	pickupController := controllers.NewPickupController(db, ledger)
	leaderboardController := controllers.NewLeaderboardController(db, ledger)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public read models
	api.GET("/leaderboard", leaderboardController.GetLeaderboard)
	api.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/classifications", middleware.RoleRequired(models.RoleCustomer), classificationController.Classify)

	protected.GET("/pickups", pickupController.List)
	protected.POST("/pickups", middleware.RoleRequired(models.RoleCustomer), pickupController.Schedule)
	protected.POST("/pickups/:id/accept", middleware.RoleRequired(models.RoleAgent), pickupController.Accept)
	protected.POST("/pickups/verify", middleware.RoleRequired(models.RoleAgent), pickupController.Verify)
	protected.POST("/pickups/:id/rating", middleware.RoleRequired(models.RoleCustomer), pickupController.Rate)

	protected.GET("/users/me/rewards", leaderboardController.MyRewards)
	protected.GET("/users/me/streak", middleware.RoleRequired(models.RoleCustomer), leaderboardController.MyStreak)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
