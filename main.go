package main

import (
	"github.com/recyclink/recyclink/config"
	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/routes"
	"github.com/recyclink/recyclink/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Pickup{}, &models.RewardEntry{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
