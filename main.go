package main

import (
	"github.com/mkarras/kindertrack/config"
	"github.com/mkarras/kindertrack/models"
	"github.com/mkarras/kindertrack/routes"
	"github.com/mkarras/kindertrack/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// All per-day queries run in the configured reference zone
	if err := utils.SetTimezone(cfg.TimeZone); err != nil {
		utils.Sugar.Fatalf("invalid TimeZone %q: %v", cfg.TimeZone, err)
	}

	db := config.InitDatabase(&models.Child{}, &models.Attendance{}, &models.Meal{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
