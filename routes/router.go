package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mkarras/kindertrack/config"
	"github.com/mkarras/kindertrack/controllers"
	"github.com/mkarras/kindertrack/middleware"
	"github.com/mkarras/kindertrack/utils"
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
	r.Use(middleware.RequestID())
	r.Use(utils.GinLogger(utils.Logger))
	r.Use(utils.GinRecovery(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
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
		utils.Success(ctx, gin.H{"status": "ok", "timestamp": time.Now().In(utils.Timezone()).Format(time.RFC3339)})
	})

	childController := controllers.NewChildController(db)
	attendanceController := controllers.NewAttendanceController(db)
	mealController := controllers.NewMealController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	// Read endpoints
	api.GET("/children", childController.ListChildren)
	api.GET("/children/:id", childController.GetChild)
	api.GET("/children/:id/attendance", attendanceController.ListChildAttendance)
	api.GET("/children/:id/meals", mealController.ListChildMeals)
	api.GET("/attendance/current", attendanceController.CurrentAttendance)
	api.GET("/meals/daily", mealController.DailyMeals)
	api.GET("/stats", statsController.GetStats)

	// Mutating endpoints are rate limited per client IP
	mutate := api.Group("")
	mutate.Use(middleware.RateLimitMiddleware())
	mutate.POST("/children", childController.CreateChild)
	mutate.PUT("/children/:id", childController.UpdateChild)
	mutate.POST("/attendance/check-in", attendanceController.CheckIn)
	mutate.POST("/attendance/check-out", attendanceController.CheckOut)
	mutate.POST("/meals", mealController.RecordMeal)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
