package controllers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mkarras/kindertrack/models"
	"github.com/mkarras/kindertrack/utils"
)

// StatsController provides the dashboard counts for the current day.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new controller instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns facility counts: registered children, children currently
// present, and today's check-ins and meals.
func (s *StatsController) GetStats(ctx *gin.Context) {
	start, end := utils.DayWindow(time.Now())

	cacheKey := "cache:stats:" + start.Format("2006-01-02")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	db := s.db.WithContext(ctx.Request.Context())

	var childCount int64
	if err := db.Model(&models.Child{}).Count(&childCount).Error; err != nil {
		// Fall back to 0 instead of failing the whole endpoint
		childCount = 0
	}

	var presentCount int64
	if err := db.Model(&models.Attendance{}).
		Where("check_out_time IS NULL").
		Count(&presentCount).Error; err != nil {
		presentCount = 0
	}

	var checkinsToday int64
	if err := db.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ?", start, end).
		Count(&checkinsToday).Error; err != nil {
		checkinsToday = 0
	}

	var mealsToday int64
	if err := db.Model(&models.Meal{}).
		Where("meal_date >= ? AND meal_date < ?", start, end).
		Count(&mealsToday).Error; err != nil {
		mealsToday = 0
	}

	payload := gin.H{
		"child_count":    childCount,
		"present_count":  presentCount,
		"checkins_today": checkinsToday,
		"meals_today":    mealsToday,
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	if b, err := json.Marshal(wrapper); err == nil {
		utils.CacheSetBytes(cacheKey, b, 30*time.Second)
	}

	utils.Success(ctx, payload)
}
