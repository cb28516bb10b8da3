package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mkarras/kindertrack/models"
	"github.com/mkarras/kindertrack/utils"
)

// MealController owns meal recording and the meal queries. Meals are
// independent of attendance; the two share only the day-window logic.
type MealController struct {
	db *gorm.DB
}

// NewMealController creates a new controller instance.
func NewMealController(db *gorm.DB) *MealController {
	return &MealController{db: db}
}

// RecordMeal stores one serving for one child. meal_date accepts a calendar
// date (normalized to start-of-day in the reference zone) or a full timestamp
// and defaults to now; several meals of the same type per day are fine.
func (m *MealController) RecordMeal(ctx *gin.Context) {
	var req struct {
		ChildID        uint    `json:"child_id" binding:"required"`
		MealType       string  `json:"meal_type" binding:"required"`
		Description    string  `json:"description" binding:"required,min=1"`
		ConsumedAmount string  `json:"consumed_amount" binding:"required,min=1"`
		MealDate       *string `json:"meal_date"`
		Notes          *string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	if !models.ValidMealType(req.MealType) {
		utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("invalid meal type %q", req.MealType))
		return
	}

	mealDate := time.Now().In(utils.Timezone())
	if req.MealDate != nil && strings.TrimSpace(*req.MealDate) != "" {
		parsed, err := utils.ParseDateOrTime(strings.TrimSpace(*req.MealDate))
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40032, "invalid meal_date, expected YYYY-MM-DD or RFC3339 timestamp")
			return
		}
		mealDate = parsed
	}

	db := m.db.WithContext(ctx.Request.Context())
	var child models.Child
	if err := db.First(&child, req.ChildID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, fmt.Sprintf("child with id %d not found", req.ChildID))
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load child")
		return
	}

	record := models.Meal{
		ChildID:        req.ChildID,
		MealType:       req.MealType,
		Description:    utils.CleanText(req.Description),
		ConsumedAmount: strings.TrimSpace(req.ConsumedAmount),
		MealDate:       mealDate,
		Notes:          optionalText(req.Notes),
	}
	if err := db.Create(&record).Error; err != nil {
		utils.Sugar.Errorf("meal insert failed for child %d: %v", req.ChildID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to record meal")
		return
	}

	utils.InvalidateByPrefix("cache:meals:daily:")
	utils.InvalidateByPrefix("cache:stats:")
	utils.Success(ctx, gin.H{"meal": record})
}

// ListChildMeals returns a child's meals, filtered conjunctively by the day
// window of ?date= and by ?meal_type=, newest serving first.
func (m *MealController) ListChildMeals(ctx *gin.Context) {
	childID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid child id")
		return
	}

	db := m.db.WithContext(ctx.Request.Context())
	var child models.Child
	if err := db.First(&child, childID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, fmt.Sprintf("child with id %d not found", childID))
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load child")
		return
	}

	query := db.Where("child_id = ?", childID)
	if raw := strings.TrimSpace(ctx.Query("date")); raw != "" {
		day, err := utils.ParseDate(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40034, "invalid date, expected YYYY-MM-DD")
			return
		}
		start, end := utils.DayWindow(day)
		query = query.Where("meal_date >= ? AND meal_date < ?", start, end)
	}
	if mealType := strings.TrimSpace(ctx.Query("meal_type")); mealType != "" {
		if !models.ValidMealType(mealType) {
			utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("invalid meal type %q", mealType))
			return
		}
		query = query.Where("meal_type = ?", mealType)
	}

	var meals []models.Meal
	if err := query.Order("meal_date DESC, id DESC").Find(&meals).Error; err != nil {
		utils.Sugar.Errorf("meal query failed for child %d: %v", childID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to list meals")
		return
	}

	utils.Success(ctx, gin.H{"meals": meals})
}

type dailyMealRow struct {
	ID             uint      `json:"id"`
	ChildID        uint      `json:"child_id"`
	MealType       string    `json:"meal_type"`
	Description    string    `json:"description"`
	ConsumedAmount string    `json:"consumed_amount"`
	ConsumedLabel  string    `json:"consumed_label" gorm:"-"`
	MealDate       time.Time `json:"meal_date"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	ChildName      string    `json:"child_name"`
	ParentName     string    `json:"parent_name"`
}

// DailyMeals returns every meal of a day across all children, grouped for the
// kitchen report: children alphabetically, then servings in the order they
// were given. Defaults to today; responses are cached per day.
func (m *MealController) DailyMeals(ctx *gin.Context) {
	day := time.Now().In(utils.Timezone())
	if raw := strings.TrimSpace(ctx.Query("date")); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40035, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}
	start, end := utils.DayWindow(day)

	cacheKey := "cache:meals:daily:" + start.Format("2006-01-02")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var rows []dailyMealRow
	err := m.db.WithContext(ctx.Request.Context()).
		Model(&models.Meal{}).
		Select("meals.id, meals.child_id, meals.meal_type, meals.description, meals.consumed_amount, meals.meal_date, meals.notes, meals.created_at, children.name AS child_name, children.parent_name").
		Joins("JOIN children ON children.id = meals.child_id").
		Where("meals.meal_date >= ? AND meals.meal_date < ?", start, end).
		Order("children.name ASC, meals.meal_date ASC, meals.id ASC").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("daily meals query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to list daily meals")
		return
	}

	for i := range rows {
		rows[i].ConsumedLabel = models.ConsumedAmountLabel(rows[i].ConsumedAmount)
	}

	payload := gin.H{
		"date":  start.Format("2006-01-02"),
		"meals": rows,
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	if b, err := json.Marshal(wrapper); err == nil {
		utils.CacheSetBytes(cacheKey, b, time.Minute)
	}

	utils.Success(ctx, payload)
}
