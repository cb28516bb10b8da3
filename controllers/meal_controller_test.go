package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarras/kindertrack/models"
	"github.com/mkarras/kindertrack/utils"
)

func recordMeal(t *testing.T, r *gin.Engine, body gin.H) map[string]interface{} {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/v1/meals", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeData(t, w)["meal"].(map[string]interface{})
}

func TestRecordMealDefaultsToNow(t *testing.T) {
	r, _ := newTestRouter(t)
	childID := createTestChild(t, r, "Paul")

	before := time.Now()
	meal := recordMeal(t, r, gin.H{
		"child_id":        childID,
		"meal_type":       models.MealLunch,
		"description":     "pasta with tomato sauce",
		"consumed_amount": models.ConsumedMost,
	})

	mealDate, err := time.Parse(time.RFC3339, meal["meal_date"].(string))
	require.NoError(t, err)
	assert.False(t, mealDate.Before(before.Add(-time.Second)))
	assert.LessOrEqual(t, time.Since(mealDate), 5*time.Second)
}

func TestRecordMealDateOnlyNormalizesToStartOfDay(t *testing.T) {
	r, _ := newTestRouter(t)
	childID := createTestChild(t, r, "Paula")

	meal := recordMeal(t, r, gin.H{
		"child_id":        childID,
		"meal_type":       models.MealBreakfast,
		"description":     "oatmeal",
		"consumed_amount": models.ConsumedHalf,
		"meal_date":       "2031-07-04",
	})

	mealDate, err := time.Parse(time.RFC3339, meal["meal_date"].(string))
	require.NoError(t, err)
	assert.True(t, mealDate.Equal(time.Date(2031, 7, 4, 0, 0, 0, 0, time.Local)))
}

func TestRecordMealAcceptsTimestamp(t *testing.T) {
	r, _ := newTestRouter(t)
	childID := createTestChild(t, r, "Finn")

	at := time.Date(2031, 7, 4, 12, 15, 0, 0, time.Local)
	meal := recordMeal(t, r, gin.H{
		"child_id":        childID,
		"meal_type":       models.MealLunch,
		"description":     "rice and vegetables",
		"consumed_amount": models.ConsumedFull,
		"meal_date":       at.Format(time.RFC3339),
	})

	mealDate, err := time.Parse(time.RFC3339, meal["meal_date"].(string))
	require.NoError(t, err)
	assert.True(t, mealDate.Equal(at))
}

func TestRecordMealValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	childID := createTestChild(t, r, "Greta")

	// Unknown meal type
	w := doRequest(t, r, http.MethodPost, "/api/v1/meals", gin.H{
		"child_id":        childID,
		"meal_type":       "brunch",
		"description":     "croissant",
		"consumed_amount": models.ConsumedSome,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Malformed meal_date
	w = doRequest(t, r, http.MethodPost, "/api/v1/meals", gin.H{
		"child_id":        childID,
		"meal_type":       models.MealSnack,
		"description":     "apple slices",
		"consumed_amount": models.ConsumedSome,
		"meal_date":       "yesterday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Empty required string
	w = doRequest(t, r, http.MethodPost, "/api/v1/meals", gin.H{
		"child_id":        childID,
		"meal_type":       models.MealSnack,
		"description":     "",
		"consumed_amount": models.ConsumedSome,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Unknown child
	w = doRequest(t, r, http.MethodPost, "/api/v1/meals", gin.H{
		"child_id":        uint(9999),
		"meal_type":       models.MealSnack,
		"description":     "apple slices",
		"consumed_amount": models.ConsumedSome,
	})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestChildMealsFilterComposition(t *testing.T) {
	r, _ := newTestRouter(t)
	childID := createTestChild(t, r, "Theo")

	day := "2031-09-12"
	for _, mealType := range []string{models.MealBreakfast, models.MealLunch, models.MealSnack} {
		recordMeal(t, r, gin.H{
			"child_id":        childID,
			"meal_type":       mealType,
			"description":     "serving of " + mealType,
			"consumed_amount": models.ConsumedFull,
			"meal_date":       day,
		})
	}

	// Exactly the one lunch record for that day
	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/children/%d/meals?date=%s&meal_type=%s", childID, day, models.MealLunch), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	meals := decodeData(t, w)["meals"].([]interface{})
	require.Len(t, meals, 1)
	assert.Equal(t, models.MealLunch, meals[0].(map[string]interface{})["meal_type"])

	// Without filters all three come back
	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/children/%d/meals", childID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData(t, w)["meals"].([]interface{}), 3)

	// Another day is empty
	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/children/%d/meals?date=2031-09-13", childID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData(t, w)["meals"].([]interface{}))
}

func TestChildMealsOrderedByDateDescending(t *testing.T) {
	r, db := newTestRouter(t)
	childID := createTestChild(t, r, "Luisa")

	base := time.Date(2031, 10, 2, 7, 0, 0, 0, time.Local)
	for _, offset := range []time.Duration{0, 5 * time.Hour, 9 * time.Hour} {
		require.NoError(t, db.Create(&models.Meal{
			ChildID:        childID,
			MealType:       models.MealSnack,
			Description:    "snack",
			ConsumedAmount: models.ConsumedSome,
			MealDate:       base.Add(offset),
		}).Error)
	}

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/children/%d/meals", childID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	meals := decodeData(t, w)["meals"].([]interface{})
	require.Len(t, meals, 3)
	var previous time.Time
	for i, raw := range meals {
		ts, err := time.Parse(time.RFC3339, raw.(map[string]interface{})["meal_date"].(string))
		require.NoError(t, err)
		if i > 0 {
			assert.False(t, ts.After(previous), "meals must be newest first")
		}
		previous = ts
	}
}

func TestDailyMealsOrderingAndEnrichment(t *testing.T) {
	r, db := newTestRouter(t)
	benID := createTestChild(t, r, "Ben")
	annaID := createTestChild(t, r, "Anna")

	// Seeding bypasses the handlers, so drop any cached report first
	utils.InvalidateByPrefix("cache:meals:daily:")

	day := time.Date(2031, 11, 20, 0, 0, 0, 0, time.Local)
	seed := []struct {
		child uint
		at    time.Time
		kind  string
	}{
		{benID, day.Add(8 * time.Hour), models.MealBreakfast},
		{annaID, day.Add(12 * time.Hour), models.MealLunch},
		{annaID, day.Add(8 * time.Hour), models.MealBreakfast},
		{benID, day.Add(24 * time.Hour), models.MealBreakfast}, // next day, excluded
	}
	for _, s := range seed {
		require.NoError(t, db.Create(&models.Meal{
			ChildID:        s.child,
			MealType:       s.kind,
			Description:    "serving",
			ConsumedAmount: "threw it on the floor", // outside the canonical set
			MealDate:       s.at,
		}).Error)
	}

	w := doRequest(t, r, http.MethodGet, "/api/v1/meals/daily?date=2031-11-20", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, "2031-11-20", data["date"])

	meals := data["meals"].([]interface{})
	require.Len(t, meals, 3)

	// Children alphabetically, then servings in ascending time order
	first := meals[0].(map[string]interface{})
	second := meals[1].(map[string]interface{})
	third := meals[2].(map[string]interface{})

	assert.Equal(t, "Anna", first["child_name"])
	assert.Equal(t, models.MealBreakfast, first["meal_type"])
	assert.Equal(t, "Anna", second["child_name"])
	assert.Equal(t, models.MealLunch, second["meal_type"])
	assert.Equal(t, "Ben", third["child_name"])

	// Display enrichment without touching the record shape
	assert.Equal(t, "Parent of Anna", first["parent_name"])
	assert.Equal(t, "threw it on the floor", first["consumed_amount"])
	assert.Equal(t, "other", first["consumed_label"])
}

func TestMealRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)
	childID := createTestChild(t, r, "Maya")

	meal := recordMeal(t, r, gin.H{
		"child_id":        childID,
		"meal_type":       models.MealDinner,
		"description":     "lentil soup",
		"consumed_amount": models.ConsumedHalf,
		"notes":           "asked for seconds of bread",
	})

	assert.Equal(t, float64(childID), meal["child_id"])
	assert.Equal(t, models.MealDinner, meal["meal_type"])
	assert.Equal(t, "lentil soup", meal["description"])
	assert.Equal(t, models.ConsumedHalf, meal["consumed_amount"])
	assert.Equal(t, "asked for seconds of bread", meal["notes"])
	assert.NotZero(t, meal["id"])
	assert.NotEmpty(t, meal["created_at"])

	// Fetch immediately after creation returns the same record
	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/children/%d/meals", childID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	meals := decodeData(t, w)["meals"].([]interface{})
	require.Len(t, meals, 1)
	assert.Equal(t, meal["id"], meals[0].(map[string]interface{})["id"])
}
