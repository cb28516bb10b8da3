package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkarras/kindertrack/config"
	"github.com/mkarras/kindertrack/models"
	"github.com/mkarras/kindertrack/routes"
	"github.com/mkarras/kindertrack/utils"
)

func TestMain(m *testing.M) {
	// All requests share one client IP under httptest; keep the limiter out
	// of the way so it doesn't throttle the suite.
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	os.Setenv("GIN_MODE", "test")

	if err := utils.InitLogger(config.Load()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestRouter wires the real router against a fresh in-memory database.
// Shared cache keeps the database alive across gorm's pooled connections.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Child{}, &models.Attendance{}, &models.Meal{}))

	return routes.SetupRouter(db), db
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeData unwraps the {code, message, data} envelope.
func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func createTestChild(t *testing.T, r *gin.Engine, name string) uint {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/v1/children", gin.H{
		"name":              name,
		"date_of_birth":     "2022-04-01",
		"parent_name":       "Parent of " + name,
		"parent_phone":      "555-0100",
		"parent_email":      "parent@example.com",
		"emergency_contact": "Grandma",
		"emergency_phone":   "555-0101",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	child := decodeData(t, w)["child"].(map[string]interface{})
	return uint(child["id"].(float64))
}
