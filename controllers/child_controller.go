package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mkarras/kindertrack/models"
	"github.com/mkarras/kindertrack/utils"
)

// ChildController manages the child directory the attendance and meal
// subsystems resolve against. Plain CRUD, no state machine.
type ChildController struct {
	db *gorm.DB
}

// NewChildController creates a new controller instance.
func NewChildController(db *gorm.DB) *ChildController {
	return &ChildController{db: db}
}

// CreateChild registers a new child profile.
func (c *ChildController) CreateChild(ctx *gin.Context) {
	var req struct {
		Name             string `json:"name" binding:"required,min=1"`
		DateOfBirth      string `json:"date_of_birth" binding:"required"`
		ParentName       string `json:"parent_name" binding:"required,min=1"`
		ParentPhone      string `json:"parent_phone" binding:"required,min=1"`
		ParentEmail      string `json:"parent_email" binding:"required,email"`
		EmergencyContact string `json:"emergency_contact" binding:"required,min=1"`
		EmergencyPhone   string `json:"emergency_phone" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	dob, err := utils.ParseDateOrTime(strings.TrimSpace(req.DateOfBirth))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid date_of_birth, expected YYYY-MM-DD or RFC3339 timestamp")
		return
	}

	child := models.Child{
		Name:             utils.CleanText(req.Name),
		DateOfBirth:      dob,
		ParentName:       utils.CleanText(req.ParentName),
		ParentPhone:      strings.TrimSpace(req.ParentPhone),
		ParentEmail:      strings.TrimSpace(req.ParentEmail),
		EmergencyContact: utils.CleanText(req.EmergencyContact),
		EmergencyPhone:   strings.TrimSpace(req.EmergencyPhone),
	}
	if child.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "name cannot be empty")
		return
	}

	if err := c.db.WithContext(ctx.Request.Context()).Create(&child).Error; err != nil {
		utils.Sugar.Errorf("child insert failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to create child")
		return
	}

	utils.InvalidateByPrefix("cache:stats:")
	utils.Success(ctx, gin.H{"child": child})
}

// ListChildren returns all registered children, alphabetically.
func (c *ChildController) ListChildren(ctx *gin.Context) {
	var children []models.Child
	if err := c.db.WithContext(ctx.Request.Context()).
		Order("name ASC, id ASC").
		Find(&children).Error; err != nil {
		utils.Sugar.Errorf("children query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list children")
		return
	}

	utils.Success(ctx, gin.H{"children": children})
}

// GetChild returns one child profile by id.
func (c *ChildController) GetChild(ctx *gin.Context) {
	childID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid child id")
		return
	}

	var child models.Child
	if err := c.db.WithContext(ctx.Request.Context()).First(&child, childID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, fmt.Sprintf("child with id %d not found", childID))
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load child")
		return
	}

	utils.Success(ctx, gin.H{"child": child})
}

// UpdateChild partially updates a profile; absent fields keep their value.
func (c *ChildController) UpdateChild(ctx *gin.Context) {
	childID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid child id")
		return
	}

	var req struct {
		Name             *string `json:"name"`
		DateOfBirth      *string `json:"date_of_birth"`
		ParentName       *string `json:"parent_name"`
		ParentPhone      *string `json:"parent_phone"`
		ParentEmail      *string `json:"parent_email" binding:"omitempty,email"`
		EmergencyContact *string `json:"emergency_contact"`
		EmergencyPhone   *string `json:"emergency_phone"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := utils.CleanText(*req.Name)
		if name == "" {
			utils.Error(ctx, http.StatusBadRequest, 40012, "name cannot be empty")
			return
		}
		updates["name"] = name
	}
	if req.DateOfBirth != nil {
		dob, err := utils.ParseDateOrTime(strings.TrimSpace(*req.DateOfBirth))
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40011, "invalid date_of_birth, expected YYYY-MM-DD or RFC3339 timestamp")
			return
		}
		updates["date_of_birth"] = dob
	}
	if req.ParentName != nil {
		updates["parent_name"] = utils.CleanText(*req.ParentName)
	}
	if req.ParentPhone != nil {
		updates["parent_phone"] = strings.TrimSpace(*req.ParentPhone)
	}
	if req.ParentEmail != nil {
		updates["parent_email"] = strings.TrimSpace(*req.ParentEmail)
	}
	if req.EmergencyContact != nil {
		updates["emergency_contact"] = utils.CleanText(*req.EmergencyContact)
	}
	if req.EmergencyPhone != nil {
		updates["emergency_phone"] = strings.TrimSpace(*req.EmergencyPhone)
	}

	db := c.db.WithContext(ctx.Request.Context())
	var child models.Child
	if err := db.First(&child, childID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, fmt.Sprintf("child with id %d not found", childID))
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load child")
		return
	}

	if len(updates) > 0 {
		if err := db.Model(&child).Updates(updates).Error; err != nil {
			utils.Sugar.Errorf("child update failed for %d: %v", childID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update child")
			return
		}
		// Display fields feed the cached daily report.
		utils.InvalidateByPrefix("cache:meals:daily:")
	}

	utils.Success(ctx, gin.H{"child": child})
}
