package controllers

import (
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

// AttendanceController owns the check-in/check-out state machine and the
// attendance queries. The store is the only authority: every decision re-reads
// current truth inside the same atomic unit that writes it.
type AttendanceController struct {
	db *gorm.DB
}

// NewAttendanceController creates a new controller instance.
func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{db: db}
}

var errAlreadyCheckedIn = errors.New("already checked in")

// CheckIn opens a presence session for a child. The open-session check and the
// insert run in one transaction holding a row lock on the child, so two
// concurrent check-ins for the same child cannot both succeed.
func (a *AttendanceController) CheckIn(ctx *gin.Context) {
	var req struct {
		ChildID uint    `json:"child_id" binding:"required"`
		Notes   *string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	var record models.Attendance
	err := a.db.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var child models.Child
		if err := lockForUpdate(tx).First(&child, req.ChildID).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.Attendance{}).
			Where("child_id = ? AND check_out_time IS NULL", req.ChildID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return errAlreadyCheckedIn
		}

		record = models.Attendance{
			ChildID:     req.ChildID,
			CheckInTime: time.Now().In(utils.Timezone()),
			Notes:       optionalText(req.Notes),
		}
		return tx.Create(&record).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40420, fmt.Sprintf("child with id %d not found", req.ChildID))
		case errors.Is(err, errAlreadyCheckedIn):
			utils.Error(ctx, http.StatusConflict, 40920, fmt.Sprintf("child with id %d is already checked in", req.ChildID))
		default:
			utils.Sugar.Errorf("check-in failed for child %d: %v", req.ChildID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to check in")
		}
		return
	}

	utils.InvalidateByPrefix("cache:stats:")
	utils.Success(ctx, gin.H{"attendance": record})
}

// CheckOut closes an open session. The state check and the write are a single
// conditional UPDATE, so a session can only ever be closed once; omitted notes
// preserve the stored value, an explicit empty string overwrites it.
func (a *AttendanceController) CheckOut(ctx *gin.Context) {
	var req struct {
		AttendanceID uint    `json:"attendance_id" binding:"required"`
		Notes        *string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	updates := map[string]interface{}{
		"check_out_time": time.Now().In(utils.Timezone()),
	}
	if req.Notes != nil {
		updates["notes"] = utils.CleanText(*req.Notes)
	}

	db := a.db.WithContext(ctx.Request.Context())
	res := db.Model(&models.Attendance{}).
		Where("id = ? AND check_out_time IS NULL", req.AttendanceID).
		Updates(updates)
	if res.Error != nil {
		utils.Sugar.Errorf("check-out failed for attendance %d: %v", req.AttendanceID, res.Error)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to check out")
		return
	}

	var record models.Attendance
	if err := db.First(&record, req.AttendanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40421, fmt.Sprintf("attendance record with id %d not found", req.AttendanceID))
			return
		}
		utils.Sugar.Errorf("check-out reload failed for attendance %d: %v", req.AttendanceID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to check out")
		return
	}

	// The record exists but the conditional update matched nothing: it was
	// already closed, possibly by a concurrent request that won the race.
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusConflict, 40921, fmt.Sprintf("attendance record with id %d is already checked out", req.AttendanceID))
		return
	}

	utils.InvalidateByPrefix("cache:stats:")
	utils.Success(ctx, gin.H{"attendance": record})
}

// ListChildAttendance returns a child's sessions, optionally restricted to the
// day window of ?date=YYYY-MM-DD, most recent check-in first.
func (a *AttendanceController) ListChildAttendance(ctx *gin.Context) {
	childID, ok := parseIDParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid child id")
		return
	}

	db := a.db.WithContext(ctx.Request.Context())
	var child models.Child
	if err := db.First(&child, childID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, fmt.Sprintf("child with id %d not found", childID))
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load child")
		return
	}

	query := db.Where("child_id = ?", childID)
	if raw := strings.TrimSpace(ctx.Query("date")); raw != "" {
		day, err := utils.ParseDate(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40023, "invalid date, expected YYYY-MM-DD")
			return
		}
		start, end := utils.DayWindow(day)
		query = query.Where("check_in_time >= ? AND check_in_time < ?", start, end)
	}

	var records []models.Attendance
	if err := query.Order("check_in_time DESC, id ASC").Find(&records).Error; err != nil {
		utils.Sugar.Errorf("attendance query failed for child %d: %v", childID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to list attendance")
		return
	}

	utils.Success(ctx, gin.H{"attendance": records})
}

type currentAttendanceRow struct {
	ID           uint       `json:"id"`
	ChildID      uint       `json:"child_id"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Notes        *string    `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	ChildName    string     `json:"child_name"`
	ParentName   string     `json:"parent_name"`
	ParentPhone  string     `json:"parent_phone"`
}

// CurrentAttendance lists every open session across all children, enriched
// with directory display fields for the front desk.
func (a *AttendanceController) CurrentAttendance(ctx *gin.Context) {
	var rows []currentAttendanceRow
	err := a.db.WithContext(ctx.Request.Context()).
		Model(&models.Attendance{}).
		Select("attendances.id, attendances.child_id, attendances.check_in_time, attendances.check_out_time, attendances.notes, attendances.created_at, children.name AS child_name, children.parent_name, children.parent_phone").
		Joins("JOIN children ON children.id = attendances.child_id").
		Where("attendances.check_out_time IS NULL").
		Order("attendances.check_in_time ASC, attendances.id ASC").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("current attendance query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to list current attendance")
		return
	}

	utils.Success(ctx, gin.H{"attendance": rows})
}
