package models

import "time"

// Attendance is one presence session for one child. CheckOutTime stays null
// while the child is in the building and is set exactly once on check-out; at
// most one open record may exist per child at any instant.
type Attendance struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ChildID      uint       `gorm:"index;not null" json:"child_id"`
	CheckInTime  time.Time  `gorm:"index;not null" json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Notes        *string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Open reports whether the session has not been checked out yet.
func (a *Attendance) Open() bool {
	return a.CheckOutTime == nil
}
