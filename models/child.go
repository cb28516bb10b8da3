package models

import "time"

// Child is a profile in the facility directory. Attendance and meal records
// reference it by id; the profile itself is plain contact data and is never
// deleted, so those references stay valid.
type Child struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:128;not null;index" json:"name"`
	DateOfBirth      time.Time `gorm:"not null" json:"date_of_birth"`
	ParentName       string    `gorm:"size:128;not null" json:"parent_name"`
	ParentPhone      string    `gorm:"size:32;not null" json:"parent_phone"`
	ParentEmail      string    `gorm:"size:255;not null" json:"parent_email"`
	EmergencyContact string    `gorm:"size:128;not null" json:"emergency_contact"`
	EmergencyPhone   string    `gorm:"size:32;not null" json:"emergency_phone"`
	CreatedAt        time.Time `json:"created_at"`
}
