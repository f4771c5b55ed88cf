package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/raf-advanced/maintenance-api/utils"
	"gorm.io/gorm"
)

// MaintenanceRequest is a single building-maintenance ticket submitted through
// the public site. Rows are insert-only: a resubmission creates a new record
// with a new order number, and there is no update or delete path.
//
// NumberOfFloors, NumberOfFlats and NumberOfProjects are stored as text:
// the frontend sends them as strings and NumberOfProjects is explicitly
// allowed to be alphanumeric (e.g. "A12").
type MaintenanceRequest struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	OrderNumber int64     `gorm:"uniqueIndex;not null" json:"order_number"`

	Name             string `gorm:"type:varchar(255);not null" json:"name"`
	NumberOfFloors   string `gorm:"type:varchar(32);not null" json:"number_of_floors"`
	PhoneNumber      string `gorm:"type:varchar(32);not null" json:"phone_number"`
	NumberOfProjects string `gorm:"type:varchar(64);not null" json:"number_of_projects"`
	NumberOfFlats    string `gorm:"type:varchar(32);not null" json:"number_of_flats"`
	Address          string `gorm:"type:varchar(512);not null" json:"address"`
	Details          string `gorm:"type:text;not null" json:"details"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MaintenanceRequest) TableName() string { return "maintenance_requests" }

// BeforeCreate ensures the UUID is set and timestamps are normalized.
func (m *MaintenanceRequest) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// MaintenanceRequestFilter represents filter criteria for request queries
type MaintenanceRequestFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	OrderNumber   *int64     `json:"order_number,omitempty"`
	PhoneNumber   *string    `json:"phone_number,omitempty"`
	Project       *string    `json:"project,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
