package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/raf-advanced/maintenance-api/utils"
	"gorm.io/gorm"
)

// ContactMessage is a general inquiry submitted through the site's contact
// form. Insert-only, like maintenance requests.
type ContactMessage struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	PhoneNumber string    `gorm:"type:varchar(32);not null" json:"phone_number"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	Content     string    `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// BeforeCreate ensures the UUID is set and timestamps are normalized.
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
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

// ContactMessageFilter represents filter criteria for message queries
type ContactMessageFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	PhoneNumber   *string    `json:"phone_number,omitempty"`
	Email         *string    `json:"email,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
