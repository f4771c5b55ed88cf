// Package businessflow contains the core business logic and use cases for maintenance request workflows
package businessflow

import (
	"strconv"
	"time"

	"github.com/raf-advanced/maintenance-api/app/dto"
	"github.com/raf-advanced/maintenance-api/config"
	"github.com/raf-advanced/maintenance-api/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToMaintenanceRequestItem converts a maintenance request model to its listing DTO
func ToMaintenanceRequestItem(r models.MaintenanceRequest) dto.MaintenanceRequestItem {
	return dto.MaintenanceRequestItem{
		ID:               r.ID,
		UUID:             r.UUID.String(),
		OrderCode:        strconv.FormatInt(r.OrderNumber, 10),
		Name:             r.Name,
		NumberOfFloors:   r.NumberOfFloors,
		PhoneNumber:      r.PhoneNumber,
		NumberOfProjects: r.NumberOfProjects,
		NumberOfFlats:    r.NumberOfFlats,
		Address:          r.Address,
		Details:          r.Details,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
}

// ToContactMessageItem converts a contact message model to its listing DTO
func ToContactMessageItem(m models.ContactMessage) dto.ContactMessageItem {
	return dto.ContactMessageItem{
		ID:          m.ID,
		UUID:        m.UUID.String(),
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		Email:       m.Email,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

// normalizePage clamps pagination inputs to sane bounds
func normalizePage(page, pageSize uint) (uint, uint) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// redisKey prefixes a cache key with the configured namespace
func redisKey(cfg config.CacheConfig, key string) string {
	return cfg.RedisPrefix + key
}
