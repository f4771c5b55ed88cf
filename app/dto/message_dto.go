package dto

import "time"

// CreateContactMessageRequest carries the public contact form payload
type CreateContactMessageRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Content     string `json:"content" validate:"required"`
}

// CreateContactMessageResponse returns the stored message identifiers
type CreateContactMessageResponse struct {
	Message   string `json:"message"`
	UUID      string `json:"uuid"`
	CreatedAt string `json:"created_at"`
}

// ContactMessageItem represents a contact message row in admin listings
type ContactMessageItem struct {
	ID          uint   `json:"id"`
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
}

// ListContactMessagesRequest filters for admin listing of contact messages
type ListContactMessagesRequest struct {
	PhoneNumber *string    `json:"phone_number,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Page        uint       `json:"page,omitempty"`
	PageSize    uint       `json:"page_size,omitempty"`
}

// ListContactMessagesResponse returns a page of contact messages
type ListContactMessagesResponse struct {
	Message string               `json:"message"`
	Total   int64                `json:"total"`
	Items   []ContactMessageItem `json:"items"`
}
