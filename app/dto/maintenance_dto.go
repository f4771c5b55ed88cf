package dto

import "time"

// SubmitMaintenanceRequest carries the public maintenance request form.
// All fields are required; the numeric-looking fields stay strings because
// the form accepts values like "A12" for the project identifier.
type SubmitMaintenanceRequest struct {
	Name             string `json:"name" validate:"required"`
	NumberOfFloors   string `json:"numberOfFloors" validate:"required"`
	PhoneNumber      string `json:"phoneNumber" validate:"required"`
	NumberOfProjects string `json:"numberOfProjects" validate:"required"`
	NumberOfFlats    string `json:"numberOfFlats" validate:"required"`
	Address          string `json:"address" validate:"required"`
	Details          string `json:"details" validate:"required"`
}

// SubmitMaintenanceResponse is the flat success payload of the public
// endpoint. The order code is top-level, not wrapped in a data envelope,
// because the site frontend reads it directly.
type SubmitMaintenanceResponse struct {
	Success   bool   `json:"success"`
	OrderCode string `json:"orderCode"`
	Message   string `json:"message"`
}

// MaintenanceRequestItem represents a maintenance request row in admin listings
type MaintenanceRequestItem struct {
	ID               uint   `json:"id"`
	UUID             string `json:"uuid"`
	OrderCode        string `json:"order_code"`
	Name             string `json:"name"`
	NumberOfFloors   string `json:"number_of_floors"`
	PhoneNumber      string `json:"phone_number"`
	NumberOfProjects string `json:"number_of_projects"`
	NumberOfFlats    string `json:"number_of_flats"`
	Address          string `json:"address"`
	Details          string `json:"details"`
	CreatedAt        string `json:"created_at"`
}

// ListMaintenanceRequestsRequest filters for admin listing of maintenance requests
// StartDate/EndDate are inclusive bounds on submission time
type ListMaintenanceRequestsRequest struct {
	PhoneNumber *string    `json:"phone_number,omitempty"`
	Project     *string    `json:"project,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Page        uint       `json:"page,omitempty"`
	PageSize    uint       `json:"page_size,omitempty"`
}

// ListMaintenanceRequestsResponse returns a page of maintenance requests
type ListMaintenanceRequestsResponse struct {
	Message string                   `json:"message"`
	Total   int64                    `json:"total"`
	Items   []MaintenanceRequestItem `json:"items"`
}

// GetMaintenanceRequestResponse returns a single maintenance request
type GetMaintenanceRequestResponse struct {
	Message string                 `json:"message"`
	Item    MaintenanceRequestItem `json:"item"`
}
