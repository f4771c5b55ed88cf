// Package testing provides test utilities and database setup for testing the maintenance API
package testing

import (
	"fmt"
	"math/rand"

	"github.com/raf-advanced/maintenance-api/models"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestMaintenanceRequest creates a maintenance request row with the
// given order number and plausible form data
func (tf *TestFixtures) CreateTestMaintenanceRequest(orderNumber int64) (*models.MaintenanceRequest, error) {
	randomDigits := fmt.Sprintf("%08d", rand.Intn(90000000)+10000000)

	row := &models.MaintenanceRequest{
		OrderNumber:      orderNumber,
		Name:             "Saleh Alqahtani",
		NumberOfFloors:   "3",
		PhoneNumber:      fmt.Sprintf("+9665%s", randomDigits),
		NumberOfProjects: "A12",
		NumberOfFlats:    "12",
		Address:          "King Fahd Road, Riyadh",
		Details:          "Water leakage in the bathroom ceiling",
	}

	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create test maintenance request: %w", err)
	}

	return row, nil
}

// CreateTestContactMessage creates a contact message row
func (tf *TestFixtures) CreateTestContactMessage() (*models.ContactMessage, error) {
	randomDigits := fmt.Sprintf("%08d", rand.Intn(90000000)+10000000)

	row := &models.ContactMessage{
		Name:        "Noura Alharbi",
		PhoneNumber: fmt.Sprintf("+9665%s", randomDigits),
		Email:       fmt.Sprintf("noura.%s@example.com", randomDigits),
		Content:     "I would like to ask about available units",
	}

	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contact message: %w", err)
	}

	return row, nil
}
