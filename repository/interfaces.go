// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/raf-advanced/maintenance-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SequenceCounterRepository defines operations for named atomic counters
type SequenceCounterRepository interface {
	// NextOrderNumber atomically seeds-or-increments the order number
	// counter and returns the allocated value. The first allocation
	// returns models.OrderNumberStart.
	NextOrderNumber(ctx context.Context) (int64, error)
	Current(ctx context.Context, name string) (*models.SequenceCounter, error)
}

// MaintenanceRequestRepository defines operations for maintenance requests
type MaintenanceRequestRepository interface {
	Repository[models.MaintenanceRequest, models.MaintenanceRequestFilter]
	ByOrderNumber(ctx context.Context, orderNumber int64) (*models.MaintenanceRequest, error)
	ByUUID(ctx context.Context, uuidStr string) (*models.MaintenanceRequest, error)
}

// ContactMessageRepository defines operations for contact messages
type ContactMessageRepository interface {
	Repository[models.ContactMessage, models.ContactMessageFilter]
	ByUUID(ctx context.Context, uuidStr string) (*models.ContactMessage, error)
}
