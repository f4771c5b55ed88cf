package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/raf-advanced/maintenance-api/models"
	"github.com/raf-advanced/maintenance-api/utils"
	"gorm.io/gorm"
)

// SequenceCounterRepositoryImpl implements SequenceCounterRepository interface
type SequenceCounterRepositoryImpl struct {
	db *gorm.DB
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{db: db}
}

func (r *SequenceCounterRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// NextOrderNumber allocates the next order number in a single statement.
// The insert arm seeds the counter at the starting value, so the first
// allocation observes models.OrderNumberStart and every later allocation
// increments under the row lock Postgres takes for the upsert. Allocated
// values are never reused, even when the caller's request later fails.
func (r *SequenceCounterRepositoryImpl) NextOrderNumber(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)

	now := utils.UTCNow()
	var next int64
	err := db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (name, last_value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE
		SET last_value = sequence_counters.last_value + 1,
		    updated_at = EXCLUDED.updated_at
		RETURNING last_value`,
		models.CounterOrderNumber, int64(models.OrderNumberStart), now, now,
	).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate order number: %w", err)
	}

	return next, nil
}

// Current returns the counter row, or nil when it has never been seeded
func (r *SequenceCounterRepositoryImpl) Current(ctx context.Context, name string) (*models.SequenceCounter, error) {
	db := r.getDB(ctx)

	var row models.SequenceCounter
	if err := db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
