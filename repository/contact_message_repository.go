package repository

import (
	"context"

	"github.com/raf-advanced/maintenance-api/models"
	"github.com/raf-advanced/maintenance-api/utils"
	"gorm.io/gorm"
)

// ContactMessageRepositoryImpl implements ContactMessageRepository interface
type ContactMessageRepositoryImpl struct {
	*BaseRepository[models.ContactMessage, models.ContactMessageFilter]
}

// NewContactMessageRepository creates a new contact message repository
func NewContactMessageRepository(db *gorm.DB) ContactMessageRepository {
	return &ContactMessageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ContactMessage, models.ContactMessageFilter](db),
	}
}

// ByUUID retrieves a contact message by UUID
func (r *ContactMessageRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.ContactMessage, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.ContactMessageFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ContactMessageRepositoryImpl) applyFilter(query *gorm.DB, filter models.ContactMessageFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *filter.PhoneNumber)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves contact messages based on filter criteria
func (r *ContactMessageRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactMessageFilter, orderBy string, limit, offset int) ([]*models.ContactMessage, error) {
	db := r.getDB(ctx)
	query := db.WithContext(ctx).Model(&models.ContactMessage{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ContactMessage
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of contact messages matching filter
func (r *ContactMessageRepositoryImpl) Count(ctx context.Context, filter models.ContactMessageFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.WithContext(ctx).Model(&models.ContactMessage{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any contact message matches the filter
func (r *ContactMessageRepositoryImpl) Exists(ctx context.Context, filter models.ContactMessageFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
