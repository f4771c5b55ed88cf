package repository

import (
	"context"
	"errors"

	"github.com/raf-advanced/maintenance-api/models"
	"github.com/raf-advanced/maintenance-api/utils"
	"gorm.io/gorm"
)

// MaintenanceRequestRepositoryImpl implements MaintenanceRequestRepository interface
type MaintenanceRequestRepositoryImpl struct {
	*BaseRepository[models.MaintenanceRequest, models.MaintenanceRequestFilter]
}

// NewMaintenanceRequestRepository creates a new maintenance request repository
func NewMaintenanceRequestRepository(db *gorm.DB) MaintenanceRequestRepository {
	return &MaintenanceRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.MaintenanceRequest, models.MaintenanceRequestFilter](db),
	}
}

// ByOrderNumber retrieves a maintenance request by its order number
func (r *MaintenanceRequestRepositoryImpl) ByOrderNumber(ctx context.Context, orderNumber int64) (*models.MaintenanceRequest, error) {
	db := r.getDB(ctx)
	var row models.MaintenanceRequest
	if err := db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ByUUID retrieves a maintenance request by UUID
func (r *MaintenanceRequestRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.MaintenanceRequest, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.MaintenanceRequestFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// applyFilter applies filter criteria to a GORM query
func (r *MaintenanceRequestRepositoryImpl) applyFilter(query *gorm.DB, filter models.MaintenanceRequestFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.OrderNumber != nil {
		query = query.Where("order_number = ?", *filter.OrderNumber)
	}
	if filter.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *filter.PhoneNumber)
	}
	if filter.Project != nil {
		query = query.Where("number_of_projects = ?", *filter.Project)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves maintenance requests based on filter criteria
func (r *MaintenanceRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.MaintenanceRequestFilter, orderBy string, limit, offset int) ([]*models.MaintenanceRequest, error) {
	db := r.getDB(ctx)
	query := db.WithContext(ctx).Model(&models.MaintenanceRequest{})

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

	var rows []*models.MaintenanceRequest
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of maintenance requests matching filter
func (r *MaintenanceRequestRepositoryImpl) Count(ctx context.Context, filter models.MaintenanceRequestFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.WithContext(ctx).Model(&models.MaintenanceRequest{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any maintenance request matches the filter
func (r *MaintenanceRequestRepositoryImpl) Exists(ctx context.Context, filter models.MaintenanceRequestFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
