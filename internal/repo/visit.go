package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moham3d/clinic-records/internal/models"
)

var ErrVisitNotFound = errors.New("visit not found")

func (r *GormRepo) CreateVisit(ctx context.Context, v *models.Visit) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *GormRepo) FindVisitByID(ctx context.Context, id uuid.UUID) (*models.Visit, error) {
	var v models.Visit
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) ListVisitsByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) (int64, []models.Visit, error) {
	q := r.DB.WithContext(ctx).Model(&models.Visit{}).Where("patient_id = ?", patientID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Visit
	err := r.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("visited_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) UpdateVisitFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Visit, error) {
	res := r.DB.WithContext(ctx).Model(&models.Visit{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrVisitNotFound
	}
	return r.FindVisitByID(ctx, id)
}
