package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moham3d/clinic-records/internal/models"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrDuplicateMRN    = errors.New("mrn already registered")
)

func (r *GormRepo) CreatePatient(ctx context.Context, p *models.Patient) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Patient{}).Where("mrn = ?", p.MRN).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateMRN
		}
		return tx.Create(p).Error
	})
}

func (r *GormRepo) FindPatientByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	var p models.Patient
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ListPatients(ctx context.Context, offset, limit int) (int64, []models.Patient, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Patient{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Patient
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) UpdatePatientFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Patient, error) {
	res := r.DB.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPatientNotFound
	}
	return r.FindPatientByID(ctx, id)
}

func (r *GormRepo) DeletePatient(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Patient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPatientNotFound
	}
	return nil
}
