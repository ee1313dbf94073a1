package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moham3d/clinic-records/internal/models"
)

var (
	ErrTemplateNotFound      = errors.New("form template not found")
	ErrDuplicateTemplateName = errors.New("template name already taken")
)

func (r *GormRepo) CreateFormTemplate(ctx context.Context, t *models.FormTemplate) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.FormTemplate{}).Where("name = ?", t.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTemplateName
		}
		return tx.Create(t).Error
	})
}

func (r *GormRepo) FindFormTemplateByID(ctx context.Context, id uuid.UUID) (*models.FormTemplate, error) {
	var t models.FormTemplate
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) ListFormTemplates(ctx context.Context) ([]models.FormTemplate, error) {
	var items []models.FormTemplate
	if err := r.DB.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateFormSubmission(ctx context.Context, s *models.FormSubmission) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) ListFormSubmissionsByPatient(ctx context.Context, patientID uuid.UUID) ([]models.FormSubmission, error) {
	var items []models.FormSubmission
	err := r.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
