package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/moham3d/clinic-records/internal/logging"
	"github.com/moham3d/clinic-records/internal/models"
	"github.com/moham3d/clinic-records/internal/repo"
	"github.com/moham3d/clinic-records/internal/transport"
)

type FormService struct {
	Repo repo.GormRepo
}

func (s *FormService) CreateTemplate(ctx context.Context, req transport.CreateFormTemplateRequest) (*models.FormTemplate, error) {
	template := &models.FormTemplate{
		Name:   req.Name,
		Schema: req.Schema,
	}
	if err := s.Repo.CreateFormTemplate(ctx, template); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("form_template_created", "template_id", template.ID)
	return template, nil
}

func (s *FormService) GetTemplate(ctx context.Context, id uuid.UUID) (*models.FormTemplate, error) {
	return s.Repo.FindFormTemplateByID(ctx, id)
}

func (s *FormService) ListTemplates(ctx context.Context) ([]models.FormTemplate, error) {
	return s.Repo.ListFormTemplates(ctx)
}

func (s *FormService) Submit(ctx context.Context, submitterID uuid.UUID, req transport.SubmitFormRequest) (*models.FormSubmission, error) {
	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		return nil, NewValidationError(map[string]string{"template_id": "must be a valid UUID"})
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, NewValidationError(map[string]string{"patient_id": "must be a valid UUID"})
	}

	if _, err := s.Repo.FindFormTemplateByID(ctx, templateID); err != nil {
		return nil, err
	}
	if _, err := s.Repo.FindPatientByID(ctx, patientID); err != nil {
		return nil, err
	}

	submission := &models.FormSubmission{
		TemplateID:  templateID,
		PatientID:   patientID,
		SubmittedBy: submitterID,
		Data:        req.Data,
	}
	if req.VisitID != "" {
		visitID, err := uuid.Parse(req.VisitID)
		if err != nil {
			return nil, NewValidationError(map[string]string{"visit_id": "must be a valid UUID"})
		}
		submission.VisitID = &visitID
	}

	if err := s.Repo.CreateFormSubmission(ctx, submission); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("form_submitted", "submission_id", submission.ID, "patient_id", patientID)
	return submission, nil
}

func (s *FormService) ListSubmissionsByPatient(ctx context.Context, patientID uuid.UUID) ([]models.FormSubmission, error) {
	return s.Repo.ListFormSubmissionsByPatient(ctx, patientID)
}
