package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moham3d/clinic-records/internal/logging"
	"github.com/moham3d/clinic-records/internal/models"
	"github.com/moham3d/clinic-records/internal/repo"
	"github.com/moham3d/clinic-records/internal/transport"
)

type VisitService struct {
	Repo repo.GormRepo
}

func (s *VisitService) Create(ctx context.Context, clinicianID uuid.UUID, req transport.CreateVisitRequest) (*models.Visit, error) {
	l := logging.FromContext(ctx).With("svc", "visit.create")

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, NewValidationError(map[string]string{"patient_id": "must be a valid UUID"})
	}
	visitedAt, err := time.Parse(time.RFC3339, req.VisitedAt)
	if err != nil {
		return nil, NewValidationError(map[string]string{"visited_at": "must be an RFC 3339 timestamp"})
	}

	// Reject visits for patients that do not exist.
	if _, err := s.Repo.FindPatientByID(ctx, patientID); err != nil {
		return nil, err
	}

	visit := &models.Visit{
		PatientID:   patientID,
		ClinicianID: clinicianID,
		VisitedAt:   visitedAt,
		Reason:      req.Reason,
		Notes:       req.Notes,
		Status:      "scheduled",
	}
	if err := s.Repo.CreateVisit(ctx, visit); err != nil {
		return nil, err
	}

	l.Info("visit_created", "visit_id", visit.ID, "patient_id", patientID)
	return visit, nil
}

func (s *VisitService) Get(ctx context.Context, id uuid.UUID) (*models.Visit, error) {
	return s.Repo.FindVisitByID(ctx, id)
}

func (s *VisitService) ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) (int64, []models.Visit, error) {
	return s.Repo.ListVisitsByPatient(ctx, patientID, offset, limit)
}

func (s *VisitService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateVisitRequest) (*models.Visit, error) {
	fields := map[string]any{}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if len(fields) == 0 {
		return nil, NewValidationError(map[string]string{"body": "no updatable fields provided"})
	}

	return s.Repo.UpdateVisitFields(ctx, id, fields)
}
