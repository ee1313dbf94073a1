package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moham3d/clinic-records/internal/audit"
	"github.com/moham3d/clinic-records/internal/logging"
	"github.com/moham3d/clinic-records/internal/models"
	"github.com/moham3d/clinic-records/internal/repo"
	"github.com/moham3d/clinic-records/internal/search"
	"github.com/moham3d/clinic-records/internal/transport"
)

type PatientService struct {
	Repo  repo.GormRepo
	Index *search.PatientIndex
	Audit *audit.Producer
}

func (s *PatientService) Create(ctx context.Context, actorID uuid.UUID, req transport.CreatePatientRequest) (*models.Patient, error) {
	l := logging.FromContext(ctx).With("svc", "patient.create")

	patient := &models.Patient{
		MRN:       req.MRN,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, NewValidationError(map[string]string{"date_of_birth": "must be a valid date (YYYY-MM-DD)"})
		}
		patient.DateOfBirth = &dob
	}

	if err := s.Repo.CreatePatient(ctx, patient); err != nil {
		return nil, err
	}

	if err := s.Index.IndexPatient(ctx, patient); err != nil {
		l.Error("patient_index_failed", "patient_id", patient.ID, "error", err)
	}

	s.emit(ctx, "patient_created", actorID.String(), map[string]any{"patient_id": patient.ID.String()})
	l.Info("patient_created", "patient_id", patient.ID)
	return patient, nil
}

func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	return s.Repo.FindPatientByID(ctx, id)
}

func (s *PatientService) List(ctx context.Context, offset, limit int) (int64, []models.Patient, error) {
	return s.Repo.ListPatients(ctx, offset, limit)
}

// Update maps the request onto an explicit column allow-list; nothing
// from the body reaches the query builder directly.
func (s *PatientService) Update(ctx context.Context, actorID, id uuid.UUID, req transport.UpdatePatientRequest) (*models.Patient, error) {
	l := logging.FromContext(ctx).With("svc", "patient.update")

	fields := map[string]any{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if len(fields) == 0 {
		return nil, NewValidationError(map[string]string{"body": "no updatable fields provided"})
	}

	patient, err := s.Repo.UpdatePatientFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	if err := s.Index.IndexPatient(ctx, patient); err != nil {
		l.Error("patient_index_failed", "patient_id", patient.ID, "error", err)
	}

	s.emit(ctx, "patient_updated", actorID.String(), map[string]any{"patient_id": id.String()})
	return patient, nil
}

func (s *PatientService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "patient.delete")

	if err := s.Repo.DeletePatient(ctx, id); err != nil {
		return err
	}
	if err := s.Index.RemovePatient(ctx, id.String()); err != nil {
		l.Error("patient_deindex_failed", "patient_id", id, "error", err)
	}

	s.emit(ctx, "patient_deleted", actorID.String(), map[string]any{"patient_id": id.String()})
	return nil
}

func (s *PatientService) Search(ctx context.Context, query string, from, size int) (int64, []models.Patient, error) {
	return s.Index.Search(ctx, query, from, size)
}

func (s *PatientService) emit(ctx context.Context, eventType, actorID string, data map[string]any) {
	event := audit.Event{Type: eventType, ActorID: actorID, Data: data}
	if err := s.Audit.Publish(ctx, event); err != nil {
		logging.FromContext(ctx).Error("audit_publish_failed", "type", eventType, "error", err)
	}
}
