package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moham3d/clinic-records/internal/audit"
	"github.com/moham3d/clinic-records/internal/models"
	"github.com/moham3d/clinic-records/internal/repo"
	"github.com/moham3d/clinic-records/internal/search"
	"github.com/moham3d/clinic-records/internal/transport"
)

type recordsEnv struct {
	patients *PatientService
	visits   *VisitService
	forms    *FormService
}

func newRecordsEnv(t *testing.T) *recordsEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Patient{},
		&models.Visit{},
		&models.FormTemplate{},
		&models.FormSubmission{},
	))

	gormRepo := repo.GormRepo{DB: db}
	producer := audit.NewProducer(nil, "")
	return &recordsEnv{
		patients: &PatientService{Repo: gormRepo, Index: search.NewPatientIndex(nil, ""), Audit: producer},
		visits:   &VisitService{Repo: gormRepo},
		forms:    &FormService{Repo: gormRepo},
	}
}

func TestPatientService_CreateAndDuplicateMRN(t *testing.T) {
	t.Parallel()

	env := newRecordsEnv(t)
	ctx := context.Background()
	actor := uuid.New()

	patient, err := env.patients.Create(ctx, actor, transport.CreatePatientRequest{
		MRN:         "MRN-0001",
		FirstName:   "Pat",
		LastName:    "Doe",
		DateOfBirth: "1985-03-14",
	})
	require.NoError(t, err)
	require.NotNil(t, patient.DateOfBirth)

	_, err = env.patients.Create(ctx, actor, transport.CreatePatientRequest{
		MRN:       "MRN-0001",
		FirstName: "Other",
		LastName:  "Doe",
	})
	assert.ErrorIs(t, err, repo.ErrDuplicateMRN)
}

func TestPatientService_Create_BadDate(t *testing.T) {
	t.Parallel()

	env := newRecordsEnv(t)
	_, err := env.patients.Create(context.Background(), uuid.New(), transport.CreatePatientRequest{
		MRN:         "MRN-0001",
		FirstName:   "Pat",
		LastName:    "Doe",
		DateOfBirth: "14/03/1985",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVisitService_Create_UnknownPatient(t *testing.T) {
	t.Parallel()

	env := newRecordsEnv(t)
	_, err := env.visits.Create(context.Background(), uuid.New(), transport.CreateVisitRequest{
		PatientID: uuid.NewString(),
		VisitedAt: "2026-09-01T10:00:00Z",
		Reason:    "checkup",
	})
	assert.ErrorIs(t, err, repo.ErrPatientNotFound)
}

func TestVisitService_Lifecycle(t *testing.T) {
	t.Parallel()

	env := newRecordsEnv(t)
	ctx := context.Background()
	clinician := uuid.New()

	patient, err := env.patients.Create(ctx, clinician, transport.CreatePatientRequest{
		MRN:       "MRN-0001",
		FirstName: "Pat",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	visit, err := env.visits.Create(ctx, clinician, transport.CreateVisitRequest{
		PatientID: patient.ID.String(),
		VisitedAt: "2026-09-01T10:00:00Z",
		Reason:    "checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, "scheduled", visit.Status)
	assert.Equal(t, clinician, visit.ClinicianID)

	status := "completed"
	updated, err := env.visits.Update(ctx, visit.ID, transport.UpdateVisitRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)

	total, items, err := env.visits.ListByPatient(ctx, patient.ID, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)
}

func TestFormService_SubmitFlow(t *testing.T) {
	t.Parallel()

	env := newRecordsEnv(t)
	ctx := context.Background()
	submitter := uuid.New()

	patient, err := env.patients.Create(ctx, submitter, transport.CreatePatientRequest{
		MRN:       "MRN-0001",
		FirstName: "Pat",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	template, err := env.forms.CreateTemplate(ctx, transport.CreateFormTemplateRequest{
		Name:   "intake",
		Schema: `{"fields":[{"name":"weight","type":"number"}]}`,
	})
	require.NoError(t, err)

	_, err = env.forms.CreateTemplate(ctx, transport.CreateFormTemplateRequest{
		Name:   "intake",
		Schema: `{}`,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicateTemplateName)

	submission, err := env.forms.Submit(ctx, submitter, transport.SubmitFormRequest{
		TemplateID: template.ID.String(),
		PatientID:  patient.ID.String(),
		Data:       `{"weight":72}`,
	})
	require.NoError(t, err)
	assert.Equal(t, submitter, submission.SubmittedBy)
	assert.Nil(t, submission.VisitID)

	// Submissions against unknown templates are rejected outright.
	_, err = env.forms.Submit(ctx, submitter, transport.SubmitFormRequest{
		TemplateID: uuid.NewString(),
		PatientID:  patient.ID.String(),
		Data:       `{}`,
	})
	assert.ErrorIs(t, err, repo.ErrTemplateNotFound)

	subs, err := env.forms.ListSubmissionsByPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}
