package transport

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/moham3d/clinic-records/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	AllSessions bool `json:"all_sessions"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.ConfirmPassword, validation.Required),
		validation.Field(&r.Role, validation.Required, validation.In(
			models.RoleAdmin,
			models.RoleDoctor,
			models.RoleNurse,
			models.RoleReceptionist,
			models.RoleTechnician,
		)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
	)
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required),
		validation.Field(&r.ConfirmNewPassword, validation.Required),
	)
}

// UpdateProfileRequest uses pointers so a missing field means "leave
// alone" rather than "clear".
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
	)
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type LoginResponse struct {
	User *models.User `json:"user"`
	TokenPairResponse
}

type CreatePatientRequest struct {
	MRN         string `json:"mrn"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

func (r CreatePatientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MRN, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.DateOfBirth, validation.Date("2006-01-02")),
		validation.Field(&r.Email, is.Email),
	)
}

type UpdatePatientRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
}

func (r UpdatePatientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
	)
}

type CreateVisitRequest struct {
	PatientID string `json:"patient_id"`
	VisitedAt string `json:"visited_at"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

func (r CreateVisitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, validation.Required, is.UUID),
		validation.Field(&r.VisitedAt, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
		validation.Field(&r.Reason, validation.Required, validation.Length(1, 500)),
	)
}

type UpdateVisitRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func (r UpdateVisitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(
			"scheduled", "in_progress", "completed", "cancelled",
		)),
	)
}

type CreateFormTemplateRequest struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

func (r CreateFormTemplateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Schema, validation.Required, is.JSON),
	)
}

type SubmitFormRequest struct {
	TemplateID string `json:"template_id"`
	PatientID  string `json:"patient_id"`
	VisitID    string `json:"visit_id"`
	Data       string `json:"data"`
}

func (r SubmitFormRequest) Validate() error {
	rules := []*validation.FieldRules{
		validation.Field(&r.TemplateID, validation.Required, is.UUID),
		validation.Field(&r.PatientID, validation.Required, is.UUID),
		validation.Field(&r.Data, validation.Required, is.JSON),
	}
	// The visit link is optional; validate it only when present.
	if r.VisitID != "" {
		rules = append(rules, validation.Field(&r.VisitID, is.UUID))
	}
	return validation.ValidateStruct(&r, rules...)
}
