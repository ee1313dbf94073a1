package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"  json:"id"`
	Username     string     `gorm:"uniqueIndex;not null"  json:"username"`
	Email        string     `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string     `gorm:"not null"              json:"-"`
	Role         Role       `gorm:"not null"              json:"role"`
	FirstName    string     `gorm:"not null"              json:"first_name"`
	LastName     string     `gorm:"not null"              json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	IsActive     bool       `gorm:"default:true"          json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Session is one login session per device. The refresh token currently
// accepted for the session is identified by CurrentJTI; rotation swaps
// it, revocation ends the session for both token kinds.
type Session struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CurrentJTI string    `gorm:"uniqueIndex;not null"  json:"current_jti"`
	Revoked    bool      `gorm:"default:false"         json:"revoked"`
	ExpiresAt  int64     `gorm:"not null"              json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MRN         string     `gorm:"uniqueIndex;not null" json:"mrn"`
	FirstName   string     `gorm:"not null"             json:"first_name"`
	LastName    string     `gorm:"not null"             json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	Address     string     `json:"address,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Visit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	PatientID   uuid.UUID `gorm:"type:uuid;index;not null" json:"patient_id"`
	ClinicianID uuid.UUID `gorm:"type:uuid;index;not null" json:"clinician_id"`
	VisitedAt   time.Time `gorm:"not null"                 json:"visited_at"`
	Reason      string    `gorm:"not null"                 json:"reason"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `gorm:"not null;default:scheduled" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type FormTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Schema    string    `gorm:"not null"             json:"schema"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *FormTemplate) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type FormSubmission struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"     json:"id"`
	TemplateID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"template_id"`
	PatientID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"patient_id"`
	VisitID     *uuid.UUID `gorm:"type:uuid;index"          json:"visit_id,omitempty"`
	SubmittedBy uuid.UUID  `gorm:"type:uuid;not null"       json:"submitted_by"`
	Data        string     `gorm:"not null"                 json:"data"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (f *FormSubmission) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
