package postgres

import (
	"time"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

const (
	constraintActorPhone   = "uniq_actor_phone"
	constraintActorEmail   = "uniq_actor_email"
	constraintActorLicense = "uniq_actor_license"
)

type actorRow struct {
	ID              int64   `gorm:"primaryKey"`
	Name            string  `gorm:"size:255;not null"`
	PhoneNumber     string  `gorm:"size:15;not null;uniqueIndex:uniq_actor_phone"`
	Email           *string `gorm:"size:254;uniqueIndex:uniq_actor_email"`
	Role            string  `gorm:"size:20;not null;index:idx_actor_role_active"`
	PasswordHash    string  `gorm:"not null"`
	IsActive        bool    `gorm:"not null;index:idx_actor_role_active"`
	IsStaff         bool    `gorm:"not null"`
	LicenseNumber   *string `gorm:"size:100;uniqueIndex:uniq_actor_license"`
	Qualification   string  `gorm:"size:255"`
	Specialization  string  `gorm:"size:255"`
	ExperienceYears int     `gorm:"not null"`
	Bio             string  `gorm:"type:text"`
	ClinicAddress   string  `gorm:"type:text"`
	Website         string  `gorm:"size:255"`
	OfficeHours     string  `gorm:"size:255"`
	Languages       string  `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (actorRow) TableName() string { return "actors" }

func toActorRow(a *domain.Actor) actorRow {
	p := a.Profile
	return actorRow{
		ID:              int64(a.ID),
		Name:            a.Name,
		PhoneNumber:     a.PhoneNumber,
		Email:           a.Email,
		Role:            string(a.Role),
		PasswordHash:    a.PasswordHash,
		IsActive:        a.IsActive,
		IsStaff:         a.IsStaff,
		LicenseNumber:   p.LicenseNumber,
		Qualification:   p.Qualification,
		Specialization:  p.Specialization,
		ExperienceYears: p.ExperienceYears,
		Bio:             p.Bio,
		ClinicAddress:   p.ClinicAddress,
		Website:         p.Website,
		OfficeHours:     p.OfficeHours,
		Languages:       p.Languages,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (r actorRow) toDomain() *domain.Actor {
	return &domain.Actor{
		ID:           domain.ActorID(r.ID),
		Name:         r.Name,
		PhoneNumber:  r.PhoneNumber,
		Email:        r.Email,
		Role:         domain.Role(r.Role),
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		IsStaff:      r.IsStaff,
		Profile: domain.Profile{
			LicenseNumber:   r.LicenseNumber,
			Qualification:   r.Qualification,
			Specialization:  r.Specialization,
			ExperienceYears: r.ExperienceYears,
			Bio:             r.Bio,
			ClinicAddress:   r.ClinicAddress,
			Website:         r.Website,
			OfficeHours:     r.OfficeHours,
			Languages:       r.Languages,
		},
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type patientRow struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Age         int    `gorm:"not null"`
	Gender      string `gorm:"size:10;not null"`
	PhoneNumber string `gorm:"size:15;index"`
	Address     string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (patientRow) TableName() string { return "patients" }

func (r patientRow) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:          domain.PatientID(r.ID),
		Name:        r.Name,
		Age:         r.Age,
		Gender:      domain.Gender(r.Gender),
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

// Clinical findings are one jsonb document; they are only ever read and
// written whole.
type examinationRow struct {
	ID                   int64                   `gorm:"primaryKey"`
	PatientID            int64                   `gorm:"not null;index"`
	OptometristID        int64                   `gorm:"not null;index"`
	ConsultantID         *int64                  `gorm:"index:idx_exam_consultant_open"`
	DateOfVisit          time.Time               `gorm:"type:date;not null"`
	Clinical             domain.ClinicalFindings `gorm:"serializer:json;type:jsonb"`
	DiagnosisNotes       string                  `gorm:"type:text"`
	ProvisionalDiagnosis string                  `gorm:"type:text"`
	Advice               string                  `gorm:"type:text"`
	IsCompleted          bool                    `gorm:"not null;index:idx_exam_consultant_open"`
	CreatedAt            time.Time               `gorm:"index"`
	UpdatedAt            time.Time
}

func (examinationRow) TableName() string { return "examinations" }

func (r examinationRow) toDomain() *domain.Examination {
	e := &domain.Examination{
		ID:            domain.ExaminationID(r.ID),
		PatientID:     domain.PatientID(r.PatientID),
		OptometristID: domain.OptometristID(r.OptometristID),
		DateOfVisit:   r.DateOfVisit.UTC(),
		Clinical:      r.Clinical,
		Diagnosis: domain.Diagnosis{
			Notes:                r.DiagnosisNotes,
			ProvisionalDiagnosis: r.ProvisionalDiagnosis,
			Advice:               r.Advice,
		},
		IsCompleted: r.IsCompleted,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.ConsultantID != nil {
		c := domain.DoctorID(*r.ConsultantID)
		e.ConsultantID = &c
	}
	return e
}

type medicationRow struct {
	ID            int64  `gorm:"primaryKey"`
	ExaminationID int64  `gorm:"not null;index"`
	Name          string `gorm:"size:255;not null"`
	Quantity      string `gorm:"size:50"`
	Frequency     string `gorm:"size:100"`
	Eye           string `gorm:"size:20;not null"`
	Duration      string `gorm:"size:100"`
	Instructions  string `gorm:"type:text"`
}

func (medicationRow) TableName() string { return "medications" }

func (r medicationRow) toDomain() domain.Medication {
	return domain.Medication{
		ID:            domain.MedicationID(r.ID),
		ExaminationID: domain.ExaminationID(r.ExaminationID),
		Name:          r.Name,
		Quantity:      r.Quantity,
		Frequency:     r.Frequency,
		Eye:           domain.Eye(r.Eye),
		Duration:      r.Duration,
		Instructions:  r.Instructions,
	}
}
