package handler

import (
	"encoding/json"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// --- Request / Response types ---

// createExaminationRequest references an existing patient by id or carries the
// patient inline. Numeric fields use json.Number so the same struct binds from
// JSON numbers and from form strings.
type createExaminationRequest struct {
	PatientID      json.Number `json:"patient_id"      form:"patient_id"`
	PatientName    string      `json:"patient_name"    form:"patient_name"`
	PatientAge     json.Number `json:"patient_age"     form:"patient_age"`
	PatientGender  string      `json:"patient_gender"  form:"patient_gender" `
	PatientPhone   string      `json:"patient_phone"   form:"patient_phone"   validate:"max=15"`
	PatientAddress string      `json:"patient_address" form:"patient_address"`
	ConsultantID   json.Number `json:"consultant_id"   form:"consultant_id"`

	Clinical domain.ClinicalFindings `json:"clinical"`
}

// consultRequest mirrors the consultation form: the medication table arrives
// as parallel columns indexed by row.
type consultRequest struct {
	DiagnosisNotes       string `json:"diagnosis_notes"       form:"diagnosis_notes"`
	ProvisionalDiagnosis string `json:"provisional_diagnosis" form:"provisional_diagnosis"`
	Advice               string `json:"advice"                form:"advice"`

	MedName         []string `json:"med_name"         form:"med_name"`
	MedQuantity     []string `json:"med_quantity"     form:"med_quantity"`
	MedFrequency    []string `json:"med_frequency"    form:"med_frequency"`
	MedEye          []string `json:"med_eye"          form:"med_eye"`
	MedDuration     []string `json:"med_duration"     form:"med_duration"`
	MedInstructions []string `json:"med_instructions" form:"med_instructions"`
}

type examinationResponse struct {
	ID          domain.ExaminationID    `json:"id"`
	DateOfVisit string                  `json:"date_of_visit"`
	IsCompleted bool                    `json:"is_completed"`
	Patient     *domain.Patient         `json:"patient"`
	Optometrist *domain.ActorSummary    `json:"optometrist"`
	Consultant  *domain.ActorSummary    `json:"consultant"`
	Clinical    domain.ClinicalFindings `json:"clinical"`
	Diagnosis   domain.Diagnosis        `json:"diagnosis"`
	Medications []domain.Medication     `json:"medications"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
}

type doctorDashboardResponse struct {
	Examinations []examinationResponse `json:"examinations"`
}

type patientDashboardResponse struct {
	Patients     []*domain.Patient     `json:"patients"`
	Examinations []examinationResponse `json:"examinations"`
}

type newExaminationContextResponse struct {
	Doctors []profileResponse `json:"doctors"`
}
