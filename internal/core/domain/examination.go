package domain

import "time"

type ExaminationID int64

// EyeAcuity records visual acuity for one eye, as written on the chart.
type EyeAcuity struct {
	Unaided string `json:"unaided" bson:"unaided"`
	Aided   string `json:"aided" bson:"aided"`
	Pinhole string `json:"pinhole" bson:"pinhole"`
	Near    string `json:"near" bson:"near"`
}

// Refraction records the distance and near prescription for one eye.
type Refraction struct {
	Sphere     string `json:"sphere" bson:"sphere"`
	Cylinder   string `json:"cylinder" bson:"cylinder"`
	Axis       string `json:"axis" bson:"axis"`
	DistanceVA string `json:"distance_va" bson:"distance_va"`
	Add        string `json:"add" bson:"add"`
	NearVA     string `json:"near_va" bson:"near_va"`
}

// Investigation is a test that was either performed (with findings) or not.
type Investigation struct {
	Done     bool   `json:"done" bson:"done"`
	Findings string `json:"findings,omitempty" bson:"findings,omitempty"`
}

// ClinicalFindings is everything the optometrist records at intake.
type ClinicalFindings struct {
	ChiefComplaint     string `json:"chief_complaint" bson:"chief_complaint"`
	PresentIllness     string `json:"present_illness" bson:"present_illness"`
	PastOcularHistory  string `json:"past_ocular_history" bson:"past_ocular_history"`
	SystemicHistory    string `json:"systemic_history" bson:"systemic_history"`
	FamilyHistory      string `json:"family_history" bson:"family_history"`
	CurrentMedications string `json:"current_medications" bson:"current_medications"`

	AcuityRight EyeAcuity `json:"acuity_right" bson:"acuity_right"`
	AcuityLeft  EyeAcuity `json:"acuity_left" bson:"acuity_left"`

	RefractionRight Refraction `json:"refraction_right" bson:"refraction_right"`
	RefractionLeft  Refraction `json:"refraction_left" bson:"refraction_left"`

	IOPRight string `json:"iop_right" bson:"iop_right"`
	IOPLeft  string `json:"iop_left" bson:"iop_left"`

	SlitLamp     Investigation `json:"slit_lamp" bson:"slit_lamp"`
	Fundus       Investigation `json:"fundus" bson:"fundus"`
	OCT          Investigation `json:"oct" bson:"oct"`
	VisualField  Investigation `json:"visual_field" bson:"visual_field"`
	ColourVision Investigation `json:"colour_vision" bson:"colour_vision"`
	CoverTest    Investigation `json:"cover_test" bson:"cover_test"`
	Pupils       string        `json:"pupils" bson:"pupils"`
	ExternalExam string        `json:"external_exam" bson:"external_exam"`
}

// Diagnosis is written by the consultant when the examination is completed.
type Diagnosis struct {
	Notes                string `json:"diagnosis_notes" bson:"diagnosis_notes"`
	ProvisionalDiagnosis string `json:"provisional_diagnosis" bson:"provisional_diagnosis"`
	Advice               string `json:"advice" bson:"advice"`
}

// Examination moves from created (IsCompleted=false) to completed exactly
// once. Only the assigned consultant may complete it.
type Examination struct {
	ID            ExaminationID
	PatientID     PatientID
	OptometristID OptometristID
	ConsultantID  *DoctorID
	DateOfVisit   time.Time
	Clinical      ClinicalFindings
	Diagnosis     Diagnosis
	IsCompleted   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated by eager-loading queries only.
	Patient     *Patient
	Optometrist *ActorSummary
	Consultant  *ActorSummary
	Medications []Medication
}

// NewExamination builds an examination in the created state. The visit date
// is the calendar day of now in UTC.
func NewExamination(by Optometrist, patient PatientID, consultant *DoctorID, clinical ClinicalFindings, now time.Time) *Examination {
	now = now.UTC()
	return &Examination{
		PatientID:     patient,
		OptometristID: by.ID(),
		ConsultantID:  consultant,
		DateOfVisit:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Clinical:      clinical,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ConsultedBy reports whether d is the assigned consultant.
func (e *Examination) ConsultedBy(d DoctorID) bool {
	return e.ConsultantID != nil && *e.ConsultantID == d
}

// CheckConsultable returns ErrForbidden when d is not the consultant and
// ErrAlreadyCompleted when the examination is closed.
func (e *Examination) CheckConsultable(d DoctorID) error {
	if !e.ConsultedBy(d) {
		return ErrForbidden
	}
	if e.IsCompleted {
		return ErrAlreadyCompleted
	}
	return nil
}
