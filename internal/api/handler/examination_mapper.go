package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

const dateLayout = "2006-01-02"

// toCreateExaminationInput converts the request; malformed numbers are
// validation errors.
func toCreateExaminationInput(req createExaminationRequest) (ports.CreateExaminationInput, error) {
	in := ports.CreateExaminationInput{
		NewPatient: ports.NewPatientInput{
			Name:        req.PatientName,
			Gender:      req.PatientGender,
			PhoneNumber: req.PatientPhone,
			Address:     req.PatientAddress,
		},
		Clinical: req.Clinical,
	}

	patientID, ok, err := optionalInt("patient_id", req.PatientID)
	if err != nil {
		return in, err
	}
	if ok {
		id := domain.PatientID(patientID)
		in.PatientID = &id
	}

	consultantID, ok, err := optionalInt("consultant_id", req.ConsultantID)
	if err != nil {
		return in, err
	}
	if ok {
		id := domain.ActorID(consultantID)
		in.ConsultantID = &id
	}

	age, _, err := optionalInt("patient_age", req.PatientAge)
	if err != nil {
		return in, err
	}
	in.NewPatient.Age = int(age)

	return in, nil
}

func optionalInt(field string, n json.Number) (int64, bool, error) {
	if strings.TrimSpace(n.String()) == "" {
		return 0, false, nil
	}
	v, err := json.Number(strings.TrimSpace(n.String())).Int64()
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, field)
	}
	return v, true, nil
}

func toConsultInput(id domain.ExaminationID, req consultRequest) ports.ConsultInput {
	return ports.ConsultInput{
		ExaminationID: id,
		Diagnosis: domain.Diagnosis{
			Notes:                req.DiagnosisNotes,
			ProvisionalDiagnosis: req.ProvisionalDiagnosis,
			Advice:               req.Advice,
		},
		Medications: domain.MedicationRows{
			Names:        req.MedName,
			Quantities:   req.MedQuantity,
			Frequencies:  req.MedFrequency,
			Eyes:         req.MedEye,
			Durations:    req.MedDuration,
			Instructions: req.MedInstructions,
		},
	}
}

func toExaminationResponse(e *domain.Examination) examinationResponse {
	meds := e.Medications
	if meds == nil {
		meds = []domain.Medication{}
	}
	return examinationResponse{
		ID:          e.ID,
		DateOfVisit: e.DateOfVisit.Format(dateLayout),
		IsCompleted: e.IsCompleted,
		Patient:     e.Patient,
		Optometrist: e.Optometrist,
		Consultant:  e.Consultant,
		Clinical:    e.Clinical,
		Diagnosis:   e.Diagnosis,
		Medications: meds,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

func toExaminationResponses(exams []*domain.Examination) []examinationResponse {
	out := make([]examinationResponse, 0, len(exams))
	for _, e := range exams {
		out = append(out, toExaminationResponse(e))
	}
	return out
}
