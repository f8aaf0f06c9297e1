package domain

import (
	"fmt"
	"strings"
)

// Eye a medication applies to.
type Eye string

const (
	EyeBoth  Eye = "Both eyes"
	EyeRight Eye = "Right eye"
	EyeLeft  Eye = "Left eye"
	EyeNone  Eye = "None"
)

// ParseEye accepts the display labels and the short forms both/right/left/none,
// case-insensitively. Empty input means both eyes.
func ParseEye(s string) (Eye, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "both eyes":
		return EyeBoth, true
	case "right", "right eye":
		return EyeRight, true
	case "left", "left eye":
		return EyeLeft, true
	case "none":
		return EyeNone, true
	}
	return "", false
}

type MedicationID int64

type Medication struct {
	ID            MedicationID  `json:"id"`
	ExaminationID ExaminationID `json:"examination_id"`
	Name          string        `json:"name"`
	Quantity      string        `json:"quantity"`
	Frequency     string        `json:"frequency"`
	Eye           Eye           `json:"eye"`
	Duration      string        `json:"duration"`
	Instructions  string        `json:"instructions"`
}

// MedicationRows is a consultation's medication table as submitted: parallel
// columns indexed by the position in Names.
type MedicationRows struct {
	Names        []string
	Quantities   []string
	Frequencies  []string
	Eyes         []string
	Durations    []string
	Instructions []string
}

// Submitted reports whether the consultation carries a medication table at
// all. An empty table leaves the existing medications in place.
func (r MedicationRows) Submitted() bool {
	return len(r.Names) > 0
}

// Build turns the submitted table into medications for exam. Rows with a
// blank name are skipped. Columns shorter than Names yield empty values, and
// a missing eye means both eyes.
func (r MedicationRows) Build(exam ExaminationID) ([]Medication, error) {
	meds := make([]Medication, 0, len(r.Names))
	for i, raw := range r.Names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		eye, ok := ParseEye(at(r.Eyes, i))
		if !ok {
			return nil, fmt.Errorf("%w: medication %q has unknown eye %q", ErrValidation, name, at(r.Eyes, i))
		}
		meds = append(meds, Medication{
			ExaminationID: exam,
			Name:          name,
			Quantity:      at(r.Quantities, i),
			Frequency:     at(r.Frequencies, i),
			Eye:           eye,
			Duration:      at(r.Durations, i),
			Instructions:  at(r.Instructions, i),
		})
	}
	return meds, nil
}

func at(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}
