package domain

import (
	"strings"
	"time"
)

// Gender of a clinical patient.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender normalises user input; empty input maps to GenderOther.
func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return GenderOther, true
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	case GenderOther:
		return GenderOther, true
	}
	return "", false
}

type PatientID int64

// Patient is a clinical subject. It is not an account: a patient row may
// exist without any login, and several rows may share a phone number.
type Patient struct {
	ID          PatientID `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Gender      Gender    `json:"gender"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LinkedByPhone is the only relation between a patient record and a patient
// account: exact equality of phone numbers. Patients without a phone are
// never linked.
func LinkedByPhone(p *Patient, account PatientAccount) bool {
	if p == nil || p.PhoneNumber == "" {
		return false
	}
	return p.PhoneNumber == account.PhoneNumber()
}
