package handler

import "github.com/eyeclinic/clinic-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required"`
	Password    string `json:"password"     form:"password"     validate:"required"`
}

type registerPatientRequest struct {
	Name        string `json:"name"         form:"name"         validate:"required"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required,max=15"`
	Password    string `json:"password"     form:"password"     validate:"required"`
	Email       string `json:"email"        form:"email"        validate:"omitempty,email"`
}

type registerOptometristRequest struct {
	registerPatientRequest
	LicenseNumber   string `json:"license_number"   form:"license_number"`
	Qualification   string `json:"qualification"    form:"qualification"`
	Specialization  string `json:"specialization"   form:"specialization"`
	ExperienceYears int    `json:"experience_years" form:"experience_years" validate:"min=0"`
	Bio             string `json:"bio"              form:"bio"`
	ClinicAddress   string `json:"clinic_address"   form:"clinic_address"`
	Website         string `json:"website"          form:"website"          validate:"omitempty,url"`
	OfficeHours     string `json:"office_hours"     form:"office_hours"`
	Languages       string `json:"languages"        form:"languages"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" form:"refresh" validate:"required"`
}

type userResponse struct {
	ID          domain.ActorID `json:"id"`
	Name        string         `json:"name"`
	PhoneNumber string         `json:"phone_number"`
	Email       *string        `json:"email"`
	Role        domain.Role    `json:"role"`
}

type loginResponse struct {
	Refresh string       `json:"refresh"`
	Access  string       `json:"access"`
	User    userResponse `json:"user"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type registeredUser struct {
	ID          domain.ActorID `json:"id"`
	Name        string         `json:"name"`
	PhoneNumber string         `json:"phone_number"`
}

type registerResponse struct {
	Message string         `json:"message"`
	User    registeredUser `json:"user"`
}

// profileResponse is the public directory shape of an optometrist or doctor:
// the account without its password, profile fields inline.
type profileResponse struct {
	ID          domain.ActorID `json:"id"`
	Name        string         `json:"name"`
	PhoneNumber string         `json:"phone_number"`
	Email       *string        `json:"email"`
	Role        domain.Role    `json:"role"`
	IsActive    bool           `json:"is_active"`
	domain.Profile
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}
