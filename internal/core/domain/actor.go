package domain

import "time"

// Role tags an Actor. The set is closed: optometrist, doctor, patient.
type Role string

const (
	RoleOptometrist Role = "optometrist"
	RoleDoctor      Role = "doctor"
	RolePatient     Role = "patient"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOptometrist, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// ActorID identifies any account regardless of role.
type ActorID int64

// OptometristID and DoctorID are only produced from an Actor carrying the
// matching role, so examinations cannot reference an actor of the wrong kind.
type (
	OptometristID ActorID
	DoctorID      ActorID
)

// Profile holds the optional professional details shown in the directory.
type Profile struct {
	LicenseNumber   *string `json:"license_number,omitempty"`
	Qualification   string  `json:"qualification,omitempty"`
	Specialization  string  `json:"specialization,omitempty"`
	ExperienceYears int     `json:"experience_years"`
	Bio             string  `json:"bio,omitempty"`
	ClinicAddress   string  `json:"clinic_address,omitempty"`
	Website         string  `json:"website,omitempty"`
	OfficeHours     string  `json:"office_hours,omitempty"`
	Languages       string  `json:"languages,omitempty"`
}

// Actor is an authenticated human account. Phone numbers are unique across
// every role.
type Actor struct {
	ID           ActorID   `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Email        *string   `json:"email,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthorizeRole reports whether the actor holds exactly the required role.
// There is no hierarchy between roles.
func AuthorizeRole(a *Actor, required Role) bool {
	return a != nil && a.Role == required
}

// Principal is the role-specific view of an Actor. The concrete variants are
// Optometrist, Doctor and PatientAccount.
type Principal interface {
	Account() *Actor
	principal()
}

// Optometrist is an Actor known to hold RoleOptometrist.
type Optometrist struct{ actor *Actor }

func (o Optometrist) Account() *Actor   { return o.actor }
func (o Optometrist) ID() OptometristID { return OptometristID(o.actor.ID) }
func (Optometrist) principal()          {}

// Doctor is an Actor known to hold RoleDoctor.
type Doctor struct{ actor *Actor }

func (d Doctor) Account() *Actor { return d.actor }
func (d Doctor) ID() DoctorID    { return DoctorID(d.actor.ID) }
func (Doctor) principal()        {}

// PatientAccount is an Actor known to hold RolePatient.
type PatientAccount struct{ actor *Actor }

func (p PatientAccount) Account() *Actor     { return p.actor }
func (p PatientAccount) PhoneNumber() string { return p.actor.PhoneNumber }
func (PatientAccount) principal()            {}

// Principal returns the role variant of a, or nil when the role is unknown.
func (a *Actor) Principal() Principal {
	if a == nil {
		return nil
	}
	switch a.Role {
	case RoleOptometrist:
		return Optometrist{actor: a}
	case RoleDoctor:
		return Doctor{actor: a}
	case RolePatient:
		return PatientAccount{actor: a}
	}
	return nil
}

func (a *Actor) AsOptometrist() (Optometrist, bool) {
	o, ok := a.Principal().(Optometrist)
	return o, ok
}

func (a *Actor) AsDoctor() (Doctor, bool) {
	d, ok := a.Principal().(Doctor)
	return d, ok
}

func (a *Actor) AsPatient() (PatientAccount, bool) {
	p, ok := a.Principal().(PatientAccount)
	return p, ok
}

// ActorSummary is the compact actor shape embedded in examination views.
type ActorSummary struct {
	ID          ActorID `json:"id"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phone_number"`
	Role        Role    `json:"role"`
}

func (a *Actor) Summary() *ActorSummary {
	if a == nil {
		return nil
	}
	return &ActorSummary{ID: a.ID, Name: a.Name, PhoneNumber: a.PhoneNumber, Role: a.Role}
}
