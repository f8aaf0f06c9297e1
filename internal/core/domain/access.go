package domain

// ResourceKind names what an access decision is about.
type ResourceKind string

const (
	ResourceExamination     ResourceKind = "examination"
	ResourceDoctorDirectory ResourceKind = "doctor_directory"
)

type Action string

const (
	ActionCreate       Action = "create"
	ActionConsult      Action = "consult"
	ActionListAssigned Action = "list_assigned"
	ActionListOwn      Action = "list_own"
	ActionList         Action = "list"
)

// Resource is the target of an access decision. Consultant is only consulted
// for examination consultation.
type Resource struct {
	Kind       ResourceKind
	Consultant *DoctorID
}

// ExaminationResource describes e for the access gate.
func ExaminationResource(e *Examination) Resource {
	return Resource{Kind: ResourceExamination, Consultant: e.ConsultantID}
}
