package ports

// Stores bundles the repositories of one persistence backend together with
// its transaction boundary.
type Stores struct {
	Actors       ActorRepository
	Patients     PatientRepository
	Examinations ExaminationRepository
	Medications  MedicationRepository
	Tx           Transactor
}
