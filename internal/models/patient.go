package models

// Patient is a user known to hold the patient role.
type Patient struct {
	*User
}

// AsPatient returns the patient variant of u, or false when u is not a patient.
func (u *User) AsPatient() (Patient, bool) {
	if u == nil || !u.IsPatient() {
		return Patient{}, false
	}
	return Patient{User: u}, true
}

// Ask builds a new question owned by the patient.
func (p Patient) Ask(category, question string, opts ...QueryOption) *Query {
	return NewQuery(p.ID, category, question, opts...)
}
