package models

// Clinician is a user known to hold the clinician role.
type Clinician struct {
	*User
}

// AsClinician returns the clinician variant of u, or false when u is not a clinician.
func (u *User) AsClinician() (Clinician, bool) {
	if u == nil || !u.IsClinician() {
		return Clinician{}, false
	}
	return Clinician{User: u}, true
}

// SpecializationName returns the clinician's specialization or "" when unset.
func (c Clinician) SpecializationName() string {
	if c.Specialization == nil {
		return ""
	}
	return *c.Specialization
}

// Review records the clinician's answer on q.
func (c Clinician) Review(q *Query, response string) {
	q.SetClinicianReview(c.ID, response)
}

// ClinicianView is a clinician profile as seen by administrators.
type ClinicianView struct {
	UserView
	LicenseNumber *string `json:"license_number"`
}

// AdminView includes the license number, which is hidden from the public profile.
func (c Clinician) AdminView() ClinicianView {
	return ClinicianView{UserView: c.View(), LicenseNumber: c.LicenseNumber}
}
