package models

// Role identifies what kind of account a user row represents.
type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
	RoleAdmin     Role = "admin"
)

// RegistrableRole reports whether r may be chosen at self-registration.
func RegistrableRole(r Role) bool {
	return r == RolePatient || r == RoleClinician
}
