package models

import "strings"

// FallbackCategory is used when a question cannot be matched to a specialization.
const FallbackCategory = "General Medicine"

var specializations = [...]string{
	"Cardiology",
	"Dermatology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Orthopedics",
	"Gynecology",
	"Oncology",
	"Endocrinology",
	"Gastroenterology",
	"Pulmonology",
	"Nephrology",
	"Urology",
	"Ophthalmology",
	"Ear, Nose & Throat",
	"Rheumatology",
	"Hematology",
	"Infectious Disease",
	"Allergy & Immunology",
	"Emergency Medicine",
	"Family Medicine",
	"Internal Medicine",
	"General Surgery",
	"Plastic Surgery",
}

// Specializations returns the fixed list of medical specializations.
func Specializations() []string {
	out := make([]string, len(specializations))
	copy(out, specializations[:])
	return out
}

// IsValidSpecialization reports whether s is exactly one of the known specializations.
func IsValidSpecialization(s string) bool {
	for _, v := range specializations {
		if v == s {
			return true
		}
	}
	return false
}

// MatchSpecialization finds the canonical specialization equal to s ignoring case.
func MatchSpecialization(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, v := range specializations {
		if strings.EqualFold(v, s) {
			return v, true
		}
	}
	return "", false
}
