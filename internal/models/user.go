package models

import (
	"time"

	"healthquery-backend/internal/utils"
)

// User is a patient, clinician or admin account.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"size:255;not null"`
	FirstName      string    `json:"first_name" gorm:"size:50;not null"`
	LastName       string    `json:"last_name" gorm:"size:50;not null"`
	Role           Role      `json:"role" gorm:"size:20;not null;index"`
	Specialization *string   `json:"specialization" gorm:"size:100;index"` // clinicians only
	LicenseNumber  *string   `json:"-" gorm:"size:50"`                     // clinicians only
	IsVerified     bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Queries []Query `json:"-" gorm:"foreignKey:PatientID"`
	Reviews []Query `json:"-" gorm:"foreignKey:ClinicianID"`
}

func (User) TableName() string {
	return "users"
}

// UserView is the public profile of a user.
type UserView struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           Role      `json:"role"`
	Specialization *string   `json:"specialization"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser builds a user with a hashed password. The plaintext password is
// not retained.
func NewUser(email, password, firstName, lastName string, role Role) (*User, error) {
	u := &User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored password hash.
func (u *User) SetPassword(password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPassword(password, u.PasswordHash)
}

func (u *User) IsPatient() bool   { return u.Role == RolePatient }
func (u *User) IsClinician() bool { return u.Role == RoleClinician }
func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin }

// View returns the public profile fields. The password hash and license
// number are never included.
func (u *User) View() UserView {
	return UserView{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		Specialization: u.Specialization,
		IsVerified:     u.IsVerified,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
