package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"healthquery-backend/internal/apperror"
	"healthquery-backend/internal/database"
	"healthquery-backend/internal/metrics"
	"healthquery-backend/internal/models"
	"healthquery-backend/internal/session"
	"healthquery-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- Structs for Request Binding ---

type RegisterRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required"`
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Role           string  `json:"role" binding:"required"`
	Specialization *string `json:"specialization" binding:"omitempty,specialization"`
	LicenseNumber  *string `json:"license_number" binding:"omitempty,license"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

const passwordRules = "Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, and one number"

// --- Handler Functions ---

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.ValidateEmail(email) {
		h.respondError(c, apperror.BadRequest("Invalid email format"))
		return
	}
	if !utils.ValidatePassword(req.Password) {
		h.respondError(c, apperror.BadRequest(passwordRules))
		return
	}

	var existing int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		h.respondError(c, apperror.Internal(fmt.Errorf("check email: %w", err)))
		return
	}
	if existing > 0 {
		h.respondError(c, apperror.Conflict("Email already registered"))
		return
	}

	role := models.Role(req.Role)
	if !models.RegistrableRole(role) {
		h.respondError(c, apperror.BadRequest("Invalid role"))
		return
	}

	firstName, appErr := sanitizeName("first_name", req.FirstName)
	if appErr != nil {
		h.respondError(c, appErr)
		return
	}
	lastName, appErr := sanitizeName("last_name", req.LastName)
	if appErr != nil {
		h.respondError(c, appErr)
		return
	}

	user, err := models.NewUser(email, req.Password, firstName, lastName, role)
	if err != nil {
		h.respondError(c, apperror.Internal(err))
		return
	}

	if user.IsClinician() {
		if req.Specialization == nil || *req.Specialization == "" {
			h.respondError(c, apperror.BadRequest("Clinician registration requires specialization"))
			return
		}
		if req.LicenseNumber == nil || *req.LicenseNumber == "" {
			h.respondError(c, apperror.BadRequest("Clinician registration requires license number"))
			return
		}
		user.Specialization = req.Specialization
		user.LicenseNumber = req.LicenseNumber
	}

	if err := h.db.WithContext(c.Request.Context()).Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			h.respondError(c, apperror.Conflict("Email already registered"))
			return
		}
		h.respondError(c, apperror.Internal(fmt.Errorf("create user: %w", err)))
		return
	}

	metrics.RecordRegistration(string(user.Role))
	h.logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    user.View(),
	})
}

// sanitizeName strips markup from a name field and rejects values that
// sanitize to nothing.
func sanitizeName(field, value string) (string, *apperror.Error) {
	clean := utils.SanitizeInput(value)
	if clean == "" {
		return "", apperror.BadRequest("Field must not be blank: " + field)
	}
	return clean, nil
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondError(c, apperror.BadRequest("Email and password are required"))
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.respondError(c, apperror.Internal(fmt.Errorf("find user: %w", err)))
		return
	}
	if err != nil || !user.CheckPassword(req.Password) {
		h.respondError(c, apperror.Unauthorized("Invalid email or password"))
		return
	}

	if err := h.sessions.Login(c, &user, req.Remember); err != nil {
		h.respondError(c, apperror.Internal(fmt.Errorf("issue session: %w", err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"user":     user.View(),
		"role":     user.Role,
		"redirect": "/" + string(user.Role) + "/dashboard",
	})
}

// Logout clears the session cookie. Issued tokens stay valid until they
// expire because sessions are not stored server side.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Me returns the logged-in user's profile.
func (h *Handler) Me(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user.View()})
}
