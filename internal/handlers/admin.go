package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"healthquery-backend/internal/apperror"
	"healthquery-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListClinicians returns every clinician with license and verification details.
func (h *Handler) ListClinicians(c *gin.Context) {
	var users []models.User
	query := h.db.WithContext(c.Request.Context()).Where("role = ?", models.RoleClinician)
	if spec := c.Query("specialization"); spec != "" {
		query = query.Where("specialization = ?", spec)
	}
	if err := query.Order("id").Find(&users).Error; err != nil {
		h.respondError(c, apperror.Internal(fmt.Errorf("list clinicians: %w", err)))
		return
	}

	views := make([]models.ClinicianView, 0, len(users))
	for i := range users {
		if clinician, ok := users[i].AsClinician(); ok {
			views = append(views, clinician.AdminView())
		}
	}
	c.JSON(http.StatusOK, gin.H{"clinicians": views, "total": len(views)})
}

// VerifyClinician marks a clinician's license as checked.
func (h *Handler) VerifyClinician(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.respondError(c, apperror.NotFound("Clinician"))
		return
	}

	var user models.User
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role = ?", models.RoleClinician).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Clinician")
			}
			return fmt.Errorf("load clinician: %w", err)
		}
		return tx.Model(&user).Update("is_verified", true).Error
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	clinician, _ := user.AsClinician()
	h.logger.Info().Uint("clinician_id", user.ID).Msg("clinician verified")
	c.JSON(http.StatusOK, gin.H{
		"message":   "Clinician verified successfully",
		"clinician": clinician.AdminView(),
	})
}
