package handlers

import (
	"fmt"
	"net/http"
	"time"

	"healthquery-backend/internal/apperror"
	"healthquery-backend/internal/models"
	"healthquery-backend/internal/session"
	"healthquery-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,notblank"`
	LastName       *string `json:"last_name" binding:"omitempty,notblank"`
	Specialization *string `json:"specialization" binding:"omitempty,specialization"`
	LicenseNumber  *string `json:"license_number" binding:"omitempty,license"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"profile": user.View(),
	})
}

// UpdateProfile changes only the fields present in the request body.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, _ := session.CurrentUser(c)

	var req UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	var columns []string
	if req.FirstName != nil {
		name, appErr := sanitizeName("first_name", *req.FirstName)
		if appErr != nil {
			h.respondError(c, appErr)
			return
		}
		user.FirstName = name
		columns = append(columns, "first_name")
	}
	if req.LastName != nil {
		name, appErr := sanitizeName("last_name", *req.LastName)
		if appErr != nil {
			h.respondError(c, appErr)
			return
		}
		user.LastName = name
		columns = append(columns, "last_name")
	}
	if req.Specialization != nil {
		user.Specialization = req.Specialization
		columns = append(columns, "specialization")
	}
	if req.LicenseNumber != nil {
		user.LicenseNumber = req.LicenseNumber
		columns = append(columns, "license_number")
	}

	if len(columns) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(user).Select(columns).Updates(user).Error; err != nil {
			h.respondError(c, apperror.Internal(fmt.Errorf("update profile: %w", err)))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": user.View(),
	})
}

// Stats reports the clinician's review count and latency alongside the number
// of queries still pending.
func (h *Handler) Stats(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	db := h.db.WithContext(c.Request.Context())

	var reviewed []models.Query
	if err := db.Where("clinician_id = ? AND status IN ?", user.ID, []string{models.StatusReviewed, models.StatusVerified}).
		Find(&reviewed).Error; err != nil {
		h.respondError(c, apperror.Internal(fmt.Errorf("load reviewed queries: %w", err)))
		return
	}

	var pending int64
	if err := db.Model(&models.Query{}).Where("status = ?", models.StatusPending).Count(&pending).Error; err != nil {
		h.respondError(c, apperror.Internal(fmt.Errorf("count pending queries: %w", err)))
		return
	}

	latencies := make([]time.Duration, 0, len(reviewed))
	for i := range reviewed {
		if d, ok := reviewed[i].ResponseTime(); ok {
			latencies = append(latencies, d)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_reviewed":            len(reviewed),
		"pending_reviews":           pending,
		"avg_response_time_seconds": utils.AverageSeconds(latencies),
	})
}
