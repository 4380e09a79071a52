package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"healthquery-backend/internal/apperror"
	"healthquery-backend/internal/metrics"
	"healthquery-backend/internal/models"
	"healthquery-backend/internal/session"
	"healthquery-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- Structs for Request Binding ---

type CreateQueryRequest struct {
	Question     string `json:"question" binding:"required,notblank"`
	IsAnonymous  bool   `json:"is_anonymous"`
	UrgencyLevel string `json:"urgency_level" binding:"omitempty,urgency"`
}

type ReviewQueryRequest struct {
	Response string `json:"response" binding:"required,notblank"`
}

var errNoClinicians = apperror.BadRequest("No clinicians available")

const (
	defaultPerPage = 10
	maxPerPage     = 100
	// maxPage keeps (page-1)*perPage inside an int32 offset.
	maxPage = math.MaxInt32 / maxPerPage
)

// --- Handler Functions ---

// ListQueries pages through the patient's own queries, or through all pending
// queries for everyone else.
func (h *Handler) ListQueries(c *gin.Context) {
	user, _ := session.CurrentUser(c)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	page = min(page, maxPage)
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	perPage = min(perPage, maxPerPage)

	query := h.db.WithContext(c.Request.Context()).Model(&models.Query{})
	if patient, ok := user.AsPatient(); ok {
		query = query.Where("patient_id = ?", patient.ID)
	} else {
		query = query.Where("status = ?", models.StatusPending)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.respondError(c, apperror.Internal(fmt.Errorf("count queries: %w", err)))
		return
	}

	var queries []models.Query
	offset := (page - 1) * perPage
	if err := query.Order("created_at desc").Order("id desc").Offset(offset).Limit(perPage).Find(&queries).Error; err != nil {
		h.respondError(c, apperror.Internal(fmt.Errorf("list queries: %w", err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queries":      models.Views(queries),
		"pages":        int(math.Ceil(float64(total) / float64(perPage))),
		"current_page": page,
		"total":        total,
	})
}

// CreateQuery drafts an AI answer for the patient's question and assigns a
// clinician, preferring one whose specialization matches the category.
func (h *Handler) CreateQuery(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	patient, _ := user.AsPatient()

	var req CreateQueryRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.UrgencyLevel == "" {
		req.UrgencyLevel = models.UrgencyLow
	}

	category, answer, err := h.ai.GetResponse(c.Request.Context(), req.Question)
	if err != nil {
		h.respondError(c, apperror.Internal(err))
		return
	}
	h.logger.Debug().Str("category", category).Msg("category determined")

	var (
		created   *models.Query
		clinician *models.User
	)
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var specialist bool
		var err error
		clinician, specialist, err = h.assignClinician(tx, category)
		if err != nil {
			return err
		}

		q := patient.Ask(category, req.Question,
			models.WithClinician(clinician.ID),
			models.WithAnonymous(req.IsAnonymous),
			models.WithUrgency(req.UrgencyLevel),
			models.WithStatus(models.StatusPendingReview),
		)
		q.SetAIResponse(answer)

		if err := tx.Create(q).Error; err != nil {
			return fmt.Errorf("create query: %w", err)
		}

		var stored models.Query
		if err := tx.Select("id", "clinician_id").First(&stored, q.ID).Error; err != nil {
			return fmt.Errorf("reload query: %w", err)
		}
		if stored.ClinicianID == nil || *stored.ClinicianID != clinician.ID {
			return errors.New("clinician assignment was not persisted")
		}

		metrics.RecordAssignment(specialist)
		created = q
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	metrics.RecordQueryCreated(category)
	h.logger.Debug().
		Uint("query_id", created.ID).
		Uint("clinician_id", clinician.ID).
		Str("status", created.Status).
		Msg("query created")

	go h.notifier.QueryAssigned(context.WithoutCancel(c.Request.Context()), clinician, created)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Query created successfully",
		"query":   created.View(),
	})
}

// assignClinician picks a clinician at random among those specialised in
// category, or among all clinicians when none match.
func (h *Handler) assignClinician(tx *gorm.DB, category string) (*models.User, bool, error) {
	var candidates []models.User
	if err := tx.Where("role = ? AND specialization = ?", models.RoleClinician, category).
		Order("id").Find(&candidates).Error; err != nil {
		return nil, false, fmt.Errorf("find specialists: %w", err)
	}
	h.logger.Debug().Str("category", category).Int("count", len(candidates)).Msg("matching clinicians")

	specialist := len(candidates) > 0
	if !specialist {
		if err := tx.Where("role = ?", models.RoleClinician).Order("id").Find(&candidates).Error; err != nil {
			return nil, false, fmt.Errorf("find clinicians: %w", err)
		}
		h.logger.Debug().Int("count", len(candidates)).Msg("no matching specialists, using all clinicians")
	}
	if len(candidates) == 0 {
		h.logger.Warn().Str("category", category).Msg("no clinicians available")
		return nil, false, errNoClinicians
	}

	chosen := candidates[h.pick(len(candidates))]
	return &chosen, specialist, nil
}

// ReviewQuery records the clinician's answer and marks the query verified.
func (h *Handler) ReviewQuery(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	clinician, _ := user.AsClinician()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.respondError(c, apperror.NotFound("Query"))
		return
	}

	var req ReviewQueryRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	var q models.Query
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&q, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Query")
			}
			return fmt.Errorf("load query: %w", err)
		}
		clinician.Review(&q, req.Response)
		if err := tx.Save(&q).Error; err != nil {
			return fmt.Errorf("save review: %w", err)
		}
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	metrics.RecordQueryReviewed()
	c.JSON(http.StatusOK, gin.H{
		"message": "Query reviewed successfully",
		"query":   q.View(),
	})
}

// Analytics counts queries per category and summarises review latency.
func (h *Handler) Analytics(c *gin.Context) {
	var queries []models.Query
	if err := h.db.WithContext(c.Request.Context()).Find(&queries).Error; err != nil {
		h.respondError(c, apperror.Internal(fmt.Errorf("load queries: %w", err)))
		return
	}

	categoryStats := make(map[string]int)
	var latencies []time.Duration
	for i := range queries {
		categoryStats[queries[i].Category]++
		if d, ok := queries[i].ResponseTime(); ok {
			latencies = append(latencies, d)
		}
	}

	avg, stdDev := utils.ResponseTimeStats(latencies)
	c.JSON(http.StatusOK, gin.H{
		"category_stats":               categoryStats,
		"avg_response_time_seconds":    avg,
		"response_time_stddev_seconds": stdDev,
		"total_queries":                len(queries),
	})
}
