package models

import "time"

// Query statuses. StatusReviewed is recognised for display but no workflow
// step produces it; reviews go straight to StatusVerified.
const (
	StatusPending       = "pending"
	StatusPendingReview = "pending_review"
	StatusReviewed      = "reviewed"
	StatusVerified      = "verified"
)

// Urgency levels.
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
)

// ValidUrgency reports whether level is one of low, normal or high.
func ValidUrgency(level string) bool {
	return level == UrgencyLow || level == UrgencyNormal || level == UrgencyHigh
}

var statusStyles = map[string]map[string]string{
	StatusPending:  {"color": "#FFA500", "background": "#FFF3E0"},
	StatusReviewed: {"color": "#4CAF50", "background": "#E8F5E9"},
	StatusVerified: {"color": "#2196F3", "background": "#E3F2FD"},
}

// Query is a patient question with its AI draft and clinician review.
type Query struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	PatientID         uint       `json:"patient_id" gorm:"not null;index"`
	ClinicianID       *uint      `json:"clinician_id" gorm:"index"`
	Category          string     `json:"category" gorm:"size:100;not null;index"`
	Question          string     `json:"question" gorm:"type:text;not null"`
	AIResponse        *string    `json:"ai_response" gorm:"type:text"`
	ClinicianResponse *string    `json:"clinician_response" gorm:"type:text"`
	Status            string     `json:"status" gorm:"size:20;not null;default:pending;index"`
	UrgencyLevel      string     `json:"urgency_level" gorm:"size:20;default:normal"`
	IsAnonymous       bool       `json:"is_anonymous" gorm:"default:false"`
	CreatedAt         time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ReviewedAt        *time.Time `json:"reviewed_at"`
}

func (Query) TableName() string {
	return "queries"
}

// QueryOption customises a new query.
type QueryOption func(*Query)

// WithClinician assigns the reviewing clinician.
func WithClinician(id uint) QueryOption {
	return func(q *Query) { q.ClinicianID = &id }
}

func WithAnonymous(anonymous bool) QueryOption {
	return func(q *Query) { q.IsAnonymous = anonymous }
}

func WithUrgency(level string) QueryOption {
	return func(q *Query) { q.UrgencyLevel = level }
}

func WithStatus(status string) QueryOption {
	return func(q *Query) { q.Status = status }
}

// NewQuery builds a query with urgency "normal" and status "pending" unless
// overridden by opts.
func NewQuery(patientID uint, category, question string, opts ...QueryOption) *Query {
	q := &Query{
		PatientID:    patientID,
		Category:     category,
		Question:     question,
		Status:       StatusPending,
		UrgencyLevel: UrgencyNormal,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetAIResponse attaches the AI draft. The status always returns to pending,
// whatever the caller set before.
func (q *Query) SetAIResponse(response string) {
	q.AIResponse = &response
	q.Status = StatusPending
}

// SetClinicianReview stores the clinician's answer and marks the query verified.
func (q *Query) SetClinicianReview(clinicianID uint, response string) {
	now := time.Now().UTC()
	q.ClinicianID = &clinicianID
	q.ClinicianResponse = &response
	q.Status = StatusVerified
	q.ReviewedAt = &now
}

// ResponseTime is the time between submission and review.
func (q *Query) ResponseTime() (time.Duration, bool) {
	if q.ReviewedAt == nil {
		return 0, false
	}
	return q.ReviewedAt.Sub(q.CreatedAt), true
}

// StatusStyle returns the display colours for the current status, or an
// empty map for statuses without a style.
func (q *Query) StatusStyle() map[string]string {
	style := map[string]string{}
	for k, v := range statusStyles[q.Status] {
		style[k] = v
	}
	return style
}

// QueryView is the serialised form of a query.
type QueryView struct {
	ID                uint              `json:"id"`
	PatientID         uint              `json:"patient_id"`
	ClinicianID       *uint             `json:"clinician_id"`
	Category          string            `json:"category"`
	Question          string            `json:"question"`
	AIResponse        *string           `json:"ai_response"`
	ClinicianResponse *string           `json:"clinician_response"`
	Status            string            `json:"status"`
	StatusStyle       map[string]string `json:"status_style"`
	UrgencyLevel      string            `json:"urgency_level"`
	IsAnonymous       bool              `json:"is_anonymous"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	ReviewedAt        *time.Time        `json:"reviewed_at"`
}

func (q *Query) View() QueryView {
	return QueryView{
		ID:                q.ID,
		PatientID:         q.PatientID,
		ClinicianID:       q.ClinicianID,
		Category:          q.Category,
		Question:          q.Question,
		AIResponse:        q.AIResponse,
		ClinicianResponse: q.ClinicianResponse,
		Status:            q.Status,
		StatusStyle:       q.StatusStyle(),
		UrgencyLevel:      q.UrgencyLevel,
		IsAnonymous:       q.IsAnonymous,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
		ReviewedAt:        q.ReviewedAt,
	}
}

// Views serialises a slice of queries.
func Views(qs []Query) []QueryView {
	out := make([]QueryView, 0, len(qs))
	for i := range qs {
		out = append(out, qs[i].View())
	}
	return out
}
