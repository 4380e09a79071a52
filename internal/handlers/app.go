package handlers

import (
	"context"
	"math/rand/v2"

	"healthquery-backend/internal/ai"
	"healthquery-backend/internal/middleware"
	"healthquery-backend/internal/models"
	"healthquery-backend/internal/notify"
	"healthquery-backend/internal/session"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	db        *gorm.DB
	ai        *ai.Service
	sessions  *session.Manager
	notifier  *notify.Notifier
	logger    zerolog.Logger
	rateLimit middleware.RateLimitConfig

	// pick returns a uniform index in [0, n).
	pick func(n int) int
}

// Options configures a Handler. DB, AI and Sessions are required.
type Options struct {
	DB        *gorm.DB
	AI        *ai.Service
	Sessions  *session.Manager
	Notifier  *notify.Notifier
	Logger    zerolog.Logger
	RateLimit middleware.RateLimitConfig
	Pick      func(n int) int
}

func New(opts Options) *Handler {
	h := &Handler{
		db:        opts.DB,
		ai:        opts.AI,
		sessions:  opts.Sessions,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		rateLimit: opts.RateLimit,
		pick:      opts.Pick,
	}
	if h.notifier == nil {
		h.notifier = notify.NewNotifier(notify.NoopMailer{}, opts.Logger)
	}
	if h.pick == nil {
		h.pick = rand.IntN
	}
	return h
}

// loadUser resolves the user named by a session cookie.
func (h *Handler) loadUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := h.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
