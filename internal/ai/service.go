// Package ai classifies health questions into a specialization and drafts
// an answer using a large language model.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"healthquery-backend/internal/metrics"
	"healthquery-backend/internal/models"

	"github.com/rs/zerolog"
)

// Generator produces text for a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse is returned when the model replies with no text.
var ErrEmptyResponse = errors.New("empty model response")

// ServiceError reports a failed response generation.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("failed to get AI response: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Service wraps a Generator with the categorisation and answer prompts.
type Service struct {
	gen        Generator
	logger     zerolog.Logger
	timeout    time.Duration
	categories []string
}

// NewService creates a service. A zero timeout leaves the caller's context as is.
func NewService(gen Generator, logger zerolog.Logger, timeout time.Duration) *Service {
	return &Service{
		gen:        gen,
		logger:     logger.With().Str("component", "ai").Logger(),
		timeout:    timeout,
		categories: models.Specializations(),
	}
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	text, err := s.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// DetermineCategory asks the model for the best matching specialization.
// Unknown answers and model failures fall back to General Medicine.
func (s *Service) DetermineCategory(ctx context.Context, question string) string {
	reply, err := s.generate(ctx, categorizationPrompt(question, s.categories))
	if err != nil {
		metrics.RecordAIRequest("categorize", "error")
		s.logger.Error().Err(err).Msg("error determining category")
		return models.FallbackCategory
	}

	category, ok := models.MatchSpecialization(reply)
	if !ok {
		metrics.RecordAIRequest("categorize", "fallback")
		s.logger.Warn().Str("suggested", reply).Msg("category not in valid categories, defaulting to General Medicine")
		return models.FallbackCategory
	}
	metrics.RecordAIRequest("categorize", "ok")
	return category
}

// GetResponse categorises the question and drafts a formatted answer.
// Failures while drafting are returned as *ServiceError.
func (s *Service) GetResponse(ctx context.Context, question string) (string, string, error) {
	category := s.DetermineCategory(ctx, question)

	text, err := s.generate(ctx, responsePrompt(question, category))
	if err != nil {
		metrics.RecordAIRequest("respond", "error")
		s.logger.Error().Err(err).Str("category", category).Msg("error getting AI response")
		return "", "", &ServiceError{Err: err}
	}
	metrics.RecordAIRequest("respond", "ok")

	return category, FormatResponse(text, category), nil
}

// FormatResponse normalises markdown spacing: two blank lines before every
// header except on the first line, one blank line before the first item of a
// list block. A category header is prepended when the model left it out.
func FormatResponse(text, category string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]string, 0, len(lines)+8)

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "#"):
			if i > 0 {
				out = append(out, "", "")
			}
		case strings.HasPrefix(strings.TrimSpace(line), "-"):
			if i > 0 && !strings.HasPrefix(strings.TrimSpace(lines[i-1]), "-") {
				out = append(out, "")
			}
		}
		out = append(out, line)
	}

	formatted := strings.Join(out, "\n")
	if !strings.Contains(formatted, "# Category") {
		formatted = fmt.Sprintf("# Category\n%s\n\n%s", category, formatted)
	}
	return formatted
}
