package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/lead-scorer/internal/ai"
	"github.com/spigell/lead-scorer/internal/leads"
	"github.com/spigell/lead-scorer/internal/logger"
	"github.com/spigell/lead-scorer/internal/utils"
)

const (
	provider            = "gemini"
	defaultMaxLogLength = 200
	noReasoning         = "no reasoning provided"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

//go:embed prompt.md
var systemPrompt string

// IntentScorer asks Gemini to classify the buying intent of a lead.
type IntentScorer struct {
	generator contentGenerator
	limiter   *rate.Limiter
	logger    *zap.Logger
	maxLogLen int
}

// NewIntentScorer builds the scorer. A non-positive requestsPerSecond disables throttling.
func NewIntentScorer(generator contentGenerator, requestsPerSecond float64, maxLogLength int, log *zap.Logger) *IntentScorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &IntentScorer{
		generator: generator,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger.WithProvider(log, provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (s *IntentScorer) Score(ctx context.Context, lead *leads.Lead, offer *leads.Offer) (*ai.IntentAssessment, error) {
	if lead == nil {
		return nil, errors.New("lead is required")
	}
	if offer == nil {
		return nil, errors.New("offer is required")
	}

	message, err := buildMessage(lead, offer)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for gemini rate limit: %w", err)
	}

	log := logger.With(s.logger, logger.LeadFields(lead.Name, lead.Company)...)

	log.Debug("gemini intent request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.Preview(message, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini intent response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.Preview(raw, s.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

// Describe reports the provider settings for status output.
func (s *IntentScorer) Describe() map[string]string {
	rps := "unlimited"
	if limit := s.limiter.Limit(); limit != rate.Inf {
		rps = strconv.FormatFloat(float64(limit), 'g', -1, 64)
	}

	return map[string]string{
		"provider":            provider,
		"model":               s.generator.Model(),
		"requests_per_second": rps,
	}
}

func buildMessage(lead *leads.Lead, offer *leads.Offer) (string, error) {
	offerJSON, err := json.MarshalIndent(offer, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal offer payload: %w", err)
	}

	leadJSON, err := json.MarshalIndent(lead, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal lead payload: %w", err)
	}

	return fmt.Sprintf("Offer:\n%s\n\nProspect:\n%s\n\nJSON Response:", offerJSON, leadJSON), nil
}

func parseResponse(raw string) (*ai.IntentAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	intent := ai.NormalizeIntent(coerceString(data["intent"]))

	points := coerceFloat(data["points"])
	if math.IsNaN(points) {
		points = coerceFloat(data["score"])
	}

	if math.IsNaN(points) {
		p, ok := ai.PointsForIntent(intent)
		if !ok {
			return nil, fmt.Errorf("gemini response has neither intent nor points: %s", utils.Preview(cleaned, defaultMaxLogLength))
		}
		points = float64(p)
	}

	clamped := ai.ClampPoints(int(math.Round(points)))
	if intent == "" {
		intent = ai.IntentForPoints(clamped)
	}

	reasoning := coerceString(data["reasoning"])
	if reasoning == "" {
		reasoning = coerceString(data["reason"])
	}
	if reasoning == "" {
		reasoning = noReasoning
	}

	return &ai.IntentAssessment{
		Intent:    intent,
		Points:    clamped,
		Reasoning: reasoning,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
