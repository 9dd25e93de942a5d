package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/planforge/planforge/internal/errors"
)

// RawPlan is the model's plan output after shape validation but before
// decoding into domain types. Callers decode the sections they need.
type RawPlan struct {
	UserStories      json.RawMessage `json:"user_stories"`
	EngineeringTasks json.RawMessage `json:"engineering_tasks"`
	Risks            json.RawMessage `json:"risks"`
}

// Attempt records one generation try for tracing.
type Attempt struct {
	Number   int
	Model    string
	Duration time.Duration
	Err      string
	Success  bool
}

// Gateway drives plan generation against a completion backend, retrying
// malformed output up to a fixed budget. Transport and auth failures surface
// immediately and are never retried.
type Gateway struct {
	client      CompletionClient
	maxAttempts int
	logger      *zap.Logger
}

// NewGateway creates a generation gateway. maxAttempts values below 1 are
// clamped to 1.
func NewGateway(client CompletionClient, maxAttempts int, logger *zap.Logger) *Gateway {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		client:      client,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// GeneratePlan sends the prompts and parses the completion into a RawPlan.
// The returned attempts slice describes every try made, including the
// successful one, so callers can persist a trace.
func (g *Gateway) GeneratePlan(ctx context.Context, systemPrompt, userPrompt string) (*RawPlan, []Attempt, error) {
	attempts := make([]Attempt, 0, g.maxAttempts)

	for n := 1; n <= g.maxAttempts; n++ {
		start := time.Now()
		raw, err := g.client.Complete(ctx, systemPrompt, userPrompt)
		elapsed := time.Since(start)

		if err != nil {
			// Backend unreachable or rejected the call. Retrying won't help.
			attempts = append(attempts, Attempt{
				Number:   n,
				Model:    g.client.Model(),
				Duration: elapsed,
				Err:      err.Error(),
			})
			g.logger.Warn("completion request failed",
				zap.Int("attempt", n),
				zap.Error(err))
			return nil, attempts, errors.NewUpstreamUnavailable(err)
		}

		plan, parseErr := parsePlanOutput(raw)
		if parseErr != nil {
			attempts = append(attempts, Attempt{
				Number:   n,
				Model:    g.client.Model(),
				Duration: elapsed,
				Err:      parseErr.Error(),
			})
			g.logger.Warn("malformed plan output",
				zap.Int("attempt", n),
				zap.Int("max_attempts", g.maxAttempts),
				zap.String("reason", parseErr.Error()))
			continue
		}

		attempts = append(attempts, Attempt{
			Number:   n,
			Model:    g.client.Model(),
			Duration: elapsed,
			Success:  true,
		})
		g.logger.Info("plan generated",
			zap.Int("attempt", n),
			zap.Duration("duration", elapsed))
		return plan, attempts, nil
	}

	msg := fmt.Sprintf("model did not produce a valid plan after %d attempts", g.maxAttempts)
	return nil, attempts, errors.NewGenerationFailed(msg, g.maxAttempts)
}

// CheckConnection reports whether the completion backend is reachable with
// the configured credential. Errors are swallowed; this is a boolean probe.
func (g *Gateway) CheckConnection(ctx context.Context) bool {
	start := time.Now()
	_, err := g.client.Complete(ctx, "You are a health probe. Reply with OK.", "ping")
	if err != nil {
		g.logger.Debug("connection check failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return false
	}
	return true
}

// parsePlanOutput validates that the completion is a JSON object carrying all
// three required top-level sections. Fenced or prose-wrapped JSON is accepted.
func parsePlanOutput(raw string) (*RawPlan, error) {
	candidate := extractJSONObject(stripCodeFences(raw))
	if candidate == "" {
		return nil, fmt.Errorf("response contained no JSON object")
	}

	var plan RawPlan
	if err := json.Unmarshal([]byte(candidate), &plan); err != nil {
		return nil, fmt.Errorf("response was not valid JSON: %v", err)
	}

	var missing []string
	if len(plan.UserStories) == 0 {
		missing = append(missing, "user_stories")
	}
	if len(plan.EngineeringTasks) == 0 {
		missing = append(missing, "engineering_tasks")
	}
	if len(plan.Risks) == 0 {
		missing = append(missing, "risks")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("response missing required keys: %v", missing)
	}

	return &plan, nil
}
