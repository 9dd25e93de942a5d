package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/planforge/planforge/internal/db"
	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/llm"
	"github.com/planforge/planforge/internal/plan"
)

// GenerateInput contains parameters for the Generate operation.
type GenerateInput struct {
	Goal        string   // required, <=500 chars after trimming
	Users       []string // 1-10 persona descriptions
	Constraints []string // 1-10 constraint descriptions
}

// Generate runs the full pipeline: validate the request, build prompts, call
// the completion gateway, decode the output into a typed plan, and persist it.
// Nothing is stored unless the whole pipeline succeeds.
func Generate(ctx context.Context, database *sql.DB, gen PlanGenerator, logger *zap.Logger, input GenerateInput) (*plan.FeaturePlan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := plan.ValidateRequest(input.Goal, input.Users, input.Constraints); err != nil {
		return nil, err
	}

	systemPrompt, userPrompt := plan.BuildPrompt(input.Goal, input.Users, input.Constraints)

	raw, attempts, err := gen.GeneratePlan(ctx, systemPrompt, userPrompt)
	recordTraces(database, logger, input.Goal, attempts)
	if err != nil {
		return nil, err
	}

	p, err := decodePlan(raw, input)
	if err != nil {
		return nil, err
	}

	if err := db.InsertPlan(database, p); err != nil {
		return nil, err
	}

	logger.Info("plan stored",
		zap.Int64("id", p.ID),
		zap.Int("stories", len(p.UserStories)),
		zap.Int("attempts", len(attempts)))
	return p, nil
}

// decodePlan turns validated raw JSON sections into domain types. A section
// that fails to decode, or an empty user_stories/risks list, fails the whole
// operation; the plan is unusable and must not be stored.
func decodePlan(raw *llm.RawPlan, input GenerateInput) (*plan.FeaturePlan, error) {
	var stories []plan.UserStory
	if err := json.Unmarshal(raw.UserStories, &stories); err != nil {
		return nil, errors.NewGenerationFailed("user_stories has an unusable shape", 0)
	}
	var tasks map[string][]plan.EngineeringTask
	if err := json.Unmarshal(raw.EngineeringTasks, &tasks); err != nil {
		return nil, errors.NewGenerationFailed("engineering_tasks has an unusable shape", 0)
	}
	var risks []plan.Risk
	if err := json.Unmarshal(raw.Risks, &risks); err != nil {
		return nil, errors.NewGenerationFailed("risks has an unusable shape", 0)
	}

	if len(stories) == 0 {
		return nil, errors.NewGenerationFailed("model returned no user stories", 0)
	}
	if len(risks) == 0 {
		return nil, errors.NewGenerationFailed("model returned no risks", 0)
	}
	if tasks == nil {
		tasks = map[string][]plan.EngineeringTask{}
	}

	return &plan.FeaturePlan{
		Goal:             input.Goal,
		Users:            input.Users,
		Constraints:      input.Constraints,
		UserStories:      stories,
		EngineeringTasks: tasks,
		Risks:            risks,
	}, nil
}

// recordTraces persists one trace row per gateway attempt. Trace recording is
// best-effort; failures are logged and never fail the operation.
func recordTraces(database *sql.DB, logger *zap.Logger, goal string, attempts []llm.Attempt) {
	now := time.Now().UnixMilli()
	for _, a := range attempts {
		id, err := generateULID()
		if err != nil {
			logger.Warn("trace id generation failed", zap.Error(err))
			continue
		}
		rec := &db.TraceRecord{
			ID:         id,
			Goal:       goal,
			Attempt:    a.Number,
			Model:      a.Model,
			DurationMS: a.Duration.Milliseconds(),
			Success:    a.Success,
			Error:      a.Err,
			CreatedAt:  now,
		}
		if err := db.InsertTrace(database, rec); err != nil {
			logger.Warn("trace insert failed",
				zap.Int("attempt", a.Number),
				zap.Error(err))
		}
	}
}
