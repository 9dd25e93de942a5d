package ops

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/planforge/planforge/internal/llm"
)

// Limits for the recent listing.
const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 20
)

// PlanGenerator abstracts the completion gateway so operations can be tested
// with a scripted implementation.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, systemPrompt, userPrompt string) (*llm.RawPlan, []llm.Attempt, error)
	CheckConnection(ctx context.Context) bool
}

// generateULID generates a new ULID for trace records.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
