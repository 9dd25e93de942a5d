package plan

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/planforge/planforge/internal/errors"
)

// Input bounds for a generation request.
const (
	MaxGoalChars   = 500
	MaxListEntries = 10
)

// ValidateRequest checks a generation request against size and emptiness
// rules. Checks run in order and the first failure wins; there is no
// partial-validation aggregation. Pure.
func ValidateRequest(goal string, users, constraints []string) error {
	trimmed := strings.TrimSpace(goal)
	if trimmed == "" {
		return errors.NewInvalidRequest("goal cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxGoalChars {
		return errors.NewInvalidRequest(fmt.Sprintf("goal must be at most %d characters", MaxGoalChars))
	}

	if len(users) == 0 {
		return errors.NewInvalidRequest("at least one user persona is required")
	}
	if len(users) > MaxListEntries {
		return errors.NewInvalidRequest(fmt.Sprintf("maximum %d user personas allowed", MaxListEntries))
	}
	for _, u := range users {
		if strings.TrimSpace(u) == "" {
			return errors.NewInvalidRequest("user personas cannot be empty")
		}
	}

	if len(constraints) == 0 {
		return errors.NewInvalidRequest("at least one constraint is required")
	}
	if len(constraints) > MaxListEntries {
		return errors.NewInvalidRequest(fmt.Sprintf("maximum %d constraints allowed", MaxListEntries))
	}
	for _, c := range constraints {
		if strings.TrimSpace(c) == "" {
			return errors.NewInvalidRequest("constraints cannot be empty")
		}
	}

	return nil
}
