package plan

import (
	"strings"
	"testing"

	"github.com/planforge/planforge/internal/errors"
)

func validUsers() []string       { return []string{"developer", "product manager"} }
func validConstraints() []string { return []string{"must ship in Q3"} }

func TestValidateRequest_Valid(t *testing.T) {
	if err := ValidateRequest("add dark mode", validUsers(), validConstraints()); err != nil {
		t.Fatalf("ValidateRequest() error = %v, want nil", err)
	}
}

func TestValidateRequest_EmptyGoal(t *testing.T) {
	for _, goal := range []string{"", "   ", "\n\t"} {
		err := ValidateRequest(goal, validUsers(), validConstraints())
		if !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("ValidateRequest(%q) error = %v, want INVALID_REQUEST", goal, err)
		}
	}
}

func TestValidateRequest_GoalTooLong(t *testing.T) {
	goal := strings.Repeat("x", MaxGoalChars+1)
	err := ValidateRequest(goal, validUsers(), validConstraints())
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("ValidateRequest() error = %v, want INVALID_REQUEST", err)
	}

	// Exactly at the limit is fine
	goal = strings.Repeat("x", MaxGoalChars)
	if err := ValidateRequest(goal, validUsers(), validConstraints()); err != nil {
		t.Fatalf("ValidateRequest() at limit error = %v, want nil", err)
	}
}

func TestValidateRequest_GoalLengthCountsRunes(t *testing.T) {
	// 500 multi-byte runes are within the limit even though the byte count
	// is far beyond it
	goal := strings.Repeat("ü", MaxGoalChars)
	if err := ValidateRequest(goal, validUsers(), validConstraints()); err != nil {
		t.Fatalf("ValidateRequest() error = %v, want nil", err)
	}
}

func TestValidateRequest_UserBounds(t *testing.T) {
	tests := []struct {
		name    string
		users   []string
		wantErr bool
	}{
		{"no users", []string{}, true},
		{"nil users", nil, true},
		{"one user", []string{"dev"}, false},
		{"ten users", make([]string, 0), false},
		{"eleven users", make([]string, 0), true},
		{"blank user", []string{"dev", "  "}, true},
	}

	tests[3].users = repeatEntry("persona", 10)
	tests[4].users = repeatEntry("persona", 11)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest("goal", tt.users, validConstraints())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequest() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestValidateRequest_ConstraintBounds(t *testing.T) {
	tests := []struct {
		name        string
		constraints []string
		wantErr     bool
	}{
		{"no constraints", []string{}, true},
		{"one constraint", []string{"budget"}, false},
		{"ten constraints", repeatEntry("c", 10), false},
		{"eleven constraints", repeatEntry("c", 11), true},
		{"blank constraint", []string{"budget", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest("goal", validUsers(), tt.constraints)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequest() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequest_FirstFailureWins(t *testing.T) {
	// Both goal and users are invalid; goal is checked first
	err := ValidateRequest("", nil, nil)
	pErr, ok := err.(*errors.PlanError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.PlanError", err)
	}
	if !strings.Contains(pErr.Message, "goal") {
		t.Errorf("Message = %q, want goal failure first", pErr.Message)
	}
}

func repeatEntry(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
