package ops

import (
	"strings"
	"testing"

	"github.com/planforge/planforge/internal/db"
	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/plan"
)

func TestExport(t *testing.T) {
	database := testDB(t)

	p := &plan.FeaturePlan{
		Goal:        "add dark mode",
		Users:       []string{"developer"},
		Constraints: []string{"two weeks"},
		UserStories: []plan.UserStory{{Title: "Toggle theme", Description: "D", AcceptanceCriteria: []string{"ok"}}},
		EngineeringTasks: map[string][]plan.EngineeringTask{
			"Frontend": {{ID: "FE-001", Title: "Theme switch", Priority: "High", EstimatedEffort: "1 day", Order: 1}},
		},
		Risks: []plan.Risk{{Risk: "contrast issues", Mitigation: "audit", Severity: "Low"}},
	}
	if err := db.InsertPlan(database, p); err != nil {
		t.Fatalf("InsertPlan() error = %v", err)
	}

	md, err := Export(database, p.ID)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	for _, want := range []string{"add dark mode", "Toggle theme", "FE-001", "contrast issues"} {
		if !strings.Contains(md, want) {
			t.Errorf("export missing %q", want)
		}
	}
}

func TestExport_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := Export(database, 42)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("Export() error = %v, want NOT_FOUND", err)
	}
}
