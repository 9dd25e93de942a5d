package plan

import (
	"strings"
	"testing"
)

func samplePlan() *FeaturePlan {
	return &FeaturePlan{
		ID:          7,
		Goal:        "add CSV export",
		Users:       []string{"analyst"},
		Constraints: []string{"30 day deadline"},
		UserStories: []UserStory{
			{Title: "Export a report", Description: "Analyst exports data", AcceptanceCriteria: []string{"file downloads"}},
		},
		EngineeringTasks: map[string][]EngineeringTask{
			"Backend": {
				{ID: "BE-002", Title: "Stream rows", Priority: "Medium", EstimatedEffort: "1 day", Order: 2},
				{ID: "BE-001", Title: "Add endpoint", Priority: "High", EstimatedEffort: "2 days", Order: 1},
			},
			"Frontend":       {},
			"Analytics Jobs": {{ID: "AJ-001", Title: "Nightly rollup", Order: 1}},
		},
		Risks: []Risk{
			{Risk: "Large exports time out", Mitigation: "Paginate", Severity: "High"},
		},
		CreatedAt: 1700000000000,
		UpdatedAt: 1700000000000,
	}
}

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(samplePlan())

	for _, want := range []string{
		"# Feature Plan #7",
		"**Goal:** add CSV export",
		"## Target Users",
		"## Constraints",
		"## User Stories",
		"## Engineering Tasks",
		"## Risks",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}
}

func TestMarkdown_TasksSortedByOrder(t *testing.T) {
	md := Markdown(samplePlan())

	first := strings.Index(md, "BE-001")
	second := strings.Index(md, "BE-002")
	if first == -1 || second == -1 {
		t.Fatal("Markdown missing backend tasks")
	}
	if first > second {
		t.Error("tasks should be sorted by order field, BE-001 before BE-002")
	}
}

func TestMarkdown_CategoryOrdering(t *testing.T) {
	md := Markdown(samplePlan())

	fe := strings.Index(md, "### Frontend")
	be := strings.Index(md, "### Backend")
	extra := strings.Index(md, "### Analytics Jobs")
	if fe == -1 || be == -1 || extra == -1 {
		t.Fatal("Markdown missing category headings")
	}
	// Known categories first in canonical order, extras after
	if !(fe < be && be < extra) {
		t.Errorf("category order wrong: Frontend=%d Backend=%d Analytics Jobs=%d", fe, be, extra)
	}
}

func TestMarkdown_EmptyCategoryRendered(t *testing.T) {
	md := Markdown(samplePlan())

	if !strings.Contains(md, "_No tasks._") {
		t.Error("empty category should render a placeholder")
	}
}

func TestMarkdown_DefaultsAppliedAtExportOnly(t *testing.T) {
	p := samplePlan()
	p.Risks = []Risk{{Risk: "something", Mitigation: "", Severity: ""}}

	md := Markdown(p)

	if !strings.Contains(md, "**Medium:** something") {
		t.Error("missing severity should default to Medium in export")
	}
	if !strings.Contains(md, "Mitigation: N/A") {
		t.Error("missing mitigation should default to N/A in export")
	}
	// The plan itself is untouched
	if p.Risks[0].Severity != "" {
		t.Error("export must not mutate the stored plan")
	}
}

func TestMarkdown_TaskDefaults(t *testing.T) {
	p := samplePlan()
	md := Markdown(p)

	// AJ-001 has no priority/effort/description
	if !strings.Contains(md, "**AJ-001** Nightly rollup (Medium, N/A)") {
		t.Errorf("task defaults not applied:\n%s", md)
	}
}
