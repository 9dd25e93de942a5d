package plan

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Defaults applied at the export boundary only. Stored plans round-trip
// exactly; blanks are filled in here, never at the storage layer.
const (
	defaultPriority    = "Medium"
	defaultSeverity    = "Medium"
	defaultDescription = "N/A"
)

// Markdown renders a stored plan as a markdown document. Deterministic:
// categories appear in canonical order (known categories first, extras
// alphabetically), tasks sorted by their order field.
func Markdown(p *FeaturePlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Feature Plan #%d\n\n", p.ID)
	fmt.Fprintf(&b, "**Goal:** %s\n\n", p.Goal)
	fmt.Fprintf(&b, "_Created %s_\n\n", time.UnixMilli(p.CreatedAt).UTC().Format("2006-01-02 15:04 MST"))

	b.WriteString("## Target Users\n\n")
	for _, u := range p.Users {
		fmt.Fprintf(&b, "- %s\n", u)
	}

	b.WriteString("\n## Constraints\n\n")
	for _, c := range p.Constraints {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	b.WriteString("\n## User Stories\n\n")
	for i, s := range p.UserStories {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, s.Title)
		fmt.Fprintf(&b, "%s\n\n", orDefault(s.Description, defaultDescription))
		if len(s.AcceptanceCriteria) > 0 {
			b.WriteString("Acceptance criteria:\n")
			for _, ac := range s.AcceptanceCriteria {
				fmt.Fprintf(&b, "- %s\n", ac)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Engineering Tasks\n")
	for _, cat := range orderedCategories(p.EngineeringTasks) {
		tasks := p.EngineeringTasks[cat]
		fmt.Fprintf(&b, "\n### %s\n\n", cat)
		if len(tasks) == 0 {
			b.WriteString("_No tasks._\n")
			continue
		}
		for _, t := range sortedTasks(tasks) {
			fmt.Fprintf(&b, "- **%s** %s (%s, %s)\n", t.ID, t.Title,
				orDefault(t.Priority, defaultPriority),
				orDefault(t.EstimatedEffort, defaultDescription))
			fmt.Fprintf(&b, "  %s\n", orDefault(t.Description, defaultDescription))
		}
	}

	b.WriteString("\n## Risks\n\n")
	for _, r := range p.Risks {
		fmt.Fprintf(&b, "- **%s:** %s\n", orDefault(r.Severity, defaultSeverity), r.Risk)
		fmt.Fprintf(&b, "  Mitigation: %s\n", orDefault(r.Mitigation, defaultDescription))
	}

	return b.String()
}

// orderedCategories returns the map keys with known categories first in
// canonical order, then any extra categories alphabetically.
func orderedCategories(tasks map[string][]EngineeringTask) []string {
	known := make(map[string]bool, len(KnownCategories))
	ordered := make([]string, 0, len(tasks))
	for _, cat := range KnownCategories {
		known[cat] = true
		if _, ok := tasks[cat]; ok {
			ordered = append(ordered, cat)
		}
	}

	extras := make([]string, 0)
	for cat := range tasks {
		if !known[cat] {
			extras = append(extras, cat)
		}
	}
	sort.Strings(extras)

	return append(ordered, extras...)
}

// sortedTasks returns a copy sorted by the display order field, ties broken
// by id so rendering is stable.
func sortedTasks(tasks []EngineeringTask) []EngineeringTask {
	out := make([]EngineeringTask, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
