package plan

import (
	"strings"
	"testing"
)

func TestBuildPrompt_Deterministic(t *testing.T) {
	users := []string{"developer", "designer"}
	constraints := []string{"offline-first", "GDPR"}

	sys1, usr1 := BuildPrompt("add export", users, constraints)
	sys2, usr2 := BuildPrompt("add export", users, constraints)

	if sys1 != sys2 || usr1 != usr2 {
		t.Fatal("BuildPrompt is not deterministic")
	}
}

func TestBuildPrompt_SystemShape(t *testing.T) {
	sys, _ := BuildPrompt("add export", []string{"dev"}, []string{"none"})

	for _, key := range []string{"user_stories", "engineering_tasks", "risks"} {
		if !strings.Contains(sys, key) {
			t.Errorf("system prompt missing required key %q", key)
		}
	}
	for _, cat := range KnownCategories {
		if !strings.Contains(sys, cat) {
			t.Errorf("system prompt missing category %q", cat)
		}
	}
	if !strings.Contains(sys, "at least 3 user stories") {
		t.Error("system prompt missing minimum story count")
	}
	if !strings.Contains(sys, "ONLY the JSON") {
		t.Error("system prompt missing JSON-only instruction")
	}
}

func TestBuildPrompt_UserMessage(t *testing.T) {
	_, usr := BuildPrompt("add CSV export", []string{"analyst", "admin"}, []string{"30 day deadline"})

	if !strings.Contains(usr, "Goal: add CSV export") {
		t.Error("user message missing goal")
	}
	if !strings.Contains(usr, "- analyst\n") || !strings.Contains(usr, "- admin\n") {
		t.Error("user message should list each persona on its own line")
	}
	if !strings.Contains(usr, "- 30 day deadline\n") {
		t.Error("user message should list each constraint on its own line")
	}
}
