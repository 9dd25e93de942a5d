package plan

import "strings"

// BuildPrompt turns a validated request into the system instruction and user
// message sent to the completion service. Pure and deterministic: the same
// input always yields the same pair, so retries re-send identical prompts.
func BuildPrompt(goal string, users, constraints []string) (system, user string) {
	var sys strings.Builder
	sys.WriteString("You are an engineering planning assistant. Given a product goal, ")
	sys.WriteString("target user personas, and constraints, produce a feature plan.\n\n")
	sys.WriteString("Respond with a single JSON object with exactly these top-level keys:\n")
	sys.WriteString(`- "user_stories": array of {"title", "description", "acceptance_criteria"} `)
	sys.WriteString("where acceptance_criteria is an array of strings. Include at least 3 user stories.\n")
	sys.WriteString(`- "engineering_tasks": object mapping category name to an array of `)
	sys.WriteString(`{"id", "title", "description", "priority", "estimated_effort", "order"}. `)
	sys.WriteString("Include one array for each of these categories, empty arrays permitted: ")
	sys.WriteString(strings.Join(KnownCategories, ", "))
	sys.WriteString(". Task ids are category-prefixed, e.g. \"FE-001\". ")
	sys.WriteString(`Priority is one of "High", "Medium", "Low". `)
	sys.WriteString("Order is an integer giving the display position within the category.\n")
	sys.WriteString(`- "risks": array of {"risk", "mitigation", "severity"} `)
	sys.WriteString(`where severity is one of "High", "Medium", "Low".` + "\n\n")
	sys.WriteString("Output ONLY the JSON object. No surrounding prose, no markdown code fences.")

	var usr strings.Builder
	usr.WriteString("Goal: ")
	usr.WriteString(goal)
	usr.WriteString("\n\nTarget user personas:\n")
	for _, u := range users {
		usr.WriteString("- ")
		usr.WriteString(u)
		usr.WriteString("\n")
	}
	usr.WriteString("\nConstraints:\n")
	for _, c := range constraints {
		usr.WriteString("- ")
		usr.WriteString(c)
		usr.WriteString("\n")
	}

	return sys.String(), usr.String()
}
