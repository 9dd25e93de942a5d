package plan

// FeaturePlan is the stored aggregate produced by one successful generation.
// Its id is assigned by the database; engineering_tasks is the only field
// that changes after creation.
type FeaturePlan struct {
	// ID is the server-assigned monotonic identifier
	ID int64 `json:"id"`

	// Goal is the product goal the plan was generated for
	Goal string `json:"goal"`

	// Users is the list of target user personas
	Users []string `json:"users"`

	// Constraints is the list of constraints the plan must respect
	Constraints []string `json:"constraints"`

	// UserStories is set once at creation and never mutated afterward
	UserStories []UserStory `json:"user_stories"`

	// EngineeringTasks maps category name to its ordered task list.
	// Replaceable wholesale via the update operation.
	EngineeringTasks map[string][]EngineeringTask `json:"engineering_tasks"`

	// Risks is set once at creation
	Risks []Risk `json:"risks"`

	// CreatedAt is the Unix millisecond timestamp when the plan was stored
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt advances strictly on every task replacement
	UpdatedAt int64 `json:"updated_at"`
}

// UserStory describes one user-facing capability of the planned feature.
type UserStory struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

// EngineeringTask is one unit of implementation work within a category.
type EngineeringTask struct {
	// ID is a short category-prefixed token, e.g. "FE-001"
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Category duplicates the map key the task lives under; kept on the
	// task so callers can reorganize without losing it
	Category string `json:"category,omitempty"`

	// Priority is High, Medium, or Low
	Priority string `json:"priority"`

	// EstimatedEffort is a free-text duration, e.g. "2-3 days"
	EstimatedEffort string `json:"estimated_effort"`

	// Order is the display position within the category. Values need not
	// be contiguous; they only determine sort order.
	Order int `json:"order"`
}

// Risk pairs a project risk with its mitigation.
type Risk struct {
	Risk       string `json:"risk"`
	Mitigation string `json:"mitigation"`

	// Severity is High, Medium, or Low
	Severity string `json:"severity"`
}

// Summary is the list-view projection of a plan: identity and goal only,
// without the story/task/risk bodies.
type Summary struct {
	ID        int64  `json:"id"`
	Goal      string `json:"goal"`
	CreatedAt int64  `json:"created_at"`
}

// KnownCategories are the task categories the prompt asks the model to fill.
// The mapping is open-ended: plans may carry additional categories.
var KnownCategories = []string{"Frontend", "Backend", "Database", "Infrastructure"}
