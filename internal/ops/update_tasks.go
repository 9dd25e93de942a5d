package ops

import (
	"database/sql"
	"strings"

	"github.com/planforge/planforge/internal/db"
	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/plan"
)

// UpdateTasksInput contains parameters for the UpdateTasks operation.
type UpdateTasksInput struct {
	ID               int64
	EngineeringTasks map[string][]plan.EngineeringTask
}

// UpdateTasks replaces a plan's engineering task breakdown wholesale.
// Stories, risks, and created_at are untouched; updated_at advances.
func UpdateTasks(database *sql.DB, input UpdateTasksInput) (*plan.FeaturePlan, error) {
	if input.ID <= 0 {
		return nil, errors.NewInvalidRequest("id must be a positive integer")
	}
	if input.EngineeringTasks == nil {
		return nil, errors.NewInvalidRequest("engineering_tasks is required")
	}
	for category := range input.EngineeringTasks {
		if strings.TrimSpace(category) == "" {
			return nil, errors.NewInvalidRequest("category names must not be empty")
		}
	}
	return db.ReplaceTasks(database, input.ID, input.EngineeringTasks)
}
