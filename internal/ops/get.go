package ops

import (
	"database/sql"

	"github.com/planforge/planforge/internal/db"
	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/plan"
)

// Get fetches a stored plan by id.
func Get(database *sql.DB, id int64) (*plan.FeaturePlan, error) {
	if id <= 0 {
		return nil, errors.NewInvalidRequest("id must be a positive integer")
	}
	return db.GetPlanByID(database, id)
}
