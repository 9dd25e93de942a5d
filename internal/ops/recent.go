package ops

import (
	"database/sql"
	"fmt"

	"github.com/planforge/planforge/internal/db"
	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/plan"
)

// Recent lists the most recently created plans, newest first. A zero limit
// means the default; anything outside 1..MaxRecentLimit is rejected.
func Recent(database *sql.DB, limit int) ([]plan.Summary, error) {
	if limit == 0 {
		limit = DefaultRecentLimit
	}
	if limit < 1 || limit > MaxRecentLimit {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("limit must be between 1 and %d", MaxRecentLimit))
	}
	return db.ListRecent(database, limit)
}
