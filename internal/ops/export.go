package ops

import (
	"database/sql"

	"github.com/planforge/planforge/internal/plan"
)

// Export renders a stored plan as markdown.
func Export(database *sql.DB, id int64) (string, error) {
	p, err := Get(database, id)
	if err != nil {
		return "", err
	}
	return plan.Markdown(p), nil
}
