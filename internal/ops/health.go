package ops

import (
	"context"
	"database/sql"
)

// HealthOutput reports component availability.
type HealthOutput struct {
	Database   bool `json:"database"`
	Completion bool `json:"completion"`
}

// Healthy is true when every component is available.
func (h HealthOutput) Healthy() bool {
	return h.Database && h.Completion
}

// Health probes the database and the completion backend. Probe errors are
// reported as unavailability, never returned.
func Health(ctx context.Context, database *sql.DB, gen PlanGenerator) HealthOutput {
	out := HealthOutput{}
	if err := database.PingContext(ctx); err == nil {
		out.Database = true
	}
	out.Completion = gen.CheckConnection(ctx)
	return out
}
