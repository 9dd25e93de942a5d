package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/plan"
)

// InsertPlan stores a new feature plan, assigning its id and timestamps.
// The insert is a single statement, so either the full record is durable or
// nothing is; no partially-written plan is ever observable.
func InsertPlan(db *sql.DB, p *plan.FeaturePlan) error {
	usersJSON, err := json.Marshal(p.Users)
	if err != nil {
		return errors.NewInternal(err)
	}
	constraintsJSON, err := json.Marshal(p.Constraints)
	if err != nil {
		return errors.NewInternal(err)
	}
	storiesJSON, err := json.Marshal(p.UserStories)
	if err != nil {
		return errors.NewInternal(err)
	}
	tasksJSON, err := json.Marshal(p.EngineeringTasks)
	if err != nil {
		return errors.NewInternal(err)
	}
	risksJSON, err := json.Marshal(p.Risks)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().UnixMilli()

	query := `
		INSERT INTO feature_plans (
			goal, users_json, constraints_json,
			user_stories_json, engineering_tasks_json, risks_json,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query,
		p.Goal, string(usersJSON), string(constraintsJSON),
		string(storiesJSON), string(tasksJSON), string(risksJSON),
		now, now,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.NewInternal(err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetPlanByID retrieves a plan by its id.
func GetPlanByID(db *sql.DB, id int64) (*plan.FeaturePlan, error) {
	query := `
		SELECT id, goal, users_json, constraints_json,
			user_stories_json, engineering_tasks_json, risks_json,
			created_at, updated_at
		FROM feature_plans
		WHERE id = ?
	`

	row := db.QueryRow(query, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return p, nil
}

// ListRecent returns summaries of the most recently created plans, newest
// first, truncated to limit. Story/task/risk bodies are excluded.
func ListRecent(db *sql.DB, limit int) ([]plan.Summary, error) {
	query := `
		SELECT id, goal, created_at
		FROM feature_plans
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries := make([]plan.Summary, 0, limit)
	for rows.Next() {
		var s plan.Summary
		if err := rows.Scan(&s.ID, &s.Goal, &s.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return summaries, nil
}

// ReplaceTasks overwrites a plan's engineering_tasks wholesale and strictly
// advances updated_at, returning the updated plan. Runs as a single
// transaction: concurrent replacements on the same id serialize and the last
// writer wins, but each write applies wholly or not at all. Returns NotFound
// (with no side effects) if the id does not exist.
func ReplaceTasks(db *sql.DB, id int64, tasks map[string][]plan.EngineeringTask) (*plan.FeaturePlan, error) {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback()

	var prevUpdated int64
	err = tx.QueryRow(`SELECT updated_at FROM feature_plans WHERE id = ?`, id).Scan(&prevUpdated)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	// Strictly advance even under coarse clocks or same-millisecond writes
	now := time.Now().UnixMilli()
	if now <= prevUpdated {
		now = prevUpdated + 1
	}

	_, err = tx.Exec(
		`UPDATE feature_plans SET engineering_tasks_json = ?, updated_at = ? WHERE id = ?`,
		string(tasksJSON), now, id,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	row := tx.QueryRow(`
		SELECT id, goal, users_json, constraints_json,
			user_stories_json, engineering_tasks_json, risks_json,
			created_at, updated_at
		FROM feature_plans
		WHERE id = ?
	`, id)
	p, err := scanPlan(row)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return p, nil
}

// TraceRecord is one persisted generation attempt, kept for debugging model
// output quality. Recording is best-effort and never fails a generation.
type TraceRecord struct {
	ID         string
	Goal       string
	Attempt    int
	Model      string
	DurationMS int64
	Success    bool
	Error      string
	CreatedAt  int64
}

// InsertTrace stores one generation attempt record.
func InsertTrace(db *sql.DB, t *TraceRecord) error {
	query := `
		INSERT INTO generation_traces (
			id, goal, attempt, model, duration_ms, success, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		t.ID, t.Goal, t.Attempt, t.Model, t.DurationMS, t.Success, t.Error, t.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanPlan.
type scanner interface {
	Scan(dest ...any) error
}

// scanPlan scans a full feature_plans row, decoding the JSON-encoded
// sequence and mapping columns. Stored plans round-trip exactly; no
// defaulting happens here.
func scanPlan(row scanner) (*plan.FeaturePlan, error) {
	var p plan.FeaturePlan
	var usersJSON, constraintsJSON, storiesJSON, tasksJSON, risksJSON string

	err := row.Scan(
		&p.ID, &p.Goal, &usersJSON, &constraintsJSON,
		&storiesJSON, &tasksJSON, &risksJSON,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(usersJSON), &p.Users); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(constraintsJSON), &p.Constraints); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(storiesJSON), &p.UserStories); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tasksJSON), &p.EngineeringTasks); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(risksJSON), &p.Risks); err != nil {
		return nil, err
	}

	return &p, nil
}
