package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/ops"
	"github.com/planforge/planforge/internal/plan"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	gen    ops.PlanGenerator
	logger *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, gen ops.PlanGenerator, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{db: db, gen: gen, logger: logger}
}

// Request types for each tool

// GenerateRequest represents the arguments for plan_generate.
type GenerateRequest struct {
	Goal        string   `json:"goal"`
	Users       []string `json:"users"`
	Constraints []string `json:"constraints"`
}

// GetRequest represents the arguments for plan_get and plan_export.
type GetRequest struct {
	ID int64 `json:"id"`
}

// RecentRequest represents the arguments for plan_recent.
type RecentRequest struct {
	Limit int `json:"limit,omitempty"`
}

// UpdateTasksRequest represents the arguments for plan_update_tasks.
type UpdateTasksRequest struct {
	ID               int64                             `json:"id"`
	EngineeringTasks map[string][]plan.EngineeringTask `json:"engineering_tasks"`
}

// HandleGenerate handles the plan_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Generate(ctx, h.db, h.gen, h.logger, ops.GenerateInput{
		Goal:        input.Goal,
		Users:       input.Users,
		Constraints: input.Constraints,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the plan_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(h.db, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRecent handles the plan_recent tool call.
func (h *Handlers) HandleRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecentRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Recent(h.db, input.Limit)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"plans": result})
}

// HandleUpdateTasks handles the plan_update_tasks tool call.
func (h *Handlers) HandleUpdateTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateTasksRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateTasks(h.db, ops.UpdateTasksInput{
		ID:               input.ID,
		EngineeringTasks: input.EngineeringTasks,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the plan_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(h.db, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"markdown": result})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if planErr, ok := err.(*errors.PlanError); ok {
		errorObj := map[string]any{
			"code":    planErr.Code,
			"message": planErr.Message,
			"status":  planErr.Status,
		}
		if planErr.Code != errors.ErrInternal && planErr.Details != nil {
			errorObj["details"] = planErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
