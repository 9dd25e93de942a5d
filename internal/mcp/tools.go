package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var generateToolDef = mcp.NewTool("plan_generate",
	mcp.WithDescription("Generate a feature plan (user stories, engineering tasks, risks) from a goal, target users, and constraints. The plan is stored and returned with its id."),
	mcp.WithString("goal",
		mcp.Required(),
		mcp.Description("What to build, at most 500 characters"),
	),
	mcp.WithArray("users",
		mcp.Required(),
		mcp.Description("1-10 target user personas"),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithArray("constraints",
		mcp.Required(),
		mcp.Description("1-10 project constraints"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var getToolDef = mcp.NewTool("plan_get",
	mcp.WithDescription("Fetch a stored feature plan by id."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Plan id"),
	),
)

var recentToolDef = mcp.NewTool("plan_recent",
	mcp.WithDescription("List recently created plans, newest first. Returns summaries of id, goal, and created_at."),
	mcp.WithNumber("limit",
		mcp.Description("Number of summaries to return, 1-20 (default 5)"),
	),
)

var updateTasksToolDef = mcp.NewTool("plan_update_tasks",
	mcp.WithDescription("Replace a plan's engineering task breakdown wholesale. Stories and risks are untouched."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Plan id"),
	),
	mcp.WithObject("engineering_tasks",
		mcp.Required(),
		mcp.Description("Map of category name to task array; replaces the existing breakdown entirely"),
	),
)

var exportToolDef = mcp.NewTool("plan_export",
	mcp.WithDescription("Render a stored plan as markdown."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Plan id"),
	),
)
