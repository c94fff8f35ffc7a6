package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchSolutionsTool defines the search_solutions MCP tool.
var searchSolutionsTool = mcp.NewTool("search_solutions",
	mcp.WithDescription("Search the solution catalog. Returns matching solutions with their area and relevance."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Maximum number of results to return (default 3)"),
	),
	mcp.WithBoolean("include_synthesis",
		mcp.Description("Ask the agent to summarize the results (System3 only)"),
	),
)

// generatePOCTool defines the generate_poc MCP tool.
var generatePOCTool = mcp.NewTool("generate_poc",
	mcp.WithDescription("Generate a proof-of-concept plan for a solution area from a requirements query."),
	mcp.WithString("solution_area",
		mcp.Required(),
		mcp.Description("Solution area, e.g. Containers or Data"),
	),
	mcp.WithString("poc_title",
		mcp.Required(),
		mcp.Description("Title of the POC"),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Requirements the POC should satisfy"),
	),
	mcp.WithNumber("top_results",
		mcp.Description("Number of catalog results to base the POC on (default 5)"),
	),
)

// pocHistoryTool defines the poc_history MCP tool.
var pocHistoryTool = mcp.NewTool("poc_history",
	mcp.WithDescription("List previously generated POCs."),
)

// systemStatusTool defines the system_status MCP tool.
var systemStatusTool = mcp.NewTool("system_status",
	mcp.WithDescription("Check backend health and agent configuration."),
)

// exportSessionTool defines the export_session MCP tool.
var exportSessionTool = mcp.NewTool("export_session",
	mcp.WithDescription("Export the current session document as JSON."),
)
