// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// NewMCPServer initializes and configures the weighttrend MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	return newServer(newToolHandler(baseCfg, mgr))
}

// newServer registers the tools of h on a new MCP server.
func newServer(h *toolHandler) *server.MCPServer {
	s := server.NewMCPServer(
		"Weight Trend Server",
		"1.0.0",
		server.WithLogging(),
	)

	// --- 1. Tool: get_frame ---
	s.AddTool(mcp.NewTool("get_frame",
		mcp.WithDescription("Compute the weight and BMI chart frame: gap-split segments of the visible window around an anchor, BMI normalized onto the weight axis."),
		mcp.WithString("span", mcp.Description("Chart span. Defaults to the configured span."), mcp.Enum("week", "month", "year")),
		mcp.WithString("unit", mcp.Description("Weight unit. Defaults to the stored preference."), mcp.Enum("kg", "lb")),
		mcp.WithString("anchor", mcp.Description("Window anchor as RFC3339, YYYY-MM-DD or 'N units ago'. Defaults to the latest sample.")),
		mcp.WithString("scroll", mcp.Description("Comma-separated scroll steps applied after anchoring (e.g., '-2 weeks,+3 days').")),
	), h.handleGetFrame)

	// --- 2. Tool: get_series_summary ---
	s.AddTool(mcp.NewTool("get_series_summary",
		mcp.WithDescription("Summarize the stored weight and BMI series per span: point count, first and last timestamp, value range."),
		mcp.WithString("span", mcp.Description("Only summarize this span."), mcp.Enum("week", "month", "year")),
	), h.handleGetSeriesSummary)

	return s
}

// StartMCPServer starts the weighttrend MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	h := newToolHandler(baseCfg, mgr)
	defer h.session.Close()

	err := server.ServeStdio(newServer(h))
	contract.Logger("mcp").WithFields(logrus.Fields{
		"data_version": h.session.DataVersion(),
		"cached_views": h.session.CachedViews(),
	}).Info("MCP server stopped")
	return err
}
