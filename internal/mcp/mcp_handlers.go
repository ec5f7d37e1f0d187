package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/weighttrend/core"
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers. The session
// lives as long as the server, so the store and cached views carry over
// between tool calls.
type toolHandler struct {
	baseCfg *contract.Config
	session *core.Session
}

func newToolHandler(baseCfg *contract.Config, mgr contract.CacheManager) *toolHandler {
	return &toolHandler{baseCfg: baseCfg, session: core.NewSession(baseCfg, mgr)}
}

// parseScrollSteps splits a comma-separated list of signed durations.
func parseScrollSteps(raw string) ([]time.Duration, error) {
	var steps []time.Duration
	for part := range strings.SplitSeq(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		step, err := contract.ParseScrollStep(part)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (h *toolHandler) handleGetFrame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	span := request.GetString("span", "")
	unit := request.GetString("unit", "")
	anchor := request.GetString("anchor", "")
	if err := contract.RevalidateChartState(cfg, span, unit, anchor); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chart parameters: %v", err)), nil
	}
	steps, err := parseScrollSteps(request.GetString("scroll", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chart parameters: %v", err)), nil
	}

	frame, err := h.session.Frame(ctx, cfg, steps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("frame failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(frame, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSeriesSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var only schema.Span
	if raw := request.GetString("span", ""); raw != "" {
		only = schema.Span(strings.ToLower(raw))
		if _, ok := schema.ValidSpans[only]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid span '%s'. must be week, month, year", raw)), nil
		}
	}

	summaries, err := h.session.Summaries(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series summary failed: %v", err)), nil
	}
	if only != "" {
		filtered := summaries[:0]
		for _, s := range summaries {
			if s.Span == only {
				filtered = append(filtered, s)
			}
		}
		summaries = filtered
	}

	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
