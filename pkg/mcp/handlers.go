package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/storylens/pkg/utils"
)

// handleSummarizeArticle handles the summarize_article tool
func (s *Server) handleSummarizeArticle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	urlStr := request.GetString("url", "")
	if urlStr == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}

	startTime := time.Now()
	record, err := s.cfg.Pipeline.Run(ctx, urlStr)
	if err != nil {
		return s.toolError("summarize_article", urlStr, err), nil
	}

	s.log.WithFields(logrus.Fields{"url": urlStr, "duration": time.Since(startTime)}).Info("summarize_article completed")
	return mcp.NewToolResultText(formatJSON(record)), nil
}

// handleExtractArticle handles the extract_article tool
func (s *Server) handleExtractArticle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	urlStr := request.GetString("url", "")
	if urlStr == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}

	startTime := time.Now()
	extracted, err := s.cfg.Pipeline.Extract(ctx, urlStr)
	if err != nil {
		return s.toolError("extract_article", urlStr, err), nil
	}

	result := map[string]interface{}{
		"url":            extracted.URL,
		"final_url":      extracted.FinalURL,
		"title":          extracted.Content.Title,
		"source":         extracted.Content.InferredSource,
		"metadata":       extracted.Metadata,
		"fallback":       extracted.Fallback,
		"content":        extracted.Markdown,
		"content_length": len(extracted.Markdown),
		"fetch_time_ms":  time.Since(startTime).Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleHealth handles the health tool
func (s *Server) handleHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(s.cfg.Pipeline.Health())), nil
}

// toolError reports a pipeline failure to the client with the same wording the HTTP API uses.
func (s *Server) toolError(tool, urlStr string, err error) *mcp.CallToolResult {
	category := utils.CategorizeError(err)
	s.log.WithFields(logrus.Fields{"tool": tool, "url": urlStr, "category": category}).WithError(err).Warn("Tool call failed")
	return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", utils.PublicMessage(err), category))
}

// formatJSON formats data as indented JSON string
func formatJSON(data any) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}", err.Error())
	}
	return string(b)
}
