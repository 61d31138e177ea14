package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-intake-report/internal/answers"
	"github.com/a3tai/mcp-intake-report/internal/config"
	"github.com/a3tai/mcp-intake-report/internal/descriptions"
	"github.com/a3tai/mcp-intake-report/internal/pdf"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	log        *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger *slog.Logger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		log:        logger,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	reportGenerateTool := mcp.NewTool(
		"report_generate",
		mcp.WithDescription(descriptions.GetToolDescription("report_generate")),
		mcp.WithString("answers",
			mcp.Required(),
			mcp.Description("JSON object of form answers keyed by section, then question key"),
		),
		mcp.WithString("submitted_at",
			mcp.Description("RFC 3339 submission time (defaults to now)"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Write the report to the output directory (default true)"),
		),
	)
	s.mcpServer.AddTool(reportGenerateTool, s.handleReportGenerate)

	reportSectionsTool := mcp.NewTool(
		"report_sections",
		mcp.WithDescription(descriptions.GetToolDescription("report_sections")),
		mcp.WithString("answers",
			mcp.Description("Optional JSON object of form answers used to preview included sections"),
		),
	)
	s.mcpServer.AddTool(reportSectionsTool, s.handleReportSections)

	reportInspectTool := mcp.NewTool(
		"report_inspect",
		mcp.WithDescription(descriptions.GetToolDescription("report_inspect")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Report path, absolute or relative to the output directory"),
		),
	)
	s.mcpServer.AddTool(reportInspectTool, s.handleReportInspect)

	reportListTool := mcp.NewTool(
		"report_list",
		mcp.WithDescription(descriptions.GetToolDescription("report_list")),
		mcp.WithString("query",
			mcp.Description("Optional filename filter"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of reports to return"),
		),
	)
	s.mcpServer.AddTool(reportListTool, s.handleReportList)

	reportServerInfoTool := mcp.NewTool(
		"report_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("report_server_info")),
	)
	s.mcpServer.AddTool(reportServerInfoTool, s.handleReportServerInfo)
}

// Handler functions
func (s *Server) handleReportGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	record, err := decodeAnswers(args["answers"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if record == nil {
		return mcp.NewToolResultError("answers is required"), nil
	}

	req := pdf.ReportGenerateRequest{Answers: record, Save: true}
	if v, ok := args["submitted_at"].(string); ok && v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("submitted_at must be RFC 3339: %v", err)), nil
		}
		req.SubmittedAt = t
	}
	if v, ok := args["save"].(bool); ok {
		req.Save = v
	}

	result, err := s.pdfService.Generate(ctx, req)
	if err != nil {
		s.log.Error("report generation failed", "error", err)
		return mcp.NewToolResultError(formatError(err)), nil
	}

	return mcp.NewToolResultText(s.formatReportGenerateResult(result)), nil
}

func (s *Server) handleReportSections(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := decodeAnswers(request.GetArguments()["answers"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.pdfService.Sections(pdf.ReportSectionsRequest{Answers: record})
	return mcp.NewToolResultText(s.formatReportSectionsResult(result)), nil
}

func (s *Server) handleReportInspect(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.Inspect(pdf.ReportInspectRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatReportInspectResult(result)), nil
}

func (s *Server) handleReportList(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := pdf.ReportListRequest{}
	if q, ok := args["query"].(string); ok {
		req.Query = q
	}
	if limit, ok := args["limit"].(float64); ok && limit > 0 {
		req.Limit = int(limit)
	}

	result, err := s.pdfService.List(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatReportListResult(result)), nil
}

func (s *Server) handleReportServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatReportServerInfoResult(result)), nil
}

// decodeAnswers accepts the answers argument as a JSON string or an
// already decoded object. A missing argument yields a nil record.
func decodeAnswers(raw any) (answers.Record, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		data = []byte(v)
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, fmt.Errorf("answers must be a JSON object: %w", err)
		}
	}

	record, err := answers.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("answers must be a JSON object: %w", err)
	}
	return record, nil
}

// formatError renders a generation failure with its remediation hint
func formatError(err error) string {
	re, ok := pdferrors.As(err)
	if !ok {
		return err.Error()
	}
	text := err.Error()
	if re.Phase != "" {
		text += fmt.Sprintf(" (phase: %s)", re.Phase)
	}
	return text + "\n\n" + re.Type.Guidance()
}

// Formatting functions
func (s *Server) formatReportGenerateResult(result *pdf.ReportGenerateResult) string {
	text := fmt.Sprintf("Generated report: %s\n", result.Filename)
	text += fmt.Sprintf("Report ID: %s\n", result.ID)
	if result.Path != "" {
		text += fmt.Sprintf("Saved to: %s\n", result.Path)
	}
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Submitted: %s\n", result.SubmittedAt.Format(time.RFC3339))
	text += fmt.Sprintf("Pages: %d (cover %d, contents %d, sections %d, end %d)\n",
		result.Pages.Total, result.Pages.Cover, result.Pages.TOC, result.Pages.Content, result.Pages.End)

	text += "\nTable of Contents:\n"
	for _, entry := range result.Contents {
		text += fmt.Sprintf("  %s ... %d\n", entry.Title, entry.Page)
	}
	return text
}

func (s *Server) formatReportSectionsResult(result *pdf.ReportSectionsResult) string {
	text := fmt.Sprintf("Report sections (%d of %d included):\n", result.Included, len(result.Sections))
	for _, section := range result.Sections {
		mark := " "
		if section.Included {
			mark = "x"
		}
		text += fmt.Sprintf("  [%s] %s (%d questions)", mark, section.Title, section.Questions)
		if section.Sector != "" {
			text += fmt.Sprintf(" - %s sector", section.Sector)
		}
		text += "\n"
	}
	return text
}

func (s *Server) formatReportInspectResult(result *pdf.ReportInspectResult) string {
	text := fmt.Sprintf("Report: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)

	if len(result.Contents) > 0 {
		text += "\nTable of Contents:\n"
		for _, line := range result.Contents {
			text += "  " + line + "\n"
		}
	} else {
		text += "\nNo table of contents found.\n"
	}

	for i, page := range result.PageText {
		text += fmt.Sprintf("\n--- Page %d ---\n%s\n", i+1, strings.TrimSpace(page))
	}
	return text
}

func (s *Server) formatReportListResult(result *pdf.ReportListResult) string {
	text := fmt.Sprintf("Found %d reports in %s", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf(" matching '%s'", result.SearchQuery)
	}
	text += "\n\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s (%d bytes, %s)\n", i+1, file.Name, file.Size, file.ModifiedTime)
	}
	if len(result.Files) < result.TotalCount {
		text += fmt.Sprintf("... and %d more\n", result.TotalCount-len(result.Files))
	}
	return text
}

func (s *Server) formatReportServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📄 Product: %s (%d catalog sections)\n", result.ProductName, result.SectionCount)
	text += fmt.Sprintf("🖼️  Cover template: %s\n", result.CoverTemplate)
	text += fmt.Sprintf("🖼️  End template: %s\n", result.EndTemplate)
	text += fmt.Sprintf("📁 Output Directory: %s\n\n", result.OutputDirectory)

	if len(result.RecentReports) > 0 {
		text += fmt.Sprintf("📂 Recent Reports (%d):\n", len(result.RecentReports))
		for i, file := range result.RecentReports {
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Recent Reports: none generated yet\n\n"
	}

	// Available tools
	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	// Usage guidance
	text += "\n" + result.UsageGuidance

	return text
}

// Run serves MCP over standard I/O until stdin closes or the process is
// signalled
func (s *Server) Run(_ context.Context) error {
	s.log.Debug("starting MCP server in stdio mode",
		"output_dir", s.pdfService.OutputDirectory(),
		"cover_template", s.config.CoverTemplate,
		"end_template", s.config.EndTemplate)

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
