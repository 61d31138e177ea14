package pdf

import (
	"fmt"

	"github.com/a3tai/mcp-intake-report/internal/descriptions"
)

// recentReportLimit caps the reports listed by ServerInfo
const recentReportLimit = 10

// ServerInfo returns server configuration and usage guidance
func (s *Service) ServerInfo(serverName, version string) (*ServerInfoResult, error) {
	recent, err := s.search.ListReports(s.outputDir, ReportListRequest{Limit: recentReportLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	c := s.assembler.Catalog()
	return &ServerInfoResult{
		ServerName:      serverName,
		Version:         version,
		ProductName:     s.product,
		OutputDirectory: s.outputDir,
		CoverTemplate:   s.coverTemplate,
		EndTemplate:     s.endTemplate,
		SectionCount:    len(c.Sections) + len(c.Supplements),
		AvailableTools:  availableTools(),
		RecentReports:   recent.Files,
		UsageGuidance:   s.usageGuidance(),
	}, nil
}

func availableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "report_generate",
			Description: descriptions.GetToolDescription("report_generate"),
			Usage:       "Use this tool to build the PDF report from completed form answers.",
			Parameters: "answers (required): JSON object of section answers, " +
				"submitted_at (optional): RFC 3339 submission time, save (optional): write to the output directory (default true)",
		},
		{
			Name:        "report_sections",
			Description: descriptions.GetToolDescription("report_sections"),
			Usage:       "Use this tool to list report sections and preview which supplements apply.",
			Parameters:  "answers (optional): JSON object of section answers",
		},
		{
			Name:        "report_inspect",
			Description: descriptions.GetToolDescription("report_inspect"),
			Usage:       "Use this tool to read back a generated report.",
			Parameters:  "path (required): report path, absolute or relative to the output directory",
		},
		{
			Name:        "report_list",
			Description: descriptions.GetToolDescription("report_list"),
			Usage:       "Use this tool to find generated reports.",
			Parameters:  "query (optional): filename filter, limit (optional): maximum results",
		},
		{
			Name:        "report_server_info",
			Description: descriptions.GetToolDescription("report_server_info"),
			Usage:       "Use this tool to get server configuration and capabilities.",
			Parameters:  "No parameters required",
		},
	}
}

func (s *Service) usageGuidance() string {
	return fmt.Sprintf(`Intake Report Server Usage Guide:

1. PREVIEW:
   - Use 'report_sections' with the answers to see which sections will be rendered

2. GENERATE:
   - Use 'report_generate' with the answers object
   - Reports are written to %s as %s-<timestamp>.pdf

3. VERIFY:
   - Use 'report_list' to find generated reports
   - Use 'report_inspect' to read the table of contents and page text

IMPORTANT NOTES:
- Templates are loaded from %s and %s on every generation
- If templates cannot be fetched, serve them over HTTP or fix the configured paths
- Reports up to %dMB can be inspected`,
		s.outputDir, s.product, s.coverTemplate, s.endTemplate, s.validator.MaxFileSize()/(1024*1024))
}
