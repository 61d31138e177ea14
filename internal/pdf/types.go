package pdf

import (
	"time"

	"github.com/a3tai/mcp-intake-report/internal/answers"
	"github.com/a3tai/mcp-intake-report/internal/report"
)

// FileInfo represents information about a generated report file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ReportGenerateRequest asks for one report to be assembled
type ReportGenerateRequest struct {
	Answers     answers.Record `json:"answers"`
	SubmittedAt time.Time      `json:"submitted_at,omitempty"`
	// Save writes the document into the output directory
	Save bool `json:"save"`
}

// ReportSectionsRequest asks which sections a record would render
type ReportSectionsRequest struct {
	Answers answers.Record `json:"answers,omitempty"`
}

// ReportInspectRequest represents a request to inspect a generated report
type ReportInspectRequest struct {
	Path string `json:"path"`
}

// ReportListRequest represents a request to list generated reports
type ReportListRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// Response Types

// ReportGenerateResult represents a finished report
type ReportGenerateResult struct {
	ID          string              `json:"id"`
	Filename    string              `json:"filename"`
	Path        string              `json:"path,omitempty"`
	Size        int                 `json:"size"`
	SubmittedAt time.Time           `json:"submitted_at"`
	Pages       report.PageCounts   `json:"pages"`
	Contents    []report.TOCEntry   `json:"contents"`
	Records     []report.PageRecord `json:"records"`
	Document    []byte              `json:"-"`
}

// SectionInfo describes one catalog section
type SectionInfo struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Key       string `json:"key"`
	Sector    string `json:"sector,omitempty"`
	Questions int    `json:"questions"`
	Included  bool   `json:"included"`
}

// ReportSectionsResult lists catalog sections in report order
type ReportSectionsResult struct {
	Sections []SectionInfo `json:"sections"`
	Included int           `json:"included"`
}

// ReportInspectResult represents the readable structure of a report
type ReportInspectResult struct {
	Path     string   `json:"path"`
	Size     int64    `json:"size"`
	Pages    int      `json:"pages"`
	Contents []string `json:"contents"`
	PageText []string `json:"page_text,omitempty"`
}

// ReportListResult represents generated reports found in the output directory
type ReportListResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName      string     `json:"server_name"`
	Version         string     `json:"version"`
	ProductName     string     `json:"product_name"`
	OutputDirectory string     `json:"output_directory"`
	CoverTemplate   string     `json:"cover_template"`
	EndTemplate     string     `json:"end_template"`
	SectionCount    int        `json:"section_count"`
	AvailableTools  []ToolInfo `json:"available_tools"`
	RecentReports   []FileInfo `json:"recent_reports"`
	UsageGuidance   string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
