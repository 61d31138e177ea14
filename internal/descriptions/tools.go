package descriptions

// Tool descriptions with practical examples and use cases

const (
	ReportGenerateDescription = `Assemble the paginated insurance application report from a set of form answers.

**When to use:** The applicant has finished the intake form and a PDF report is needed for underwriting or download.

**What it produces:** One PDF made of the branded cover (company name and submission time), a table of contents with page numbers, every numbered section of the application with the submitted answers, and the closing page.

**Examples:**
• Generate from answers: "Create the report for the answers in this JSON object"
• Re-issue a report: "Regenerate Initech's application with submitted_at 2024-05-01T12:00:00Z"

**Answer format:** A JSON object keyed by section (applicant, operations, financials, ...), each holding field keys to values. Strings, numbers, arrays of choice values and yes/no booleans are accepted. Missing answers are printed as "Not provided".

**Conditional sections:** The AI, DeFi and Robotics supplements are added when operations.selected_sectors contains ai, defi or robotics.

**Failures:** template-fetch-failed (the cover or end page could not be loaded), template-parse-failed (a template is not a valid PDF), merge-failed, generic-render-failure. No file is written when generation fails.`

	ReportSectionsDescription = `List the numbered sections of the application report.

**When to use:** To see which sections exist, how many questions each holds, or which conditional supplements a given set of answers would add.

**Examples:**
• Catalog overview: "Which sections does the report contain?"
• Check supplements: "Which sections would be included if the applicant selected ai and robotics?"

**Best practices:** Pass the same answers you intend to generate with to preview the table of contents entries.`

	ReportInspectDescription = `Read back a generated report: page count, table of contents entries and page text.

**When to use:** To verify a report that was written to the output directory, or to quote its contents.

**Examples:**
• Verify output: "Inspect acme-2024-05-01T12-34-56.789Z.pdf and list its table of contents"
• Page check: "How many pages does the last generated report have?"

**Best practices:** Paths may be absolute or relative to the output directory; files outside it are rejected.`

	ReportListDescription = `List generated reports in the output directory, newest first.

**When to use:** To find a previously generated report before inspecting or sharing it.

**Examples:**
• Recent reports: "Show the last 5 generated reports"
• Filter by name: "Find reports whose filename contains 2024-05"`

	ReportServerInfoDescription = `Get server configuration, available tools and recent reports.

**When to use:** Start here to learn where templates are loaded from, where reports are written and which tools are available.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"report_generate":    ReportGenerateDescription,
	"report_sections":    ReportSectionsDescription,
	"report_inspect":     ReportInspectDescription,
	"report_list":        ReportListDescription,
	"report_server_info": ReportServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
