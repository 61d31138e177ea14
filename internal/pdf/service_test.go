package pdf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a3tai/mcp-intake-report/internal/answers"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
	"github.com/a3tai/mcp-intake-report/internal/report"
)

type unreachableTemplates struct{}

func (unreachableTemplates) Fetch(context.Context) (report.Templates, error) {
	return report.Templates{}, errors.New("dial tcp: connection refused")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, templates report.TemplateSource) (*Service, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "reports")

	svc, err := NewService(ServiceConfig{
		Templates:       templates,
		OutputDirectory: dir,
		MaxFileSize:     16 * 1024 * 1024,
		ProductName:     "tech-liability",
		CoverTemplate:   "cover.pdf",
		EndTemplate:     "end.pdf",
		Logger:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, dir
}

func staticTemplates(t *testing.T) report.StaticTemplates {
	return report.StaticTemplates{
		Cover: templatePDF(t, 1, "cover"),
		End:   templatePDF(t, 1, "end"),
	}
}

func sampleAnswers() answers.Record {
	return answers.Record{
		"applicant":  {"company_name": answers.String("Initech")},
		"operations": {"selected_sectors": answers.Choices("robotics")},
	}
}

func TestService_GenerateAndInspect(t *testing.T) {
	svc, dir := newTestService(t, staticTemplates(t))
	submitted := time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC)

	res, err := svc.Generate(context.Background(), ReportGenerateRequest{
		Answers:     sampleAnswers(),
		SubmittedAt: submitted,
		Save:        true,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if res.Filename != "tech-liability-2024-05-01T12-34-56.000Z.pdf" {
		t.Errorf("unexpected filename %s", res.Filename)
	}
	if res.Path != filepath.Join(svc.OutputDirectory(), res.Filename) {
		t.Errorf("unexpected path %s", res.Path)
	}
	if len(res.Contents) != 14 {
		t.Errorf("expected 13 core sections and one supplement, got %d", len(res.Contents))
	}
	if res.Pages.Cover != 1 || res.Pages.End != 1 || res.Pages.TOC < 1 {
		t.Errorf("unexpected page counts %+v", res.Pages)
	}

	stored, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("report not saved: %v", err)
	}
	if len(stored) != res.Size {
		t.Errorf("saved %d bytes, result reports %d", len(stored), res.Size)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".report-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}

	inspected, err := svc.Inspect(ReportInspectRequest{Path: res.Filename})
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if inspected.Pages != res.Pages.Total {
		t.Errorf("inspected %d pages, generated %d", inspected.Pages, res.Pages.Total)
	}
	if !strings.Contains(inspected.PageText[1], report.TOCTitle) {
		t.Errorf("page 2 should be the contents page, got %q", inspected.PageText[1])
	}
	if !strings.Contains(inspected.PageText[len(inspected.PageText)-1], "end page 1") {
		t.Errorf("last page should be the end template")
	}

	listed, err := svc.List(ReportListRequest{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if listed.TotalCount != 1 || listed.Files[0].Name != res.Filename {
		t.Errorf("unexpected listing %+v", listed)
	}
}

func TestService_GenerateWithoutSave(t *testing.T) {
	svc, dir := newTestService(t, staticTemplates(t))

	res, err := svc.Generate(context.Background(), ReportGenerateRequest{Answers: sampleAnswers()})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Path != "" || len(res.Document) == 0 {
		t.Errorf("expected an in-memory document only, path=%q size=%d", res.Path, len(res.Document))
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("output directory should not be created, stat err=%v", err)
	}
}

func TestService_FetchFailureWritesNothing(t *testing.T) {
	svc, dir := newTestService(t, unreachableTemplates{})

	_, err := svc.Generate(context.Background(), ReportGenerateRequest{Answers: sampleAnswers(), Save: true})
	if err == nil {
		t.Fatal("expected Generate to fail")
	}
	if pdferrors.TypeOf(err) != pdferrors.ErrorTypeTemplateFetch {
		t.Errorf("expected a template fetch error, got %v", err)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Errorf("no output should be written on failure, stat err=%v", statErr)
	}
}

func TestService_BadTemplate(t *testing.T) {
	svc, _ := newTestService(t, report.StaticTemplates{
		Cover: []byte("<html>not found</html>"),
		End:   templatePDF(t, 1, "end"),
	})

	_, err := svc.Generate(context.Background(), ReportGenerateRequest{Answers: sampleAnswers()})
	if pdferrors.TypeOf(err) != pdferrors.ErrorTypeTemplateParse {
		t.Errorf("expected a template parse error, got %v", err)
	}
}

func TestService_Sections(t *testing.T) {
	svc, _ := newTestService(t, staticTemplates(t))

	res := svc.Sections(ReportSectionsRequest{Answers: sampleAnswers()})
	if len(res.Sections) != 16 {
		t.Fatalf("expected 16 catalog sections, got %d", len(res.Sections))
	}
	if res.Included != 14 {
		t.Errorf("expected 14 included sections, got %d", res.Included)
	}
	last := res.Sections[15]
	if last.Sector != "robotics" || !last.Included || last.Number != 16 {
		t.Errorf("unexpected robotics supplement %+v", last)
	}
	if res.Sections[13].Included {
		t.Errorf("AI supplement should not be included: %+v", res.Sections[13])
	}
}

func TestService_InspectOutsideDirectory(t *testing.T) {
	svc, _ := newTestService(t, staticTemplates(t))

	if _, err := svc.Inspect(ReportInspectRequest{Path: "../../etc/passwd.pdf"}); err == nil {
		t.Error("expected path traversal to be rejected")
	}
}

func TestService_SaveKeepsExistingReport(t *testing.T) {
	svc, _ := newTestService(t, staticTemplates(t))
	submitted := time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC)
	req := ReportGenerateRequest{Answers: sampleAnswers(), SubmittedAt: submitted, Save: true}

	first, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	second, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}

	if second.Filename != "tech-liability-2024-05-01T12-34-56.000Z-2.pdf" {
		t.Errorf("unexpected filename for the colliding report: %s", second.Filename)
	}
	if second.Path == first.Path {
		t.Fatalf("second report overwrote %s", first.Path)
	}
	for _, res := range []*ReportGenerateResult{first, second} {
		stored, err := os.ReadFile(res.Path)
		if err != nil {
			t.Fatalf("report %s missing: %v", res.Path, err)
		}
		if len(stored) != res.Size {
			t.Errorf("%s holds %d bytes, want %d", res.Path, len(stored), res.Size)
		}
	}
}

func TestNumberedName(t *testing.T) {
	tests := []struct {
		attempt int
		want    string
	}{
		{1, "report.pdf"},
		{2, "report-2.pdf"},
		{10, "report-10.pdf"},
	}
	for _, tt := range tests {
		if got := numberedName("report.pdf", tt.attempt); got != tt.want {
			t.Errorf("numberedName(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}
