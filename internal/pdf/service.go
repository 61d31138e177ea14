package pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/mcp-intake-report/internal/catalog"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
	"github.com/a3tai/mcp-intake-report/internal/pdf/security"
	"github.com/a3tai/mcp-intake-report/internal/report"
)

// ServiceConfig configures a Service
type ServiceConfig struct {
	Templates       report.TemplateSource
	OutputDirectory string
	MaxFileSize     int64
	ProductName     string
	// CoverTemplate and EndTemplate are the configured locations, reported
	// by ServerInfo.
	CoverTemplate string
	EndTemplate   string
	Logger        *slog.Logger
}

// Service handles report operations by orchestrating the report assembler
// and the PDF components
type Service struct {
	assembler     *report.Assembler
	reader        *Reader
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator

	outputDir     string
	product       string
	coverTemplate string
	endTemplate   string
	log           *slog.Logger
}

// NewAssembler wires a report assembler to the fpdf canvas and the pdfcpu
// engine.
func NewAssembler(templates report.TemplateSource, product string, logger *slog.Logger) (*report.Assembler, error) {
	return report.NewAssembler(report.Config{
		Engine:      NewEngine(""),
		Factory:     NewCanvasFactory(CanvasOptions{Creator: product}),
		Templates:   templates,
		ProductName: product,
		Logger:      logger,
	})
}

// NewService creates a new report service with all components
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ProductName == "" {
		cfg.ProductName = report.DefaultProductName
	}

	pathValidator, err := security.NewPathValidator(cfg.OutputDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	assembler, err := NewAssembler(cfg.Templates, cfg.ProductName, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create report assembler: %w", err)
	}

	return &Service{
		assembler:     assembler,
		reader:        NewReader(cfg.MaxFileSize),
		validator:     NewValidator(cfg.MaxFileSize),
		search:        NewSearch(cfg.MaxFileSize),
		pathValidator: pathValidator,
		outputDir:     pathValidator.GetConfiguredDirectory(),
		product:       cfg.ProductName,
		coverTemplate: cfg.CoverTemplate,
		endTemplate:   cfg.EndTemplate,
		log:           cfg.Logger,
	}, nil
}

// Generate assembles a report and, when requested, saves it to the output
// directory. Nothing is written unless assembly succeeds.
func (s *Service) Generate(ctx context.Context, req ReportGenerateRequest) (*ReportGenerateResult, error) {
	res, err := s.assembler.Assemble(ctx, report.Request{
		Answers:     req.Answers,
		SubmittedAt: req.SubmittedAt,
	})
	if err != nil {
		return nil, err
	}

	out := &ReportGenerateResult{
		ID:          res.ID,
		Filename:    res.Filename,
		Size:        len(res.Document),
		SubmittedAt: res.SubmittedAt,
		Pages:       res.Pages,
		Contents:    res.Contents,
		Records:     res.Records,
		Document:    res.Document,
	}

	if req.Save {
		path, err := s.save(res.Filename, res.Document)
		if err != nil {
			return nil, err
		}
		out.Path = path
		out.Filename = filepath.Base(path)
		s.log.Info("report saved", "report_id", res.ID, "path", path)
	}
	return out, nil
}

// maxSaveAttempts bounds the numbered names tried when a report with the
// same filename already exists
const maxSaveAttempts = 100

// save writes doc atomically under the output directory. An existing report
// is never replaced; the new one gets a numbered name instead.
func (s *Service) save(filename string, doc []byte) (string, error) {
	path, err := s.pathValidator.Resolve(filename)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to create output directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.pdf.tmp")
	if err != nil {
		return "", pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to create report file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return "", pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to write report file", err)
	}
	if err := tmp.Close(); err != nil {
		return "", pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to write report file", err)
	}

	// Link fails when the target exists, so a concurrent save of the same
	// name cannot be overwritten.
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		target := filepath.Join(dir, numberedName(filepath.Base(path), attempt))
		err := os.Link(tmp.Name(), target)
		if err == nil {
			return target, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to move report file into place", err)
		}
	}
	return "", pdferrors.New(pdferrors.ErrorTypeRender, "too many reports share this filename").WithContext(filename)
}

// numberedName returns name for attempt 1 and "<stem>-<attempt><ext>" after
func numberedName(name string, attempt int) string {
	if attempt <= 1 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), attempt, ext)
}

// Sections lists every catalog section in report order and marks the ones
// req.Answers would include.
func (s *Service) Sections(req ReportSectionsRequest) *ReportSectionsResult {
	c := s.assembler.Catalog()

	included := make(map[string]bool)
	for _, spec := range c.Included(req.Answers) {
		included[spec.Key] = true
	}

	var specs []catalog.SectionSpec
	specs = append(specs, c.Sections...)
	for _, sector := range catalog.SectorOrder {
		for _, spec := range c.Supplements {
			if spec.Sector == sector {
				specs = append(specs, spec)
			}
		}
	}

	result := &ReportSectionsResult{Sections: make([]SectionInfo, 0, len(specs))}
	for _, spec := range specs {
		result.Sections = append(result.Sections, SectionInfo{
			Number:    spec.Number,
			Title:     spec.DisplayTitle(),
			Key:       spec.Key,
			Sector:    spec.Sector,
			Questions: len(spec.Questions),
			Included:  included[spec.Key],
		})
		if included[spec.Key] {
			result.Included++
		}
	}
	return result
}

// Inspect reads back a report stored in the output directory
func (s *Service) Inspect(req ReportInspectRequest) (*ReportInspectResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, err
	}
	return s.reader.InspectFile(path)
}

// List returns the generated reports in the output directory
func (s *Service) List(req ReportListRequest) (*ReportListResult, error) {
	return s.search.ListReports(s.outputDir, req)
}

// OutputDirectory returns the directory reports are saved to
func (s *Service) OutputDirectory() string {
	return s.outputDir
}

// ProductName returns the report filename prefix
func (s *Service) ProductName() string {
	return s.product
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.validator.MaxFileSize()
}
