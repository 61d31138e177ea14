package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-intake-report/internal/answers"
	"github.com/a3tai/mcp-intake-report/internal/config"
	"github.com/a3tai/mcp-intake-report/internal/pdf"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
	"github.com/a3tai/mcp-intake-report/internal/templates"
)

type options struct {
	answersPath   string
	outputDir     string
	templateDir   string
	coverTemplate string
	endTemplate   string
	product       string
	submittedAt   string
	timeout       time.Duration
	format        string
	verify        bool
	verbose       bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("render_report", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.answersPath, "answers", "", "Answer record JSON file ('-' reads stdin)")
	fs.StringVar(&opts.outputDir, "out", config.DefaultOutputDirectory, "Directory the report is written to")
	fs.StringVar(&opts.templateDir, "templatedir", ".", "Directory containing the report templates")
	fs.StringVar(&opts.coverTemplate, "cover", config.DefaultCoverTemplate, "Cover template path or http(s) URL")
	fs.StringVar(&opts.endTemplate, "end", config.DefaultEndTemplate, "End page template path or http(s) URL")
	fs.StringVar(&opts.product, "product", config.DefaultProductName, "Product name used as the filename prefix")
	fs.StringVar(&opts.submittedAt, "submitted-at", "", "RFC 3339 submission time (defaults to now)")
	fs.DurationVar(&opts.timeout, "timeout", config.DefaultFetchTimeout, "Template download timeout")
	fs.StringVar(&opts.format, "format", "text", "Output format: text, json")
	fs.BoolVar(&opts.verify, "verify", false, "Read the written report back and print its contents page")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log assembly phases to stderr")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "render_report - build an insurance application report from a JSON answer record\n\n")
		fmt.Fprintf(stderr, "USAGE:\n  render_report --answers answers.json [options]\n\nOPTIONS:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.answersPath == "" {
		fs.Usage()
		return nil, fmt.Errorf("--answers is required")
	}
	if opts.format != "text" && opts.format != "json" {
		return nil, fmt.Errorf("unsupported format: %s", opts.format)
	}
	return opts, nil
}

func readAnswers(path string, stdin io.Reader) (answers.Record, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	record, err := answers.Decode(r)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeInvalidInput, "failed to decode answers", err)
	}
	return record, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	record, err := readAnswers(opts.answersPath, stdin)
	if err != nil {
		return err
	}

	req := pdf.ReportGenerateRequest{Answers: record, Save: true}
	if opts.submittedAt != "" {
		if req.SubmittedAt, err = time.Parse(time.RFC3339, opts.submittedAt); err != nil {
			return fmt.Errorf("--submitted-at must be RFC 3339: %w", err)
		}
	}

	fetcher, err := templates.New(templates.Config{
		Directory: opts.templateDir,
		Cover:     opts.coverTemplate,
		End:       opts.endTemplate,
		Timeout:   opts.timeout,
	})
	if err != nil {
		return err
	}

	svc, err := pdf.NewService(pdf.ServiceConfig{
		Templates:       fetcher,
		OutputDirectory: opts.outputDir,
		MaxFileSize:     config.DefaultMaxFileSize,
		ProductName:     opts.product,
		CoverTemplate:   opts.coverTemplate,
		EndTemplate:     opts.endTemplate,
		Logger:          log,
	})
	if err != nil {
		return err
	}

	result, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	var inspected *pdf.ReportInspectResult
	if opts.verify {
		if inspected, err = svc.Inspect(pdf.ReportInspectRequest{Path: result.Path}); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		if inspected.Pages != result.Pages.Total {
			return pdferrors.New(pdferrors.ErrorTypeDataConsistency, "written report has an unexpected page count").
				WithContext(fmt.Sprintf("%d pages, expected %d", inspected.Pages, result.Pages.Total))
		}
	}

	return outputResults(stdout, opts.format, result, inspected)
}

func outputResults(w io.Writer, format string, result *pdf.ReportGenerateResult, inspected *pdf.ReportInspectResult) error {
	if format == "json" {
		out := struct {
			*pdf.ReportGenerateResult
			Verified []string `json:"verified_contents,omitempty"`
		}{ReportGenerateResult: result}
		if inspected != nil {
			out.Verified = inspected.Contents
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "Report written: %s\n", result.Path)
	fmt.Fprintf(w, "Pages: %d (cover %d, contents %d, sections %d, end %d)\n",
		result.Pages.Total, result.Pages.Cover, result.Pages.TOC, result.Pages.Content, result.Pages.End)
	fmt.Fprintln(w, "Contents:")
	for _, e := range result.Contents {
		fmt.Fprintf(w, "  %-48s %3d\n", e.Title, e.Page)
	}
	if inspected != nil {
		fmt.Fprintf(w, "Verified: %d pages, %d contents lines read back\n", inspected.Pages, len(inspected.Contents))
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if re, ok := pdferrors.As(err); ok {
			fmt.Fprintf(os.Stderr, "%s\n", re.Type.Guidance())
		}
		os.Exit(1)
	}
}
