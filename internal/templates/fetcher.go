// Package templates loads the cover and end-page PDF templates from local
// files or over HTTP.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/a3tai/mcp-intake-report/internal/pdf"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
	"github.com/a3tai/mcp-intake-report/internal/pdf/security"
	"github.com/a3tai/mcp-intake-report/internal/report"
)

const (
	// DefaultTimeout bounds one template download
	DefaultTimeout = 15 * time.Second
	// DefaultMaxSize is the largest template accepted
	DefaultMaxSize = 20 * 1024 * 1024
)

// Config configures a Fetcher
type Config struct {
	// Directory confines local template paths. Relative paths are resolved
	// against it.
	Directory string
	// Cover and End are file paths or http(s) URLs
	Cover string
	End   string

	MaxSize int64
	Timeout time.Duration
	Client  *http.Client
}

// Fetcher implements report.TemplateSource. Templates are loaded on every
// Fetch so edits take effect without a restart.
type Fetcher struct {
	cover     string
	end       string
	paths     *security.PathValidator
	validator *pdf.Validator
	client    *http.Client
	maxSize   int64
}

var _ report.TemplateSource = (*Fetcher)(nil)

// New creates a Fetcher
func New(cfg Config) (*Fetcher, error) {
	if strings.TrimSpace(cfg.Cover) == "" || strings.TrimSpace(cfg.End) == "" {
		return nil, fmt.Errorf("cover and end templates must both be configured")
	}
	if cfg.Directory == "" {
		cfg.Directory = "."
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}

	paths, err := security.NewPathValidator(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create template path validator: %w", err)
	}

	return &Fetcher{
		cover:     cfg.Cover,
		end:       cfg.End,
		paths:     paths,
		validator: pdf.NewValidator(cfg.MaxSize),
		client:    cfg.Client,
		maxSize:   cfg.MaxSize,
	}, nil
}

// Fetch loads both templates concurrently. Either failing fails the fetch.
func (f *Fetcher) Fetch(ctx context.Context) (report.Templates, error) {
	var tpl report.Templates
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		tpl.Cover, err = f.load(gctx, "cover", f.cover)
		return err
	})
	g.Go(func() error {
		var err error
		tpl.End, err = f.load(gctx, "end page", f.end)
		return err
	})

	if err := g.Wait(); err != nil {
		return report.Templates{}, err
	}
	return tpl, nil
}

func (f *Fetcher) load(ctx context.Context, name, location string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if isURL(location) {
		data, err = f.download(ctx, location)
	} else {
		data, err = f.readFile(location)
	}
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeTemplateFetch, "failed to fetch "+name+" template", err).
			WithContext(location)
	}
	if err := f.validator.ValidateTemplate(name, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (f *Fetcher) readFile(location string) ([]byte, error) {
	path, err := f.paths.Resolve(location)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return f.readLimited(file)
}

func (f *Fetcher) download(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("get template: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return f.readLimited(resp.Body)
}

// readLimited reads at most one byte past the size limit so the validator
// can reject oversized templates
func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return data, nil
}

func isURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
