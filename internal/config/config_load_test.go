package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()
}

// loadWithArgs runs LoadFromFlags against args with fresh global state
func loadWithArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
	})

	os.Args = append([]string{"mcp-intake-report"}, args...)
	resetFlags()
	return LoadFromFlags()
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports")

	cfg, err := loadWithArgs(t, "--outputdir="+out)
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Port != 8080 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("LoadFromFlags() FetchTimeout = %v, want %v", cfg.FetchTimeout, DefaultFetchTimeout)
	}
	if !filepath.IsAbs(cfg.TemplateDirectory) {
		t.Errorf("LoadFromFlags() TemplateDirectory should be absolute, got %s", cfg.TemplateDirectory)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output directory should be created: %v", err)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	templates := t.TempDir()
	out := t.TempDir()

	cfg, err := loadWithArgs(t,
		"--mode=server",
		"--host=0.0.0.0",
		"--port=9090",
		"--templatedir="+templates,
		"--covertemplate=https://forms.example.com/cover.pdf",
		"--endtemplate=closing.pdf",
		"--maxtemplatesize=1048576",
		"--fetchtimeout=3s",
		"--outputdir="+out,
		"--product=tech-liability",
		"--loglevel=debug",
		"--maxfilesize=50000000",
	)
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	want := &Config{
		Mode:              "server",
		Host:              "0.0.0.0",
		Port:              9090,
		TemplateDirectory: templates,
		CoverTemplate:     "https://forms.example.com/cover.pdf",
		EndTemplate:       "closing.pdf",
		MaxTemplateSize:   1048576,
		FetchTimeout:      3 * time.Second,
		OutputDirectory:   out,
		ProductName:       "tech-liability",
		LogLevel:          "debug",
		MaxFileSize:       50000000,
	}
	want.Version, want.ServerName = cfg.Version, cfg.ServerName

	if *cfg != *want {
		t.Errorf("LoadFromFlags() = %+v\nwant %+v", cfg, want)
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	out := t.TempDir()
	t.Setenv("INTAKE_REPORT_MODE", "server")
	t.Setenv("INTAKE_REPORT_PORT", "3000")
	t.Setenv("INTAKE_REPORT_COVERTEMPLATE", "http://templates.internal/cover.pdf")
	t.Setenv("INTAKE_REPORT_OUTPUTDIR", out)
	t.Setenv("INTAKE_REPORT_PRODUCT", "acme")
	t.Setenv("INTAKE_REPORT_LOGLEVEL", "warn")
	t.Setenv("INTAKE_REPORT_FETCHTIMEOUT", "250ms")

	cfg, err := loadWithArgs(t)
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" || cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Mode/Port = %v/%v, want server/3000", cfg.Mode, cfg.Port)
	}
	if cfg.CoverTemplate != "http://templates.internal/cover.pdf" {
		t.Errorf("LoadFromFlags() CoverTemplate = %v", cfg.CoverTemplate)
	}
	if cfg.OutputDirectory != out || cfg.ProductName != "acme" {
		t.Errorf("LoadFromFlags() OutputDirectory/ProductName = %v/%v", cfg.OutputDirectory, cfg.ProductName)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want warn", cfg.LogLevel)
	}
	if cfg.FetchTimeout != 250*time.Millisecond {
		t.Errorf("LoadFromFlags() FetchTimeout = %v, want 250ms", cfg.FetchTimeout)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv("INTAKE_REPORT_MODE", "server")
	t.Setenv("INTAKE_REPORT_PRODUCT", "from-env")

	cfg, err := loadWithArgs(t, "--mode=stdio", "--product=from-flag", "--outputdir="+t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Flags should override environment variables
	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, "stdio")
	}
	if cfg.ProductName != "from-flag" {
		t.Errorf("LoadFromFlags() ProductName = %v, want %v (should override env)", cfg.ProductName, "from-flag")
	}
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"mode", []string{"--mode=invalid"}, "mode must be either 'stdio' or 'server'"},
		{"port", []string{"--mode=server", "--port=99999"}, "port must be between 1 and 65535"},
		{"log level", []string{"--loglevel=invalid"}, "invalid log level"},
		{"fetch timeout", []string{"--fetchtimeout=0s"}, "fetch timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--outputdir=" + t.TempDir()}, tt.args...)
			_, err := loadWithArgs(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromFlags() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	_, err := loadWithArgs(t, "--version")
	if !errors.Is(err, ErrVersionRequested) {
		t.Errorf("LoadFromFlags() error = %v, want %v", err, ErrVersionRequested)
	}
}
