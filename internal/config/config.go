package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultMaxFileSize     = 100 * 1024 * 1024 // 100MB
	DefaultMaxTemplateSize = 20 * 1024 * 1024  // 20MB
	DefaultFetchTimeout    = 15 * time.Second
	DefaultCoverTemplate   = "cover.pdf"
	DefaultEndTemplate     = "end.pdf"
	DefaultProductName     = "insurance-application"
	DefaultOutputDirectory = "reports"

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable
	EnvPrefix = "INTAKE_REPORT"
)

// ErrVersionRequested is returned when --version is on the command line
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the intake report server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Template configuration. CoverTemplate and EndTemplate are paths
	// relative to TemplateDirectory, absolute paths inside it, or http(s)
	// URLs.
	TemplateDirectory string
	CoverTemplate     string
	EndTemplate       string
	MaxTemplateSize   int64
	FetchTimeout      time.Duration

	// Report configuration
	OutputDirectory string
	ProductName     string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum report size accepted by inspection
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio, // Default to stdio mode for MCP compatibility
		Host:              DefaultHost,
		Port:              DefaultPort,
		TemplateDirectory: currentDir,
		CoverTemplate:     DefaultCoverTemplate,
		EndTemplate:       DefaultEndTemplate,
		MaxTemplateSize:   DefaultMaxTemplateSize,
		FetchTimeout:      DefaultFetchTimeout,
		OutputDirectory:   filepath.Join(currentDir, DefaultOutputDirectory),
		ProductName:       DefaultProductName,
		Version:           "1.0.0",
		ServerName:        "mcp-intake-report",
		LogLevel:          DefaultLogLevel,
		MaxFileSize:       DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	cfg.TemplateDirectory = absolute(cfg.TemplateDirectory)
	cfg.OutputDirectory = absolute(cfg.OutputDirectory)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func absolute(path string) string {
	if path == "" {
		return path
	}
	if expanded, err := filepath.Abs(path); err == nil {
		return expanded
	}
	return path
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("templatedir", cfg.TemplateDirectory)
	viper.SetDefault("covertemplate", cfg.CoverTemplate)
	viper.SetDefault("endtemplate", cfg.EndTemplate)
	viper.SetDefault("maxtemplatesize", cfg.MaxTemplateSize)
	viper.SetDefault("fetchtimeout", cfg.FetchTimeout)
	viper.SetDefault("outputdir", cfg.OutputDirectory)
	viper.SetDefault("product", cfg.ProductName)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("templatedir", cfg.TemplateDirectory, "Directory containing the report templates")
	pflag.String("covertemplate", cfg.CoverTemplate, "Cover template path or http(s) URL")
	pflag.String("endtemplate", cfg.EndTemplate, "End page template path or http(s) URL")
	pflag.Int64("maxtemplatesize", cfg.MaxTemplateSize, "Maximum template size in bytes")
	pflag.Duration("fetchtimeout", cfg.FetchTimeout, "Timeout for downloading one template")
	pflag.String("outputdir", cfg.OutputDirectory, "Directory generated reports are written to")
	pflag.String("product", cfg.ProductName, "Product name used as the report filename prefix")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum report file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port",
		"templatedir", "covertemplate", "endtemplate", "maxtemplatesize", "fetchtimeout",
		"outputdir", "product", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Intake Report - builds insurance application reports from form answers\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                              "+
			"# stdio mode, templates in the current directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --templatedir=/srv/templates --outputdir=/srv/reports\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --covertemplate=https://forms.example.com/cover.pdf "+
			"# fetch a template over HTTP\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081      # HTTP API on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE             Server mode\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_HOST             Server host\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_PORT             Server port\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_TEMPLATEDIR      Template directory\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_COVERTEMPLATE    Cover template\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_ENDTEMPLATE      End page template\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_MAXTEMPLATESIZE  Maximum template size\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_FETCHTIMEOUT     Template download timeout\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_OUTPUTDIR        Report output directory\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_PRODUCT          Report filename prefix\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGLEVEL         Log level\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_MAXFILESIZE      Maximum report file size\n", EnvPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.TemplateDirectory = viper.GetString("templatedir")
	cfg.CoverTemplate = viper.GetString("covertemplate")
	cfg.EndTemplate = viper.GetString("endtemplate")
	cfg.MaxTemplateSize = viper.GetInt64("maxtemplatesize")
	cfg.FetchTimeout = viper.GetDuration("fetchtimeout")
	cfg.OutputDirectory = viper.GetString("outputdir")
	cfg.ProductName = viper.GetString("product")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid. Templates are not
// required to exist: they are loaded on every generation and a missing one
// is reported then.
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.TemplateDirectory == "" {
		return errors.New("template directory cannot be empty")
	}
	if c.CoverTemplate == "" || c.EndTemplate == "" {
		return errors.New("cover and end templates must both be set")
	}
	if c.MaxTemplateSize <= 0 {
		return errors.New("maximum template size must be positive")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	if c.ProductName == "" {
		return errors.New("product name cannot be empty")
	}

	// Validate output directory, create if it doesn't exist
	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, TemplateDirectory: %s, CoverTemplate: %s, "+
		"EndTemplate: %s, OutputDirectory: %s, ProductName: %s, LogLevel: %s, FetchTimeout: %s}",
		c.Mode, c.Host, c.Port, c.TemplateDirectory, c.CoverTemplate,
		c.EndTemplate, c.OutputDirectory, c.ProductName, c.LogLevel, c.FetchTimeout)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
