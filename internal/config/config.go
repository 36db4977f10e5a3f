package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is used to namespace XDG directories.
const AppName = "scavenger"

// Default configuration values.
const (
	// DefaultGalleryBaseURL is the gallery the default remote source scrapes.
	DefaultGalleryBaseURL = "https://prnt.sc"

	// DefaultImageBufferSize and DefaultResultBufferSize are the default
	// queue capacities, matching internal/scavenger's own defaults.
	DefaultImageBufferSize  = 16
	DefaultResultBufferSize = 8

	// DefaultCSVFile and DefaultImagesDir are the default sink output
	// locations, relative to the working directory unless BaseDir is set.
	DefaultCSVFile   = "Results.csv"
	DefaultImagesDir = "huntedImages"

	// DefaultRequestsPerSecond and DefaultRateLimitBurst pace the default
	// remote source's outgoing requests.
	DefaultRequestsPerSecond = 2.0
	DefaultRateLimitBurst    = 4

	// DefaultConfigFileName is the YAML file name searched for when no
	// explicit path is given.
	DefaultConfigFileName = ".scavenger.yaml"
)

// Config holds every option the Builder and CLI surface expose, plus the
// ambient settings (base directory, verbosity) that sit outside the
// pipeline itself.
type Config struct {
	// GalleryBaseURL is the base URL for the default remote source's
	// gallery pages.
	GalleryBaseURL string `yaml:"gallery_base_url"`

	// ProxyURL, if set, routes remote downloads through a SOCKS5 proxy.
	ProxyURL string `yaml:"proxy_url"`

	// RequestsPerSecond and RateLimitBurst pace the remote source's
	// outgoing requests.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	RateLimitBurst    int     `yaml:"rate_limit_burst"`

	// DiskSourceDir, when non-empty, replaces the default remote source
	// with a disk source enumerating this directory. Intended for testing
	// and offline replay.
	DiskSourceDir string `yaml:"disk_source_dir"`

	OCREnabled        bool `yaml:"ocr_enabled"`
	HuntingEnabled    bool `yaml:"hunting_enabled"`
	ResultSinkEnabled bool `yaml:"result_sink_enabled"`

	ImageBufferSize  int `yaml:"image_buffer_size"`
	ResultBufferSize int `yaml:"result_buffer_size"`

	// ExtensiveCSV selects the extensive {id, author, details, text} CSV
	// column set instead of the abbreviated {id, author, details} default.
	ExtensiveCSV bool `yaml:"extensive_csv"`

	// UseSQLiteSink additionally persists results to a local sqlite ledger
	// under the resolved base directory (see ResolvedBaseDir), which is the
	// working directory when neither BaseDir nor UseXDGDataHome is set.
	UseSQLiteSink bool `yaml:"use_sqlite_sink"`

	// BaseDir, when set, relocates the CSV file, image directory, and
	// sqlite ledger underneath it instead of the working directory.
	BaseDir string `yaml:"base_dir"`

	// UseXDGDataHome relocates the base directory to the XDG data home
	// when BaseDir itself is left unset.
	UseXDGDataHome bool `yaml:"use_xdg_data_home"`

	// Verbose enables slog.LevelDebug logging; otherwise Info and above.
	Verbose bool `yaml:"verbose"`

	// ConfigFilePath is the explicit YAML file path passed via flag, if
	// any; empty means fall back to FindConfigFile's search.
	ConfigFilePath string `yaml:"-"`
}

// New returns a Config populated with compiled-in defaults.
func New() *Config {
	return &Config{
		GalleryBaseURL:    DefaultGalleryBaseURL,
		RequestsPerSecond: DefaultRequestsPerSecond,
		RateLimitBurst:    DefaultRateLimitBurst,
		OCREnabled:        true,
		HuntingEnabled:    true,
		ResultSinkEnabled: true,
		ImageBufferSize:   DefaultImageBufferSize,
		ResultBufferSize:  DefaultResultBufferSize,
	}
}

// ResolvedBaseDir returns the effective base directory: BaseDir if set,
// the XDG data home if UseXDGDataHome is set, or "" (the working
// directory) otherwise.
func (c *Config) ResolvedBaseDir() string {
	if c.BaseDir != "" {
		return c.BaseDir
	}
	if c.UseXDGDataHome {
		return XDGDataDir()
	}
	return ""
}

// CSVPath returns the resolved path to the CSV output file.
func (c *Config) CSVPath() string {
	return filepath.Join(c.ResolvedBaseDir(), DefaultCSVFile)
}

// ImagesDir returns the resolved path to the flagged-images directory.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.ResolvedBaseDir(), DefaultImagesDir)
}

// XDGDataDir returns the XDG data directory for scavenger.
// On Linux: ~/.local/share/scavenger
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for scavenger.
// On Linux: ~/.config/scavenger
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration for internally inconsistent settings.
func (c *Config) Validate() error {
	if c.ImageBufferSize <= 0 {
		return ErrInvalidImageBufferSize
	}
	if c.ResultBufferSize <= 0 {
		return ErrInvalidResultBufferSize
	}
	if c.RequestsPerSecond <= 0 {
		return ErrInvalidRequestsPerSecond
	}
	if !c.ResultSinkEnabled && (c.ExtensiveCSV || c.UseSQLiteSink) {
		return ErrConflictingSinkOptions
	}
	return nil
}
