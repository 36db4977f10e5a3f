package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML overlay shape. Every field is a pointer so the loader
// can distinguish "absent from the file" (leave the compiled-in default
// alone) from "explicitly set to the zero value" (e.g. verbose: false).
type File struct {
	GalleryBaseURL    *string  `yaml:"gallery_base_url"`
	ProxyURL          *string  `yaml:"proxy_url"`
	RequestsPerSecond *float64 `yaml:"requests_per_second"`
	RateLimitBurst    *int     `yaml:"rate_limit_burst"`
	DiskSourceDir     *string  `yaml:"disk_source_dir"`
	OCREnabled        *bool    `yaml:"ocr_enabled"`
	HuntingEnabled    *bool    `yaml:"hunting_enabled"`
	ResultSinkEnabled *bool    `yaml:"result_sink_enabled"`
	ImageBufferSize   *int     `yaml:"image_buffer_size"`
	ResultBufferSize  *int     `yaml:"result_buffer_size"`
	ExtensiveCSV      *bool    `yaml:"extensive_csv"`
	UseSQLiteSink     *bool    `yaml:"use_sqlite_sink"`
	BaseDir           *string  `yaml:"base_dir"`
	UseXDGDataHome    *bool    `yaml:"use_xdg_data_home"`
	Verbose           *bool    `yaml:"verbose"`
}

// LoadConfigFile reads and parses a YAML overlay file. If the file does
// not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ApplyFile overlays every field the file explicitly set onto c, leaving
// fields the file omitted at their prior value.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.GalleryBaseURL != nil {
		c.GalleryBaseURL = *f.GalleryBaseURL
	}
	if f.ProxyURL != nil {
		c.ProxyURL = *f.ProxyURL
	}
	if f.RequestsPerSecond != nil {
		c.RequestsPerSecond = *f.RequestsPerSecond
	}
	if f.RateLimitBurst != nil {
		c.RateLimitBurst = *f.RateLimitBurst
	}
	if f.DiskSourceDir != nil {
		c.DiskSourceDir = *f.DiskSourceDir
	}
	if f.OCREnabled != nil {
		c.OCREnabled = *f.OCREnabled
	}
	if f.HuntingEnabled != nil {
		c.HuntingEnabled = *f.HuntingEnabled
	}
	if f.ResultSinkEnabled != nil {
		c.ResultSinkEnabled = *f.ResultSinkEnabled
	}
	if f.ImageBufferSize != nil {
		c.ImageBufferSize = *f.ImageBufferSize
	}
	if f.ResultBufferSize != nil {
		c.ResultBufferSize = *f.ResultBufferSize
	}
	if f.ExtensiveCSV != nil {
		c.ExtensiveCSV = *f.ExtensiveCSV
	}
	if f.UseSQLiteSink != nil {
		c.UseSQLiteSink = *f.UseSQLiteSink
	}
	if f.BaseDir != nil {
		c.BaseDir = *f.BaseDir
	}
	if f.UseXDGDataHome != nil {
		c.UseXDGDataHome = *f.UseXDGDataHome
	}
	if f.Verbose != nil {
		c.Verbose = *f.Verbose
	}
}

// FindConfigFile searches for the configuration file: an explicit path if
// given, then DefaultConfigFileName in the current directory, then in the
// user's home directory. Returns "" if none is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
