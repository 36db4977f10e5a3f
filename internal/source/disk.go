package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lemon-sec/scavenger/internal/model"
)

// imageExtensions lists the file extensions Disk treats as images.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// Disk enumerates a directory of image files at construction and yields
// them in filename order. Used for testing the pipeline without a network
// dependency.
type Disk struct {
	dir     string
	pending []string
	current string
	content model.Raster
	closed  bool
}

// NewDisk enumerates dir and loads the first image. Returns
// ErrNoImageAvailable if the directory contains no recognized image files.
func NewDisk(dir string) (*Disk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("source: reading directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[filepath.Ext(e.Name())] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	d := &Disk{dir: dir, pending: names}
	if err := d.loadNext(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Disk) loadNext() error {
	if len(d.pending) == 0 {
		return fmt.Errorf("source: disk directory %s exhausted: %w", d.dir, ErrNoImageAvailable)
	}
	name := d.pending[0]
	d.pending = d.pending[1:]

	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if err != nil {
		return fmt.Errorf("source: reading %s: %w", name, err)
	}
	raster, err := model.NewRaster(data)
	if err != nil {
		return fmt.Errorf("source: decoding %s: %w", name, err)
	}

	d.current = name
	d.content = raster
	return nil
}

// Next implements Source.
func (d *Disk) Next() error {
	if d.closed {
		return fmt.Errorf("source: disk source shut down: %w", ErrNoImageAvailable)
	}
	return d.loadNext()
}

// CurrentID implements Source.
func (d *Disk) CurrentID() string {
	return d.current
}

// CurrentContent implements Source.
func (d *Disk) CurrentContent() model.Raster {
	return d.content
}

// Shutdown implements Source. Idempotent.
func (d *Disk) Shutdown() {
	d.closed = true
}

var _ Source = (*Disk)(nil)
