package flagger

import (
	"fmt"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/lemon-sec/scavenger/internal/model"
)

// exifTagsOfInterest lists the EXIF tag names this flagger reports on, in
// priority order: GPS coordinates first (most sensitive), then device and
// author identification, then software/timestamp metadata.
var exifTagsOfInterest = []string{
	"GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef",
	"SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber",
	"Artist", "Author", "Copyright", "XPAuthor",
	"Make", "Model",
	"Software", "ProcessingSoftware", "HostComputer",
	"DateTimeOriginal", "DateTimeDigitized", "DateTime",
}

// EXIFFlagger inspects an image's original encoded bytes for EXIF metadata
// that can deanonymize whoever produced the screenshot: GPS coordinates,
// camera/device serial numbers, author or copyright fields, and embedded
// software or timestamps.
type EXIFFlagger struct {
	interesting map[string]bool
	priority    []string
}

// NewEXIFFlagger returns an EXIFFlagger over the default tag list.
func NewEXIFFlagger() *EXIFFlagger {
	interesting := make(map[string]bool, len(exifTagsOfInterest))
	for _, tag := range exifTagsOfInterest {
		interesting[tag] = true
	}
	return &EXIFFlagger{interesting: interesting, priority: exifTagsOfInterest}
}

// ModuleName implements Flagger.
func (f *EXIFFlagger) ModuleName() string {
	return "EXIF"
}

// Flag implements Flagger.
func (f *EXIFFlagger) Flag(_ string, content model.Raster, _ string) (string, bool) {
	if content.IsZero() {
		return "", false
	}

	rawExif, err := exif.SearchAndExtractExif(content.Encoded())
	if err != nil || rawExif == nil {
		return "", false
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return "", false
	}

	// Report the first entry found, in priority order, rather than the
	// first entry in file order: GPS disclosure matters more than a
	// software tag that happens to appear earlier in the container.
	byTag := make(map[string]string, len(entries))
	for _, entry := range entries {
		if f.interesting[entry.TagName] {
			if _, exists := byTag[entry.TagName]; !exists {
				byTag[entry.TagName] = entry.Formatted
			}
		}
	}

	for _, tag := range f.priority {
		if value, ok := byTag[tag]; ok {
			return fmt.Sprintf("%q found in EXIF metadata", tag+": "+value), true
		}
	}
	return "", false
}

var _ Flagger = (*EXIFFlagger)(nil)
