// Package model holds the small value types passed between scavenger pipeline
// stages: the decoded-and-encoded image (Raster), the record handed from the
// image stage to the hunting stage (ImageRecord), and the record handed from
// the hunting stage to the client (Result).
package model

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmptyImage is returned by NewRaster when given zero bytes.
var ErrEmptyImage = errors.New("model: empty image data")

// Raster is this repository's in-memory image representation. It pairs the
// originally-encoded bytes with the decoded pixels because two different
// downstream consumers need two different shapes of the same image: the OCR
// adapter needs a file path to hand to Tesseract, and the EXIF flagger needs
// the original encoded bytes (EXIF metadata lives in the container, not in
// decoded pixels).
type Raster struct {
	encoded []byte
	decoded image.Image
}

// NewRaster decodes encoded and returns a Raster. The supplied bytes are retained
// (not copied) as the encoded form; callers that mutate their slice after
// calling NewRaster must use Copy first.
func NewRaster(encoded []byte) (Raster, error) {
	if len(encoded) == 0 {
		return Raster{}, ErrEmptyImage
	}
	decoded, err := imaging.Decode(bytes.NewReader(encoded))
	if err != nil {
		return Raster{}, err
	}
	return Raster{encoded: encoded, decoded: decoded}, nil
}

// Encoded returns the original encoded image bytes.
func (r Raster) Encoded() []byte {
	return r.encoded
}

// Decoded returns the decoded image.
func (r Raster) Decoded() image.Image {
	return r.decoded
}

// Bounds reports the pixel dimensions of the decoded image.
func (r Raster) Bounds() image.Rectangle {
	if r.decoded == nil {
		return image.Rectangle{}
	}
	return r.decoded.Bounds()
}

// IsZero reports whether r holds no image data.
func (r Raster) IsZero() bool {
	return r.decoded == nil
}

// Copy returns a defensive deep copy of r: a fresh encoded byte slice and a
// freshly cloned decoded image, so that mutating either the returned bytes
// or the returned image never affects r or any other copy taken from it.
func (r Raster) Copy() Raster {
	if r.IsZero() {
		return Raster{}
	}
	encodedCopy := make([]byte, len(r.encoded))
	copy(encodedCopy, r.encoded)
	return Raster{
		encoded: encodedCopy,
		decoded: imaging.Clone(r.decoded),
	}
}

// EncodePNG re-encodes the decoded image as PNG, regardless of the original
// encoding. Used by result sinks that persist flagged images as PNG files.
func (r Raster) EncodePNG() ([]byte, error) {
	if r.IsZero() {
		return nil, ErrEmptyImage
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.decoded, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
