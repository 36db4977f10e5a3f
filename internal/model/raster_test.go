package model

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestNewRaster(t *testing.T) {
	t.Parallel()

	t.Run("decodes valid image bytes", func(t *testing.T) {
		t.Parallel()

		data := testPNG(t, 4, 3)
		r, err := NewRaster(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.IsZero() {
			t.Fatal("expected non-zero raster")
		}
		b := r.Bounds()
		if b.Dx() != 4 || b.Dy() != 3 {
			t.Errorf("got bounds %v, expected 4x3", b)
		}
	})

	t.Run("rejects empty bytes", func(t *testing.T) {
		t.Parallel()

		_, err := NewRaster(nil)
		if err == nil {
			t.Fatal("expected error for empty image data")
		}
	})

	t.Run("rejects garbage bytes", func(t *testing.T) {
		t.Parallel()

		_, err := NewRaster([]byte("not an image"))
		if err == nil {
			t.Fatal("expected decode error for garbage bytes")
		}
	})
}

func TestRasterCopy(t *testing.T) {
	t.Parallel()

	data := testPNG(t, 2, 2)
	r, err := NewRaster(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cp := r.Copy()

	// Mutate the copy's encoded bytes; the original must be unaffected.
	cp.encoded[0] ^= 0xFF
	if bytes.Equal(cp.encoded, r.encoded) {
		t.Fatal("expected copy's encoded bytes to be independent of the original")
	}
	if r.encoded[0] == cp.encoded[0] {
		t.Fatal("original encoded bytes were mutated through the copy")
	}
}

func TestRasterCopyOfZeroValue(t *testing.T) {
	t.Parallel()

	var r Raster
	cp := r.Copy()
	if !cp.IsZero() {
		t.Fatal("expected copy of zero-value raster to also be zero-value")
	}
}

func TestRasterEncodePNG(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a decodable image", func(t *testing.T) {
		t.Parallel()

		data := testPNG(t, 5, 5)
		r, err := NewRaster(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out, err := r.EncodePNG()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := png.Decode(bytes.NewReader(out)); err != nil {
			t.Fatalf("re-encoded bytes are not valid PNG: %v", err)
		}
	})

	t.Run("fails for zero-value raster", func(t *testing.T) {
		t.Parallel()

		var r Raster
		if _, err := r.EncodePNG(); err == nil {
			t.Fatal("expected error encoding zero-value raster")
		}
	})
}
