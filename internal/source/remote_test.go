package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestRecordFailureWarnsEveryFailureWarnEveryFailures(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	r := &Remote{cfg: RemoteConfig{FailureWarnEvery: 5, Logger: logger}}

	for i := 0; i < 11; i++ {
		r.recordFailure("000000", errors.New("boom"))
	}

	got := strings.Count(logs.String(), "rate limit suspected")
	if got != 2 {
		t.Fatalf("got %d warnings for 11 consecutive failures, want 2 (at 5 and 10)", got)
	}
}

func TestRecordFailureResetsOnSuccess(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	r := &Remote{cfg: RemoteConfig{FailureWarnEvery: 5, Logger: logger}}

	for i := 0; i < 4; i++ {
		r.recordFailure("000000", errors.New("boom"))
	}
	r.consecutiveFailures.Store(0)
	for i := 0; i < 4; i++ {
		r.recordFailure("000000", errors.New("boom"))
	}

	if strings.Contains(logs.String(), "rate limit suspected") {
		t.Errorf("did not expect a warning after the counter was reset below threshold twice")
	}
}

// testGallery serves a minimal gallery: GET /<id> returns an HTML page
// pointing at /images/<id>.png, and GET /images/<id>.png returns a tiny
// valid PNG.
func testGallery(t *testing.T) *httptest.Server {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{B: 1, A: 255})
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/images/", func(w http.ResponseWriter, req *http.Request) {
		w.Write(pngBuf.Bytes())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/")
		fmt.Fprintf(w, `<html><body><img id="screenshot-image" src="/images/%s.png"></body></html>`, id)
	})
	return httptest.NewServer(mux)
}

func TestRemoteFetchesFirstImageOnConstruction(t *testing.T) {
	t.Parallel()

	server := testGallery(t)
	defer server.Close()

	r, err := NewRemote(RemoteConfig{
		GalleryBaseURL:    server.URL,
		RequestsPerSecond: 1000,
		RateLimitBurst:    1000,
		NextTimeout:       5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	defer r.Shutdown()

	if r.CurrentID() == "" {
		t.Fatalf("expected a non-empty first id")
	}
	if _, err := strconv.ParseInt(r.CurrentID(), 36, 64); err != nil {
		t.Errorf("current id %q is not a valid base-36 id: %v", r.CurrentID(), err)
	}
	if r.CurrentContent().IsZero() {
		t.Errorf("expected a decoded raster for the first image")
	}
}

func TestRemoteNextAdvances(t *testing.T) {
	t.Parallel()

	server := testGallery(t)
	defer server.Close()

	r, err := NewRemote(RemoteConfig{
		GalleryBaseURL:    server.URL,
		RequestsPerSecond: 1000,
		RateLimitBurst:    1000,
		NextTimeout:       5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	defer r.Shutdown()

	first := r.CurrentID()
	if err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r.CurrentID() == first {
		t.Errorf("expected CurrentID to change after Next, stayed %q", first)
	}
}

func TestRemoteNextAfterShutdown(t *testing.T) {
	t.Parallel()

	server := testGallery(t)
	defer server.Close()

	r, err := NewRemote(RemoteConfig{
		GalleryBaseURL:    server.URL,
		RequestsPerSecond: 1000,
		RateLimitBurst:    1000,
		NextTimeout:       5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	r.Shutdown()

	if err := r.Next(); !errors.Is(err, ErrNoImageAvailable) {
		t.Fatalf("got %v, want ErrNoImageAvailable after shutdown", err)
	}
}

func TestRemoteConstructionTimesOutWithoutAGallery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewRemote(RemoteConfig{
		GalleryBaseURL:    server.URL,
		RequestsPerSecond: 1000,
		RateLimitBurst:    1000,
		NextTimeout:       200 * time.Millisecond,
	})
	if !errors.Is(err, ErrNoImageAvailable) {
		t.Fatalf("got %v, want ErrNoImageAvailable", err)
	}
}
