package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lemon-sec/scavenger/internal/idcursor"
	"github.com/lemon-sec/scavenger/internal/model"
)

// Default tuning constants for the batched downloader, matching the
// reference implementation's fixed constants.
const (
	DefaultWorkers             = 2
	DefaultLowWaterMark        = 8
	DefaultBatchSize           = 4
	DefaultFailureWarnEvery    = 5
	DefaultBufferCapacity      = 16
	DefaultConnectTimeout      = 1500 * time.Millisecond
	DefaultReadTimeout         = 10 * time.Second
	DefaultNextTimeout         = 10 * time.Second
	DefaultRequestsPerSecond   = 2.0
	DefaultRateLimitBurst      = 4
	DefaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	defaultImageAttrName       = "id"
	defaultImageAttrValue      = "screenshot-image"
	defaultImageSrcAttr        = "src"

	// DefaultGalleryBaseURL is the gallery this source scrapes when no
	// other base URL is configured.
	DefaultGalleryBaseURL = "https://prnt.sc"
)

// downloadedImage is one successfully fetched (id, raster) pair, queued for
// delivery to the pipeline's image stage.
type downloadedImage struct {
	id      string
	content model.Raster
}

// RemoteConfig configures the default remote gallery source.
type RemoteConfig struct {
	GalleryBaseURL string // e.g. "https://example-gallery.onion"
	ImageAttrName  string // HTML attribute identifying the image element, default "id"
	ImageAttrValue string // expected value of ImageAttrName
	ImageSrcAttr   string // attribute carrying the image URL, default "src"
	UserAgent      string
	Seed           string // initial IdCursor seed; "" uses the cursor's own default

	Workers          int
	LowWaterMark     int
	BatchSize        int
	FailureWarnEvery int
	BufferCapacity   int
	ConnectTimeout   time.Duration
	ReadTimeout      time.Duration
	NextTimeout      time.Duration

	RequestsPerSecond float64
	RateLimitBurst    int

	// ProxyURL, if set, routes downloads through a SOCKS5 proxy (e.g. a
	// local Tor client) instead of dialing directly.
	ProxyURL string

	Logger *slog.Logger
}

// withDefaults returns a copy of cfg with zero-valued fields replaced by
// documented defaults.
func (cfg RemoteConfig) withDefaults() RemoteConfig {
	if cfg.GalleryBaseURL == "" {
		cfg.GalleryBaseURL = DefaultGalleryBaseURL
	}
	if cfg.ImageAttrName == "" {
		cfg.ImageAttrName = defaultImageAttrName
	}
	if cfg.ImageAttrValue == "" {
		cfg.ImageAttrValue = defaultImageAttrValue
	}
	if cfg.ImageSrcAttr == "" {
		cfg.ImageSrcAttr = defaultImageSrcAttr
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.LowWaterMark <= 0 {
		cfg.LowWaterMark = DefaultLowWaterMark
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FailureWarnEvery <= 0 {
		cfg.FailureWarnEvery = DefaultFailureWarnEvery
	}
	if cfg.BufferCapacity <= 0 {
		cfg.BufferCapacity = DefaultBufferCapacity
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.NextTimeout <= 0 {
		cfg.NextTimeout = DefaultNextTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = DefaultRateLimitBurst
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// Remote is the default source: it feeds from a public screenshot gallery
// addressed by 6-character base-36 identifiers, using a concurrent batched
// downloader bounded by a fixed-size worker pool.
//
// Remote's internal worker pool runs on its own goroutines and contends on
// the buffer channel and the consecutive-failure counter; that contention
// is expected and does not violate the pipeline's thread-confinement rule,
// which only constrains which external goroutine calls Next/CurrentID/
// CurrentContent/Shutdown (exactly the image stage, for Remote's lifetime).
type Remote struct {
	cfg    RemoteConfig
	client *http.Client
	limiter *rate.Limiter

	cursorMu sync.Mutex
	cursor   *idcursor.Cursor

	buffer chan downloadedImage

	consecutiveFailures atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	current downloadedImage
	closed  atomic.Bool
}

// NewRemote constructs a Remote source, starts its batched downloader, and
// blocks until at least one image is available (or the construction-time
// bounded wait expires), satisfying the "initialized with a valid first
// image" contract.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	cfg = cfg.withDefaults()

	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
	}
	if cfg.ProxyURL != "" {
		dialer, err := proxyDialer(cfg.ProxyURL, cfg.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("source: configuring proxy: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.Workers)

	r := &Remote{
		cfg:     cfg,
		client:  &http.Client{Transport: transport, Timeout: cfg.ConnectTimeout + cfg.ReadTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RateLimitBurst),
		cursor:  idcursor.New(cfg.Seed),
		buffer:  make(chan downloadedImage, cfg.BufferCapacity),
		ctx:     groupCtx,
		cancel:  cancel,
		group:   group,
	}

	r.triggerBatch()

	if err := r.take(); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

// proxyDialer builds a SOCKS5 dialer from a proxy URL such as
// "socks5://127.0.0.1:9050" or from a bare "host:port" address. Only the
// URL's host and port are used; credentials in the URL are not sent.
func proxyDialer(proxyURL string, timeout time.Duration) (proxy.Dialer, error) {
	addr := proxyURL
	if u, err := url.Parse(proxyURL); err == nil && u.Host != "" {
		addr = u.Host
	}
	return proxy.SOCKS5("tcp", addr, nil, &net.Dialer{Timeout: timeout})
}

// triggerBatch enqueues BatchSize download jobs if the buffer has dropped
// to or below LowWaterMark. Called from the single consumer goroutine
// (image stage) after every successful take, matching the Java reference's
// "check then submit" pattern.
func (r *Remote) triggerBatch() {
	if len(r.buffer) > r.cfg.LowWaterMark {
		return
	}
	for i := 0; i < r.cfg.BatchSize; i++ {
		r.group.Go(r.downloadOne)
	}
}

// downloadOne resolves the next id to an image URL, downloads it, and
// enqueues the result. Failures are discarded, not retried in place,
// matching the reference downloader's behavior; every FailureWarnEvery
// consecutive failures a rate-limit warning is logged.
func (r *Remote) downloadOne() error {
	if err := r.limiter.Wait(r.ctx); err != nil {
		return nil //nolint:nilerr // cancellation is not a download failure worth surfacing to errgroup
	}

	id := r.nextID()

	content, err := r.fetchImage(id)
	if err != nil {
		r.recordFailure(id, err)
		return nil
	}

	r.consecutiveFailures.Store(0)

	select {
	case r.buffer <- downloadedImage{id: id, content: content}:
	default:
		// Buffer is full; discard, matching the reference's
		// "if the FIFO refuses, discard" rule.
	}
	return nil
}

func (r *Remote) nextID() string {
	r.cursorMu.Lock()
	defer r.cursorMu.Unlock()
	return r.cursor.Next()
}

func (r *Remote) recordFailure(id string, err error) {
	n := r.consecutiveFailures.Add(1)
	if n%int64(r.cfg.FailureWarnEvery) == 0 {
		r.cfg.Logger.Warn("source: remote gallery rate limit suspected",
			"consecutive_failures", n, "last_id", id, "last_error", err)
	}
}

// fetchImage resolves id to an absolute image URL via the gallery page and
// downloads it with a browser-like user agent.
func (r *Remote) fetchImage(id string) (model.Raster, error) {
	pageURL, err := url.Parse(fmt.Sprintf("%s/%s", r.cfg.GalleryBaseURL, id))
	if err != nil {
		return model.Raster{}, err
	}

	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return model.Raster{}, err
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return model.Raster{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.Raster{}, fmt.Errorf("source: gallery page %s returned %s", pageURL, resp.Status)
	}

	imageURL, err := scrapeImageURL(resp.Body, pageURL, r.cfg.ImageAttrName, r.cfg.ImageAttrValue, r.cfg.ImageSrcAttr)
	if err != nil {
		return model.Raster{}, err
	}

	imgReq, err := http.NewRequestWithContext(r.ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return model.Raster{}, err
	}
	imgReq.Header.Set("User-Agent", r.cfg.UserAgent)

	imgResp, err := r.client.Do(imgReq)
	if err != nil {
		return model.Raster{}, err
	}
	defer imgResp.Body.Close()
	if imgResp.StatusCode != http.StatusOK {
		return model.Raster{}, fmt.Errorf("source: image %s returned %s", imageURL, imgResp.Status)
	}

	data, err := io.ReadAll(imgResp.Body)
	if err != nil {
		return model.Raster{}, err
	}

	return model.NewRaster(data)
}

// take pops the next downloaded image with a bounded wait, matching the
// "takes from the FIFO with a bounded wait; on timeout or cancellation,
// fails with NoImageAvailable" contract.
func (r *Remote) take() error {
	timer := time.NewTimer(r.cfg.NextTimeout)
	defer timer.Stop()

	select {
	case img := <-r.buffer:
		r.current = img
		return nil
	case <-r.ctx.Done():
		return fmt.Errorf("source: remote source canceled: %w", ErrNoImageAvailable)
	case <-timer.C:
		return fmt.Errorf("source: remote source timed out waiting for next image: %w", ErrNoImageAvailable)
	}
}

// Next implements Source.
func (r *Remote) Next() error {
	if r.closed.Load() {
		return fmt.Errorf("source: remote source shut down: %w", ErrNoImageAvailable)
	}
	if err := r.take(); err != nil {
		return err
	}
	r.triggerBatch()
	return nil
}

// CurrentID implements Source.
func (r *Remote) CurrentID() string {
	return r.current.id
}

// CurrentContent implements Source.
func (r *Remote) CurrentContent() model.Raster {
	return r.current.content
}

// Shutdown implements Source. Idempotent; cancels the worker pool and does
// not wait for in-flight downloads to complete.
func (r *Remote) Shutdown() {
	if r.closed.Swap(true) {
		return
	}
	r.cancel()
}

var _ Source = (*Remote)(nil)
