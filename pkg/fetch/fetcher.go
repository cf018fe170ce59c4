package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/storylens/pkg/config"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

const (
	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	acceptLanguageHeader = "en-US,en;q=0.9"
)

// Result is a fetched page. Body may be truncated at the configured byte cap.
type Result struct {
	Body        []byte
	FinalURL    string // URL after redirects; used as the base for resolving relative links
	ContentType string
	StatusCode  int
	Truncated   bool
}

// Fetcher performs the single article GET with a hard deadline. It never retries.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	maxBytes  int64
	log       *logrus.Entry
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(client *http.Client, cfg *config.AppConfig, log *logrus.Entry) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		timeout:   cfg.FetchTimeout,
		maxBytes:  cfg.MaxPageBytes,
		log:       log.WithField("component", "fetcher"),
	}
}

// Fetch GETs pageURL and returns its body.
// Errors are *utils.TimeoutError when the fetch deadline elapses and *utils.FetchError for
// non-2xx statuses or transport failures. Cancellation of ctx by the caller is returned as-is.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reqLog := f.log.WithField("url", pageURL)

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrRequestCreation, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguageHeader)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classifyTransportError(ctx, fetchCtx, pageURL, err)
	}
	defer resp.Body.Close()

	resLog := reqLog.WithFields(logrus.Fields{"status_code": resp.StatusCode, "final_url": resp.Request.URL.String()})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		resLog.Warn("Article fetch returned non-2xx status")
		return nil, &utils.FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Hint:       statusHint(resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		resLog.WithField("content_type", contentType).Warn("Unexpected content type, attempting extraction anyway")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if fetchCtx.Err() != nil {
			return nil, f.classifyTransportError(ctx, fetchCtx, pageURL, err)
		}
		return nil, fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, err)
	}

	truncated := false
	if int64(len(body)) > f.maxBytes {
		body = body[:f.maxBytes]
		truncated = true
		resLog.WithField("max_page_bytes", f.maxBytes).Warn("Response body exceeds cap, truncating")
	}

	resLog.WithFields(logrus.Fields{
		"bytes":    len(body),
		"duration": time.Since(start),
	}).Debug("Fetched article")

	return &Result{
		Body:        body,
		FinalURL:    resp.Request.URL.String(),
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
		Truncated:   truncated,
	}, nil
}

// classifyTransportError separates our own deadline from caller cancellation and plain network failures.
func (f *Fetcher) classifyTransportError(parent, fetchCtx context.Context, pageURL string, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("fetch cancelled: %w", parent.Err())
	}
	if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		f.log.WithField("url", pageURL).Warnf("Fetch deadline of %v exceeded", f.timeout)
		return &utils.TimeoutError{URL: pageURL, Timeout: f.timeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &utils.TimeoutError{URL: pageURL, Timeout: f.timeout, Err: err}
	}
	f.log.WithField("url", pageURL).Warnf("Network error: %v", err)
	return &utils.FetchError{URL: pageURL, Err: err}
}

// statusHint returns the human-readable explanation for common failure statuses.
func statusHint(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return "authentication required"
	case code == http.StatusForbidden:
		return "access denied"
	case code == http.StatusNotFound:
		return "not found"
	case code == http.StatusGone:
		return "no longer available"
	case code == http.StatusTooManyRequests:
		return "rate limited"
	case code >= 500:
		return "source site error"
	default:
		return ""
	}
}

func isHTMLContentType(contentType string) bool {
	if contentType == "" {
		return true // Many servers omit it; let the parser decide
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
