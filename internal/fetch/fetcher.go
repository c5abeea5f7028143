// Package fetch performs bounded HTTP retrieval for the crawl pipeline.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

const userAgent = "Mozilla/5.0 (compatible; yong2/1.0)"

// retryBackoff is the wait before the single retry on a transient failure.
const retryBackoff = time.Second

// Result is a successful fetch.
type Result struct {
	Body        []byte
	ContentType string
}

// Fetcher retrieves URLs with a timeout, a single retry on transient
// network errors, and a response size ceiling.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	logger       logger.Logger

	// sleep is swappable so tests do not wait out the backoff.
	sleep func(time.Duration)
}

// New creates a fetcher. timeout bounds each attempt; maxBodyBytes bounds
// the response body (a larger body fails with KindTooLarge rather than
// being truncated).
func New(timeout time.Duration, maxBodyBytes int64, log logger.Logger) *Fetcher {
	return &Fetcher{
		client:       &http.Client{Timeout: timeout},
		maxBodyBytes: maxBodyBytes,
		logger:       log,
		sleep:        time.Sleep,
	}
}

// Fetch retrieves url. Transient failures (timeout, connection) are
// retried once with backoff; HTTP status >= 400 fails immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	res, err := f.attempt(ctx, url)
	if err == nil {
		return res, nil
	}
	if !IsTransient(err) || ctx.Err() != nil {
		return nil, err
	}

	f.logger.Warn("Fetch failed, retrying",
		logger.String("url", url),
		logger.Error(err),
	)
	f.sleep(retryBackoff)

	return f.attempt(ctx, url)
}

func (f *Fetcher) attempt(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &Error{Kind: KindConnection, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return nil, &Error{Kind: classifyTransport(doErr), URL: url, Err: doErr}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &Error{Kind: KindHTTPStatus, URL: url, Status: resp.StatusCode}
	}

	body, readErr := f.readBounded(resp.Body)
	if readErr != nil {
		var fe *Error
		if errors.As(readErr, &fe) {
			fe.URL = url
			return nil, fe
		}
		return nil, &Error{Kind: classifyTransport(readErr), URL: url, Err: readErr}
	}

	return &Result{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// readBounded reads at most maxBodyBytes. One extra byte distinguishes
// "exactly at the ceiling" from "over it".
func (f *Fetcher) readBounded(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, f.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if n > f.maxBodyBytes {
		return nil, &Error{Kind: KindTooLarge}
	}
	return buf.Bytes(), nil
}

func classifyTransport(err error) Kind {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}
	return KindConnection
}
