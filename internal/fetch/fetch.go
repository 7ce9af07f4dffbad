// Package fetch provides the sequential HTTP client used by both jobs.
//
// Requests are issued strictly one at a time with a fixed pacing delay
// between consecutive requests. Failed requests are retried a bounded
// number of times with a constant back-off before an Error is returned.
package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/jmteo/gls-tracker/internal/logger"
)

// Config holds fetcher configuration.
type Config struct {
	Timeout    time.Duration
	Delay      time.Duration // pacing between consecutive requests
	RetryDelay time.Duration // wait between retries of one request
	Retries    int           // retries after the first attempt
	UserAgent  string
}

// Error is returned when a request still fails after all retries. It carries
// the URL and the last observed HTTP status (0 for transport failures).
type Error struct {
	URL      string
	Status   int
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: status %d after %d attempts", e.URL, e.Status, e.Attempts)
	}
	return fmt.Sprintf("fetching %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client issues paced, retried GET requests.
type Client struct {
	http       *resty.Client
	delay      time.Duration
	retryDelay time.Duration
	retries    int

	// injectable for tests
	sleep func(time.Duration)
	now   func() time.Time

	last time.Time
}

// New creates a Client from config. Zero-value fields fall back to
// conservative defaults.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "gls-tracker/1.0"
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = cfg.Delay
	}
	return &Client{
		http: resty.New().
			SetTimeout(cfg.Timeout).
			SetHeader("User-Agent", cfg.UserAgent),
		delay:      cfg.Delay,
		retryDelay: cfg.RetryDelay,
		retries:    cfg.Retries,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

// Get fetches a URL and returns the response body. On non-2xx status or
// transport failure it retries with a constant delay, then returns an
// *Error once the budget is exhausted.
func (c *Client) Get(url string) ([]byte, error) {
	c.pace()

	var body []byte
	attempts := 0
	lastStatus := 0

	op := func() error {
		attempts++
		resp, err := c.http.R().Get(url)
		if err != nil {
			lastStatus = 0
			return err
		}
		if resp.StatusCode() >= 300 {
			lastStatus = resp.StatusCode()
			return fmt.Errorf("status %d", resp.StatusCode())
		}
		body = resp.Body()
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.retries))
	if err := backoff.Retry(op, policy); err != nil {
		logger.Incr("fetch.errors")
		return nil, &Error{URL: url, Status: lastStatus, Attempts: attempts, Err: err}
	}

	logger.Incr("fetch.requests")
	return body, nil
}

// Download fetches a URL and writes the body to dest atomically (temp file
// in the destination directory, then rename).
func (c *Client) Download(url, dest string) error {
	body, err := c.Get(url)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return fmt.Errorf("writing download: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing download: %w", err)
	}
	return nil
}

// pace enforces the fixed inter-request delay. The first request of a run
// goes out immediately.
func (c *Client) pace() {
	if c.delay <= 0 {
		return
	}
	if !c.last.IsZero() {
		if elapsed := c.now().Sub(c.last); elapsed < c.delay {
			c.sleep(c.delay - elapsed)
		}
	}
	c.last = c.now()
}

// IsFetchError reports whether err is a retries-exhausted fetch failure.
func IsFetchError(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}
