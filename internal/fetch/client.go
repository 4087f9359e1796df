package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/timeseries"
)

// userAgent identifies requests to the provider. The chart endpoint rejects
// clients without a browser-like agent string.
const userAgent = "Mozilla/5.0 (compatible; stocklens/1.0)"

// Provider downloads the daily price history for one ticker. Start is
// inclusive and end exclusive.
type Provider interface {
	History(ctx context.Context, ticker string, start, end time.Time) (*timeseries.Frame, error)
}

// Client talks to the provider's v8 chart endpoint. All requests pass
// through a shared rate limiter, and transient failures are retried with
// exponential backoff.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	limiter      *rate.Limiter
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewClient creates a provider client from fetch configuration.
func NewClient(cfg config.FetchConfig) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		limiter:      rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		maxAttempts:  cfg.MaxAttempts,
		initialDelay: cfg.RetryDelay,
		maxDelay:     cfg.MaxDelay,
	}
}

// History downloads daily bars for ticker within [start, end). A range the
// provider has no rows for yields an empty price table, not an error.
func (c *Client) History(ctx context.Context, ticker string, start, end time.Time) (*timeseries.Frame, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.NewNetworkError("request cancelled while rate limited", err).
				WithContext("ticker", ticker)
		}

		frame, retryable, err := c.fetchOnce(ctx, ticker, start, end)
		if err == nil {
			return frame, nil
		}
		lastErr = err

		if !retryable || attempt >= c.maxAttempts {
			break
		}

		delay := c.retryDelay(attempt)
		slog.WarnContext(ctx, "Retrying provider request",
			slog.String("ticker", ticker),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", c.maxAttempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, apperrors.NewNetworkError("request cancelled", ctx.Err()).
				WithContext("ticker", ticker)
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single request. The second return value reports
// whether the failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context, ticker string, start, end time.Time) (*timeseries.Frame, bool, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, apperrors.NewNetworkError("failed to create request", err).
			WithContext("ticker", ticker)
	}

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", "1d")
	q.Set("includeAdjustedClose", "true")
	q.Set("events", "div,split")
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, apperrors.NewNetworkError("request failed", err).
			WithContext("ticker", ticker)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, apperrors.NewNetworkError("failed to read response", err).
			WithContext("ticker", ticker)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, apperrors.NewNetworkError(
			fmt.Sprintf("provider returned status %d", resp.StatusCode), nil).
			WithContext("ticker", ticker).
			WithContext("status", resp.StatusCode).
			WithContext("body", snippet(body))
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, apperrors.NewParsingError("failed to parse provider response", err).
			WithContext("ticker", ticker)
	}

	if parsed.Chart.Error != nil {
		return nil, false, apperrors.NewNetworkError(
			fmt.Sprintf("provider error: %s", parsed.Chart.Error.Description), nil).
			WithContext("ticker", ticker).
			WithContext("code", parsed.Chart.Error.Code)
	}

	if len(parsed.Chart.Result) == 0 {
		return EmptyFrame(), false, nil
	}

	frame, err := frameFromChart(&parsed.Chart.Result[0])
	if err != nil {
		return nil, false, apperrors.NewParsingError("malformed chart payload", err).
			WithContext("ticker", ticker)
	}
	return frame, false, nil
}

// retryDelay doubles the initial delay per attempt, capped at maxDelay.
func (c *Client) retryDelay(attempt int) time.Duration {
	delay := c.initialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.maxDelay {
			return c.maxDelay
		}
	}
	if delay > c.maxDelay {
		delay = c.maxDelay
	}
	return delay
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
