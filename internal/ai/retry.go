package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SleepFunc waits for the given duration or until the context is done.
// Injected in tests so backoff behavior can be verified without real waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoffDelay returns the wait before retrying attempt n (0-based):
// 1s, 2s, 4s, ...
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// doWithRetry POSTs payload to url up to maxAttempts times.
//
// Any response other than 429 is returned immediately, including non-2xx
// statuses; the caller decides what they mean. A 429 is retried after an
// exponential backoff; the last 429 is returned as-is. Transport errors are
// retried the same way and the last one is returned once attempts run out.
func doWithRetry(ctx context.Context, client *http.Client, url string, header http.Header, payload []byte, maxAttempts int, sleep SleepFunc) (*http.Response, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		for key, values := range header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts-1 {
				if sleepErr := sleep(ctx, backoffDelay(attempt)); sleepErr != nil {
					return nil, sleepErr
				}
				continue
			}
			break
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited: retry if attempts remain, otherwise hand the 429
		// back to the caller for final handling.
		if attempt < maxAttempts-1 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if sleepErr := sleep(ctx, backoffDelay(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("request failed after %d attempts", maxAttempts)
	}
	return nil, lastErr
}
