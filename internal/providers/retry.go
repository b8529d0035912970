package providers

import "log/slog"

const (
	maxAttempts = 3
)

// withRetry runs call up to maxAttempts times and reports whether any
// attempt succeeded. Exhaustion is an expected outcome, not an error:
// callers get the zero value and ok=false, and render the absence.
func withRetry[T any](name string, call func() (T, error)) (T, bool) {
	var zero T
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := call()
		if err == nil {
			return v, true
		}
		slog.Warn("provider call failed", "provider", name, "attempt", attempt, "error", err)
	}
	return zero, false
}
