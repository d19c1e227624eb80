// Package ledger provides HTTP middleware that records one ledger
// entry per API request. Entries are written asynchronously so the
// ledger never adds latency to a response.
package ledger

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	ledgerstore "github.com/linkvault/linkvault/internal/app/store/ledger"
	"go.uber.org/zap"
)

// ctxKey is the context key type for ledger data.
type ctxKey int

const ctxKeyEntry ctxKey = iota

// Config holds configuration for the ledger middleware.
type Config struct {
	// Store is the ledger store for persisting entries.
	Store *ledgerstore.Store

	// Logger for logging write failures.
	Logger *zap.Logger

	// MaxBodyPreview is the maximum number of characters to capture
	// from request bodies. 0 disables body capture.
	MaxBodyPreview int

	// ExcludePaths is a list of path prefixes to skip.
	ExcludePaths []string

	// OnlyErrors restricts the ledger to requests with status >= 400.
	OnlyErrors bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(store *ledgerstore.Store, logger *zap.Logger) Config {
	return Config{
		Store:          store,
		Logger:         logger,
		MaxBodyPreview: 500,
		ExcludePaths:   []string{"/health", "/favicon.ico"},
	}
}

// Middleware returns HTTP middleware that logs requests to the ledger.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			for _, prefix := range cfg.ExcludePaths {
				if strings.HasPrefix(path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			startTime := time.Now()

			var bodyPreview string
			var bodySize int64
			if cfg.MaxBodyPreview > 0 && r.Body != nil && r.ContentLength > 0 {
				body, err := io.ReadAll(r.Body)
				if err == nil {
					bodySize = int64(len(body))
					preview := string(body)
					if len(preview) > cfg.MaxBodyPreview {
						preview = preview[:cfg.MaxBodyPreview] + "..."
					}
					bodyPreview = preview
					r.Body = io.NopCloser(bytes.NewReader(body))
				}
			}

			entry := &ledgerstore.Entry{
				RequestID:          uuid.New().String(),
				ClientRequestID:    r.Header.Get("X-Request-ID"),
				Method:             r.Method,
				Path:               path,
				Query:              r.URL.RawQuery,
				RemoteIP:           extractIP(r),
				RequestBodySize:    bodySize,
				RequestBodyPreview: bodyPreview,
				StartedAt:          startTime,
			}

			r = r.WithContext(context.WithValue(r.Context(), ctxKeyEntry, entry))

			wrapped := &responseWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(wrapped, r)

			endTime := time.Now()
			entry.StatusCode = wrapped.statusCode
			entry.ResponseSize = wrapped.bytesWritten
			entry.CompletedAt = endTime
			entry.DurationMs = float64(endTime.Sub(startTime).Microseconds()) / 1000.0

			if wrapped.statusCode >= 400 && entry.ErrorClass == "" {
				entry.ErrorClass = classifyStatus(wrapped.statusCode)
			}

			if cfg.OnlyErrors && wrapped.statusCode < 400 {
				return
			}

			// Written off the request path; a slow store must not slow
			// the client.
			go func() {
				storeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cfg.Store.Create(storeCtx, *entry); err != nil {
					cfg.Logger.Error("failed to store ledger entry",
						zap.String("request_id", entry.RequestID),
						zap.Error(err))
				}
			}()
		})
	}
}

func classifyStatus(status int) string {
	switch {
	case status == 400:
		return "validation"
	case status == 401:
		return "auth"
	case status == 403:
		return "forbidden"
	case status == 404:
		return "not_found"
	case status == 409:
		return "conflict"
	case status >= 500:
		return "internal"
	default:
		return "client_error"
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code and bytes written.
type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWrapper) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher.
func (rw *responseWrapper) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// extractIP extracts the client IP from the request.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// SetErrorClass records the error class for the current request's
// ledger entry. Handlers call this when they map a domain error to a
// status code.
func SetErrorClass(ctx context.Context, class string) {
	if entry, ok := ctx.Value(ctxKeyEntry).(*ledgerstore.Entry); ok {
		entry.ErrorClass = class
	}
}

// SetErrorMessage records a safe error message for the ledger entry.
func SetErrorMessage(ctx context.Context, message string) {
	if entry, ok := ctx.Value(ctxKeyEntry).(*ledgerstore.Entry); ok {
		entry.ErrorMessage = message
	}
}

// GetRequestID returns the request ID for the current request, or ""
// outside the middleware.
func GetRequestID(ctx context.Context) string {
	if entry, ok := ctx.Value(ctxKeyEntry).(*ledgerstore.Entry); ok {
		return entry.RequestID
	}
	return ""
}
