package common

import (
	"errors"
	"net/http"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"go.uber.org/zap"
)

// HttpError carries the status code a handler error should be answered with.
type HttpError struct {
	Status int
	Err    error
}

func (e *HttpError) Error() string { return e.Err.Error() }
func (e *HttpError) Unwrap() error { return e.Err }

func WithStatus(status int, err error) error {
	return &HttpError{Status: status, Err: err}
}

type errorResponse struct {
	Error string `json:"error"`
}

// JsonHandler wraps fn with a JSON content type and turns returned errors into a JSON error
// body. Errors without an HttpError status become 500 and are logged.
func JsonHandler(logger *zap.Logger, fn func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := fn(w, r, jsoncompat.NewEncoder(w))
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			status = httpErr.Status
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		} else {
			logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
		}
		w.WriteHeader(status)
		_ = jsoncompat.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}

// Cors answers preflight requests and echoes the request origin on everything else.
func Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		next.ServeHTTP(w, r)
	})
}
