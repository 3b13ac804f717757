package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ory/herodot"
)

const headerUserID = "X-User-Id"

// authMiddleware extracts the user id from the X-User-Id header and adds it
// to the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(headerUserID)
		if header == "" {
			s.writer.WriteError(w, r, herodot.ErrUnauthorized.WithReason("missing X-User-Id header"))

			return
		}

		userID, err := uuid.Parse(header)
		if err != nil {
			s.writer.WriteError(w, r, herodot.ErrUnauthorized.WithReason("malformed X-User-Id header"))

			return
		}

		ctx := withUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuthMiddleware attaches the user id when the header is present and
// well formed; anonymous requests pass through untouched.
func (s *Server) optionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if header := r.Header.Get(headerUserID); header != "" {
			if userID, err := uuid.Parse(header); err == nil {
				r = r.WithContext(withUserID(r.Context(), userID))
			}
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
