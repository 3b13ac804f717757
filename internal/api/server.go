package api

import (
	"errors"
	"net/http"

	"github.com/ory/herodot"
	"github.com/rs/zerolog"
	"github.com/serroba/docshare/internal/access"
	"github.com/serroba/docshare/internal/collab"
	"github.com/serroba/docshare/internal/export"
	"github.com/serroba/docshare/internal/mailer"
	"github.com/serroba/docshare/internal/store"
)

// Server handles HTTP requests for the sharing API.
type Server struct {
	manager  *collab.Manager
	store    store.Store
	exporter *export.Exporter
	mailer   mailer.Mailer
	logger   zerolog.Logger
	writer   *herodot.JSONWriter
}

// ServerConfig holds configuration for creating a server.
type ServerConfig struct {
	Manager  *collab.Manager
	Store    store.Store
	Exporter *export.Exporter
	// Mailer is optional; when nil no share notifications are sent.
	Mailer mailer.Mailer
	Logger zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) *Server {
	return &Server{
		manager:  cfg.Manager,
		store:    cfg.Store,
		exporter: cfg.Exporter,
		mailer:   cfg.Mailer,
		logger:   cfg.Logger,
		writer:   herodot.NewJSONWriter(nil),
	}
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Registration endpoints.
	mux.Handle("POST /users", http.HandlerFunc(s.handleCreateUser))
	mux.Handle("POST /documents", s.authMiddleware(http.HandlerFunc(s.handleCreateDocument)))

	// Document endpoints.
	mux.Handle("GET /documents/{id}", s.authMiddleware(http.HandlerFunc(s.handleGetDocument)))
	mux.Handle("GET /documents/{id}/export", s.authMiddleware(http.HandlerFunc(s.handleExportDocument)))

	// Collaborator endpoints.
	mux.Handle("GET /documents/{id}/collaborators", s.authMiddleware(http.HandlerFunc(s.handleListCollaborators)))
	mux.Handle("POST /documents/{id}/collaborators", s.authMiddleware(http.HandlerFunc(s.handleAddCollaborator)))
	mux.Handle("DELETE /documents/{id}/collaborators/{userID}", s.authMiddleware(http.HandlerFunc(s.handleRemoveCollaborator)))

	// Share-link endpoints.
	mux.Handle("GET /documents/{id}/links", s.authMiddleware(http.HandlerFunc(s.handleListShareLinks)))
	mux.Handle("POST /documents/{id}/links", s.authMiddleware(http.HandlerFunc(s.handleCreateShareLink)))
	mux.Handle("DELETE /documents/{id}/links/{linkID}", s.authMiddleware(http.HandlerFunc(s.handleRevokeShareLink)))

	// Redemption is the anonymous-access path: identity is optional.
	mux.Handle("POST /links/{id}", s.optionalAuthMiddleware(http.HandlerFunc(s.handleAccessShareLink)))

	return s.loggingMiddleware(mux)
}

// writeDomainError maps domain errors to HTTP error responses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, collab.ErrForbidden):
		s.writer.WriteError(w, r, herodot.ErrForbidden.WithReason("insufficient permissions"))
	case errors.Is(err, store.ErrDocumentNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrCollaboratorNotFound),
		errors.Is(err, store.ErrLinkNotFound):
		s.writer.WriteError(w, r, herodot.ErrNotFound.WithReason(err.Error()))
	case errors.Is(err, collab.ErrInvalidOperation),
		errors.Is(err, access.ErrInvalidRole),
		errors.Is(err, export.ErrUnsupportedFormat):
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))
	case errors.Is(err, collab.ErrLinkInactive), errors.Is(err, collab.ErrLinkExpired):
		s.writer.WriteError(w, r, &herodot.DefaultError{
			CodeField:   http.StatusGone,
			StatusField: http.StatusText(http.StatusGone),
			ErrorField:  err.Error(),
		})
	default:
		s.writer.WriteError(w, r, herodot.ErrInternalServerError.WithWrap(err))
	}
}
