package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ory/herodot"
	"github.com/serroba/docshare/internal/export"
	"github.com/serroba/docshare/internal/store"
)

// CreateUserRequest is the request body for registering a user.
type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserResponse is the wire form of a user.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// CreateDocumentRequest is the request body for registering a document.
type CreateDocumentRequest struct {
	Title    string         `json:"title"`
	Content  map[string]any `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DocumentResponse is the wire form of a document.
type DocumentResponse struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Content   map[string]any `json:"content"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func documentResponse(doc *store.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		OwnerID:   doc.OwnerID,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Metadata:  doc.Metadata,
	}
}

// handleCreateUser handles POST /users.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason("invalid request body"))

		return
	}

	if req.Email == "" {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason("email is required"))

		return
	}

	user := store.NewUser(req.Email, req.Name)
	if err := s.manager.AddUser(user); err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writer.WriteCreated(w, r, "/users/"+user.ID.String(), UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
}

// handleCreateDocument handles POST /documents. The caller becomes the
// document owner.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason("invalid request body"))

		return
	}

	if req.Title == "" {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason("title is required"))

		return
	}

	if _, err := s.store.GetUser(userID); err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	doc := store.NewDocument(req.Title, req.Content, userID)
	if req.Metadata != nil {
		doc.Metadata = req.Metadata
	}

	if err := s.manager.AddDocument(doc); err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writer.WriteCreated(w, r, "/documents/"+doc.ID.String(), documentResponse(doc))
}

// handleGetDocument handles GET /documents/{id}.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	docID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	doc, err := s.manager.GetDocument(docID, userID)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writer.Write(w, r, documentResponse(doc))
}

// handleExportDocument handles GET /documents/{id}/export?format=pdf|docx.
func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	docID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	doc, err := s.manager.GetDocument(docID, userID)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	metadata := map[string]any{
		"title": doc.Title,
		"date":  doc.UpdatedAt.Format("2006-01-02"),
	}
	if owner, err := s.store.GetUser(doc.OwnerID); err == nil {
		metadata["author"] = owner.Name
	}

	data, err := s.exporter.Export(doc.Content, format, metadata)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", doc.Title+"."+format.String()))

	if _, err := w.Write(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to write export response")
	}
}

func contentType(format export.Format) string {
	switch format {
	case export.PDF:
		return "application/pdf"
	case export.DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// pathUUID parses a uuid path segment.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	return id, nil
}
