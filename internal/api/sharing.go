package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ory/herodot"
	"github.com/serroba/docshare/internal/access"
	"github.com/serroba/docshare/internal/store"
)

// AddCollaboratorRequest is the request body for granting access.
type AddCollaboratorRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// CollaboratorResponse is the wire form of a collaborator record.
type CollaboratorResponse struct {
	UserID       uuid.UUID  `json:"user_id"`
	DocumentID   uuid.UUID  `json:"document_id"`
	Role         string     `json:"role"`
	AddedBy      uuid.UUID  `json:"added_by"`
	AddedAt      time.Time  `json:"added_at"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
}

func collaboratorResponse(c store.Collaborator) CollaboratorResponse {
	return CollaboratorResponse{
		UserID:       c.UserID,
		DocumentID:   c.DocumentID,
		Role:         c.Role.String(),
		AddedBy:      c.AddedBy,
		AddedAt:      c.AddedAt,
		LastAccessed: c.LastAccessed,
	}
}

// CreateShareLinkRequest is the request body for creating a share link.
// Role defaults to viewer; expires_at is optional.
type CreateShareLinkRequest struct {
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ShareLinkResponse is the wire form of a share link.
type ShareLinkResponse struct {
	ID          uuid.UUID  `json:"id"`
	DocumentID  uuid.UUID  `json:"document_id"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	AccessRole  string     `json:"access_role"`
	IsActive    bool       `json:"is_active"`
	AccessCount int        `json:"access_count"`
}

func shareLinkResponse(l store.ShareLink) ShareLinkResponse {
	return ShareLinkResponse{
		ID:          l.ID,
		DocumentID:  l.DocumentID,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		ExpiresAt:   l.ExpiresAt,
		AccessRole:  l.AccessRole.String(),
		IsActive:    l.IsActive,
		AccessCount: l.AccessCount,
	}
}

// AccessShareLinkResponse is the response body for redeeming a share link.
type AccessShareLinkResponse struct {
	Document    DocumentResponse `json:"document"`
	GrantedRole string           `json:"granted_role"`
}

// handleAddCollaborator handles POST /documents/{id}/collaborators.
func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	docID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	var req AddCollaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason("invalid request body"))

		return
	}

	role, err := access.ParseRole(req.Role)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	collabRec, err := s.manager.AddCollaborator(docID, req.UserID, role, userID)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.notifyCollaborator(docID, req.UserID, role)

	s.writer.WriteCreated(w, r,
		fmt.Sprintf("/documents/%s/collaborators/%s", docID, req.UserID),
		collaboratorResponse(collabRec))
}

// notifyCollaborator emails the user who was just granted access.
// Mail failures are logged and swallowed; the grant already happened.
func (s *Server) notifyCollaborator(docID, userID uuid.UUID, role access.Role) {
	if s.mailer == nil {
		return
	}

	user, err := s.store.GetUser(userID)
	if err != nil || user.Email == "" {
		return
	}

	doc, err := s.store.GetDocument(docID)
	if err != nil {
		return
	}

	subject := fmt.Sprintf("You now have access to %q", doc.Title)
	body := fmt.Sprintf("<p>You have been granted %s access to <strong>%s</strong>.</p>",
		role, doc.Title)

	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		s.logger.Warn().Err(err).Str("user", userID.String()).Msg("share notification failed")
	}
}

// handleRemoveCollaborator handles DELETE /documents/{id}/collaborators/{userID}.
func (s *Server) handleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	docID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	target, err := pathUUID(r, "userID")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	if err := s.manager.RemoveCollaborator(docID, target, userID); err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListCollaborators handles GET /documents/{id}/collaborators.
func (s *Server) handleListCollaborators(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	docID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	collabs, err := s.manager.ListCollaborators(docID, userID)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	result := make([]CollaboratorResponse, 0, len(collabs))
	for _, c := range collabs {
		result = append(result, collaboratorResponse(c))
	}

	s.writer.Write(w, r, result)
}

// handleCreateShareLink handles POST /documents/{id}/links.
func (s *Server) handleCreateShareLink(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	docID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	var req CreateShareLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason("invalid request body"))

		return
	}

	role := access.Viewer

	if req.Role != "" {
		role, err = access.ParseRole(req.Role)
		if err != nil {
			s.writeDomainError(w, r, err)

			return
		}
	}

	link, err := s.manager.CreateShareLink(docID, userID, role, req.ExpiresAt)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writer.WriteCreated(w, r, "/links/"+link.ID.String(), shareLinkResponse(link))
}

// handleRevokeShareLink handles DELETE /documents/{id}/links/{linkID}.
func (s *Server) handleRevokeShareLink(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	docID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	linkID, err := pathUUID(r, "linkID")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	if err := s.manager.RevokeShareLink(docID, linkID, userID); err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListShareLinks handles GET /documents/{id}/links.
func (s *Server) handleListShareLinks(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	docID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	links, err := s.manager.ListShareLinks(docID, userID)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	result := make([]ShareLinkResponse, 0, len(links))
	for _, l := range links {
		result = append(result, shareLinkResponse(l))
	}

	s.writer.Write(w, r, result)
}

// handleAccessShareLink handles POST /links/{id}. Anonymous callers are
// allowed; a caller identified via X-User-Id who is a collaborator on the
// linked document gets their last-accessed time updated.
func (s *Server) handleAccessShareLink(w http.ResponseWriter, r *http.Request) {
	linkID, err := pathUUID(r, "id")
	if err != nil {
		s.writer.WriteError(w, r, herodot.ErrBadRequest.WithReason(err.Error()))

		return
	}

	userID, _ := UserIDFromContext(r.Context())

	doc, role, err := s.manager.AccessViaShareLink(linkID, userID)
	if err != nil {
		s.writeDomainError(w, r, err)

		return
	}

	s.writer.Write(w, r, AccessShareLinkResponse{
		Document:    documentResponse(doc),
		GrantedRole: role.String(),
	})
}
