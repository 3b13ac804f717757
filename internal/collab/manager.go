package collab

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/docshare/internal/access"
	"github.com/serroba/docshare/internal/store"
)

// Common errors.
var (
	// ErrForbidden means the acting user lacks the required permission.
	// It is returned before any other validation so that callers without
	// access learn nothing about the targeted resources.
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvalidOperation means the request is structurally disallowed.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrLinkInactive means the share link has been revoked.
	ErrLinkInactive = errors.New("share link is no longer active")
	// ErrLinkExpired means the share link's expiry time has passed.
	ErrLinkExpired = errors.New("share link has expired")
)

// Manager implements document sharing: role resolution, permission checks,
// and the collaborator and share-link lifecycle.
//
// Every mutating or listing operation resolves the actor's role and checks
// the required permission before touching any state. The manager's mutex
// makes each check-then-mutate sequence a single critical section, so a
// collaborator cannot be removed between a permission check and the
// mutation it guards.
type Manager struct {
	mu    sync.Mutex
	store store.Store
}

// ManagerConfig holds configuration for creating a manager.
type ManagerConfig struct {
	Store store.Store
}

// NewManager creates a new sharing manager.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{store: cfg.Store}
}

// AddUser registers a user. Re-adding the same id overwrites.
func (m *Manager) AddUser(user *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.PutUser(user)
}

// AddDocument registers a document. Re-adding the same id overwrites.
func (m *Manager) AddDocument(doc *store.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.PutDocument(doc)
}

// GetUserRole resolves a user's effective role for a document.
// The owner is always Owner; otherwise the collaborator record decides.
// ok is false when the user has no access, including when the document
// does not exist.
func (m *Manager) GetUserRole(userID, docID uuid.UUID) (access.Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.userRole(userID, docID)
}

// userRole is GetUserRole without locking, for use inside operations.
func (m *Manager) userRole(userID, docID uuid.UUID) (access.Role, bool) {
	doc, err := m.store.GetDocument(docID)
	if err != nil {
		return 0, false
	}

	if doc.OwnerID == userID {
		return access.Owner, true
	}

	if collab, ok := doc.Collaborators[userID]; ok {
		return collab.Role, true
	}

	return 0, false
}

// CheckPermission reports whether a user holds a permission on a document.
// This is the single authorization choke point for all operations below.
func (m *Manager) CheckPermission(userID, docID uuid.UUID, perm access.Permission) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.checkPermission(userID, docID, perm)
}

func (m *Manager) checkPermission(userID, docID uuid.UUID, perm access.Permission) bool {
	role, ok := m.userRole(userID, docID)

	return access.HasPermission(role, ok, perm)
}

// GetDocument returns a document to a user holding View permission.
func (m *Manager) GetDocument(docID, userID uuid.UUID) (*store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.checkPermission(userID, docID, access.View) {
		return nil, ErrForbidden
	}

	return m.store.GetDocument(docID)
}

// AddCollaborator grants a user a role on a document. Requires Manage by
// addedBy. Re-adding an existing collaborator overwrites the record.
// The document owner can never be a collaborator record.
func (m *Manager) AddCollaborator(docID, userID uuid.UUID, role access.Role, addedBy uuid.UUID) (store.Collaborator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.checkPermission(addedBy, docID, access.Manage) {
		return store.Collaborator{}, ErrForbidden
	}

	doc, err := m.store.GetDocument(docID)
	if err != nil {
		return store.Collaborator{}, err
	}

	if _, err := m.store.GetUser(userID); err != nil {
		return store.Collaborator{}, err
	}

	if userID == doc.OwnerID {
		return store.Collaborator{}, fmt.Errorf("%w: cannot add document owner as collaborator", ErrInvalidOperation)
	}

	collab := &store.Collaborator{
		UserID:     userID,
		DocumentID: docID,
		Role:       role,
		AddedBy:    addedBy,
		AddedAt:    time.Now(),
	}
	doc.Collaborators[userID] = collab

	return *collab, nil
}

// RemoveCollaborator revokes a user's access to a document.
// Requires Manage by removedBy.
func (m *Manager) RemoveCollaborator(docID, userID, removedBy uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.checkPermission(removedBy, docID, access.Manage) {
		return ErrForbidden
	}

	doc, err := m.store.GetDocument(docID)
	if err != nil {
		return err
	}

	if _, ok := doc.Collaborators[userID]; !ok {
		return fmt.Errorf("%w: user %s", store.ErrCollaboratorNotFound, userID)
	}

	delete(doc.Collaborators, userID)

	return nil
}

// CreateShareLink creates a role-granting link for a document. Requires
// Manage by createdBy. expiresAt may be nil for a link that never expires;
// a timestamp already in the past is legal and fails on first redemption.
func (m *Manager) CreateShareLink(docID, createdBy uuid.UUID, role access.Role, expiresAt *time.Time) (store.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.checkPermission(createdBy, docID, access.Manage) {
		return store.ShareLink{}, ErrForbidden
	}

	doc, err := m.store.GetDocument(docID)
	if err != nil {
		return store.ShareLink{}, err
	}

	link := &store.ShareLink{
		ID:         uuid.New(),
		DocumentID: docID,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
		ExpiresAt:  expiresAt,
		AccessRole: role,
		IsActive:   true,
	}
	doc.ShareLinks[link.ID] = link

	if err := m.store.IndexLink(link.ID, docID); err != nil {
		delete(doc.ShareLinks, link.ID)

		return store.ShareLink{}, err
	}

	return *link, nil
}

// RevokeShareLink deactivates a share link. Requires Manage by revokedBy.
// Revoking an already-revoked link succeeds; the flag is simply re-set.
func (m *Manager) RevokeShareLink(docID, linkID, revokedBy uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.checkPermission(revokedBy, docID, access.Manage) {
		return ErrForbidden
	}

	doc, err := m.store.GetDocument(docID)
	if err != nil {
		return err
	}

	link, ok := doc.ShareLinks[linkID]
	if !ok {
		return store.ErrLinkNotFound
	}

	link.IsActive = false

	return nil
}

// AccessViaShareLink redeems a share link. This is the anonymous-access
// path and bypasses the permission gate; the link enforces its own state:
// the active check runs before the expiry check. On success the link's
// access counter is incremented, and if userID identifies an existing
// collaborator on the document, their last-accessed time is updated.
// userID may be uuid.Nil for anonymous access.
//
// Returns the document and the role the link grants, which is independent
// of any role the accessing user may separately hold.
func (m *Manager) AccessViaShareLink(linkID, userID uuid.UUID) (*store.Document, access.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.FindDocumentByLink(linkID)
	if err != nil {
		return nil, 0, err
	}

	link := doc.ShareLinks[linkID]

	if !link.IsActive {
		return nil, 0, ErrLinkInactive
	}

	if link.ExpiresAt != nil && time.Now().After(*link.ExpiresAt) {
		return nil, 0, ErrLinkExpired
	}

	link.AccessCount++

	if userID != uuid.Nil {
		if collab, ok := doc.Collaborators[userID]; ok {
			now := time.Now()
			collab.LastAccessed = &now
		}
	}

	return doc, link.AccessRole, nil
}

// ListCollaborators returns all collaborator records for a document.
// Requires View by requestedBy; any accessor may list collaborators.
func (m *Manager) ListCollaborators(docID, requestedBy uuid.UUID) ([]store.Collaborator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.checkPermission(requestedBy, docID, access.View) {
		return nil, ErrForbidden
	}

	doc, err := m.store.GetDocument(docID)
	if err != nil {
		return nil, err
	}

	result := make([]store.Collaborator, 0, len(doc.Collaborators))
	for _, collab := range doc.Collaborators {
		result = append(result, *collab)
	}

	return result, nil
}

// ListShareLinks returns all share links for a document, revoked ones
// included. Requires Manage by requestedBy; link metadata is sensitive.
func (m *Manager) ListShareLinks(docID, requestedBy uuid.UUID) ([]store.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.checkPermission(requestedBy, docID, access.Manage) {
		return nil, ErrForbidden
	}

	doc, err := m.store.GetDocument(docID)
	if err != nil {
		return nil, err
	}

	result := make([]store.ShareLink, 0, len(doc.ShareLinks))
	for _, link := range doc.ShareLinks {
		result = append(result, *link)
	}

	return result, nil
}
