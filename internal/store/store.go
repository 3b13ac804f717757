package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/docshare/internal/access"
)

// Common errors.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
	ErrLinkNotFound         = errors.New("share link not found")
)

// User represents a registered user. Users are created once and are
// immutable afterwards.
type User struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Collaborator represents a user's granted access to a document.
// There is at most one record per (user, document) pair.
type Collaborator struct {
	UserID       uuid.UUID
	DocumentID   uuid.UUID
	Role         access.Role
	AddedBy      uuid.UUID
	AddedAt      time.Time
	LastAccessed *time.Time
}

// ShareLink represents a time-bounded, role-granting link to a document.
// Links are soft-deleted: revocation clears IsActive, the record stays.
type ShareLink struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	ExpiresAt   *time.Time
	AccessRole  access.Role
	IsActive    bool
	AccessCount int
}

// Document represents a document record. The content payload is opaque to
// this package. The document owns its collaborator and share-link maps;
// cross references between records are id values only.
type Document struct {
	ID            uuid.UUID
	Title         string
	Content       map[string]any
	OwnerID       uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Metadata      map[string]any
	Collaborators map[uuid.UUID]*Collaborator
	ShareLinks    map[uuid.UUID]*ShareLink
}

// NewUser creates a user record with a fresh id.
func NewUser(email, name string) *User {
	return &User{
		ID:    uuid.New(),
		Email: email,
		Name:  name,
	}
}

// NewDocument creates a document record with a fresh id, owned by ownerID,
// with empty collaborator and share-link maps.
func NewDocument(title string, content map[string]any, ownerID uuid.UUID) *Document {
	now := time.Now()

	return &Document{
		ID:            uuid.New(),
		Title:         title,
		Content:       content,
		OwnerID:       ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Metadata:      make(map[string]any),
		Collaborators: make(map[uuid.UUID]*Collaborator),
		ShareLinks:    make(map[uuid.UUID]*ShareLink),
	}
}

// Store defines the interface for persisting users and documents.
// Implementations can use in-memory storage, databases, or other backends.
type Store interface {
	// PutUser inserts or overwrites a user. Last write wins on the same id.
	PutUser(user *User) error

	// GetUser retrieves a user by id.
	// Returns ErrUserNotFound if no such user exists.
	GetUser(id uuid.UUID) (*User, error)

	// PutDocument inserts or overwrites a document. Last write wins on the
	// same id. Any share links already attached to the document become
	// findable via FindDocumentByLink.
	PutDocument(doc *Document) error

	// GetDocument retrieves a document by id.
	// Returns ErrDocumentNotFound if no such document exists.
	GetDocument(id uuid.UUID) (*Document, error)

	// IndexLink records that a share link belongs to a document so that
	// FindDocumentByLink can resolve it without scanning.
	IndexLink(linkID, docID uuid.UUID) error

	// FindDocumentByLink resolves the document that contains a share link.
	// Link ids form a global namespace across all documents.
	// Returns ErrLinkNotFound if no document contains the link.
	FindDocumentByLink(linkID uuid.UUID) (*Document, error)
}
