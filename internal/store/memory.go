package store

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the Store interface.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
	docs  map[uuid.UUID]*Document
	// links maps link id to owning document id. Links are never deleted,
	// so entries never go stale.
	links map[uuid.UUID]uuid.UUID
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]*User),
		docs:  make(map[uuid.UUID]*Document),
		links: make(map[uuid.UUID]uuid.UUID),
	}
}

// PutUser inserts or overwrites a user.
func (m *MemoryStore) PutUser(user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.ID] = user

	return nil
}

// GetUser retrieves a user by id.
func (m *MemoryStore) GetUser(id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// PutDocument inserts or overwrites a document and indexes any share links
// already attached to it.
func (m *MemoryStore) PutDocument(doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[doc.ID] = doc

	for linkID := range doc.ShareLinks {
		m.links[linkID] = doc.ID
	}

	return nil
}

// GetDocument retrieves a document by id.
func (m *MemoryStore) GetDocument(id uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, exists := m.docs[id]
	if !exists {
		return nil, ErrDocumentNotFound
	}

	return doc, nil
}

// IndexLink records the link-to-document mapping.
func (m *MemoryStore) IndexLink(linkID, docID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links[linkID] = docID

	return nil
}

// FindDocumentByLink resolves the document containing a share link.
// The index handles every link created through this store; the scan below
// covers links attached to a document map out of band.
func (m *MemoryStore) FindDocumentByLink(linkID uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if docID, exists := m.links[linkID]; exists {
		if doc, ok := m.docs[docID]; ok {
			if _, ok := doc.ShareLinks[linkID]; ok {
				return doc, nil
			}
		}
	}

	for _, doc := range m.docs {
		if _, ok := doc.ShareLinks[linkID]; ok {
			return doc, nil
		}
	}

	return nil, ErrLinkNotFound
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
