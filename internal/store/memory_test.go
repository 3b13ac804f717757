package store_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/docshare/internal/access"
	"github.com/serroba/docshare/internal/store"
	"github.com/stretchr/testify/require"
)

func newTestDocument(ownerID uuid.UUID) *store.Document {
	now := time.Now()

	return &store.Document{
		ID:            uuid.New(),
		Title:         "Test Document",
		Content:       map[string]any{"text": "hello"},
		OwnerID:       ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Metadata:      map[string]any{},
		Collaborators: make(map[uuid.UUID]*store.Collaborator),
		ShareLinks:    make(map[uuid.UUID]*store.ShareLink),
	}
}

func TestMemoryStore_PutUser(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	user := &store.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"}

	require.NoError(t, s.PutUser(user))

	got, err := s.GetUser(user.ID)
	require.NoError(t, err)

	if got.Email != "alice@example.com" {
		t.Errorf("expected alice@example.com, got %s", got.Email)
	}
}

func TestMemoryStore_PutUser_Overwrites(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	id := uuid.New()

	require.NoError(t, s.PutUser(&store.User{ID: id, Name: "Alice"}))
	require.NoError(t, s.PutUser(&store.User{ID: id, Name: "Alicia"}))

	got, err := s.GetUser(id)
	require.NoError(t, err)

	if got.Name != "Alicia" {
		t.Errorf("expected last write to win, got %s", got.Name)
	}
}

func TestMemoryStore_GetUser_NotFound(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()

	_, err := s.GetUser(uuid.New())
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMemoryStore_PutDocument(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	doc := newTestDocument(uuid.New())

	require.NoError(t, s.PutDocument(doc))

	got, err := s.GetDocument(doc.ID)
	require.NoError(t, err)

	if got.Title != "Test Document" {
		t.Errorf("expected title to round trip, got %s", got.Title)
	}
}

func TestMemoryStore_GetDocument_NotFound(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()

	_, err := s.GetDocument(uuid.New())
	if !errors.Is(err, store.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestMemoryStore_FindDocumentByLink_Indexed(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	doc := newTestDocument(uuid.New())
	require.NoError(t, s.PutDocument(doc))

	linkID := uuid.New()
	doc.ShareLinks[linkID] = &store.ShareLink{
		ID:         linkID,
		DocumentID: doc.ID,
		IsActive:   true,
		AccessRole: access.Viewer,
	}
	require.NoError(t, s.IndexLink(linkID, doc.ID))

	got, err := s.FindDocumentByLink(linkID)
	require.NoError(t, err)

	if got.ID != doc.ID {
		t.Errorf("expected document %s, got %s", doc.ID, got.ID)
	}
}

func TestMemoryStore_FindDocumentByLink_PreAttached(t *testing.T) {
	t.Parallel()

	// Links already attached when the document is registered must be
	// findable without a separate IndexLink call.
	s := store.NewMemoryStore()
	doc := newTestDocument(uuid.New())
	linkID := uuid.New()
	doc.ShareLinks[linkID] = &store.ShareLink{ID: linkID, DocumentID: doc.ID, IsActive: true}

	require.NoError(t, s.PutDocument(doc))

	got, err := s.FindDocumentByLink(linkID)
	require.NoError(t, err)

	if got.ID != doc.ID {
		t.Errorf("expected document %s, got %s", doc.ID, got.ID)
	}
}

func TestMemoryStore_FindDocumentByLink_Unindexed(t *testing.T) {
	t.Parallel()

	// A link stuffed into the map after registration still resolves via
	// the scan fallback.
	s := store.NewMemoryStore()
	doc := newTestDocument(uuid.New())
	require.NoError(t, s.PutDocument(doc))

	linkID := uuid.New()
	doc.ShareLinks[linkID] = &store.ShareLink{ID: linkID, DocumentID: doc.ID, IsActive: true}

	got, err := s.FindDocumentByLink(linkID)
	require.NoError(t, err)

	if got.ID != doc.ID {
		t.Errorf("expected document %s, got %s", doc.ID, got.ID)
	}
}

func TestMemoryStore_FindDocumentByLink_NotFound(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	require.NoError(t, s.PutDocument(newTestDocument(uuid.New())))

	_, err := s.FindDocumentByLink(uuid.New())
	if !errors.Is(err, store.ErrLinkNotFound) {
		t.Errorf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()

	var wg sync.WaitGroup

	ids := make([]uuid.UUID, 10)
	for i := range ids {
		ids[i] = uuid.New()
	}

	for _, id := range ids {
		wg.Add(1)

		go func(id uuid.UUID) {
			defer wg.Done()

			_ = s.PutUser(&store.User{ID: id, Name: "user"})
		}(id)
	}

	wg.Wait()

	for _, id := range ids {
		if _, err := s.GetUser(id); err != nil {
			t.Errorf("expected user %s to exist, got %v", id, err)
		}
	}
}
