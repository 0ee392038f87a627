package dashboard

import (
	"context"
	"sync"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

const anonymousViewer = "anonymous"

// Session holds one viewer's page controllers plus the domain analyzed on
// the overview page, which is never persisted.
type Session struct {
	mu          sync.Mutex
	controllers map[string]*PageController
	domain      datatable.Record
}

func newSession() *Session {
	return &Session{controllers: map[string]*PageController{}}
}

// Controller returns the controller for def, creating it on first use.
func (s *Session) Controller(def PageDefinition, repo store.Repository) *PageController {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctrl, ok := s.controllers[def.Code]; ok {
		return ctrl
	}
	ctrl := NewPageController(def, repo)
	s.controllers[def.Code] = ctrl
	return ctrl
}

// Existing returns the controller for code only when it was already created.
func (s *Session) Existing(code string) (*PageController, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, ok := s.controllers[code]
	return ctrl, ok
}

// ControllersFor returns the created controllers whose page shows entity.
func (s *Session) ControllersFor(entity string) []*PageController {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*PageController
	for _, ctrl := range s.controllers {
		if ctrl.def.Entity == entity {
			out = append(out, ctrl)
		}
	}
	return out
}

// Domain returns the analyzed domain snapshot, if any.
func (s *Session) Domain() datatable.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domain.Clone()
}

// SetDomain stores the analyzed domain snapshot.
func (s *Session) SetDomain(record datatable.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domain = record.Clone()
}

// InMemorySessionStore keeps sessions per viewer and locale.
type InMemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]*Session
}

// NewInMemorySessionStore creates an empty session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		data: make(map[string]*Session),
	}
}

// Session returns the viewer's session, creating it on first use. Viewers
// without a user id share the anonymous session of their locale.
func (s *InMemorySessionStore) Session(_ context.Context, viewer ViewerContext) (*Session, error) {
	key := s.key(viewer)
	s.mu.RLock()
	session, ok := s.data[key]
	s.mu.RUnlock()
	if ok {
		return session, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.data[key]; ok {
		return session, nil
	}
	session = newSession()
	s.data[key] = session
	return session, nil
}

// Reset discards the viewer's session.
func (s *InMemorySessionStore) Reset(_ context.Context, viewer ViewerContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, s.key(viewer))
	return nil
}

// Len returns the number of live sessions.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *InMemorySessionStore) key(viewer ViewerContext) string {
	user := viewer.UserID
	if user == "" {
		user = anonymousViewer
	}
	if viewer.Locale == "" {
		return user
	}
	return user + "::" + normalizeLocale(viewer.Locale)
}
