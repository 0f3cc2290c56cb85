package handlers

import (
	"route-display-service/internal/adapters/scene"
	"route-display-service/internal/domain"
	"route-display-service/internal/ports"
	"route-display-service/internal/services"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SessionEntry is one live map: its session, the scene it draws on, and the
// errors it reported since they were last collected.
type SessionEntry struct {
	ID      string
	Session *services.Session
	Scene   *scene.Scene

	mu       sync.Mutex
	reported []domain.RouteError
}

func (e *SessionEntry) report(title, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reported = append(e.reported, domain.RouteError{Title: title, Message: message})
}

// drainErrors returns and forgets the errors reported so far.
func (e *SessionEntry) drainErrors() []domain.RouteError {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.reported
	e.reported = nil
	return out
}

// SessionStore keeps sessions in memory and expires them after an idle TTL.
type SessionStore struct {
	sessions   *gocache.Cache
	directions ports.DirectionsProvider
	geocoder   ports.Geocoder
	log        *zap.Logger
}

func NewSessionStore(
	directions ports.DirectionsProvider,
	geocoder ports.Geocoder,
	ttl time.Duration,
	log *zap.Logger,
) *SessionStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionStore{
		sessions:   gocache.New(ttl, ttl/2),
		directions: directions,
		geocoder:   geocoder,
		log:        log,
	}
}

// Create starts a new session on a fresh scene and initialises it with opts.
// Errors are collected on the entry instead of alerting the page.
func (s *SessionStore) Create(opts domain.Options) *SessionEntry {
	id := uuid.NewString()
	sc := scene.New()

	entry := &SessionEntry{ID: id, Scene: sc}
	entry.Session = services.NewSession(sc, sc, s.directions, s.geocoder, s.log.With(zap.String("session_id", id)))

	opts.ShowError = entry.report
	entry.Session.Init(opts)

	s.sessions.Set(id, entry, gocache.DefaultExpiration)
	return entry
}

// Get returns the session and extends its idle TTL.
func (s *SessionStore) Get(id string) (*SessionEntry, bool) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	entry := v.(*SessionEntry)
	s.sessions.Set(id, entry, gocache.DefaultExpiration)
	return entry, true
}

// Delete removes a session. It reports whether the session existed.
func (s *SessionStore) Delete(id string) bool {
	if _, ok := s.sessions.Get(id); !ok {
		return false
	}
	s.sessions.Delete(id)
	return true
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return s.sessions.ItemCount()
}
