package store

import (
	"errors"
	"sync"
	"time"

	"skillscape-agent/models"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id is unknown or has
// expired. The HTTP layer maps it to a client error, not a server fault.
var ErrSessionNotFound = errors.New("quiz session not found")

type SessionRepository interface {
	Put(quiz *models.Quiz) (string, error)
	Get(sessionID string) (*models.Quiz, error)
	CachedAssessment(sessionID string) (*models.Assessment, error)
	MarkScored(sessionID string, assessment *models.Assessment) (*models.Assessment, error)
	Len() int
}

// sessionEntry pairs the stored quiz with its scoring state. The quiz is
// never written after Put; assessment is only read and written under the
// repository lock, so handing out the quiz pointer stays race-free.
type sessionEntry struct {
	quiz       *models.Quiz
	createdAt  time.Time
	assessment *models.Assessment
}

// InMemorySessionRepository is a mutex-guarded keyed store for quiz
// sessions with time-based expiry and a capacity bound. Expired sessions
// are invisible to Get and MarkScored and are reaped on the next Put.
type InMemorySessionRepository struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

func NewInMemorySessionRepository(ttl time.Duration, maxSessions int) *InMemorySessionRepository {
	return &InMemorySessionRepository{
		sessions:    make(map[string]*sessionEntry),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Put stores the quiz under a fresh session id and returns the id.
func (r *InMemorySessionRepository) Put(quiz *models.Quiz) (string, error) {
	if quiz == nil {
		return "", errors.New("quiz cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.reapLocked()

	sessionID := uuid.NewString()
	quiz.SessionID = sessionID
	r.sessions[sessionID] = &sessionEntry{quiz: quiz, createdAt: r.now()}

	return sessionID, nil
}

func (r *InMemorySessionRepository) Get(sessionID string) (*models.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok || r.expiredLocked(entry) {
		return nil, ErrSessionNotFound
	}
	return entry.quiz, nil
}

// CachedAssessment returns the assessment recorded for a session, or nil
// when the session exists but has not been scored yet.
func (r *InMemorySessionRepository) CachedAssessment(sessionID string) (*models.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok || r.expiredLocked(entry) {
		return nil, ErrSessionNotFound
	}
	return entry.assessment, nil
}

// MarkScored records the assessment for a session. The scored check and
// the write happen under one lock: if the session is already scored the
// original cached assessment is returned, so a racing second scorer always
// observes the winner's result.
func (r *InMemorySessionRepository) MarkScored(sessionID string, assessment *models.Assessment) (*models.Assessment, error) {
	if assessment == nil {
		return nil, errors.New("assessment cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok || r.expiredLocked(entry) {
		return nil, ErrSessionNotFound
	}

	if entry.assessment != nil {
		return entry.assessment, nil
	}

	entry.assessment = assessment
	return assessment, nil
}

func (r *InMemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *InMemorySessionRepository) expiredLocked(entry *sessionEntry) bool {
	return r.ttl > 0 && r.now().Sub(entry.createdAt) > r.ttl
}

// reapLocked drops expired sessions, then evicts oldest-first until the
// store is below capacity for the incoming session.
func (r *InMemorySessionRepository) reapLocked() {
	for id, entry := range r.sessions {
		if r.expiredLocked(entry) {
			delete(r.sessions, id)
		}
	}

	if r.maxSessions <= 0 {
		return
	}

	for len(r.sessions) >= r.maxSessions {
		oldestID := ""
		var oldestAt time.Time
		for id, entry := range r.sessions {
			if oldestID == "" || entry.createdAt.Before(oldestAt) {
				oldestID = id
				oldestAt = entry.createdAt
			}
		}
		delete(r.sessions, oldestID)
	}
}
