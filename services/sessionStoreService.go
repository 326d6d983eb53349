package services

import (
	"fmt"
	"log"
	"strings"

	"skillscape-agent/models"
	"skillscape-agent/store"
)

// SessionStoreService owns quiz session lifecycle: registration of freshly
// generated quizzes, lookup, and the one-shot scored-state transition.
type SessionStoreService struct {
	repo store.SessionRepository
}

func NewSessionStoreService(repo store.SessionRepository) *SessionStoreService {
	return &SessionStoreService{repo: repo}
}

func (s *SessionStoreService) CreateSession(quiz *models.Quiz) (string, error) {
	if err := s.validateQuiz(quiz); err != nil {
		log.Printf("[ERROR] Quiz session validation failed: %v", err)
		return "", err
	}

	sessionID, err := s.repo.Put(quiz)
	if err != nil {
		log.Printf("[ERROR] Failed to store quiz session: %v", err)
		return "", fmt.Errorf("failed to store quiz session: %w", err)
	}

	log.Printf("[INFO] Stored quiz session %s (%d questions), store now has %d sessions", sessionID, len(quiz.Questions), s.repo.Len())
	return sessionID, nil
}

func (s *SessionStoreService) GetSession(sessionID string) (*models.Quiz, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	quiz, err := s.repo.Get(sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to get quiz session %s: %v", sessionID, err)
		return nil, err
	}

	return quiz, nil
}

// CachedAssessment returns the recorded assessment for a session, or nil
// when the session has not been scored yet.
func (s *SessionStoreService) CachedAssessment(sessionID string) (*models.Assessment, error) {
	assessment, err := s.repo.CachedAssessment(sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to look up assessment for session %s: %v", sessionID, err)
		return nil, err
	}
	return assessment, nil
}

// MarkScored persists the assessment for a session and returns the
// assessment that now belongs to it, which is the previously cached one
// when the session was already scored.
func (s *SessionStoreService) MarkScored(sessionID string, assessment *models.Assessment) (*models.Assessment, error) {
	result, err := s.repo.MarkScored(sessionID, assessment)
	if err != nil {
		log.Printf("[ERROR] Failed to mark session %s scored: %v", sessionID, err)
		return nil, err
	}

	log.Printf("[INFO] Session %s scored, overall knowledge %.0f%%", sessionID, result.OverallKnowledge*100)
	return result, nil
}

func (s *SessionStoreService) validateQuiz(quiz *models.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("quiz cannot be nil")
	}

	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz must have at least one question")
	}

	for i, q := range quiz.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return fmt.Errorf("question %d is missing an id", i+1)
		}
		if _, ok := q.Options[q.Correct]; !ok {
			return fmt.Errorf("question %s has correct answer %q outside its options", q.ID, q.Correct)
		}
	}

	return nil
}
