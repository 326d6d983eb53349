package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"skillscape-agent/models"
)

func testQuiz(title string) *models.Quiz {
	return &models.Quiz{
		Title:  title,
		Topics: []string{"Topic A"},
		Questions: []models.Question{
			{ID: "q1", Topic: "Topic A", Question: "?", Options: map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"}, Correct: "A"},
		},
	}
}

func TestPutAndGet(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 100)

	sessionID, err := repo.Put(testQuiz("Quiz 1"))
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if sessionID == "" {
		t.Fatal("Put() returned empty session id")
	}

	quiz, err := repo.Get(sessionID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if quiz.Title != "Quiz 1" {
		t.Errorf("Get() title = %q, expected %q", quiz.Title, "Quiz 1")
	}
	if quiz.SessionID != sessionID {
		t.Errorf("Get() session id = %q, expected %q", quiz.SessionID, sessionID)
	}
}

func TestGetUnknownSession(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 100)

	if _, err := repo.Get("no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() error = %v, expected ErrSessionNotFound", err)
	}
}

func TestPutRejectsNilQuiz(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 100)

	if _, err := repo.Put(nil); err == nil {
		t.Error("Put(nil) succeeded, expected error")
	}
}

func TestSessionExpiry(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Minute, 100)

	current := time.Unix(1000, 0)
	repo.now = func() time.Time { return current }

	sessionID, err := repo.Put(testQuiz("Quiz 1"))
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	if _, err := repo.Get(sessionID); err != nil {
		t.Fatalf("Get() before expiry failed: %v", err)
	}

	current = current.Add(2 * time.Minute)

	if _, err := repo.Get(sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after expiry error = %v, expected ErrSessionNotFound", err)
	}
	if _, err := repo.MarkScored(sessionID, &models.Assessment{SessionID: sessionID}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("MarkScored() after expiry error = %v, expected ErrSessionNotFound", err)
	}

	// The next Put reaps the expired entry.
	if _, err := repo.Put(testQuiz("Quiz 2")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if got := repo.Len(); got != 1 {
		t.Errorf("Len() after reap = %d, expected 1", got)
	}
}

func TestCapacityEviction(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 2)

	current := time.Unix(1000, 0)
	repo.now = func() time.Time { return current }

	first, _ := repo.Put(testQuiz("Quiz 1"))
	current = current.Add(time.Second)
	second, _ := repo.Put(testQuiz("Quiz 2"))
	current = current.Add(time.Second)
	third, _ := repo.Put(testQuiz("Quiz 3"))

	if got := repo.Len(); got != 2 {
		t.Fatalf("Len() = %d, expected 2", got)
	}
	if _, err := repo.Get(first); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("oldest session survived eviction, error = %v", err)
	}
	for _, id := range []string{second, third} {
		if _, err := repo.Get(id); err != nil {
			t.Errorf("Get(%q) failed after eviction pass: %v", id, err)
		}
	}
}

func TestMarkScoredIdempotence(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 100)

	sessionID, _ := repo.Put(testQuiz("Quiz 1"))

	first := &models.Assessment{SessionID: sessionID, OverallKnowledge: 1.0}
	second := &models.Assessment{SessionID: sessionID, OverallKnowledge: 0.0}

	got, err := repo.MarkScored(sessionID, first)
	if err != nil {
		t.Fatalf("MarkScored() failed: %v", err)
	}
	if got != first {
		t.Error("first MarkScored() did not return the supplied assessment")
	}

	got, err = repo.MarkScored(sessionID, second)
	if err != nil {
		t.Fatalf("second MarkScored() failed: %v", err)
	}
	if got != first {
		t.Error("second MarkScored() did not return the original cached assessment")
	}

	cached, err := repo.CachedAssessment(sessionID)
	if err != nil {
		t.Fatalf("CachedAssessment() failed: %v", err)
	}
	if cached != first {
		t.Error("cached assessment inconsistent after repeated MarkScored()")
	}
}

func TestCachedAssessmentUnscored(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 100)

	sessionID, _ := repo.Put(testQuiz("Quiz 1"))

	cached, err := repo.CachedAssessment(sessionID)
	if err != nil {
		t.Fatalf("CachedAssessment() failed: %v", err)
	}
	if cached != nil {
		t.Errorf("CachedAssessment() = %+v before scoring, expected nil", cached)
	}

	if _, err := repo.CachedAssessment("no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("CachedAssessment() error = %v, expected ErrSessionNotFound", err)
	}
}

func TestMarkScoredRejectsNilAssessment(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 100)

	sessionID, _ := repo.Put(testQuiz("Quiz 1"))

	if _, err := repo.MarkScored(sessionID, nil); err == nil {
		t.Error("MarkScored(nil) succeeded, expected error")
	}

	cached, _ := repo.CachedAssessment(sessionID)
	if cached != nil {
		t.Error("failed MarkScored() recorded an assessment")
	}
}

func TestMarkScoredConcurrentRace(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 100)

	sessionID, _ := repo.Put(testQuiz("Quiz 1"))

	const racers = 16
	results := make([]*models.Assessment, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			attempt := &models.Assessment{SessionID: sessionID, OverallKnowledge: float64(i)}
			got, err := repo.MarkScored(sessionID, attempt)
			if err != nil {
				t.Errorf("MarkScored() failed: %v", err)
				return
			}
			results[i] = got
		}(i)
	}
	wg.Wait()

	for i := 1; i < racers; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent MarkScored() calls observed different assessments")
		}
	}
}

// Readers holding the quiz pointer from Get must be able to poll the
// scored state concurrently with MarkScored without a data race.
func TestScoredStateReadableDuringMark(t *testing.T) {
	repo := NewInMemorySessionRepository(time.Hour, 100)

	sessionID, _ := repo.Put(testQuiz("Quiz 1"))
	quiz, err := repo.Get(sessionID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if quiz.Title == "" {
				t.Error("quiz mutated while stored")
				return
			}
			cached, err := repo.CachedAssessment(sessionID)
			if err != nil {
				t.Errorf("CachedAssessment() failed: %v", err)
				return
			}
			if cached != nil {
				return
			}
		}
	}()

	assessment := &models.Assessment{SessionID: sessionID, OverallKnowledge: 0.5}
	if _, err := repo.MarkScored(sessionID, assessment); err != nil {
		t.Fatalf("MarkScored() failed: %v", err)
	}
	<-done

	cached, _ := repo.CachedAssessment(sessionID)
	if cached != assessment {
		t.Error("reader finished but cached assessment is not the one recorded")
	}
}
