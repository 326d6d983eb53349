package services

import (
	"log"

	"skillscape-agent/models"
)

// ScoreService computes the assessment for a quiz session. Scoring is a
// one-shot operation: once a session is scored, later calls return the
// cached assessment regardless of the answers submitted with them.
type ScoreService struct {
	sessions *SessionStoreService
}

func NewScoreService(sessions *SessionStoreService) *ScoreService {
	return &ScoreService{sessions: sessions}
}

func (s *ScoreService) ScoreQuiz(sessionID string, answers models.Answers) (*models.Assessment, error) {
	log.Printf("[INFO] Scoring quiz session %s with %d answers", sessionID, len(answers))

	// The scored check goes through the store so it happens under the
	// repository lock, never against shared quiz state.
	cached, err := s.sessions.CachedAssessment(sessionID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		log.Printf("[INFO] Session %s already scored, returning cached assessment", sessionID)
		return cached, nil
	}

	quiz, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	assessment := s.computeAssessment(quiz, answers)

	// MarkScored is an atomic check-and-set: if another request scored the
	// session first, the winner's assessment comes back instead of ours.
	return s.sessions.MarkScored(sessionID, assessment)
}

type topicTally struct {
	correct int
	total   int
}

func (s *ScoreService) computeAssessment(quiz *models.Quiz, answers models.Answers) *models.Assessment {
	tallies := make(map[string]*topicTally)
	topicOrder := []string{}

	for _, q := range quiz.Questions {
		topic := q.Topic
		if topic == "" {
			topic = "General"
		}

		tally, ok := tallies[topic]
		if !ok {
			tally = &topicTally{}
			tallies[topic] = tally
			topicOrder = append(topicOrder, topic)
		}

		tally.total++
		// A missing or unknown question id simply counts as incorrect.
		if answers[q.ID] == q.Correct {
			tally.correct++
		}
	}

	topicsAssessed := make([]models.TopicAssessment, 0, len(topicOrder))
	focusAreas := []string{}
	skipAreas := []string{}
	totalCorrect := 0
	totalQuestions := 0

	for _, topic := range topicOrder {
		tally := tallies[topic]

		score := 0.0
		if tally.total > 0 {
			score = float64(tally.correct) / float64(tally.total)
		}

		status := models.TopicStatusNeedsReview
		if score >= models.ProficiencyThreshold {
			status = models.TopicStatusProficient
			skipAreas = append(skipAreas, topic)
		} else {
			focusAreas = append(focusAreas, topic)
		}

		topicsAssessed = append(topicsAssessed, models.TopicAssessment{
			Topic:            topic,
			Score:            score,
			Status:           status,
			QuestionsCorrect: tally.correct,
			QuestionsTotal:   tally.total,
		})

		totalCorrect += tally.correct
		totalQuestions += tally.total
	}

	overall := 0.0
	if totalQuestions > 0 {
		overall = float64(totalCorrect) / float64(totalQuestions)
	}

	log.Printf("[INFO] Computed assessment for session %s: %d/%d correct across %d topics",
		quiz.SessionID, totalCorrect, totalQuestions, len(topicsAssessed))

	return &models.Assessment{
		SessionID:        quiz.SessionID,
		Status:           "complete",
		ContentTitle:     quiz.Title,
		TopicsAssessed:   topicsAssessed,
		OverallKnowledge: overall,
		FocusAreas:       focusAreas,
		SkipAreas:        skipAreas,
	}
}
