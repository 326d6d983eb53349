package assessor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"skillscape-agent/models"
	"skillscape-agent/services"
	"skillscape-agent/services/llmclient"

	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms"
)

const (
	MinQuestions = 3
	MaxQuestions = 10

	contentLimit = 5000
)

// Service generates knowledge assessment quizzes from learning content and
// registers them in the session store.
type Service struct {
	llm      llms.Model
	sessions *services.SessionStoreService
}

func NewService(llm llms.Model, sessions *services.SessionStoreService) *Service {
	return &Service{llm: llm, sessions: sessions}
}

// generatedQuiz mirrors the JSON shape the model is asked to produce.
type generatedQuiz struct {
	Title     string              `json:"title"`
	Topics    []string            `json:"topics"`
	Questions []generatedQuestion `json:"questions"`
}

type generatedQuestion struct {
	ID            string            `json:"id"`
	Topic         string            `json:"topic"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
}

// GenerateQuiz produces a quiz for the content, stores the full quiz
// (answers included) under a fresh session id, and returns the sanitized,
// answer-free view.
func (s *Service) GenerateQuiz(ctx context.Context, content, contentType string, numQuestions int) (*models.QuizResponse, error) {
	log.Printf("[INFO] Generating quiz: type=%s, %d questions", contentType, numQuestions)

	if numQuestions < MinQuestions || numQuestions > MaxQuestions {
		return nil, fmt.Errorf("num_questions must be between %d and %d", MinQuestions, MaxQuestions)
	}

	perTopic := numQuestions / 3
	if perTopic < 1 {
		perTopic = 1
	}

	prompt := fmt.Sprintf(QUIZ_GENERATION_PROMPT,
		llmclient.PromptContent(content, contentType, contentLimit),
		perTopic,
		numQuestions,
	)

	userParts, err := llmclient.UserParts(content, contentType, prompt)
	if err != nil {
		return nil, err
	}

	raw, err := llmclient.Generate(ctx, s.llm, ASSESSOR_SYSTEM_PROMPT, userParts, 0.3)
	if err != nil {
		log.Printf("[ERROR] Quiz generation call failed: %v", err)
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}

	var generated generatedQuiz
	if err := llmclient.DecodeJSON(raw, &generated); err != nil {
		log.Printf("[ERROR] Quiz generation returned malformed output: %v", err)
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}

	quiz, err := buildQuiz(&generated)
	if err != nil {
		log.Printf("[ERROR] Quiz generation returned invalid structure: %v", err)
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}

	sessionID, err := s.sessions.CreateSession(quiz)
	if err != nil {
		return nil, err
	}

	// Hidden answers never leave this package: the response questions are
	// rebuilt without the correct label.
	sanitized := lo.Map(quiz.Questions, func(q models.Question, _ int) models.Question {
		return models.Question{
			ID:       q.ID,
			Topic:    q.Topic,
			Question: q.Question,
			Options:  q.Options,
		}
	})

	log.Printf("[INFO] Generated quiz %q with %d questions across %d topics, session %s",
		quiz.Title, len(quiz.Questions), len(quiz.Topics), sessionID)

	return &models.QuizResponse{
		SessionID:    sessionID,
		Status:       "awaiting_answers",
		ContentTitle: quiz.Title,
		Topics:       quiz.Topics,
		Questions:    sanitized,
	}, nil
}

// buildQuiz validates the model payload and normalizes it into the
// internal quiz shape, with the external correct_answer field folded into
// the hidden Correct field.
func buildQuiz(generated *generatedQuiz) (*models.Quiz, error) {
	if len(generated.Questions) == 0 {
		return nil, fmt.Errorf("quiz has no questions")
	}

	title := strings.TrimSpace(generated.Title)
	if title == "" {
		title = "Quiz"
	}

	questions := make([]models.Question, 0, len(generated.Questions))
	for i, q := range generated.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return nil, fmt.Errorf("question %d is missing an id", i+1)
		}
		if len(q.Options) != len(models.OptionLabels) {
			return nil, fmt.Errorf("question %s has %d options, expected %d", q.ID, len(q.Options), len(models.OptionLabels))
		}
		for _, label := range models.OptionLabels {
			if _, ok := q.Options[label]; !ok {
				return nil, fmt.Errorf("question %s is missing option %s", q.ID, label)
			}
		}
		correct := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
		if _, ok := q.Options[correct]; !ok {
			return nil, fmt.Errorf("question %s has correct answer %q outside its options", q.ID, q.CorrectAnswer)
		}

		topic := strings.TrimSpace(q.Topic)
		if topic == "" {
			topic = "General"
		}

		questions = append(questions, models.Question{
			ID:       q.ID,
			Topic:    topic,
			Question: q.Question,
			Options:  q.Options,
			Correct:  correct,
		})
	}

	return &models.Quiz{
		Title:     title,
		Topics:    generated.Topics,
		Questions: questions,
	}, nil
}
