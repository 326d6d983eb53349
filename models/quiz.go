package models

// OptionLabels are the only valid answer choices for a quiz question.
var OptionLabels = []string{"A", "B", "C", "D"}

// Question is a single multiple-choice question. Correct is never
// serialized: clients only ever see the sanitized view.
type Question struct {
	ID       string            `json:"id"`
	Topic    string            `json:"topic"`
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Correct  string            `json:"-"`
}

// Quiz is the full generated quiz, including hidden correct answers. It
// lives in the session store and is immutable once stored; the one-shot
// scoring state is tracked by the store itself.
type Quiz struct {
	SessionID string
	Title     string
	Topics    []string
	Questions []Question
}

// Answers maps question id to the selected option label.
type Answers map[string]string

// QuizResponse is the sanitized view returned to the quiz-taking client.
type QuizResponse struct {
	SessionID    string     `json:"session_id"`
	Status       string     `json:"status"`
	ContentTitle string     `json:"content_title"`
	Topics       []string   `json:"topics"`
	Questions    []Question `json:"questions"`
}
