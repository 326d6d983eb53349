package models

// ProficiencyThreshold is the canonical score boundary: a topic scoring at
// or above it is proficient and lands in skip_areas.
const ProficiencyThreshold = 0.7

const (
	TopicStatusProficient  = "proficient"
	TopicStatusNeedsReview = "needs_review"
)

// TopicAssessment is the per-topic scoring result.
type TopicAssessment struct {
	Topic            string  `json:"topic"`
	Score            float64 `json:"score"`
	Status           string  `json:"status"`
	QuestionsCorrect int     `json:"questions_correct"`
	QuestionsTotal   int     `json:"questions_total"`
}

// Assessment is the whole-quiz scoring result. Topics appear in the order
// they were first seen while iterating the quiz's questions.
type Assessment struct {
	SessionID        string            `json:"session_id"`
	Status           string            `json:"status"`
	ContentTitle     string            `json:"content_title"`
	TopicsAssessed   []TopicAssessment `json:"topics_assessed"`
	OverallKnowledge float64           `json:"overall_knowledge"`
	FocusAreas       []string          `json:"focus_areas"`
	SkipAreas        []string          `json:"skip_areas"`

	// EstimatedLearningTime is a free-form duration like "30 min". The
	// deterministic scorer leaves it empty; clients may supply it on
	// inline assessments and it passes through untouched.
	EstimatedLearningTime string `json:"estimated_learning_time,omitempty"`
}
