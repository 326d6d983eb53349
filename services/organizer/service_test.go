package organizer

import (
	"context"
	"strings"
	"testing"

	"skillscape-agent/models"

	"github.com/tmc/langchaingo/llms"
)

type stubModel struct {
	response     string
	err          error
	lastMessages []llms.MessageContent
}

func (m *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.lastMessages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.response}},
	}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

const organizeJSON = `{
	"content_node": {
		"title": "Attention Is All You Need",
		"medium": "research_paper",
		"subjects": ["Machine Learning", "NLP"],
		"status": "in_progress",
		"progressPercent": 10,
		"author": "Vaswani et al.",
		"source": "arXiv",
		"estimatedDuration": 45,
		"priority": 2,
		"notes": "Dense but foundational.",
		"tags": ["transformers", "attention"]
	},
	"ai_suggestion": {
		"title": "Attention Is All You Need",
		"medium": "research_paper",
		"subjects": ["Machine Learning"],
		"tags": ["transformers"],
		"isNewSubject": true,
		"confidence": 0.95
	}
}`

func assessmentWithOverall(overall float64) *models.Assessment {
	return &models.Assessment{
		SessionID:        "s1",
		Status:           "complete",
		ContentTitle:     "Attention Is All You Need",
		OverallKnowledge: overall,
		FocusAreas:       []string{"Attention"},
		SkipAreas:        []string{"Embeddings"},
	}
}

func TestOrganizeOverridesProgressFromAssessment(t *testing.T) {
	svc := NewService(&stubModel{response: organizeJSON})

	result, err := svc.OrganizeContent(context.Background(), Input{
		Content:     "the paper text",
		ContentType: "text",
		Assessment:  assessmentWithOverall(1.0),
	})
	if err != nil {
		t.Fatalf("OrganizeContent() failed: %v", err)
	}

	// The model proposed 10% / in_progress; the assessment wins.
	if result.ContentNode.ProgressPercent != 100 {
		t.Errorf("progress = %d, expected 100", result.ContentNode.ProgressPercent)
	}
	if result.ContentNode.Status != models.StatusCompleted {
		t.Errorf("status = %q, expected completed", result.ContentNode.Status)
	}
}

func TestOrganizePartialKnowledgeRoundsProgress(t *testing.T) {
	svc := NewService(&stubModel{response: organizeJSON})

	result, err := svc.OrganizeContent(context.Background(), Input{
		Content:     "the paper text",
		ContentType: "text",
		Assessment:  assessmentWithOverall(2.0 / 3.0),
	})
	if err != nil {
		t.Fatalf("OrganizeContent() failed: %v", err)
	}

	if result.ContentNode.ProgressPercent != 67 {
		t.Errorf("progress = %d, expected 67", result.ContentNode.ProgressPercent)
	}
	if result.ContentNode.Status != models.StatusInProgress {
		t.Errorf("status = %q, expected in_progress", result.ContentNode.Status)
	}
}

func TestOrganizeWithoutAssessment(t *testing.T) {
	model := &stubModel{response: organizeJSON}
	svc := NewService(model)

	result, err := svc.OrganizeContent(context.Background(), Input{
		Content:     "the paper text",
		ContentType: "text",
	})
	if err != nil {
		t.Fatalf("OrganizeContent() failed: %v", err)
	}

	if result.ContentNode.ProgressPercent != 0 {
		t.Errorf("progress = %d, expected 0", result.ContentNode.ProgressPercent)
	}
	if result.ContentNode.Status != models.StatusNotStarted {
		t.Errorf("status = %q, expected not_started", result.ContentNode.Status)
	}

	prompt := promptText(t, model.lastMessages)
	if !strings.Contains(prompt, "No assessment data provided.") {
		t.Error("prompt missing the no-assessment section")
	}
}

func TestOrganizeAssessmentSectionInPrompt(t *testing.T) {
	model := &stubModel{response: organizeJSON}
	svc := NewService(model)

	if _, err := svc.OrganizeContent(context.Background(), Input{
		Content:     "the paper text",
		ContentType: "text",
		Assessment:  assessmentWithOverall(0.5),
	}); err != nil {
		t.Fatalf("OrganizeContent() failed: %v", err)
	}

	prompt := promptText(t, model.lastMessages)
	if !strings.Contains(prompt, "Focus Areas: Attention") {
		t.Error("prompt missing focus areas")
	}
	if !strings.Contains(prompt, "Topics to Skip: Embeddings") {
		t.Error("prompt missing skip areas")
	}
}

func TestOrganizeFlatNodeShape(t *testing.T) {
	flat := `{
		"title": "Flat Response",
		"medium": "video",
		"subjects": ["Systems"],
		"tags": ["kafka"]
	}`
	svc := NewService(&stubModel{response: flat})

	result, err := svc.OrganizeContent(context.Background(), Input{Content: "c", ContentType: "text"})
	if err != nil {
		t.Fatalf("OrganizeContent() failed: %v", err)
	}
	if result.ContentNode.Title != "Flat Response" || result.ContentNode.Medium != models.MediumVideo {
		t.Errorf("node = %+v", result.ContentNode)
	}
}

func TestOrganizeNormalization(t *testing.T) {
	long := strings.Repeat("t", 80)
	messy := `{
		"content_node": {
			"title": "` + long + `",
			"medium": "BLOG POST",
			"subjects": ["A", "B", "C", "D"],
			"priority": 9,
			"tags": ["1", "2", "3", "4", "5", "6"]
		}
	}`
	svc := NewService(&stubModel{response: messy})

	result, err := svc.OrganizeContent(context.Background(), Input{Content: "c", ContentType: "text"})
	if err != nil {
		t.Fatalf("OrganizeContent() failed: %v", err)
	}

	if len(result.ContentNode.Title) != 60 {
		t.Errorf("title length = %d, expected 60", len(result.ContentNode.Title))
	}
	if result.ContentNode.Medium != models.MediumArticle {
		t.Errorf("medium = %q, expected article fallback", result.ContentNode.Medium)
	}
	if len(result.ContentNode.Subjects) != 3 {
		t.Errorf("subjects = %v, expected 3", result.ContentNode.Subjects)
	}
	if result.ContentNode.Priority != 3 {
		t.Errorf("priority = %d, expected default 3", result.ContentNode.Priority)
	}
	if len(result.ContentNode.Tags) != 5 {
		t.Errorf("tags = %v, expected 5", result.ContentNode.Tags)
	}
}

func TestOrganizeSubjectReuse(t *testing.T) {
	response := `{
		"content_node": {
			"title": "T",
			"medium": "article",
			"subjects": ["machine lerning", "Databases"]
		}
	}`
	svc := NewService(&stubModel{response: response})

	result, err := svc.OrganizeContent(context.Background(), Input{
		Content:          "c",
		ContentType:      "text",
		ExistingSubjects: []string{"Machine Learning", "Frontend"},
	})
	if err != nil {
		t.Fatalf("OrganizeContent() failed: %v", err)
	}

	// Near-miss reuses the existing subject name; the primary matched, so
	// this is not a new subject.
	if result.ContentNode.Subjects[0] != "Machine Learning" {
		t.Errorf("subject[0] = %q, expected canonical Machine Learning", result.ContentNode.Subjects[0])
	}
	if result.ContentNode.Subjects[1] != "Databases" {
		t.Errorf("subject[1] = %q, expected Databases kept as proposed", result.ContentNode.Subjects[1])
	}
	if result.AISuggestion.IsNewSubject {
		t.Error("isNewSubject = true, expected false for a matched primary subject")
	}
}

func TestOrganizeNewSubject(t *testing.T) {
	response := `{"content_node": {"title": "T", "medium": "article", "subjects": ["Quantum Computing"]}}`
	svc := NewService(&stubModel{response: response})

	result, err := svc.OrganizeContent(context.Background(), Input{
		Content:          "c",
		ContentType:      "text",
		ExistingSubjects: []string{"Frontend"},
	})
	if err != nil {
		t.Fatalf("OrganizeContent() failed: %v", err)
	}
	if !result.AISuggestion.IsNewSubject {
		t.Error("isNewSubject = false, expected true for an unmatched subject")
	}
}

func TestOrganizeMalformedResponse(t *testing.T) {
	svc := NewService(&stubModel{response: "no json here"})

	if _, err := svc.OrganizeContent(context.Background(), Input{Content: "c", ContentType: "text"}); err == nil {
		t.Error("OrganizeContent() accepted malformed output")
	}
}

func promptText(t *testing.T, messages []llms.MessageContent) string {
	t.Helper()

	var sb strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				sb.WriteString(text.Text)
			}
		}
	}
	if sb.Len() == 0 {
		t.Fatal("no text parts captured from model call")
	}
	return sb.String()
}
