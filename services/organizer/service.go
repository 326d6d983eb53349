package organizer

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"skillscape-agent/models"
	"skillscape-agent/services/llmclient"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms"
)

const (
	contentLimit = 5000
	maxTitleLen  = 60
	maxSubjects  = 3
	maxTags      = 5
)

// Service derives filing metadata for learning content. It is stateless;
// when an assessment is supplied the progress fields are computed from it
// deterministically, overriding whatever the model proposed.
type Service struct {
	llm llms.Model
}

func NewService(llm llms.Model) *Service {
	return &Service{llm: llm}
}

type Input struct {
	Content          string
	ContentType      string
	URL              string
	Assessment       *models.Assessment
	ExistingSubjects []string
}

// organizePayload mirrors the JSON shape the model is asked to produce.
// Some models flatten the envelope and return the node fields at the top
// level, so the node shape is embedded for a second decode attempt.
type organizePayload struct {
	ContentNode  *nodePayload       `json:"content_node"`
	AISuggestion *suggestionPayload `json:"ai_suggestion"`
}

type nodePayload struct {
	Title             string   `json:"title"`
	Medium            string   `json:"medium"`
	Subjects          []string `json:"subjects"`
	Status            string   `json:"status"`
	ProgressPercent   int      `json:"progressPercent"`
	Author            string   `json:"author"`
	Source            string   `json:"source"`
	EstimatedDuration int      `json:"estimatedDuration"`
	Priority          int      `json:"priority"`
	Notes             string   `json:"notes"`
	Tags              []string `json:"tags"`
}

type suggestionPayload struct {
	Title        string   `json:"title"`
	Medium       string   `json:"medium"`
	Subjects     []string `json:"subjects"`
	Tags         []string `json:"tags"`
	IsNewSubject *bool    `json:"isNewSubject"`
	Confidence   *float64 `json:"confidence"`
}

func (s *Service) OrganizeContent(ctx context.Context, input Input) (*models.OrganizeResult, error) {
	log.Printf("[INFO] Organizing content: type=%s, url=%q, has_assessment=%t",
		input.ContentType, input.URL, input.Assessment != nil)

	progress := 0
	if input.Assessment != nil {
		progress = int(math.Round(input.Assessment.OverallKnowledge * 100))
	}
	status := progressStatus(progress)

	prompt := fmt.Sprintf(ORGANIZE_PROMPT,
		llmclient.PromptContent(input.Content, input.ContentType, contentLimit),
		orDefault(input.URL, "Not provided"),
		orDefault(strings.Join(input.ExistingSubjects, ", "), "None yet"),
		s.assessmentSection(input.Assessment, progress, status),
	)

	userParts, err := llmclient.UserParts(input.Content, input.ContentType, prompt)
	if err != nil {
		return nil, err
	}

	raw, err := llmclient.Generate(ctx, s.llm, ORGANIZER_SYSTEM_PROMPT, userParts, 0.3)
	if err != nil {
		log.Printf("[ERROR] Organize call failed: %v", err)
		return nil, fmt.Errorf("failed to organize content: %w", err)
	}

	node, suggestion, err := decodePayload(raw)
	if err != nil {
		log.Printf("[ERROR] Organize returned malformed output: %v", err)
		return nil, fmt.Errorf("failed to organize content: %w", err)
	}

	result := s.buildResult(node, suggestion, input, progress, status)

	log.Printf("[INFO] Organized content: title=%q, medium=%s, subjects=%v, progress=%d%%",
		result.ContentNode.Title, result.ContentNode.Medium, result.ContentNode.Subjects, result.ContentNode.ProgressPercent)
	return result, nil
}

func decodePayload(raw string) (*nodePayload, *suggestionPayload, error) {
	var payload organizePayload
	if err := llmclient.DecodeJSON(raw, &payload); err != nil {
		return nil, nil, err
	}

	if payload.ContentNode != nil {
		return payload.ContentNode, payload.AISuggestion, nil
	}

	// Flat shape: the node fields sit at the top level.
	var node nodePayload
	if err := llmclient.DecodeJSON(raw, &node); err != nil {
		return nil, nil, err
	}
	if node.Title == "" && len(node.Subjects) == 0 {
		return nil, nil, fmt.Errorf("organize response has no content node")
	}
	return &node, payload.AISuggestion, nil
}

func (s *Service) buildResult(node *nodePayload, suggestion *suggestionPayload, input Input, progress int, status string) *models.OrganizeResult {
	subjects, isNew := canonicalSubjects(node.Subjects, input.ExistingSubjects)

	priority := node.Priority
	if priority < 1 || priority > 5 {
		priority = 3
	}

	contentNode := models.ContentNode{
		Title:             truncate(orDefault(strings.TrimSpace(node.Title), "Untitled"), maxTitleLen),
		Medium:            normalizeMedium(node.Medium),
		Subjects:          subjects,
		URL:               input.URL,
		Status:            status,
		ProgressPercent:   clamp(progress, 0, 100),
		Author:            strings.TrimSpace(node.Author),
		Source:            strings.TrimSpace(node.Source),
		EstimatedDuration: node.EstimatedDuration,
		Priority:          priority,
		Notes:             strings.TrimSpace(node.Notes),
		Tags:              capSlice(node.Tags, maxTags),
	}

	aiSuggestion := models.AISuggestion{
		Title:        contentNode.Title,
		Medium:       contentNode.Medium,
		Subjects:     contentNode.Subjects,
		Tags:         contentNode.Tags,
		IsNewSubject: isNew,
		Confidence:   0.8,
	}
	if suggestion != nil {
		if t := strings.TrimSpace(suggestion.Title); t != "" {
			aiSuggestion.Title = truncate(t, maxTitleLen)
		}
		if len(suggestion.Subjects) > 0 {
			aiSuggestion.Subjects, aiSuggestion.IsNewSubject = canonicalSubjects(suggestion.Subjects, input.ExistingSubjects)
		}
		if len(suggestion.Tags) > 0 {
			aiSuggestion.Tags = capSlice(suggestion.Tags, maxTags)
		}
		if suggestion.Confidence != nil {
			aiSuggestion.Confidence = *suggestion.Confidence
		}
	}

	return &models.OrganizeResult{
		ContentNode:  contentNode,
		AISuggestion: aiSuggestion,
	}
}

func (s *Service) assessmentSection(assessment *models.Assessment, progress int, status string) string {
	if assessment == nil {
		return "No assessment data provided."
	}
	return fmt.Sprintf(ASSESSMENT_SECTION_TEMPLATE,
		progress,
		strings.Join(assessment.FocusAreas, ", "),
		strings.Join(assessment.SkipAreas, ", "),
		progress,
		status,
	)
}

// progressStatus derives status purely from the scorer-backed progress
// value, never from the model's guess.
func progressStatus(progress int) string {
	switch {
	case progress >= 100:
		return models.StatusCompleted
	case progress > 0:
		return models.StatusInProgress
	default:
		return models.StatusNotStarted
	}
}

// canonicalSubjects maps each proposed subject onto an existing subject
// name when one matches (fold-insensitive, small-edit tolerant), capped at
// the subject limit. The second return is true when the primary subject
// matched nothing in the existing set.
func canonicalSubjects(proposed, existing []string) ([]string, bool) {
	subjects := lo.Map(capSlice(proposed, maxSubjects), func(subject string, _ int) string {
		if match, ok := matchExisting(subject, existing); ok {
			return match
		}
		return strings.TrimSpace(subject)
	})

	isNew := true
	if len(subjects) > 0 {
		_, matched := matchExisting(subjects[0], existing)
		isNew = !matched
	}
	return subjects, isNew
}

func matchExisting(subject string, existing []string) (string, bool) {
	trimmed := strings.TrimSpace(subject)
	for _, candidate := range existing {
		if strings.EqualFold(trimmed, candidate) {
			return candidate, true
		}
		if fuzzy.LevenshteinDistance(strings.ToLower(trimmed), strings.ToLower(candidate)) <= 2 {
			return candidate, true
		}
	}
	return "", false
}

func normalizeMedium(medium string) string {
	normalized := strings.ToLower(strings.TrimSpace(medium))
	if models.ValidMediums[normalized] {
		return normalized
	}
	return models.MediumArticle
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func capSlice(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
