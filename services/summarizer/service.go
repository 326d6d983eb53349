package summarizer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"skillscape-agent/models"
	"skillscape-agent/services/llmclient"

	"github.com/tmc/langchaingo/llms"
)

const contentLimit = 8000

// Service produces audience-tailored summaries. It is a stateless
// request-shaping pass over the model: no session store involvement.
type Service struct {
	llm llms.Model
}

func NewService(llm llms.Model) *Service {
	return &Service{llm: llm}
}

type Input struct {
	Content     string
	ContentType string
	Audience    string
	Assessment  *models.Assessment
}

// summarizePayload mirrors the JSON shape the model is asked to produce.
type summarizePayload struct {
	ContentTitle string `json:"content_title"`
	Summary      struct {
		Audience     string   `json:"audience"`
		Content      string   `json:"content"`
		KeyTakeaways []string `json:"key_takeaways"`
		CodeExamples []string `json:"code_examples"`
	} `json:"summary"`
}

func (s *Service) SummarizeContent(ctx context.Context, input Input) (*models.SummarizeResult, error) {
	audience := normalizeAudience(input.Audience)
	log.Printf("[INFO] Summarizing content: type=%s, audience=%s", input.ContentType, audience)

	template := audienceTemplates[audience]
	gapFocus := ""
	if input.Assessment != nil {
		gapFocus = fmt.Sprintf(GAP_FOCUS_TEMPLATE,
			strings.Join(input.Assessment.FocusAreas, ", "),
			strings.Join(input.Assessment.SkipAreas, ", "),
		)
	}

	prompt := fmt.Sprintf(SUMMARIZE_PROMPT,
		llmclient.PromptContent(input.Content, input.ContentType, contentLimit),
		audience,
		fmt.Sprintf(template, gapFocus),
		audience,
	)

	userParts, err := llmclient.UserParts(input.Content, input.ContentType, prompt)
	if err != nil {
		return nil, err
	}

	raw, err := llmclient.Generate(ctx, s.llm, SUMMARIZER_SYSTEM_PROMPT, userParts, 0.5)
	if err != nil {
		log.Printf("[ERROR] Summarize call failed: %v", err)
		return nil, fmt.Errorf("failed to summarize content: %w", err)
	}

	var payload summarizePayload
	if err := llmclient.DecodeJSON(raw, &payload); err != nil {
		log.Printf("[ERROR] Summarize returned malformed output: %v", err)
		return nil, fmt.Errorf("failed to summarize content: %w", err)
	}

	summary := models.SummaryContent{
		Audience:     audience,
		Content:      payload.Summary.Content,
		KeyTakeaways: payload.Summary.KeyTakeaways,
	}
	// Code snippets are an engineering-audience feature only.
	if audience == models.AudienceEngineering {
		summary.CodeExamples = payload.Summary.CodeExamples
	}

	title := strings.TrimSpace(payload.ContentTitle)
	if title == "" {
		title = "Untitled"
	}

	log.Printf("[INFO] Summarized %q for %s audience with %d takeaways", title, audience, len(summary.KeyTakeaways))

	return &models.SummarizeResult{
		ContentTitle: title,
		Summary:      summary,
	}, nil
}

func normalizeAudience(audience string) string {
	switch strings.ToLower(strings.TrimSpace(audience)) {
	case models.AudienceEngineering:
		return models.AudienceEngineering
	case models.AudienceBusiness:
		return models.AudienceBusiness
	default:
		return models.AudienceSelf
	}
}
