package llmclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const (
	ContentTypeText = "text"
	ContentTypePDF  = "pdf"
)

// New builds the content-understanding model used by the assessor,
// organizer and summarizer services.
func New(ctx context.Context, apiKey, model string) (llms.Model, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}

	log.Printf("[INFO] Initialized model client for %s", model)
	return llm, nil
}

// UserParts assembles the human message for a generation call. Text
// content is already embedded in the prompt; PDF content arrives base64
// encoded and is attached as a binary part ahead of the prompt.
func UserParts(content, contentType, prompt string) ([]llms.ContentPart, error) {
	if contentType != ContentTypePDF {
		return []llms.ContentPart{llms.TextPart(prompt)}, nil
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pdf content: %w", err)
	}

	return []llms.ContentPart{
		llms.BinaryPart("application/pdf", data),
		llms.TextPart(prompt),
	}, nil
}

// PromptContent returns the text to interpolate into a prompt template:
// the (truncated) content for text input, a placeholder for PDF input
// since the document itself travels as a binary part.
func PromptContent(content, contentType string, limit int) string {
	if contentType == ContentTypePDF {
		return "[PDF Content]"
	}
	if len(content) > limit {
		return content[:limit]
	}
	return content
}

// Generate runs a JSON-mode completion and returns the raw model text.
func Generate(ctx context.Context, llm llms.Model, systemPrompt string, userParts []llms.ContentPart, temperature float64) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		{Role: llms.ChatMessageTypeHuman, Parts: userParts},
	}

	resp, err := llm.GenerateContent(ctx, messages,
		llms.WithTemperature(temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	return resp.Choices[0].Content, nil
}

// DecodeJSON parses model output into v, tolerating markdown code fences
// around the JSON object. Anything that does not decode is an error: model
// replies are never treated as trusted structure.
func DecodeJSON(text string, v any) error {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return nil
}
