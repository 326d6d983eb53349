package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"skillscape-agent/models"
	"skillscape-agent/services"
	"skillscape-agent/services/assessor"
	"skillscape-agent/services/organizer"
	"skillscape-agent/services/summarizer"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// AgentTool is a capability the orchestrating model may invoke.
type AgentTool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
	GetAnthropicToolSpec() anthropic.ToolInputSchemaParam
}

// capture collects the typed outputs of tool executions during one
// orchestration run. The runner builds its response from these rather
// than re-parsing the model's prose.
type capture struct {
	quiz         *models.QuizResponse
	assessment   *models.Assessment
	organization *models.OrganizeResult
	summary      *models.SummarizeResult
}

func generateAnthropicSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

type GenerateQuizToolInput struct {
	Content      string `json:"content" jsonschema:"required,description=The learning content to generate a quiz from"`
	ContentType  string `json:"content_type,omitempty" jsonschema:"description=Content type: 'text' or 'pdf' (default: text)"`
	NumQuestions int    `json:"num_questions,omitempty" jsonschema:"description=Number of questions to generate (3-10, default: 5)"`
}

type GenerateQuizTool struct {
	assessor *assessor.Service
	out      *capture
}

func (t GenerateQuizTool) Name() string {
	return "generate_quiz"
}

func (t GenerateQuizTool) Description() string {
	return "Generates a knowledge assessment quiz from learning content and returns the quiz questions with a session id"
}

func (t GenerateQuizTool) Call(ctx context.Context, input string) (string, error) {
	var params GenerateQuizToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse generate quiz tool input: %v", err)
	}

	if params.ContentType == "" {
		params.ContentType = "text"
	}
	if params.NumQuestions == 0 {
		params.NumQuestions = 5
	}

	quiz, err := t.assessor.GenerateQuiz(ctx, params.Content, params.ContentType, params.NumQuestions)
	if err != nil {
		return "", err
	}
	t.out.quiz = quiz

	result, err := json.Marshal(quiz)
	if err != nil {
		return "", fmt.Errorf("failed to marshal quiz: %v", err)
	}
	return string(result), nil
}

func (t GenerateQuizTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GenerateQuizToolInput]()
}

type ScoreQuizToolInput struct {
	SessionID string            `json:"session_id" jsonschema:"required,description=The quiz session id returned by generate_quiz"`
	Answers   map[string]string `json:"answers" jsonschema:"required,description=Map of question id to selected option label (A-D)"`
}

type ScoreQuizTool struct {
	scorer *services.ScoreService
	out    *capture
}

func (t ScoreQuizTool) Name() string {
	return "score_quiz"
}

func (t ScoreQuizTool) Description() string {
	return "Scores submitted quiz answers for a session and returns the per-topic assessment with focus and skip areas"
}

func (t ScoreQuizTool) Call(ctx context.Context, input string) (string, error) {
	var params ScoreQuizToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse score quiz tool input: %v", err)
	}

	assessment, err := t.scorer.ScoreQuiz(params.SessionID, models.Answers(params.Answers))
	if err != nil {
		return "", err
	}
	t.out.assessment = assessment

	result, err := json.Marshal(assessment)
	if err != nil {
		return "", fmt.Errorf("failed to marshal assessment: %v", err)
	}
	return string(result), nil
}

func (t ScoreQuizTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[ScoreQuizToolInput]()
}

type OrganizeContentToolInput struct {
	Content          string   `json:"content" jsonschema:"required,description=The learning content to organize"`
	ContentType      string   `json:"content_type,omitempty" jsonschema:"description=Content type: 'text' or 'pdf' (default: text)"`
	URL              string   `json:"url,omitempty" jsonschema:"description=Source URL if available"`
	ExistingSubjects []string `json:"existing_subjects,omitempty" jsonschema:"description=Existing subject names in the user's graph"`
}

type OrganizeContentTool struct {
	organizer *organizer.Service
	out       *capture
}

func (t OrganizeContentTool) Name() string {
	return "organize_content"
}

func (t OrganizeContentTool) Description() string {
	return "Extracts filing metadata for the learning graph; progress is derived from the assessment of the current run when one exists"
}

func (t OrganizeContentTool) Call(ctx context.Context, input string) (string, error) {
	var params OrganizeContentToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse organize content tool input: %v", err)
	}

	if params.ContentType == "" {
		params.ContentType = "text"
	}

	// The assessment comes from the scoring step of this run, never from
	// the model: progress stays consistent with the scorer's output.
	result, err := t.organizer.OrganizeContent(ctx, organizer.Input{
		Content:          params.Content,
		ContentType:      params.ContentType,
		URL:              params.URL,
		Assessment:       t.out.assessment,
		ExistingSubjects: params.ExistingSubjects,
	})
	if err != nil {
		return "", err
	}
	t.out.organization = result

	encoded, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal organization: %v", err)
	}
	return string(encoded), nil
}

func (t OrganizeContentTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[OrganizeContentToolInput]()
}

type SummarizeContentToolInput struct {
	Content     string `json:"content" jsonschema:"required,description=The learning content to summarize"`
	ContentType string `json:"content_type,omitempty" jsonschema:"description=Content type: 'text' or 'pdf' (default: text)"`
	Audience    string `json:"audience,omitempty" jsonschema:"description=Target audience: 'engineering', 'business', or 'self' (default: self)"`
}

type SummarizeContentTool struct {
	summarizer *summarizer.Service
	assessment *models.Assessment
	out        *capture
}

func (t SummarizeContentTool) Name() string {
	return "summarize_content"
}

func (t SummarizeContentTool) Description() string {
	return "Creates an audience-tailored markdown summary of learning content with key takeaways"
}

func (t SummarizeContentTool) Call(ctx context.Context, input string) (string, error) {
	var params SummarizeContentToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse summarize content tool input: %v", err)
	}

	if params.ContentType == "" {
		params.ContentType = "text"
	}

	result, err := t.summarizer.SummarizeContent(ctx, summarizer.Input{
		Content:     params.Content,
		ContentType: params.ContentType,
		Audience:    params.Audience,
		Assessment:  t.assessment,
	})
	if err != nil {
		return "", err
	}
	t.out.summary = result

	encoded, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %v", err)
	}
	return string(encoded), nil
}

func (t SummarizeContentTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[SummarizeContentToolInput]()
}
