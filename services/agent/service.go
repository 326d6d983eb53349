package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"skillscape-agent/models"
	"skillscape-agent/services"
	"skillscape-agent/services/assessor"
	"skillscape-agent/services/organizer"
	"skillscape-agent/services/summarizer"
	"skillscape-agent/store"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const maxToolTurns = 6

// Service orchestrates the assess, triage and summarize flows through an
// Anthropic tool-use loop. Every flow has a deterministic fallback: when
// the orchestration errors or finishes without producing the required tool
// outputs, the underlying services are called directly. Rescoring inside a
// fallback is safe because scoring is idempotent by session.
type Service struct {
	client     *anthropic.Client
	assessor   *assessor.Service
	scorer     *services.ScoreService
	organizer  *organizer.Service
	summarizer *summarizer.Service
}

func NewService(apiKey string, assessorSvc *assessor.Service, scorer *services.ScoreService, organizerSvc *organizer.Service, summarizerSvc *summarizer.Service) *Service {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Service{
		client:     &client,
		assessor:   assessorSvc,
		scorer:     scorer,
		organizer:  organizerSvc,
		summarizer: summarizerSvc,
	}
}

// RunAssess drives quiz generation through the orchestrator, falling back
// to the assessor directly when the run produces no quiz.
func (s *Service) RunAssess(ctx context.Context, content, contentType string, numQuestions int) (*models.QuizResponse, error) {
	out := &capture{}
	tools := []AgentTool{GenerateQuizTool{assessor: s.assessor, out: out}}

	instruction := fmt.Sprintf(
		"Generate a %d-question knowledge assessment quiz for the %s content below using the generate_quiz tool, passing the content through unchanged.\n\nContent:\n%s",
		numQuestions, contentType, content)

	if err := s.runToolLoop(ctx, "assess", instruction, tools); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, err
		}
		log.Printf("[ERROR] Assess orchestration failed, falling back to direct generation: %v", err)
	}
	if out.quiz != nil {
		return out.quiz, nil
	}

	log.Printf("[INFO] Assess orchestration produced no quiz, calling generator directly")
	return s.assessor.GenerateQuiz(ctx, content, contentType, numQuestions)
}

// RunTriage drives the score -> organize pipeline. A session error from
// the scoring tool aborts the run immediately so the HTTP layer can report
// an invalid session rather than a fabricated result.
func (s *Service) RunTriage(ctx context.Context, sessionID string, answers models.Answers, content, contentType, url string) (*models.TriageResult, error) {
	out := &capture{}
	tools := []AgentTool{
		ScoreQuizTool{scorer: s.scorer, out: out},
		OrganizeContentTool{organizer: s.organizer, out: out},
	}

	instruction := fmt.Sprintf(
		"Process this content triage in two steps:\n"+
			"1. Score the quiz with the score_quiz tool (session_id: %s, answers: %s)\n"+
			"2. Then organize the content for the learning graph with the organize_content tool (content_type: %s, url: %s), passing the content through unchanged.\n\nContent:\n%s",
		sessionID, mustJSON(answers), contentType, url, content)

	if err := s.runToolLoop(ctx, "triage", instruction, tools); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, err
		}
		log.Printf("[ERROR] Triage orchestration failed, falling back to direct pipeline: %v", err)
	}

	if out.assessment != nil && out.organization != nil {
		return &models.TriageResult{Assessment: out.assessment, Organization: out.organization}, nil
	}

	// Explicit fallback pipeline: score, then organize with the result.
	log.Printf("[INFO] Triage orchestration incomplete, running score and organize directly")
	assessment, err := s.scorer.ScoreQuiz(sessionID, answers)
	if err != nil {
		return nil, err
	}

	organization, err := s.organizer.OrganizeContent(ctx, organizer.Input{
		Content:     content,
		ContentType: contentType,
		URL:         url,
		Assessment:  assessment,
	})
	if err != nil {
		return nil, err
	}

	return &models.TriageResult{Assessment: assessment, Organization: organization}, nil
}

// RunSummarize drives summarization, falling back to the summarizer
// directly when the run produces no summary.
func (s *Service) RunSummarize(ctx context.Context, content, contentType, audience string, assessment *models.Assessment) (*models.SummarizeResult, error) {
	out := &capture{}
	tools := []AgentTool{SummarizeContentTool{summarizer: s.summarizer, assessment: assessment, out: out}}

	instruction := fmt.Sprintf(
		"Summarize the %s content below for a %s audience using the summarize_content tool, passing the content through unchanged.\n\nContent:\n%s",
		contentType, audience, content)

	if err := s.runToolLoop(ctx, "summarize", instruction, tools); err != nil {
		log.Printf("[ERROR] Summarize orchestration failed, falling back to direct summarization: %v", err)
	}
	if out.summary != nil {
		return out.summary, nil
	}

	log.Printf("[INFO] Summarize orchestration produced no summary, calling summarizer directly")
	return s.summarizer.SummarizeContent(ctx, summarizer.Input{
		Content:     content,
		ContentType: contentType,
		Audience:    audience,
		Assessment:  assessment,
	})
}

// runToolLoop feeds the instruction to the model and executes requested
// tools until the model stops asking for them or the turn limit is reached.
func (s *Service) runToolLoop(ctx context.Context, flow, instruction string, tools []AgentTool) error {
	log.Printf("[INFO] Starting %s orchestration with %d tools", flow, len(tools))

	toolSpecs := buildToolSpecs(tools)
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(instruction)),
	}

	for turn := 0; turn < maxToolTurns; turn++ {
		response, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.ModelClaude4Sonnet20250514,
			MaxTokens: 4096,
			Messages:  messages,
			Tools:     toolSpecs,
		})
		if err != nil {
			return fmt.Errorf("orchestration call failed: %w", err)
		}

		toolUses := []anthropic.ToolUseBlock{}
		for _, block := range response.Content {
			if toolUse, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
				toolUses = append(toolUses, toolUse)
			}
		}

		if len(toolUses) == 0 {
			log.Printf("[INFO] %s orchestration finished after %d turns", flow, turn+1)
			return nil
		}

		messages = append(messages, response.ToParam())

		resultBlocks := []anthropic.ContentBlockParamUnion{}
		for _, toolUse := range toolUses {
			log.Printf("[INFO] %s orchestration executing tool %s", flow, toolUse.Name)

			inputJSON, _ := json.Marshal(toolUse.Input)

			result, err := s.executeTool(ctx, tools, toolUse.Name, string(inputJSON))
			if err != nil {
				// An unknown session is a terminal condition for the run,
				// not something the model should try to talk around.
				if errors.Is(err, store.ErrSessionNotFound) {
					return err
				}
				log.Printf("[ERROR] Tool %s failed: %v", toolUse.Name, err)
				result = fmt.Sprintf("Error: %v", err)
			}

			resultBlocks = append(resultBlocks, anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: toolUse.ID,
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Text: result}},
					},
				},
			})
		}
		messages = append(messages, anthropic.NewUserMessage(resultBlocks...))
	}

	return fmt.Errorf("orchestration exceeded %d tool turns", maxToolTurns)
}

func (s *Service) executeTool(ctx context.Context, tools []AgentTool, name, input string) (string, error) {
	for _, tool := range tools {
		if tool.Name() == name {
			return tool.Call(ctx, input)
		}
	}
	return "", fmt.Errorf("tool %s not found", name)
}

func buildToolSpecs(tools []AgentTool) []anthropic.ToolUnionParam {
	var specs []anthropic.ToolUnionParam
	for _, tool := range tools {
		specs = append(specs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name(),
				Description: anthropic.String(tool.Description()),
				InputSchema: tool.GetAnthropicToolSpec(),
			},
		})
	}
	return specs
}

func mustJSON(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
