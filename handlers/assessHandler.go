package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"skillscape-agent/models"
	"skillscape-agent/services"
	"skillscape-agent/services/agent"
	"skillscape-agent/services/assessor"
	"skillscape-agent/services/llmclient"
	"skillscape-agent/services/organizer"
	"skillscape-agent/store"

	"github.com/gorilla/mux"
)

type AssessRequest struct {
	Content      string `json:"content"`
	ContentType  string `json:"content_type"`
	NumQuestions int    `json:"num_questions"`
}

type AssessAnswersRequest struct {
	SessionID   string            `json:"session_id"`
	Answers     map[string]string `json:"answers"`
	Content     string            `json:"content"`
	ContentType string            `json:"content_type"`
	URL         string            `json:"url,omitempty"`
}

// AssessHandler serves quiz generation and the score -> organize pipeline.
// When an agent service is configured the flows run through orchestration;
// otherwise they call the services directly.
type AssessHandler struct {
	assessor   *assessor.Service
	scorer     *services.ScoreService
	organizer  *organizer.Service
	agent      *agent.Service
	configured bool
}

func NewAssessHandler(assessorSvc *assessor.Service, scorer *services.ScoreService, organizerSvc *organizer.Service, agentSvc *agent.Service, configured bool) *AssessHandler {
	return &AssessHandler{
		assessor:   assessorSvc,
		scorer:     scorer,
		organizer:  organizerSvc,
		agent:      agentSvc,
		configured: configured,
	}
}

func (h *AssessHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/assess", h.Assess).Methods("POST")
	router.HandleFunc("/assess/answers", h.SubmitAnswers).Methods("POST")
}

func (h *AssessHandler) Assess(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received assess request")

	if !h.configured {
		writeErrorResponse(w, http.StatusServiceUnavailable, "API key not configured")
		return
	}

	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode assess request JSON: %v", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Content == "" {
		writeErrorResponse(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.ContentType == "" {
		req.ContentType = llmclient.ContentTypeText
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 5
	}
	if req.NumQuestions < assessor.MinQuestions || req.NumQuestions > assessor.MaxQuestions {
		writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("num_questions must be between %d and %d", assessor.MinQuestions, assessor.MaxQuestions))
		return
	}

	var (
		quiz *models.QuizResponse
		err  error
	)
	if h.agent != nil {
		quiz, err = h.agent.RunAssess(r.Context(), req.Content, req.ContentType, req.NumQuestions)
	} else {
		quiz, err = h.assessor.GenerateQuiz(r.Context(), req.Content, req.ContentType, req.NumQuestions)
	}
	if err != nil {
		log.Printf("[ERROR] Assessment failed: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Assess request completed, session %s", quiz.SessionID)
	writeJSONResponse(w, http.StatusOK, quiz)
}

func (h *AssessHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received assess answers request")

	if !h.configured {
		writeErrorResponse(w, http.StatusServiceUnavailable, "API key not configured")
		return
	}

	var req AssessAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode assess answers request JSON: %v", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.SessionID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.Answers == nil {
		writeErrorResponse(w, http.StatusBadRequest, "answers are required")
		return
	}
	if req.ContentType == "" {
		req.ContentType = llmclient.ContentTypeText
	}

	result, err := h.runTriage(r, &req)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			log.Printf("[ERROR] Scoring failed, unknown session %s", req.SessionID)
			writeErrorResponse(w, http.StatusNotFound, "Quiz session not found. The session may have expired.")
			return
		}
		log.Printf("[ERROR] Triage pipeline failed: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Assess answers request completed for session %s", req.SessionID)
	writeJSONResponse(w, http.StatusOK, result)
}

func (h *AssessHandler) runTriage(r *http.Request, req *AssessAnswersRequest) (*models.TriageResult, error) {
	if h.agent != nil {
		return h.agent.RunTriage(r.Context(), req.SessionID, models.Answers(req.Answers), req.Content, req.ContentType, req.URL)
	}

	assessment, err := h.scorer.ScoreQuiz(req.SessionID, models.Answers(req.Answers))
	if err != nil {
		return nil, err
	}

	organization, err := h.organizer.OrganizeContent(r.Context(), organizer.Input{
		Content:     req.Content,
		ContentType: req.ContentType,
		URL:         req.URL,
		Assessment:  assessment,
	})
	if err != nil {
		return nil, err
	}

	return &models.TriageResult{Assessment: assessment, Organization: organization}, nil
}
