package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"skillscape-agent/models"
	"skillscape-agent/services/agent"
	"skillscape-agent/services/llmclient"
	"skillscape-agent/services/summarizer"

	"github.com/gorilla/mux"
)

type SummarizeRequest struct {
	Content     string             `json:"content"`
	ContentType string             `json:"content_type"`
	Audience    string             `json:"audience"`
	Assessment  *models.Assessment `json:"assessment,omitempty"`
}

type SummarizeHandler struct {
	summarizer *summarizer.Service
	agent      *agent.Service
	configured bool
}

func NewSummarizeHandler(summarizerSvc *summarizer.Service, agentSvc *agent.Service, configured bool) *SummarizeHandler {
	return &SummarizeHandler{summarizer: summarizerSvc, agent: agentSvc, configured: configured}
}

func (h *SummarizeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/summarize", h.Summarize).Methods("POST")
}

func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received summarize request")

	if !h.configured {
		writeErrorResponse(w, http.StatusServiceUnavailable, "API key not configured")
		return
	}

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode summarize request JSON: %v", err)
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

	var (
		result *models.SummarizeResult
		err    error
	)
	if h.agent != nil {
		result, err = h.agent.RunSummarize(r.Context(), req.Content, req.ContentType, req.Audience, req.Assessment)
	} else {
		result, err = h.summarizer.SummarizeContent(r.Context(), summarizer.Input{
			Content:     req.Content,
			ContentType: req.ContentType,
			Audience:    req.Audience,
			Assessment:  req.Assessment,
		})
	}
	if err != nil {
		log.Printf("[ERROR] Summarization failed: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Summarize request completed for title %q", result.ContentTitle)
	writeJSONResponse(w, http.StatusOK, result)
}
