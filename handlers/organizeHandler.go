package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"skillscape-agent/models"
	"skillscape-agent/services/llmclient"
	"skillscape-agent/services/organizer"

	"github.com/gorilla/mux"
)

type OrganizeRequest struct {
	Content          string             `json:"content"`
	ContentType      string             `json:"content_type"`
	URL              string             `json:"url,omitempty"`
	Assessment       *models.Assessment `json:"assessment,omitempty"`
	ExistingSubjects []string           `json:"existing_subjects,omitempty"`
}

type OrganizeHandler struct {
	organizer  *organizer.Service
	configured bool
}

func NewOrganizeHandler(organizerSvc *organizer.Service, configured bool) *OrganizeHandler {
	return &OrganizeHandler{organizer: organizerSvc, configured: configured}
}

func (h *OrganizeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/organize", h.Organize).Methods("POST")
}

func (h *OrganizeHandler) Organize(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received organize request")

	if !h.configured {
		writeErrorResponse(w, http.StatusServiceUnavailable, "API key not configured")
		return
	}

	var req OrganizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode organize request JSON: %v", err)
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

	result, err := h.organizer.OrganizeContent(r.Context(), organizer.Input{
		Content:          req.Content,
		ContentType:      req.ContentType,
		URL:              req.URL,
		Assessment:       req.Assessment,
		ExistingSubjects: req.ExistingSubjects,
	})
	if err != nil {
		log.Printf("[ERROR] Organization failed: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Organize request completed")
	writeJSONResponse(w, http.StatusOK, result)
}
