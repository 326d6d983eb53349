package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"skillscape-agent/config"
	"skillscape-agent/handlers"
	"skillscape-agent/services"
	"skillscape-agent/services/agent"
	"skillscape-agent/services/assessor"
	"skillscape-agent/services/llmclient"
	"skillscape-agent/services/organizer"
	"skillscape-agent/services/summarizer"
	"skillscape-agent/store"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/tmc/langchaingo/llms"
)

const serviceVersion = "1.0.0"

func main() {
	cfg := config.Load()

	log.Printf("[INFO] Starting SkillScape Agent Service on %s:%s (env: %s, model: %s)",
		cfg.Host, cfg.Port, cfg.Environment, cfg.AIModel)

	if !cfg.IsConfigured() {
		log.Printf("[ERROR] GOOGLE_API_KEY not configured, generation endpoints will return 503")
	}

	var llm llms.Model
	if cfg.IsConfigured() {
		var err error
		llm, err = llmclient.New(context.Background(), cfg.GoogleAPIKey, cfg.AIModel)
		if err != nil {
			log.Fatalf("Failed to initialize model client: %v", err)
		}
	}

	sessionRepo := store.NewInMemorySessionRepository(cfg.SessionTTL, cfg.MaxSessions)
	sessionStore := services.NewSessionStoreService(sessionRepo)
	scorer := services.NewScoreService(sessionStore)

	assessorService := assessor.NewService(llm, sessionStore)
	organizerService := organizer.NewService(llm)
	summarizerService := summarizer.NewService(llm)

	var agentService *agent.Service
	if cfg.AnthropicAPIKey != "" {
		agentService = agent.NewService(cfg.AnthropicAPIKey, assessorService, scorer, organizerService, summarizerService)
		log.Printf("[INFO] Agent orchestration enabled")
	}

	assessHandler := handlers.NewAssessHandler(assessorService, scorer, organizerService, agentService, cfg.IsConfigured())
	organizeHandler := handlers.NewOrganizeHandler(organizerService, cfg.IsConfigured())
	summarizeHandler := handlers.NewSummarizeHandler(summarizerService, agentService, cfg.IsConfigured())

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	if cfg.EnableTracing {
		router.Use(tracingMiddleware)
	}

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	assessHandler.RegisterRoutes(router)
	organizeHandler.RegisterRoutes(router)
	summarizeHandler.RegisterRoutes(router)

	router.HandleFunc("/", healthHandler(cfg)).Methods("GET")
	router.HandleFunc("/config", configHandler(cfg)).Methods("GET")

	addr := cfg.Host + ":" + cfg.Port
	fmt.Printf("Server starting on %s\n", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// tracingMiddleware tags each request with a short trace id and logs the
// method, path, status and duration.
func tracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := uuid.NewString()[:8]
		start := time.Now()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		recorder.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(recorder, r)

		log.Printf("[INFO] %s %s - %d (%dms) trace=%s",
			r.Method, r.URL.Path, recorder.status, time.Since(start).Milliseconds(), traceID)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func healthHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"service": "SkillScape Agent Service", "version": %q, "status": "healthy", "configured": %t}`,
			serviceVersion, cfg.IsConfigured())
	}
}

func configHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"configured": %t, "model": %q, "environment": %q}`,
			cfg.IsConfigured(), cfg.AIModel, cfg.Environment)
	}
}
