package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/mrocha88/fitapp/internal/ai"
	"github.com/mrocha88/fitapp/internal/analysis"
	"github.com/mrocha88/fitapp/internal/auth"
	"github.com/mrocha88/fitapp/internal/blob"
	"github.com/mrocha88/fitapp/internal/config"
	"github.com/mrocha88/fitapp/internal/habits"
	"github.com/mrocha88/fitapp/internal/meals"
	"github.com/mrocha88/fitapp/internal/photos"
	"github.com/mrocha88/fitapp/internal/reports"
	"github.com/mrocha88/fitapp/internal/storage"
	"github.com/mrocha88/fitapp/internal/storage/memory"
	"github.com/mrocha88/fitapp/internal/storage/postgres"
	"github.com/mrocha88/fitapp/internal/subscription"
	"github.com/mrocha88/fitapp/internal/workouts"
)

// Server is the HTTP API server.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New creates a new HTTP server with all routes registered.
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage selects memory or postgres storage.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("connecting to PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("PostgreSQL connection failed: %v", err)
		log.Println("falling back to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("PostgreSQL connected")
	s.storage = pgStorage
}

// routes registers all endpoints.
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandler(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev-token - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev-token", authHandler.HandleDevToken)

	// Habits API (also feeds loyalty points into subscriptions)
	habitsService := habits.NewService(s.storage)
	habitsHandler := habits.NewHandler(habitsService)

	s.mux.HandleFunc("POST /v1/habits", habitsHandler.HandleCreateHabit)
	s.mux.HandleFunc("GET /v1/habits", habitsHandler.HandleListHabits)
	s.mux.HandleFunc("GET /v1/habits/points", habitsHandler.HandleGetPoints)
	s.mux.HandleFunc("PUT /v1/habits/{id}", habitsHandler.HandleUpdateHabit)
	s.mux.HandleFunc("DELETE /v1/habits/{id}", habitsHandler.HandleDeleteHabit)
	s.mux.HandleFunc("POST /v1/habits/{id}/toggle", habitsHandler.HandleToggleHabit)

	// Subscription API
	subscriptionService := subscription.NewService(s.storage, habitsService)
	subscriptionHandler := subscription.NewHandler(subscriptionService)

	s.mux.HandleFunc("GET /v1/subscription", subscriptionHandler.HandleGetStatus)
	s.mux.HandleFunc("PUT /v1/subscription/plan", subscriptionHandler.HandleChangePlan)
	s.mux.HandleFunc("GET /v1/subscription/plans", subscriptionHandler.HandleListPlans)
	s.mux.HandleFunc("GET /v1/subscription/limits", subscriptionHandler.HandleGetLimits)

	// Meals API (plan limits come from the subscription service)
	mealsService := meals.NewService(s.storage, subscriptionService)
	mealsHandler := meals.NewHandler(mealsService)

	s.mux.HandleFunc("POST /v1/meals", mealsHandler.HandleCreateMeal)
	s.mux.HandleFunc("GET /v1/meals", mealsHandler.HandleListDay)
	s.mux.HandleFunc("GET /v1/meals/today", mealsHandler.HandleListDay)
	s.mux.HandleFunc("GET /v1/meals/{id}", mealsHandler.HandleGetMeal)
	s.mux.HandleFunc("PUT /v1/meals/{id}", mealsHandler.HandleUpdateMeal)
	s.mux.HandleFunc("DELETE /v1/meals/{id}", mealsHandler.HandleDeleteMeal)

	// Meal photo analysis API
	aiProvider := ai.NewProvider(s.config)
	analysisService := analysis.NewService(aiProvider, s.config)
	analysisHandler := analysis.NewHandler(analysisService).WithPlanGate(subscriptionService)

	s.mux.HandleFunc("POST /v1/meals/analyze", analysisHandler.HandleAnalyzeMeal)

	// Workouts API
	workoutsService := workouts.NewService(s.storage, subscriptionService)
	workoutsHandler := workouts.NewHandler(workoutsService)

	s.mux.HandleFunc("POST /v1/workouts", workoutsHandler.HandleCreateSession)
	s.mux.HandleFunc("GET /v1/workouts", workoutsHandler.HandleListSessions)
	s.mux.HandleFunc("DELETE /v1/workouts/{id}", workoutsHandler.HandleDeleteSession)

	// Blob store shared by photos and reports
	blobStore := s.initBlobStore()

	// Progress photos API
	photosService := photos.NewService(
		s.storage,
		blobStore,
		s.config.UploadMaxMB,
		s.config.UploadAllowedMime,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PresignTTLSeconds,
	)
	photosHandler := photos.NewHandler(photosService)

	s.mux.HandleFunc("POST /v1/photos", photosHandler.HandleUpload)
	s.mux.HandleFunc("GET /v1/photos", photosHandler.HandleList)
	s.mux.HandleFunc("GET /v1/photos/{id}/download", photosHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/photos/{id}", photosHandler.HandleDelete)

	// Reports API
	reportsGenerator := reports.NewGenerator(s.storage, s.storage)
	reportsService := reports.NewService(
		s.storage,
		reportsGenerator,
		subscriptionService,
		blobStore,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
	)
	reportsHandler := reports.NewHandler(reportsService)

	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreateReport)
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleListReports)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDeleteReport)
}

// initBlobStore initializes the blob store per BLOB_MODE.
func (s *Server) initBlobStore() blob.Store {
	store, mode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize store: %v", err)
	}
	log.Printf("INFO blob: mode=%s", mode)
	return store
}

// handleHealthz reports server liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the full middleware chain wrapping the router.
// Outermost first: CORS, rate limit, auth, router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("server listening on http://localhost%s\n", addr)
	log.Printf("health check: http://localhost%s/healthz\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases the storage.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
