package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/ascend-fitness/backend/internal/auth"
	"github.com/ascend-fitness/backend/internal/database"
	"github.com/ascend-fitness/backend/internal/generator"
	"github.com/ascend-fitness/backend/internal/jobs"
	"github.com/ascend-fitness/backend/internal/judge"
	"github.com/ascend-fitness/backend/internal/progression"
	"github.com/ascend-fitness/backend/internal/quests"
	"github.com/ascend-fitness/backend/internal/vision"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Progression
	progStore := progression.NewStore(db)
	engine := progression.NewEngine(progression.DefaultCurve())
	progService := progression.NewService(progStore, engine)

	// Quest lifecycle
	planner := generator.NewGenerator()
	analyzer := vision.NewMockAnalyzer()
	evaluator := judge.New(judge.DefaultConfig(), analyzer)
	questStore := quests.NewStore(db)
	questService := quests.NewService(quests.DefaultConfig(), questStore, evaluator, planner, progService)

	// Handlers
	authHandler := auth.NewHandler(db)
	questHandler := quests.NewHandler(questService)
	progHandler := progression.NewHandler(progService)

	// Background jobs
	scheduler := jobs.NewScheduler(questService)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/quests", questHandler.AssignQuest).Methods("POST")
	protected.HandleFunc("/quests", questHandler.ListQuests).Methods("GET")
	protected.HandleFunc("/quests/{id}", questHandler.GetQuest).Methods("GET")
	protected.HandleFunc("/quests/{id}/submit", questHandler.SubmitQuest).Methods("POST")
	protected.HandleFunc("/quests/{id}/abort", questHandler.AbortQuest).Methods("POST")
	protected.HandleFunc("/quests/{id}/report", questHandler.ReportQuest).Methods("POST")

	protected.HandleFunc("/progress", progHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/progress/class", progHandler.ChangeClass).Methods("POST")
	protected.HandleFunc("/progress/reset", progHandler.Reset).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
