package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/pdfquiz/backend/internal/config"
	"github.com/pdfquiz/backend/internal/database"
	"github.com/pdfquiz/backend/internal/documents"
	"github.com/pdfquiz/backend/internal/exams"
	"github.com/pdfquiz/backend/internal/gamification"
	"github.com/pdfquiz/backend/internal/generator"
	"github.com/pdfquiz/backend/internal/middleware"
	"github.com/pdfquiz/backend/internal/quizzes"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	blobs, err := documents.NewFSStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to open upload directory: %v", err)
	}

	gen := generator.NewGenerator(cfg.Generator)
	log.Printf("Question generator mode: %s", gen.Mode())

	// Initialize services
	gamService := gamification.NewService(gamification.NewStore(db))

	quizStore := quizzes.NewStore(db)
	quizService := quizzes.NewService(quizStore, gen)
	quizService.SetProgressRecorder(gamService)

	docService := documents.NewService(
		documents.NewStore(db),
		blobs,
		documents.NewPopplerExtractor(cfg.OCRLang),
		gen,
		quizStore,
		cfg.QuestionsPerTest,
	)
	docService.SetProgressRecorder(gamService)

	examService := exams.NewService(exams.NewStore(db), gen)
	examService.SetProgressRecorder(gamService)

	// Initialize handlers
	docHandler := documents.NewHandler(docService, cfg.MaxUploadBytes)
	quizHandler := quizzes.NewHandler(quizService)
	examHandler := exams.NewHandler(examService)
	gamHandler := gamification.NewHandler(gamService)
	auth := middleware.NewAuthenticator(cfg.JWTSecret, gamService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware)

	// Documents
	api.HandleFunc("/documents", docHandler.Upload).Methods("POST")
	api.HandleFunc("/documents", docHandler.List).Methods("GET")
	api.HandleFunc("/documents/{id}", docHandler.Get).Methods("GET")
	api.HandleFunc("/documents/{id}", docHandler.Delete).Methods("DELETE")
	api.HandleFunc("/documents/{id}/status", docHandler.Status).Methods("GET")
	api.HandleFunc("/documents/{id}/file", docHandler.Download).Methods("GET")
	api.HandleFunc("/documents/{id}/tests", docHandler.Regenerate).Methods("POST")

	// Tests & results
	api.HandleFunc("/tests/{id}", quizHandler.GetTest).Methods("GET")
	api.HandleFunc("/tests/{id}/submit", quizHandler.Submit).Methods("POST")
	api.HandleFunc("/tests/{id}/export.pdf", quizHandler.ExportTest).Methods("GET")
	api.HandleFunc("/results", quizHandler.ListResults).Methods("GET")
	api.HandleFunc("/results/{id}", quizHandler.GetResult).Methods("GET")
	api.HandleFunc("/results/{id}/report.pdf", quizHandler.ResultReport).Methods("GET")

	// Generation previews
	api.HandleFunc("/generate/document", quizHandler.GenerateDocument).Methods("POST")
	api.HandleFunc("/generate/syllabus", quizHandler.GenerateSyllabus).Methods("POST")

	// Mock exams
	api.HandleFunc("/exams", examHandler.Create).Methods("POST")
	api.HandleFunc("/exams", examHandler.List).Methods("GET")
	api.HandleFunc("/exams/{id}", examHandler.Get).Methods("GET")
	api.HandleFunc("/exams/{id}/start", examHandler.Start).Methods("POST")
	api.HandleFunc("/exams/{id}/submit", examHandler.Submit).Methods("POST")

	// Gamification
	api.HandleFunc("/me", gamHandler.GetProfile).Methods("GET")
	api.HandleFunc("/badges", gamHandler.ListBadges).Methods("GET")
	api.HandleFunc("/leaderboard", gamHandler.Leaderboard).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go docService.StartProcessingWorker(ctx, cfg.WorkerInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}
