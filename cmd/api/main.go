package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadscope/leadscope/internal/dispatch"
	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/infra/database"
	"github.com/leadscope/leadscope/internal/infra/http/handlers"
	appmiddleware "github.com/leadscope/leadscope/internal/infra/http/middleware"
	"github.com/leadscope/leadscope/internal/infra/integration/langcheck"
	"github.com/leadscope/leadscope/internal/infra/integration/profileapi"
	"github.com/leadscope/leadscope/internal/infra/jobs"
	"github.com/leadscope/leadscope/internal/infra/mail"
	"github.com/leadscope/leadscope/internal/infra/queue"
	"github.com/leadscope/leadscope/internal/infra/scrape"
	"github.com/leadscope/leadscope/internal/poller"
	"github.com/leadscope/leadscope/internal/store"
	"github.com/leadscope/leadscope/internal/triage"
	"github.com/leadscope/leadscope/internal/usecase"
)

// registryStatusClient adapts the in-process job registry to the
// poller's client interface.
type registryStatusClient struct {
	registry *jobs.Registry
}

var errJobUnknown = errors.New("job not tracked")

func (c *registryStatusClient) JobStatus(_ context.Context, id string) (entity.Job, error) {
	job, ok := c.registry.Get(id)
	if !ok {
		return entity.Job{}, errJobUnknown
	}
	return job, nil
}

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories
	leadRepo := database.NewLeadRepository(db)
	targetRepo := database.NewTargetRepository(db)

	// Triage core
	leadStore := store.NewLeadStore()
	dispatcher := dispatch.NewDispatcher(leadStore, leadRepo)
	engine := triage.NewEngine()
	registry := jobs.NewRegistry()

	refreshUC := usecase.NewRefreshUseCase(leadRepo, targetRepo, leadStore, dispatcher)
	jobPoller := poller.New(&registryStatusClient{registry: registry}, func() {
		if err := refreshUC.Execute(context.Background()); err != nil {
			log.Printf("[main] post-job refresh: %v", err)
		}
	})

	// External services
	profileClient := profileapi.NewClient(os.Getenv("PROFILE_API_TOKEN"), os.Getenv("PROFILE_API_URL"))
	classifier := langcheck.NewClient(os.Getenv("LANGCHECK_API_KEY"), os.Getenv("LANGCHECK_URL"))

	var notifier queue.Notifier
	if host := os.Getenv("MAIL_HOST"); host != "" {
		port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
		if port == 0 {
			port = 587
		}
		notifier = mail.NewEmailSender(
			host, port, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			os.Getenv("MAIL_FROM"), os.Getenv("MAIL_TO"),
		)
	}

	// Worker
	runner := scrape.NewRunner(profileClient, classifier, leadRepo, targetRepo, registry)
	worker := queue.NewWorker(rabbitMQ.Ch, runner, registry, notifier)
	go worker.Start(queue.QueueName)

	// UseCases
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	addLeadUC := usecase.NewAddLeadUseCase(leadRepo, profileClient)
	startScrapeUC := usecase.NewStartScrapeUseCase(targetRepo, producer, registry)
	syncUsersUC := usecase.NewSyncUsersUseCase(producer, registry)
	analyzeUC := usecase.NewAnalyzeGermanUseCase(producer, registry)

	// Warm the store so the first page render has data.
	if err := refreshUC.Execute(context.Background()); err != nil {
		log.Printf("[main] initial refresh: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(os.Getenv("APP_PASSWORD"))
	leadHandler := handlers.NewLeadHandler(leadStore, dispatcher, refreshUC, addLeadUC, leadRepo, leadRepo)
	targetHandler := handlers.NewTargetHandler(startScrapeUC, registry, jobPoller)
	jobHandler := handlers.NewJobHandler(registry, jobPoller, syncUsersUC, analyzeUC)
	viewHandler := handlers.NewViewHandler(leadStore, engine)
	backupHandler := handlers.NewBackupHandler(leadRepo, targetRepo, refreshUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/api/login", authHandler.HandleLogin)
	r.Get("/api/users", leadHandler.HandleGetUsers)
	r.Post("/api/lead/update-status", leadHandler.HandleUpdateStatus)
	r.Post("/api/add-lead", leadHandler.HandleAddLead)
	r.Post("/api/delete-users", leadHandler.HandleDeleteUsers)
	r.Post("/api/mark-exported", leadHandler.HandleMarkExported)
	r.Post("/api/add-target", targetHandler.HandleAddTarget)
	r.Get("/api/job-status/{id}", jobHandler.HandleJobStatus)
	r.Post("/api/sync-users", jobHandler.HandleSyncUsers)
	r.Post("/api/analyze-german", jobHandler.HandleAnalyzeGerman)
	r.Get("/api/leads/view", viewHandler.HandleView)
	r.Post("/api/leads/selection", viewHandler.HandleSelection)
	r.Get("/api/export", backupHandler.HandleExport)
	r.Post("/api/import", backupHandler.HandleImport)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("leadscope api listening on :%s", port)
	http.ListenAndServe(":"+port, r)
}
