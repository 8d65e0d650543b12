package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"autoshop/internal/api"
	"autoshop/internal/auth"
	"autoshop/internal/repository"
	"autoshop/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		sugar.Fatalw("Failed to open DB", "error", err)
	}
	if err := database.Ping(); err != nil {
		sugar.Fatalw("Failed to connect to DB", "error", err)
	}

	scheduleRepo := repository.NewScheduleRepository(database)
	appointmentRepo := repository.NewAppointmentRepository(database)
	serviceTypeRepo := repository.NewServiceTypeRepository(database)
	userRepo := repository.NewUserRepository(database)
	jobRepo := repository.NewJobRepository(database)

	scheduleSvc := service.NewScheduleService(scheduleRepo, sugar)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, scheduleSvc, sugar)
	authSvc := service.NewAuthService(userRepo, jwtSecret)
	jobSvc := service.NewJobService(jobRepo, sugar)

	authHandler := api.NewAuthHandler(authSvc)
	scheduleHandler := api.NewScheduleHandler(scheduleSvc)
	appointmentHandler := api.NewAppointmentHandler(appointmentSvc)
	serviceTypeHandler := api.NewServiceTypeHandler(serviceTypeRepo)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Authenticated endpoints
	user := r.PathPrefix("/api").Subrouter()
	user.Use(auth.Middleware(jwtSecret))
	user.HandleFunc("/schedules", scheduleHandler.ListAvailable).Methods("GET")
	user.HandleFunc("/service-types", serviceTypeHandler.List).Methods("GET")
	user.HandleFunc("/appointments", appointmentHandler.Create).Methods("POST")
	user.HandleFunc("/appointments", appointmentHandler.List).Methods("GET")
	user.HandleFunc("/appointments/{id}", appointmentHandler.Get).Methods("GET")
	user.HandleFunc("/appointments/{id}/cancel", appointmentHandler.Cancel).Methods("POST")
	user.HandleFunc("/appointments/{id}/confirm", appointmentHandler.Confirm).Methods("POST")
	user.HandleFunc("/appointments/{id}/start", appointmentHandler.Start).Methods("POST")
	user.HandleFunc("/appointments/{id}/complete", appointmentHandler.Complete).Methods("POST")
	user.HandleFunc("/appointments/{id}/transition", appointmentHandler.Transition).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware(jwtSecret), auth.RequireAdmin)
	admin.HandleFunc("/schedules", scheduleHandler.ListAll).Methods("GET")
	admin.HandleFunc("/schedules", scheduleHandler.CreateSchedule).Methods("POST")
	admin.HandleFunc("/schedules/generate", scheduleHandler.GenerateSchedules).Methods("POST")
	admin.HandleFunc("/schedules/{id}", scheduleHandler.DeleteSchedule).Methods("DELETE")
	admin.HandleFunc("/schedules/{id}/availability", scheduleHandler.SetAvailability).Methods("PUT")
	admin.HandleFunc("/schedules/{id}/toggle", scheduleHandler.ToggleAvailability).Methods("POST")

	// Hourly sweep: in-progress appointments past their end time move to
	// COMPLETED without waiting for an admin.
	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		if err := jobSvc.CompleteElapsedAppointments(); err != nil {
			sugar.Errorw("completion sweep failed", "error", err)
		}
	}); err != nil {
		sugar.Fatalw("Failed to schedule completion sweep", "error", err)
	}
	c.Start()
	defer c.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(r)

	sugar.Infow("Server running", "port", port)
	sugar.Fatalw("Server stopped", "error", http.ListenAndServe(":"+port, corsHandler))
}
