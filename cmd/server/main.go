package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/chiromo-health/cmhs-backend/internal/config"
	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/handlers"
	"github.com/chiromo-health/cmhs-backend/internal/middleware"
	"github.com/chiromo-health/cmhs-backend/internal/routes"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.MpesaConsumerKey == "" || cfg.MpesaConsumerSecret == "" {
		log.Println("⚠️  WARNING: M-Pesa credentials not set. Premium payments will fail.")
	}
	if cfg.SMSAPIKey == "" {
		log.Println("⚠️  WARNING: SMS_API_KEY not set. SMS notifications and USSD alerts will be skipped.")
	}

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (journal entries)
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo()

	// Wire gateway clients (M-Pesa, SMS, SMTP, Cloudinary) into the handlers
	if err := handlers.Init(cfg); err != nil {
		log.Fatal("Failed to initialize services:", err)
	}
	log.Println("✅ Gateway clients initialized")

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit)

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r)

	log.Printf("🚀 CMHS backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
