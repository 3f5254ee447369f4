package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AnshRaj112/serenify-companion/internal/config"
	"github.com/AnshRaj112/serenify-companion/internal/database"
	"github.com/AnshRaj112/serenify-companion/internal/events"
	"github.com/AnshRaj112/serenify-companion/internal/handlers"
	"github.com/AnshRaj112/serenify-companion/internal/middleware"
	"github.com/AnshRaj112/serenify-companion/internal/routes"
	"github.com/AnshRaj112/serenify-companion/internal/services"
	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Journal encryption is optional; without a key entries are stored as written
	var cipher *utils.Cipher
	if cfg.EncryptionKey == "" {
		log.Println("⚠️  WARNING: ENCRYPTION_KEY not set. Journal entries will be stored unencrypted.")
		log.Println("   To generate a key, run: openssl rand -base64 32")
	} else if c, err := utils.NewCipher(cfg.EncryptionKey); err != nil {
		log.Fatalf("ENCRYPTION_KEY is invalid: %v", err)
	} else {
		cipher = c
		log.Println("✅ Journal encryption enabled")
	}

	// PostgreSQL: users and goals
	log.Printf("Connecting to PostgreSQL...")
	pg, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer pg.Close()
	if err := database.InitPostgresTables(ctx, pg); err != nil {
		log.Fatal("Failed to initialize PostgreSQL tables:", err)
	}

	// Redis: sessions, dashboard cache, rate limiting
	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// MongoDB: journals, meditations, moods (and activities unless STORE_DRIVER=sqlite)
	log.Printf("Connecting to MongoDB: %s", database.MaskURI(cfg.MongoURI))
	mongoClient, mongoDB, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Println("Troubleshooting tips:")
		log.Println("1. Check if your IP is whitelisted in MongoDB Atlas")
		log.Println("2. Verify your connection string format (mongodb+srv:// for Atlas)")
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect(mongoClient)
	if err := database.EnsureMongoIndexes(ctx, mongoDB); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	var activityStore services.ActivityStore
	if cfg.UseSQLite() {
		sqliteDB, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatal("Failed to open SQLite activity store:", err)
		}
		defer sqliteDB.Close()
		activityStore = database.NewSQLiteActivityStore(sqliteDB)
		log.Printf("✅ Activity records stored in SQLite at %s", cfg.SQLitePath)
	} else {
		activityStore = database.NewMongoActivityStore(mongoDB)
	}

	// Activity events
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaActivityTopic)
		log.Printf("✅ Publishing activity events to %s", cfg.KafkaActivityTopic)
	}
	defer publisher.Close()

	// AI collaborators, each backed by an offline fallback
	classifier := services.FallbackClassifier{Secondary: services.KeywordClassifier{}}
	if cfg.EmotionAPIURL != "" {
		classifier.Primary = services.NewEmotionClient(services.EmotionConfig{
			Endpoint: cfg.EmotionAPIURL,
			APIKey:   cfg.EmotionAPIKey,
			Timeout:  cfg.EmotionTimeout,
		})
	} else {
		log.Println("Warning: EMOTION_API_URL not set. Using keyword mood detection")
	}
	messages := services.FallbackGenerator{Secondary: services.StaticMessages{}}
	if cfg.MessageAPIURL != "" {
		messages.Primary = services.NewMessageClient(services.MessageConfig{
			Endpoint: cfg.MessageAPIURL,
			APIKey:   cfg.MessageAPIKey,
			Timeout:  cfg.MessageTimeout,
		})
	}

	var uploader services.Uploader
	if cfg.CloudinaryConfigured() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
		} else {
			uploader = cld
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	activities := services.NewActivityService(activityStore, services.NewCacheService(rdb, cfg.DashboardCacheTTL), publisher)
	h := &handlers.Handler{
		Activities:  activities,
		Journals:    services.NewJournalService(database.NewMongoJournalStore(mongoDB), activities, classifier, messages, cipher),
		Meditations: services.NewMeditationService(database.NewMongoMeditationStore(mongoDB), activities),
		Moods:       services.NewMoodService(database.NewMongoMoodStore(mongoDB), classifier, messages),
		Goals:       services.NewGoalService(database.NewPostgresGoalStore(pg), activities),
		Auth:        services.NewAuthService(database.NewPostgresUserStore(pg), services.NewSessionStore(rdb)),
		Uploader:    uploader,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health and metrics stay outside the rate limits
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		// Production: SecurityHeaders → HostCheck → per-IP limit → login limit
		// Non-production: Redis-based rate limit only
		if cfg.IsProduction() {
			r.Use(middleware.ProductionSecurity(cfg.AllowedHost(), cfg.TrustProxy)...)
			log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
		} else {
			r.Use(middleware.RedisRateLimit(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.TrustProxy))
		}
		routes.SetupRoutes(r, h)
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Serenify companion running on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
