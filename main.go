package main

import (
	"database/sql"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"knowledge-api/handlers"
	"knowledge-api/middleware"
	"knowledge-api/pkg/ai"
	"knowledge-api/pkg/appenv"
	"knowledge-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
		slog.Warn("JWT_SECRET not set, using insecure default")
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			if err = db.Ping(); err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database: ", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error: ", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error: ", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed: ", err)
	}

	usersRepo := repository.NewUsersRepository(db)
	articlesRepo := repository.NewArticlesRepository(db)

	aiSvc := ai.NewService()
	if !aiSvc.Enabled() {
		slog.Warn("OPENAI_API_KEY not set, AI endpoints serve mock responses")
	}

	if appenv.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLogger())
	r.Use(gin.Recovery())

	// Trusted proxies for correct client IPs behind a reverse proxy.
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		parts := strings.Split(proxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit())

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(usersRepo, jwtSecret)
	articlesHandler := handlers.NewArticlesHandler(articlesRepo, aiSvc)
	aiHandler := handlers.NewAIHandler(aiSvc)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/signup", middleware.AuthRateLimit(), authHandler.Signup)
		auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", handlers.AuthMiddleware(jwtSecret), authHandler.Me)

		articles := api.Group("/articles")
		articles.GET("/categories", articlesHandler.GetCategories)
		articles.GET("", handlers.OptionalAuthMiddleware(jwtSecret), articlesHandler.ListArticles)
		articles.GET("/me", handlers.AuthMiddleware(jwtSecret), articlesHandler.GetMyArticles)
		articles.GET("/:id", handlers.OptionalAuthMiddleware(jwtSecret), articlesHandler.GetArticle)
		articles.POST("", handlers.AuthMiddleware(jwtSecret), articlesHandler.CreateArticle)
		articles.PUT("/:id", handlers.AuthMiddleware(jwtSecret), articlesHandler.UpdateArticle)
		articles.DELETE("/:id", handlers.AuthMiddleware(jwtSecret), articlesHandler.DeleteArticle)

		aiGroup := api.Group("/ai", handlers.AuthMiddleware(jwtSecret))
		aiGroup.POST("/improve", aiHandler.Improve)
		aiGroup.POST("/summary", aiHandler.Summary)
		aiGroup.POST("/suggest-tags", aiHandler.SuggestTags)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	slog.Info("server starting", "port", port, "env", string(appenv.Current()))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed: ", err)
	}
}
