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
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/readshelf/readshelf/config"
	"github.com/readshelf/readshelf/handlers"
	"github.com/readshelf/readshelf/middleware"
	"github.com/readshelf/readshelf/service"
	"github.com/readshelf/readshelf/session"
	"github.com/readshelf/readshelf/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	kv, err := store.Open(ctx, cfg.StoreDriver, store.Options{
		FilePath:      cfg.StorePath,
		SQLitePath:    cfg.SQLitePath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPass,
		RedisDB:       cfg.RedisDB,
		MongoURI:      cfg.MongoURI,
		MongoDB:       cfg.MongoDB,
	})
	if err != nil {
		log.Fatal("store:", err)
	}
	defer func() {
		if closer, ok := kv.(store.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Println("store close:", err)
			}
		}
	}()

	sessions := session.NewManager(kv)
	sessions.Load(ctx)

	if cfg.SMTPHost != "" {
		sessions.SetMailer(service.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom))
	}

	var backup *service.BackupService
	if cfg.S3Bucket != "" {
		backup, err = service.NewBackupService(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal("backup:", err)
		}
	}

	authHandler := &handlers.AuthHandler{Sessions: sessions, JWTSecret: cfg.JWTSecret}
	booksHandler := &handlers.BooksHandler{KV: kv, Search: service.NewGoogleBooks(), Backup: backup}
	goalsHandler := &handlers.GoalsHandler{KV: kv}

	r := chi.NewRouter()
	r.Use(middleware.CORS(""))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/session", authHandler.Session)
		r.Post("/auth/reveal", authHandler.RevealPassword)
		r.Post("/auth/reset/request", authHandler.RequestPasswordReset)
		r.Post("/auth/reset", authHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Get("/books", booksHandler.List)
			r.Post("/books", booksHandler.Create)
			r.Get("/books/stats", booksHandler.Stats)
			r.Get("/books/export", booksHandler.Export)
			r.Get("/books/{id}", booksHandler.Get)
			r.Patch("/books/{id}", booksHandler.Patch)
			r.Delete("/books/{id}", booksHandler.Delete)
			r.Get("/search", booksHandler.SearchCatalog)
			r.Get("/goals", goalsHandler.List)
			r.Put("/goals/{year}", goalsHandler.Set)
			r.Delete("/goals/{year}", goalsHandler.Deactivate)
			r.Get("/goals/{year}/progress", goalsHandler.Progress)
			r.Get("/goals/{year}/stats", goalsHandler.DetailedStats)
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
