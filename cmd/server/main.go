package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yogamitra.app/backend/internal/api"
	"yogamitra.app/backend/internal/config"
	"yogamitra.app/backend/internal/core"
	"yogamitra.app/backend/internal/session"
	"yogamitra.app/backend/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Fetch the banned-word list once; a failed fetch leaves moderation
	// with an empty set rather than blocking startup.
	words := core.FetchBannedWords(config.AppConfig.BannedWordsURL)
	filter := core.NewModerationFilter(words)
	log.Printf("Moderation filter loaded with %d banned words", filter.Size())

	// Initialize chat provider and pipeline
	var provider core.ChatProvider
	if config.AppConfig.GroqAPIKey != "" {
		provider = core.NewGroqClient(config.AppConfig.GroqAPIKey)
	}
	chatService := core.NewChatService(provider, filter, dbStore)

	// Initialize pose analysis
	var pose core.PoseAnalyzer
	if config.AppConfig.GeminiAPIKey != "" {
		poseService, err := core.NewPoseService(config.AppConfig.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize pose service: %v", err)
		}
		defer poseService.Close()
		pose = poseService
	}

	// Initialize account service and sessions
	accountService := core.NewAccountService(dbStore)
	sessions := session.NewManager(time.Duration(config.AppConfig.SessionTTLSecs) * time.Second)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(sessions, accountService, chatService, pose, dbStore)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Provider calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
