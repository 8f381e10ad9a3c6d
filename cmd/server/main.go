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

	"battlemap-sync-server/internal/config"
	"battlemap-sync-server/internal/handler"
	"battlemap-sync-server/internal/middleware"
	"battlemap-sync-server/internal/repository"
	"battlemap-sync-server/internal/service"
	"battlemap-sync-server/internal/validation"
	"battlemap-sync-server/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)

	client, err := kivik.New("couch", couchURL)
	if err != nil {
		log.Fatalf("Failed to connect to CouchDB: %v", err)
	}

	exists, err := client.DBExists(context.Background(), cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to check database existence: %v", err)
	}

	if !exists {
		if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
		log.Printf("Created database: %s", cfg.Database.Name)
	}

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	mapRepo := repository.NewMapRepository(client, cfg.Database.Name)
	objectRepo := repository.NewObjectRepository(client, cfg.Database.Name)

	baseURL := fmt.Sprintf("%s/%s", couchURL, cfg.Database.Name)
	operationRepo := repository.NewOperationRepository(baseURL)

	// WebSocket Manager
	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)
	go wsManager.Run()

	registry := validation.NewSchemaRegistry()

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	userService := service.NewUserService(userRepo)

	syncService := service.NewSyncService(objectRepo, wsManager)
	conflictService := service.NewConflictService(objectRepo, operationRepo, syncService, cfg.Conflict.AutoResolve)
	objectService := service.NewObjectService(objectRepo, registry, conflictService, syncService)
	mapService := service.NewMapService(mapRepo, objectRepo)
	validationService := service.NewValidationService(registry, objectRepo, cfg.Validation.StrictMode, cfg.Validation.DebounceDelay)

	if err := conflictService.LoadPending(); err != nil {
		log.Printf("Failed to load pending conflicts: %v", err)
	}

	wsMessageHandler := handler.NewWebSocketMessageHandler(syncService, conflictService)
	wsManager.SetMessageHandler(wsMessageHandler)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	mapHandler := handler.NewMapHandler(mapService)
	objectHandler := handler.NewObjectHandler(objectService)
	conflictHandler := handler.NewConflictHandler(conflictService)
	schemaHandler := handler.NewSchemaHandler(registry)
	validationHandler := handler.NewValidationHandler(validationService)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.JWT.Secret)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET", "OPTIONS")
	protected.HandleFunc("/users/me", userHandler.UpdateMe).Methods("PUT", "OPTIONS")

	protected.HandleFunc("/maps", mapHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/maps", mapHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/maps/{id}", mapHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/maps/{id}", mapHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/maps/{id}", mapHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/objects", objectHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/objects", objectHandler.ListByMap).Methods("GET", "OPTIONS")
	protected.HandleFunc("/objects/{id}", objectHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/objects/{id}", objectHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/objects/{id}", objectHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/operations", conflictHandler.SubmitOperation).Methods("POST", "OPTIONS")
	protected.HandleFunc("/operations/{id}/review", conflictHandler.ReviewOperation).Methods("POST", "OPTIONS")
	protected.HandleFunc("/conflicts", conflictHandler.ListConflicts).Methods("GET", "OPTIONS")
	protected.HandleFunc("/conflicts/{objectId}", conflictHandler.GetConflict).Methods("GET", "OPTIONS")
	protected.HandleFunc("/conflicts/{objectId}/resolve", conflictHandler.ResolveConflict).Methods("POST", "OPTIONS")

	protected.HandleFunc("/schemas", schemaHandler.ListObjectTypes).Methods("GET", "OPTIONS")
	protected.HandleFunc("/schemas/fields/{fieldId}", schemaHandler.RemoveCustomField).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/schemas/{objectType}", schemaHandler.GetSchema).Methods("GET", "OPTIONS")
	protected.HandleFunc("/schemas/{objectType}/fields", schemaHandler.GetFields).Methods("GET", "OPTIONS")
	protected.HandleFunc("/schemas/{objectType}/fields", schemaHandler.AddCustomField).Methods("POST", "OPTIONS")
	protected.HandleFunc("/schemas/{objectType}/groups", schemaHandler.GetGroups).Methods("GET", "OPTIONS")

	protected.HandleFunc("/objects/{id}/validation", validationHandler.GetValidation).Methods("GET", "OPTIONS")
	protected.HandleFunc("/objects/{id}/validation", validationHandler.CloseEditor).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/objects/{id}/values/{key}", validationHandler.SetValue).Methods("PUT", "OPTIONS")

	r.HandleFunc("/ws", wsHandler.HandleConnection)

	// Health endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/", rootHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting Battlemap Sync Server on %s (env: %s)", addr, cfg.Server.Env)
		log.Printf("Connected to CouchDB at %s:%s", cfg.Database.Host, cfg.Database.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"battlemap-sync-server"}`))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Battlemap Sync Server API","version":"1.0.0","endpoints":{"/api/v1/auth/register":"POST","/api/v1/auth/login":"POST","/api/v1/maps":"GET (protected)","/api/v1/conflicts":"GET (protected)"}}`))
}
