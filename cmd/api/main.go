package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gestibat/api/internal/config"
	"gestibat/api/internal/model"
	"gestibat/api/internal/server"
	"gestibat/api/internal/service"

	_ "gestibat/api/docs"
)

// @title GestiBat API
// @version 1.0
// @description Gestion d'entreprise 3F INDUSTRIE - chantiers, clients, monteurs, stock et rapports

// @contact.name API Support
// @contact.email support@gestibat.local

// @host localhost:3000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	log.Println("[API] Starting GestiBat API Server...")

	// .env is optional, real deployments use the environment
	if err := godotenv.Load(); err == nil {
		log.Println("[API] Loaded .env file")
	}

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("[API] Failed to connect to database: %v", err)
	}
	log.Println("[API] Connected to database")

	// Auto migrate
	if err := autoMigrate(db); err != nil {
		log.Fatalf("[API] Failed to migrate database: %v", err)
	}
	log.Println("[API] Database migrated")

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("[API] Failed to connect to Redis: %v", err)
	}
	log.Println("[API] Connected to Redis")
	defer redisClient.Close()

	// Seed the first admin account when the users table is empty
	authService := service.NewAuthService(db, redisClient, cfg.BootstrapRole, cfg.SessionTTL)
	if err := seedAdmin(ctx, db, authService, cfg); err != nil {
		log.Fatalf("[API] Failed to seed admin account: %v", err)
	}

	// Create and setup server
	srv := server.NewServer(cfg, db, redisClient)
	srv.Setup()

	// Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	go func() {
		if err := srv.Run(addr); err != nil {
			log.Fatalf("[API] Failed to start server: %v", err)
		}
	}()

	log.Printf("[API] Server ready on %s", addr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("[API] Shutting down...")
	log.Println("[API] Server stopped")
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Client{},
		&model.Monteur{},
		&model.Chantier{},
		&model.AffectationMonteur{},
		&model.LigneCout{},
		&model.Versement{},
		&model.ArticleStock{},
		&model.MouvementStock{},
	)
}

func seedAdmin(ctx context.Context, db *gorm.DB, authService *service.AuthService, cfg *config.Config) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := authService.CreateUser(ctx, &model.CreateUserRequest{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     "Administrateur",
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	log.Printf("[API] Seeded admin account %s", cfg.AdminEmail)
	return nil
}
