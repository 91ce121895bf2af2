package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/blogify-app/backend/internal/handlers"
	"github.com/blogify-app/backend/internal/middleware"
	"github.com/blogify-app/backend/internal/models"
	"github.com/blogify-app/backend/internal/push"
	"github.com/blogify-app/backend/internal/repositories"
	"github.com/blogify-app/backend/internal/services"
	"github.com/blogify-app/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Runtime holds the long-lived components main needs for shutdown.
type Runtime struct {
	Engagement *services.EngagementService
	Dispatcher *push.QueueDispatcher
}

// Shutdown waits for in-flight publish fan-outs and drains the push queue.
func (r *Runtime) Shutdown() {
	r.Engagement.WaitForFanouts()
	r.Dispatcher.Close()
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) *Runtime {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Like{},
		&models.Notification{},
		&models.PushSubscription{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	handlers.RegisterHealthRoutes(e)

	mongoDB := mgClient.Database(cfg.MongoDBName)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	subscriptionRepo := repositories.NewPostgresSubscriptionRepository(pgdb)
	blogRepo := repositories.NewMongoBlogRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)

	// --- Push pipeline ---
	sender := push.NewWebPushSender(cfg.VAPIDSubscriber, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	dispatcher := push.NewQueueDispatcher(subscriptionRepo, sender, cfg.PushQueueSize, cfg.PushWorkers)

	// --- Services ---
	notificationEngine := services.NewNotificationEngine(notificationRepo, userRepo)
	socialGraph := services.NewSocialGraphService(userRepo, followRepo, notificationRepo)
	engagement := services.NewEngagementService(blogRepo, commentRepo, likeRepo, followRepo, notificationEngine, dispatcher)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, followRepo, likeRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(socialGraph, userRepo)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Blog routes
	blogHandler := handlers.NewBlogHandler(engagement, blogRepo, commentRepo, userRepo, likeRepo, followRepo)
	blogHandler.RegisterBlogRoutes(api)
	log.Println("Blog routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(engagement, userRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationEngine)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Push subscription routes
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo)
	subscriptionHandler.RegisterSubscriptionRoutes(api)
	log.Println("Push subscription routes configured.")

	log.Println("All routes configured.")

	return &Runtime{Engagement: engagement, Dispatcher: dispatcher}
}
