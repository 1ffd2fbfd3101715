package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/famnest/backend/internal/handlers"
	"github.com/famnest/backend/internal/middleware"
	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/notify"
	"github.com/famnest/backend/internal/presence"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mongoDB *mongo.Database, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.Comment{},
		&models.Reaction{},
		&models.Follow{},
		&models.FamilyRequest{},
		&models.Listing{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	sessionRepo := repositories.NewMongoSessionRepository(mongoDB)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	auditRepo := repositories.NewMongoAuditRepository(mongoDB)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	familyRepo := repositories.NewPostgresFamilyRepository(pgdb)
	groupRepo := repositories.NewMongoGroupRepository(mongoDB)
	eventRepo := repositories.NewMongoEventRepository(mongoDB)
	messageRepo := repositories.NewMongoMessageRepository(mongoDB)
	listingRepo := repositories.NewPostgresListingRepository(pgdb)

	// --- Core services ---
	tracker := presence.NewTracker(userRepo, sessionRepo, nil)
	fanout := notify.NewFanout(notificationRepo, userRepo, auditRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo, fanout)
	userHandler.RegisterProfileRoutes(api)

	presenceHandler := handlers.NewPresenceHandler(tracker)
	presenceHandler.RegisterPresenceRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, fanout)
	notificationHandler.RegisterNotificationRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, commentRepo, reactionRepo)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, fanout)
	commentHandler.RegisterCommentRoutes(api)

	reactionHandler := handlers.NewReactionHandler(reactionRepo, postRepo, userRepo, fanout)
	reactionHandler.RegisterReactionRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, fanout)
	followHandler.RegisterFollowRoutes(api)

	familyHandler := handlers.NewFamilyHandler(familyRepo, userRepo, fanout)
	familyHandler.RegisterFamilyRoutes(api)

	groupHandler := handlers.NewGroupHandler(groupRepo, userRepo, fanout)
	groupHandler.RegisterGroupRoutes(api)

	eventHandler := handlers.NewEventHandler(eventRepo)
	eventHandler.RegisterEventRoutes(api)

	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, fanout)
	messageHandler.RegisterMessageRoutes(api)

	listingHandler := handlers.NewListingHandler(listingRepo, userRepo)
	listingHandler.RegisterListingRoutes(api)

	auditHandler := handlers.NewAuditHandler(auditRepo, userRepo)
	auditHandler.RegisterAuditRoutes(api)

	log.Println("All routes configured.")
}
