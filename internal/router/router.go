package router

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/socialchat/gateway/internal/authprovider"
	"github.com/socialchat/gateway/internal/blob"
	"github.com/socialchat/gateway/internal/handlers"
	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/push"
	"github.com/socialchat/gateway/internal/repositories"
	"github.com/socialchat/gateway/internal/views"
	"github.com/socialchat/gateway/internal/ws"
)

// Deps carries everything route construction needs.
type Deps struct {
	Log            *zap.Logger
	Postgres       *gorm.DB
	Mongo          *mongo.Client
	Database       string
	Provider       authprovider.Provider
	Blob           *blob.Store
	Push           *push.Sender
	Hub            *ws.Hub
	AllowedOrigins []string
}

// SetupRoutes wires repositories, views and handlers onto the Echo instance.
func SetupRoutes(e *echo.Echo, d *Deps) error {
	if err := d.Postgres.AutoMigrate(&repositories.UsernameRecord{}); err != nil {
		return err
	}

	db := d.Mongo.Database(d.Database)

	// --- Repositories ---
	profileRepo := repositories.NewMongoProfileRepository(db)
	postRepo := repositories.NewMongoPostRepository(d.Mongo, db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	likeRepo := repositories.NewMongoLikeRepository(db)
	friendshipRepo := repositories.NewMongoFriendshipRepository(db)
	messageRepo := repositories.NewMongoMessageRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)
	storyRepo := repositories.NewMongoStoryRepository(db)
	registry := repositories.NewUsernameRegistry(d.Postgres)

	notifier := handlers.NewNotifier(notificationRepo, profileRepo, d.Push)

	// --- Live views over change streams ---
	viewMgr := views.NewManager(db, d.Log, profileRepo, postRepo, commentRepo,
		friendshipRepo, messageRepo, notificationRepo, storyRepo)

	// Health check - always accessible
	healthHandler := handlers.NewHealthHandler(d.Mongo)
	e.GET("/health", healthHandler.Check)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(d.Provider, profileRepo, registry, d.Log)
	authGroup := e.Group("/api/v1/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/session", authHandler.Session)
	authGroup.GET("/username-available", authHandler.UsernameAvailable)

	// WebSocket endpoint authenticates its own token query param.
	e.GET("/ws", ws.ServeWS(d.Hub, viewMgr, d.Provider, ws.RegistryExists(registry.Exists), d.AllowedOrigins, d.Log))

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuth(d.Provider))

	// Profile routes
	profileHandler := handlers.NewProfileHandler(profileRepo, d.Blob, d.Log)
	api.GET("/me", profileHandler.GetMe)
	api.PATCH("/me", profileHandler.UpdateMe)
	api.PUT("/me/push-token", profileHandler.RegisterPushToken)
	api.GET("/users/search", profileHandler.Search)
	api.GET("/users/by-username/:username", profileHandler.GetByUsername)
	api.GET("/users/:id", profileHandler.GetProfile)

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, profileRepo)
	api.POST("/posts", postHandler.Create)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Get)
	api.PATCH("/posts/:id", postHandler.Update)
	api.DELETE("/posts/:id", postHandler.Delete)
	api.GET("/users/:id/posts", postHandler.ListByUser)

	// Comment routes
	commentHandler := handlers.NewCommentHandler(d.Mongo, postRepo, commentRepo, profileRepo, notifier)
	api.POST("/posts/:id/comments", commentHandler.Create)
	api.GET("/posts/:id/comments", commentHandler.List)

	// Like routes
	likeHandler := handlers.NewLikeHandler(d.Mongo, postRepo, likeRepo, notifier)
	api.PUT("/posts/:id/like", likeHandler.Like)
	api.DELETE("/posts/:id/like", likeHandler.Unlike)

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(d.Mongo, friendshipRepo, profileRepo, notifier)
	api.POST("/friends/requests", friendshipHandler.Send)
	api.GET("/friends/requests", friendshipHandler.ListRequests)
	api.POST("/friends/requests/:id/accept", friendshipHandler.Accept)
	api.POST("/friends/requests/:id/reject", friendshipHandler.Reject)
	api.GET("/friends", friendshipHandler.ListFriends)
	api.DELETE("/friends/:id", friendshipHandler.Unfriend)

	// Message routes
	messageHandler := handlers.NewMessageHandler(d.Mongo, messageRepo, friendshipRepo, profileRepo, notifier)
	api.POST("/messages", messageHandler.Send)
	api.GET("/messages/unread-count", messageHandler.UnreadCount)
	api.GET("/messages/:id", messageHandler.Conversation)
	api.POST("/messages/:id/read", messageHandler.MarkRead)

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	api.GET("/notifications", notificationHandler.List)
	api.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	api.POST("/notifications/:id/read", notificationHandler.MarkRead)
	api.DELETE("/notifications/:id", notificationHandler.Delete)

	// Story routes
	storyHandler := handlers.NewStoryHandler(storyRepo, profileRepo)
	api.POST("/stories", storyHandler.Create)
	api.GET("/stories", storyHandler.ListActive)
	api.GET("/stories/:id", storyHandler.Get)
	api.POST("/stories/:id/view", storyHandler.View)

	// Upload routes
	uploadHandler := handlers.NewUploadHandler(d.Blob)
	api.POST("/uploads/:kind", uploadHandler.Upload)

	d.Log.Info("routes configured")
	return nil
}
