package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/socialchat/gateway/internal/authprovider"
	"github.com/socialchat/gateway/internal/blob"
	"github.com/socialchat/gateway/internal/push"
	"github.com/socialchat/gateway/internal/repositories"
	"github.com/socialchat/gateway/internal/router"
	"github.com/socialchat/gateway/internal/ws"
	"github.com/socialchat/gateway/pkg/config"
	"github.com/socialchat/gateway/pkg/firebase"
	"github.com/socialchat/gateway/validators"
)

const storySweepInterval = 10 * time.Minute

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, cfg, err := config.InitDB(logger)
	if err != nil {
		logger.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		logger.Fatal("failed to initialize Firebase", zap.Error(err))
	}

	bucket, err := firebaseApp.StorageClient.DefaultBucket()
	if err != nil {
		logger.Fatal("failed to open storage bucket", zap.Error(err))
	}

	provider := authprovider.NewFirebaseProvider(firebaseApp.AuthClient)
	blobStore := blob.NewStore(bucket, cfg.StorageBucket)
	sender := push.NewSender(firebaseApp.MessagingClient, logger)
	hub := ws.NewHub(logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e)

	deps := &router.Deps{
		Log:            logger,
		Postgres:       db.Postgres,
		Mongo:          db.Mongo,
		Database:       cfg.MongoDatabase,
		Provider:       provider,
		Blob:           blobStore,
		Push:           sender,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	if err := router.SetupRoutes(e, deps); err != nil {
		logger.Fatal("failed to set up routes", zap.Error(err))
	}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go sweepExpiredStories(sweepCtx, db, cfg, logger)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	stopSweeper()
	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
}

// sweepExpiredStories periodically removes stories past their expiry. Reads
// already filter on expires_at, so the sweeper only reclaims storage; a
// missed cycle is invisible to clients.
func sweepExpiredStories(ctx context.Context, db *config.DB, cfg *config.Config, logger *zap.Logger) {
	stories := repositories.NewMongoStoryRepository(db.Mongo.Database(cfg.MongoDatabase))

	ticker := time.NewTicker(storySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := stories.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.Warn("story sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("expired stories removed", zap.Int64("count", removed))
			}
		}
	}
}
