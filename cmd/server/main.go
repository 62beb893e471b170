// Package main runs the association backend HTTP server with the live
// check-in feed and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gandaki-ict/backend/config"
	"github.com/gandaki-ict/backend/internal/attendance"
	"github.com/gandaki-ict/backend/internal/audit"
	"github.com/gandaki-ict/backend/internal/auth"
	"github.com/gandaki-ict/backend/internal/committee"
	"github.com/gandaki-ict/backend/internal/emaillogs"
	"github.com/gandaki-ict/backend/internal/events"
	"github.com/gandaki-ict/backend/internal/live"
	"github.com/gandaki-ict/backend/internal/mailer"
	"github.com/gandaki-ict/backend/internal/media"
	"github.com/gandaki-ict/backend/internal/middleware"
	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/internal/notices"
	"github.com/gandaki-ict/backend/internal/press"
	"github.com/gandaki-ict/backend/internal/programs"
	"github.com/gandaki-ict/backend/internal/registrations"
	"github.com/gandaki-ict/backend/internal/worker"
	"github.com/gandaki-ict/backend/pkg/database"
	"github.com/gandaki-ict/backend/pkg/queue"
	"github.com/gandaki-ict/backend/pkg/redis"
	"github.com/gandaki-ict/backend/pkg/response"
	"github.com/gandaki-ict/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			MediaBucket:          cfg.AWS.MediaBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			logger.Info("media storage enabled", zap.String("bucket", s3Client.MediaBucket()))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	pubSub := live.NewRedisPubSub(rdb.Client, logger)
	hub := live.NewHub(logger, pubSub, pubSub)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	auditRepo := audit.NewRepository(pool, logger)
	auditHandler := audit.NewHandler(auditRepo)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Content
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo)
	programRepo := programs.NewRepository(pool)
	programHandler := programs.NewHandler(programRepo)
	noticeRepo := notices.NewRepository(pool)
	noticeHandler := notices.NewHandler(noticeRepo)
	pressRepo := press.NewRepository(pool)
	pressHandler := press.NewHandler(pressRepo)
	committeeRepo := committee.NewRepository(pool)
	committeeHandler := committee.NewHandler(committeeRepo)

	// Email pipeline
	emailLogRepo := emaillogs.NewRepository(pool)
	smtpSender := mailer.NewSMTPSender(cfg.Email, logger)
	dispatcher := mailer.NewDispatcher(emailLogRepo, jobQueue, smtpSender, cfg.Email.FromName, logger)

	// Registrations
	registrationRepo := registrations.NewRepository(pool)
	registrationService := registrations.NewService(registrationRepo, dispatcher, auditRepo, cfg.Site.Origin, logger)
	registrationHandler := registrations.NewHandler(registrationService, registrationRepo, logger)

	// Attendance check-in
	attendanceRepo := attendance.NewRepository(pool)
	attendanceService := attendance.NewService(attendanceRepo, auditRepo, live.NewFeed(hub), logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)

	emailLogsHandler := emaillogs.NewHandler(emailLogRepo, registrationRepo, dispatcher, auditRepo, logger)
	mediaHandler := media.NewHandler(s3Client, logger)

	// In-process email worker; deploys that run cmd/worker separately can
	// leave this on, workers compete on the same queue.
	emailProcessor := worker.NewEmailProcessor(smtpSender, emailLogRepo, jobQueue, logger)

	wsValidate := func(token string) (uuid.UUID, models.Role, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return uuid.Nil, "", err
		}
		role, _ := models.ParseRole(claims.Role)
		return claims.UserID, role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Public content and registration
	router.GET("/events", eventHandler.List)
	router.GET("/events/:id", eventHandler.GetByID)
	router.POST("/events/:id/register", registrationHandler.RegisterEvent)
	router.GET("/programs", programHandler.List)
	router.GET("/programs/:id", programHandler.GetByID)
	router.POST("/programs/:id/register", registrationHandler.RegisterProgram)
	router.GET("/notices", noticeHandler.List)
	router.GET("/notices/:id", noticeHandler.GetByID)
	router.GET("/press-releases", pressHandler.List)
	router.GET("/press-releases/:id", pressHandler.GetByID)
	router.GET("/committee-members", committeeHandler.List)
	router.GET("/committee-members/:id", committeeHandler.GetByID)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/users", middleware.RequireRole(models.RoleCommittee), authHandler.List)

		committeeOnly := middleware.RequireRole(models.RoleCommittee)

		// Events
		api.POST("/events", committeeOnly, eventHandler.Create)
		api.PATCH("/events/:id", committeeOnly, eventHandler.Update)
		api.DELETE("/events/:id", committeeOnly, eventHandler.Delete)
		api.GET("/events/:id/registrations", committeeOnly, registrationHandler.ListByEvent)
		api.GET("/events/:id/attendance", committeeOnly, attendanceHandler.StatsByEvent)
		api.GET("/events/:id/watchers", committeeOnly, live.WatcherCountHandler(hub, models.EntityEvent))
		api.GET("/events/:id/emails", committeeOnly, emailLogsHandler.ListByEvent)

		// Programs
		api.POST("/programs", committeeOnly, programHandler.Create)
		api.PATCH("/programs/:id", committeeOnly, programHandler.Update)
		api.DELETE("/programs/:id", committeeOnly, programHandler.Delete)
		api.GET("/programs/:id/registrations", committeeOnly, registrationHandler.ListByProgram)
		api.GET("/programs/:id/attendance", committeeOnly, attendanceHandler.StatsByProgram)
		api.GET("/programs/:id/watchers", committeeOnly, live.WatcherCountHandler(hub, models.EntityProgram))
		api.GET("/programs/:id/emails", committeeOnly, emailLogsHandler.ListByProgram)

		// Attendance verification (QR scan)
		api.POST("/attendance/verify", committeeOnly, attendanceHandler.Verify)

		// Email resend
		api.POST("/registrations/:id/emails/resend", committeeOnly, emailLogsHandler.Resend)

		// Notices
		api.POST("/notices", committeeOnly, noticeHandler.Create)
		api.PATCH("/notices/:id", committeeOnly, noticeHandler.Update)
		api.DELETE("/notices/:id", committeeOnly, noticeHandler.Delete)

		// Press releases
		api.POST("/press-releases", committeeOnly, pressHandler.Create)
		api.PATCH("/press-releases/:id", committeeOnly, pressHandler.Update)
		api.DELETE("/press-releases/:id", committeeOnly, pressHandler.Delete)

		// Committee members
		api.POST("/committee-members", committeeOnly, committeeHandler.Create)
		api.PATCH("/committee-members/:id", committeeOnly, committeeHandler.Update)
		api.DELETE("/committee-members/:id", committeeOnly, committeeHandler.Delete)

		// Media uploads
		api.POST("/media/upload", committeeOnly, mediaHandler.Upload)
		api.DELETE("/media", committeeOnly, mediaHandler.Delete)
		api.GET("/media/download-url", committeeOnly, mediaHandler.DownloadURL)

		// Audit trail
		api.GET("/audit-logs", committeeOnly, auditHandler.ListRecent)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws/checkins", live.ServeWs(hub, logger, wsValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go emailProcessor.Run(workerCtx)
	logger.Info("email worker started")

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
