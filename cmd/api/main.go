package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nyahub/nya-api/config"
	"github.com/nyahub/nya-api/internal/cache"
	"github.com/nyahub/nya-api/internal/handlers"
	"github.com/nyahub/nya-api/internal/middleware"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/db"
	"github.com/nyahub/nya-api/pkg/googleauth"
	"github.com/nyahub/nya-api/pkg/httpclient"
	"github.com/nyahub/nya-api/pkg/jwt"
	"github.com/nyahub/nya-api/pkg/logger"
	"github.com/nyahub/nya-api/pkg/mailer"
	"github.com/nyahub/nya-api/pkg/metrics"
	"github.com/nyahub/nya-api/pkg/objectstorage"
	"github.com/nyahub/nya-api/pkg/profiling"
	"github.com/nyahub/nya-api/pkg/tracing"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func registerRoutes(
	router *gin.Engine,
	cfg *config.Config,
	client *mongo.Client,
	tokenManager *jwt.TokenManager,
	userRepo *repository.UserRepository,
	capstoneRepo *repository.CapstoneProfileRepository,
	mentorRepo *repository.MentorProfileRepository,
	authHandler *handlers.AuthHandler,
	onboardingHandler *handlers.OnboardingHandler,
	profileHandler *handlers.ProfileHandler,
	mentorHandler *handlers.MentorHandler,
	mentorProfileHandler *handlers.MentorProfileHandler,
	userHandler *handlers.UserHandler,
	requestHandler *handlers.RequestHandler,
	adminHandler *handlers.AdminHandler,
	storyHandler *handlers.StoryHandler,
	ideaHandler *handlers.IdeaHandler,
) {
	authRequired := middleware.AuthMiddleware(tokenManager, userRepo, cfg.Session)
	onboarded := middleware.RequireOnboardingComplete(capstoneRepo, mentorRepo)

	healthHandler := handlers.NewHealthHandler(func(c *gin.Context) error {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx, readpref.Primary())
	})

	api := router.Group("/api")
	api.GET("/healthcheck", healthHandler.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	api.GET("/config", storyHandler.Config)
	api.GET("/stories", storyHandler.List)

	auth := api.Group("/auth")
	auth.POST("/google/login", middleware.BodySizeLimitMiddleware(64*1024), authHandler.GoogleLogin)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	if cfg.Session.DevLoginEnabled {
		logger.Warn("Dev login is ENABLED - do not run this in production")
		auth.POST("/dev-login", authHandler.DevLogin)
	}

	onboarding := api.Group("/onboarding", authRequired)
	onboarding.GET("/status", onboardingHandler.Status)
	onboarding.POST("/role", onboardingHandler.SelectRole)

	profiles := api.Group("/profiles", authRequired)
	profiles.GET("/me", profileHandler.GetMine)
	profiles.POST("/me", middleware.BodySizeLimitMiddleware(64*1024), profileHandler.UpsertMine)
	profiles.POST("/me/avatar", middleware.BodySizeLimitMiddleware(10*1024*1024), profileHandler.UploadAvatar)
	profiles.GET("/:user_id", profileHandler.GetPublic)

	mentors := api.Group("/mentors")
	mentors.GET("", mentorHandler.List)
	mentors.GET("/me", authRequired, mentorProfileHandler.GetMine)
	mentors.POST("/me", authRequired, middleware.BodySizeLimitMiddleware(64*1024), mentorProfileHandler.UpsertMine)
	mentors.GET("/email-templates", authRequired, mentorProfileHandler.ListTemplates)
	mentors.GET("/email-templates/:template_id", authRequired, mentorProfileHandler.GetTemplate)
	mentors.PUT("/email-templates/:template_id", authRequired, middleware.BodySizeLimitMiddleware(256*1024), mentorProfileHandler.UpdateTemplate)
	mentors.POST("/email-templates/:template_id/preview", authRequired, middleware.BodySizeLimitMiddleware(256*1024), mentorProfileHandler.PreviewTemplate)
	mentors.GET("/:mentor_id", mentorHandler.Get)

	users := api.Group("/users", authRequired)
	users.GET("/me", userHandler.Me)
	users.GET("/discover", onboarded, userHandler.Discover)
	users.GET("/recommended", onboarded, userHandler.Recommended)

	requests := api.Group("/requests", authRequired, onboarded)
	requests.POST("", middleware.BodySizeLimitMiddleware(64*1024), requestHandler.Create)
	requests.GET("/incoming", requestHandler.Incoming)
	requests.GET("/outgoing", requestHandler.Outgoing)
	requests.POST("/:id/accept", requestHandler.Accept)
	requests.POST("/:id/reject", requestHandler.Reject)

	admin := api.Group("/admin", authRequired, middleware.RequireAdmin())
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/:id", adminHandler.UpdateUser)
	admin.GET("/mentors/pending", adminHandler.PendingMentors)
	admin.POST("/mentors/:id/approve", adminHandler.ApproveMentor)
	admin.POST("/mentors/:id/reject", adminHandler.RejectMentor)
	admin.GET("/email-templates", adminHandler.ListTemplates)
	admin.GET("/email-templates/:template_id", adminHandler.GetTemplate)
	admin.PUT("/email-templates/:template_id", middleware.BodySizeLimitMiddleware(256*1024), adminHandler.UpdateTemplate)
	admin.POST("/email-templates/:template_id/preview", middleware.BodySizeLimitMiddleware(256*1024), adminHandler.PreviewTemplate)
	admin.POST("/stories", middleware.BodySizeLimitMiddleware(256*1024), adminHandler.UpdateStories)

	ideaWindow := time.Duration(cfg.Idea.RateWindowSecs) * time.Second
	if ideaWindow <= 0 {
		ideaWindow = time.Minute
	}
	ideaLimit := cfg.Idea.RateLimit
	if ideaLimit <= 0 {
		ideaLimit = 5
	}
	ideaLimiter := middleware.NewIPRateLimiter(ideaLimit, ideaWindow)
	ideas := api.Group("/ideas", authRequired, onboarded)
	ideas.POST("/capstone", middleware.RateLimit(ideaLimiter), middleware.BodySizeLimitMiddleware(64*1024), ideaHandler.Generate)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting NYA API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	if cfg.Observability.TracingEnabled {
		tracerShutdown, err := tracing.InitTracer(
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceVersion,
			cfg.Server.AppEnv,
			cfg.Observability.ExporterEndpoint,
		)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
				logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
			}
		}()
	}

	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	if cfg.Profiling.Enabled {
		stopProfiler, err := profiling.InitProfiler(
			cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv,
		)
		if err != nil {
			logger.Error("Failed to initialize profiler", zap.Error(err))
		} else {
			defer stopProfiler()
		}
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	client, database, err := db.Connect(connectCtx, db.Config{
		URI:      cfg.Database.URI,
		Database: cfg.Database.Database,
	})
	cancelConnect()
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(disconnectErr))
		}
	}()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx, database); err != nil {
		cancelIndexes()
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}
	cancelIndexes()

	// Repositories
	userRepo := repository.NewUserRepository(database)
	capstoneRepo := repository.NewCapstoneProfileRepository(database)
	mentorRepo := repository.NewMentorProfileRepository(database)
	requestRepo := repository.NewRequestRepository(database)
	mentorTemplateRepo := repository.NewMentorEmailTemplateRepository(database)
	globalTemplateRepo := repository.NewGlobalEmailTemplateRepository(database)
	storyRepo := repository.NewStoryRepository(database)

	mentorCache := cache.NewMentorCache(cfg.Cache.MentorTTLSeconds, cfg.Cache.DisableCache)

	// Outbound dependencies
	var imageStore services.ImageStore
	if cfg.ObjectStorage.Enabled {
		storageClient, err := objectstorage.NewClient(
			cfg.ObjectStorage.AccessKeyID,
			cfg.ObjectStorage.SecretAccessKey,
			cfg.ObjectStorage.BucketName,
			cfg.ObjectStorage.Endpoint,
			cfg.ObjectStorage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
		imageStore = storageClient
	} else {
		logger.Warn("Object storage is not configured - avatar uploads disabled")
	}

	smtpMailer := mailer.New(mailer.Config{
		Enabled:     cfg.SMTP.Enabled,
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		User:        cfg.SMTP.User,
		Password:    cfg.SMTP.Password,
		From:        cfg.SMTP.From,
		UseStartTLS: cfg.SMTP.UseStartTLS,
	})
	if !smtpMailer.Enabled() {
		logger.Warn("SMTP is not configured - notification emails disabled")
	}

	tokenManager := jwt.NewTokenManager(
		cfg.Session.JWTSecret,
		cfg.Session.JWTIssuer,
		cfg.Session.AccessTTLMinutes,
		cfg.Session.RefreshTTLDays,
	)
	verifier := googleauth.NewVerifier(cfg.Google.ClientID)
	ideaClient := httpclient.New(time.Duration(cfg.Idea.TimeoutSeconds) * time.Second)

	// Services
	mentorTemplateService := services.NewMentorEmailTemplateService(mentorTemplateRepo)
	globalTemplateService := services.NewGlobalEmailTemplateService(globalTemplateRepo)
	notifier := services.NewEmailNotifier(smtpMailer, userRepo, mentorTemplateService, globalTemplateService, cfg)
	authService := services.NewAuthService(userRepo, verifier, tokenManager, cfg.Session)
	userService := services.NewUserService(userRepo, capstoneRepo, mentorRepo, imageStore)
	profileService := services.NewProfileService(capstoneRepo, userRepo)
	mentorService := services.NewMentorService(mentorRepo, userRepo, mentorCache)
	mentorProfileService := services.NewMentorProfileService(mentorRepo, userRepo, notifier, mentorCache)
	discoveryService := services.NewDiscoveryService(capstoneRepo, userRepo, requestRepo)
	requestService := services.NewRequestService(requestRepo, userRepo, mentorRepo, notifier)
	adminUserService := services.NewAdminUserService(userRepo, capstoneRepo)
	storyService := services.NewStoryService(storyRepo)
	ideaService := services.NewIdeaService(cfg.Idea, ideaClient)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Session)
	onboardingHandler := handlers.NewOnboardingHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService, userService)
	mentorHandler := handlers.NewMentorHandler(mentorService)
	mentorProfileHandler := handlers.NewMentorProfileHandler(mentorProfileService, mentorTemplateService)
	userHandler := handlers.NewUserHandler(discoveryService)
	requestHandler := handlers.NewRequestHandler(requestService)
	adminHandler := handlers.NewAdminHandler(adminUserService, mentorProfileService, globalTemplateService, storyService)
	storyHandler := handlers.NewStoryHandler(storyService, cfg.Google.ClientID)
	ideaHandler := handlers.NewIdeaHandler(ideaService)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	if cfg.Observability.TracingEnabled {
		router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	}
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:8000", "http://127.0.0.1:8000")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // session cookies
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(router, cfg, client, tokenManager,
		userRepo, capstoneRepo, mentorRepo,
		authHandler, onboardingHandler, profileHandler, mentorHandler,
		mentorProfileHandler, userHandler, requestHandler, adminHandler,
		storyHandler, ideaHandler)

	// Frontend static files, when present.
	if cfg.Server.WebDir != "" {
		router.Static("/web", cfg.Server.WebDir)
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
