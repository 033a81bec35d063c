package router

import (
	"context"
	"fmt"
	"time"

	authAPI "teamboard-api/api/v1/auth"
	csrfAPI "teamboard-api/api/v1/csrf"
	mfaAPI "teamboard-api/api/v1/mfa"
	sessionAPI "teamboard-api/api/v1/sessions"
	userAPI "teamboard-api/api/v1/users"
	internalAuth "teamboard-api/internal/auth"
	"teamboard-api/internal/cache"
	"teamboard-api/internal/jwt"
	"teamboard-api/internal/logger"
	"teamboard-api/internal/mfa"
	"teamboard-api/internal/middleware"
	"teamboard-api/internal/session"
	"teamboard-api/internal/socket"
	internalUser "teamboard-api/internal/user"
	"teamboard-api/pkg/config"
	"teamboard-api/pkg/db"
	"teamboard-api/pkg/redis"
	"teamboard-api/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Dependencies are the connections opened by main and shared by every service
type Dependencies struct {
	Config *config.AppConfig
	Logger *logger.Logger
	DB     *gorm.DB
	Redis  redis.Store

	// S3 is nil when object storage is not configured
	S3 *s3.Client
}

// App is the assembled HTTP surface plus the long-lived pieces main has to stop
type App struct {
	Engine   *gin.Engine
	Hub      *socket.Hub
	Users    *internalUser.Service
	Verifier *session.Verifier
}

// Services are built once per process and handed to the handlers that need them
type services struct {
	tokens   *jwt.JWTService
	cache    *cache.Service
	users    *internalUser.Service
	verifier *session.Verifier
	auth     *internalAuth.Service
	mfa      *mfa.Service
	hub      *socket.Hub
}

func initServices(deps Dependencies) (*services, error) {
	cfg := deps.Config
	log := deps.Logger

	tokens, err := jwt.NewJWTService(jwt.Config{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		Issuer:        cfg.Auth.Issuer,
		AccessExpiry:  cfg.Auth.AccessTTL,
		RefreshExpiry: cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt service: %w", err)
	}

	cacheService := cache.NewService(deps.Redis, log, cache.Options{
		DefaultUserTTL: cfg.Auth.UserCacheTTL,
		FailOpen:       cfg.Auth.FailOpen,
	})

	userService := internalUser.NewService(internalUser.NewRepository(deps.DB), log)
	verifier := session.NewVerifier(tokens, cacheService, userService, log)

	return &services{
		tokens:   tokens,
		cache:    cacheService,
		users:    userService,
		verifier: verifier,
		auth:     internalAuth.NewService(userService, tokens, cacheService, *cfg.TOTP, log),
		mfa:      mfa.NewService(mfa.NewRepository(deps.DB), deps.Redis, *cfg.TOTP, log),
		hub:      socket.NewHub(socket.HubOptions{MaxRoomSize: cfg.Socket.MaxRoomSize}, log),
	}, nil
}

// SetupCORS configures CORS settings
func SetupCORS(r *gin.Engine, allowedOrigins []string) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 24 * time.Hour

	r.Use(cors.New(corsConfig))
}

// SetupEngine creates a gin engine with recovery and request logging
func SetupEngine(cfg *config.AppConfig, log *logger.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	return r, nil
}

// SetupRouter builds every service from deps and registers all routes.
// ctx bounds background work such as the rate limiter sweep.
func SetupRouter(ctx context.Context, deps Dependencies) (*App, error) {
	cfg := deps.Config
	log := deps.Logger

	svc, err := initServices(deps)
	if err != nil {
		log.WithError(err).Error("Failed to initialize services")
		return nil, err
	}

	r, err := SetupEngine(cfg, log)
	if err != nil {
		return nil, err
	}

	SetupCORS(r, cfg.AllowedOrigins)

	if cfg.CSRF.Enabled {
		r.Use(middleware.CSRFMiddleware(cfg.CSRF, log, cfg.Auth.CookieName, cfg.Auth.RefreshCookieName))
	}

	checks := []HealthCheck{
		{Name: "redis", Check: svc.cache.Ping},
		{Name: "database", Check: func(ctx context.Context) error { return db.Health(ctx, deps.DB) }},
	}
	if deps.S3 != nil {
		checks = append(checks, HealthCheck{Name: "storage", Check: deps.S3.Ping, Optional: true})
	}
	r.GET("/healthz", HealthHandler(log, checks...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	requireSession := middleware.AuthMiddleware(svc.verifier, cfg.Auth.CookieName, log)

	if cfg.CSRF.Enabled {
		csrfAPI.RegisterPublicRoutes(v1, csrfAPI.NewHandler(log))
	}

	authHandler := authAPI.NewHandler(svc.auth, authAPI.CookieOptions{
		AccessName:  cfg.Auth.CookieName,
		RefreshName: cfg.Auth.RefreshCookieName,
		Domain:      cfg.Auth.CookieDomain,
		Secure:      cfg.Auth.CookieSecure,
	}, log)
	limiter := middleware.NewIPRateLimiter(ctx, rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst, log)
	authAPI.RegisterPublicRoutes(v1, authHandler, limiter.Middleware())

	protected := v1.Group("", requireSession)
	authAPI.RegisterProtectedRoutes(protected, authHandler)

	var avatars userAPI.AvatarStore
	if deps.S3 != nil {
		avatars = deps.S3
	}
	maxAvatarBytes := int64(0)
	if cfg.S3 != nil {
		maxAvatarBytes = cfg.S3.MaxAvatarBytes
	}
	userAPI.RegisterProtectedRoutes(protected, userAPI.NewHandler(svc.users, avatars, maxAvatarBytes, log))
	mfaAPI.RegisterProtectedRoutes(protected, mfaAPI.NewHandler(svc.mfa, log))
	sessionAPI.RegisterProtectedRoutes(protected, sessionAPI.NewHandler(svc.hub, log))

	socketHandler := socket.NewHandler(svc.verifier, svc.hub, socket.HandlerOptions{
		CookieName:     cfg.Auth.CookieName,
		AllowedOrigins: cfg.AllowedOrigins,
		SendBuffer:     cfg.Socket.SendBuffer,
	}, log)
	r.GET("/ws", socketHandler.Serve)

	log.Info("Router setup completed successfully")
	return &App{
		Engine:   r,
		Hub:      svc.hub,
		Users:    svc.users,
		Verifier: svc.verifier,
	}, nil
}
