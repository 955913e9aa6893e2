package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"smartcity/libs/backend"
	"smartcity/libs/citydata"
	"smartcity/libs/mailer"
	"smartcity/libs/tokenstore"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	devCORSOriginLocalhost   = "http://localhost:5173"
	devCORSOriginLoopback    = "http://127.0.0.1:5173"
	trustedProxyLoopbackIPv4 = "127.0.0.1"
	trustedProxyLoopbackIPv6 = "::1"
	requestIDHeader          = "X-Request-ID"
	requestIDContextKey      = "request_id"
	minSealingSecretLength   = 16
)

var tokenStoreKinds = []string{"file", "sqlite", "postgres", "redis"}

type Config struct {
	Addr                string
	Env                 string
	PublicBaseURL       string
	BackendBaseURL      string
	BackendTimeout      time.Duration
	FanoutTimeout       time.Duration
	TokenStore          string
	TokenFilePath       string
	TokenSQLitePath     string
	DatabaseURL         string
	RedisAddr           string
	RedisKeyPrefix      string
	TokenSealingSecret  string
	ResendAPIKey        string
	MailerFromAddresses map[string]string
	DigestRecipients    []string
}

// cityBackend is the part of *backend.Client the gateway depends on.
type cityBackend interface {
	Login(ctx context.Context, email, password string) backend.LoginResult
	Validate(ctx context.Context) (citydata.RawValidation, error)
	KPIs(ctx context.Context) (citydata.RawKPIs, error)
	Dashboard(ctx context.Context) (citydata.RawDashboard, error)
	Analytics(ctx context.Context) (citydata.RawAnalytics, error)
	Cameras(ctx context.Context) (any, error)
}

type App struct {
	cfg      *Config
	log      *slog.Logger
	tokens   *tokenstore.Store
	backend  cityBackend
	registry *citydata.Registry
	mailer   *mailer.Mailer
	now      func() time.Time

	sessionMu   sync.RWMutex
	sessionUser *citydata.User
}

type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

func main() {
	if err := loadDotEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	tokenBackend, err := openTokenBackend(ctx, cfg)
	if err != nil {
		panic(err)
	}
	storeOpts := []tokenstore.Option{tokenstore.WithLogger(logger)}
	if cfg.TokenSealingSecret != "" {
		storeOpts = append(storeOpts, tokenstore.WithSealer(cfg.TokenSealingSecret))
	}
	tokens, err := tokenstore.Open(ctx, tokenBackend, storeOpts...)
	if err != nil {
		panic(err)
	}
	defer tokens.Close()

	mailClient := mailer.NewFromConfig(cfg.ResendAPIKey, cfg.MailerFromAddresses, logger)
	logger.Info("mailer initialized", "provider", mailClient.ProviderName())

	app := &App{
		cfg:      cfg,
		log:      logger,
		tokens:   tokens,
		backend:  backend.New(cfg.BackendBaseURL, tokens, backend.WithTimeout(cfg.BackendTimeout)),
		registry: citydata.Defaults,
		mailer:   mailClient,
		now:      time.Now,
	}

	logger.Info(
		"runtime configuration",
		"env", cfg.Env,
		"addr", cfg.Addr,
		"backend", cfg.BackendBaseURL,
		"token_store", cfg.TokenStore,
		"token_sealed", cfg.TokenSealingSecret != "",
	)

	if len(os.Args) > 1 && os.Args[1] == "validate-token" {
		outcome := app.validateStoredToken(ctx)
		logger.Info("validate-token completed", "outcome", outcome)
		return
	}

	if len(os.Args) > 1 && os.Args[1] == "send-incident-digest" {
		if err := app.sendIncidentDigest(ctx); err != nil {
			logger.Error("failed to send incident digest", "err", err)
			os.Exit(1)
		}
		logger.Info("send-incident-digest completed")
		return
	}

	outcome := app.validateStoredToken(ctx)
	logger.Info("startup token validation", "outcome", outcome)

	r, err := app.router()
	if err != nil {
		panic(err)
	}

	app.log.Info("starting gin API", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		panic(err)
	}
}

func (a *App) router() (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies([]string{trustedProxyLoopbackIPv4, trustedProxyLoopbackIPv6}); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	r.Use(a.requestIDMiddleware())
	r.Use(a.loggingMiddleware())
	r.Use(a.corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/analytics/charts", a.analyticsChartsHandler)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", a.loginHandler)
			auth.POST("/logout", a.logoutHandler)
			auth.GET("/session", a.sessionHandler)
		}

		api.GET("/dashboard", a.dashboardHandler)
		api.GET("/analytics", a.analyticsHandler)
		api.GET("/analytics/report.pdf", a.analyticsReportHandler)
		api.GET("/map", a.mapHandler)
		api.GET("/cameras", a.camerasHandler)
		api.GET("/incidents", a.incidentsHandler)
	}
	return r, nil
}

func loadConfig() (*Config, error) {
	publicBase := strings.TrimRight(valueOrDefault("PUBLIC_BASE_URL", "http://localhost:5173"), "/")

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	backendTimeout, err := durationFromEnv("BACKEND_TIMEOUT", backend.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	fanoutTimeout, err := durationFromEnv("FANOUT_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:               valueOrDefault("GATEWAY_ADDR", ":8080"),
		Env:                env,
		PublicBaseURL:      publicBase,
		BackendBaseURL:     strings.TrimRight(valueOrDefault("BACKEND_BASE_URL", "http://localhost:8081/api"), "/"),
		BackendTimeout:     backendTimeout,
		FanoutTimeout:      fanoutTimeout,
		TokenStore:         strings.ToLower(valueOrDefault("TOKEN_STORE", "file")),
		TokenFilePath:      valueOrDefault("TOKEN_FILE_PATH", "data/auth_token"),
		TokenSQLitePath:    valueOrDefault("TOKEN_SQLITE_PATH", "data/gateway.db"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisKeyPrefix:     valueOrDefault("REDIS_KEY_PREFIX", "smartcity:"),
		TokenSealingSecret: strings.TrimSpace(os.Getenv("TOKEN_SEALING_SECRET")),
		ResendAPIKey:       strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		MailerFromAddresses: map[string]string{
			"resend": valueOrDefault("MAILER_FROM_ADDRESS_RESEND", "noreply@mail.smartcity.ai"),
			"log":    valueOrDefault("MAILER_FROM_ADDRESS_LOG", "noreply@smartcity.local"),
		},
		DigestRecipients: splitList(os.Getenv("DIGEST_RECIPIENTS")),
	}

	if !containsString(tokenStoreKinds, cfg.TokenStore) {
		return nil, fmt.Errorf("TOKEN_STORE must be one of %s", strings.Join(tokenStoreKinds, ", "))
	}
	if cfg.TokenStore == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be configured when TOKEN_STORE=postgres")
	}
	if cfg.TokenStore == "redis" && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR must be configured when TOKEN_STORE=redis")
	}
	if cfg.TokenSealingSecret != "" && len(cfg.TokenSealingSecret) < minSealingSecretLength {
		return nil, fmt.Errorf("TOKEN_SEALING_SECRET must be at least %d characters", minSealingSecretLength)
	}
	if !strings.HasPrefix(cfg.BackendBaseURL, "http://") && !strings.HasPrefix(cfg.BackendBaseURL, "https://") {
		return nil, fmt.Errorf("BACKEND_BASE_URL must be an http(s) URL")
	}

	return cfg, nil
}

func openTokenBackend(ctx context.Context, cfg *Config) (tokenstore.Backend, error) {
	switch cfg.TokenStore {
	case "sqlite":
		return tokenstore.OpenSQLite(ctx, cfg.TokenSQLitePath)
	case "postgres":
		return tokenstore.OpenPostgres(ctx, cfg.DatabaseURL)
	case "redis":
		return tokenstore.NewRedisBackend(cfg.RedisAddr, cfg.RedisKeyPrefix), nil
	default:
		return tokenstore.NewFileBackend(cfg.TokenFilePath), nil
	}
}

func loadDotEnvFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.Trim(strings.TrimSpace(line[idx+1:]), "\"")
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 8s", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}

func (a *App) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (a *App) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"request_id", c.GetString(requestIDContextKey),
		)
	}
}

func (a *App) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if a.isAllowedCORSOrigin(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
			c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			c.Header("Access-Control-Expose-Headers", requestIDHeader)
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *App) isAllowedCORSOrigin(origin string) bool {
	if origin == "" || a.cfg == nil {
		return false
	}
	if a.cfg.PublicBaseURL != "" && origin == a.cfg.PublicBaseURL {
		return true
	}
	if !strings.EqualFold(a.cfg.Env, "development") {
		return false
	}
	return origin == devCORSOriginLocalhost || origin == devCORSOriginLoopback
}

func writeAPIError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Code, "message": apiErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
}
