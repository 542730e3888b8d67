package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"interviewhub/internal/applications"
	googleauth "interviewhub/internal/auth"
	"interviewhub/internal/feedback"
	"interviewhub/internal/interviews"
	"interviewhub/internal/jobs"
	"interviewhub/internal/notify"
	"interviewhub/internal/queue"
	"interviewhub/internal/resumes"
	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/config"
	"interviewhub/internal/shared/server"
	"interviewhub/internal/shared/server/middleware"
	"interviewhub/internal/shared/storage/db"
	"interviewhub/internal/shared/storage/object"
	localstore "interviewhub/internal/shared/storage/object/local"
	s3store "interviewhub/internal/shared/storage/object/s3"
	"interviewhub/internal/users"
)

// App holds the wired dependencies of the API process.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore
	Tokens *auth.Tokens
	// Runner carries notification sends past the request; Wait on it at shutdown.
	Runner *notify.Async

	Users        *users.Service
	Jobs         *jobs.Service
	Interviews   *interviews.Service
	Applications *applications.Service
	Feedback     *feedback.Service
	Resumes      *resumes.Service
	GoogleAuth   *googleauth.GoogleService
}

// Build connects backing services and wires every domain package.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	transport, err := BuildTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokens(auth.TokenConfig{
		Env:           cfg.Env,
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})
	if err != nil {
		return nil, err
	}
	redisClient, err := buildRedis(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  redisClient,
		Store:  store,
		Tokens: tokens,
		Runner: notify.NewAsync(cfg.NotifyTimeout),
	}
	buildServices(app, notify.NewDispatcher(transport))

	var limiter middleware.Limiter
	if redisClient != nil {
		limiter = middleware.NewRedisLimiter(redisClient)
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		DB:      sqlDB,
		Tokens:  tokens,
		Limiter: limiter,
		Handlers: []server.RouteRegistrar{
			users.NewHandler(app.Users),
			app.GoogleAuth,
			jobs.NewHandler(app.Jobs),
			interviews.NewHandler(app.Interviews),
			applications.NewHandler(app.Applications, app.Resumes),
			feedback.NewHandler(app.Feedback),
			resumes.NewHandler(app.Resumes),
		},
	})
	return app, nil
}

// Close releases connections held by the app.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildServices(app *App, dispatcher *notify.Dispatcher) {
	var (
		userRepo        users.Repo
		jobRepo         jobs.Repo
		interviewRepo   interviews.Repo
		applicationRepo applications.Repo
		feedbackRepo    feedback.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		interviewRepo = &interviews.PGRepo{DB: app.DB}
		applicationRepo = &applications.PGRepo{DB: app.DB}
		feedbackRepo = &feedback.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		interviewRepo = interviews.NewMemoryRepo()
		applicationRepo = applications.NewMemoryRepo()
		feedbackRepo = feedback.NewMemoryRepo()
	}

	app.Users = users.NewService(userRepo, app.Tokens, dispatcher, app.Runner, app.Config.OTPTTL)
	app.Jobs = jobs.NewService(jobRepo, app.Users)
	app.Interviews = interviews.NewService(interviewRepo, app.Jobs, app.Users)
	app.Resumes = resumes.NewService(app.Store, app.Config.MaxResumeBytes)
	app.Applications = applications.NewService(applicationRepo, app.Jobs, app.Users, app.Interviews, dispatcher, app.Runner)
	app.Applications.Resumes = app.Resumes
	app.Interviews.Links = app.Applications
	app.Feedback = feedback.NewService(feedbackRepo, app.Applications, app.Interviews, app.Users)
	app.Jobs.Dependents = []jobs.Dependents{app.Interviews, app.Applications}
	app.Interviews.Dependents = []interviews.Dependents{app.Applications, app.Feedback}
	app.GoogleAuth = googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:     app.Config.GoogleClientID,
		ClientSecret: app.Config.GoogleClientSecret,
		RedirectURL:  app.Config.GoogleRedirectURL,
		UIRedirect:   app.Config.UIRedirectURL,
	}, app.Users)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRedis(cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// BuildTransport picks how the API delivers notifications: straight to a mail
// sender, or onto the SQS queue drained by cmd/notifier.
func BuildTransport(ctx context.Context, cfg config.Config) (notify.Transport, error) {
	if cfg.MailTransport == "sqs" {
		client, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.NotifyQueueURL)
		if err != nil {
			return nil, err
		}
		return notify.NewQueueTransport(client), nil
	}
	mailer, err := BuildMailer(ctx, cfg, cfg.MailTransport)
	if err != nil {
		return nil, err
	}
	return mailer, nil
}

// BuildMailer renders and sends through the sender named by kind.
func BuildMailer(ctx context.Context, cfg config.Config, kind string) (*notify.Mailer, error) {
	sender, err := notify.NewSender(ctx, notify.SenderConfig{
		Kind:      kind,
		AWSRegion: cfg.AWSRegion,
		SMTP: notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		},
	})
	if err != nil {
		return nil, err
	}
	return &notify.Mailer{Sender: sender, From: cfg.MailFrom}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
