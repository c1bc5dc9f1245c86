package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"careermatch-backend/internal/account"
	"careermatch-backend/internal/analyses"
	googleauth "careermatch-backend/internal/auth"
	"careermatch-backend/internal/documents"
	"careermatch-backend/internal/llm"
	openai "careermatch-backend/internal/llm/openai"
	"careermatch-backend/internal/postings"
	"careermatch-backend/internal/predictor"
	"careermatch-backend/internal/queue"
	"careermatch-backend/internal/services/health"
	"careermatch-backend/internal/shared/config"
	"careermatch-backend/internal/shared/server"
	"careermatch-backend/internal/shared/storage/db"
	"careermatch-backend/internal/shared/storage/object"
	localstore "careermatch-backend/internal/shared/storage/object/local"
	s3store "careermatch-backend/internal/shared/storage/object/s3"
	"careermatch-backend/internal/usage"
	"careermatch-backend/internal/users"
	jobparse "careermatch-backend/job/parse"
	resumeparse "careermatch-backend/resume/parse"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Queue             queue.Client
	DocumentsRepo     documents.DocumentsRepo
	AnalysesRepo      analyses.Repo
	PostingsRepo      postings.Repo
	UsersRepo         users.Repo
	DocumentsService  *documents.Service
	PostingsService   *postings.Service
	UsageService      *usage.Service
	AnalysesService   *analyses.Service
	AnalysisProcessor AnalysisProcessor
	AccountService    *account.Service
	UsersService      *users.Service
	DocumentsHandler  *documents.Handler
	PostingsHandler   *postings.Handler
	AnalysisHandler   *analyses.Handler
	AccountHandler    *account.Handler
	UsageHandler      *usage.Handler
	UsersHandler      *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// AnalysisProcessor allows callers to override analysis processing for tests.
type AnalysisProcessor interface {
	ProcessAnalysis(ctx context.Context, analysisID string) error
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          health.NewService(app.DB),
		AccountHandler:  app.AccountHandler,
		AnalysisHandler: app.AnalysisHandler,
		DocumentHandler: app.DocumentsHandler,
		PostingHandler:  app.PostingsHandler,
		UsageHandler:    app.UsageHandler,
		UserHandler:     app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
		UploadsEnabled:  strings.TrimSpace(os.Getenv("UPLOADS_S3_BUCKET")) != "",
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("CM_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var analysisRepo analyses.Repo
	var postingRepo postings.Repo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		postingRepo = &postings.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
		postingRepo = postings.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store:           app.Store,
		Repo:            docRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}

	postingSvc := &postings.Service{
		Repo:   postingRepo,
		Parser: jobparse.NewParser(),
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	llmClient := llm.Client(nil)
	if app.Config.LLMProvider == "openai" && strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	} else {
		log.Printf("bootstrap: AI parser disabled; rules-based parsing only")
	}

	var predictorClient *predictor.Client
	if strings.TrimSpace(app.Config.PredictorURL) != "" {
		client, err := predictor.NewClient(app.Config.PredictorURL)
		if err != nil {
			return err
		}
		predictorClient = client
	}

	analysisSvc := &analyses.Service{
		Repo:            analysisRepo,
		Usage:           usageSvc,
		DocRepo:         docRepo,
		PostingRepo:     postingRepo,
		Store:           app.Store,
		ResumeParser:    resumeparse.NewParser(),
		LLM:             llmClient,
		Predictor:       predictorClient,
		Queue:           app.Queue,
		Provider:        app.Config.LLMProvider,
		Model:           app.Config.LLMModel,
		AnalysisVersion: app.Config.AnalysisVersion,
	}

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.DocumentsRepo = docRepo
	app.AnalysesRepo = analysisRepo
	app.PostingsRepo = postingRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.PostingsService = postingSvc
	app.UsageService = usageSvc
	app.AnalysesService = analysisSvc
	app.AnalysisProcessor = analysisSvc
	app.AccountService = account.NewService(docRepo, analysisRepo, postingRepo)
	app.UsersService = userSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.PostingsHandler = postings.NewHandler(postingSvc)
	app.AnalysisHandler = analyses.NewHandler(analysisSvc, docRepo)
	app.AccountHandler = account.NewHandler(app.AccountService)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	if app.DocumentsHandler == nil || app.AnalysisHandler == nil || app.UsageHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
