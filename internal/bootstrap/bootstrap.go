package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/edurecords/internal/app/controllers"
	appRepos "github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/app/repositories/memory"
	mongoRepos "github.com/yigit/edurecords/internal/app/repositories/mongo"
	pgRepos "github.com/yigit/edurecords/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/edurecords/internal/app/routes"
	appServices "github.com/yigit/edurecords/internal/app/services"
	"github.com/yigit/edurecords/internal/config"
	"github.com/yigit/edurecords/internal/db"
	appMiddleware "github.com/yigit/edurecords/internal/middleware"
	"github.com/yigit/edurecords/internal/pkg/logger"
)

// DefaultConfigPath is where the config file is looked up when none is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

const storeSetupTimeout = 30 * time.Second

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             appRepos.Store
	Services          *appServices.Services
	StudentController *appControllers.StudentController
	CourseController  *appControllers.CourseController
	HealthController  *appControllers.HealthController
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStore connects the configured record store backend and prepares its schema.
func OpenStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, storeSetupTimeout)
	defer cancel()

	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Opening record store...")

	var store appRepos.Store
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		store = pgRepos.NewStore(pg, cfg.Database.MigrationsPath)
	case config.DriverMongo:
		m, err := db.NewMongoDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
			return nil, err
		}
		store = mongoRepos.NewStore(m, cfg.Database.MongoTransactions)
	case config.DriverMemory:
		lgr.Warn().Msg("Using the in-memory store; data is lost on restart")
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	lgr.Info().Msg("Preparing schema...")
	if err := store.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Schema preparation failed")
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("schema preparation failed: %w", err)
	}
	lgr.Info().Str("driver", store.Driver()).Msg("Record store ready")

	return store, nil
}

// BuildDependencies initializes services and controllers on top of the store.
func BuildDependencies(store appRepos.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.Services = appServices.NewServices(store, lgr)

	deps.StudentController = appControllers.NewStudentController(deps.Services.Students, deps.Services.Enrollments)
	deps.CourseController = appControllers.NewCourseController(deps.Services.Courses, deps.Services.Enrollments)
	deps.HealthController = appControllers.NewHealthController(store)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.ContextWithFallback = true
	router.Use(appMiddleware.Recovery(), appMiddleware.RequestLogger(), cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.CourseController,
		deps.HealthController,
	)

	return router
}

// corsConfig allows the configured origins; "*" allows any origin
func corsConfig(origins []string) cors.Config {
	conf := cors.DefaultConfig()
	conf.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	conf.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	conf.MaxAge = 12 * time.Hour

	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 || slices.Contains(cleaned, "*") {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = cleaned
	return conf
}

// Logger returns the application logger as configured by LoadConfigAndSetupLogger
func Logger() zerolog.Logger {
	return logger.Get()
}
