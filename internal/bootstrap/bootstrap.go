package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/enrollment/internal/app/controllers"
	appMigrations "github.com/yigit/enrollment/internal/app/migrations"
	appRepos "github.com/yigit/enrollment/internal/app/repositories"
	appRoutes "github.com/yigit/enrollment/internal/app/routes"
	appServices "github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/db"
	appMiddleware "github.com/yigit/enrollment/internal/middleware"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	StudentController *appControllers.StudentController
	CourseController  *appControllers.CourseController
	GroupController   *appControllers.GroupController
	HealthController  *appControllers.HealthController
	Logger            zerolog.Logger
}

// ConfigPath resolves the configuration file, CONFIG_PATH wins over the default location
func ConfigPath() string {
	return config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the pool and wraps it in a Store.
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.Store, error) {
	lgr.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Establishing database connection...")

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Database connection successfully established.")
	return db.NewStore(pool), nil
}

// RunMigrations applies every pending migration from the configured directory.
func RunMigrations(ctx context.Context, cfg *config.Config, store *db.Store, lgr zerolog.Logger) error {
	dir := cfg.Database.MigrationsDir
	if _, err := os.Stat(dir); err != nil {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Str("path", dir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(store, lgr).Migrate(ctx, os.DirFS(dir)); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase connects, migrates and optionally seeds the database.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.Store, error) {
	store, err := ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, cfg, store, lgr); err != nil {
		store.Close()
		return nil, err
	}

	if cfg.Seed.OnStartup {
		// A failed seed leaves the schema usable, so startup continues
		if _, err := seed.Run(ctx, store, seed.OptionsFromConfig(cfg), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create seed data, proceeding anyway...")
		}
	}

	return store, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, store *db.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(store.DB())
	deps.Services = appServices.NewServices(store, deps.Repos, appServices.Options{
		SingleGroupPerStudent: cfg.Membership.SingleGroupPerStudent,
	}, lgr)

	deps.StudentController = appControllers.NewStudentController(
		deps.Services.Students,
		deps.Services.Enrollments,
		deps.Services.Memberships,
	)
	deps.CourseController = appControllers.NewCourseController(deps.Services.Courses, deps.Services.Enrollments)
	deps.GroupController = appControllers.NewGroupController(deps.Services.Groups, deps.Services.Memberships)
	deps.HealthController = appControllers.NewHealthController(store)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidatorTagNames()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.CourseController,
		deps.GroupController,
		deps.HealthController,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
