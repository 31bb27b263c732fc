package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yigit/sectionhub/docs" // generated swagger docs
	appControllers "github.com/yigit/sectionhub/internal/app/controllers"
	appMigrations "github.com/yigit/sectionhub/internal/app/migrations"
	appRepos "github.com/yigit/sectionhub/internal/app/repositories"
	appRoutes "github.com/yigit/sectionhub/internal/app/routes"
	appServices "github.com/yigit/sectionhub/internal/app/services"
	"github.com/yigit/sectionhub/internal/config"
	"github.com/yigit/sectionhub/internal/db"
	appMiddleware "github.com/yigit/sectionhub/internal/middleware"
	pkgAuth "github.com/yigit/sectionhub/internal/pkg/auth"
	"github.com/yigit/sectionhub/internal/pkg/helpers"
	"github.com/yigit/sectionhub/internal/pkg/logger"
	"github.com/yigit/sectionhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services          *appServices.Services
	HealthController  *appControllers.HealthController
	AuthController    *appControllers.AuthController
	RoleController    *appControllers.RoleController
	StudentController *appControllers.StudentController
	SectionController *appControllers.SectionController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	CredentialLimiter *appMiddleware.RateLimiter
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  cfg.Logging.Format == "text",
		Service: cfg.App.Name,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := MigrateAndSeed(ctx, database, cfg, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// MigrateAndSeed applies pending migrations and then creates the default roles and admin.
// Seeding errors are logged but do not fail startup.
func MigrateAndSeed(ctx context.Context, database *db.PostgresDB, cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	sqlDB, err := database.SQLDB()
	if err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}
	defer sqlDB.Close()

	applied, err := appMigrations.NewMigrator(sqlDB, lgr).Migrate(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(database)
	if err := seed.CreateDefaultData(ctx, repos, cfg.InitialAdmin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
	return nil
}

// BuildDependencies initializes application services, middleware and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 30*time.Minute),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(repos, deps.JWTService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.Auth)
	deps.CredentialLimiter = appMiddleware.NewRateLimiter(
		cfg.Server.RateLimit.RequestsPerSecond,
		cfg.Server.RateLimit.Burst,
	)

	deps.HealthController = appControllers.NewHealthController(cfg.App)
	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth, lgr)
	deps.RoleController = appControllers.NewRoleController(deps.Services.Roles)
	deps.StudentController = appControllers.NewStudentController(deps.Services.Students)
	deps.SectionController = appControllers.NewSectionController(deps.Services.Sections)

	return deps
}

// ConfigureGinMode switches gin to release mode in production
func ConfigureGinMode(cfg *config.Config, lgr zerolog.Logger) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
		return
	}
	gin.SetMode(gin.DebugMode)
	lgr.Info().Msg("Setting Gin mode to debug")
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(deps *Dependencies) *gin.Engine {
	appMiddleware.RegisterValidators()

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(deps.Logger),
		appMiddleware.Metrics(),
	)
	router.NoRoute(appMiddleware.NotFound())
	router.NoMethod(appMiddleware.MethodNotAllowed())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.HealthController,
		deps.AuthController,
		deps.RoleController,
		deps.StudentController,
		deps.SectionController,
		deps.AuthMiddleware,
		deps.CredentialLimiter,
	)

	return router
}
