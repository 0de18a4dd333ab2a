package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizline/quizline/config"
	"github.com/quizline/quizline/database"
	_ "github.com/quizline/quizline/docs" // Swagger docs
	adminctrl "github.com/quizline/quizline/internal/controller/admin"
	userctrl "github.com/quizline/quizline/internal/controller/user"
	"github.com/quizline/quizline/internal/auth"
	"github.com/quizline/quizline/internal/logger"
	"github.com/quizline/quizline/internal/repository"
	"github.com/quizline/quizline/internal/server"
	"github.com/quizline/quizline/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quizline API
// @version 1.0
// @description Multiple-choice tests in learning and exam mode: attempts, grading and results.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.NopLogger,
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			server.NewGinEngine,
			auth.NewTokenService,
			service.NewClock,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewAnswerRepository,
			repository.NewTestAttemptRepository,
			repository.NewUserAnswerRepository,
			repository.NewUserProfileRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewScoreConverterService,
			service.NewAccessGate,
			service.NewAttemptService,
			service.NewScoringService,
			service.NewResultService,
			service.NewCatalogService,
			service.NewProfileService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewAttemptController,
			userctrl.NewAuthController,
			adminctrl.NewAdminTestController,
			adminctrl.NewAdminUserController,
			func(
				attempt *userctrl.AttemptController,
				authCtrl *userctrl.AuthController,
				adminTest *adminctrl.AdminTestController,
				adminUser *adminctrl.AdminUserController,
			) server.Controllers {
				return server.Controllers{Attempt: attempt, Auth: authCtrl, AdminTest: adminTest, AdminUser: adminUser}
			},
		),

		fx.Invoke(InitLogger),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

func InitLogger(cfg *config.Config) {
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.AutoMigrate(db)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	tokens *auth.TokenService,
	ctrls server.Controllers,
	db *gorm.DB,
) {
	server.RegisterRoutes(router, cfg, tokens, ctrls)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quizline server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
