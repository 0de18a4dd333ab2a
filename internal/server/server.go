package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizline/quizline/config"
	adminctrl "github.com/quizline/quizline/internal/controller/admin"
	userctrl "github.com/quizline/quizline/internal/controller/user"
	"github.com/quizline/quizline/internal/auth"
	"github.com/quizline/quizline/internal/logger"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	r := gin.New()
	r.Use(logger.GinRequestLogger())
	r.Use(gin.Recovery())

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			// browsers refuse credentials with a wildcard origin
			allowCredentials = false
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// Controllers groups every handler the router mounts.
type Controllers struct {
	Attempt   *userctrl.AttemptController
	Auth      *userctrl.AuthController
	AdminTest *adminctrl.AdminTestController
	AdminUser *adminctrl.AdminUserController
}

func RegisterRoutes(router *gin.Engine, cfg *config.Config, tokens *auth.TokenService, ctrls Controllers) {
	api := router.Group("/api/v1")

	if cfg.Auth.EnableDevLogin {
		api.POST("/auth/token", ctrls.Auth.IssueToken)
	}

	user := api.Group("", auth.Middleware(tokens))
	{
		user.GET("/tests", ctrls.Attempt.ListTests)
		user.GET("/tests/:test_id/my-attempts", ctrls.Attempt.ListMyAttempts)
		user.POST("/tests/:test_id/attempts", ctrls.Attempt.StartAttempt)

		user.GET("/attempts/:attempt_id/questions/:index", ctrls.Attempt.GetQuestion)
		user.POST("/attempts/:attempt_id/answers", ctrls.Attempt.SubmitAnswer)
		user.POST("/attempts/:attempt_id/advance", ctrls.Attempt.Advance)
		user.POST("/attempts/:attempt_id/finish", ctrls.Attempt.Finish)
		user.GET("/attempts/:attempt_id/results", ctrls.Attempt.Results)
	}

	admin := api.Group("/admin", auth.Middleware(tokens), auth.RequireStaff())
	{
		tests := admin.Group("/tests")
		tests.POST("", ctrls.AdminTest.CreateTest)
		tests.GET("", ctrls.AdminTest.ListTests)
		tests.PUT("/order", ctrls.AdminTest.ReorderTests)
		tests.GET("/:test_id", ctrls.AdminTest.GetTest)
		tests.DELETE("/:test_id", ctrls.AdminTest.DeleteTest)
		tests.POST("/:test_id/questions", ctrls.AdminTest.AddQuestion)

		users := admin.Group("/users")
		users.POST("/:user_id/profile", ctrls.AdminUser.ProvisionProfile)
		users.POST("/:user_id/block", ctrls.AdminUser.BlockUser)
		users.POST("/:user_id/unblock", ctrls.AdminUser.UnblockUser)
	}
}
