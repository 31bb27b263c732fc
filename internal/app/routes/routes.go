package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/sectionhub/internal/app/controllers"
	"github.com/yigit/sectionhub/internal/middleware"
	"github.com/yigit/sectionhub/internal/pkg/metrics"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	healthController *controllers.HealthController,
	authController *controllers.AuthController,
	roleController *controllers.RoleController,
	studentController *controllers.StudentController,
	sectionController *controllers.SectionController,
	authMiddleware *middleware.AuthMiddleware,
	credentialLimiter *middleware.RateLimiter,
) {
	router.GET("/", healthController.Info)
	router.GET("/health", healthController.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", credentialLimiter.Handler(), authController.Register)
		auth.POST("/login", credentialLimiter.Handler(), authController.Login)
		// the token is checked by the service, so no JWTAuth here
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)
		authenticated.POST("/auth/change-password", authController.ChangePassword)
		// admin check happens in the service so non-admins get its specific message
		authenticated.POST("/auth/admin/create-user", authController.CreateUserByAdmin)

		authenticated.GET("/students", studentController.List)
		authenticated.GET("/students/:id", studentController.Get)
		authenticated.GET("/sections", sectionController.List)
		authenticated.GET("/sections/:id", sectionController.Get)
	}

	admin := authenticated.Group("")
	admin.Use(authMiddleware.AdminRequired())
	{
		students := admin.Group("/students")
		{
			students.POST("", studentController.Create)
			students.PUT("/:id", studentController.Update)
			students.DELETE("/:id", studentController.Delete)
			students.POST("/:id/sections/:sectionId", studentController.Enroll)
			students.DELETE("/:id/sections/:sectionId", studentController.Unenroll)
		}

		sections := admin.Group("/sections")
		{
			sections.POST("", sectionController.Create)
			sections.PUT("/:id", sectionController.Update)
			sections.DELETE("/:id", sectionController.Delete)
		}

		roles := admin.Group("/roles")
		{
			roles.GET("", roleController.List)
			roles.GET("/:id", roleController.Get)
			roles.DELETE("/:id", roleController.Delete)
		}
	}
}
