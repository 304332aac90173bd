package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azamat-omonkeldiyev/course/internal/auth"
	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/services"
	"github.com/azamat-omonkeldiyev/course/internal/utils"
)

type HandlerManager struct {
	courseHandler  *CourseHandler
	userHandler    *UserHandler
	authMiddleware *JWTAuthMiddleware

	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		courseHandler:  NewCourseHandler(serviceManager.Course(), serviceManager.Export(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		authMiddleware: NewJWTAuthMiddleware(tokens),
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// User routes
		users := v1.Group("/users")
		{
			users.POST("/register", hm.userHandler.Register)
			users.POST("/login", hm.userHandler.Login)
			users.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.userHandler.Me)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			// Reads are public
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)

			// Catalog management - Admins only
			courses.POST("", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.PATCH("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.DeleteCourse)
			courses.GET("/export", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.ExportCourses)

			// Enrollment - any authenticated user
			courses.POST("/:id/enroll", hm.authMiddleware.AuthMiddleware(), hm.courseHandler.EnrollCourse)
		}
	}
}

// HealthCheck reports service and dependency health
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "course-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
