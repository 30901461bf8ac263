package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/controllers"
	"github.com/vnkhanh/interview-prep-backend/middleware"
	"github.com/vnkhanh/interview-prep-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Route public: khách xem được khóa public, có token thì thấy thêm
	public := api.Group("")
	{
		public.Use(middleware.OptionalAuthMiddleware(), middleware.DBMiddleware(db))

		public.GET("/courses", controllers.GetCourses)
		public.GET("/courses/:id", controllers.GetCourseDetail)
		public.GET("/courses/:id/podcasts", controllers.GetCoursePodcasts)
		public.GET("/podcasts/:id", controllers.GetPodcastDetail)

		public.GET("/problems", controllers.GetProblems)
		public.GET("/problems/:slug", controllers.GetProblemBySlug)
	}

	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		user.POST("/change-password", controllers.ChangePassword)
		user.GET("/stats", controllers.GetUserStats)

		// Tạo và quản lý khóa học
		user.POST("/courses/generate-outline", controllers.GenerateCourseOutline)
		user.POST("/courses", controllers.CreateCourse)
		user.PUT("/courses/:id", controllers.UpdateCourse)
		user.DELETE("/courses/:id", controllers.DeleteCourse)
		user.POST("/courses/:id/chapters/:chapterId/generate-content", controllers.GenerateChapterContent)
		user.POST("/courses/:id/chapters/:chapterId/podcast", controllers.GeneratePodcast)
		user.DELETE("/podcasts/:id", controllers.DeletePodcast)

		// Ghi danh và tiến độ
		user.POST("/courses/:id/enroll", controllers.EnrollCourse)
		user.DELETE("/courses/:id/enroll", controllers.UnenrollCourse)
		user.PATCH("/courses/:id/chapters/:chapterId/progress", controllers.UpdateChapterProgress)
		user.POST("/courses/:id/bookmark", controllers.ToggleCourseBookmark)

		// Phỏng vấn thử
		user.POST("/interviews", controllers.CreateInterview)
		user.GET("/interviews", controllers.GetInterviews)
		user.GET("/interviews/stats", controllers.GetInterviewStats)
		user.GET("/interviews/:id", controllers.GetInterviewDetail)
		user.POST("/interviews/:id/questions/:questionId/answer", controllers.SubmitAnswer)
		user.POST("/interviews/:id/complete", controllers.CompleteInterview)

		// Thông báo
		user.GET("/notifications", controllers.GetNotifications)
		user.GET("/notifications/unread-count", controllers.GetUnreadCount)
		user.PATCH("/notifications/:id/read", controllers.MarkNotificationAsRead)
		user.PATCH("/notifications/read-all", controllers.MarkAllAsRead)
		user.DELETE("/notifications/:id", controllers.DeleteNotification)
		user.DELETE("/notifications/read", controllers.DeleteReadNotifications)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.DBMiddleware(db), middleware.RequireRoles("admin"))

		// Quản lý bài tập DSA
		admin.POST("/problems", controllers.CreateProblem)
		admin.PUT("/problems/:id", controllers.UpdateProblem)
		admin.DELETE("/problems/:id", controllers.DeleteProblem)

		admin.GET("/stats", controllers.GetAdminStats)
	}

	r.GET("/ws/podcasts/:id", ws.HandlePodcastJobWebSocket)
	r.GET("/ws/status", ws.HandleGlobalWebSocket)
	r.GET("/ws/user", ws.HandleUserWebSocket)

	return r
}
