package app

import (
	"educloud_backend/docs"
	"educloud_backend/internal/config"
	"educloud_backend/internal/middleware"
	"educloud_backend/internal/model"
	"educloud_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.Me)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.POST("/profile/avatar", c.user.UploadAvatar)

		courses := authGroup.Group("/courses")
		{
			courses.POST("", middleware.RoleMiddleware(model.Instructor), c.course.Create)
			courses.GET("", c.course.List)
			courses.GET("/:id", c.course.Get)
			courses.PUT("/:id", middleware.RoleMiddleware(model.Instructor), c.course.Update)
			courses.DELETE("/:id", middleware.RoleMiddleware(model.Instructor), c.course.Delete)
			courses.POST("/:id/thumbnail", middleware.RoleMiddleware(model.Instructor), c.course.UploadThumbnail)

			courses.POST("/:id/lessons", middleware.RoleMiddleware(model.Instructor), c.lesson.Create)
			courses.GET("/:id/lessons", c.lesson.ListByCourse)
			courses.POST("/:id/lessons/:lessonId/complete", c.enrollment.CompleteLesson)

			courses.POST("/:id/enroll", c.enrollment.Enroll)
			courses.DELETE("/:id/enroll", c.enrollment.Unenroll)
			courses.GET("/:id/enrollment", c.enrollment.Progress)
			courses.GET("/:id/enrollments", middleware.RoleMiddleware(model.Instructor), c.enrollment.Roster)
			courses.PUT("/:id/enrollments/:userId", middleware.RoleMiddleware(model.Instructor), c.enrollment.UpdateStudentProgress)

			courses.POST("/:id/live-classes", middleware.RoleMiddleware(model.Instructor), c.liveClass.Create)
			courses.GET("/:id/live-classes", c.liveClass.ListByCourse)
			courses.GET("/:id/live-classes/upcoming", c.liveClass.Upcoming)

			courses.POST("/:id/assignments", middleware.RoleMiddleware(model.Instructor), c.assignment.Create)
			courses.GET("/:id/assignments", c.assignment.ListByCourse)

			courses.POST("/:id/quizzes", middleware.RoleMiddleware(model.Instructor), c.quiz.Create)
			courses.GET("/:id/quizzes", c.quiz.ListByCourse)
		}

		lessons := authGroup.Group("/lessons")
		{
			lessons.GET("/:id", c.lesson.Get)
			lessons.PUT("/:id", middleware.RoleMiddleware(model.Instructor), c.lesson.Update)
			lessons.DELETE("/:id", middleware.RoleMiddleware(model.Instructor), c.lesson.Delete)
			lessons.POST("/:id/video", middleware.RoleMiddleware(model.Instructor), c.lesson.UploadVideo)
			lessons.POST("/:id/attachments", middleware.RoleMiddleware(model.Instructor), c.lesson.AddAttachment)
		}

		authGroup.GET("/enrollments", c.enrollment.ListMine)

		liveClasses := authGroup.Group("/live-classes")
		{
			liveClasses.GET("", c.liveClass.Active)
			liveClasses.GET("/:id", c.liveClass.Get)
			liveClasses.PUT("/:id", middleware.RoleMiddleware(model.Instructor), c.liveClass.Update)
			liveClasses.DELETE("/:id", middleware.RoleMiddleware(model.Instructor), c.liveClass.Delete)
			liveClasses.POST("/:id/start", middleware.RoleMiddleware(model.Instructor), c.liveClass.Start)
			liveClasses.POST("/:id/end", middleware.RoleMiddleware(model.Instructor), c.liveClass.End)
			liveClasses.POST("/:id/cancel", middleware.RoleMiddleware(model.Instructor), c.liveClass.Cancel)
			liveClasses.POST("/:id/join", c.liveClass.Join)
			liveClasses.POST("/:id/leave", c.liveClass.Leave)
			liveClasses.POST("/:id/recording", middleware.RoleMiddleware(model.Instructor), c.liveClass.UploadRecording)
		}

		assignments := authGroup.Group("/assignments")
		{
			assignments.GET("/:id", c.assignment.Get)
			assignments.PUT("/:id", middleware.RoleMiddleware(model.Instructor), c.assignment.Update)
			assignments.DELETE("/:id", middleware.RoleMiddleware(model.Instructor), c.assignment.Delete)
			assignments.POST("/:id/submit", c.assignment.Submit)
			assignments.GET("/:id/submissions", middleware.RoleMiddleware(model.Instructor), c.assignment.ListSubmissions)
		}
		authGroup.POST("/submissions/:id/grade", middleware.RoleMiddleware(model.Instructor), c.assignment.Grade)

		quizzes := authGroup.Group("/quizzes")
		{
			quizzes.GET("/:id", c.quiz.Get)
			quizzes.PUT("/:id", middleware.RoleMiddleware(model.Instructor), c.quiz.Update)
			quizzes.DELETE("/:id", middleware.RoleMiddleware(model.Instructor), c.quiz.Delete)
			quizzes.POST("/:id/submit", c.quiz.Submit)
			quizzes.GET("/:id/submissions", middleware.RoleMiddleware(model.Instructor), c.quiz.ListSubmissions)
			quizzes.GET("/:id/attempts", c.quiz.MyAttempts)
		}

		authGroup.GET("/dashboard/stats", c.dashboard.Stats)

		authGroup.GET("/realtime/ws", c.realtime.Connect)

		users := authGroup.Group("/users")
		users.Use(middleware.RoleMiddleware(model.Admin))
		{
			users.GET("", c.user.List)
			users.GET("/:id", c.user.Get)
			users.PUT("/:id", c.user.Update)
			users.DELETE("/:id", c.user.Delete)
		}
	}
}
