package app

import (
	"edulearn_backend/docs"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/middleware"
	"edulearn_backend/internal/model"
	"edulearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 学生授权接口
	a.registerStudentRoutes(router, c, repos, cfg)

	// 3. 讲师授权接口
	a.registerInstructorRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录和详情允许游客浏览，登录讲师能看到自己未发布的课程
		public.GET("/courses", c.course.ListCatalog)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.GetCourse)

		// 证书验真对外公开
		public.GET("/certificates/:serial", c.certificate.Verify)
	}
}

func (a *App) registerStudentRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	student := router.Group("/api")
	student.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		student.GET("/profile", c.auth.GetProfile)
		student.PUT("/profile", c.user.UpdateProfile)

		student.POST("/courses/:id/enroll", c.course.Enroll)
		student.GET("/my/courses", c.course.ListEnrollments)
		student.GET("/my/certificates", c.certificate.ListMine)

		student.GET("/courses/:id/lessons", c.content.ListLessons)
		student.POST("/lessons/:id/progress", c.progress.Report)
		student.GET("/courses/:id/progress", c.progress.CourseSummary)

		student.GET("/courses/:id/quiz", c.quiz.GetQuiz)
		student.POST("/courses/:id/quiz/submit", c.quiz.SubmitQuiz)
		student.GET("/courses/:id/quiz/status", c.quiz.GetQuizStatus)
		student.GET("/courses/:id/quiz/attempts", c.quiz.ListMyAttempts)
		student.GET("/attempts/:id", c.quiz.GetAttempt)

		student.POST("/courses/:id/certificate", c.certificate.Issue)
		student.GET("/courses/:id/certificate", c.certificate.Get)
	}
}

func (a *App) registerInstructorRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	instructor := router.Group("/api/instructor")
	instructor.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Instructor),
	)
	{
		instructor.GET("/courses", c.course.ListMyCourses)
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.POST("/courses/:id/publish", c.course.PublishCourse)
		instructor.POST("/courses/:id/cover", c.content.UploadCover)

		instructor.POST("/courses/:id/lessons", c.content.CreateLesson)
		instructor.PUT("/lessons/:id", c.content.UpdateLesson)
		instructor.DELETE("/lessons/:id", c.content.DeleteLesson)
		instructor.POST("/lessons/:id/video", c.content.UploadVideo)

		instructor.GET("/courses/:id/questions", c.quiz.ListQuestions)
		instructor.POST("/courses/:id/questions", c.quiz.CreateQuestion)
		instructor.PUT("/questions/:id", c.quiz.UpdateQuestion)
		instructor.DELETE("/questions/:id", c.quiz.DeleteQuestion)

		instructor.GET("/courses/:id/attempts", c.quiz.ListCourseAttempts)
	}
}
