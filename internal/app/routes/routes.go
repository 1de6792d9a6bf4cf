package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/edurecords/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	courseController *controllers.CourseController,
	healthController *controllers.HealthController,
) {
	api := router.Group("/api")

	api.GET("/health", healthController.Health)

	students := api.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.POST("", studentController.CreateStudent)
		students.GET("/stats/overview", studentController.GetStudentStats)
		students.GET("/:id", studentController.GetStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)

		// enrollment from the student side answers with the updated student
		students.POST("/:id/enroll/:courseId", studentController.EnrollInCourse)
		students.DELETE("/:id/enroll/:courseId", studentController.UnenrollFromCourse)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.POST("", courseController.CreateCourse)
		courses.GET("/stats/overview", courseController.GetCourseStats)
		courses.GET("/available/enrollment", courseController.GetAvailableCourses)
		courses.GET("/:id", courseController.GetCourse)
		courses.PUT("/:id", courseController.UpdateCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)

		courses.POST("/:id/enroll/:studentId", courseController.EnrollStudent)
		courses.DELETE("/:id/enroll/:studentId", courseController.UnenrollStudent)
	}

	router.GET("/ping", healthController.Ping)
}
