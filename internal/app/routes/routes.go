package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	courseController *controllers.CourseController,
	groupController *controllers.GroupController,
	healthController *controllers.HealthController,
) {
	// Root path for orchestrator health checks; the versioned one matches the documented base path
	router.GET("/health", healthController.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", healthController.Health)

	students := v1.Group("/students")
	{
		students.GET("", studentController.GetAllStudents)
		students.POST("", studentController.CreateStudent)
		students.GET("/:id", studentController.GetStudentByID)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)

		students.GET("/:id/courses", studentController.GetStudentCourses)
		students.POST("/:id/courses", studentController.EnrollInCourseByName)
		students.DELETE("/:id/courses", studentController.UnenrollFromCourseByName)
		students.POST("/:id/courses/:courseId", studentController.EnrollInCourse)
		students.DELETE("/:id/courses/:courseId", studentController.UnenrollFromCourse)
		students.GET("/:id/groups", studentController.GetStudentGroups)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.GetAllCourses)
		courses.POST("", courseController.CreateCourse)
		courses.GET("/:id", courseController.GetCourseByID)
		courses.PUT("/:id", courseController.UpdateCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)

		courses.GET("/:id/students", courseController.GetCourseStudents)
		courses.POST("/:id/students/:studentId", courseController.AddStudent)
		courses.DELETE("/:id/students/:studentId", courseController.RemoveStudent)
	}

	groups := v1.Group("/groups")
	{
		groups.GET("", groupController.GetAllGroups)
		groups.POST("", groupController.CreateGroup)
		groups.GET("/:id", groupController.GetGroupByID)
		groups.PUT("/:id", groupController.UpdateGroup)
		groups.DELETE("/:id", groupController.DeleteGroup)

		groups.GET("/:id/students", groupController.GetGroupStudents)
		groups.POST("/:id/students/:studentId", groupController.AddStudent)
		groups.DELETE("/:id/students/:studentId", groupController.RemoveStudent)
	}
}
