package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService    services.StudentService
	enrollmentService services.EnrollmentService
	membershipService services.MembershipService
}

// NewStudentController creates a new StudentController
func NewStudentController(
	studentService services.StudentService,
	enrollmentService services.EnrollmentService,
	membershipService services.MembershipService,
) *StudentController {
	return &StudentController{
		studentService:    studentService,
		enrollmentService: enrollmentService,
		membershipService: membershipService,
	}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Description Creates a student. The id is optional; when omitted the database assigns one.
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	student := req.ToModel()
	if err := c.studentService.CreateStudent(ctx.Request.Context(), student); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondCreated(ctx, student, "Student created successfully")
}

// GetAllStudents lists students
// @Summary List students
// @Description Lists all students ordered by ID. With ?course=<name> only the students enrolled in that course are returned.
// @Tags students
// @Produce json
// @Param course query string false "Course name filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	var query dto.StudentListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	if query.Course != "" {
		students, err := c.enrollmentService.GetStudentsByCourseName(ctx.Request.Context(), query.Course)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, students, "Course students retrieved successfully")
		return
	}

	students, err := c.studentService.GetAllStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students, "Students retrieved successfully")
}

// GetStudentByID retrieves a student by ID
// @Summary Get student details
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student ID")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudentByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, student, "Student retrieved successfully")
}

// UpdateStudent updates an existing student
// @Summary Update a student
// @Description Replaces first and last name of a student
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.UpdateStudentRequest true "Updated student information"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student ID")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	student := req.ToModel(id)
	if err := c.studentService.UpdateStudent(ctx.Request.Context(), student); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, student, "Student updated successfully")
}

// DeleteStudent deletes a student
// @Summary Delete a student
// @Description Deletes a student together with its enrollments and group memberships
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Student deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student ID")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Student deleted successfully")
}

// GetStudentCourses lists the courses of a student
// @Summary List courses of a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Student courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/courses [get]
func (c *StudentController) GetStudentCourses(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student ID")
	if !ok {
		return
	}

	courses, err := c.enrollmentService.GetStudentCourses(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, courses, "Student courses retrieved successfully")
}

// EnrollInCourse enrolls a student in a course
// @Summary Enroll a student in a course
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param courseId path int true "Course ID" Format(int64) minimum(1)
// @Success 201 {object} dto.APIResponse "Student enrolled successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/courses/{courseId} [post]
func (c *StudentController) EnrollInCourse(ctx *gin.Context) {
	studentID, courseID, ok := parseIDPair(ctx, "student ID", "courseId", "course ID")
	if !ok {
		return
	}

	if err := c.enrollmentService.Enroll(ctx.Request.Context(), studentID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, nil, "Student enrolled successfully")
}

// UnenrollFromCourse removes a student from a course
// @Summary Remove a student from a course
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param courseId path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Student removed from course successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student not enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/courses/{courseId} [delete]
func (c *StudentController) UnenrollFromCourse(ctx *gin.Context) {
	studentID, courseID, ok := parseIDPair(ctx, "student ID", "courseId", "course ID")
	if !ok {
		return
	}

	if err := c.enrollmentService.Unenroll(ctx.Request.Context(), studentID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Student removed from course successfully")
}

// EnrollInCourseByName enrolls a student in the course with the given name
// @Summary Enroll a student in a course by name
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param name query string true "Course name"
// @Success 201 {object} dto.APIResponse "Student enrolled successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or missing course name"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/courses [post]
func (c *StudentController) EnrollInCourseByName(ctx *gin.Context) {
	studentID, courseName, ok := parseCourseNameTarget(ctx)
	if !ok {
		return
	}

	if err := c.enrollmentService.EnrollByCourseName(ctx.Request.Context(), studentID, courseName); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, nil, "Student enrolled successfully")
}

// UnenrollFromCourseByName removes a student from the course with the given name
// @Summary Remove a student from a course by name
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param name query string true "Course name"
// @Success 200 {object} dto.APIResponse "Student removed from course successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or missing course name"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student not enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/courses [delete]
func (c *StudentController) UnenrollFromCourseByName(ctx *gin.Context) {
	studentID, courseName, ok := parseCourseNameTarget(ctx)
	if !ok {
		return
	}

	if err := c.enrollmentService.UnenrollByCourseName(ctx.Request.Context(), studentID, courseName); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Student removed from course successfully")
}

func parseCourseNameTarget(ctx *gin.Context) (int64, string, bool) {
	studentID, ok := parseIDParam(ctx, "id", "student ID")
	if !ok {
		return 0, "", false
	}

	var query dto.CourseNameQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.RespondBindingError(ctx, err)
		return 0, "", false
	}
	return studentID, query.Name, true
}

// GetStudentGroups lists the groups of a student
// @Summary List groups of a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Group} "Student groups retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/groups [get]
func (c *StudentController) GetStudentGroups(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student ID")
	if !ok {
		return
	}

	groups, err := c.membershipService.GetStudentGroups(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, groups, "Student groups retrieved successfully")
}
