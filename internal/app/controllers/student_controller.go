package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/services"
	"github.com/yigit/edurecords/internal/middleware"
	"github.com/yigit/edurecords/internal/pkg/helpers"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService    services.StudentService
	enrollmentService services.EnrollmentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, enrollmentService services.EnrollmentService) *StudentController {
	return &StudentController{
		studentService:    studentService,
		enrollmentService: enrollmentService,
	}
}

// ListStudents returns a filtered page of students
// @Summary List students
// @Description Lists students newest first. search matches first name, last name, email and student id.
// @Tags students
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Case-insensitive search text"
// @Param status query string false "Exact status" Enums(Active, Inactive, Graduated, Suspended)
// @Param major query string false "Case-insensitive major substring"
// @Success 200 {object} dto.StudentListResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	req := &dto.StudentListRequest{
		Page:   page,
		Limit:  limit,
		Search: ctx.Query("search"),
		Status: ctx.Query("status"),
		Major:  ctx.Query("major"),
	}

	resp, err := c.studentService.ListStudents(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetStudent retrieves a student by ID
// @Summary Get student details
// @Description Returns a student with enrolled courses populated
// @Tags students
// @Produce json
// @Param id path string true "Student ID" Format(uuid)
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate student id/email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, student)
}

// UpdateStudent updates an existing student
// @Summary Update a student
// @Description Replaces the profile of a student. Enrollments are changed through the enroll endpoints only.
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID" Format(uuid)
// @Param request body dto.StudentRequest true "Updated student information"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate email"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// DeleteStudent deletes a student
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path string true "Student ID" Format(uuid)
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Student deleted successfully"})
}

// GetStudentStats returns the student overview
// @Summary Student statistics
// @Tags students
// @Produce json
// @Success 200 {object} dto.StudentStatsResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/stats/overview [get]
func (c *StudentController) GetStudentStats(ctx *gin.Context) {
	stats, err := c.studentService.GetStudentStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// EnrollInCourse enrolls the student in a course
// @Summary Enroll a student in a course
// @Tags students
// @Produce json
// @Param id path string true "Student ID" Format(uuid)
// @Param courseId path string true "Course ID" Format(uuid)
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Course full or student already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/enroll/{courseId} [post]
func (c *StudentController) EnrollInCourse(ctx *gin.Context) {
	studentID, courseID, ok := enrollmentIDs(ctx, "id", "courseId")
	if !ok {
		return
	}

	student, err := c.enrollmentService.Enroll(ctx, studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// UnenrollFromCourse removes the student from a course
// @Summary Unenroll a student from a course
// @Tags students
// @Produce json
// @Param id path string true "Student ID" Format(uuid)
// @Param courseId path string true "Course ID" Format(uuid)
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Student not enrolled in the course"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/enroll/{courseId} [delete]
func (c *StudentController) UnenrollFromCourse(ctx *gin.Context) {
	studentID, courseID, ok := enrollmentIDs(ctx, "id", "courseId")
	if !ok {
		return
	}

	student, err := c.enrollmentService.Unenroll(ctx, studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// enrollmentIDs reads the student and course ids of an enroll route
func enrollmentIDs(ctx *gin.Context, studentParam, courseParam string) (studentID, courseID string, ok bool) {
	if studentID, ok = middleware.PathID(ctx, studentParam); !ok {
		return "", "", false
	}
	if courseID, ok = middleware.PathID(ctx, courseParam); !ok {
		return "", "", false
	}
	return studentID, courseID, true
}
