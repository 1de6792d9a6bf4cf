package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/services"
	"github.com/yigit/edurecords/internal/middleware"
	"github.com/yigit/edurecords/internal/pkg/helpers"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService     services.CourseService
	enrollmentService services.EnrollmentService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, enrollmentService services.EnrollmentService) *CourseController {
	return &CourseController{
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// ListCourses returns a filtered page of courses
// @Summary List courses
// @Description Lists courses newest first. search matches course code, course name and instructor name.
// @Tags courses
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Case-insensitive search text"
// @Param department query string false "Case-insensitive department substring"
// @Param semester query string false "Exact semester" Enums(Fall, Spring, Summer)
// @Param status query string false "Exact status" Enums(Active, Inactive, Completed)
// @Success 200 {object} dto.CourseListResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	req := &dto.CourseListRequest{
		Page:       page,
		Limit:      limit,
		Search:     ctx.Query("search"),
		Department: ctx.Query("department"),
		Semester:   ctx.Query("semester"),
		Status:     ctx.Query("status"),
	}

	resp, err := c.courseService.ListCourses(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetCourse retrieves a course with its enrolled students
// @Summary Get course details
// @Tags courses
// @Produce json
// @Param id path string true "Course ID" Format(uuid)
// @Success 200 {object} dto.CourseDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CourseRequest true "Course information"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate course code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// UpdateCourse updates an existing course
// @Summary Update a course
// @Description Replaces the editable fields of a course. Capacity cannot drop below the current enrollment.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID" Format(uuid)
// @Param request body dto.CourseRequest true "Updated course information"
// @Success 200 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate course code"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course nobody is enrolled in
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID" Format(uuid)
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Students are still enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Course deleted successfully"})
}

// GetCourseStats returns the course overview
// @Summary Course statistics
// @Tags courses
// @Produce json
// @Success 200 {object} dto.CourseStatsResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/stats/overview [get]
func (c *CourseController) GetCourseStats(ctx *gin.Context) {
	stats, err := c.courseService.GetCourseStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// GetAvailableCourses lists active courses with free seats
// @Summary Courses open for enrollment
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/available/enrollment [get]
func (c *CourseController) GetAvailableCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetAvailableCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// EnrollStudent enrolls a student in the course
// @Summary Enroll a student in the course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID" Format(uuid)
// @Param studentId path string true "Student ID" Format(uuid)
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Course full or student already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/enroll/{studentId} [post]
func (c *CourseController) EnrollStudent(ctx *gin.Context) {
	studentID, courseID, ok := enrollmentIDs(ctx, "studentId", "id")
	if !ok {
		return
	}

	if _, err := c.enrollmentService.Enroll(ctx, studentID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Student enrolled successfully"})
}

// UnenrollStudent removes a student from the course
// @Summary Remove a student from the course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID" Format(uuid)
// @Param studentId path string true "Student ID" Format(uuid)
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Student not enrolled in the course"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/enroll/{studentId} [delete]
func (c *CourseController) UnenrollStudent(ctx *gin.Context) {
	studentID, courseID, ok := enrollmentIDs(ctx, "studentId", "id")
	if !ok {
		return
	}

	if _, err := c.enrollmentService.Unenroll(ctx, studentID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Student removed from course successfully"})
}
