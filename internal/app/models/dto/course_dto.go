package dto

import (
	"strings"

	"github.com/yigit/edurecords/internal/app/models"
)

// InstructorRequest is the instructor block of a course request
type InstructorRequest struct {
	Name  string `json:"name" validate:"notblank" example:"Dr. Jane Smith"`
	Email string `json:"email,omitempty" validate:"omitempty,email" example:"jane.smith@faculty.com"`
	Phone string `json:"phone,omitempty" example:"123-456-7895"`
}

// ScheduleRequest is the schedule block of a course request
type ScheduleRequest struct {
	Days      []string `json:"days" validate:"omitempty,unique,dive,weekday" example:"Monday,Wednesday"`
	StartTime string   `json:"startTime,omitempty" validate:"omitempty,clocktime" example:"09:00"`
	EndTime   string   `json:"endTime,omitempty" validate:"omitempty,clocktime" example:"10:30"`
	Room      string   `json:"room,omitempty" example:"Room 101"`
}

// GradingPolicyRequest holds assessment weights in percent
type GradingPolicyRequest struct {
	Assignments int `json:"assignments" validate:"gte=0,lte=100" example:"30"`
	Midterm     int `json:"midterm" validate:"gte=0,lte=100" example:"30"`
	Final       int `json:"final" validate:"gte=0,lte=100" example:"40"`
}

// CourseRequest is the body of POST /courses and PUT /courses/{id}.
// enrolledStudents is not accepted here; it only changes through enrollment.
type CourseRequest struct {
	CourseCode    string                `json:"courseCode" validate:"notblank" example:"CS101"`
	CourseName    string                `json:"courseName" validate:"notblank" example:"Introduction to Computer Science"`
	Description   string                `json:"description,omitempty"`
	Credits       int                   `json:"credits" validate:"min=1,max=6" example:"3"`
	Department    string                `json:"department" validate:"notblank" example:"Computer Science"`
	Instructor    InstructorRequest     `json:"instructor"`
	Semester      string                `json:"semester" validate:"required,oneof=Fall Spring Summer" example:"Fall"`
	Year          int                   `json:"year" validate:"min=2020" example:"2024"`
	Capacity      int                   `json:"capacity" validate:"min=1" example:"30"`
	Schedule      *ScheduleRequest      `json:"schedule,omitempty"`
	Prerequisites []string              `json:"prerequisites,omitempty" validate:"omitempty,unique,dive,uuid"`
	Status        string                `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive Completed" example:"Active"`
	Syllabus      string                `json:"syllabus,omitempty"`
	GradingPolicy *GradingPolicyRequest `json:"gradingPolicy,omitempty"`
}

// Normalize trims the text fields, uppercases the code and lowercases emails and ids before validation
func (r *CourseRequest) Normalize() {
	r.CourseCode = strings.ToUpper(strings.TrimSpace(r.CourseCode))
	for _, f := range []*string{
		&r.CourseName, &r.Department, &r.Semester, &r.Status,
		&r.Instructor.Name, &r.Instructor.Phone,
	} {
		*f = strings.TrimSpace(*f)
	}
	r.Instructor.Email = strings.ToLower(strings.TrimSpace(r.Instructor.Email))
	if r.Schedule != nil {
		r.Schedule.StartTime = strings.TrimSpace(r.Schedule.StartTime)
		r.Schedule.EndTime = strings.TrimSpace(r.Schedule.EndTime)
	}
	for i, id := range r.Prerequisites {
		r.Prerequisites[i] = strings.ToLower(strings.TrimSpace(id))
	}
}

// ToModel builds a new course from the request
func (r *CourseRequest) ToModel() *models.Course {
	course := &models.Course{}
	r.Apply(course)
	return course
}

// Apply copies the request onto an existing course. Identity, enrollment count and timestamps are untouched.
func (r *CourseRequest) Apply(c *models.Course) {
	c.CourseCode = r.CourseCode
	c.CourseName = r.CourseName
	c.Description = r.Description
	c.Credits = r.Credits
	c.Department = r.Department
	c.Instructor = models.Instructor{
		Name:  r.Instructor.Name,
		Email: r.Instructor.Email,
		Phone: r.Instructor.Phone,
	}
	c.Semester = models.Semester(r.Semester)
	c.Year = r.Year
	c.Capacity = r.Capacity
	c.Syllabus = r.Syllabus

	if r.Schedule != nil {
		days := r.Schedule.Days
		if days == nil {
			days = []string{}
		}
		c.Schedule = models.Schedule{
			Days:      days,
			StartTime: r.Schedule.StartTime,
			EndTime:   r.Schedule.EndTime,
			Room:      r.Schedule.Room,
		}
	}
	if r.Prerequisites != nil {
		c.Prerequisites = r.Prerequisites
	}
	if r.Status != "" {
		c.Status = models.CourseStatus(r.Status)
	}
	if r.GradingPolicy != nil {
		c.GradingPolicy = models.GradingPolicy{
			Assignments: r.GradingPolicy.Assignments,
			Midterm:     r.GradingPolicy.Midterm,
			Final:       r.GradingPolicy.Final,
		}
	}

	c.Normalize()
}

// CourseRef is the populated form of a prerequisite
type CourseRef struct {
	ID          string `json:"id"`
	CourseCode  string `json:"courseCode" example:"CS100"`
	CourseName  string `json:"courseName" example:"Computing Basics"`
	Description string `json:"description,omitempty"`
}

// NewCourseRef builds a CourseRef; withDescription is used on the detail page
func NewCourseRef(c *models.Course, withDescription bool) CourseRef {
	ref := CourseRef{ID: c.ID, CourseCode: c.CourseCode, CourseName: c.CourseName}
	if withDescription {
		ref.Description = c.Description
	}
	return ref
}

// CourseResponse is a course with populated prerequisites and derived seat fields
type CourseResponse struct {
	models.Course
	Prerequisites  []CourseRef `json:"prerequisites"`
	IsAvailable    bool        `json:"isAvailable" example:"true"`
	RemainingSeats int         `json:"remainingSeats" example:"28"`
}

// NewCourseResponse wraps a course with its populated prerequisites
func NewCourseResponse(c *models.Course, prerequisites []CourseRef) CourseResponse {
	if prerequisites == nil {
		prerequisites = []CourseRef{}
	}
	return CourseResponse{
		Course:         *c,
		Prerequisites:  prerequisites,
		IsAvailable:    c.IsAvailable(),
		RemainingSeats: c.RemainingSeats(),
	}
}

// CourseDetailResponse is returned by GET /courses/{id}
type CourseDetailResponse struct {
	Course           CourseResponse   `json:"course"`
	EnrolledStudents []StudentSummary `json:"enrolledStudents"`
}

// CourseListRequest carries the list query string
type CourseListRequest struct {
	Page       int
	Limit      int
	Search     string
	Department string
	Semester   string
	Status     string
}

// CourseListResponse represents a page of courses
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	PaginationInfo
}
