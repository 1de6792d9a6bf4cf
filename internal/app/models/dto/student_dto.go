package dto

import (
	"strings"
	"time"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/pkg/validation"
)

// StudentRequest is the body of POST /students and PUT /students/{id}.
// On update, optional fields left out keep their stored value.
type StudentRequest struct {
	StudentID        string                   `json:"studentId" validate:"notblank" example:"STU001"`
	FirstName        string                   `json:"firstName" validate:"notblank" example:"John"`
	LastName         string                   `json:"lastName" validate:"notblank" example:"Doe"`
	Email            string                   `json:"email" validate:"required,email" example:"john.doe@student.com"`
	Phone            string                   `json:"phone,omitempty" example:"123-456-7892"`
	DateOfBirth      string                   `json:"dateOfBirth" validate:"required,isodate" example:"2000-01-15"`
	Gender           string                   `json:"gender" validate:"required,oneof=Male Female Other" example:"Male"`
	Address          *models.Address          `json:"address,omitempty"`
	EnrollmentDate   string                   `json:"enrollmentDate,omitempty" validate:"omitempty,isodate"`
	GraduationDate   string                   `json:"graduationDate,omitempty" validate:"omitempty,isodate"`
	Status           string                   `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive Graduated Suspended" example:"Active"`
	Major            string                   `json:"major" validate:"notblank" example:"Computer Science"`
	GPA              *float64                 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=4" example:"3.8"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact,omitempty"`
}

// Normalize trims the text fields and lowercases the email so validation sees the stored form
func (r *StudentRequest) Normalize() {
	for _, f := range []*string{
		&r.StudentID, &r.FirstName, &r.LastName, &r.Phone, &r.Major,
		&r.DateOfBirth, &r.EnrollmentDate, &r.GraduationDate, &r.Gender, &r.Status,
	} {
		*f = strings.TrimSpace(*f)
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// ToModel builds a new student from the request
func (r *StudentRequest) ToModel() (*models.Student, error) {
	student := &models.Student{}
	if err := r.Apply(student); err != nil {
		return nil, err
	}
	return student, nil
}

// Apply copies the request onto an existing student. Identity, enrollments and timestamps are untouched.
func (r *StudentRequest) Apply(s *models.Student) error {
	dob, err := validation.ParseDate(r.DateOfBirth)
	if err != nil {
		return err
	}

	s.StudentID = r.StudentID
	s.FirstName = r.FirstName
	s.LastName = r.LastName
	s.Email = r.Email
	s.Phone = r.Phone
	s.DateOfBirth = dob
	s.Gender = models.Gender(r.Gender)
	s.Major = r.Major

	if r.Address != nil {
		s.Address = *r.Address
	}
	if r.EmergencyContact != nil {
		s.EmergencyContact = *r.EmergencyContact
	}
	if r.Status != "" {
		s.Status = models.StudentStatus(r.Status)
	}
	if r.GPA != nil {
		s.GPA = *r.GPA
	}
	if r.EnrollmentDate != "" {
		if s.EnrollmentDate, err = validation.ParseDate(r.EnrollmentDate); err != nil {
			return err
		}
	}
	if r.GraduationDate != "" {
		graduation, err := validation.ParseDate(r.GraduationDate)
		if err != nil {
			return err
		}
		s.GraduationDate = &graduation
	}

	s.Normalize()
	return nil
}

// StudentResponse is a student with populated courses and derived fields
type StudentResponse struct {
	models.Student
	Courses  []CourseSummary `json:"courses"`
	FullName string          `json:"fullName" example:"John Doe"`
	Age      *int            `json:"age" example:"24"`
}

// CourseSummary is the populated form of a course reference on a student
type CourseSummary struct {
	ID         string             `json:"id"`
	CourseCode string             `json:"courseCode" example:"CS101"`
	CourseName string             `json:"courseName" example:"Introduction to Computer Science"`
	Credits    int                `json:"credits" example:"3"`
	Instructor *models.Instructor `json:"instructor,omitempty"`
	Schedule   *models.Schedule   `json:"schedule,omitempty"`
}

// NewCourseSummary builds the short form used in student lists
func NewCourseSummary(c *models.Course) CourseSummary {
	return CourseSummary{
		ID:         c.ID,
		CourseCode: c.CourseCode,
		CourseName: c.CourseName,
		Credits:    c.Credits,
	}
}

// NewCourseDetailSummary also carries instructor and schedule, as shown on the student page
func NewCourseDetailSummary(c *models.Course) CourseSummary {
	summary := NewCourseSummary(c)
	instructor, schedule := c.Instructor, c.Schedule
	summary.Instructor = &instructor
	summary.Schedule = &schedule
	return summary
}

// NewStudentResponse wraps a student with its populated courses.
// courses must be in the order of s.Courses; missing references are skipped by the caller.
func NewStudentResponse(s *models.Student, courses []CourseSummary, now time.Time) StudentResponse {
	if courses == nil {
		courses = []CourseSummary{}
	}
	return StudentResponse{
		Student:  *s,
		Courses:  courses,
		FullName: s.FullName(),
		Age:      s.AgeAt(now),
	}
}

// StudentSummary is the short student form listed on a course page
type StudentSummary struct {
	ID        string  `json:"id"`
	StudentID string  `json:"studentId" example:"STU001"`
	FirstName string  `json:"firstName" example:"John"`
	LastName  string  `json:"lastName" example:"Doe"`
	Email     string  `json:"email" example:"john.doe@student.com"`
	Major     string  `json:"major" example:"Computer Science"`
	GPA       float64 `json:"gpa" example:"3.8"`
}

// NewStudentSummary builds a StudentSummary
func NewStudentSummary(s *models.Student) StudentSummary {
	return StudentSummary{
		ID:        s.ID,
		StudentID: s.StudentID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Major:     s.Major,
		GPA:       s.GPA,
	}
}

// StudentListRequest carries the list query string
type StudentListRequest struct {
	Page   int
	Limit  int
	Search string
	Status string
	Major  string
}

// StudentListResponse represents a page of students
type StudentListResponse struct {
	Students []StudentResponse `json:"students"`
	PaginationInfo
}
