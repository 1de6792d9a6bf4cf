package models

import (
	"strings"
	"time"
)

// Instructor teaching a course
type Instructor struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Schedule of weekly meetings
type Schedule struct {
	Days      []string `json:"days" bson:"days"`
	StartTime string   `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime   string   `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Room      string   `json:"room,omitempty" bson:"room,omitempty"`
}

// GradingPolicy holds the percentage weight of each assessment
type GradingPolicy struct {
	Assignments int `json:"assignments" bson:"assignments"`
	Midterm     int `json:"midterm" bson:"midterm"`
	Final       int `json:"final" bson:"final"`
}

// DefaultGradingPolicy is applied when a course is created without one
var DefaultGradingPolicy = GradingPolicy{Assignments: 30, Midterm: 30, Final: 40}

// Course is a course record. EnrolledStudents is maintained by the enrollment service only.
type Course struct {
	ID               string        `json:"id" bson:"_id"`
	CourseCode       string        `json:"courseCode" bson:"courseCode"`
	CourseName       string        `json:"courseName" bson:"courseName"`
	Description      string        `json:"description,omitempty" bson:"description,omitempty"`
	Credits          int           `json:"credits" bson:"credits"`
	Department       string        `json:"department" bson:"department"`
	Instructor       Instructor    `json:"instructor" bson:"instructor"`
	Semester         Semester      `json:"semester" bson:"semester"`
	Year             int           `json:"year" bson:"year"`
	Capacity         int           `json:"capacity" bson:"capacity"`
	EnrolledStudents int           `json:"enrolledStudents" bson:"enrolledStudents"`
	Schedule         Schedule      `json:"schedule" bson:"schedule"`
	Prerequisites    []string      `json:"prerequisites" bson:"prerequisites"`
	Status           CourseStatus  `json:"status" bson:"status"`
	Syllabus         string        `json:"syllabus,omitempty" bson:"syllabus,omitempty"`
	GradingPolicy    GradingPolicy `json:"gradingPolicy" bson:"gradingPolicy"`
	CreatedAt        time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// IsAvailable reports whether a seat is left
func (c *Course) IsAvailable() bool {
	return c.EnrolledStudents < c.Capacity
}

// RemainingSeats is capacity minus current enrollment
func (c *Course) RemainingSeats() int {
	return c.Capacity - c.EnrolledStudents
}

// Normalize trims string fields, uppercases the code and lowercases the instructor email.
func (c *Course) Normalize() {
	c.CourseCode = strings.ToUpper(strings.TrimSpace(c.CourseCode))
	c.CourseName = strings.TrimSpace(c.CourseName)
	c.Description = strings.TrimSpace(c.Description)
	c.Department = strings.TrimSpace(c.Department)
	c.Instructor.Name = strings.TrimSpace(c.Instructor.Name)
	c.Instructor.Email = strings.ToLower(strings.TrimSpace(c.Instructor.Email))
	c.Instructor.Phone = strings.TrimSpace(c.Instructor.Phone)
	c.Syllabus = strings.TrimSpace(c.Syllabus)
}

// ApplyDefaults fills the fields that default at creation time.
func (c *Course) ApplyDefaults(now time.Time) {
	if c.Status == "" {
		c.Status = CourseActive
	}
	if c.GradingPolicy == (GradingPolicy{}) {
		c.GradingPolicy = DefaultGradingPolicy
	}
	if c.Prerequisites == nil {
		c.Prerequisites = []string{}
	}
	if c.Schedule.Days == nil {
		c.Schedule.Days = []string{}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}
