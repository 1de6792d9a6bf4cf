package models

import (
	"slices"
	"strings"
	"time"
)

// Address is the postal address of a student
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// EmergencyContact is the person to call for a student
type EmergencyContact struct {
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
}

// Student is a student record. Courses holds the ids of the courses the student is enrolled in,
// in enrollment order.
type Student struct {
	ID               string           `json:"id" bson:"_id"`
	StudentID        string           `json:"studentId" bson:"studentId"`
	FirstName        string           `json:"firstName" bson:"firstName"`
	LastName         string           `json:"lastName" bson:"lastName"`
	Email            string           `json:"email" bson:"email"`
	Phone            string           `json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth      time.Time        `json:"dateOfBirth" bson:"dateOfBirth"`
	Gender           Gender           `json:"gender" bson:"gender"`
	Address          Address          `json:"address" bson:"address"`
	EnrollmentDate   time.Time        `json:"enrollmentDate" bson:"enrollmentDate"`
	GraduationDate   *time.Time       `json:"graduationDate,omitempty" bson:"graduationDate,omitempty"`
	Status           StudentStatus    `json:"status" bson:"status"`
	Major            string           `json:"major" bson:"major"`
	GPA              float64          `json:"gpa" bson:"gpa"`
	Courses          []string         `json:"courses" bson:"courses"`
	EmergencyContact EmergencyContact `json:"emergencyContact" bson:"emergencyContact"`
	CreatedAt        time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// FullName joins first and last name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Age returns the student's age in whole years as of now
func (s *Student) Age() *int {
	return s.AgeAt(time.Now())
}

// AgeAt returns the age in whole years on the given day, or nil without a date of birth.
func (s *Student) AgeAt(now time.Time) *int {
	if s.DateOfBirth.IsZero() {
		return nil
	}
	dob := s.DateOfBirth.UTC()
	now = now.UTC()

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return &age
}

// HasCourse reports whether the student is enrolled in courseID
func (s *Student) HasCourse(courseID string) bool {
	return slices.Contains(s.Courses, courseID)
}

// Normalize trims string fields and lowercases the email.
func (s *Student) Normalize() {
	s.StudentID = strings.TrimSpace(s.StudentID)
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Phone = strings.TrimSpace(s.Phone)
	s.Major = strings.TrimSpace(s.Major)
}

// ApplyDefaults fills the fields that default at creation time.
func (s *Student) ApplyDefaults(now time.Time) {
	if s.Status == "" {
		s.Status = StudentActive
	}
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = now
	}
	if s.Courses == nil {
		s.Courses = []string{}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
