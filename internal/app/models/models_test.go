package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudent_AgeAt(t *testing.T) {
	s := Student{DateOfBirth: time.Date(2000, time.May, 20, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"day before birthday", time.Date(2024, time.May, 19, 12, 0, 0, 0, time.UTC), 23},
		{"on birthday", time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC), 24},
		{"earlier month", time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC), 23},
		{"later month", time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age := s.AgeAt(tt.now)
			require.NotNil(t, age)
			assert.Equal(t, tt.want, *age)
		})
	}
}

func TestStudent_AgeWithoutBirthDate(t *testing.T) {
	assert.Nil(t, (&Student{}).Age())
}

func TestStudent_NormalizeAndDefaults(t *testing.T) {
	s := Student{
		StudentID: "  STU001 ",
		FirstName: " John",
		LastName:  "Doe ",
		Email:     " John.Doe@Student.COM ",
	}
	s.Normalize()
	now := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	s.ApplyDefaults(now)

	assert.Equal(t, "STU001", s.StudentID)
	assert.Equal(t, "john.doe@student.com", s.Email)
	assert.Equal(t, "John Doe", s.FullName())
	assert.Equal(t, StudentActive, s.Status)
	assert.Equal(t, now, s.EnrollmentDate)
	assert.NotNil(t, s.Courses)
	assert.Zero(t, s.GPA)
}

func TestCourse_Seats(t *testing.T) {
	c := Course{Capacity: 2, EnrolledStudents: 1}
	assert.True(t, c.IsAvailable())
	assert.Equal(t, 1, c.RemainingSeats())

	c.EnrolledStudents = 2
	assert.False(t, c.IsAvailable())
	assert.Equal(t, 0, c.RemainingSeats())
}

func TestCourse_NormalizeAndDefaults(t *testing.T) {
	c := Course{CourseCode: " cs101 ", Instructor: Instructor{Name: "Dr. Smith", Email: "J.Smith@Faculty.com"}}
	c.Normalize()
	c.ApplyDefaults(time.Now())

	assert.Equal(t, "CS101", c.CourseCode)
	assert.Equal(t, "j.smith@faculty.com", c.Instructor.Email)
	assert.Equal(t, CourseActive, c.Status)
	assert.Equal(t, DefaultGradingPolicy, c.GradingPolicy)
	assert.Equal(t, 0, c.EnrolledStudents)
}
