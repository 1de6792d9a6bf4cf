package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/services"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

// EnrolledCourse is the sample course every sample student is enrolled in
const EnrolledCourse = "CS101"

func gpa(v float64) *float64 { return &v }

// SampleStudents returns the sample student dataset
func SampleStudents() []dto.StudentRequest {
	return []dto.StudentRequest{
		{
			StudentID:   "STU001",
			FirstName:   "John",
			LastName:    "Doe",
			Email:       "john.doe@student.com",
			Phone:       "123-456-7892",
			DateOfBirth: "2000-01-15",
			Gender:      "Male",
			Address:     &models.Address{Street: "123 Main St", City: "Anytown", State: "CA", ZipCode: "12345", Country: "USA"},
			Major:       "Computer Science",
			GPA:         gpa(3.8),
			Status:      "Active",
		},
		{
			StudentID:   "STU002",
			FirstName:   "Jane",
			LastName:    "Wilson",
			Email:       "jane.wilson@student.com",
			Phone:       "123-456-7893",
			DateOfBirth: "1999-05-20",
			Gender:      "Female",
			Address:     &models.Address{Street: "456 Oak Ave", City: "Somewhere", State: "NY", ZipCode: "67890", Country: "USA"},
			Major:       "Mathematics",
			GPA:         gpa(3.9),
			Status:      "Active",
		},
		{
			StudentID:   "STU003",
			FirstName:   "Mike",
			LastName:    "Johnson",
			Email:       "mike.johnson@student.com",
			Phone:       "123-456-7894",
			DateOfBirth: "2001-08-10",
			Gender:      "Male",
			Address:     &models.Address{Street: "789 Pine Rd", City: "Elsewhere", State: "TX", ZipCode: "11111", Country: "USA"},
			Major:       "Physics",
			GPA:         gpa(3.5),
			Status:      "Active",
		},
	}
}

// SampleCourses returns the sample course dataset
func SampleCourses() []dto.CourseRequest {
	return []dto.CourseRequest{
		{
			CourseCode:  "CS101",
			CourseName:  "Introduction to Computer Science",
			Description: "Basic concepts of computer science and programming",
			Credits:     3,
			Department:  "Computer Science",
			Instructor:  dto.InstructorRequest{Name: "Dr. Jane Smith", Email: "jane.smith@faculty.com", Phone: "123-456-7895"},
			Semester:    "Fall",
			Year:        2024,
			Capacity:    30,
			Schedule:    &dto.ScheduleRequest{Days: []string{"Monday", "Wednesday", "Friday"}, StartTime: "09:00", EndTime: "10:30", Room: "Room 101"},
			Status:      "Active",
		},
		{
			CourseCode:  "MATH201",
			CourseName:  "Calculus I",
			Description: "Introduction to differential calculus",
			Credits:     4,
			Department:  "Mathematics",
			Instructor:  dto.InstructorRequest{Name: "Dr. Robert Brown", Email: "robert.brown@faculty.com", Phone: "123-456-7896"},
			Semester:    "Fall",
			Year:        2024,
			Capacity:    25,
			Schedule:    &dto.ScheduleRequest{Days: []string{"Tuesday", "Thursday"}, StartTime: "14:00", EndTime: "15:30", Room: "Room 202"},
			Status:      "Active",
		},
		{
			CourseCode:  "PHYS101",
			CourseName:  "General Physics",
			Description: "Fundamental principles of physics",
			Credits:     4,
			Department:  "Physics",
			Instructor:  dto.InstructorRequest{Name: "Dr. Sarah Davis", Email: "sarah.davis@faculty.com", Phone: "123-456-7897"},
			Semester:    "Fall",
			Year:        2024,
			Capacity:    35,
			Schedule:    &dto.ScheduleRequest{Days: []string{"Monday", "Wednesday"}, StartTime: "11:00", EndTime: "12:30", Room: "Room 303"},
			Status:      "Active",
		},
	}
}

// CreateDefaultData loads the sample dataset through the services, so enrollment counters stay
// consistent. Records that already exist are left alone; running it twice is harmless.
func CreateDefaultData(ctx context.Context, svc *services.Services, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating sample data (Courses/Students)...")
	var finalErr error

	courseIDs := make(map[string]string)
	for _, req := range SampleCourses() {
		id, err := ensureCourse(ctx, svc.Courses, req)
		if err != nil {
			lgr.Error().Err(err).Str("courseCode", req.CourseCode).Msg("Error creating sample course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		courseIDs[req.CourseCode] = id
	}

	enrollIn, ok := courseIDs[EnrolledCourse]
	for _, req := range SampleStudents() {
		id, err := ensureStudent(ctx, svc.Students, req)
		if err != nil {
			lgr.Error().Err(err).Str("studentId", req.StudentID).Msg("Error creating sample student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if !ok {
			continue
		}

		_, err = svc.Enrollments.Enroll(ctx, id, enrollIn)
		if err != nil && !errors.Is(err, apperrors.ErrAlreadyEnrolled) {
			lgr.Error().Err(err).Str("studentId", req.StudentID).Msg("Error enrolling sample student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("courses", len(courseIDs)).Msg("Sample data ready")
	}
	return finalErr
}

func ensureCourse(ctx context.Context, courses services.CourseService, req dto.CourseRequest) (string, error) {
	created, err := courses.CreateCourse(ctx, &req)
	if err == nil {
		return created.ID, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicateKey) {
		return "", err
	}

	found, err := courses.ListCourses(ctx, &dto.CourseListRequest{Search: req.CourseCode, Limit: 50})
	if err != nil {
		return "", err
	}
	for _, c := range found.Courses {
		if c.CourseCode == req.CourseCode {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("course %s reported as existing but not found", req.CourseCode)
}

func ensureStudent(ctx context.Context, students services.StudentService, req dto.StudentRequest) (string, error) {
	created, err := students.CreateStudent(ctx, &req)
	if err == nil {
		return created.ID, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicateKey) {
		return "", err
	}

	found, err := students.ListStudents(ctx, &dto.StudentListRequest{Search: req.StudentID, Limit: 50})
	if err != nil {
		return "", err
	}
	for _, s := range found.Students {
		if s.StudentID == req.StudentID {
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("student %s reported as existing but not found", req.StudentID)
}
