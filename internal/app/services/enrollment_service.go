package services

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
	"github.com/yigit/edurecords/internal/pkg/helpers"
)

// EnrollmentService is the only writer of a student's course list and a course's enrolled counter
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID string) (*dto.StudentResponse, error)
	Unenroll(ctx context.Context, studentID, courseID string) (*dto.StudentResponse, error)
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
	now    clock
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store repositories.Store, log zerolog.Logger) EnrollmentService {
	return &enrollmentServiceImpl{
		store:  store,
		logger: log.With().Str("service", "enrollments").Logger(),
		now:    helpers.Now,
	}
}

// load fetches both sides of an enrollment, student first
func load(ctx context.Context, tx repositories.Repositories, studentID, courseID string) (*models.Student, *models.Course, error) {
	student, err := tx.Students().FindByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	course, err := tx.Courses().FindByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	return student, course, nil
}

// Enroll adds the course to the student and takes one seat.
// All checks happen before the first write. The seat is taken before the student is updated.
// Without a transaction (mongo with transactions disabled) a failed student update is returned as is
// and leaves the seat taken: enrolledStudents is then one above the students listing the course.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentID, courseID string) (*dto.StudentResponse, error) {
	var enrolled *models.Student

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Repositories) error {
		student, course, err := load(ctx, tx, studentID, courseID)
		if err != nil {
			return err
		}
		if !course.IsAvailable() {
			return apperrors.ErrCourseFull
		}
		if student.HasCourse(courseID) {
			return apperrors.ErrAlreadyEnrolled
		}

		if err := tx.Courses().AdjustEnrollment(ctx, courseID, 1); err != nil {
			return err
		}
		student.Courses = append(slices.Clone(student.Courses), courseID)
		if err := tx.Students().UpdateCourses(ctx, studentID, student.Courses); err != nil {
			return err
		}

		enrolled = student
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentId", studentID).Str("courseId", courseID).Msg("Student enrolled")
	return s.respond(ctx, enrolled)
}

// Unenroll removes the course from the student and frees one seat
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, studentID, courseID string) (*dto.StudentResponse, error) {
	var unenrolled *models.Student

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Repositories) error {
		student, _, err := load(ctx, tx, studentID, courseID)
		if err != nil {
			return err
		}
		if !student.HasCourse(courseID) {
			return apperrors.ErrNotEnrolled
		}

		student.Courses = slices.DeleteFunc(slices.Clone(student.Courses), func(id string) bool {
			return id == courseID
		})
		if err := tx.Students().UpdateCourses(ctx, studentID, student.Courses); err != nil {
			return err
		}
		if err := tx.Courses().AdjustEnrollment(ctx, courseID, -1); err != nil {
			return err
		}

		unenrolled = student
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentId", studentID).Str("courseId", courseID).Msg("Student unenrolled")
	return s.respond(ctx, unenrolled)
}

// respond populates the courses of the updated student
func (s *enrollmentServiceImpl) respond(ctx context.Context, student *models.Student) (*dto.StudentResponse, error) {
	courses, err := loadCourses(ctx, s.store.Courses(), student.Courses)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(student, courseSummaries(student.Courses, courses, true), s.now())
	return &resp, nil
}
