package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
	"github.com/yigit/edurecords/internal/pkg/helpers"
	"github.com/yigit/edurecords/internal/pkg/validation"
)

// StudentService defines the interface for student operations
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.StudentRequest) (*dto.StudentResponse, error)
	GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, id string, req *dto.StudentRequest) (*dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id string) error
	ListStudents(ctx context.Context, req *dto.StudentListRequest) (*dto.StudentListResponse, error)
	GetStudentStats(ctx context.Context) (*dto.StudentStatsResponse, error)
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
	now    clock
}

// NewStudentService creates a new StudentService
func NewStudentService(store repositories.Store, log zerolog.Logger) StudentService {
	return &studentServiceImpl{
		store:  store,
		logger: log.With().Str("service", "students").Logger(),
		now:    helpers.Now,
	}
}

// checkStudentRequest normalizes the request and runs the field rules
func checkStudentRequest(req *dto.StudentRequest) error {
	req.Normalize()
	return validation.Struct(req)
}

// respond builds the populated response of a single student
func (s *studentServiceImpl) respond(ctx context.Context, student *models.Student) (*dto.StudentResponse, error) {
	courses, err := loadCourses(ctx, s.store.Courses(), student.Courses)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(student, courseSummaries(student.Courses, courses, true), s.now())
	return &resp, nil
}

// CreateStudent validates and stores a new student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.StudentRequest) (*dto.StudentResponse, error) {
	if err := checkStudentRequest(req); err != nil {
		return nil, err
	}
	student, err := req.ToModel()
	if err != nil {
		return nil, apperrors.NewFieldError("dateOfBirth", err.Error())
	}
	student.ApplyDefaults(s.now())

	if err := s.store.Students().Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", student.ID).Str("studentId", student.StudentID).Msg("Student created")
	return s.respond(ctx, student)
}

// GetStudent returns a student with its courses populated
func (s *studentServiceImpl) GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.store.Students().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, student)
}

// UpdateStudent replaces the profile of a student. Enrollments are not changed here.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id string, req *dto.StudentRequest) (*dto.StudentResponse, error) {
	student, err := s.store.Students().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkStudentRequest(req); err != nil {
		return nil, err
	}
	if err := req.Apply(student); err != nil {
		return nil, apperrors.NewFieldError("dateOfBirth", err.Error())
	}
	student.UpdatedAt = s.now()

	if err := s.store.Students().Update(ctx, student); err != nil {
		return nil, err
	}
	return s.respond(ctx, student)
}

// DeleteStudent removes a student. Course counters are left as they are.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id string) error {
	student, err := s.store.Students().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Students().Delete(ctx, id); err != nil {
		return err
	}

	if len(student.Courses) > 0 {
		s.logger.Warn().
			Str("id", id).
			Strs("courses", student.Courses).
			Msg("Deleted student still had enrollments; course counters were not adjusted")
	}
	s.logger.Info().Str("id", id).Msg("Student deleted")
	return nil
}

// ListStudents returns one filtered page of students
func (s *studentServiceImpl) ListStudents(ctx context.Context, req *dto.StudentListRequest) (*dto.StudentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.Limit)
	filter := repositories.StudentFilter{Search: req.Search, Status: req.Status, Major: req.Major}

	students, total, err := s.store.Students().FindMany(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, student := range students {
		ids = append(ids, student.Courses...)
	}
	courses, err := loadCourses(ctx, s.store.Courses(), ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student, courseSummaries(student.Courses, courses, false), now))
	}

	return &dto.StudentListResponse{
		Students:       items,
		PaginationInfo: helpers.NewPaginationInfo(total, req.Page, int(limit)),
	}, nil
}

// GetStudentStats computes the student overview over the whole collection
func (s *studentServiceImpl) GetStudentStats(ctx context.Context) (*dto.StudentStatsResponse, error) {
	students, err := s.store.Students().All(ctx)
	if err != nil {
		return nil, err
	}
	stats := StudentStats(students)
	return &stats, nil
}
