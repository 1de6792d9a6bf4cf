package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
	"github.com/yigit/edurecords/internal/pkg/helpers"
	"github.com/yigit/edurecords/internal/pkg/validation"
)

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CourseRequest) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseDetailResponse, error)
	UpdateCourse(ctx context.Context, id string, req *dto.CourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id string) error
	ListCourses(ctx context.Context, req *dto.CourseListRequest) (*dto.CourseListResponse, error)
	GetCourseStats(ctx context.Context) (*dto.CourseStatsResponse, error)
	GetAvailableCourses(ctx context.Context) ([]dto.CourseResponse, error)
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
	now    clock
}

// NewCourseService creates a new CourseService
func NewCourseService(store repositories.Store, log zerolog.Logger) CourseService {
	return &courseServiceImpl{
		store:  store,
		logger: log.With().Str("service", "courses").Logger(),
		now:    helpers.Now,
	}
}

// checkPrerequisites rejects a course listing itself or an unknown course as prerequisite.
// Longer cycles are allowed.
func checkPrerequisites(ctx context.Context, courses repositories.CourseRepository, c *models.Course) error {
	if len(c.Prerequisites) == 0 {
		return nil
	}
	if c.ID != "" && slices.Contains(c.Prerequisites, c.ID) {
		return apperrors.NewFieldError("prerequisites", "A course cannot be its own prerequisite")
	}

	found, err := courses.FindByIDs(ctx, c.Prerequisites)
	if err != nil {
		return err
	}
	if len(found) == len(c.Prerequisites) {
		return nil
	}

	known := make(map[string]bool, len(found))
	for _, p := range found {
		known[p.ID] = true
	}
	for _, id := range c.Prerequisites {
		if !known[id] {
			return apperrors.NewFieldError("prerequisites", fmt.Sprintf("Prerequisite course %s not found", id))
		}
	}
	return nil
}

// respond populates the prerequisites of one course
func (s *courseServiceImpl) respond(ctx context.Context, c *models.Course, withDescription bool) (*dto.CourseResponse, error) {
	prereqs, err := loadCourses(ctx, s.store.Courses(), c.Prerequisites)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCourseResponse(c, courseRefs(c.Prerequisites, prereqs, withDescription))
	return &resp, nil
}

// respondMany populates the prerequisites of a list of courses with a single lookup
func (s *courseServiceImpl) respondMany(ctx context.Context, courses []*models.Course) ([]dto.CourseResponse, error) {
	var ids []string
	for _, c := range courses {
		ids = append(ids, c.Prerequisites...)
	}
	prereqs, err := loadCourses(ctx, s.store.Courses(), ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		items = append(items, dto.NewCourseResponse(c, courseRefs(c.Prerequisites, prereqs, false)))
	}
	return items, nil
}

// CreateCourse validates and stores a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CourseRequest) (*dto.CourseResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	course := req.ToModel()
	course.ID = uuid.NewString()
	course.ApplyDefaults(s.now())

	if err := checkPrerequisites(ctx, s.store.Courses(), course); err != nil {
		return nil, err
	}
	if err := s.store.Courses().Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", course.ID).Str("courseCode", course.CourseCode).Msg("Course created")
	return s.respond(ctx, course, false)
}

// GetCourse returns a course with populated prerequisites and its enrolled students
func (s *courseServiceImpl) GetCourse(ctx context.Context, id string) (*dto.CourseDetailResponse, error) {
	course, err := s.store.Courses().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := s.respond(ctx, course, true)
	if err != nil {
		return nil, err
	}

	students, err := s.store.Students().FindByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	enrolled := make([]dto.StudentSummary, 0, len(students))
	for _, st := range students {
		enrolled = append(enrolled, dto.NewStudentSummary(st))
	}

	return &dto.CourseDetailResponse{Course: *resp, EnrolledStudents: enrolled}, nil
}

// UpdateCourse replaces the editable fields of a course. Capacity may not drop below current enrollment;
// the check and the write share one transaction with the enrolled counter.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id string, req *dto.CourseRequest) (*dto.CourseResponse, error) {
	var updated *models.Course

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Repositories) error {
		course, err := tx.Courses().FindByID(ctx, id)
		if err != nil {
			return err
		}
		req.Normalize()
		if err := validation.Struct(req); err != nil {
			return err
		}

		req.Apply(course)
		if course.Capacity < course.EnrolledStudents {
			return apperrors.NewFieldError("capacity",
				fmt.Sprintf("Capacity cannot be lower than the %d students already enrolled", course.EnrolledStudents))
		}
		if err := checkPrerequisites(ctx, tx.Courses(), course); err != nil {
			return err
		}
		course.UpdatedAt = s.now()

		if err := tx.Courses().Update(ctx, course); err != nil {
			return err
		}
		updated = course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, updated, false)
}

// DeleteCourse removes a course nobody is enrolled in
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.store.Courses().FindByID(ctx, id)
	if err != nil {
		return err
	}
	referenced, err := s.store.Students().CountByCourse(ctx, id)
	if err != nil {
		return err
	}
	if enrolled := max(int64(course.EnrolledStudents), referenced); enrolled > 0 {
		return apperrors.NewBusinessRuleError(apperrors.ErrCourseHasEnrollments,
			fmt.Sprintf("Cannot delete course. %d student(s) are enrolled.", enrolled))
	}

	if err := s.store.Courses().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Str("courseCode", course.CourseCode).Msg("Course deleted")
	return nil
}

// ListCourses returns one filtered page of courses
func (s *courseServiceImpl) ListCourses(ctx context.Context, req *dto.CourseListRequest) (*dto.CourseListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.Limit)
	filter := repositories.CourseFilter{
		Search:     req.Search,
		Department: req.Department,
		Semester:   req.Semester,
		Status:     req.Status,
	}

	courses, total, err := s.store.Courses().FindMany(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	items, err := s.respondMany(ctx, courses)
	if err != nil {
		return nil, err
	}

	return &dto.CourseListResponse{
		Courses:        items,
		PaginationInfo: helpers.NewPaginationInfo(total, req.Page, int(limit)),
	}, nil
}

// GetCourseStats computes the course overview over the whole collection
func (s *courseServiceImpl) GetCourseStats(ctx context.Context) (*dto.CourseStatsResponse, error) {
	courses, err := s.store.Courses().All(ctx)
	if err != nil {
		return nil, err
	}
	stats := CourseStats(courses)
	return &stats, nil
}

// GetAvailableCourses lists active courses with free seats, by name
func (s *courseServiceImpl) GetAvailableCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.store.Courses().FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return s.respondMany(ctx, courses)
}
