package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/repositories"
)

// Services defined in this package:
// - StudentService: student CRUD, listing and statistics
// - CourseService: course CRUD, listing, availability and statistics
// - EnrollmentService: enrolling and unenrolling students, the only writer of enrollment state

// Services holds all the service instances
type Services struct {
	Students    StudentService
	Courses     CourseService
	Enrollments EnrollmentService
}

// NewServices wires every service to the given store
func NewServices(store repositories.Store, log zerolog.Logger) *Services {
	return &Services{
		Students:    NewStudentService(store, log),
		Courses:     NewCourseService(store, log),
		Enrollments: NewEnrollmentService(store, log),
	}
}

// clock returns the current time in UTC; replaced in tests
type clock func() time.Time

// uniqueIDs returns ids without duplicates, keeping first occurrences in order
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// loadCourses fetches the courses referenced by ids, keyed by id
func loadCourses(ctx context.Context, repo repositories.CourseRepository, ids []string) (map[string]*models.Course, error) {
	byID := make(map[string]*models.Course, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	courses, err := repo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		byID[c.ID] = c
	}
	return byID, nil
}

// courseSummaries resolves a student's course ids in order. Ids of deleted courses are skipped.
func courseSummaries(ids []string, courses map[string]*models.Course, detail bool) []dto.CourseSummary {
	summaries := make([]dto.CourseSummary, 0, len(ids))
	for _, id := range ids {
		c, ok := courses[id]
		if !ok {
			continue
		}
		if detail {
			summaries = append(summaries, dto.NewCourseDetailSummary(c))
		} else {
			summaries = append(summaries, dto.NewCourseSummary(c))
		}
	}
	return summaries
}

// courseRefs resolves prerequisite ids in order, skipping unknown ones
func courseRefs(ids []string, courses map[string]*models.Course, withDescription bool) []dto.CourseRef {
	refs := make([]dto.CourseRef, 0, len(ids))
	for _, id := range ids {
		if c, ok := courses[id]; ok {
			refs = append(refs, dto.NewCourseRef(c, withDescription))
		}
	}
	return refs
}
