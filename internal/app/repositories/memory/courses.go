package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

type courseRepository struct {
	db *db
}

func (repo *courseRepository) codeTaken(c *models.Course) bool {
	for id, row := range repo.db.courses {
		if id != c.ID && row.course.CourseCode == c.CourseCode {
			return true
		}
	}
	return false
}

func (repo *courseRepository) Create(_ context.Context, c *models.Course) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := repo.db.courses[c.ID]; exists || repo.codeTaken(c) {
		return apperrors.ErrCourseAlreadyExists
	}
	repo.db.courses[c.ID] = &courseRow{seq: repo.db.next(), course: *cloneCourse(*c)}
	return nil
}

func (repo *courseRepository) FindByID(_ context.Context, id string) (*models.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.courses[id]; ok {
		return cloneCourse(row.course), nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (repo *courseRepository) FindByIDs(_ context.Context, ids []string) ([]*models.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		if row, ok := repo.db.courses[id]; ok {
			courses = append(courses, cloneCourse(row.course))
		}
	}
	return courses, nil
}

func (repo *courseRepository) Update(_ context.Context, c *models.Course) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row, ok := repo.db.courses[c.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if repo.codeTaken(c) {
		return apperrors.ErrCourseCodeExists
	}

	updated := *cloneCourse(*c)
	updated.EnrolledStudents = row.course.EnrolledStudents
	updated.CreatedAt = row.course.CreatedAt
	row.course = updated
	return nil
}

func (repo *courseRepository) Delete(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(repo.db.courses, id)
	return nil
}

func (repo *courseRepository) collect(match func(*models.Course) bool, less func(a, b *courseRow) bool) []*models.Course {
	rows := make([]*courseRow, 0, len(repo.db.courses))
	for _, row := range repo.db.courses {
		if match == nil || match(&row.course) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return less(rows[i], rows[j]) })

	courses := make([]*models.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, cloneCourse(row.course))
	}
	return courses
}

func newestFirst(a, b *courseRow) bool {
	if !a.course.CreatedAt.Equal(b.course.CreatedAt) {
		return a.course.CreatedAt.After(b.course.CreatedAt)
	}
	return a.seq > b.seq
}

func byName(a, b *courseRow) bool {
	if a.course.CourseName != b.course.CourseName {
		return a.course.CourseName < b.course.CourseName
	}
	return a.seq < b.seq
}

func matchCourse(f repositories.CourseFilter) func(*models.Course) bool {
	return func(c *models.Course) bool {
		if f.Search != "" &&
			!containsFold(c.CourseCode, f.Search) &&
			!containsFold(c.CourseName, f.Search) &&
			!containsFold(c.Instructor.Name, f.Search) {
			return false
		}
		if f.Department != "" && !containsFold(c.Department, f.Department) {
			return false
		}
		if f.Semester != "" && string(c.Semester) != f.Semester {
			return false
		}
		if f.Status != "" && string(c.Status) != f.Status {
			return false
		}
		return true
	}
}

func (repo *courseRepository) FindMany(_ context.Context, filter repositories.CourseFilter, offset, limit uint64) ([]*models.Course, int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := repo.collect(matchCourse(filter), newestFirst)
	return page(courses, offset, limit), int64(len(courses)), nil
}

func (repo *courseRepository) All(_ context.Context) ([]*models.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.collect(nil, newestFirst), nil
}

func (repo *courseRepository) AdjustEnrollment(_ context.Context, id string, delta int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row, ok := repo.db.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}

	enrolled := row.course.EnrolledStudents + delta
	if delta > 0 && enrolled > row.course.Capacity {
		return apperrors.ErrCourseFull
	}
	row.course.EnrolledStudents = max(enrolled, 0)
	row.course.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *courseRepository) FindAvailable(_ context.Context) ([]*models.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.collect(func(c *models.Course) bool {
		return c.Status == models.CourseActive && c.IsAvailable()
	}, byName), nil
}
