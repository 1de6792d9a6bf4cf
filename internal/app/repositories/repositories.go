package repositories

import (
	"context"

	"github.com/yigit/edurecords/internal/app/models"
)

// StudentFilter narrows a student listing. Empty fields are ignored.
// Search matches first name, last name, email and student id; Major is a substring match, Status exact.
type StudentFilter struct {
	Search string
	Status string
	Major  string
}

// CourseFilter narrows a course listing. Empty fields are ignored.
// Search matches course code, course name and instructor name; Department is a substring match,
// Semester and Status exact.
type CourseFilter struct {
	Search     string
	Department string
	Semester   string
	Status     string
}

// StudentRepository persists students. Update writes profile fields only; the course list is written
// through UpdateCourses so enrollment never races a profile edit.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByIDs(ctx context.Context, ids []string) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	// FindMany returns one page sorted by creation time, newest first, plus the total match count.
	FindMany(ctx context.Context, filter StudentFilter, offset, limit uint64) ([]*models.Student, int64, error)
	All(ctx context.Context) ([]*models.Student, error)
	UpdateCourses(ctx context.Context, id string, courseIDs []string) error
	FindByCourse(ctx context.Context, courseID string) ([]*models.Student, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
}

// CourseRepository persists courses. Update never touches enrolledStudents.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	FindMany(ctx context.Context, filter CourseFilter, offset, limit uint64) ([]*models.Course, int64, error)
	All(ctx context.Context) ([]*models.Course, error)
	// AdjustEnrollment adds delta to the enrolled counter. A positive delta fails with ErrCourseFull
	// when it would exceed capacity; a negative one is floored at zero.
	AdjustEnrollment(ctx context.Context, id string, delta int) error
	// FindAvailable lists active courses with a free seat, by course name.
	FindAvailable(ctx context.Context) ([]*models.Course, error)
}

// Repositories is the pair of repositories bound to one connection or transaction
type Repositories interface {
	Students() StudentRepository
	Courses() CourseRepository
}

// TxFunc is run by Store.RunInTx with repositories bound to the transaction
type TxFunc func(ctx context.Context, tx Repositories) error

// Store is a record store backend
type Store interface {
	Repositories
	// RunInTx runs fn in a single transaction when the backend supports one, and directly otherwise.
	// fn's error is returned as is.
	RunInTx(ctx context.Context, fn TxFunc) error
	// Migrate prepares the schema: tables for postgres, unique indexes for mongo.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	// Driver names the backend, as set in the config
	Driver() string
}
