// Package memory is an in-process record store backend. It keeps everything in maps guarded by one
// RWMutex and is used by the memory driver and by tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/helpers"
)

// Driver is the config name of this backend
const Driver = "memory"

type db struct {
	mutex    sync.RWMutex
	seq      int64
	students map[string]*studentRow
	courses  map[string]*courseRow
}

// rows keep an insertion sequence so equal timestamps still sort deterministically
type studentRow struct {
	seq     int64
	student models.Student
}

type courseRow struct {
	seq    int64
	course models.Course
}

// Store is the in-memory Store implementation
type Store struct {
	db       *db
	txMutex  sync.Mutex
	students *studentRepository
	courses  *courseRepository
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	d := &db{
		students: make(map[string]*studentRow),
		courses:  make(map[string]*courseRow),
	}
	return &Store{
		db:       d,
		students: &studentRepository{db: d},
		courses:  &courseRepository{db: d},
	}
}

func (s *Store) Students() repositories.StudentRepository { return s.students }
func (s *Store) Courses() repositories.CourseRepository   { return s.courses }

// RunInTx serializes fn against every other RunInTx call. Writes made by fn before it fails are kept,
// so fn must check its preconditions before writing.
func (s *Store) RunInTx(ctx context.Context, fn repositories.TxFunc) error {
	s.txMutex.Lock()
	defer s.txMutex.Unlock()
	return fn(ctx, s)
}

func (s *Store) Migrate(context.Context) error { return nil }
func (s *Store) Ping(context.Context) error    { return nil }
func (s *Store) Close(context.Context) error   { return nil }
func (s *Store) Driver() string                { return Driver }

func (d *db) next() int64 {
	d.seq++
	return d.seq
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func cloneStudent(s models.Student) *models.Student {
	s.Courses = slices.Clone(s.Courses)
	if s.GraduationDate != nil {
		graduation := *s.GraduationDate
		s.GraduationDate = &graduation
	}
	return &s
}

func cloneCourse(c models.Course) *models.Course {
	c.Prerequisites = slices.Clone(c.Prerequisites)
	c.Schedule.Days = slices.Clone(c.Schedule.Days)
	return &c
}

// page cuts items[offset:offset+limit], clamped to the slice
func page[T any](items []T, offset, limit uint64) []T {
	start, end := helpers.PageBounds(offset, limit, len(items))
	if start == end {
		return []T{}
	}
	return items[start:end]
}
