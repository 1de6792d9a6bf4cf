package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

var base = time.Date(2024, time.September, 1, 9, 0, 0, 0, time.UTC)

func newStudent(n int) *models.Student {
	s := &models.Student{
		StudentID: fmt.Sprintf("STU%03d", n),
		FirstName: fmt.Sprintf("First%d", n),
		LastName:  "Doe",
		Email:     fmt.Sprintf("student%d@student.com", n),
		Gender:    models.GenderOther,
		Major:     "Computer Science",
		CreatedAt: base.Add(time.Duration(n) * time.Minute),
	}
	s.ApplyDefaults(s.CreatedAt)
	return s
}

func newCourse(code, name string, capacity int) *models.Course {
	c := &models.Course{
		CourseCode: code,
		CourseName: name,
		Credits:    3,
		Department: "Computer Science",
		Instructor: models.Instructor{Name: "Dr. Jane Smith"},
		Semester:   models.SemesterFall,
		Year:       2024,
		Capacity:   capacity,
	}
	c.ApplyDefaults(base)
	return c
}

func TestStudentRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Students()

	s := newStudent(1)
	require.NoError(t, repo.Create(ctx, s))
	require.NotEmpty(t, s.ID)

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, found)

	// returned records are copies
	found.Courses = append(found.Courses, "x")
	again, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Courses)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStudentRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Students()

	first := newStudent(1)
	require.NoError(t, repo.Create(ctx, first))

	sameID := newStudent(2)
	sameID.StudentID = first.StudentID
	assert.ErrorIs(t, repo.Create(ctx, sameID), apperrors.ErrDuplicateKey)

	sameEmail := newStudent(3)
	sameEmail.Email = first.Email
	assert.ErrorIs(t, repo.Create(ctx, sameEmail), apperrors.ErrDuplicateKey)

	second := newStudent(4)
	require.NoError(t, repo.Create(ctx, second))
	second.Email = first.Email
	assert.ErrorIs(t, repo.Update(ctx, second), apperrors.ErrEmailAlreadyExists)

	// a record never collides with itself
	first.FirstName = "Renamed"
	assert.NoError(t, repo.Update(ctx, first))
}

func TestStudentRepository_UpdateKeepsCourses(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Students()

	s := newStudent(1)
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.UpdateCourses(ctx, s.ID, []string{"c1", "c2"}))

	s.Courses = nil
	s.Major = "Physics"
	require.NoError(t, repo.Update(ctx, s))

	stored, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, stored.Courses)
	assert.Equal(t, "Physics", stored.Major)

	n, err := repo.CountByCourse(ctx, "c2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	byCourse, err := repo.FindByCourse(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, s.ID, byCourse[0].ID)
}

func TestStudentRepository_FindManyFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Students()

	for i := 1; i <= 25; i++ {
		s := newStudent(i)
		if i%5 == 0 {
			s.Status = models.StudentGraduated
			s.Major = "Applied Mathematics"
		}
		require.NoError(t, repo.Create(ctx, s))
	}

	items, total, err := repo.FindMany(ctx, repositories.StudentFilter{}, 20, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, items, 5)
	// newest first: the last page holds the oldest records
	assert.Equal(t, "STU005", items[0].StudentID)
	assert.Equal(t, "STU001", items[4].StudentID)

	items, _, err = repo.FindMany(ctx, repositories.StudentFilter{}, 30, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, total, err = repo.FindMany(ctx, repositories.StudentFilter{Status: "Graduated", Major: "mathem"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, items, 5)

	items, total, err = repo.FindMany(ctx, repositories.StudentFilter{Search: "stu012"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "STU012", items[0].StudentID)

	// search text is literal
	_, total, err = repo.FindMany(ctx, repositories.StudentFilter{Search: "STU.*"}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCourseRepository_AdjustEnrollment(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Courses()

	c := newCourse("CS101", "Introduction to Computer Science", 2)
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, repo.AdjustEnrollment(ctx, c.ID, 1))
	require.NoError(t, repo.AdjustEnrollment(ctx, c.ID, 1))
	assert.ErrorIs(t, repo.AdjustEnrollment(ctx, c.ID, 1), apperrors.ErrCourseFull)

	stored, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.EnrolledStudents)

	require.NoError(t, repo.AdjustEnrollment(ctx, c.ID, -5))
	stored, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.EnrolledStudents)

	assert.ErrorIs(t, repo.AdjustEnrollment(ctx, "missing", 1), apperrors.ErrCourseNotFound)
}

func TestCourseRepository_UpdateKeepsCounter(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Courses()

	c := newCourse("CS101", "Intro", 30)
	require.NoError(t, repo.Create(ctx, c))
	other := newCourse("MATH201", "Calculus II", 25)
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, repo.AdjustEnrollment(ctx, c.ID, 1))

	c.EnrolledStudents = 0
	c.CourseName = "Intro to CS"
	require.NoError(t, repo.Update(ctx, c))

	stored, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.EnrolledStudents)
	assert.Equal(t, "Intro to CS", stored.CourseName)

	c.CourseCode = "MATH201"
	assert.ErrorIs(t, repo.Update(ctx, c), apperrors.ErrCourseCodeExists)
	assert.ErrorIs(t, repo.Create(ctx, newCourse("CS101", "Dup", 1)), apperrors.ErrDuplicateKey)
}

func TestCourseRepository_FindAvailable(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Courses()

	full := newCourse("PHYS101", "Physics", 1)
	inactive := newCourse("ART100", "Art", 10)
	inactive.Status = models.CourseInactive
	open := newCourse("MATH201", "Calculus II", 25)
	open2 := newCourse("CS101", "Algorithms", 25)
	for _, c := range []*models.Course{full, inactive, open, open2} {
		require.NoError(t, repo.Create(ctx, c))
	}
	require.NoError(t, repo.AdjustEnrollment(ctx, full.ID, 1))

	available, err := repo.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "Algorithms", available[0].CourseName)
	assert.Equal(t, "Calculus II", available[1].CourseName)
}

func TestCourseRepository_FindManyFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Courses()

	cs := newCourse("CS101", "Intro", 30)
	math := newCourse("MATH201", "Calculus II", 25)
	math.Department = "Mathematics"
	math.Semester = models.SemesterSpring
	math.Instructor.Name = "Dr. Robert Johnson"
	require.NoError(t, repo.Create(ctx, cs))
	require.NoError(t, repo.Create(ctx, math))

	items, total, err := repo.FindMany(ctx, repositories.CourseFilter{Search: "johnson"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "MATH201", items[0].CourseCode)

	_, total, err = repo.FindMany(ctx, repositories.CourseFilter{Department: "math", Semester: "Fall"}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStore_RunInTxReturnsError(t *testing.T) {
	store := NewStore()
	err := store.RunInTx(context.Background(), func(ctx context.Context, tx repositories.Repositories) error {
		_, err := tx.Courses().FindByID(ctx, "missing")
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.Equal(t, Driver, store.Driver())
}
