package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

type studentRepository struct {
	db *db
}

// checkUniqueness must be called with the lock held
func (repo *studentRepository) checkUniqueness(s *models.Student) error {
	for id, row := range repo.db.students {
		if id == s.ID {
			continue
		}
		if row.student.StudentID == s.StudentID {
			return apperrors.ErrStudentAlreadyExists
		}
		if row.student.Email == s.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	return nil
}

func (repo *studentRepository) Create(_ context.Context, s *models.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if _, exists := repo.db.students[s.ID]; exists {
		return apperrors.ErrStudentAlreadyExists
	}
	if err := repo.checkUniqueness(s); err != nil {
		return err
	}
	if s.Courses == nil {
		s.Courses = []string{}
	}
	repo.db.students[s.ID] = &studentRow{seq: repo.db.next(), student: *cloneStudent(*s)}
	return nil
}

func (repo *studentRepository) FindByID(_ context.Context, id string) (*models.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.students[id]; ok {
		return cloneStudent(row.student), nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (repo *studentRepository) FindByIDs(_ context.Context, ids []string) ([]*models.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]*models.Student, 0, len(ids))
	for _, id := range ids {
		if row, ok := repo.db.students[id]; ok {
			students = append(students, cloneStudent(row.student))
		}
	}
	return students, nil
}

func (repo *studentRepository) Update(_ context.Context, s *models.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row, ok := repo.db.students[s.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if err := repo.checkUniqueness(s); err != nil {
		return err
	}

	// the stored course list and creation time win
	updated := *cloneStudent(*s)
	updated.Courses = row.student.Courses
	updated.CreatedAt = row.student.CreatedAt
	row.student = updated
	return nil
}

func (repo *studentRepository) Delete(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(repo.db.students, id)
	return nil
}

// sorted returns the matching rows newest first. Must be called with the lock held.
func (repo *studentRepository) sorted(match func(*models.Student) bool) []*models.Student {
	rows := make([]*studentRow, 0, len(repo.db.students))
	for _, row := range repo.db.students {
		if match == nil || match(&row.student) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].student.CreatedAt.Equal(rows[j].student.CreatedAt) {
			return rows[i].student.CreatedAt.After(rows[j].student.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	students := make([]*models.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, cloneStudent(row.student))
	}
	return students
}

func matchStudent(f repositories.StudentFilter) func(*models.Student) bool {
	return func(s *models.Student) bool {
		if f.Search != "" &&
			!containsFold(s.FirstName, f.Search) &&
			!containsFold(s.LastName, f.Search) &&
			!containsFold(s.Email, f.Search) &&
			!containsFold(s.StudentID, f.Search) {
			return false
		}
		if f.Status != "" && string(s.Status) != f.Status {
			return false
		}
		if f.Major != "" && !containsFold(s.Major, f.Major) {
			return false
		}
		return true
	}
}

func (repo *studentRepository) FindMany(_ context.Context, filter repositories.StudentFilter, offset, limit uint64) ([]*models.Student, int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := repo.sorted(matchStudent(filter))
	return page(students, offset, limit), int64(len(students)), nil
}

func (repo *studentRepository) All(_ context.Context) ([]*models.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.sorted(nil), nil
}

func (repo *studentRepository) UpdateCourses(_ context.Context, id string, courseIDs []string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row, ok := repo.db.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	row.student.Courses = slices.Clone(courseIDs)
	if row.student.Courses == nil {
		row.student.Courses = []string{}
	}
	row.student.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *studentRepository) FindByCourse(_ context.Context, courseID string) ([]*models.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.sorted(func(s *models.Student) bool { return s.HasCourse(courseID) }), nil
}

func (repo *studentRepository) CountByCourse(_ context.Context, courseID string) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int64
	for _, row := range repo.db.students {
		if row.student.HasCourse(courseID) {
			count++
		}
	}
	return count, nil
}
