package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
	"github.com/yigit/edurecords/internal/pkg/dberrors"
	"github.com/yigit/edurecords/internal/pkg/logger"
)

const (
	studentsTable          = "students"
	studentIDConstraint    = "students_student_id_key"
	studentEmailConstraint = "students_email_key"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db   querier
	lock bool
}

var _ repositories.StudentRepository = (*StudentRepository)(nil)

// scanStudent scans a row selected with studentColumns
func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.StudentID, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.DateOfBirth, &s.Gender,
		&s.Address, &s.EnrollmentDate, &s.GraduationDate, &s.Status, &s.Major, &s.GPA, &s.Courses,
		&s.EmergencyContact, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.Courses == nil {
		s.Courses = []string{}
	}
	return &s, nil
}

func (r *StudentRepository) queryStudents(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Student, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	return students, nil
}

// duplicateStudentError picks the message matching the violated constraint
func duplicateStudentError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, studentIDConstraint) {
		return apperrors.ErrStudentAlreadyExists
	}
	if dberrors.IsDuplicateConstraintError(err, studentEmailConstraint) {
		return apperrors.ErrEmailAlreadyExists
	}
	return apperrors.ErrStudentAlreadyExists
}

// conflict reports whether another student already uses the student id or email
func (r *StudentRepository) conflict(ctx context.Context, s *models.Student) error {
	q := psql.Select("student_id", "email").From(studentsTable).
		Where(squirrel.Or{squirrel.Eq{"student_id": s.StudentID}, squirrel.Eq{"email": s.Email}}).
		Limit(1)
	if s.ID != "" {
		q = q.Where(squirrel.NotEq{"id": s.ID})
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build student uniqueness query: %w", err)
	}

	var studentID, email string
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&studentID, &email)
	switch {
	case dberrors.IsNoRows(err):
		return nil
	case err != nil:
		return mapError(err, nil, apperrors.ErrStudentAlreadyExists)
	case studentID == s.StudentID:
		return apperrors.ErrStudentAlreadyExists
	default:
		return apperrors.ErrEmailAlreadyExists
	}
}

// Create inserts a new student, assigning its id when empty
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	if err := r.conflict(ctx, s); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Courses == nil {
		s.Courses = []string{}
	}

	sqlStr, args, err := psql.Insert(studentsTable).
		Columns("id", "student_id", "first_name", "last_name", "email", "phone", "date_of_birth", "gender",
			"address", "enrollment_date", "graduation_date", "status", "major", "gpa", "course_ids",
			"emergency_contact", "created_at", "updated_at").
		Values(s.ID, s.StudentID, s.FirstName, s.LastName, s.Email, s.Phone, s.DateOfBirth, s.Gender,
			s.Address, s.EnrollmentDate, s.GraduationDate, s.Status, s.Major, s.GPA, s.Courses,
			s.EmergencyContact, s.CreatedAt, s.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return duplicateStudentError(err)
		}
		logger.Error().Err(err).Str("studentId", s.StudentID).Msg("Error executing create student query")
		return mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	return nil
}

// FindByID retrieves a student; inside a transaction the row stays locked until commit
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	q := psql.Select(studentColumns...).From(studentsTable).Where(squirrel.Eq{"id": id})
	if r.lock {
		q = q.Suffix("FOR UPDATE")
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	return s, nil
}

// FindByIDs retrieves the students with the given ids, in the order of ids; unknown ids are skipped
func (r *StudentRepository) FindByIDs(ctx context.Context, ids []string) ([]*models.Student, error) {
	if len(ids) == 0 {
		return []*models.Student{}, nil
	}
	found, err := r.queryStudents(ctx, psql.Select(studentColumns...).From(studentsTable).
		Where(squirrel.Eq{"id::text": ids}))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Student, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	students := make([]*models.Student, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			students = append(students, s)
		}
	}
	return students, nil
}

// Update writes the profile fields of a student; the course list is left as stored
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	if err := r.conflict(ctx, s); err != nil {
		return err
	}

	sqlStr, args, err := psql.Update(studentsTable).
		Set("student_id", s.StudentID).
		Set("first_name", s.FirstName).
		Set("last_name", s.LastName).
		Set("email", s.Email).
		Set("phone", s.Phone).
		Set("date_of_birth", s.DateOfBirth).
		Set("gender", s.Gender).
		Set("address", s.Address).
		Set("enrollment_date", s.EnrollmentDate).
		Set("graduation_date", s.GraduationDate).
		Set("status", s.Status).
		Set("major", s.Major).
		Set("gpa", s.GPA).
		Set("emergency_contact", s.EmergencyContact).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return duplicateStudentError(err)
		}
		return mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete deletes a student by ID
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := psql.Delete(studentsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// FindMany retrieves one page of students, newest first, and the total number of matches
func (r *StudentRepository) FindMany(ctx context.Context, filter repositories.StudentFilter, offset, limit uint64) ([]*models.Student, int64, error) {
	sel, count := pageQuery(studentsTable, studentColumns, studentWhere(filter), offset, limit)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build student count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	if total == 0 {
		return []*models.Student{}, 0, nil
	}

	students, err := r.queryStudents(ctx, sel)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// All retrieves every student, newest first
func (r *StudentRepository) All(ctx context.Context) ([]*models.Student, error) {
	return r.queryStudents(ctx, psql.Select(studentColumns...).From(studentsTable).OrderBy("created_at DESC", "id DESC"))
}

// UpdateCourses replaces the ordered course id list of a student
func (r *StudentRepository) UpdateCourses(ctx context.Context, id string, courseIDs []string) error {
	if courseIDs == nil {
		courseIDs = []string{}
	}
	sqlStr, args, err := psql.Update(studentsTable).
		Set("course_ids", courseIDs).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update student courses query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// FindByCourse retrieves the students enrolled in a course
func (r *StudentRepository) FindByCourse(ctx context.Context, courseID string) ([]*models.Student, error) {
	return r.queryStudents(ctx, psql.Select(studentColumns...).From(studentsTable).
		Where(squirrel.Expr("course_ids @> ARRAY[?]::text[]", courseID)).
		OrderBy("last_name", "first_name"))
}

// CountByCourse counts the students whose course list references courseID
func (r *StudentRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	sqlStr, args, err := psql.Select("COUNT(*)").From(studentsTable).
		Where(squirrel.Expr("course_ids @> ARRAY[?]::text[]", courseID)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build student count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
	}
	return count, nil
}
