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
	"github.com/yigit/edurecords/internal/pkg/logger"
)

const coursesTable = "courses"

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db   querier
	lock bool
}

var _ repositories.CourseRepository = (*CourseRepository)(nil)

// scanCourse scans a row selected with courseColumns
func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.CourseCode, &c.CourseName, &c.Description, &c.Credits, &c.Department, &c.Instructor,
		&c.Semester, &c.Year, &c.Capacity, &c.EnrolledStudents, &c.Schedule, &c.Prerequisites, &c.Status,
		&c.Syllabus, &c.GradingPolicy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Prerequisites == nil {
		c.Prerequisites = []string{}
	}
	if c.Schedule.Days == nil {
		c.Schedule.Days = []string{}
	}
	return &c, nil
}

func (r *CourseRepository) mapError(err error, duplicate error) error {
	return mapError(err, apperrors.ErrCourseNotFound, duplicate)
}

func (r *CourseRepository) queryCourses(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Course, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, r.mapError(err, apperrors.ErrCourseAlreadyExists)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapError(err, apperrors.ErrCourseAlreadyExists)
	}
	return courses, nil
}

// codeTaken checks whether another course already uses the course code
func (r *CourseRepository) codeTaken(ctx context.Context, c *models.Course) (bool, error) {
	q := psql.Select("1").From(coursesTable).Where(squirrel.Eq{"course_code": c.CourseCode})
	if c.ID != "" {
		q = q.Where(squirrel.NotEq{"id": c.ID})
	}
	sqlStr, args, err := q.Prefix("SELECT EXISTS(").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build course code query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&exists); err != nil {
		return false, r.mapError(err, apperrors.ErrCourseAlreadyExists)
	}
	return exists, nil
}

// Create inserts a new course, assigning its id when empty
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	taken, err := r.codeTaken(ctx, c)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrCourseAlreadyExists
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	sqlStr, args, err := psql.Insert(coursesTable).
		Columns("id", "course_code", "course_name", "description", "credits", "department", "instructor",
			"semester", "year", "capacity", "enrolled_students", "schedule", "prerequisites", "status",
			"syllabus", "grading_policy", "created_at", "updated_at").
		Values(c.ID, c.CourseCode, c.CourseName, c.Description, c.Credits, c.Department, c.Instructor,
			c.Semester, c.Year, c.Capacity, c.EnrolledStudents, c.Schedule, c.Prerequisites, c.Status,
			c.Syllabus, c.GradingPolicy, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create course query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Str("courseCode", c.CourseCode).Msg("Error executing create course query")
		return r.mapError(err, apperrors.ErrCourseAlreadyExists)
	}
	return nil
}

// FindByID retrieves a course; inside a transaction the row stays locked until commit
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	q := psql.Select(courseColumns...).From(coursesTable).Where(squirrel.Eq{"id": id})
	if r.lock {
		q = q.Suffix("FOR UPDATE")
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find course query: %w", err)
	}

	c, err := scanCourse(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, r.mapError(err, apperrors.ErrCourseAlreadyExists)
	}
	return c, nil
}

// FindByIDs retrieves the courses with the given ids, in the order of ids; unknown ids are skipped
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}
	found, err := r.queryCourses(ctx, psql.Select(courseColumns...).From(coursesTable).
		Where(squirrel.Eq{"id::text": ids}))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	courses := make([]*models.Course, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

// Update writes every course field except the enrolled counter
func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	taken, err := r.codeTaken(ctx, c)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrCourseCodeExists
	}

	sqlStr, args, err := psql.Update(coursesTable).
		Set("course_code", c.CourseCode).
		Set("course_name", c.CourseName).
		Set("description", c.Description).
		Set("credits", c.Credits).
		Set("department", c.Department).
		Set("instructor", c.Instructor).
		Set("semester", c.Semester).
		Set("year", c.Year).
		Set("capacity", c.Capacity).
		Set("schedule", c.Schedule).
		Set("prerequisites", c.Prerequisites).
		Set("status", c.Status).
		Set("syllabus", c.Syllabus).
		Set("grading_policy", c.GradingPolicy).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return r.mapError(err, apperrors.ErrCourseCodeExists)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete deletes a course by ID
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := psql.Delete(coursesTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return r.mapError(err, apperrors.ErrCourseAlreadyExists)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// FindMany retrieves one page of courses, newest first, and the total number of matches
func (r *CourseRepository) FindMany(ctx context.Context, filter repositories.CourseFilter, offset, limit uint64) ([]*models.Course, int64, error) {
	sel, count := pageQuery(coursesTable, courseColumns, courseWhere(filter), offset, limit)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build course count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, r.mapError(err, apperrors.ErrCourseAlreadyExists)
	}
	if total == 0 {
		return []*models.Course{}, 0, nil
	}

	courses, err := r.queryCourses(ctx, sel)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// All retrieves every course, newest first
func (r *CourseRepository) All(ctx context.Context) ([]*models.Course, error) {
	return r.queryCourses(ctx, psql.Select(courseColumns...).From(coursesTable).OrderBy("created_at DESC", "id DESC"))
}

// adjustEnrollmentQuery builds the counter update. Increments only match while the result stays within
// capacity; decrements are floored at zero.
func adjustEnrollmentQuery(id string, delta int) squirrel.UpdateBuilder {
	q := psql.Update(coursesTable).
		Set("enrolled_students", squirrel.Expr("GREATEST(enrolled_students + ?, 0)", delta)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})
	if delta > 0 {
		q = q.Where(squirrel.Expr("enrolled_students + ? <= capacity", delta))
	}
	return q
}

// AdjustEnrollment changes the enrolled counter by delta
func (r *CourseRepository) AdjustEnrollment(ctx context.Context, id string, delta int) error {
	sqlStr, args, err := adjustEnrollmentQuery(id, delta).ToSql()
	if err != nil {
		return fmt.Errorf("build adjust enrollment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return r.mapError(err, apperrors.ErrCourseAlreadyExists)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// nothing matched: either the course is gone or it is full
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return apperrors.ErrCourseFull
}

// FindAvailable lists active courses with a free seat, by name
func (r *CourseRepository) FindAvailable(ctx context.Context) ([]*models.Course, error) {
	return r.queryCourses(ctx, psql.Select(courseColumns...).From(coursesTable).
		Where(squirrel.Eq{"status": models.CourseActive}).
		Where("enrolled_students < capacity").
		OrderBy("course_name ASC", "created_at ASC"))
}
