package postgres

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/edurecords/internal/app/repositories"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var studentColumns = []string{
	"id::text", "student_id", "first_name", "last_name", "email", "phone", "date_of_birth", "gender",
	"address", "enrollment_date", "graduation_date", "status", "major", "gpa::float8", "course_ids",
	"emergency_contact", "created_at", "updated_at",
}

var courseColumns = []string{
	"id::text", "course_code", "course_name", "description", "credits", "department", "instructor",
	"semester", "year", "capacity", "enrolled_students", "schedule", "prerequisites", "status",
	"syllabus", "grading_policy", "created_at", "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching value literally anywhere in the column
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// anyILike ORs a case-insensitive substring match over columns
func anyILike(value string, columns ...string) squirrel.Or {
	pattern := containsPattern(value)
	or := make(squirrel.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, squirrel.ILike{col: pattern})
	}
	return or
}

// studentWhere returns the WHERE conditions of a student listing
func studentWhere(f repositories.StudentFilter) squirrel.And {
	where := squirrel.And{}
	if f.Search != "" {
		where = append(where, anyILike(f.Search, "first_name", "last_name", "email", "student_id"))
	}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"status": f.Status})
	}
	if f.Major != "" {
		where = append(where, squirrel.ILike{"major": containsPattern(f.Major)})
	}
	return where
}

// courseWhere returns the WHERE conditions of a course listing
func courseWhere(f repositories.CourseFilter) squirrel.And {
	where := squirrel.And{}
	if f.Search != "" {
		where = append(where, anyILike(f.Search, "course_code", "course_name", "instructor->>'name'"))
	}
	if f.Department != "" {
		where = append(where, squirrel.ILike{"department": containsPattern(f.Department)})
	}
	if f.Semester != "" {
		where = append(where, squirrel.Eq{"semester": f.Semester})
	}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"status": f.Status})
	}
	return where
}

// pageQuery returns the select and the matching count query for one page of a listing
func pageQuery(table string, columns []string, where squirrel.And, offset, limit uint64) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	sel := psql.Select(columns...).From(table).OrderBy("created_at DESC", "id DESC").Offset(offset)
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	count := psql.Select("COUNT(*)").From(table)
	if len(where) > 0 {
		sel = sel.Where(where)
		count = count.Where(where)
	}
	return sel, count
}
