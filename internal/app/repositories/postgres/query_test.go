package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edurecords/internal/app/repositories"
)

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, "%john%", containsPattern("john"))
	assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}

func TestStudentWhere(t *testing.T) {
	where := studentWhere(repositories.StudentFilter{Search: "jo", Status: "Active", Major: "Comp"})

	sqlStr, args, err := where.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sqlStr, "first_name ILIKE ?")
	assert.Contains(t, sqlStr, "last_name ILIKE ?")
	assert.Contains(t, sqlStr, "email ILIKE ?")
	assert.Contains(t, sqlStr, "student_id ILIKE ?")
	assert.Contains(t, sqlStr, " OR ")
	assert.Contains(t, sqlStr, "status = ?")
	assert.Contains(t, sqlStr, "major ILIKE ?")
	assert.Equal(t, []interface{}{"%jo%", "%jo%", "%jo%", "%jo%", "Active", "%Comp%"}, args)
}

func TestStudentWhere_Empty(t *testing.T) {
	assert.Empty(t, studentWhere(repositories.StudentFilter{}))
}

func TestCourseWhere(t *testing.T) {
	where := courseWhere(repositories.CourseFilter{Search: "smith", Department: "math", Semester: "Fall", Status: "Active"})

	sqlStr, args, err := where.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sqlStr, "course_code ILIKE ?")
	assert.Contains(t, sqlStr, "course_name ILIKE ?")
	assert.Contains(t, sqlStr, "instructor->>'name' ILIKE ?")
	assert.Contains(t, sqlStr, "department ILIKE ?")
	assert.Contains(t, sqlStr, "semester = ?")
	assert.Contains(t, sqlStr, "status = ?")
	assert.Equal(t, []interface{}{"%smith%", "%smith%", "%smith%", "%math%", "Fall", "Active"}, args)
}

func TestPageQuery(t *testing.T) {
	where := studentWhere(repositories.StudentFilter{Status: "Graduated"})
	sel, count := pageQuery(studentsTable, studentColumns, where, 20, 10)

	sqlStr, args, err := sel.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "FROM students WHERE (status = $1)")
	assert.Contains(t, sqlStr, "ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 20")
	assert.Equal(t, []interface{}{"Graduated"}, args)

	countSQL, countArgs, err := count.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM students WHERE (status = $1)", countSQL)
	assert.Equal(t, []interface{}{"Graduated"}, countArgs)
}

func TestPageQuery_NoFilter(t *testing.T) {
	_, count := pageQuery(coursesTable, courseColumns, courseWhere(repositories.CourseFilter{}), 0, 10)

	countSQL, args, err := count.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM courses", countSQL)
	assert.Empty(t, args)
}

func TestAdjustEnrollmentQuery(t *testing.T) {
	sqlStr, args, err := adjustEnrollmentQuery("c1", 1).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "enrolled_students = GREATEST(enrolled_students + $1, 0)")
	assert.Contains(t, sqlStr, "enrolled_students + $4 <= capacity")
	assert.Equal(t, 1, args[0])
	assert.Equal(t, "c1", args[2])

	sqlStr, _, err = adjustEnrollmentQuery("c1", -1).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sqlStr, "<= capacity")
}
