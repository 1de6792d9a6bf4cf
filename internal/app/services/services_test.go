package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/repositories/memory"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

func newTestServices(t *testing.T) (*Services, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewServices(store, zerolog.Nop()), store
}

func studentRequest(n int) *dto.StudentRequest {
	gpa := 3.5
	return &dto.StudentRequest{
		StudentID:   fmt.Sprintf("STU%03d", n),
		FirstName:   "Student",
		LastName:    fmt.Sprintf("Number%d", n),
		Email:       fmt.Sprintf("student%d@student.com", n),
		DateOfBirth: "2000-01-15",
		Gender:      "Female",
		Major:       "Computer Science",
		GPA:         &gpa,
	}
}

func courseRequest(code string, capacity int) *dto.CourseRequest {
	return &dto.CourseRequest{
		CourseCode: code,
		CourseName: "Course " + code,
		Credits:    3,
		Department: "Computer Science",
		Instructor: dto.InstructorRequest{Name: "Dr. Jane Smith", Email: "jane.smith@faculty.com"},
		Semester:   "Fall",
		Year:       2024,
		Capacity:   capacity,
		Schedule:   &dto.ScheduleRequest{Days: []string{"Monday", "Wednesday"}, StartTime: "09:00", EndTime: "10:30"},
	}
}

func createStudent(t *testing.T, svc *Services, n int) *dto.StudentResponse {
	t.Helper()
	s, err := svc.Students.CreateStudent(context.Background(), studentRequest(n))
	require.NoError(t, err)
	return s
}

func createCourse(t *testing.T, svc *Services, code string, capacity int) *dto.CourseResponse {
	t.Helper()
	c, err := svc.Courses.CreateCourse(context.Background(), courseRequest(code, capacity))
	require.NoError(t, err)
	return c
}

func TestCreateStudent_DefaultsAndDerivedFields(t *testing.T) {
	svc, _ := newTestServices(t)

	req := studentRequest(1)
	req.Email = "  John.Doe@Student.com "
	s, err := svc.Students.CreateStudent(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "john.doe@student.com", s.Email)
	assert.Equal(t, models.StudentActive, s.Status)
	assert.Equal(t, "Student Number1", s.FullName)
	require.NotNil(t, s.Age)
	assert.Empty(t, s.Courses)
	assert.False(t, s.EnrollmentDate.IsZero())
}

func TestCreateStudent_Validation(t *testing.T) {
	svc, _ := newTestServices(t)

	req := studentRequest(1)
	req.Email = "not-an-email"
	req.Gender = "Unknown"
	req.FirstName = "   "

	_, err := svc.Students.CreateStudent(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	var fields []string
	for _, f := range apperrors.Fields(err) {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "gender", "firstName"}, fields)
}

func TestCreateStudent_Duplicate(t *testing.T) {
	svc, _ := newTestServices(t)
	createStudent(t, svc, 1)

	_, err := svc.Students.CreateStudent(context.Background(), studentRequest(1))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)
}

func TestRequests_NormalizedBeforeValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	s := createStudent(t, svc, 1)
	req := studentRequest(1)
	req.Email = " Updated@Student.COM\t"
	req.DateOfBirth = " 2000-01-15 "
	req.Gender = "Female "
	updated, err := svc.Students.UpdateStudent(ctx, s.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "updated@student.com", updated.Email)

	creq := courseRequest(" cs205 ", 10)
	creq.Instructor.Email = "  Jane.Smith@Faculty.com "
	creq.Semester = " Fall"
	c, err := svc.Courses.CreateCourse(ctx, creq)
	require.NoError(t, err)
	assert.Equal(t, "CS205", c.CourseCode)
	assert.Equal(t, "jane.smith@faculty.com", c.Instructor.Email)
}

func TestCreateStudent_GPAKeepsPrecision(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	req := studentRequest(1)
	gpa := 3.456
	req.GPA = &gpa
	created, err := svc.Students.CreateStudent(ctx, req)
	require.NoError(t, err)

	got, err := svc.Students.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.456, got.GPA)
}

func TestUpdateStudent_KeepsEnrollments(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	s := createStudent(t, svc, 1)
	c := createCourse(t, svc, "CS101", 2)

	_, err := svc.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	req := studentRequest(1)
	req.Major = "Mathematics"
	updated, err := svc.Students.UpdateStudent(ctx, s.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "Mathematics", updated.Major)
	require.Len(t, updated.Courses, 1)
	assert.Equal(t, "CS101", updated.Courses[0].CourseCode)
	assert.NotNil(t, updated.Courses[0].Instructor)
}

func TestGetStudent_NotFound(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.Students.GetStudent(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDeleteStudent(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	s := createStudent(t, svc, 1)

	require.NoError(t, svc.Students.DeleteStudent(ctx, s.ID))
	_, err := svc.Students.GetStudent(ctx, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.ErrorIs(t, svc.Students.DeleteStudent(ctx, s.ID), apperrors.ErrResourceNotFound)
}

func TestListStudents_Pagination(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	for i := 1; i <= 25; i++ {
		createStudent(t, svc, i)
	}

	page3, err := svc.Students.ListStudents(ctx, &dto.StudentListRequest{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page3.Students, 5)
	assert.Equal(t, 3, page3.TotalPages)
	assert.Equal(t, 3, page3.CurrentPage)
	assert.Equal(t, int64(25), page3.Total)

	page4, err := svc.Students.ListStudents(ctx, &dto.StudentListRequest{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page4.Students)
	assert.Equal(t, 4, page4.CurrentPage)

	first, err := svc.Students.ListStudents(ctx, &dto.StudentListRequest{})
	require.NoError(t, err)
	require.Len(t, first.Students, 10)
	assert.Equal(t, "STU025", first.Students[0].StudentID)
}

func TestListStudents_PageFarBeyondLast(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		createStudent(t, svc, i)
	}

	// (page-1)*limit overflows 64 bits
	far, err := svc.Students.ListStudents(ctx, &dto.StudentListRequest{Page: 1152921504606846977, Limit: 16})
	require.NoError(t, err)
	assert.Empty(t, far.Students)
	assert.Equal(t, 1, far.TotalPages)
	assert.Equal(t, int64(3), far.Total)

	huge, err := svc.Students.ListStudents(ctx, &dto.StudentListRequest{Page: 1, Limit: math.MaxInt64})
	require.NoError(t, err)
	assert.Len(t, huge.Students, 3)
	assert.Equal(t, 1, huge.TotalPages)

	courses, err := svc.Courses.ListCourses(ctx, &dto.CourseListRequest{Page: math.MaxInt64, Limit: math.MaxInt64})
	require.NoError(t, err)
	assert.Empty(t, courses.Courses)
}

func TestListStudents_SearchIsLiteral(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	createStudent(t, svc, 1)
	createStudent(t, svc, 2)

	res, err := svc.Students.ListStudents(ctx, &dto.StudentListRequest{Search: "stu.*"})
	require.NoError(t, err)
	assert.Empty(t, res.Students)

	res, err = svc.Students.ListStudents(ctx, &dto.StudentListRequest{Search: "number2"})
	require.NoError(t, err)
	require.Len(t, res.Students, 1)
	assert.Equal(t, "STU002", res.Students[0].StudentID)
}

func TestCreateCourse_Defaults(t *testing.T) {
	svc, _ := newTestServices(t)
	req := courseRequest("cs101", 30)

	c, err := svc.Courses.CreateCourse(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "CS101", c.CourseCode)
	assert.Equal(t, models.CourseActive, c.Status)
	assert.Equal(t, models.DefaultGradingPolicy, c.GradingPolicy)
	assert.Equal(t, 0, c.EnrolledStudents)
	assert.True(t, c.IsAvailable)
	assert.Equal(t, 30, c.RemainingSeats)
	assert.Empty(t, c.Prerequisites)
}

func TestCreateCourse_DuplicateCode(t *testing.T) {
	svc, _ := newTestServices(t)
	createCourse(t, svc, "CS101", 30)

	_, err := svc.Courses.CreateCourse(context.Background(), courseRequest("CS101", 10))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)
}

func TestCreateCourse_Prerequisites(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	base := createCourse(t, svc, "CS100", 30)

	req := courseRequest("CS200", 30)
	req.Prerequisites = []string{base.ID}
	c, err := svc.Courses.CreateCourse(ctx, req)
	require.NoError(t, err)
	require.Len(t, c.Prerequisites, 1)
	assert.Equal(t, "CS100", c.Prerequisites[0].CourseCode)

	req = courseRequest("CS300", 30)
	req.Prerequisites = []string{uuid.NewString()}
	_, err = svc.Courses.CreateCourse(ctx, req)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "prerequisites", apperrors.Fields(err)[0].Field)
}

func TestUpdateCourse_SelfPrerequisite(t *testing.T) {
	svc, _ := newTestServices(t)
	c := createCourse(t, svc, "CS101", 30)

	req := courseRequest("CS101", 30)
	req.Prerequisites = []string{c.ID}
	_, err := svc.Courses.UpdateCourse(context.Background(), c.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateCourse_CapacityBelowEnrollment(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 5)
	for i := 1; i <= 3; i++ {
		s := createStudent(t, svc, i)
		_, err := svc.Enrollments.Enroll(ctx, s.ID, c.ID)
		require.NoError(t, err)
	}

	_, err := svc.Courses.UpdateCourse(ctx, c.ID, courseRequest("CS101", 2))
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "capacity", apperrors.Fields(err)[0].Field)

	updated, err := svc.Courses.UpdateCourse(ctx, c.ID, courseRequest("CS101", 3))
	require.NoError(t, err)
	assert.Equal(t, 3, updated.EnrolledStudents)
	assert.False(t, updated.IsAvailable)
}

func TestUpdateCourse_CapacityRacesEnrollment(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 10)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		s := createStudent(t, svc, i)
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = svc.Enrollments.Enroll(ctx, id, c.ID)
		}(s.ID)
	}
	for capacity := 2; capacity <= 4; capacity++ {
		wg.Add(1)
		go func(req *dto.CourseRequest) {
			defer wg.Done()
			_, _ = svc.Courses.UpdateCourse(ctx, c.ID, req)
		}(courseRequest("CS101", capacity))
	}
	wg.Wait()

	got, err := svc.Courses.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, got.Course.EnrolledStudents, got.Course.Capacity)
	assert.Len(t, got.EnrolledStudents, got.Course.EnrolledStudents)
}

func TestGetCourse_Detail(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 5)
	s := createStudent(t, svc, 1)
	_, err := svc.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	detail, err := svc.Courses.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Course.EnrolledStudents)
	require.Len(t, detail.EnrolledStudents, 1)
	assert.Equal(t, "STU001", detail.EnrolledStudents[0].StudentID)
}

func TestDeleteCourse_BlockedByEnrollments(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 5)
	s := createStudent(t, svc, 1)
	_, err := svc.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	err = svc.Courses.DeleteCourse(ctx, c.ID)
	require.ErrorIs(t, err, apperrors.ErrCourseHasEnrollments)
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)

	_, err = svc.Enrollments.Unenroll(ctx, s.ID, c.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Courses.DeleteCourse(ctx, c.ID))

	_, err = svc.Courses.GetCourse(ctx, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestDeleteCourse_BlockedByDanglingReference(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 5)
	s := createStudent(t, svc, 1)
	_, err := svc.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	// counter drifted to zero while the student still lists the course
	require.NoError(t, store.Courses().AdjustEnrollment(ctx, c.ID, -1))

	assert.ErrorIs(t, svc.Courses.DeleteCourse(ctx, c.ID), apperrors.ErrCourseHasEnrollments)
}

func TestEnrollment_CapacityScenario(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	cs101 := createCourse(t, svc, "CS101", 2)
	a := createStudent(t, svc, 1)
	b := createStudent(t, svc, 2)
	c := createStudent(t, svc, 3)

	_, err := svc.Enrollments.Enroll(ctx, a.ID, cs101.ID)
	require.NoError(t, err)
	_, err = svc.Enrollments.Enroll(ctx, b.ID, cs101.ID)
	require.NoError(t, err)

	_, err = svc.Enrollments.Enroll(ctx, c.ID, cs101.ID)
	require.ErrorIs(t, err, apperrors.ErrCourseFull)
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)

	course, err := svc.Courses.GetCourse(ctx, cs101.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, course.Course.EnrolledStudents)
	assert.Len(t, course.EnrolledStudents, 2)

	third, err := svc.Students.GetStudent(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, third.Courses)

	_, err = svc.Enrollments.Unenroll(ctx, a.ID, cs101.ID)
	require.NoError(t, err)
	enrolled, err := svc.Enrollments.Enroll(ctx, c.ID, cs101.ID)
	require.NoError(t, err)
	require.Len(t, enrolled.Courses, 1)
	assert.Equal(t, cs101.ID, enrolled.Courses[0].ID)

	course, err = svc.Courses.GetCourse(ctx, cs101.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, course.Course.EnrolledStudents)
}

func TestEnroll_AlreadyEnrolledChangesNothing(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 5)
	s := createStudent(t, svc, 1)

	_, err := svc.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)
	_, err = svc.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

	course, err := svc.Courses.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, course.Course.EnrolledStudents)

	student, err := svc.Students.GetStudent(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, student.Student.Courses, 1)
}

func TestEnroll_NotFound(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 5)
	s := createStudent(t, svc, 1)

	_, err := svc.Enrollments.Enroll(ctx, uuid.NewString(), c.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = svc.Enrollments.Enroll(ctx, s.ID, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestUnenroll_NotEnrolled(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 5)
	s := createStudent(t, svc, 1)

	_, err := svc.Enrollments.Unenroll(ctx, s.ID, c.ID)
	require.ErrorIs(t, err, apperrors.ErrNotEnrolled)

	course, err := svc.Courses.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, course.Course.EnrolledStudents)
}

func TestEnrollment_CounterMatchesMembership(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c1 := createCourse(t, svc, "CS101", 3)
	c2 := createCourse(t, svc, "MATH201", 3)

	var students []*dto.StudentResponse
	for i := 1; i <= 4; i++ {
		students = append(students, createStudent(t, svc, i))
	}
	for _, s := range students {
		_, _ = svc.Enrollments.Enroll(ctx, s.ID, c1.ID)
		_, _ = svc.Enrollments.Enroll(ctx, s.ID, c2.ID)
	}
	_, err := svc.Enrollments.Unenroll(ctx, students[0].ID, c2.ID)
	require.NoError(t, err)

	for _, id := range []string{c1.ID, c2.ID} {
		detail, err := svc.Courses.GetCourse(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, len(detail.EnrolledStudents), detail.Course.EnrolledStudents)
		assert.LessOrEqual(t, detail.Course.EnrolledStudents, detail.Course.Capacity)
	}
}

func TestGetAvailableCourses(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	full := createCourse(t, svc, "CS101", 1)
	createCourse(t, svc, "PHYS101", 10)
	inactive := courseRequest("HIST100", 10)
	inactive.Status = "Inactive"
	_, err := svc.Courses.CreateCourse(ctx, inactive)
	require.NoError(t, err)

	s := createStudent(t, svc, 1)
	_, err = svc.Enrollments.Enroll(ctx, s.ID, full.ID)
	require.NoError(t, err)

	available, err := svc.Courses.GetAvailableCourses(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "PHYS101", available[0].CourseCode)
}

func TestStats_ThroughServices(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "CS101", 30)
	for i := 1; i <= 3; i++ {
		s := createStudent(t, svc, i)
		_, err := svc.Enrollments.Enroll(ctx, s.ID, c.ID)
		require.NoError(t, err)
	}

	studentStats, err := svc.Students.GetStudentStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, studentStats.TotalStudents)
	assert.Equal(t, 3, studentStats.ActiveStudents)
	assert.InDelta(t, 3.5, studentStats.AverageGPA, 1e-9)

	courseStats, err := svc.Courses.GetCourseStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, courseStats.TotalCourses)
	assert.InDelta(t, 3.0, courseStats.AverageEnrollment, 1e-9)
	require.Len(t, courseStats.MostEnrolledCourses, 1)
	assert.Equal(t, 3, courseStats.MostEnrolledCourses[0].EnrolledStudents)
}
