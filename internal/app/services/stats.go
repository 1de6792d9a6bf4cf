package services

import (
	"cmp"
	"slices"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/models/dto"
)

const mostEnrolledLimit = 5

// groupCounts turns a tally into buckets sorted by count desc, then key asc
func groupCounts(tally map[string]int) []dto.GroupCount {
	groups := make([]dto.GroupCount, 0, len(tally))
	for key, n := range tally {
		groups = append(groups, dto.GroupCount{ID: key, Count: n})
	}
	slices.SortFunc(groups, func(a, b dto.GroupCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return groups
}

// StudentStats summarizes a full scan of the students
func StudentStats(students []*models.Student) dto.StudentStatsResponse {
	byStatus := make(map[string]int, len(models.StudentStatuses))
	for _, status := range models.StudentStatuses {
		byStatus[string(status)] = 0
	}

	majors := make(map[string]int)
	var gpaSum float64
	for _, s := range students {
		byStatus[string(s.Status)]++
		majors[s.Major]++
		gpaSum += s.GPA
	}

	stats := dto.StudentStatsResponse{
		TotalStudents:     len(students),
		ActiveStudents:    byStatus[string(models.StudentActive)],
		GraduatedStudents: byStatus[string(models.StudentGraduated)],
		InactiveStudents:  byStatus[string(models.StudentInactive)],
		SuspendedStudents: byStatus[string(models.StudentSuspended)],
		StudentsByStatus:  byStatus,
		StudentsByMajor:   groupCounts(majors),
	}
	if len(students) > 0 {
		stats.AverageGPA = gpaSum / float64(len(students))
	}
	return stats
}

// CourseStats summarizes a full scan of the courses
func CourseStats(courses []*models.Course) dto.CourseStatsResponse {
	stats := dto.CourseStatsResponse{TotalCourses: len(courses)}

	departments := make(map[string]int)
	enrolled := 0
	for _, c := range courses {
		switch c.Status {
		case models.CourseActive:
			stats.ActiveCourses++
		case models.CourseCompleted:
			stats.CompletedCourses++
		}
		departments[c.Department]++
		enrolled += c.EnrolledStudents
	}
	stats.CoursesByDepartment = groupCounts(departments)
	if len(courses) > 0 {
		stats.AverageEnrollment = float64(enrolled) / float64(len(courses))
	}

	ranked := slices.Clone(courses)
	slices.SortStableFunc(ranked, func(a, b *models.Course) int {
		return cmp.Compare(b.EnrolledStudents, a.EnrolledStudents)
	})
	if len(ranked) > mostEnrolledLimit {
		ranked = ranked[:mostEnrolledLimit]
	}

	stats.MostEnrolledCourses = make([]dto.EnrolledCourse, 0, len(ranked))
	for _, c := range ranked {
		stats.MostEnrolledCourses = append(stats.MostEnrolledCourses, dto.EnrolledCourse{
			ID:               c.ID,
			CourseCode:       c.CourseCode,
			CourseName:       c.CourseName,
			EnrolledStudents: c.EnrolledStudents,
			Capacity:         c.Capacity,
		})
	}
	return stats
}
