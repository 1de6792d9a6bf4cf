package dto

// GroupCount is one bucket of a grouped count, keyed the way the dashboard expects
type GroupCount struct {
	ID    string `json:"_id" example:"Computer Science"`
	Count int    `json:"count" example:"4"`
}

// StudentStatsResponse is returned by GET /students/stats/overview
type StudentStatsResponse struct {
	TotalStudents     int            `json:"totalStudents" example:"3"`
	ActiveStudents    int            `json:"activeStudents" example:"3"`
	GraduatedStudents int            `json:"graduatedStudents" example:"0"`
	InactiveStudents  int            `json:"inactiveStudents" example:"0"`
	SuspendedStudents int            `json:"suspendedStudents" example:"0"`
	StudentsByStatus  map[string]int `json:"studentsByStatus"`
	AverageGPA        float64        `json:"averageGPA" example:"3.73"`
	StudentsByMajor   []GroupCount   `json:"studentsByMajor"`
}

// EnrolledCourse is an entry of the most enrolled list
type EnrolledCourse struct {
	ID               string `json:"id"`
	CourseCode       string `json:"courseCode" example:"CS101"`
	CourseName       string `json:"courseName" example:"Introduction to Computer Science"`
	EnrolledStudents int    `json:"enrolledStudents" example:"3"`
	Capacity         int    `json:"capacity" example:"30"`
}

// CourseStatsResponse is returned by GET /courses/stats/overview
type CourseStatsResponse struct {
	TotalCourses        int              `json:"totalCourses" example:"3"`
	ActiveCourses       int              `json:"activeCourses" example:"3"`
	CompletedCourses    int              `json:"completedCourses" example:"0"`
	AverageEnrollment   float64          `json:"averageEnrollment" example:"1"`
	CoursesByDepartment []GroupCount     `json:"coursesByDepartment"`
	MostEnrolledCourses []EnrolledCourse `json:"mostEnrolledCourses"`
}
