package models

// Gender of a student
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// StudentStatus is the academic standing of a student
type StudentStatus string

const (
	StudentActive    StudentStatus = "Active"
	StudentInactive  StudentStatus = "Inactive"
	StudentGraduated StudentStatus = "Graduated"
	StudentSuspended StudentStatus = "Suspended"
)

// StudentStatuses lists every student status in display order
var StudentStatuses = []StudentStatus{StudentActive, StudentInactive, StudentGraduated, StudentSuspended}

// Semester a course runs in
type Semester string

const (
	SemesterFall   Semester = "Fall"
	SemesterSpring Semester = "Spring"
	SemesterSummer Semester = "Summer"
)

// CourseStatus is the lifecycle state of a course
type CourseStatus string

const (
	CourseActive    CourseStatus = "Active"
	CourseInactive  CourseStatus = "Inactive"
	CourseCompleted CourseStatus = "Completed"
)

// Weekdays accepted in a course schedule
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
