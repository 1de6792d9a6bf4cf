// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/students": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "List students",
                "description": "Lists students newest first. search matches first name, last name, email and student id.",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 1,
                        "description": "Page number (1-based)",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "default": 10,
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Case-insensitive search text",
                        "name": "search",
                        "in": "query"
                    },
                    {
                        "enum": [
                            "Active",
                            "Inactive",
                            "Graduated",
                            "Suspended"
                        ],
                        "type": "string",
                        "description": "Exact status",
                        "name": "status",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Case-insensitive major substring",
                        "name": "major",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.StudentListResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Create a new student",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Student information",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.StudentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.StudentResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request data or duplicate student id/email",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/students/stats/overview": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Student statistics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.StudentStatsResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/students/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Get student details",
                "description": "Returns a student with enrolled courses populated",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Student ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.StudentResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid student ID format",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Student not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Update a student",
                "description": "Replaces the profile of a student. Enrollments are changed through the enroll endpoints only.",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Student ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Updated student information",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.StudentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.StudentResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request data or duplicate email",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Student not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Delete a student",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Student ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.MessageResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid student ID format",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Student not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/students/{id}/enroll/{courseId}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Enroll a student in a course",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Student ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Course ID",
                        "name": "courseId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.StudentResponse"
                        }
                    },
                    "400": {
                        "description": "Course full or student already enrolled",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Student or course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Unenroll a student from a course",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Student ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Course ID",
                        "name": "courseId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.StudentResponse"
                        }
                    },
                    "400": {
                        "description": "Student not enrolled in the course",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Student or course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/courses": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "List courses",
                "description": "Lists courses newest first. search matches course code, course name and instructor name.",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 1,
                        "description": "Page number (1-based)",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "default": 10,
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Case-insensitive search text",
                        "name": "search",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Case-insensitive department substring",
                        "name": "department",
                        "in": "query"
                    },
                    {
                        "enum": [
                            "Fall",
                            "Spring",
                            "Summer"
                        ],
                        "type": "string",
                        "description": "Exact semester",
                        "name": "semester",
                        "in": "query"
                    },
                    {
                        "enum": [
                            "Active",
                            "Inactive",
                            "Completed"
                        ],
                        "type": "string",
                        "description": "Exact status",
                        "name": "status",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CourseListResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "Create a new course",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Course information",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CourseRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.CourseResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request data or duplicate course code",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/courses/stats/overview": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "Course statistics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CourseStatsResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/courses/available/enrollment": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "Courses open for enrollment",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.CourseResponse"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "Get course details",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Course ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CourseDetailResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid course ID format",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "Update a course",
                "description": "Replaces the editable fields of a course. Capacity cannot drop below the current enrollment.",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Course ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Updated course information",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CourseRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CourseResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request data or duplicate course code",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "Delete a course",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Course ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.MessageResponse"
                        }
                    },
                    "400": {
                        "description": "Students are still enrolled",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/courses/{id}/enroll/{studentId}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "Enroll a student in the course",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Course ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Student ID",
                        "name": "studentId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.MessageResponse"
                        }
                    },
                    "400": {
                        "description": "Course full or student already enrolled",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Student or course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "courses"
                ],
                "summary": "Remove a student from the course",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Course ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Student ID",
                        "name": "studentId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.MessageResponse"
                        }
                    },
                    "400": {
                        "description": "Student not enrolled in the course",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Student or course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Store unreachable",
                        "schema": {
                            "$ref": "#/definitions/dto.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "models.Address": {
            "type": "object",
            "properties": {
                "street": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "zipCode": {
                    "type": "string"
                },
                "country": {
                    "type": "string"
                }
            }
        },
        "models.EmergencyContact": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "relationship": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                }
            }
        },
        "models.Instructor": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Dr. Jane Smith"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                }
            }
        },
        "models.Schedule": {
            "type": "object",
            "properties": {
                "days": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "enum": [
                            "Monday",
                            "Tuesday",
                            "Wednesday",
                            "Thursday",
                            "Friday",
                            "Saturday",
                            "Sunday"
                        ]
                    }
                },
                "startTime": {
                    "type": "string",
                    "example": "09:00"
                },
                "endTime": {
                    "type": "string",
                    "example": "10:30"
                },
                "room": {
                    "type": "string",
                    "example": "Room 101"
                }
            }
        },
        "models.GradingPolicy": {
            "type": "object",
            "properties": {
                "assignments": {
                    "type": "integer",
                    "example": 30
                },
                "midterm": {
                    "type": "integer",
                    "example": 30
                },
                "final": {
                    "type": "integer",
                    "example": 40
                }
            }
        },
        "dto.CourseSummary": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "courseCode": {
                    "type": "string",
                    "example": "CS101"
                },
                "courseName": {
                    "type": "string",
                    "example": "Introduction to Computer Science"
                },
                "credits": {
                    "type": "integer",
                    "example": 3
                },
                "instructor": {
                    "$ref": "#/definitions/models.Instructor"
                },
                "schedule": {
                    "$ref": "#/definitions/models.Schedule"
                }
            }
        },
        "dto.CourseRef": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "courseCode": {
                    "type": "string",
                    "example": "CS100"
                },
                "courseName": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "dto.StudentResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "studentId": {
                    "type": "string",
                    "example": "STU001"
                },
                "firstName": {
                    "type": "string",
                    "example": "John"
                },
                "lastName": {
                    "type": "string",
                    "example": "Doe"
                },
                "email": {
                    "type": "string",
                    "example": "john.doe@student.com"
                },
                "phone": {
                    "type": "string"
                },
                "dateOfBirth": {
                    "type": "string",
                    "format": "date-time"
                },
                "gender": {
                    "type": "string",
                    "enum": [
                        "Male",
                        "Female",
                        "Other"
                    ]
                },
                "address": {
                    "$ref": "#/definitions/models.Address"
                },
                "enrollmentDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "graduationDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "Active",
                        "Inactive",
                        "Graduated",
                        "Suspended"
                    ]
                },
                "major": {
                    "type": "string",
                    "example": "Computer Science"
                },
                "gpa": {
                    "type": "number",
                    "example": 3.8
                },
                "emergencyContact": {
                    "$ref": "#/definitions/models.EmergencyContact"
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "updatedAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "courses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.CourseSummary"
                    }
                },
                "fullName": {
                    "type": "string",
                    "example": "John Doe"
                },
                "age": {
                    "type": "integer",
                    "example": 24
                }
            }
        },
        "dto.StudentListResponse": {
            "type": "object",
            "properties": {
                "students": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.StudentResponse"
                    }
                },
                "totalPages": {
                    "type": "integer",
                    "example": 3
                },
                "currentPage": {
                    "type": "integer",
                    "example": 1
                },
                "total": {
                    "type": "integer",
                    "example": 25
                }
            }
        },
        "dto.StudentRequest": {
            "type": "object",
            "properties": {
                "studentId": {
                    "type": "string",
                    "example": "STU001"
                },
                "firstName": {
                    "type": "string",
                    "example": "John"
                },
                "lastName": {
                    "type": "string",
                    "example": "Doe"
                },
                "email": {
                    "type": "string",
                    "example": "john.doe@student.com"
                },
                "phone": {
                    "type": "string"
                },
                "dateOfBirth": {
                    "type": "string",
                    "example": "2000-01-15"
                },
                "gender": {
                    "type": "string",
                    "enum": [
                        "Male",
                        "Female",
                        "Other"
                    ]
                },
                "address": {
                    "$ref": "#/definitions/models.Address"
                },
                "enrollmentDate": {
                    "type": "string"
                },
                "graduationDate": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "Active",
                        "Inactive",
                        "Graduated",
                        "Suspended"
                    ]
                },
                "major": {
                    "type": "string",
                    "example": "Computer Science"
                },
                "gpa": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 4,
                    "example": 3.8
                },
                "emergencyContact": {
                    "$ref": "#/definitions/models.EmergencyContact"
                }
            },
            "required": [
                "studentId",
                "firstName",
                "lastName",
                "email",
                "dateOfBirth",
                "gender",
                "major"
            ]
        },
        "dto.CourseRequest": {
            "type": "object",
            "properties": {
                "courseCode": {
                    "type": "string",
                    "example": "CS101"
                },
                "courseName": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "credits": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 6,
                    "example": 3
                },
                "department": {
                    "type": "string"
                },
                "instructor": {
                    "$ref": "#/definitions/models.Instructor"
                },
                "semester": {
                    "type": "string",
                    "enum": [
                        "Fall",
                        "Spring",
                        "Summer"
                    ]
                },
                "year": {
                    "type": "integer",
                    "minimum": 2020,
                    "example": 2024
                },
                "capacity": {
                    "type": "integer",
                    "minimum": 1,
                    "example": 30
                },
                "schedule": {
                    "$ref": "#/definitions/models.Schedule"
                },
                "prerequisites": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "uuid"
                    }
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "Active",
                        "Inactive",
                        "Completed"
                    ]
                },
                "syllabus": {
                    "type": "string"
                },
                "gradingPolicy": {
                    "$ref": "#/definitions/models.GradingPolicy"
                }
            },
            "required": [
                "courseCode",
                "courseName",
                "credits",
                "department",
                "instructor",
                "semester",
                "year",
                "capacity"
            ]
        },
        "dto.CourseResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "courseCode": {
                    "type": "string",
                    "example": "CS101"
                },
                "courseName": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "credits": {
                    "type": "integer",
                    "example": 3
                },
                "department": {
                    "type": "string"
                },
                "instructor": {
                    "$ref": "#/definitions/models.Instructor"
                },
                "semester": {
                    "type": "string",
                    "enum": [
                        "Fall",
                        "Spring",
                        "Summer"
                    ]
                },
                "year": {
                    "type": "integer",
                    "example": 2024
                },
                "capacity": {
                    "type": "integer",
                    "example": 30
                },
                "enrolledStudents": {
                    "type": "integer",
                    "example": 2
                },
                "schedule": {
                    "$ref": "#/definitions/models.Schedule"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "Active",
                        "Inactive",
                        "Completed"
                    ]
                },
                "syllabus": {
                    "type": "string"
                },
                "gradingPolicy": {
                    "$ref": "#/definitions/models.GradingPolicy"
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "updatedAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "prerequisites": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.CourseRef"
                    }
                },
                "isAvailable": {
                    "type": "boolean"
                },
                "remainingSeats": {
                    "type": "integer",
                    "example": 28
                }
            }
        },
        "dto.CourseListResponse": {
            "type": "object",
            "properties": {
                "courses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.CourseResponse"
                    }
                },
                "totalPages": {
                    "type": "integer",
                    "example": 3
                },
                "currentPage": {
                    "type": "integer",
                    "example": 1
                },
                "total": {
                    "type": "integer",
                    "example": 25
                }
            }
        },
        "dto.StudentSummary": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "studentId": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "major": {
                    "type": "string"
                },
                "gpa": {
                    "type": "number"
                }
            }
        },
        "dto.CourseDetailResponse": {
            "type": "object",
            "properties": {
                "course": {
                    "$ref": "#/definitions/dto.CourseResponse"
                },
                "enrolledStudents": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.StudentSummary"
                    }
                }
            }
        },
        "dto.GroupCount": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string",
                    "example": "Computer Science"
                },
                "count": {
                    "type": "integer",
                    "example": 4
                }
            }
        },
        "dto.StudentStatsResponse": {
            "type": "object",
            "properties": {
                "totalStudents": {
                    "type": "integer"
                },
                "activeStudents": {
                    "type": "integer"
                },
                "graduatedStudents": {
                    "type": "integer"
                },
                "inactiveStudents": {
                    "type": "integer"
                },
                "suspendedStudents": {
                    "type": "integer"
                },
                "studentsByStatus": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "averageGPA": {
                    "type": "number"
                },
                "studentsByMajor": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.GroupCount"
                    }
                }
            }
        },
        "dto.EnrolledCourse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "courseCode": {
                    "type": "string"
                },
                "courseName": {
                    "type": "string"
                },
                "enrolledStudents": {
                    "type": "integer"
                },
                "capacity": {
                    "type": "integer"
                }
            }
        },
        "dto.CourseStatsResponse": {
            "type": "object",
            "properties": {
                "totalCourses": {
                    "type": "integer"
                },
                "activeCourses": {
                    "type": "integer"
                },
                "completedCourses": {
                    "type": "integer"
                },
                "averageEnrollment": {
                    "type": "number"
                },
                "coursesByDepartment": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.GroupCount"
                    }
                },
                "mostEnrolledCourses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.EnrolledCourse"
                    }
                }
            }
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string",
                    "example": "Student deleted successfully"
                }
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "OK"
                },
                "message": {
                    "type": "string"
                },
                "store": {
                    "type": "string",
                    "example": "postgres"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "apperrors.FieldError": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string",
                    "example": "email"
                },
                "message": {
                    "type": "string",
                    "example": "email must be a valid email address"
                }
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": false
                },
                "message": {
                    "type": "string",
                    "example": "Course is full"
                },
                "code": {
                    "type": "string",
                    "example": "BUS_002"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/apperrors.FieldError"
                    }
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Student Course Management API",
	Description:      "Student and course records with enrollment, search and statistics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
