package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yigit/edurecords/internal/app/repositories"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// contains matches value literally anywhere in a string field, ignoring case
func contains(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}

func anyContains(value string, fields ...string) bson.A {
	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: contains(value)})
	}
	return or
}

// studentFilter builds the query document of a student listing
func studentFilter(f repositories.StudentFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = anyContains(f.Search, "firstName", "lastName", "email", "studentId")
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Major != "" {
		filter["major"] = contains(f.Major)
	}
	return filter
}

// courseFilter builds the query document of a course listing
func courseFilter(f repositories.CourseFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = anyContains(f.Search, "courseCode", "courseName", "instructor.name")
	}
	if f.Department != "" {
		filter["department"] = contains(f.Department)
	}
	if f.Semester != "" {
		filter["semester"] = f.Semester
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

// pageOptions sorts newest first and cuts one page
func pageOptions(offset, limit uint64) *options.FindOptionsBuilder {
	opts := options.Find().SetSort(newestFirst).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

// adjustEnrollmentUpdate returns the filter and update pipeline that add delta to the counter.
// Increments only match while the result stays within capacity; the pipeline floors the result at zero.
func adjustEnrollmentUpdate(id string, delta int) (bson.M, bson.A) {
	filter := bson.M{"_id": id}
	if delta > 0 {
		filter["$expr"] = bson.M{"$lte": bson.A{bson.M{"$add": bson.A{"$enrolledStudents", delta}}, "$capacity"}}
	}
	update := bson.A{
		bson.M{"$set": bson.M{
			"enrolledStudents": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{"$enrolledStudents", delta}}}},
			"updatedAt":        "$$NOW",
		}},
	}
	return filter, update
}
