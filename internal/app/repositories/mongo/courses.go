package mongo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

// CourseRepository stores courses in the courses collection
type CourseRepository struct {
	coll *mongo.Collection
}

var _ repositories.CourseRepository = (*CourseRepository)(nil)

func (r *CourseRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*models.Course, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseAlreadyExists)
	}
	defer cur.Close(ctx)

	courses := []*models.Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseAlreadyExists)
	}
	for _, c := range courses {
		normalizeLists(c)
	}
	return courses, nil
}

func normalizeLists(c *models.Course) {
	if c.Prerequisites == nil {
		c.Prerequisites = []string{}
	}
	if c.Schedule.Days == nil {
		c.Schedule.Days = []string{}
	}
}

func (r *CourseRepository) codeTaken(ctx context.Context, c *models.Course) (bool, error) {
	filter := bson.M{"courseCode": c.CourseCode}
	if c.ID != "" {
		filter["_id"] = bson.M{"$ne": c.ID}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseAlreadyExists)
	}
	return n > 0, nil
}

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
	normalizeLists(c)

	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseAlreadyExists)
	}
	return nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseAlreadyExists)
	}
	normalizeLists(&c)
	return &c, nil
}

func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
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

// Update writes every field except enrolledStudents and createdAt
func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	taken, err := r.codeTaken(ctx, c)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrCourseCodeExists
	}
	normalizeLists(c)

	update := bson.M{"$set": bson.M{
		"courseCode":    c.CourseCode,
		"courseName":    c.CourseName,
		"description":   c.Description,
		"credits":       c.Credits,
		"department":    c.Department,
		"instructor":    c.Instructor,
		"semester":      c.Semester,
		"year":          c.Year,
		"capacity":      c.Capacity,
		"schedule":      c.Schedule,
		"prerequisites": c.Prerequisites,
		"status":        c.Status,
		"syllabus":      c.Syllabus,
		"gradingPolicy": c.GradingPolicy,
		"updatedAt":     c.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, update)
	if err != nil {
		return mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseCodeExists)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseAlreadyExists)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) FindMany(ctx context.Context, filter repositories.CourseFilter, offset, limit uint64) ([]*models.Course, int64, error) {
	query := courseFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseAlreadyExists)
	}
	if total == 0 {
		return []*models.Course{}, 0, nil
	}

	courses, err := r.find(ctx, query, pageOptions(offset, limit))
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *CourseRepository) All(ctx context.Context) ([]*models.Course, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// AdjustEnrollment applies the counter change in one conditional update; the capacity check is part
// of the filter.
func (r *CourseRepository) AdjustEnrollment(ctx context.Context, id string, delta int) error {
	filter, update := adjustEnrollmentUpdate(id, delta)

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapError(err, apperrors.ErrCourseNotFound, apperrors.ErrCourseAlreadyExists)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// nothing matched: either the course is gone or it is full
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return apperrors.ErrCourseFull
}

func (r *CourseRepository) FindAvailable(ctx context.Context) ([]*models.Course, error) {
	filter := bson.M{
		"status": models.CourseActive,
		"$expr":  bson.M{"$lt": bson.A{"$enrolledStudents", "$capacity"}},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "courseName", Value: 1}, {Key: "createdAt", Value: 1}}))
}
