package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yigit/edurecords/internal/app/models"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
	"github.com/yigit/edurecords/internal/pkg/dberrors"
)

// StudentRepository stores students in the students collection
type StudentRepository struct {
	coll *mongo.Collection
}

var _ repositories.StudentRepository = (*StudentRepository)(nil)

func (r *StudentRepository) mapError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		if dberrors.IsMongoDuplicateKey(err, studentEmailIdx) {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.ErrStudentAlreadyExists
	}
	return mapError(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentAlreadyExists)
}

func (r *StudentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*models.Student, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.mapError(err)
	}
	defer cur.Close(ctx)

	students := []*models.Student{}
	if err := cur.All(ctx, &students); err != nil {
		return nil, r.mapError(err)
	}
	for _, s := range students {
		if s.Courses == nil {
			s.Courses = []string{}
		}
	}
	return students, nil
}

// conflict reports whether another student already uses the student id or email
func (r *StudentRepository) conflict(ctx context.Context, s *models.Student) error {
	filter := bson.M{"$or": bson.A{bson.M{"studentId": s.StudentID}, bson.M{"email": s.Email}}}
	if s.ID != "" {
		filter["_id"] = bson.M{"$ne": s.ID}
	}

	var existing models.Student
	err := r.coll.FindOne(ctx, filter).Decode(&existing)
	switch {
	case dberrors.IsNoRows(err):
		return nil
	case err != nil:
		return r.mapError(err)
	case existing.StudentID == s.StudentID:
		return apperrors.ErrStudentAlreadyExists
	default:
		return apperrors.ErrEmailAlreadyExists
	}
}

func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	if err := r.conflict(ctx, s); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Courses == nil {
		s.Courses = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return r.mapError(err)
	}
	return nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var s models.Student
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, r.mapError(err)
	}
	if s.Courses == nil {
		s.Courses = []string{}
	}
	return &s, nil
}

func (r *StudentRepository) FindByIDs(ctx context.Context, ids []string) ([]*models.Student, error) {
	if len(ids) == 0 {
		return []*models.Student{}, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Student, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	students := make([]*models.Student, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			students = append(students, s)
		}
	}
	return students, nil
}

// Update writes the profile fields; courses and createdAt are left as stored
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	if err := r.conflict(ctx, s); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"studentId":        s.StudentID,
		"firstName":        s.FirstName,
		"lastName":         s.LastName,
		"email":            s.Email,
		"phone":            s.Phone,
		"dateOfBirth":      s.DateOfBirth,
		"gender":           s.Gender,
		"address":          s.Address,
		"enrollmentDate":   s.EnrollmentDate,
		"graduationDate":   s.GraduationDate,
		"status":           s.Status,
		"major":            s.Major,
		"gpa":              s.GPA,
		"emergencyContact": s.EmergencyContact,
		"updatedAt":        s.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": s.ID}, update)
	if err != nil {
		return r.mapError(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return r.mapError(err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) FindMany(ctx context.Context, filter repositories.StudentFilter, offset, limit uint64) ([]*models.Student, int64, error) {
	query := studentFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, r.mapError(err)
	}
	if total == 0 {
		return []*models.Student{}, 0, nil
	}

	students, err := r.find(ctx, query, pageOptions(offset, limit))
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *StudentRepository) All(ctx context.Context) ([]*models.Student, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

func (r *StudentRepository) UpdateCourses(ctx context.Context, id string, courseIDs []string) error {
	if courseIDs == nil {
		courseIDs = []string{}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"courses":   courseIDs,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return r.mapError(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) FindByCourse(ctx context.Context, courseID string) ([]*models.Student, error) {
	return r.find(ctx, bson.M{"courses": courseID},
		options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}}))
}

func (r *StudentRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"courses": courseID})
	if err != nil {
		return 0, fmt.Errorf("count students of course %s: %w", courseID, r.mapError(err))
	}
	return count, nil
}
