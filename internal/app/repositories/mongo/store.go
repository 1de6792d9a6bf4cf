// Package mongo implements the record store on MongoDB with the official v2 driver.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/db"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
	"github.com/yigit/edurecords/internal/pkg/dberrors"
	"github.com/yigit/edurecords/internal/pkg/logger"
)

// Driver is the config name of this backend
const Driver = "mongo"

const (
	studentsCollection = "students"
	coursesCollection  = "courses"

	studentIDIndex  = "unique_student_id"
	studentEmailIdx = "unique_student_email"
	courseCodeIndex = "unique_course_code"
)

// Store is the MongoDB Store implementation
type Store struct {
	db           *db.MongoDB
	transactions bool
	students     *StudentRepository
	courses      *CourseRepository
}

var _ repositories.Store = (*Store)(nil)

// NewStore wraps a connected client. With transactions set, RunInTx uses multi-document transactions,
// which need a replica set.
func NewStore(m *db.MongoDB, transactions bool) *Store {
	return &Store{
		db:           m,
		transactions: transactions,
		students:     &StudentRepository{coll: m.Database.Collection(studentsCollection)},
		courses:      &CourseRepository{coll: m.Database.Collection(coursesCollection)},
	}
}

func (s *Store) Students() repositories.StudentRepository { return s.students }
func (s *Store) Courses() repositories.CourseRepository   { return s.courses }

// RunInTx runs fn in a transaction when enabled. Otherwise the writes of fn are applied one by one and
// a failure half way leaves the earlier writes in place.
func (s *Store) RunInTx(ctx context.Context, fn repositories.TxFunc) error {
	if !s.transactions {
		return fn(ctx, s)
	}
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		return fn(ctx, s)
	})
	if err != nil && dberrors.IsUnavailable(err) && !apperrors.Is(err, apperrors.ErrStoreUnavailable) {
		return apperrors.NewStoreUnavailableError(err)
	}
	return err
}

// indexes lists the indexes created by Migrate, per collection
func indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		studentsCollection: {
			{Keys: bson.D{{Key: "studentId", Value: 1}}, Options: options.Index().SetUnique(true).SetName(studentIDIndex)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(studentEmailIdx)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "courses", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		coursesCollection: {
			{Keys: bson.D{{Key: "courseCode", Value: 1}}, Options: options.Index().SetUnique(true).SetName(courseCodeIndex)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "department", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "courseName", Value: 1}}},
		},
	}
}

// Migrate creates the unique and lookup indexes
func (s *Store) Migrate(ctx context.Context) error {
	for collection, models := range indexes() {
		names, err := s.db.Database.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("mongo migrate %s: %w", collection, err)
		}
		logger.Info().Str("collection", collection).Strs("indexes", names).Msg("Indexes ensured")
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}

func (s *Store) Driver() string { return Driver }

// mapError converts driver errors into application errors
func mapError(err error, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case dberrors.IsNoRows(err):
		return notFound
	case mongo.IsDuplicateKeyError(err):
		return duplicate
	case dberrors.IsUnavailable(err):
		return apperrors.NewStoreUnavailableError(err)
	default:
		return err
	}
}
