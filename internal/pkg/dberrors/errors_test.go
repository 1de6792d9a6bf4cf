package dberrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestPostgresUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert student: %w", &pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"})

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsDuplicateConstraintError(err, "students_email_key"))
	assert.False(t, IsDuplicateConstraintError(err, "students_student_id_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.True(t, IsNoRows(mongo.ErrNoDocuments))
	assert.False(t, IsNoRows(errors.New("other")))
}

func TestIsMongoDuplicateKey(t *testing.T) {
	err := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: school.students index: email_1 dup key",
	}}}

	assert.True(t, IsMongoDuplicateKey(err, ""))
	assert.True(t, IsMongoDuplicateKey(err, "email_1"))
	assert.False(t, IsMongoDuplicateKey(err, "studentId_1"))
	assert.False(t, IsMongoDuplicateKey(errors.New("E11000"), ""))
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain", errors.New("bad input"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnavailable(tt.err))
		})
	}
}
