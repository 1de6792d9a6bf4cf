package dberrors

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
	// class 08: connection exception
	pgConnectionExceptionClass = "08"
	// class 57: operator intervention (admin shutdown, cannot connect now)
	pgOperatorInterventionClass = "57"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports a PostgreSQL unique violation on any constraint
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsNoRows reports whether a single-row query found nothing
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, mongo.ErrNoDocuments)
}

// IsMongoDuplicateKey reports a MongoDB unique index violation. When index is not empty
// the violated index name must match too.
func IsMongoDuplicateKey(err error, index string) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}
	return index == "" || strings.Contains(err.Error(), index)
}

// IsUnavailable reports errors meaning the store could not be reached, as opposed to a query being rejected.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgConnectionExceptionClass) ||
			strings.HasPrefix(pgErr.Code, pgOperatorInterventionClass)
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
