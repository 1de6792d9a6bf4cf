// Package postgres implements the record store on PostgreSQL with pgx and squirrel.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/edurecords/internal/app/migrations"
	"github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/db"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
	"github.com/yigit/edurecords/internal/pkg/dberrors"
)

// Driver is the config name of this backend
const Driver = "postgres"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// repos binds both repositories to one querier. Inside a transaction lock is set and single-row reads
// take a FOR UPDATE row lock.
type repos struct {
	students *StudentRepository
	courses  *CourseRepository
}

func newRepos(q querier, lock bool) *repos {
	return &repos{
		students: &StudentRepository{db: q, lock: lock},
		courses:  &CourseRepository{db: q, lock: lock},
	}
}

func (r *repos) Students() repositories.StudentRepository { return r.students }
func (r *repos) Courses() repositories.CourseRepository   { return r.courses }

// Store is the PostgreSQL Store implementation
type Store struct {
	*repos
	db             *db.PostgresDB
	migrationsPath string
}

var _ repositories.Store = (*Store)(nil)

// NewStore wraps an open connection pool
func NewStore(pg *db.PostgresDB, migrationsPath string) *Store {
	return &Store{
		repos:          newRepos(pg.Pool, false),
		db:             pg,
		migrationsPath: migrationsPath,
	}
}

// RunInTx runs fn inside a database transaction
func (s *Store) RunInTx(ctx context.Context, fn repositories.TxFunc) error {
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newRepos(tx, true))
	})
	if err != nil && dberrors.IsUnavailable(err) && !apperrors.Is(err, apperrors.ErrStoreUnavailable) {
		return apperrors.NewStoreUnavailableError(err)
	}
	return err
}

// Migrate applies the pending SQL migrations
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := migrations.NewMigrator(s.db.Pool).MigrateFromDirectory(ctx, s.migrationsPath); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	s.db.Close()
	return nil
}

func (s *Store) Driver() string { return Driver }

// mapError converts driver errors into application errors
func mapError(err error, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case dberrors.IsNoRows(err):
		return notFound
	case dberrors.IsUniqueViolation(err):
		return duplicate
	case dberrors.IsUnavailable(err):
		return apperrors.NewStoreUnavailableError(err)
	default:
		return err
	}
}
