package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hris-payroll/internal/shared/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_contracts_one_active"}

	assert.True(t, database.IsUniqueViolation(pgErr, ""))
	assert.True(t, database.IsUniqueViolation(fmt.Errorf("insert: %w", pgErr), "uq_contracts_one_active"))
	assert.False(t, database.IsUniqueViolation(pgErr, "uq_contracts_number"))
	assert.False(t, database.IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, database.IsUniqueViolation(errors.New("boom"), ""))
}

func TestConn_RoutesThroughTransaction(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := sqlDB.Begin()
	require.NoError(t, err)

	err = database.Conn(context.Background(), gdb, tx).Exec("SELECT pg_advisory_xact_lock(?)", 202401).Error
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}
