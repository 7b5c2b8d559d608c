package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_NonDatabaseErrorPassesThrough(t *testing.T) {
	orig := errors.New("something else")
	if err := MapDBError(orig); !errors.Is(err, orig) || GetCode(err) != "" {
		t.Errorf("MapDBError() = %v, want original error", err)
	}
}

func TestMapDBError_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"deadline exceeded", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), ErrCodeCanceled},
		{"pgx no rows", pgx.ErrNoRows, ErrCodeNotFound},
		{"sql no rows", fmt.Errorf("get job run: %w", sql.ErrNoRows), ErrCodeNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ErrCodeConflict},
		{"foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ErrCodeForeignKey},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "status"}, ErrCodeValidation},
		{"not null", &pgconn.PgError{Code: pgerrcode.NotNullViolation}, ErrCodeValidation},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, ErrCodeConflict},
		{"other", &pgconn.PgError{Code: pgerrcode.DiskFull}, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestMapDBError_UniqueViolationField(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name:      "column metadata",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "id"},
			wantField: "id",
		},
		{
			name: "parsed from detail",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: "Key (id)=(6f1c) already exists.",
			},
			wantField: "id",
		},
		{
			name:      "no field available",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *AppError
			if !errors.As(MapDBError(tt.pgErr), &appErr) {
				t.Fatalf("expected AppError")
			}
			if appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}
		})
	}
}

func TestMapDBError_ForeignKeyNamesTable(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, TableName: "access_notifications"})
	if !strings.Contains(err.Error(), "access notification") {
		t.Errorf("message should name the domain table, got %q", err.Error())
	}
}
