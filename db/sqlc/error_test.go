package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestSQLError_Classification(t *testing.T) {
	type tc struct {
		name     string
		err      error
		wantKind Kind
		wantIs   error
	}

	tests := []tc{
		{
			name:     "no_rows",
			err:      pgx.ErrNoRows,
			wantKind: KindNotFound,
			wantIs:   ErrTemplateNotFound,
		},
		{
			name:     "unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolation},
			wantKind: KindConflict,
			wantIs:   ErrTemplateExists,
		},
		{
			name:     "check_violation",
			err:      &pgconn.PgError{Code: checkViolation},
			wantKind: KindInvalid,
			wantIs:   ErrInvalidPath,
		},
		{
			name:     "other",
			err:      pgx.ErrTxClosed,
			wantKind: KindInternal,
			wantIs:   pgx.ErrTxClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sqlError(opGetTemplate, "a/b.pha", tt.err)

			var opErr *OpError
			require.ErrorAs(t, err, &opErr)
			require.Equal(t, opGetTemplate, opErr.Op)
			require.Equal(t, entTemplate, opErr.Entity)
			require.Equal(t, "a/b.pha", opErr.Path)
			require.Equal(t, tt.wantKind, opErr.Kind)
			require.Equal(t, tt.wantKind, ErrorKind(err))
			require.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestSQLError_KeepsDriverError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolation}
	err := sqlError(opCreateTemplate, "x.pha", pgErr)

	var got *pgconn.PgError
	require.ErrorAs(t, err, &got)
	require.Same(t, pgErr, got)
}

func TestOpError_Message(t *testing.T) {
	err := notFoundError(opDeleteTemplate, "x.pha")
	require.EqualError(t, err, `delete-template: template "x.pha": not found: template not found`)
}

func TestErrorKind_ForeignError(t *testing.T) {
	require.Equal(t, KindInternal, ErrorKind(errors.New("boom")))
	require.Equal(t, KindInternal, ErrorKind(nil))
}

func TestValidPath(t *testing.T) {
	valid := []string{"a.pha", "pages/index.pha", "a/b/c"}
	invalid := []string{"", "/a.pha", "a//b", "a/./b", "../a", "a/..", "a/"}

	for _, p := range valid {
		require.True(t, ValidPath(p), p)
	}
	for _, p := range invalid {
		require.False(t, ValidPath(p), p)
	}
}
