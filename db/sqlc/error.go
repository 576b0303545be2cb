package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateExists   = errors.New("template already exists")
	ErrInvalidPath      = errors.New("invalid template path")
)

// Kind classifies a failed store operation.
type Kind int

const (
	// KindInternal is any database failure the caller cannot act on.
	KindInternal Kind = iota

	// KindNotFound means the addressed template does not exist.
	KindNotFound

	// KindConflict means a template with the same path already exists.
	KindConflict

	// KindInvalid means the arguments were rejected before or by the database.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

const entTemplate = "template"

// OpError describes a failed store operation.
type OpError struct {
	Op     string
	Kind   Kind
	Entity string
	Path   string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s: %v", e.Op, e.Entity, e.Path, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// postgres error codes
const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

func notFoundError(op, path string) *OpError {
	return &OpError{
		Op:     op,
		Kind:   KindNotFound,
		Entity: entTemplate,
		Path:   path,
		Err:    ErrTemplateNotFound,
	}
}

// sqlError classifies err returned by a query on the template at path.
func sqlError(op, path string, err error) *OpError {
	opErr := &OpError{
		Op:     op,
		Kind:   KindInternal,
		Entity: entTemplate,
		Path:   path,
		Err:    err,
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundError(op, path)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			opErr.Kind = KindConflict
			opErr.Err = fmt.Errorf("%w: %w", ErrTemplateExists, err)
		case checkViolation:
			opErr.Kind = KindInvalid
			opErr.Err = fmt.Errorf("%w: %w", ErrInvalidPath, err)
		}
	}

	return opErr
}

// ErrorKind returns the kind of a store error, KindInternal for foreign errors.
func ErrorKind(err error) Kind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindInternal
}
