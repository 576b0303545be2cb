// Package loader finds template sources by name.
//
// Names are slash separated and relative to the template root, e.g. "pages/index.pha".
// [Resolve] turns a name written inside a template into such a root name.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// Template is a template source found by a [Loader].
type Template struct {
	// Name is the root relative name the template was loaded under.
	Name string

	// Origin tells where the source came from, e.g. a file name.
	Origin string

	Source string

	// Version changes whenever the source changes.
	Version time.Time
}

// Loader provides template sources.
type Loader interface {
	// Load returns the template stored under name or a *NotFoundError.
	Load(ctx context.Context, name string) (*Template, error)

	// Version returns the current version of the template stored under name.
	Version(ctx context.Context, name string) (time.Time, error)
}

// NotFoundError is returned when no template is stored under Name.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means a missing template.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ErrOutsideRoot is returned for names leaving the template root.
var ErrOutsideRoot = errors.New("template name leaves the template root")

// Resolve returns the root name of the template referenced as name from directory dir.
// Names starting with a slash are taken from the root, others are relative to dir.
func Resolve(name, dir string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty template name")
	}

	full := name
	if strings.HasPrefix(name, "/") {
		full = strings.TrimLeft(name, "/")
	} else {
		full = path.Join(dir, name)
	}

	full = path.Clean(full)
	if full == "." || full == ".." || strings.HasPrefix(full, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, name)
	}
	return full, nil
}

// Dir returns the directory relative names inside the template called name are resolved against.
func Dir(name string) string {
	dir := path.Dir(name)
	if dir == "." {
		return ""
	}
	return dir
}

type chain []Loader

// Chain returns a loader asking each of loaders in turn until one finds the template.
func Chain(loaders ...Loader) Loader {
	return chain(loaders)
}

func (c chain) Load(ctx context.Context, name string) (*Template, error) {
	for _, l := range c {
		t, err := l.Load(ctx, name)
		if err == nil {
			return t, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, &NotFoundError{Name: name}
}

func (c chain) Version(ctx context.Context, name string) (time.Time, error) {
	for _, l := range c {
		v, err := l.Version(ctx, name)
		if err == nil {
			return v, nil
		}
		if !IsNotFound(err) {
			return time.Time{}, err
		}
	}
	return time.Time{}, &NotFoundError{Name: name}
}
