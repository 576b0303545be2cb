package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Drolfothesgnir/gohaa/runtime"
)

// FileSystem loads templates from a list of directories. The first directory holding
// a file of the requested name wins.
type FileSystem struct {
	paths    []string
	encoding string
}

// NewFileSystem creates a loader reading files in the given input encoding.
func NewFileSystem(paths []string, inputEncoding string) (*FileSystem, error) {
	if len(paths) == 0 {
		return nil, errors.New("filesystem loader needs at least one path")
	}
	if inputEncoding == "" {
		inputEncoding = runtime.DefaultEncoding
	}
	if _, err := runtime.LookupEncoding(inputEncoding); err != nil {
		return nil, fmt.Errorf("input encoding %q: %w", inputEncoding, err)
	}

	return &FileSystem{
		paths:    append([]string(nil), paths...),
		encoding: inputEncoding,
	}, nil
}

func (l *FileSystem) find(name string) (string, fs.FileInfo, error) {
	for _, root := range l.paths {
		filename := filepath.Join(root, filepath.FromSlash(name))
		info, err := os.Stat(filename)
		if err == nil && !info.IsDir() {
			return filename, info, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", nil, err
		}
	}
	return "", nil, &NotFoundError{Name: name, Err: fs.ErrNotExist}
}

// Load reads and decodes the file for name. The version is the file modification time.
func (l *FileSystem) Load(_ context.Context, name string) (*Template, error) {
	filename, info, err := l.find(name)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", filename, err)
	}
	source, err := runtime.Decode(b, l.encoding)
	if err != nil {
		return nil, fmt.Errorf("decode template %s: %w", filename, err)
	}

	return &Template{
		Name:    name,
		Origin:  filename,
		Source:  source,
		Version: info.ModTime(),
	}, nil
}

func (l *FileSystem) Version(_ context.Context, name string) (time.Time, error) {
	_, info, err := l.find(name)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
