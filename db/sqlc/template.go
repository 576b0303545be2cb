package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	opCreateTemplate     = "create-template"
	opGetTemplate        = "get-template"
	opGetTemplateVersion = "get-template-version"
	opListTemplates      = "list-templates"
	opUpdateTemplate     = "update-template"
	opDeleteTemplate     = "delete-template"
)

type CreateTemplateParams struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

type UpdateTemplateParams struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

type ListTemplatesParams struct {
	// Prefix limits the listing to paths starting with it. Invalid lists everything.
	Prefix pgtype.Text
	Limit  int32
	Offset int32
}

// TemplateSummary is a template without its source.
type TemplateSummary struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func invalidPath(op, path string) *OpError {
	return &OpError{
		Op:     op,
		Kind:   KindInvalid,
		Entity: entTemplate,
		Path:   path,
		Err:    ErrInvalidPath,
	}
}

// ValidPath reports whether path can name a stored template: non-empty, slash separated,
// without a leading slash and without "." or ".." segments.
func ValidPath(path string) bool {
	if path == "" || strings.HasPrefix(path, "/") {
		return false
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// CreateTemplate stores a new template.
// Returns KindInvalid for a malformed path and KindConflict if the path is taken.
func (s *SQLStore) CreateTemplate(ctx context.Context, arg CreateTemplateParams) (Template, error) {
	if !ValidPath(arg.Path) {
		return Template{}, invalidPath(opCreateTemplate, arg.Path)
	}

	tmpl, err := s.createTemplate(ctx, createTemplateParams(arg))
	if err != nil {
		return Template{}, sqlError(opCreateTemplate, arg.Path, err)
	}
	return tmpl, nil
}

// GetTemplate returns the template stored at path or a KindNotFound error.
func (s *SQLStore) GetTemplate(ctx context.Context, path string) (Template, error) {
	tmpl, err := s.getTemplate(ctx, path)
	if err != nil {
		return Template{}, sqlError(opGetTemplate, path, err)
	}
	return tmpl, nil
}

// GetTemplateVersion returns the last modification time of the template at path.
func (s *SQLStore) GetTemplateVersion(ctx context.Context, path string) (time.Time, error) {
	version, err := s.getTemplateVersion(ctx, path)
	if err != nil {
		return time.Time{}, sqlError(opGetTemplateVersion, path, err)
	}
	return version, nil
}

func (s *SQLStore) ListTemplates(ctx context.Context, arg ListTemplatesParams) ([]TemplateSummary, error) {
	rows, err := s.listTemplates(ctx, listTemplatesParams{
		Prefix:      arg.Prefix,
		LimitCount:  arg.Limit,
		OffsetCount: arg.Offset,
	})
	if err != nil {
		return nil, sqlError(opListTemplates, arg.Prefix.String, err)
	}

	result := make([]TemplateSummary, len(rows))
	for i, row := range rows {
		result[i] = TemplateSummary(row)
	}
	return result, nil
}

// UpdateTemplate replaces the source of an existing template and bumps its version.
func (s *SQLStore) UpdateTemplate(ctx context.Context, arg UpdateTemplateParams) (Template, error) {
	tmpl, err := s.updateTemplate(ctx, updateTemplateParams(arg))
	if err != nil {
		return Template{}, sqlError(opUpdateTemplate, arg.Path, err)
	}
	return tmpl, nil
}

// DeleteTemplate removes the template at path. Deleting a missing template is KindNotFound.
func (s *SQLStore) DeleteTemplate(ctx context.Context, path string) error {
	n, err := s.deleteTemplate(ctx, path)
	if err != nil {
		return sqlError(opDeleteTemplate, path, err)
	}
	if n == 0 {
		return notFoundError(opDeleteTemplate, path)
	}
	return nil
}
