package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const opSaveTemplate = "save-template"

type SaveTemplateTxParams struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

type SaveTemplateTxResult struct {
	Template Template `json:"template"`

	// Created is true when no template existed at the path before.
	Created bool `json:"created"`
}

// SaveTemplateTx creates the template at Path or replaces the source of the existing one.
// An unchanged source keeps the stored version.
func (s *SQLStore) SaveTemplateTx(ctx context.Context, arg SaveTemplateTxParams) (SaveTemplateTxResult, error) {
	if !ValidPath(arg.Path) {
		return SaveTemplateTxResult{}, invalidPath(opSaveTemplate, arg.Path)
	}

	var result SaveTemplateTxResult
	err := s.execTx(ctx, func(q *Queries) error {
		current, err := q.getTemplateForUpdate(ctx, arg.Path)
		if errors.Is(err, pgx.ErrNoRows) {
			result.Template, err = q.createTemplate(ctx, createTemplateParams(arg))
			result.Created = err == nil
			return err
		}
		if err != nil {
			return err
		}

		if current.Source == arg.Source {
			result.Template = current
			return nil
		}

		result.Template, err = q.updateTemplate(ctx, updateTemplateParams(arg))
		return err
	})
	if err != nil {
		return SaveTemplateTxResult{}, sqlError(opSaveTemplate, arg.Path, err)
	}

	return result, nil
}
