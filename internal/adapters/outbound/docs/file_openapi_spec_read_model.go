package docs

import (
	"context"
	"os"

	"tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

var _ out.OpenAPISpecReadModel = (*FileOpenAPISpecReadModel)(nil)

type FileOpenAPISpecReadModel struct {
	path string
}

func NewFileOpenAPISpecReadModel(path string) *FileOpenAPISpecReadModel {
	return &FileOpenAPISpecReadModel{
		path: path,
	}
}

func (r *FileOpenAPISpecReadModel) Read(_ context.Context) ([]byte, string, *apperrors.AppError) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, "", apperrors.NewInternal(
			"openapi_file_read_failed",
			"failed to read the OpenAPI document",
			map[string]any{"path": r.path},
		)
	}

	return content, "application/yaml; charset=utf-8", nil
}
