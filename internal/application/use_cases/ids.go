package use_cases

import (
	"strings"

	"github.com/google/uuid"

	apperrors "tonsettle/internal/shared_kernel/errors"
)

func generateID(prefix string) (string, *apperrors.AppError) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", apperrors.NewInternal(
			"id_generation_failed",
			"failed to generate random identifier",
			map[string]any{"error": err.Error()},
		)
	}

	return prefix + strings.ReplaceAll(id.String(), "-", ""), nil
}
