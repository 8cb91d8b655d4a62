package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки, специфичные для сущностей; все оборачивают ErrNotFound
	ErrGameNotFound   = fmt.Errorf("game %w", ErrNotFound)
	ErrTeamNotFound   = fmt.Errorf("team %w", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)
	ErrRoundNotFound  = fmt.Errorf("round %w", ErrNotFound)
	ErrTableNotFound  = fmt.Errorf("table %w", ErrNotFound)

	// Ошибки удалённого API
	ErrRemoteFailure = errors.New("remote api request failed")
	ErrEmptyResponse = errors.New("remote api returned an empty or malformed response")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidStatusTransition = errors.New("invalid game status transition")
	ErrUnresolvedReference     = errors.New("report references an entity missing from the store")
	ErrExportDisabled          = errors.New("report export is not configured")
)
