package services

import (
	"errors"

	apperrors "github.com/abrezinsky/padelpools/internal/errors"
	"github.com/abrezinsky/padelpools/internal/repository"
)

// Service errors
var (
	ErrInvalidRosterSize     = apperrors.Validation("roster size must be a positive multiple of 4")
	ErrDuplicatePlayer       = apperrors.Validation("player appears more than once in the roster")
	ErrTiedScore             = apperrors.Validation("team scores cannot be equal")
	ErrInvalidScore          = apperrors.Validation("scores cannot be negative")
	ErrInvalidPlayer         = apperrors.Validation("invalid player")
	ErrInvalidTournament     = apperrors.Validation("invalid tournament")
	ErrInvalidCategory       = apperrors.Validation("invalid category")
	ErrInvalidCourt          = apperrors.Validation("invalid court")
	ErrInvalidQRSize         = apperrors.Validation("QR size must be between 64 and 1024 pixels")
	ErrCategoryMismatch      = apperrors.Validation("category does not belong to tournament")
	ErrBaseURLNotConfigured  = apperrors.Validation("base URL is not configured")
	ErrRosterNotConfigured   = apperrors.Validation("roster service URL is not configured")
	ErrMatchAlreadyCompleted = apperrors.Conflict("match already has a result")
	ErrMatchNotCompleted     = apperrors.Conflict("match has no result to revert")
	ErrPoolsAlreadyGenerated = apperrors.Conflict("pools already generated for this category")
	ErrDuplicateCategory     = apperrors.Conflict("category name already exists in tournament")

	ErrMatchNotFound      = apperrors.NotFound("match not found")
	ErrPoolNotFound       = apperrors.NotFound("pool not found")
	ErrTournamentNotFound = apperrors.NotFound("tournament not found")
	ErrCategoryNotFound   = apperrors.NotFound("category not found")
	ErrCourtNotFound      = apperrors.NotFound("court not found")
	ErrPlayerNotFound     = apperrors.NotFound("player not found")
	ErrNotRegistered      = apperrors.NotFound("player is not registered in category")
)

// notFoundAs replaces repository.ErrNotFound with a domain error
func notFoundAs(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
