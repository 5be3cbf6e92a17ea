package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed          = errors.New("validation failed")
	ErrPasswordTooShort          = errors.New("password is too short")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrRegistrationNotOpen       = errors.New("tournament registration is not open")
	ErrTournamentNotEditable     = errors.New("tournament can only be edited while registration is open")
	ErrInvalidStatusTransition   = errors.New("invalid status transition")
	ErrCancellationWindowExpired = errors.New("booking can only be cancelled within 24 hours of creation")
	ErrStorageDisabled           = errors.New("file storage is not configured")

	// Ошибки движка сетки
	ErrInvalidWinner      = errors.New("winner is not a participant of the fixture")
	ErrTournamentClosed   = errors.New("tournament is already completed")
	ErrInvariantViolation = errors.New("bracket invariant violated")

	// Ошибки конфликтов
	ErrConflict              = errors.New("conflicting state")
	ErrWinnerAlreadyRecorded = fmt.Errorf("%w: a different winner is already recorded for this fixture", ErrConflict)
	ErrRoundAlreadySeeded    = fmt.Errorf("%w: fixtures already exist for this round", ErrConflict)
	ErrUserEmailConflict     = fmt.Errorf("%w: email address is already in use", ErrConflict)
	ErrUserUsernameConflict  = fmt.Errorf("%w: username is already in use", ErrConflict)

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound           = fmt.Errorf("%w: user", ErrNotFound)
	ErrTournamentNotFound     = fmt.Errorf("%w: tournament", ErrNotFound)
	ErrRegistrationNotFound   = fmt.Errorf("%w: registration", ErrNotFound)
	ErrFixtureNotFound        = fmt.Errorf("%w: fixture", ErrNotFound)
	ErrBookingNotFound        = fmt.Errorf("%w: booking", ErrNotFound)
	ErrJobApplicationNotFound = fmt.Errorf("%w: job application", ErrNotFound)
)
