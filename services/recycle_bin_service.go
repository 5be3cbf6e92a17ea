package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/infinity-hospitality/event-system/repositories"
)

// RestoreKind names the kind of item an admin pulls out of the recycle bin.
type RestoreKind string

const (
	RestoreBooking        RestoreKind = "booking"
	RestoreTournament     RestoreKind = "tournament"
	RestoreRegistration   RestoreKind = "registration"
	RestoreJobApplication RestoreKind = "job"
)

// алиасы из старого админского фронтенда
var restoreKindAliases = map[string]RestoreKind{
	"booking":             RestoreBooking,
	"wedding":             RestoreBooking,
	"concert":             RestoreBooking,
	"festival":            RestoreBooking,
	"tournament":          RestoreTournament,
	"registration":        RestoreRegistration,
	"sports-registration": RestoreRegistration,
	"job":                 RestoreJobApplication,
}

func ParseRestoreKind(s string) (RestoreKind, error) {
	kind, ok := restoreKindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown item type %q", ErrValidationFailed, s)
	}
	return kind, nil
}

type RecycleBinService interface {
	Restore(ctx context.Context, kind RestoreKind, id int) error
}

type recycleBinService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	regRepo        repositories.RegistrationRepository
	bookingRepo    repositories.BookingRepository
	jobRepo        repositories.JobApplicationRepository
}

func NewRecycleBinService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	regRepo repositories.RegistrationRepository,
	bookingRepo repositories.BookingRepository,
	jobRepo repositories.JobApplicationRepository,
) RecycleBinService {
	return &recycleBinService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		regRepo:        regRepo,
		bookingRepo:    bookingRepo,
		jobRepo:        jobRepo,
	}
}

func (s *recycleBinService) Restore(ctx context.Context, kind RestoreKind, id int) error {
	switch kind {
	case RestoreBooking:
		if err := s.bookingRepo.Restore(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrBookingNotFound) {
				return fmt.Errorf("%w: no deleted or cancelled booking %d", ErrBookingNotFound, id)
			}
			return fmt.Errorf("failed to restore booking %d: %w", id, err)
		}
	case RestoreTournament:
		if err := s.tournamentRepo.Restore(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return fmt.Errorf("%w: no deleted tournament %d", ErrTournamentNotFound, id)
			}
			return fmt.Errorf("failed to restore tournament %d: %w", id, err)
		}
	case RestoreJobApplication:
		if err := s.jobRepo.Restore(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrJobApplicationNotFound) {
				return fmt.Errorf("%w: no deleted application %d", ErrJobApplicationNotFound, id)
			}
			return fmt.Errorf("failed to restore job application %d: %w", id, err)
		}
	case RestoreRegistration:
		return s.restoreRegistration(ctx, id)
	default:
		return fmt.Errorf("%w: unknown item type %q", ErrValidationFailed, kind)
	}
	return nil
}

// restoreRegistration puts a withdrawn registration back on the roster.
// Like withdrawal it is only allowed before the bracket is drawn.
func (s *recycleBinService) restoreRegistration(ctx context.Context, id int) error {
	reg, err := s.regRepo.GetAnyByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return fmt.Errorf("%w: id %d", ErrRegistrationNotFound, id)
		}
		return fmt.Errorf("failed to get registration %d: %w", id, err)
	}

	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := lockOpenTournament(ctx, s.tournamentRepo, exec, reg.TournamentID); err != nil {
			return err
		}
		if err := s.regRepo.Restore(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return fmt.Errorf("%w: no withdrawn registration %d", ErrRegistrationNotFound, id)
			}
			return fmt.Errorf("failed to restore registration %d: %w", id, err)
		}
		return nil
	})
}
