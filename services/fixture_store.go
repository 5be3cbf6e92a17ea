package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
)

// FixtureStore owns fixtures and the rules for recording their result.
type FixtureStore interface {
	Create(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture) error
	ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Fixture, error)
	GetByID(ctx context.Context, exec repositories.SQLExecutor, fixtureID int) (*models.Fixture, error)
	// RecordWinner reports changed=false when the same winner was already
	// recorded, so callers can treat a retry as a no-op.
	RecordWinner(ctx context.Context, exec repositories.SQLExecutor, fixtureID, winnerID int) (*models.Fixture, bool, error)
}

type fixtureStore struct {
	fixtureRepo    repositories.FixtureRepository
	tournamentRepo repositories.TournamentRepository
	regRepo        repositories.RegistrationRepository
}

func NewFixtureStore(
	fixtureRepo repositories.FixtureRepository,
	tournamentRepo repositories.TournamentRepository,
	regRepo repositories.RegistrationRepository,
) FixtureStore {
	return &fixtureStore{
		fixtureRepo:    fixtureRepo,
		tournamentRepo: tournamentRepo,
		regRepo:        regRepo,
	}
}

func (s *fixtureStore) Create(ctx context.Context, exec repositories.SQLExecutor, f *models.Fixture) error {
	if f.Participant1ID != nil && f.Participant2ID != nil && *f.Participant1ID == *f.Participant2ID {
		return fmt.Errorf("%w: both slots reference registration %d", ErrValidationFailed, *f.Participant1ID)
	}
	for _, slot := range []*int{f.Participant1ID, f.Participant2ID} {
		if slot == nil {
			continue
		}
		reg, err := s.regRepo.GetByID(ctx, exec, *slot)
		if err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return fmt.Errorf("%w: registration %d does not exist", ErrValidationFailed, *slot)
			}
			return fmt.Errorf("failed to check fixture slot %d: %w", *slot, err)
		}
		if reg.TournamentID != f.TournamentID {
			return fmt.Errorf("%w: registration %d belongs to another tournament", ErrValidationFailed, *slot)
		}
	}

	if f.Round == "" {
		f.Round = "1"
	}
	f.Status = models.FixtureScheduled
	f.WinnerID = nil

	if err := s.fixtureRepo.Create(ctx, exec, f); err != nil {
		switch {
		case errors.Is(err, repositories.ErrFixtureSameSlots), errors.Is(err, repositories.ErrFixtureInvalidRef):
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return fmt.Errorf("failed to create fixture: %w", err)
	}
	return nil
}

func (s *fixtureStore) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Fixture, error) {
	fixtures, err := s.fixtureRepo.ListByTournament(ctx, exec, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	return fixtures, nil
}

func (s *fixtureStore) GetByID(ctx context.Context, exec repositories.SQLExecutor, fixtureID int) (*models.Fixture, error) {
	f, err := s.fixtureRepo.GetByID(ctx, exec, fixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrFixtureNotFound, fixtureID)
		}
		return nil, fmt.Errorf("failed to get fixture %d: %w", fixtureID, err)
	}
	return f, nil
}

func (s *fixtureStore) RecordWinner(ctx context.Context, exec repositories.SQLExecutor, fixtureID, winnerID int) (*models.Fixture, bool, error) {
	f, err := s.GetByID(ctx, exec, fixtureID)
	if err != nil {
		return nil, false, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, exec, f.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, false, fmt.Errorf("%w: id %d", ErrTournamentNotFound, f.TournamentID)
		}
		return nil, false, fmt.Errorf("failed to get tournament %d: %w", f.TournamentID, err)
	}
	// закрытый турнир отклоняем даже для повторной записи того же победителя
	if tournament.IsClosed() {
		return nil, false, fmt.Errorf("%w: tournament %d", ErrTournamentClosed, tournament.ID)
	}

	if !f.HasSlot(winnerID) {
		return nil, false, fmt.Errorf("%w: registration %d is not in fixture %d", ErrInvalidWinner, winnerID, fixtureID)
	}

	if f.WinnerID != nil {
		if *f.WinnerID == winnerID {
			return f, false, nil
		}
		return nil, false, fmt.Errorf("%w: fixture %d already won by registration %d", ErrWinnerAlreadyRecorded, fixtureID, *f.WinnerID)
	}

	if err := s.fixtureRepo.SetWinner(ctx, exec, fixtureID, winnerID); err != nil {
		if errors.Is(err, repositories.ErrFixtureWinnerChanged) {
			return nil, false, fmt.Errorf("%w: fixture %d", ErrWinnerAlreadyRecorded, fixtureID)
		}
		return nil, false, fmt.Errorf("failed to record winner for fixture %d: %w", fixtureID, err)
	}

	f.WinnerID = &winnerID
	f.Status = models.FixtureCompleted
	return f, true, nil
}
