package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
)

// RegistrationLedger tracks which registrations of a tournament are still
// in contention. Every method runs on the caller's executor so the bracket
// engine can combine them in one transaction.
type RegistrationLedger interface {
	Get(ctx context.Context, exec repositories.SQLExecutor, registrationID int) (*models.Registration, error)
	ListActive(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Registration, error)
	Eliminate(ctx context.Context, exec repositories.SQLExecutor, registrationID int) error
	PromoteToWinner(ctx context.Context, exec repositories.SQLExecutor, registrationID int) (*models.Registration, error)
}

type registrationLedger struct {
	regRepo repositories.RegistrationRepository
}

func NewRegistrationLedger(regRepo repositories.RegistrationRepository) RegistrationLedger {
	return &registrationLedger{regRepo: regRepo}
}

func (l *registrationLedger) Get(ctx context.Context, exec repositories.SQLExecutor, registrationID int) (*models.Registration, error) {
	reg, err := l.regRepo.GetByID(ctx, exec, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRegistrationNotFound, registrationID)
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", registrationID, err)
	}
	return reg, nil
}

func (l *registrationLedger) ListActive(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Registration, error) {
	status := models.RegistrationActive
	regs, err := l.regRepo.ListByTournament(ctx, exec, tournamentID, &status)
	if err != nil {
		return nil, fmt.Errorf("failed to list active registrations for tournament %d: %w", tournamentID, err)
	}
	return regs, nil
}

func (l *registrationLedger) Eliminate(ctx context.Context, exec repositories.SQLExecutor, registrationID int) error {
	reg, err := l.Get(ctx, exec, registrationID)
	if err != nil {
		return err
	}

	switch reg.Status {
	case models.RegistrationEliminated:
		return nil
	case models.RegistrationWinner:
		return fmt.Errorf("%w: registration %d is the tournament winner and cannot be eliminated", ErrInvariantViolation, registrationID)
	}

	err = l.regRepo.UpdateStatus(ctx, exec, registrationID, models.RegistrationActive, models.RegistrationEliminated)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationStatusMismatch) {
			return fmt.Errorf("%w: registration %d changed while being eliminated", ErrConflict, registrationID)
		}
		return fmt.Errorf("failed to eliminate registration %d: %w", registrationID, err)
	}
	return nil
}

func (l *registrationLedger) PromoteToWinner(ctx context.Context, exec repositories.SQLExecutor, registrationID int) (*models.Registration, error) {
	reg, err := l.Get(ctx, exec, registrationID)
	if err != nil {
		return nil, err
	}

	switch reg.Status {
	case models.RegistrationWinner:
		return reg, nil
	case models.RegistrationEliminated:
		return nil, fmt.Errorf("%w: eliminated registration %d cannot win", ErrInvariantViolation, registrationID)
	}

	winnerStatus := models.RegistrationWinner
	winners, err := l.regRepo.ListByTournament(ctx, exec, reg.TournamentID, &winnerStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing winners for tournament %d: %w", reg.TournamentID, err)
	}
	if len(winners) > 0 {
		return nil, fmt.Errorf("%w: tournament %d already has winner registration %d",
			ErrInvariantViolation, reg.TournamentID, winners[0].ID)
	}

	err = l.regRepo.UpdateStatus(ctx, exec, registrationID, models.RegistrationActive, models.RegistrationWinner)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRegistrationWinnerExists):
			return nil, fmt.Errorf("%w: tournament %d already has a winner", ErrInvariantViolation, reg.TournamentID)
		case errors.Is(err, repositories.ErrRegistrationStatusMismatch):
			return nil, fmt.Errorf("%w: registration %d changed while being promoted", ErrConflict, registrationID)
		}
		return nil, fmt.Errorf("failed to promote registration %d: %w", registrationID, err)
	}

	reg.Status = models.RegistrationWinner
	return reg, nil
}
