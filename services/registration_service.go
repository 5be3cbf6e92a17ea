package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
)

// MaxRegistrationPrice caps the client-declared entry fee the prize is derived from.
const MaxRegistrationPrice = 10000.0

type RegistrationService interface {
	Register(ctx context.Context, userID, tournamentID int, input RegistrationInput) (*models.Registration, error)
	GetRegistration(ctx context.Context, viewer Viewer, id int) (*models.Registration, error)
	ListRegistrations(ctx context.Context, viewer Viewer, filter ListRegistrationsInput) ([]models.Registration, error)
	WithdrawRegistration(ctx context.Context, viewer Viewer, id int) error
}

type RegistrationInput struct {
	RegistrationType models.RegistrationType `json:"registration_type"`
	TeamName         *string                 `json:"team_name"`
	CaptainName      *string                 `json:"captain_name"`
	PlayerName       *string                 `json:"player_name"`
	Players          []string                `json:"players"`
	Substitutes      []string                `json:"substitutes"`
	Price            float64                 `json:"price"`
}

type ListRegistrationsInput struct {
	TournamentID *int
	Deleted      bool
}

type registrationService struct {
	tx             repositories.Transactor
	regRepo        repositories.RegistrationRepository
	tournamentRepo repositories.TournamentRepository
	now            func() time.Time
}

func NewRegistrationService(
	tx repositories.Transactor,
	regRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
) RegistrationService {
	return &registrationService{
		tx:             tx,
		regRepo:        regRepo,
		tournamentRepo: tournamentRepo,
		now:            time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, userID, tournamentID int, input RegistrationInput) (*models.Registration, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if !tournament.RegistrationOpenAt(s.now()) {
		return nil, ErrRegistrationNotOpen
	}

	reg, err := buildRegistration(input)
	if err != nil {
		return nil, err
	}
	reg.UserID = userID
	reg.TournamentID = tournamentID

	if err := s.regRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationInvalidRef) {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return reg, nil
}

func buildRegistration(input RegistrationInput) (*models.Registration, error) {
	reg := &models.Registration{
		RegistrationType: input.RegistrationType,
		TeamName:         trimmedOrNil(input.TeamName),
		CaptainName:      trimmedOrNil(input.CaptainName),
		PlayerName:       trimmedOrNil(input.PlayerName),
		Players:          cleanNames(input.Players),
		Substitutes:      cleanNames(input.Substitutes),
		Price:            round2(input.Price),
		Status:           models.RegistrationActive,
	}
	if reg.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidationFailed)
	}
	if reg.Price > MaxRegistrationPrice {
		return nil, fmt.Errorf("%w: price cannot exceed %.2f", ErrValidationFailed, MaxRegistrationPrice)
	}

	switch reg.RegistrationType {
	case models.RegistrationTypeTeam:
		if reg.TeamName == nil || reg.CaptainName == nil {
			return nil, fmt.Errorf("%w: team name and captain name are required", ErrValidationFailed)
		}
		if len(reg.Players) == 0 {
			return nil, fmt.Errorf("%w: a team needs at least one player", ErrValidationFailed)
		}
	case models.RegistrationTypeIndividual:
		if reg.PlayerName == nil {
			return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
		}
	default:
		return nil, fmt.Errorf("%w: registration type must be %q or %q",
			ErrValidationFailed, models.RegistrationTypeTeam, models.RegistrationTypeIndividual)
	}
	return reg, nil
}

func cleanNames(names []string) models.StringList {
	out := make(models.StringList, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (s *registrationService) GetRegistration(ctx context.Context, viewer Viewer, id int) (*models.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRegistrationNotFound, id)
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", id, err)
	}
	if reg.Status == models.RegistrationWinner || viewer.IsAdmin() || reg.UserID == viewer.UserID {
		return reg, nil
	}
	return nil, ErrForbiddenOperation
}

// ListRegistrations: анонимные пользователи видят только победителей,
// пользователи видят свои регистрации, админы видят все.
func (s *registrationService) ListRegistrations(ctx context.Context, viewer Viewer, filter ListRegistrationsInput) ([]models.Registration, error) {
	repoFilter := repositories.ListRegistrationsFilter{TournamentID: filter.TournamentID}

	switch {
	case viewer.IsAdmin():
		repoFilter.Deleted = filter.Deleted
	case filter.Deleted:
		return nil, fmt.Errorf("%w: only admins can list deleted registrations", ErrForbiddenOperation)
	case viewer.IsAnonymous():
		winner := models.RegistrationWinner
		repoFilter.Status = &winner
	default:
		userID := viewer.UserID
		repoFilter.UserID = &userID
	}

	regs, err := s.regRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}

func (s *registrationService) WithdrawRegistration(ctx context.Context, viewer Viewer, id int) error {
	reg, err := s.regRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return fmt.Errorf("%w: id %d", ErrRegistrationNotFound, id)
		}
		return fmt.Errorf("failed to get registration %d: %w", id, err)
	}
	if !viewer.IsAdmin() && reg.UserID != viewer.UserID {
		return ErrForbiddenOperation
	}

	// строка турнира блокируется, чтобы не разойтись с генерацией сетки
	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := lockOpenTournament(ctx, s.tournamentRepo, exec, reg.TournamentID); err != nil {
			return err
		}
		if err := s.regRepo.SoftDelete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return fmt.Errorf("%w: id %d", ErrRegistrationNotFound, id)
			}
			return fmt.Errorf("failed to withdraw registration %d: %w", id, err)
		}
		return nil
	})
}

// lockOpenTournament locks the tournament row and fails unless registration
// is still open. The roster can only change before the bracket is drawn.
func lockOpenTournament(ctx context.Context, repo repositories.TournamentRepository, exec repositories.SQLExecutor, tournamentID int) error {
	tournament, err := repo.GetForUpdate(ctx, exec, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
		}
		return fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
	}
	if tournament.Status != models.TournamentRegistrationOpen {
		return fmt.Errorf("%w: tournament %d is %s", ErrTournamentNotEditable, tournamentID, tournament.Status)
	}
	return nil
}
