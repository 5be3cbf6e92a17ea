package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/infinity-hospitality/event-system/brackets"
	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
)

// PrizeMultiplier is applied to the champion's registration price.
const PrizeMultiplier = 1.6

type RecordWinnerResult struct {
	Fixture  *models.Fixture            `json:"fixture"`
	Champion *TournamentChampionDecided `json:"champion,omitempty"`
}

type CreateFixtureInput struct {
	Round          string     `json:"round"`
	Participant1ID *int       `json:"participant1_id"`
	Participant2ID *int       `json:"participant2_id"`
	MatchDate      *time.Time `json:"match_date"`
}

type SeedRoundInput struct {
	Round     string     `json:"round"`
	MatchDate *time.Time `json:"match_date"`
}

// BracketService drives a tournament from its fixtures to a champion.
// All writes for one tournament are serialized.
type BracketService interface {
	RecordFixtureWinner(ctx context.Context, fixtureID, winnerID int) (*RecordWinnerResult, error)
	CreateFixture(ctx context.Context, tournamentID int, input CreateFixtureInput) (*models.Fixture, error)
	ListFixtures(ctx context.Context, tournamentID int) ([]models.Fixture, error)
	SeedRound(ctx context.Context, tournamentID int, input SeedRoundInput) ([]models.Fixture, error)
	OverrideCompletion(ctx context.Context, tournamentID, championID int) (*TournamentChampionDecided, error)
}

type bracketService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	fixtures       FixtureStore
	ledger         RegistrationLedger
	generator      brackets.RoundGenerator
	notifier       NotificationDispatcher
	locks          *keyedMutex
	logger         *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	fixtures FixtureStore,
	ledger RegistrationLedger,
	generator brackets.RoundGenerator,
	notifier NotificationDispatcher,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		fixtures:       fixtures,
		ledger:         ledger,
		generator:      generator,
		notifier:       notifier,
		locks:          newKeyedMutex(),
		logger:         logger,
	}
}

func (s *bracketService) RecordFixtureWinner(ctx context.Context, fixtureID, winnerID int) (*RecordWinnerResult, error) {
	// турнир фикстуры не меняется, поэтому его можно узнать до блокировки
	target, err := s.fixtures.GetByID(ctx, nil, fixtureID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(target.TournamentID)
	defer unlock()

	var (
		result     = &RecordWinnerResult{}
		changed    bool
		eliminated *int
	)
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.lockTournament(ctx, exec, target.TournamentID)
		if err != nil {
			return err
		}

		fixture, recorded, err := s.fixtures.RecordWinner(ctx, exec, fixtureID, winnerID)
		if err != nil {
			return err
		}
		result.Fixture = fixture
		changed = recorded
		if !changed {
			return nil
		}

		if loser := fixture.LoserID(); loser != nil {
			ok, err := s.eliminateIfActive(ctx, exec, *loser)
			if err != nil {
				return err
			}
			if ok {
				eliminated = loser
			}
		}

		champion, err := s.crownIfDecided(ctx, exec, tournament)
		if err != nil {
			return err
		}
		result.Champion = champion
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifier.Publish(FixtureResolved{
			TournamentID:             target.TournamentID,
			Fixture:                  *result.Fixture,
			EliminatedRegistrationID: eliminated,
		})
	}
	if result.Champion != nil {
		s.logger.InfoContext(ctx, "tournament completed",
			slog.Int("tournament_id", result.Champion.TournamentID),
			slog.Int("champion_registration_id", result.Champion.ChampionRegistrationID))
		s.notifier.Publish(*result.Champion)
	}
	return result, nil
}

// eliminateIfActive knocks out a fixture loser that is still in contention.
// A withdrawn or inactive loser is left alone.
func (s *bracketService) eliminateIfActive(ctx context.Context, exec repositories.SQLExecutor, registrationID int) (bool, error) {
	reg, err := s.ledger.Get(ctx, exec, registrationID)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return false, nil
		}
		return false, err
	}
	if reg.Status != models.RegistrationActive {
		return false, nil
	}
	if err := s.ledger.Eliminate(ctx, exec, registrationID); err != nil {
		return false, err
	}
	return true, nil
}

// crownIfDecided completes the tournament when exactly one active
// registration remains.
func (s *bracketService) crownIfDecided(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) (*TournamentChampionDecided, error) {
	active, err := s.ledger.ListActive(ctx, exec, tournament.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case len(active) == 0:
		return nil, fmt.Errorf("%w: no active registrations left in tournament %d", ErrInvariantViolation, tournament.ID)
	case len(active) > 1, tournament.IsClosed():
		return nil, nil
	}

	return s.crown(ctx, exec, tournament, active[0].ID)
}

func (s *bracketService) crown(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, registrationID int) (*TournamentChampionDecided, error) {
	if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.TournamentCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete tournament %d: %w", tournament.ID, err)
	}
	champion, err := s.ledger.PromoteToWinner(ctx, exec, registrationID)
	if err != nil {
		return nil, err
	}
	tournament.Status = models.TournamentCompleted

	return &TournamentChampionDecided{
		TournamentID:           tournament.ID,
		TournamentName:         tournament.Name,
		ChampionRegistrationID: champion.ID,
		ChampionUserID:         champion.UserID,
		ChampionName:           champion.DisplayName(),
		PrizeAmount:            round2(champion.Price * PrizeMultiplier),
	}, nil
}

func (s *bracketService) lockTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
		}
		return nil, fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
	}
	return tournament, nil
}

// startIfOpen moves a tournament into play once its first fixture exists.
func (s *bracketService) startIfOpen(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) error {
	if tournament.Status != models.TournamentRegistrationOpen {
		return nil
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.TournamentInProgress); err != nil {
		return fmt.Errorf("failed to start tournament %d: %w", tournament.ID, err)
	}
	tournament.Status = models.TournamentInProgress
	return nil
}

func (s *bracketService) CreateFixture(ctx context.Context, tournamentID int, input CreateFixtureInput) (*models.Fixture, error) {
	if input.Participant1ID == nil && input.Participant2ID == nil {
		return nil, fmt.Errorf("%w: at least one participant is required", ErrValidationFailed)
	}

	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	fixture := &models.Fixture{
		TournamentID:   tournamentID,
		Round:          input.Round,
		Participant1ID: input.Participant1ID,
		Participant2ID: input.Participant2ID,
		MatchDate:      input.MatchDate,
	}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.lockTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if tournament.IsClosed() {
			return fmt.Errorf("%w: tournament %d", ErrTournamentClosed, tournamentID)
		}
		if err := s.fixtures.Create(ctx, exec, fixture); err != nil {
			return err
		}
		return s.startIfOpen(ctx, exec, tournament)
	})
	if err != nil {
		return nil, err
	}
	return fixture, nil
}

func (s *bracketService) ListFixtures(ctx context.Context, tournamentID int) ([]models.Fixture, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
		}
		return nil, err
	}
	return s.fixtures.ListByTournament(ctx, nil, tournamentID)
}

func (s *bracketService) SeedRound(ctx context.Context, tournamentID int, input SeedRoundInput) ([]models.Fixture, error) {
	if input.Round == "" {
		return nil, fmt.Errorf("%w: round is required", ErrValidationFailed)
	}

	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	var created []models.Fixture
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.lockTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if tournament.IsClosed() {
			return fmt.Errorf("%w: tournament %d", ErrTournamentClosed, tournamentID)
		}

		existing, err := s.fixtures.ListByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		for _, f := range existing {
			if f.Round == input.Round {
				return fmt.Errorf("%w: round %q of tournament %d", ErrRoundAlreadySeeded, input.Round, tournamentID)
			}
		}

		active, err := s.ledger.ListActive(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		ids := make([]int, len(active))
		for i, reg := range active {
			ids[i] = reg.ID
		}

		pairings, err := s.generator.GenerateRound(ctx, brackets.GenerateRoundParams{Round: input.Round, ParticipantIDs: ids})
		if err != nil {
			if errors.Is(err, brackets.ErrNotEnoughParticipants) {
				return fmt.Errorf("%w: %v", ErrValidationFailed, err)
			}
			return fmt.Errorf("failed to generate round: %w", err)
		}

		created = make([]models.Fixture, 0, len(pairings))
		for _, p := range pairings {
			p1 := p.Participant1ID
			fixture := models.Fixture{
				TournamentID:   tournamentID,
				Round:          p.Round,
				Participant1ID: &p1,
				Participant2ID: p.Participant2ID,
				MatchDate:      input.MatchDate,
			}
			if err := s.fixtures.Create(ctx, exec, &fixture); err != nil {
				return err
			}
			created = append(created, fixture)
		}

		s.logger.InfoContext(ctx, "round seeded",
			slog.Int("tournament_id", tournamentID),
			slog.String("round", input.Round),
			slog.Int("fixtures", len(created)),
			slog.Int("rounds_left", brackets.RoundsToDecide(len(ids))))
		return s.startIfOpen(ctx, exec, tournament)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *bracketService) OverrideCompletion(ctx context.Context, tournamentID, championID int) (*TournamentChampionDecided, error) {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	var champion *TournamentChampionDecided
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.lockTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if tournament.IsClosed() {
			return fmt.Errorf("%w: tournament %d", ErrTournamentClosed, tournamentID)
		}

		reg, err := s.ledger.Get(ctx, exec, championID)
		if err != nil {
			return err
		}
		if reg.TournamentID != tournamentID {
			return fmt.Errorf("%w: id %d in tournament %d", ErrRegistrationNotFound, championID, tournamentID)
		}
		if reg.Status != models.RegistrationActive {
			return fmt.Errorf("%w: registration %d is %s, not active", ErrInvariantViolation, championID, reg.Status)
		}

		active, err := s.ledger.ListActive(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		for _, other := range active {
			if other.ID == championID {
				continue
			}
			if err := s.ledger.Eliminate(ctx, exec, other.ID); err != nil {
				return err
			}
		}

		champion, err = s.crown(ctx, exec, tournament, championID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tournament completed by override",
		slog.Int("tournament_id", tournamentID),
		slog.Int("champion_registration_id", championID))
	s.notifier.Publish(*champion)
	return champion, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
