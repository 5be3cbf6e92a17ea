package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
	"github.com/infinity-hospitality/event-system/storage"
	"golang.org/x/sync/errgroup"
)

type TournamentService interface {
	CreateTournament(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, viewer Viewer, filter ListTournamentsInput) ([]models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error
	UploadTournamentImage(ctx context.Context, id int, file io.Reader, contentType string) (*models.Tournament, error)
}

type TournamentInput struct {
	Name                 string                    `json:"name"`
	Sport                string                    `json:"sport"`
	Category             models.TournamentCategory `json:"category"`
	Date                 time.Time                 `json:"date"`
	RegistrationDeadline *time.Time                `json:"registration_deadline"`
}

type ListTournamentsInput struct {
	Status  *models.TournamentStatus
	Sport   *string
	Deleted bool
	Limit   int
	Offset  int
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	regRepo        repositories.RegistrationRepository
	fixtureRepo    repositories.FixtureRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	regRepo repositories.RegistrationRepository,
	fixtureRepo repositories.FixtureRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		regRepo:        regRepo,
		fixtureRepo:    fixtureRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (in *TournamentInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Sport = strings.TrimSpace(in.Sport)
	if in.Name == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if in.Sport == "" {
		return fmt.Errorf("%w: sport is required", ErrValidationFailed)
	}
	if in.Category == "" {
		in.Category = models.CategoryTeam
	}
	if in.Category != models.CategoryTeam && in.Category != models.CategorySolo {
		return fmt.Errorf("%w: category must be %q or %q", ErrValidationFailed, models.CategoryTeam, models.CategorySolo)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: tournament date is required", ErrValidationFailed)
	}
	if in.RegistrationDeadline != nil && in.RegistrationDeadline.After(in.Date) {
		return fmt.Errorf("%w: registration deadline cannot be after the tournament date", ErrValidationFailed)
	}
	return nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:                 input.Name,
		Sport:                input.Sport,
		Category:             input.Category,
		Date:                 input.Date,
		RegistrationDeadline: input.RegistrationDeadline,
		Status:               models.TournamentRegistrationOpen,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentInvalidState) {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

// GetTournamentByID loads the tournament together with its registrations and fixtures.
func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		regs, err := s.regRepo.ListByTournament(gctx, nil, id, nil)
		if err != nil {
			return fmt.Errorf("failed to load registrations: %w", err)
		}
		tournament.Registrations = regs
		return nil
	})
	g.Go(func() error {
		fixtures, err := s.fixtureRepo.ListByTournament(gctx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		tournament.Fixtures = fixtures
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	populateTournamentImageURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, viewer Viewer, filter ListTournamentsInput) ([]models.Tournament, error) {
	if filter.Deleted && !viewer.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can list deleted tournaments", ErrForbiddenOperation)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		Status:  filter.Status,
		Sport:   filter.Sport,
		Deleted: filter.Deleted,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		populateTournamentImageURL(&tournaments[i], s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tournament, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentRegistrationOpen {
		return nil, fmt.Errorf("%w: tournament %d is %s", ErrTournamentNotEditable, id, tournament.Status)
	}

	tournament.Name = input.Name
	tournament.Sport = input.Sport
	tournament.Category = input.Category
	tournament.Date = input.Date
	tournament.RegistrationDeadline = input.RegistrationDeadline

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}
	populateTournamentImageURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	if err := s.tournamentRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return nil
}

func (s *tournamentService) UploadTournamentImage(ctx context.Context, id int, file io.Reader, contentType string) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}
	tournament, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := storage.ObjectKey("tournaments", id, ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload tournament image: %w", err)
	}

	oldKey := tournament.ImageKey
	if err := s.tournamentRepo.UpdateImageKey(ctx, id, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to clean up uploaded image",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save tournament image key: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous tournament image",
				slog.Int("tournament_id", id), slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	tournament.ImageKey = &key
	populateTournamentImageURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}
