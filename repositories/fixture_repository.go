package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/infinity-hospitality/event-system/models"
)

var (
	ErrFixtureNotFound      = errors.New("fixture not found")
	ErrFixtureSameSlots     = errors.New("fixture slots reference the same registration")
	ErrFixtureInvalidRef    = errors.New("invalid tournament or registration reference")
	ErrFixtureWinnerChanged = errors.New("fixture winner changed concurrently")
)

type FixtureRepository interface {
	Create(ctx context.Context, exec SQLExecutor, fixture *models.Fixture) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Fixture, error)
	// SetWinner records the winner of a fixture that has none yet.
	SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerID int) error
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

const fixtureColumns = `id, tournament_id, round, participant1_id, participant2_id, winner_id, match_date, status, created_at`

func scanFixture(row interface{ Scan(...interface{}) error }, f *models.Fixture) error {
	return row.Scan(
		&f.ID, &f.TournamentID, &f.Round, &f.Participant1ID, &f.Participant2ID,
		&f.WinnerID, &f.MatchDate, &f.Status, &f.CreatedAt,
	)
}

func (r *postgresFixtureRepository) Create(ctx context.Context, exec SQLExecutor, f *models.Fixture) error {
	query := `
		INSERT INTO fixtures (tournament_id, round, participant1_id, participant2_id, match_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executorOr(exec, r.db).QueryRowContext(ctx, query,
		f.TournamentID, f.Round, f.Participant1ID, f.Participant2ID, f.MatchDate, f.Status,
	).Scan(&f.ID, &f.CreatedAt)

	return r.handleFixtureError(err)
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE id = $1`

	f := &models.Fixture{}
	if err := scanFixture(executorOr(exec, r.db).QueryRowContext(ctx, query, id), f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *postgresFixtureRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE tournament_id = $1 ORDER BY id`

	rows, err := executorOr(exec, r.db).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	fixtures := make([]models.Fixture, 0)
	for rows.Next() {
		var f models.Fixture
		if scanErr := scanFixture(rows, &f); scanErr != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", scanErr)
		}
		fixtures = append(fixtures, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return fixtures, nil
}

func (r *postgresFixtureRepository) SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerID int) error {
	query := `UPDATE fixtures SET winner_id = $1, status = $2 WHERE id = $3 AND winner_id IS NULL`
	result, err := executorOr(exec, r.db).ExecContext(ctx, query, winnerID, models.FixtureCompleted, id)
	if err != nil {
		return r.handleFixtureError(err)
	}
	return checkAffectedRows(result, ErrFixtureWinnerChanged)
}

func (r *postgresFixtureRepository) handleFixtureError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint, ok := asPQError(err)
	if !ok {
		return err
	}
	switch code {
	case pqCheckViolation:
		if constraint == "fixtures_distinct_slots" {
			return ErrFixtureSameSlots
		}
	case pqForeignKeyViolation:
		return ErrFixtureInvalidRef
	}
	return err
}
