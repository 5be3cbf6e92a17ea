package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/infinity-hospitality/event-system/models"
)

var (
	ErrRegistrationNotFound       = errors.New("registration not found")
	ErrRegistrationWinnerExists   = errors.New("tournament already has a winner registration")
	ErrRegistrationInvalidRef     = errors.New("invalid user or tournament reference")
	ErrRegistrationStatusMismatch = errors.New("registration status changed concurrently")
)

type ListRegistrationsFilter struct {
	UserID       *int
	TournamentID *int
	Status       *models.RegistrationStatus
	Deleted      bool
}

type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	// GetByID never returns soft-deleted registrations.
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, status *models.RegistrationStatus) ([]models.Registration, error)
	List(ctx context.Context, filter ListRegistrationsFilter) ([]models.Registration, error)
	// UpdateStatus moves a registration from one status to another and fails
	// with ErrRegistrationStatusMismatch if it is no longer in the from status.
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.RegistrationStatus) error
	SoftDelete(ctx context.Context, exec SQLExecutor, id int) error
	// GetAnyByID also returns soft-deleted registrations.
	GetAnyByID(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error)
	Restore(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationColumns = `id, user_id, tournament_id, registration_type, team_name, captain_name,
	player_name, players, substitutes, price, status, is_deleted, created_at`

func scanRegistration(row interface{ Scan(...interface{}) error }, reg *models.Registration) error {
	return row.Scan(
		&reg.ID, &reg.UserID, &reg.TournamentID, &reg.RegistrationType, &reg.TeamName, &reg.CaptainName,
		&reg.PlayerName, &reg.Players, &reg.Substitutes, &reg.Price, &reg.Status, &reg.IsDeleted, &reg.CreatedAt,
	)
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (
			user_id, tournament_id, registration_type, team_name, captain_name,
			player_name, players, substitutes, price, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.UserID, reg.TournamentID, reg.RegistrationType, reg.TeamName, reg.CaptainName,
		reg.PlayerName, reg.Players, reg.Substitutes, reg.Price, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)

	return r.handleRegistrationError(err)
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 AND is_deleted = FALSE`

	reg := &models.Registration{}
	if err := scanRegistration(executorOr(exec, r.db).QueryRowContext(ctx, query, id), reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, status *models.RegistrationStatus) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tournament_id = $1 AND is_deleted = FALSE`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at, id`

	return r.query(ctx, executorOr(exec, r.db), query, args...)
}

func (r *postgresRegistrationRepository) List(ctx context.Context, filter ListRegistrationsFilter) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE is_deleted = $1`
	args := []interface{}{filter.Deleted}
	argID := 2

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argID)
		args = append(args, *filter.UserID)
		argID++
	}
	if filter.TournamentID != nil {
		query += fmt.Sprintf(" AND tournament_id = $%d", argID)
		args = append(args, *filter.TournamentID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
	}
	query += " ORDER BY created_at DESC, id DESC"

	return r.query(ctx, r.db, query, args...)
}

func (r *postgresRegistrationRepository) query(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]models.Registration, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if scanErr := scanRegistration(rows, &reg); scanErr != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", scanErr)
		}
		registrations = append(registrations, reg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.RegistrationStatus) error {
	query := `UPDATE registrations SET status = $1 WHERE id = $2 AND status = $3 AND is_deleted = FALSE`
	result, err := executorOr(exec, r.db).ExecContext(ctx, query, to, id, from)
	if err != nil {
		return r.handleRegistrationError(err)
	}
	return checkAffectedRows(result, ErrRegistrationStatusMismatch)
}

func (r *postgresRegistrationRepository) SoftDelete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `UPDATE registrations SET is_deleted = TRUE WHERE id = $1 AND is_deleted = FALSE`
	result, err := executorOr(exec, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return r.handleRegistrationError(err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) GetAnyByID(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg := &models.Registration{}
	if err := scanRegistration(executorOr(exec, r.db).QueryRowContext(ctx, query, id), reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) Restore(ctx context.Context, exec SQLExecutor, id int) error {
	query := `UPDATE registrations SET is_deleted = FALSE WHERE id = $1 AND is_deleted = TRUE`
	result, err := executorOr(exec, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return r.handleRegistrationError(err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) handleRegistrationError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint, ok := asPQError(err)
	if !ok {
		return err
	}
	switch code {
	case pqUniqueViolation:
		if constraint == "registrations_one_winner_per_tournament" {
			return ErrRegistrationWinnerExists
		}
	case pqForeignKeyViolation:
		return ErrRegistrationInvalidRef
	}
	return err
}
