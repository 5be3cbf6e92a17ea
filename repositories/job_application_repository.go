package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/lib/pq"
)

var ErrJobApplicationNotFound = errors.New("job application not found")

type ListJobApplicationsFilter struct {
	Position *string
	Deleted  bool
}

type JobApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id int) (*models.JobApplication, error)
	List(ctx context.Context, filter ListJobApplicationsFilter) ([]models.JobApplication, error)
	ListByPositions(ctx context.Context, positions []string) ([]models.JobApplication, error)
	UpdateStatus(ctx context.Context, id int, status models.JobApplicationStatus) error
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
}

type postgresJobApplicationRepository struct {
	db *sql.DB
}

func NewPostgresJobApplicationRepository(db *sql.DB) JobApplicationRepository {
	return &postgresJobApplicationRepository{db: db}
}

const jobApplicationColumns = `id, full_name, email, phone, portfolio, message, position, status, is_deleted, applied_at`

func scanJobApplication(row interface{ Scan(...interface{}) error }, a *models.JobApplication) error {
	return row.Scan(
		&a.ID, &a.FullName, &a.Email, &a.Phone, &a.Portfolio, &a.Message,
		&a.Position, &a.Status, &a.IsDeleted, &a.AppliedAt,
	)
}

func (r *postgresJobApplicationRepository) Create(ctx context.Context, a *models.JobApplication) error {
	query := `
		INSERT INTO job_applications (full_name, email, phone, portfolio, message, position, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, applied_at`

	return r.db.QueryRowContext(ctx, query,
		a.FullName, a.Email, a.Phone, a.Portfolio, a.Message, a.Position, a.Status,
	).Scan(&a.ID, &a.AppliedAt)
}

func (r *postgresJobApplicationRepository) GetByID(ctx context.Context, id int) (*models.JobApplication, error) {
	query := `SELECT ` + jobApplicationColumns + ` FROM job_applications WHERE id = $1 AND is_deleted = FALSE`

	a := &models.JobApplication{}
	if err := scanJobApplication(r.db.QueryRowContext(ctx, query, id), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobApplicationNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresJobApplicationRepository) List(ctx context.Context, filter ListJobApplicationsFilter) ([]models.JobApplication, error) {
	query := `SELECT ` + jobApplicationColumns + ` FROM job_applications WHERE is_deleted = $1`
	args := []interface{}{filter.Deleted}
	if filter.Position != nil {
		query += ` AND position = $2`
		args = append(args, *filter.Position)
	}
	query += ` ORDER BY applied_at DESC`
	return r.query(ctx, query, args...)
}

// ListByPositions returns live applications for any of the given positions.
func (r *postgresJobApplicationRepository) ListByPositions(ctx context.Context, positions []string) ([]models.JobApplication, error) {
	query := `SELECT ` + jobApplicationColumns + ` FROM job_applications
		WHERE is_deleted = FALSE AND position = ANY($1) ORDER BY applied_at`
	return r.query(ctx, query, pq.Array(positions))
}

func (r *postgresJobApplicationRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.JobApplication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query job applications: %w", err)
	}
	defer rows.Close()

	apps := make([]models.JobApplication, 0)
	for rows.Next() {
		var a models.JobApplication
		if scanErr := scanJobApplication(rows, &a); scanErr != nil {
			return nil, fmt.Errorf("failed to scan job application: %w", scanErr)
		}
		apps = append(apps, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *postgresJobApplicationRepository) UpdateStatus(ctx context.Context, id int, status models.JobApplicationStatus) error {
	query := `UPDATE job_applications SET status = $1 WHERE id = $2 AND is_deleted = FALSE`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update job application status: %w", err)
	}
	return checkAffectedRows(result, ErrJobApplicationNotFound)
}

func (r *postgresJobApplicationRepository) Restore(ctx context.Context, id int) error {
	query := `UPDATE job_applications SET is_deleted = FALSE WHERE id = $1 AND is_deleted = TRUE`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to restore job application: %w", err)
	}
	return checkAffectedRows(result, ErrJobApplicationNotFound)
}

func (r *postgresJobApplicationRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE job_applications SET is_deleted = TRUE WHERE id = $1 AND is_deleted = FALSE`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete job application: %w", err)
	}
	return checkAffectedRows(result, ErrJobApplicationNotFound)
}
