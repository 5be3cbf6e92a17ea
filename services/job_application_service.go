package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
	"github.com/infinity-hospitality/event-system/utils"
)

type JobApplicationService interface {
	Apply(ctx context.Context, input JobApplicationInput) (*models.JobApplication, error)
	ListApplications(ctx context.Context, position *string, deleted bool) ([]models.JobApplication, error)
	UpdateStatus(ctx context.Context, id int, status models.JobApplicationStatus) (*models.JobApplication, error)
	DeleteApplication(ctx context.Context, id int) error
}

type JobApplicationInput struct {
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Portfolio *string `json:"portfolio"`
	Message   *string `json:"message"`
	Position  string  `json:"position"`
}

type jobApplicationService struct {
	repo     repositories.JobApplicationRepository
	notifier NotificationDispatcher
}

func NewJobApplicationService(repo repositories.JobApplicationRepository, notifier NotificationDispatcher) JobApplicationService {
	return &jobApplicationService{repo: repo, notifier: notifier}
}

func (s *jobApplicationService) Apply(ctx context.Context, input JobApplicationInput) (*models.JobApplication, error) {
	app := &models.JobApplication{
		FullName:  strings.TrimSpace(input.FullName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Portfolio: trimmedOrNil(input.Portfolio),
		Message:   trimmedOrNil(input.Message),
		Position:  strings.TrimSpace(input.Position),
		Status:    models.ApplicationApplied,
	}
	switch {
	case app.FullName == "":
		return nil, fmt.Errorf("%w: full name is required", ErrValidationFailed)
	case !utils.IsValidEmail(app.Email):
		return nil, fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	case app.Phone == "" || len(app.Phone) > 20:
		return nil, fmt.Errorf("%w: phone is required (max 20 characters)", ErrValidationFailed)
	case app.Position == "":
		return nil, fmt.Errorf("%w: position is required", ErrValidationFailed)
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to save job application: %w", err)
	}
	s.notifier.Publish(JobApplicationReceived{Application: *app})
	return app, nil
}

func (s *jobApplicationService) ListApplications(ctx context.Context, position *string, deleted bool) ([]models.JobApplication, error) {
	apps, err := s.repo.List(ctx, repositories.ListJobApplicationsFilter{Position: position, Deleted: deleted})
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	return apps, nil
}

func (s *jobApplicationService) UpdateStatus(ctx context.Context, id int, status models.JobApplicationStatus) (*models.JobApplication, error) {
	switch status {
	case models.ApplicationApplied, models.ApplicationInterviewing, models.ApplicationHired:
	default:
		return nil, fmt.Errorf("%w: unknown application status %q", ErrValidationFailed, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, s.mapRepoError(id, err)
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err)
	}
	return app, nil
}

func (s *jobApplicationService) DeleteApplication(ctx context.Context, id int) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return s.mapRepoError(id, err)
	}
	return nil
}

func (s *jobApplicationService) mapRepoError(id int, err error) error {
	if errors.Is(err, repositories.ErrJobApplicationNotFound) {
		return fmt.Errorf("%w: id %d", ErrJobApplicationNotFound, id)
	}
	return fmt.Errorf("job application %d: %w", id, err)
}
