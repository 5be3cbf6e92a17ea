package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
)

const (
	// CancellationWindow is how long after booking a user may still cancel.
	CancellationWindow = 24 * time.Hour
	// PendingExpiry is how long a booking may wait for review before it is rejected.
	PendingExpiry = 48 * time.Hour
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID int, input BookingInput) (*models.Booking, error)
	ListBookings(ctx context.Context, viewer Viewer, recycleBin bool) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID int, status models.BookingStatus) (*models.Booking, error)
	CancelBooking(ctx context.Context, viewer Viewer, bookingID int) (*models.Booking, error)
	RejectStalePending(ctx context.Context) (int, error)
}

type BookingInput struct {
	EventType       string    `json:"event_type"`
	EventDate       time.Time `json:"event_date"`
	Guests          int       `json:"guests"`
	Budget          float64   `json:"budget"`
	Address         *string   `json:"address"`
	CateringPackage *string   `json:"catering_package"`
	DecorationName  *string   `json:"decoration_name"`
	PerformerName   *string   `json:"performer_name"`
	TotalCost       float64   `json:"total_cost"`
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
	notifier    NotificationDispatcher
	logger      *slog.Logger
	now         func() time.Time
}

func NewBookingService(bookingRepo repositories.BookingRepository, notifier NotificationDispatcher, logger *slog.Logger) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID int, input BookingInput) (*models.Booking, error) {
	input.EventType = strings.TrimSpace(input.EventType)
	if input.EventType == "" {
		return nil, fmt.Errorf("%w: event type is required", ErrValidationFailed)
	}
	if input.Guests <= 0 {
		return nil, fmt.Errorf("%w: guests must be positive", ErrValidationFailed)
	}
	if input.Budget < 0 || input.TotalCost < 0 {
		return nil, fmt.Errorf("%w: budget and total cost cannot be negative", ErrValidationFailed)
	}
	today := s.now().Truncate(24 * time.Hour)
	if input.EventDate.Before(today) {
		return nil, fmt.Errorf("%w: event date is in the past", ErrValidationFailed)
	}

	booking := &models.Booking{
		UserID:          userID,
		EventType:       input.EventType,
		EventDate:       input.EventDate,
		Guests:          input.Guests,
		Budget:          round2(input.Budget),
		Address:         trimmedOrNil(input.Address),
		CateringPackage: trimmedOrNil(input.CateringPackage),
		DecorationName:  trimmedOrNil(input.DecorationName),
		PerformerName:   trimmedOrNil(input.PerformerName),
		TotalCost:       round2(input.TotalCost),
		Status:          models.BookingPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, viewer Viewer, recycleBin bool) ([]models.Booking, error) {
	filter := repositories.ListBookingsFilter{RecycleBin: recycleBin}
	if !viewer.IsAdmin() {
		if recycleBin {
			return nil, fmt.Errorf("%w: only admins can open the recycle bin", ErrForbiddenOperation)
		}
		userID := viewer.UserID
		filter.UserID = &userID
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus is the admin review of a booking. Staff are told about an
// event only the first time its booking becomes Approved.
func (s *bookingService) UpdateStatus(ctx context.Context, bookingID int, status models.BookingStatus) (*models.Booking, error) {
	if status != models.BookingApproved && status != models.BookingRejected {
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrValidationFailed, models.BookingApproved, models.BookingRejected)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == status {
		return booking, nil
	}
	if booking.Status == models.BookingCancelled {
		return nil, fmt.Errorf("%w: booking %d is cancelled", ErrInvalidStatusTransition, bookingID)
	}

	previous := booking.Status
	notifyStaff := status == models.BookingApproved && !booking.StaffNotified

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, previous, status, notifyStaff); err != nil {
		return nil, s.mapUpdateError(bookingID, err)
	}
	booking.Status = status
	booking.StaffNotified = booking.StaffNotified || notifyStaff

	s.notifier.Publish(BookingStatusChanged{Booking: *booking, Previous: previous})
	if notifyStaff {
		s.notifier.Publish(StaffOpportunity{Booking: *booking, Positions: booking.RequiredStaffPositions()})
	}
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, viewer Viewer, bookingID int) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != viewer.UserID {
		return nil, ErrForbiddenOperation
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingApproved {
		return nil, fmt.Errorf("%w: booking %d is %s", ErrInvalidStatusTransition, bookingID, booking.Status)
	}
	if s.now().Sub(booking.BookingDate) > CancellationWindow {
		return nil, ErrCancellationWindowExpired
	}

	previous := booking.Status
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, previous, models.BookingCancelled, false); err != nil {
		return nil, s.mapUpdateError(bookingID, err)
	}
	booking.Status = models.BookingCancelled

	s.notifier.Publish(BookingStatusChanged{Booking: *booking, Previous: previous})
	return booking, nil
}

// RejectStalePending rejects bookings nobody reviewed in time and tells their owners.
func (s *bookingService) RejectStalePending(ctx context.Context) (int, error) {
	rejected, err := s.bookingRepo.RejectStalePending(ctx, s.now().Add(-PendingExpiry))
	if err != nil {
		return 0, err
	}
	for _, b := range rejected {
		s.notifier.Publish(BookingStatusChanged{Booking: b, Previous: models.BookingPending})
	}
	if len(rejected) > 0 {
		s.logger.InfoContext(ctx, "stale bookings rejected", slog.Int("count", len(rejected)))
	}
	return len(rejected), nil
}

func (s *bookingService) getBooking(ctx context.Context, id int) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("failed to get booking %d: %w", id, err)
	}
	return booking, nil
}

func (s *bookingService) mapUpdateError(id int, err error) error {
	if errors.Is(err, repositories.ErrBookingStatusChanged) {
		return fmt.Errorf("%w: booking %d was modified concurrently", ErrConflict, id)
	}
	return fmt.Errorf("failed to update booking %d: %w", id, err)
}
