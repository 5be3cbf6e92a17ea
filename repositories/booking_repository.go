package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/infinity-hospitality/event-system/models"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingStatusChanged = errors.New("booking status changed concurrently")
)

type ListBookingsFilter struct {
	UserID *int
	// RecycleBin selects deleted or cancelled bookings instead of live ones.
	RecycleBin bool
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int) (*models.Booking, error)
	List(ctx context.Context, filter ListBookingsFilter) ([]models.Booking, error)
	// UpdateStatus applies the change only if the booking still has the
	// expected status, returning ErrBookingStatusChanged otherwise.
	UpdateStatus(ctx context.Context, id int, expected, status models.BookingStatus, staffNotified bool) error
	RejectStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
	// Restore takes a booking out of the recycle bin. A cancelled booking
	// goes back to Pending.
	Restore(ctx context.Context, id int) error
}

type postgresBookingRepository struct {
	db *sql.DB
}

func NewPostgresBookingRepository(db *sql.DB) BookingRepository {
	return &postgresBookingRepository{db: db}
}

const bookingColumns = `id, user_id, event_type, event_date, guests, budget, address, catering_package,
	decoration_name, performer_name, total_cost, status, staff_notified, is_deleted, booking_date`

func scanBooking(row interface{ Scan(...interface{}) error }, b *models.Booking) error {
	return row.Scan(
		&b.ID, &b.UserID, &b.EventType, &b.EventDate, &b.Guests, &b.Budget, &b.Address, &b.CateringPackage,
		&b.DecorationName, &b.PerformerName, &b.TotalCost, &b.Status, &b.StaffNotified, &b.IsDeleted, &b.BookingDate,
	)
}

func (r *postgresBookingRepository) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (
			user_id, event_type, event_date, guests, budget, address,
			catering_package, decoration_name, performer_name, total_cost, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, booking_date`

	return r.db.QueryRowContext(ctx, query,
		b.UserID, b.EventType, b.EventDate, b.Guests, b.Budget, b.Address,
		b.CateringPackage, b.DecorationName, b.PerformerName, b.TotalCost, b.Status,
	).Scan(&b.ID, &b.BookingDate)
}

func (r *postgresBookingRepository) GetByID(ctx context.Context, id int) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND is_deleted = FALSE`

	b := &models.Booking{}
	if err := scanBooking(r.db.QueryRowContext(ctx, query, id), b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresBookingRepository) List(ctx context.Context, filter ListBookingsFilter) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE `
	args := []interface{}{models.BookingCancelled}
	if filter.RecycleBin {
		query += `(is_deleted = TRUE OR status = $1)`
	} else {
		query += `is_deleted = FALSE AND status <> $1`
	}
	if filter.UserID != nil {
		query += ` AND user_id = $2`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY booking_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return collectBookings(rows)
}

func (r *postgresBookingRepository) UpdateStatus(ctx context.Context, id int, expected, status models.BookingStatus, staffNotified bool) error {
	query := `
		UPDATE bookings SET status = $1, staff_notified = staff_notified OR $2
		WHERE id = $3 AND status = $4 AND is_deleted = FALSE`
	result, err := r.db.ExecContext(ctx, query, status, staffNotified, id, expected)
	if err != nil {
		return fmt.Errorf("failed to update booking %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrBookingStatusChanged)
}

func (r *postgresBookingRepository) RejectStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	query := `
		UPDATE bookings SET status = $1
		WHERE status = $2 AND is_deleted = FALSE AND booking_date < $3
		RETURNING ` + bookingColumns

	rows, err := r.db.QueryContext(ctx, query, models.BookingRejected, models.BookingPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to reject stale bookings: %w", err)
	}
	return collectBookings(rows)
}

func (r *postgresBookingRepository) Restore(ctx context.Context, id int) error {
	query := `
		UPDATE bookings
		SET is_deleted = FALSE,
		    status = CASE WHEN status = $1 THEN $2 ELSE status END
		WHERE id = $3 AND (is_deleted = TRUE OR status = $1)`
	result, err := r.db.ExecContext(ctx, query, models.BookingCancelled, models.BookingPending, id)
	if err != nil {
		return fmt.Errorf("failed to restore booking %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrBookingNotFound)
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var b models.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
