package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingApproved  BookingStatus = "Approved"
	BookingRejected  BookingStatus = "Rejected"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking is a custom event (wedding, party, corporate event) requested by a user.
type Booking struct {
	ID              int           `json:"id"`
	UserID          int           `json:"user_id"`
	EventType       string        `json:"event_type"`
	EventDate       time.Time     `json:"event_date"`
	Guests          int           `json:"guests"`
	Budget          float64       `json:"budget"`
	Address         *string       `json:"address,omitempty"`
	CateringPackage *string       `json:"catering_package,omitempty"`
	DecorationName  *string       `json:"decoration_name,omitempty"`
	PerformerName   *string       `json:"performer_name,omitempty"`
	TotalCost       float64       `json:"total_cost"`
	Status          BookingStatus `json:"status"`
	StaffNotified   bool          `json:"-"`
	IsDeleted       bool          `json:"is_deleted"`
	BookingDate     time.Time     `json:"booking_date"`
}

// RequiredStaffPositions lists the job positions an event of this shape needs.
func (b *Booking) RequiredStaffPositions() []string {
	positions := make([]string, 0, 3)
	if b.CateringPackage != nil && *b.CateringPackage != "" {
		positions = append(positions, PositionCateringSupervisor)
	}
	if b.DecorationName != nil && *b.DecorationName != "" {
		positions = append(positions, PositionDecorStylist)
	}
	return append(positions, PositionEventCoordinator)
}
