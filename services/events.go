package services

import "github.com/infinity-hospitality/event-system/models"

// Event is anything the notification dispatcher knows how to deliver.
type Event interface {
	EventName() string
}

// TournamentChampionDecided is emitted once per tournament, after the
// transaction that crowned the champion has committed.
type TournamentChampionDecided struct {
	TournamentID           int     `json:"tournament_id"`
	TournamentName         string  `json:"tournament_name"`
	ChampionRegistrationID int     `json:"champion_registration_id"`
	ChampionUserID         int     `json:"champion_user_id"`
	ChampionName           string  `json:"champion_name"`
	PrizeAmount            float64 `json:"prize_amount"`
}

func (TournamentChampionDecided) EventName() string { return "TOURNAMENT_COMPLETED" }

type FixtureResolved struct {
	TournamentID             int            `json:"tournament_id"`
	Fixture                  models.Fixture `json:"fixture"`
	EliminatedRegistrationID *int           `json:"eliminated_registration_id,omitempty"`
}

func (FixtureResolved) EventName() string { return "FIXTURE_RESOLVED" }

type BookingStatusChanged struct {
	Booking  models.Booking
	Previous models.BookingStatus
}

func (BookingStatusChanged) EventName() string { return "BOOKING_STATUS_CHANGED" }

// StaffOpportunity asks applicants for the listed positions to staff a booked event.
type StaffOpportunity struct {
	Booking   models.Booking
	Positions []string
}

func (StaffOpportunity) EventName() string { return "STAFF_OPPORTUNITY" }

type JobApplicationReceived struct {
	Application models.JobApplication
}

func (JobApplicationReceived) EventName() string { return "JOB_APPLICATION_RECEIVED" }

type InquiryReceived struct {
	Inquiry InquiryInput
}

func (InquiryReceived) EventName() string { return "INQUIRY_RECEIVED" }
