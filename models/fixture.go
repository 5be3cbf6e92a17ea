package models

import "time"

type FixtureStatus string

const (
	FixtureScheduled FixtureStatus = "scheduled"
	FixtureCompleted FixtureStatus = "completed"
)

// Fixture is a match between two registrations in a tournament round.
// A nil slot is unresolved or a bye.
type Fixture struct {
	ID             int           `json:"id" db:"id"`
	TournamentID   int           `json:"tournament_id" db:"tournament_id"`
	Round          string        `json:"round" db:"round"`
	Participant1ID *int          `json:"participant1_id" db:"participant1_id"`
	Participant2ID *int          `json:"participant2_id" db:"participant2_id"`
	WinnerID       *int          `json:"winner_id" db:"winner_id"`
	MatchDate      *time.Time    `json:"match_date,omitempty" db:"match_date"`
	Status         FixtureStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// HasSlot reports whether the registration occupies one of the two slots.
func (f *Fixture) HasSlot(registrationID int) bool {
	return (f.Participant1ID != nil && *f.Participant1ID == registrationID) ||
		(f.Participant2ID != nil && *f.Participant2ID == registrationID)
}

// LoserID returns the occupied slot that did not win, or nil for a bye or an
// undecided fixture.
func (f *Fixture) LoserID() *int {
	if f.WinnerID == nil {
		return nil
	}
	winner := *f.WinnerID
	if f.Participant1ID != nil && *f.Participant1ID != winner {
		id := *f.Participant1ID
		return &id
	}
	if f.Participant2ID != nil && *f.Participant2ID != winner {
		id := *f.Participant2ID
		return &id
	}
	return nil
}

func (f *Fixture) IsBye() bool {
	return (f.Participant1ID == nil) != (f.Participant2ID == nil)
}
