package models

import "time"

// TournamentStatus is the lifecycle stage of a tournament.
type TournamentStatus string

const (
	TournamentRegistrationOpen TournamentStatus = "registration_open"
	TournamentInProgress       TournamentStatus = "in_progress"
	TournamentCompleted        TournamentStatus = "completed"
)

type TournamentCategory string

const (
	CategoryTeam TournamentCategory = "team"
	CategorySolo TournamentCategory = "solo"
)

// Tournament представляет турнир.
type Tournament struct {
	ID                   int                `json:"id" db:"id"`
	Name                 string             `json:"name" db:"name"`
	Sport                string             `json:"sport" db:"sport"`
	Category             TournamentCategory `json:"category" db:"category"`
	Date                 time.Time          `json:"date" db:"date"`
	RegistrationDeadline *time.Time         `json:"registration_deadline,omitempty" db:"registration_deadline"`
	Status               TournamentStatus   `json:"status" db:"status"`
	IsDeleted            bool               `json:"is_deleted" db:"is_deleted"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
	ImageKey             *string            `json:"-" db:"image_key"`
	ImageURL             *string            `json:"image_url,omitempty" db:"-"`

	// Заполняются сервисом при запросе деталей
	Registrations []Registration `json:"registrations,omitempty" db:"-"`
	Fixtures      []Fixture      `json:"fixtures,omitempty" db:"-"`
}

func (t *Tournament) IsClosed() bool {
	return t.Status == TournamentCompleted
}

// RegistrationOpenAt reports whether sign-ups are accepted at the given moment.
func (t *Tournament) RegistrationOpenAt(now time.Time) bool {
	if t.Status != TournamentRegistrationOpen {
		return false
	}
	if t.RegistrationDeadline == nil {
		return true
	}
	// the deadline day itself is still open
	return now.Before(t.RegistrationDeadline.AddDate(0, 0, 1))
}
