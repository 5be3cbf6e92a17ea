package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RegistrationStatus is the elimination state of a tournament participant.
type RegistrationStatus string

const (
	RegistrationActive     RegistrationStatus = "active"
	RegistrationEliminated RegistrationStatus = "eliminated"
	RegistrationWinner     RegistrationStatus = "winner"
)

type RegistrationType string

const (
	RegistrationTypeTeam       RegistrationType = "team"
	RegistrationTypeIndividual RegistrationType = "individual"
)

// Registration is a tournament participant: a team or a single player.
type Registration struct {
	ID               int                `json:"id" db:"id"`
	UserID           int                `json:"user_id" db:"user_id"`
	TournamentID     int                `json:"tournament_id" db:"tournament_id"`
	RegistrationType RegistrationType   `json:"registration_type" db:"registration_type"`
	TeamName         *string            `json:"team_name,omitempty" db:"team_name"`
	CaptainName      *string            `json:"captain_name,omitempty" db:"captain_name"`
	PlayerName       *string            `json:"player_name,omitempty" db:"player_name"`
	Players          StringList         `json:"players" db:"players"`
	Substitutes      StringList         `json:"substitutes" db:"substitutes"`
	Price            float64            `json:"price" db:"price"`
	Status           RegistrationStatus `json:"status" db:"status"`
	IsDeleted        bool               `json:"is_deleted" db:"is_deleted"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
}

func (r *Registration) DisplayName() string {
	if r.TeamName != nil && *r.TeamName != "" {
		return *r.TeamName
	}
	if r.PlayerName != nil && *r.PlayerName != "" {
		return *r.PlayerName
	}
	return fmt.Sprintf("Registration #%d", r.ID)
}

// StringList is a list of names stored as a JSON array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("invalid string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}
