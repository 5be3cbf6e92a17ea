// Package seed loads bootstrap data (admin accounts and tournaments) from a
// YAML file so a fresh database is usable without manual SQL.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
	"github.com/infinity-hospitality/event-system/utils"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type File struct {
	Users       []User       `yaml:"users"`
	Tournaments []Tournament `yaml:"tournaments"`
}

type User struct {
	Username string          `yaml:"username"`
	Email    string          `yaml:"email"`
	Password string          `yaml:"password"`
	Role     models.UserRole `yaml:"role"`
}

type Tournament struct {
	Name                 string                    `yaml:"name"`
	Sport                string                    `yaml:"sport"`
	Category             models.TournamentCategory `yaml:"category"`
	Date                 string                    `yaml:"date"`
	RegistrationDeadline string                    `yaml:"registration_deadline"`
}

// Result counts what Apply actually inserted.
type Result struct {
	Users       int
	Tournaments int
}

func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*File, error) {
	var data File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return &data, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := data.validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (f *File) validate() error {
	for i := range f.Users {
		u := &f.Users[i]
		if u.Role == "" {
			u.Role = models.RoleUser
		}
		if u.Username == "" || !utils.IsValidEmail(u.Email) {
			return fmt.Errorf("seed user #%d: username and a valid email are required", i+1)
		}
		if u.Role != models.RoleUser && u.Role != models.RoleAdmin {
			return fmt.Errorf("seed user %q: unknown role %q", u.Username, u.Role)
		}
		if len(u.Password) < 8 {
			return fmt.Errorf("seed user %q: password must be at least 8 characters", u.Username)
		}
	}
	for i := range f.Tournaments {
		t := &f.Tournaments[i]
		if t.Category == "" {
			t.Category = models.CategoryTeam
		}
		if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Sport) == "" {
			return fmt.Errorf("seed tournament #%d: name and sport are required", i+1)
		}
		if _, _, err := t.dates(); err != nil {
			return fmt.Errorf("seed tournament %q: %w", t.Name, err)
		}
	}
	return nil
}

func (t Tournament) dates() (time.Time, *time.Time, error) {
	date, err := time.Parse(dateLayout, t.Date)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid date %q", t.Date)
	}
	if t.RegistrationDeadline == "" {
		return date, nil, nil
	}
	deadline, err := time.Parse(dateLayout, t.RegistrationDeadline)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid registration_deadline %q", t.RegistrationDeadline)
	}
	if deadline.After(date) {
		return time.Time{}, nil, errors.New("registration_deadline is after the tournament date")
	}
	return date, &deadline, nil
}

// Apply inserts missing users and tournaments. Users are matched by email and
// tournaments by name, so running it on every start is safe.
func Apply(
	ctx context.Context,
	data *File,
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) (Result, error) {
	var res Result

	for _, u := range data.Users {
		_, err := userRepo.GetByEmail(ctx, u.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return res, fmt.Errorf("lookup seed user %q: %w", u.Email, err)
		}

		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return res, fmt.Errorf("hash password for %q: %w", u.Email, err)
		}
		user := &models.User{Username: u.Username, Email: u.Email, PasswordHash: hash, Role: u.Role}
		if err := userRepo.Create(ctx, user); err != nil {
			return res, fmt.Errorf("create seed user %q: %w", u.Email, err)
		}
		logger.Info("seed user created", slog.Int("user_id", user.ID), slog.String("role", string(user.Role)))
		res.Users++
	}

	if len(data.Tournaments) == 0 {
		return res, nil
	}

	existing, err := tournamentRepo.List(ctx, repositories.ListTournamentsFilter{})
	if err != nil {
		return res, fmt.Errorf("list tournaments: %w", err)
	}
	names := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		names[t.Name] = struct{}{}
	}

	for _, st := range data.Tournaments {
		if _, ok := names[st.Name]; ok {
			continue
		}
		date, deadline, _ := st.dates()
		t := &models.Tournament{
			Name:                 st.Name,
			Sport:                st.Sport,
			Category:             st.Category,
			Date:                 date,
			RegistrationDeadline: deadline,
			Status:               models.TournamentRegistrationOpen,
		}
		if err := tournamentRepo.Create(ctx, t); err != nil {
			return res, fmt.Errorf("create seed tournament %q: %w", st.Name, err)
		}
		names[st.Name] = struct{}{}
		logger.Info("seed tournament created", slog.Int("tournament_id", t.ID), slog.String("name", t.Name))
		res.Tournaments++
	}
	return res, nil
}
