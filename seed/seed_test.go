package seed

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
	"github.com/infinity-hospitality/event-system/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
users:
  - username: admin
    email: admin@infinity.local
    password: change-me-please
    role: ADMIN
tournaments:
  - name: Autumn Cup
    sport: football
    date: "2026-11-14"
    registration_deadline: "2026-11-07"
  - name: Chess Open
    sport: chess
    category: solo
    date: "2026-12-01"
`

type memUsers struct {
	byEmail map[string]*models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	u.ID = len(m.byEmail) + 1
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

type memTournaments struct {
	repositories.TournamentRepository
	items []models.Tournament
}

func (m *memTournaments) Create(_ context.Context, t *models.Tournament) error {
	t.ID = len(m.items) + 1
	m.items = append(m.items, *t)
	return nil
}

func (m *memTournaments) List(_ context.Context, _ repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return m.items, nil
}

func TestParse(t *testing.T) {
	data, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, data.Users, 1)
	assert.Equal(t, models.RoleAdmin, data.Users[0].Role)
	require.Len(t, data.Tournaments, 2)
	assert.Equal(t, models.CategoryTeam, data.Tournaments[0].Category, "category defaults to team")
	assert.Equal(t, models.CategorySolo, data.Tournaments[1].Category)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "users:\n  - username: a\n    mail: a@b.co\n"},
		{"bad email", "users:\n  - username: a\n    email: nope\n    password: longenough\n"},
		{"short password", "users:\n  - username: a\n    email: a@b.co\n    password: short\n"},
		{"unknown role", "users:\n  - username: a\n    email: a@b.co\n    password: longenough\n    role: ROOT\n"},
		{"bad date", "tournaments:\n  - name: X\n    sport: y\n    date: 14/11/2026\n"},
		{"deadline after date", "tournaments:\n  - name: X\n    sport: y\n    date: \"2026-11-14\"\n    registration_deadline: \"2026-11-20\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	data, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, data.Users)
}

func TestApplyIsIdempotent(t *testing.T) {
	data, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	users := &memUsers{byEmail: map[string]*models.User{}}
	tournaments := &memTournaments{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	res, err := Apply(context.Background(), data, users, tournaments, logger)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 1, Tournaments: 2}, res)

	admin := users.byEmail["admin@infinity.local"]
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin())
	assert.True(t, utils.CheckPasswordHash("change-me-please", admin.PasswordHash))

	cup := tournaments.items[0]
	assert.Equal(t, models.TournamentRegistrationOpen, cup.Status)
	require.NotNil(t, cup.RegistrationDeadline)
	assert.Equal(t, "2026-11-07", cup.RegistrationDeadline.Format(dateLayout))
	assert.Nil(t, tournaments.items[1].RegistrationDeadline)

	res, err = Apply(context.Background(), data, users, tournaments, logger)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Len(t, tournaments.items, 2)
}

func TestExampleFileParses(t *testing.T) {
	data, err := LoadFile("example.yaml")
	require.NoError(t, err)
	assert.Len(t, data.Users, 1)
	assert.Len(t, data.Tournaments, 2)
}
