package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/storage"
)

type fakeUploader struct {
	mu       sync.Mutex
	objects  map[string]string
	deleted  []string
	failWith error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string]string{}}
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	if u.failWith != nil {
		return nil, u.failWith
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = string(data)
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func tournamentInput() TournamentInput {
	deadline := baseTime.AddDate(0, 0, 10)
	return TournamentInput{
		Name:                 " Spring Cup ",
		Sport:                "Football",
		Date:                 baseTime.AddDate(0, 0, 14),
		RegistrationDeadline: &deadline,
	}
}

func TestCreateAndGetTournament(t *testing.T) {
	env := newTestEnv()
	svc := NewTournamentService(env.tournaments, env.registrations, env.fixtureRepo, nil, discardLogger())
	ctx := context.Background()

	tour, err := svc.CreateTournament(ctx, tournamentInput())
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", tour.Name)
	assert.Equal(t, models.CategoryTeam, tour.Category)
	assert.Equal(t, models.TournamentRegistrationOpen, tour.Status)

	uid := env.addUser("p@example.com")
	a := env.addRegistration(tour.ID, uid, "A", 10)
	b := env.addRegistration(tour.ID, uid, "B", 10)
	env.addFixture(tour.ID, &a, &b)

	got, err := svc.GetTournamentByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Len(t, got.Registrations, 2)
	assert.Len(t, got.Fixtures, 1)
	assert.Nil(t, got.ImageURL)

	_, err = svc.GetTournamentByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	bad := tournamentInput()
	bad.Category = "relay"
	_, err = svc.CreateTournament(ctx, bad)
	assert.ErrorIs(t, err, ErrValidationFailed)

	bad = tournamentInput()
	late := bad.Date.AddDate(0, 0, 1)
	bad.RegistrationDeadline = &late
	_, err = svc.CreateTournament(ctx, bad)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestUpdateAndDeleteTournament(t *testing.T) {
	env := newTestEnv()
	svc := NewTournamentService(env.tournaments, env.registrations, env.fixtureRepo, nil, discardLogger())
	ctx := context.Background()

	tid := env.addTournament("Old name", models.TournamentRegistrationOpen)
	updated, err := svc.UpdateTournament(ctx, tid, tournamentInput())
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", updated.Name)
	assert.Equal(t, "Spring Cup", env.tournament(tid).Name)

	running := env.addTournament("Running", models.TournamentInProgress)
	_, err = svc.UpdateTournament(ctx, running, tournamentInput())
	assert.ErrorIs(t, err, ErrTournamentNotEditable)

	require.NoError(t, svc.DeleteTournament(ctx, tid))
	assert.ErrorIs(t, svc.DeleteTournament(ctx, tid), ErrNotFound)

	admin := Viewer{UserID: 1, Role: models.RoleAdmin}
	list, err := svc.ListTournaments(ctx, admin, ListTournamentsInput{Deleted: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tid, list[0].ID)

	_, err = svc.ListTournaments(ctx, Viewer{UserID: 2, Role: models.RoleUser}, ListTournamentsInput{Deleted: true})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	status := models.TournamentInProgress
	list, err = svc.ListTournaments(ctx, Viewer{}, ListTournamentsInput{Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, running, list[0].ID)
}

func TestUploadTournamentImage(t *testing.T) {
	env := newTestEnv()
	uploader := newFakeUploader()
	svc := NewTournamentService(env.tournaments, env.registrations, env.fixtureRepo, uploader, discardLogger())
	ctx := context.Background()
	tid := env.addTournament("Cup", models.TournamentRegistrationOpen)

	first, err := svc.UploadTournamentImage(ctx, tid, strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	require.NotNil(t, first.ImageKey)
	assert.True(t, strings.HasPrefix(*first.ImageKey, "tournaments/"))
	assert.True(t, strings.HasSuffix(*first.ImageKey, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+*first.ImageKey, *first.ImageURL)

	second, err := svc.UploadTournamentImage(ctx, tid, strings.NewReader("jpg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, []string{*first.ImageKey}, uploader.deleted)
	assert.Len(t, uploader.objects, 1)
	assert.Equal(t, second.ImageKey, env.tournament(tid).ImageKey)

	_, err = svc.UploadTournamentImage(ctx, tid, strings.NewReader("x"), "application/pdf")
	assert.ErrorIs(t, err, ErrValidationFailed)

	uploader.failWith = errors.New("bucket unavailable")
	_, err = svc.UploadTournamentImage(ctx, tid, strings.NewReader("x"), "image/png")
	assert.Error(t, err)
	assert.Equal(t, second.ImageKey, env.tournament(tid).ImageKey)

	disabled := NewTournamentService(env.tournaments, env.registrations, env.fixtureRepo, nil, discardLogger())
	_, err = disabled.UploadTournamentImage(ctx, tid, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
