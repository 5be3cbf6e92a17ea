package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinity-hospitality/event-system/models"
)

func TestLedgerEliminate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uid := env.addUser("owner@example.com")
	tid := env.addTournament("Cup", models.TournamentInProgress)
	a := env.addRegistration(tid, uid, "A", 10)
	b := env.addRegistration(tid, uid, "B", 10)

	require.NoError(t, env.ledger.Eliminate(ctx, nil, a))
	assert.Equal(t, models.RegistrationEliminated, env.registration(a).Status)

	// повторное выбывание ничего не меняет
	require.NoError(t, env.ledger.Eliminate(ctx, nil, a))

	active, err := env.ledger.ListActive(ctx, nil, tid)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b, active[0].ID)

	err = env.ledger.Eliminate(ctx, nil, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedgerPromoteToWinner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uid := env.addUser("owner@example.com")
	tid := env.addTournament("Cup", models.TournamentInProgress)
	a := env.addRegistration(tid, uid, "A", 10)
	b := env.addRegistration(tid, uid, "B", 10)
	c := env.addRegistration(tid, uid, "C", 10)

	require.NoError(t, env.ledger.Eliminate(ctx, nil, c))
	_, err := env.ledger.PromoteToWinner(ctx, nil, c)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	reg, err := env.ledger.PromoteToWinner(ctx, nil, a)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationWinner, reg.Status)

	again, err := env.ledger.PromoteToWinner(ctx, nil, a)
	require.NoError(t, err)
	assert.Equal(t, a, again.ID)

	_, err = env.ledger.PromoteToWinner(ctx, nil, b)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Equal(t, models.RegistrationActive, env.registration(b).Status)

	err = env.ledger.Eliminate(ctx, nil, a)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Equal(t, models.RegistrationWinner, env.registration(a).Status)
}

func TestLedgerIgnoresWithdrawnRegistrations(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uid := env.addUser("owner@example.com")
	tid := env.addTournament("Cup", models.TournamentInProgress)
	a := env.addRegistration(tid, uid, "A", 10)
	env.addRegistration(tid, uid, "B", 10)

	require.NoError(t, env.registrations.SoftDelete(ctx, nil, a))

	active, err := env.ledger.ListActive(ctx, nil, tid)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = env.ledger.Get(ctx, nil, a)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}
