package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/infinity-hospitality/event-system/brackets"
	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memDB is an in-memory stand-in for postgres. memTransactor serializes
// transactions and restores a snapshot when one fails.
type memDB struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	nextID int

	users         map[int]models.User
	tournaments   map[int]models.Tournament
	registrations map[int]models.Registration
	fixtures      map[int]models.Fixture
	bookings      map[int]models.Booking
	jobs          map[int]models.JobApplication
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[int]models.User{},
		tournaments:   map[int]models.Tournament{},
		registrations: map[int]models.Registration{},
		fixtures:      map[int]models.Fixture{},
		bookings:      map[int]models.Booking{},
		jobs:          map[int]models.JobApplication{},
	}
}

func (db *memDB) id() int {
	db.nextID++
	return db.nextID
}

type memSnapshot struct {
	tournaments   map[int]models.Tournament
	registrations map[int]models.Registration
	fixtures      map[int]models.Fixture
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memSnapshot{
		tournaments:   copyMap(db.tournaments),
		registrations: copyMap(db.registrations),
		fixtures:      copyMap(db.fixtures),
	}
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tournaments = s.tournaments
	db.registrations = s.registrations
	db.fixtures = s.fixtures
}

type memTransactor struct {
	db *memDB
}

func (t memTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()

	snap := t.db.snapshot()
	if err := fn(nil); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

// --- tournaments ---

type memTournamentRepo struct{ db *memDB }

func (r memTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t.ID = r.db.id()
	t.CreatedAt = baseTime
	r.db.tournaments[t.ID] = *t
	return nil
}

func (r memTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok || t.IsDeleted {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r memTournamentRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r memTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Tournament, 0)
	for _, t := range r.db.tournaments {
		if t.IsDeleted != filter.Deleted {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Sport != nil && t.Sport != *filter.Sport {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.tournaments[t.ID]
	if !ok || cur.IsDeleted {
		return repositories.ErrTournamentNotFound
	}
	cur.Name, cur.Sport, cur.Category, cur.Date, cur.RegistrationDeadline = t.Name, t.Sport, t.Category, t.Date, t.RegistrationDeadline
	r.db.tournaments[t.ID] = cur
	return nil
}

func (r memTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	r.db.tournaments[id] = t
	return nil
}

func (r memTournamentRepo) UpdateImageKey(ctx context.Context, id int, key *string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok || t.IsDeleted {
		return repositories.ErrTournamentNotFound
	}
	t.ImageKey = key
	r.db.tournaments[id] = t
	return nil
}

func (r memTournamentRepo) SoftDelete(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok || t.IsDeleted {
		return repositories.ErrTournamentNotFound
	}
	t.IsDeleted = true
	r.db.tournaments[id] = t
	return nil
}

func (r memTournamentRepo) Restore(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok || !t.IsDeleted {
		return repositories.ErrTournamentNotFound
	}
	t.IsDeleted = false
	r.db.tournaments[id] = t
	return nil
}

// --- registrations ---

type memRegistrationRepo struct{ db *memDB }

func (r memRegistrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	reg.ID = r.db.id()
	reg.CreatedAt = baseTime.Add(time.Duration(reg.ID) * time.Second)
	r.db.registrations[reg.ID] = *reg
	return nil
}

func (r memRegistrationRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Registration, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	reg, ok := r.db.registrations[id]
	if !ok || reg.IsDeleted {
		return nil, repositories.ErrRegistrationNotFound
	}
	return &reg, nil
}

func (r memRegistrationRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, status *models.RegistrationStatus) ([]models.Registration, error) {
	tid := tournamentID
	return r.List(ctx, repositories.ListRegistrationsFilter{TournamentID: &tid, Status: status})
}

func (r memRegistrationRepo) List(ctx context.Context, filter repositories.ListRegistrationsFilter) ([]models.Registration, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Registration, 0)
	for _, reg := range r.db.registrations {
		if reg.IsDeleted != filter.Deleted {
			continue
		}
		if filter.TournamentID != nil && reg.TournamentID != *filter.TournamentID {
			continue
		}
		if filter.UserID != nil && reg.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && reg.Status != *filter.Status {
			continue
		}
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memRegistrationRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, from, to models.RegistrationStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	reg, ok := r.db.registrations[id]
	if !ok || reg.IsDeleted || reg.Status != from {
		return repositories.ErrRegistrationStatusMismatch
	}
	if to == models.RegistrationWinner {
		for _, other := range r.db.registrations {
			if other.TournamentID == reg.TournamentID && other.Status == models.RegistrationWinner {
				return repositories.ErrRegistrationWinnerExists
			}
		}
	}
	reg.Status = to
	r.db.registrations[id] = reg
	return nil
}

func (r memRegistrationRepo) SoftDelete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	reg, ok := r.db.registrations[id]
	if !ok || reg.IsDeleted {
		return repositories.ErrRegistrationNotFound
	}
	reg.IsDeleted = true
	r.db.registrations[id] = reg
	return nil
}

func (r memRegistrationRepo) GetAnyByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Registration, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	reg, ok := r.db.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	return &reg, nil
}

func (r memRegistrationRepo) Restore(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	reg, ok := r.db.registrations[id]
	if !ok || !reg.IsDeleted {
		return repositories.ErrRegistrationNotFound
	}
	reg.IsDeleted = false
	r.db.registrations[id] = reg
	return nil
}

// --- fixtures ---

type memFixtureRepo struct{ db *memDB }

func (r memFixtureRepo) Create(ctx context.Context, exec repositories.SQLExecutor, f *models.Fixture) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if f.Participant1ID != nil && f.Participant2ID != nil && *f.Participant1ID == *f.Participant2ID {
		return repositories.ErrFixtureSameSlots
	}
	f.ID = r.db.id()
	f.CreatedAt = baseTime
	r.db.fixtures[f.ID] = *f
	return nil
}

func (r memFixtureRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Fixture, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.fixtures[id]
	if !ok {
		return nil, repositories.ErrFixtureNotFound
	}
	return &f, nil
}

func (r memFixtureRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Fixture, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Fixture, 0)
	for _, f := range r.db.fixtures {
		if f.TournamentID == tournamentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memFixtureRepo) SetWinner(ctx context.Context, exec repositories.SQLExecutor, id int, winnerID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.fixtures[id]
	if !ok || f.WinnerID != nil {
		return repositories.ErrFixtureWinnerChanged
	}
	f.WinnerID = &winnerID
	f.Status = models.FixtureCompleted
	r.db.fixtures[id] = f
	return nil
}

// --- users ---

type memUserRepo struct{ db *memDB }

func (r memUserRepo) Create(ctx context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.users {
		if other.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
		if other.Username == u.Username {
			return repositories.ErrUserUsernameConflict
		}
	}
	u.ID = r.db.id()
	u.CreatedAt = baseTime
	r.db.users[u.ID] = *u
	return nil
}

func (r memUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// --- bookings ---

type memBookingRepo struct{ db *memDB }

func (r memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b.ID = r.db.id()
	if b.BookingDate.IsZero() {
		b.BookingDate = baseTime
	}
	r.db.bookings[b.ID] = *b
	return nil
}

func (r memBookingRepo) GetByID(ctx context.Context, id int) (*models.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[id]
	if !ok || b.IsDeleted {
		return nil, repositories.ErrBookingNotFound
	}
	return &b, nil
}

func (r memBookingRepo) List(ctx context.Context, filter repositories.ListBookingsFilter) ([]models.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Booking, 0)
	for _, b := range r.db.bookings {
		inBin := b.IsDeleted || b.Status == models.BookingCancelled
		if inBin != filter.RecycleBin {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memBookingRepo) UpdateStatus(ctx context.Context, id int, expected, status models.BookingStatus, staffNotified bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[id]
	if !ok || b.IsDeleted || b.Status != expected {
		return repositories.ErrBookingStatusChanged
	}
	b.Status = status
	b.StaffNotified = b.StaffNotified || staffNotified
	r.db.bookings[id] = b
	return nil
}

func (r memBookingRepo) RejectStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Booking, 0)
	for id, b := range r.db.bookings {
		if b.Status == models.BookingPending && !b.IsDeleted && b.BookingDate.Before(cutoff) {
			b.Status = models.BookingRejected
			r.db.bookings[id] = b
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memBookingRepo) Restore(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[id]
	if !ok || (!b.IsDeleted && b.Status != models.BookingCancelled) {
		return repositories.ErrBookingNotFound
	}
	b.IsDeleted = false
	if b.Status == models.BookingCancelled {
		b.Status = models.BookingPending
	}
	r.db.bookings[id] = b
	return nil
}

// --- job applications ---

type memJobRepo struct{ db *memDB }

func (r memJobRepo) Create(ctx context.Context, a *models.JobApplication) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = r.db.id()
	a.AppliedAt = baseTime
	r.db.jobs[a.ID] = *a
	return nil
}

func (r memJobRepo) GetByID(ctx context.Context, id int) (*models.JobApplication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.jobs[id]
	if !ok || a.IsDeleted {
		return nil, repositories.ErrJobApplicationNotFound
	}
	return &a, nil
}

func (r memJobRepo) List(ctx context.Context, filter repositories.ListJobApplicationsFilter) ([]models.JobApplication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.JobApplication, 0)
	for _, a := range r.db.jobs {
		if a.IsDeleted != filter.Deleted {
			continue
		}
		if filter.Position != nil && a.Position != *filter.Position {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memJobRepo) ListByPositions(ctx context.Context, positions []string) ([]models.JobApplication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	want := make(map[string]bool, len(positions))
	for _, p := range positions {
		want[p] = true
	}
	out := make([]models.JobApplication, 0)
	for _, a := range r.db.jobs {
		if !a.IsDeleted && want[a.Position] {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memJobRepo) UpdateStatus(ctx context.Context, id int, status models.JobApplicationStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.jobs[id]
	if !ok || a.IsDeleted {
		return repositories.ErrJobApplicationNotFound
	}
	a.Status = status
	r.db.jobs[id] = a
	return nil
}

func (r memJobRepo) SoftDelete(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.jobs[id]
	if !ok || a.IsDeleted {
		return repositories.ErrJobApplicationNotFound
	}
	a.IsDeleted = true
	r.db.jobs[id] = a
	return nil
}

func (r memJobRepo) Restore(ctx context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.jobs[id]
	if !ok || !a.IsDeleted {
		return repositories.ErrJobApplicationNotFound
	}
	a.IsDeleted = false
	r.db.jobs[id] = a
	return nil
}

// --- delivery ---

type fakeMailer struct {
	mu    sync.Mutex
	sent  []Message
	err   error
	block bool
}

func (m *fakeMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	block, err := m.block, m.err
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (m *fakeMailer) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

func (m *fakeMailer) recipients() []string {
	var out []string
	for _, msg := range m.messages() {
		out = append(out, msg.To...)
	}
	sort.Strings(out)
	return out
}

type broadcastCall struct {
	room    string
	message interface{}
}

type fakeBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (b *fakeBroadcaster) BroadcastToRoom(room string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{room: room, message: message})
}

func (b *fakeBroadcaster) rooms() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	for i, c := range b.calls {
		out[i] = c.room
	}
	return out
}

// testEnv wires real services on top of memDB.
type testEnv struct {
	db          *memDB
	mailer      *fakeMailer
	broadcaster *fakeBroadcaster
	notifier    NotificationDispatcher

	tournaments   memTournamentRepo
	registrations memRegistrationRepo
	fixtureRepo   memFixtureRepo
	users         memUserRepo
	bookingRepo   memBookingRepo
	jobRepo       memJobRepo

	ledger  RegistrationLedger
	store   FixtureStore
	bracket BracketService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	env := &testEnv{
		db:            db,
		mailer:        &fakeMailer{},
		broadcaster:   &fakeBroadcaster{},
		tournaments:   memTournamentRepo{db},
		registrations: memRegistrationRepo{db},
		fixtureRepo:   memFixtureRepo{db},
		users:         memUserRepo{db},
		bookingRepo:   memBookingRepo{db},
		jobRepo:       memJobRepo{db},
	}
	env.notifier = NewNotificationDispatcher(
		NotifierConfig{From: "noreply@test.local", AdminEmail: "admin@test.local", Timeout: time.Second},
		env.mailer, env.users, env.jobRepo, env.broadcaster, discardLogger(),
	)
	env.ledger = NewRegistrationLedger(env.registrations)
	env.store = NewFixtureStore(env.fixtureRepo, env.tournaments, env.registrations)
	env.bracket = NewBracketService(memTransactor{db}, env.tournaments, env.store, env.ledger,
		brackets.NewSingleEliminationGenerator(), env.notifier, discardLogger())
	return env
}

func (e *testEnv) addUser(email string) int {
	u := &models.User{Username: email, Email: email, Role: models.RoleUser}
	if err := e.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u.ID
}

func (e *testEnv) addTournament(name string, status models.TournamentStatus) int {
	t := &models.Tournament{Name: name, Sport: "Football", Category: models.CategoryTeam, Date: baseTime.AddDate(0, 1, 0), Status: status}
	if err := e.tournaments.Create(context.Background(), t); err != nil {
		panic(err)
	}
	return t.ID
}

func (e *testEnv) addRegistration(tournamentID, userID int, team string, price float64) int {
	reg := &models.Registration{
		UserID:           userID,
		TournamentID:     tournamentID,
		RegistrationType: models.RegistrationTypeTeam,
		TeamName:         &team,
		Players:          models.StringList{team + " player"},
		Price:            price,
		Status:           models.RegistrationActive,
	}
	if err := e.registrations.Create(context.Background(), reg); err != nil {
		panic(err)
	}
	return reg.ID
}

func (e *testEnv) addFixture(tournamentID int, p1, p2 *int) int {
	f := &models.Fixture{TournamentID: tournamentID, Round: "1", Participant1ID: p1, Participant2ID: p2, Status: models.FixtureScheduled}
	if err := e.fixtureRepo.Create(context.Background(), nil, f); err != nil {
		panic(err)
	}
	return f.ID
}

func (e *testEnv) registration(id int) models.Registration {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return e.db.registrations[id]
}

func (e *testEnv) tournament(id int) models.Tournament {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return e.db.tournaments[id]
}

func (e *testEnv) fixture(id int) models.Fixture {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return e.db.fixtures[id]
}

func ptr[T any](v T) *T { return &v }
