package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/healthsync/internal/dbx"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/biomarkers"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/foods"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/goals"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/workouts"
	"github.com/stretchr/testify/require"
)

// -------- opener --------

// mockOpener hands out a fresh sqlmock handle per call; expect registers
// the statements the service is going to issue on it.
type mockOpener struct {
	t      *testing.T
	expect func(sqlmock.Sqlmock)
	err    error
	mocks  []sqlmock.Sqlmock
	calls  []string
}

func (o *mockOpener) Opener(storeType, dsn string) dbx.Opener {
	o.calls = append(o.calls, storeType+"|"+dsn)
	return func(ctx context.Context) (*sql.DB, error) {
		if o.err != nil {
			return nil, o.err
		}
		db, mock, err := sqlmock.New()
		require.NoError(o.t, err)
		if o.expect != nil {
			o.expect(mock)
		}
		o.mocks = append(o.mocks, mock)
		return db, nil
	}
}

// txOpener expects Begin/Commit/Close in any order, which fits both push
// and pull calls.
func txOpener(t *testing.T) *mockOpener {
	return &mockOpener{t: t, expect: func(m sqlmock.Sqlmock) {
		m.MatchExpectationsInOrder(false)
		m.ExpectBegin()
		m.ExpectCommit()
		m.ExpectClose()
	}}
}

func (o *mockOpener) assertMet(t *testing.T) {
	t.Helper()
	for _, m := range o.mocks {
		require.NoError(t, m.ExpectationsWereMet())
	}
}

// -------- in-memory store --------

// memStore mimics the PostgreSQL repositories' conflict and window rules.
type memStore struct {
	mu         sync.Mutex
	profiles   map[string]*memProfile
	foods      map[string]*models.FoodEntry
	workouts   map[string]*memWorkout
	biomarkers map[string]*models.BiomarkerEntry
	goals      map[string]*memGoal
}

type memWorkout struct {
	entry     models.WorkoutEntry
	exercises sql.NullString
}

type memGoal struct {
	goal       models.Goal
	milestones sql.NullString
	updatedAt  int64
}

type memProfile struct {
	profile     models.UserProfile
	preferences sql.NullString
}

func newMemStore() *memStore {
	return &memStore{
		profiles:   map[string]*memProfile{},
		foods:      map[string]*models.FoodEntry{},
		workouts:   map[string]*memWorkout{},
		biomarkers: map[string]*models.BiomarkerEntry{},
		goals:      map[string]*memGoal{},
	}
}

type memFoods struct{ s *memStore }

func (r memFoods) Insert(ctx context.Context, e *models.FoodEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.foods[e.ID]; !ok {
		v := *e
		r.s.foods[e.ID] = &v
	}
	return nil
}

func (r memFoods) SelectSince(ctx context.Context, horizon int64) ([]*models.FoodEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.FoodEntry{}
	for _, e := range r.s.foods {
		if e.Timestamp > horizon {
			v := *e
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

type memWorkouts struct{ s *memStore }

func (r memWorkouts) Insert(ctx context.Context, e *models.WorkoutEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workouts[e.ID]; !ok {
		v := *e
		v.Exercises = nil
		r.s.workouts[e.ID] = &memWorkout{entry: v, exercises: dbx.OpaqueText(e.Exercises)}
	}
	return nil
}

func (r memWorkouts) SelectSince(ctx context.Context, horizon int64) ([]*models.WorkoutEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.WorkoutEntry{}
	for _, w := range r.s.workouts {
		if w.entry.Timestamp > horizon {
			v := w.entry
			v.Exercises = dbx.OpaqueJSON(ctx, w.exercises, "workout_entries", v.ID, "exercises")
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

type memBiomarkers struct{ s *memStore }

func (r memBiomarkers) Insert(ctx context.Context, e *models.BiomarkerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.biomarkers[e.ID]; !ok {
		v := *e
		r.s.biomarkers[e.ID] = &v
	}
	return nil
}

func (r memBiomarkers) SelectSince(ctx context.Context, horizon int64) ([]*models.BiomarkerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.BiomarkerEntry{}
	for _, e := range r.s.biomarkers {
		if e.Timestamp > horizon {
			v := *e
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

type memGoals struct{ s *memStore }

func (r memGoals) Upsert(ctx context.Context, g *models.Goal, now int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cur, ok := r.s.goals[g.ID]; ok {
		cur.goal.Title = g.Title
		cur.goal.Description = g.Description
		cur.goal.CurrentValue = g.CurrentValue
		cur.goal.IsCompleted = g.IsCompleted
		cur.updatedAt = now
		return nil
	}
	v := *g
	v.Milestones = nil
	r.s.goals[g.ID] = &memGoal{goal: v, milestones: dbx.OpaqueText(g.Milestones), updatedAt: now}
	return nil
}

func (r memGoals) SelectSince(ctx context.Context, horizon int64) ([]*models.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Goal{}
	for _, g := range r.s.goals {
		if g.goal.CreatedAt > horizon {
			v := g.goal
			v.Milestones = dbx.OpaqueJSON(ctx, g.milestones, "goals", v.ID, "milestones")
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

type memProfiles struct{ s *memStore }

func (r memProfiles) Upsert(ctx context.Context, p *models.UserProfile, now int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cur, ok := r.s.profiles[p.ID]; ok {
		createdAt := cur.profile.CreatedAt
		cur.profile = *p
		cur.profile.Preferences = nil
		cur.profile.CreatedAt = createdAt
		cur.profile.UpdatedAt = now
		cur.preferences = dbx.OpaqueText(p.Preferences)
		return nil
	}
	v := *p
	v.Preferences = nil
	if v.UpdatedAt == 0 {
		v.UpdatedAt = now
	}
	r.s.profiles[p.ID] = &memProfile{profile: v, preferences: dbx.OpaqueText(p.Preferences)}
	return nil
}

func (r memProfiles) SelectLatestSince(ctx context.Context, horizon int64) (*models.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *memProfile
	for _, p := range r.s.profiles {
		if p.profile.UpdatedAt > horizon && (best == nil || p.profile.UpdatedAt > best.profile.UpdatedAt) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	v := best.profile
	v.Preferences = dbx.OpaqueJSON(ctx, best.preferences, "user_profiles", v.ID, "preferences")
	return &v, nil
}

// -------- repository manager --------

type failingFoods struct {
	foods.Repository
	failOn    string
	selectErr error
}

func (f failingFoods) Insert(ctx context.Context, e *models.FoodEntry) error {
	if e.ID == f.failOn {
		return sql.ErrConnDone
	}
	return f.Repository.Insert(ctx, e)
}

func (f failingFoods) SelectSince(ctx context.Context, horizon int64) ([]*models.FoodEntry, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.Repository.SelectSince(ctx, horizon)
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	store        *memStore
	migrations   int
	migrationErr error
	foodFailOn   string
	selectErrs   map[string]error
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{store: newMemStore(), selectErrs: map[string]error{}}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	m.migrations++
	return m.migrationErr
}

func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository {
	if err := m.selectErrs[models.KindUserProfile]; err != nil {
		return erroringProfiles{memProfiles{m.store}, err}
	}
	return memProfiles{m.store}
}

func (m *fakeRepoManager) Foods(dbx.DBTX) foods.Repository {
	return failingFoods{Repository: memFoods{m.store}, failOn: m.foodFailOn, selectErr: m.selectErrs[models.KindFood]}
}

func (m *fakeRepoManager) Workouts(dbx.DBTX) workouts.Repository {
	if err := m.selectErrs[models.KindWorkout]; err != nil {
		return erroringWorkouts{memWorkouts{m.store}, err}
	}
	return memWorkouts{m.store}
}

func (m *fakeRepoManager) Biomarkers(dbx.DBTX) biomarkers.Repository {
	if err := m.selectErrs[models.KindBiomarker]; err != nil {
		return erroringBiomarkers{memBiomarkers{m.store}, err}
	}
	return memBiomarkers{m.store}
}

func (m *fakeRepoManager) Goals(dbx.DBTX) goals.Repository {
	if err := m.selectErrs[models.KindGoal]; err != nil {
		return erroringGoals{memGoals{m.store}, err}
	}
	return memGoals{m.store}
}

type erroringProfiles struct {
	memProfiles
	err error
}

func (r erroringProfiles) SelectLatestSince(context.Context, int64) (*models.UserProfile, error) {
	return nil, r.err
}

type erroringWorkouts struct {
	memWorkouts
	err error
}

func (r erroringWorkouts) SelectSince(context.Context, int64) ([]*models.WorkoutEntry, error) {
	return nil, r.err
}

type erroringBiomarkers struct {
	memBiomarkers
	err error
}

func (r erroringBiomarkers) SelectSince(context.Context, int64) ([]*models.BiomarkerEntry, error) {
	return nil, r.err
}

type erroringGoals struct {
	memGoals
	err error
}

func (r erroringGoals) SelectSince(context.Context, int64) ([]*models.Goal, error) {
	return nil, r.err
}
