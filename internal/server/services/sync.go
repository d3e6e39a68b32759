package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthsync/internal/common"
	"github.com/dmitrijs2005/healthsync/internal/dbx"
	"github.com/dmitrijs2005/healthsync/internal/logging"
	sc "github.com/dmitrijs2005/healthsync/internal/server/config"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/repomanager"
)

// StoreOpener hands out scoped openers for a user store.
// *db.Connector is the production implementation.
type StoreOpener interface {
	Opener(storeType, dsn string) dbx.Opener
}

type SyncService struct {
	store       StoreOpener
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	log         logging.Logger
	now         func() time.Time
}

func NewSyncService(store StoreOpener, repomanager repomanager.RepositoryManager, config *sc.Config, log logging.Logger) *SyncService {
	return &SyncService{
		store:       store,
		repomanager: repomanager,
		config:      config,
		log:         log,
		now:         time.Now,
	}
}

// Horizon returns the earliest timestamp (exclusive) a pull includes:
// the caller's last sync, but never later than now minus floor.
func Horizon(lastSync int64, now time.Time, floor time.Duration) int64 {
	return min(lastSync, now.Add(-floor).UnixMilli())
}

// Push bootstraps the schema and merges batch into the store in one
// transaction. Any failed write rolls back the whole batch. The returned
// counts are the number of records attempted per entity type.
func (s *SyncService) Push(ctx context.Context, storeType, dsn string, batch *models.SyncBatch) (models.SyncCounts, error) {
	if batch == nil {
		batch = &models.SyncBatch{}
	}
	if err := validateBatch(batch); err != nil {
		return models.SyncCounts{}, err
	}
	log := logging.FromContext(ctx, s.log)

	err := dbx.WithConn(ctx, s.store.Opener(storeType, dsn), func(ctx context.Context, db *sql.DB) error {
		if err := s.repomanager.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("%w: %w", common.ErrBootstrap, err)
		}

		now := s.now().UnixMilli()
		err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return s.merge(ctx, tx, batch, now)
		})
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrStatement, err)
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, "push failed", "error", err)
		return models.SyncCounts{}, err
	}

	counts := batch.Counts()
	log.Info(ctx, "push finished",
		"userProfile", counts.UserProfile,
		"foodEntries", counts.FoodEntries,
		"workoutEntries", counts.WorkoutEntries,
		"biomarkerEntries", counts.BiomarkerEntries,
		"goals", counts.Goals,
	)
	return counts, nil
}

// merge writes batch in profile, food, workout, biomarker, goal order, one
// statement at a time.
func (s *SyncService) merge(ctx context.Context, tx dbx.DBTX, batch *models.SyncBatch, now int64) error {
	if batch.UserProfile != nil {
		if err := s.repomanager.Profiles(tx).Upsert(ctx, batch.UserProfile, now); err != nil {
			return err
		}
	}

	foodRepo := s.repomanager.Foods(tx)
	for _, e := range batch.FoodEntries {
		if err := foodRepo.Insert(ctx, e); err != nil {
			return err
		}
	}

	workoutRepo := s.repomanager.Workouts(tx)
	for _, e := range batch.WorkoutEntries {
		if err := workoutRepo.Insert(ctx, e); err != nil {
			return err
		}
	}

	biomarkerRepo := s.repomanager.Biomarkers(tx)
	for _, e := range batch.BiomarkerEntries {
		if err := biomarkerRepo.Insert(ctx, e); err != nil {
			return err
		}
	}

	goalRepo := s.repomanager.Goals(tx)
	for _, g := range batch.Goals {
		if err := goalRepo.Upsert(ctx, g, now); err != nil {
			return err
		}
	}
	return nil
}

// Pull returns every record newer than the widened horizon. Each entity
// type is fetched independently: a failing type is reported in
// PullResult.Failures and left empty. Pull fails only when every type failed.
func (s *SyncService) Pull(ctx context.Context, storeType, dsn string, lastSync int64) (*models.PullResult, error) {
	if lastSync < 0 {
		return nil, fmt.Errorf("%w: lastSyncTimestamp must not be negative", common.ErrInvalidInput)
	}
	log := logging.FromContext(ctx, s.log)
	horizon := Horizon(lastSync, s.now(), s.config.PullFloor)

	res := &models.PullResult{
		Horizon: horizon,
		Data: models.SyncBatch{
			FoodEntries:      []*models.FoodEntry{},
			WorkoutEntries:   []*models.WorkoutEntry{},
			BiomarkerEntries: []*models.BiomarkerEntry{},
			Goals:            []*models.Goal{},
		},
	}

	err := dbx.WithConn(ctx, s.store.Opener(storeType, dsn), func(ctx context.Context, db *sql.DB) error {
		fetches := []struct {
			kind string
			run  func() error
		}{
			{models.KindUserProfile, func() (err error) {
				res.Data.UserProfile, err = s.repomanager.Profiles(db).SelectLatestSince(ctx, horizon)
				return err
			}},
			{models.KindFood, func() error {
				items, err := s.repomanager.Foods(db).SelectSince(ctx, horizon)
				if err == nil {
					res.Data.FoodEntries = items
				}
				return err
			}},
			{models.KindWorkout, func() error {
				items, err := s.repomanager.Workouts(db).SelectSince(ctx, horizon)
				if err == nil {
					res.Data.WorkoutEntries = items
				}
				return err
			}},
			{models.KindBiomarker, func() error {
				items, err := s.repomanager.Biomarkers(db).SelectSince(ctx, horizon)
				if err == nil {
					res.Data.BiomarkerEntries = items
				}
				return err
			}},
			{models.KindGoal, func() error {
				items, err := s.repomanager.Goals(db).SelectSince(ctx, horizon)
				if err == nil {
					res.Data.Goals = items
				}
				return err
			}},
		}

		for _, f := range fetches {
			if err := f.run(); err != nil {
				log.Warn(ctx, "pull entity failed", "entity", f.kind, "error", err)
				if res.Failures == nil {
					res.Failures = map[string]string{}
				}
				res.Failures[f.kind] = err.Error()
			}
		}

		if len(res.Failures) == len(fetches) {
			return fmt.Errorf("%w: %s", common.ErrStatement, joinFailures(res.Failures))
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, "pull failed", "error", err)
		return nil, err
	}

	res.Counts = res.Data.Counts()
	log.Info(ctx, "pull finished",
		"horizon", horizon,
		"foodEntries", res.Counts.FoodEntries,
		"workoutEntries", res.Counts.WorkoutEntries,
		"biomarkerEntries", res.Counts.BiomarkerEntries,
		"goals", res.Counts.Goals,
		"failures", len(res.Failures),
	)
	return res, nil
}

func joinFailures(failures map[string]string) string {
	kinds := make([]string, 0, len(failures))
	for k := range failures {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, k+": "+failures[k])
	}
	return strings.Join(parts, "; ")
}

func validateBatch(b *models.SyncBatch) error {
	var errs []error
	if b.UserProfile != nil && b.UserProfile.ID == "" {
		errs = append(errs, errors.New("userProfile.id is required"))
	}
	for i, e := range b.FoodEntries {
		if e == nil || e.ID == "" {
			errs = append(errs, fmt.Errorf("foodEntries[%d].id is required", i))
		}
	}
	for i, e := range b.WorkoutEntries {
		if e == nil || e.ID == "" {
			errs = append(errs, fmt.Errorf("workoutEntries[%d].id is required", i))
		}
	}
	for i, e := range b.BiomarkerEntries {
		if e == nil || e.ID == "" {
			errs = append(errs, fmt.Errorf("biomarkerEntries[%d].id is required", i))
		}
	}
	for i, g := range b.Goals {
		if g == nil || g.ID == "" {
			errs = append(errs, fmt.Errorf("goals[%d].id is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
