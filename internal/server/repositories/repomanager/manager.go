package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/healthsync/internal/dbx"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/biomarkers"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/foods"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/goals"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/workouts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db dbx.DBTX) profiles.Repository
	Foods(db dbx.DBTX) foods.Repository
	Workouts(db dbx.DBTX) workouts.Repository
	Biomarkers(db dbx.DBTX) biomarkers.Repository
	Goals(db dbx.DBTX) goals.Repository
}
