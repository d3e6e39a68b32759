package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthsync/internal/common"
	"github.com/dmitrijs2005/healthsync/internal/dbx"
	"github.com/dmitrijs2005/healthsync/internal/logging"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
	"github.com/lib/pq"
)

// recentSampleSize caps the rows returned per table by Inspect.
const recentSampleSize = 5

// inspectedTables lists the sync tables and the column their recent
// samples are ordered by.
var inspectedTables = []struct {
	name    string
	orderBy string
}{
	{"user_profiles", "updated_at"},
	{"food_entries", "recorded_at"},
	{"workout_entries", "recorded_at"},
	{"biomarker_entries", "recorded_at"},
	{"goals", "created_at"},
}

// ProbeService answers diagnostic requests about a user store.
type ProbeService struct {
	store StoreOpener
	log   logging.Logger
}

func NewProbeService(store StoreOpener, log logging.Logger) *ProbeService {
	return &ProbeService{store: store, log: log}
}

// Test validates the connection string, connects and runs one round trip.
// It returns the server version string.
func (s *ProbeService) Test(ctx context.Context, storeType, dsn string) (string, error) {
	var version string
	err := dbx.WithConn(ctx, s.store.Opener(storeType, dsn), func(ctx context.Context, db *sql.DB) error {
		if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
			return fmt.Errorf("%w: %w", common.ErrStatement, err)
		}
		return nil
	})
	if err != nil {
		logging.FromContext(ctx, s.log).Warn(ctx, "connection test failed", "error", err)
		return "", err
	}
	return version, nil
}

// Inspect reports row counts and up to five newest rows for every sync
// table. A table that cannot be read gets an error entry and does not
// fail the call.
func (s *ProbeService) Inspect(ctx context.Context, dsn string) (*models.Inspection, error) {
	log := logging.FromContext(ctx, s.log)
	res := &models.Inspection{Tables: map[string]*models.TableReport{}}

	err := dbx.WithConn(ctx, s.store.Opener(common.StoreTypePostgres, dsn), func(ctx context.Context, db *sql.DB) error {
		var serverTime time.Time
		if err := db.QueryRowContext(ctx, "SELECT NOW()").Scan(&serverTime); err != nil {
			return fmt.Errorf("%w: %w", common.ErrStatement, err)
		}
		res.ServerTime = serverTime.UTC().Format(time.RFC3339Nano)

		for _, t := range inspectedTables {
			report, err := inspectTable(ctx, db, t.name, t.orderBy)
			if err != nil {
				log.Warn(ctx, "inspect table failed", "table", t.name, "error", err)
				report = &models.TableReport{Recent: []map[string]any{}, Error: err.Error()}
			}
			res.Tables[t.name] = report
		}
		return nil
	})
	if err != nil {
		log.Warn(ctx, "inspect failed", "error", err)
		return nil, err
	}
	return res, nil
}

func inspectTable(ctx context.Context, db dbx.DBTX, table, orderBy string) (*models.TableReport, error) {
	name := pq.QuoteIdentifier(table)

	report := &models.TableReport{Recent: []map[string]any{}}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+name).Scan(&report.Count); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s DESC LIMIT %d", name, pq.QuoteIdentifier(orderBy), recentSampleSize)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		report.Recent = append(report.Recent, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return report, nil
}
