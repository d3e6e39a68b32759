package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileColumns = []string{"id", "name", "age", "gender", "height", "weight", "activity_level",
	"dietary_goal", "preferences", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestUpsert_KeepsClientUpdatedAtOnInsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	name := "Sam"
	age := int64(34)
	mock.ExpectExec(`INSERT INTO user_profiles .* ON CONFLICT \(id\)\s+DO UPDATE SET .* updated_at = \$12`).
		WithArgs("p1", "Sam", int64(34), nil, nil, 70.5, nil, nil, `{"units":"metric"}`, int64(100), int64(200), int64(9999)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	weight := 70.5
	err := repo.Upsert(context.Background(), &models.UserProfile{
		ID: "p1", Name: &name, Age: &age, Weight: &weight,
		Preferences: json.RawMessage(`{"units":"metric"}`), CreatedAt: 100, UpdatedAt: 200,
	}, 9999)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_MissingUpdatedAtIsStampedWithNow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO user_profiles`).
		WithArgs("p1", nil, nil, nil, nil, nil, nil, nil, nil, int64(100), int64(9999), int64(9999)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), &models.UserProfile{ID: "p1", CreatedAt: 100}, 9999))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO user_profiles`).WillReturnError(errors.New("down"))

	require.ErrorContains(t, repo.Upsert(context.Background(), &models.UserProfile{ID: "p1"}, 1), "upsert user profile p1")
}

func TestSelectLatestSince(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(profileColumns).
		AddRow("p1", "Sam", int64(34), "f", 168.0, 70.5, "moderate", "maintain", `{"units":"metric"}`, int64(100), int64(500))
	mock.ExpectQuery(`SELECT .* FROM user_profiles\s+WHERE updated_at > \$1\s+ORDER BY updated_at DESC\s+LIMIT 1`).
		WithArgs(int64(50)).
		WillReturnRows(rows)

	got, err := repo.SelectLatestSince(context.Background(), 50)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, int64(34), *got.Age)
	assert.Equal(t, 168.0, *got.Height)
	assert.Equal(t, "maintain", *got.DietaryGoal)
	assert.JSONEq(t, `{"units":"metric"}`, string(got.Preferences))
	assert.Equal(t, int64(500), got.UpdatedAt)
}

func TestSelectLatestSince_NoneIsNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM user_profiles`).WillReturnRows(sqlmock.NewRows(profileColumns))

	got, err := repo.SelectLatestSince(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSelectLatestSince_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM user_profiles`).WillReturnError(errors.New("down"))

	_, err := repo.SelectLatestSince(context.Background(), 0)
	require.ErrorContains(t, err, "failed to select user profile")
}
