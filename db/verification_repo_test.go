package db

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/roadguard/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGorm(t *testing.T) (*GormDB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return &GormDB{DB: gormDB}, mock
}

// A first vote locks the post row, inserts the vote, recounts both
// tallies and writes them back, all inside one transaction.
func TestCastVoteFirstVote(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewVerificationRepo(gdb)

	postID := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(postID))
	mock.ExpectQuery(`SELECT \* FROM "verifications" WHERE \(?post_id = (.+) AND user_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "verifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "verifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "verifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	counts, err := repo.CastVote(postID, 42, models.VerificationConfirm)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Valid)
	assert.Equal(t, int64(0), counts.False)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Re-casting updates the existing row in place instead of inserting a
// second one, and both tallies are recounted so a switched vote moves
// both sides.
func TestCastVoteSwitchesExistingVote(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewVerificationRepo(gdb)

	postID := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(postID))
	mock.ExpectQuery(`SELECT \* FROM "verifications" WHERE \(?post_id = (.+) AND user_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "verification_type"}).
			AddRow(1, postID, 42, "CONFIRM"))
	mock.ExpectExec(`UPDATE "verifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "verifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "verifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	counts, err := repo.CastVote(postID, 42, models.VerificationFalse)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Valid)
	assert.Equal(t, int64(1), counts.False)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A vote on a missing post rolls the transaction back before anything
// is written.
func TestCastVoteMissingPostRollsBack(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewVerificationRepo(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.CastVote(uuid.NewString(), 42, models.VerificationConfirm)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
