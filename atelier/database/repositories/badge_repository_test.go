package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/atelier-bot/atelier/atelier/database/models"
)

// newTestDB builds the badge schema in an in-memory sqlite database so the
// repository's SQL runs for real.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// An in-memory database exists per connection; keep exactly one.
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	ctx := context.Background()

	for _, table := range []interface{}{
		(*models.User)(nil),
		(*models.Badge)(nil),
		(*models.UserBadge)(nil),
	} {
		_, err = db.NewCreateTable().Model(table).Exec(ctx)
		require.NoError(t, err)
	}

	_, err = db.NewCreateIndex().
		Model((*models.UserBadge)(nil)).
		Index("user_badges_user_badge_idx").
		Unique().
		Column("user_id", "badge_id").
		Exec(ctx)
	require.NoError(t, err)

	for _, badge := range []models.Badge{
		{Name: "Creative", Description: "Posted accepted artwork in the art channel", Emote: "🎨"},
		{Name: "Curator", Description: "Helped keep the galleries tidy", Emote: "🖼️"},
	} {
		_, err = db.NewInsert().Model(&badge).Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

func userBadgeRows(t *testing.T, db *bun.DB) int {
	t.Helper()
	count, err := db.NewSelect().Model((*models.UserBadge)(nil)).Count(context.Background())
	require.NoError(t, err)
	return count
}

func TestGrantAccumulatesCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Grant(ctx, "42", "painter", "Creative"))
	}

	badges, err := repo.ListBadges(ctx, "42")
	require.NoError(t, err)
	require.Len(t, badges, 1, "repeated grants share one row")
	assert.Equal(t, "Creative", badges[0].Name)
	assert.Equal(t, 3, badges[0].Count)
	assert.Equal(t, 1, userBadgeRows(t, db))
}

func TestRevokeRemovesRowAtZero(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Grant(ctx, "42", "painter", "Creative"))
	require.NoError(t, repo.Grant(ctx, "42", "painter", "Creative"))

	require.NoError(t, repo.Revoke(ctx, "42", "Creative"))
	badges, err := repo.ListBadges(ctx, "42")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, 1, badges[0].Count)

	require.NoError(t, repo.Revoke(ctx, "42", "Creative"))
	badges, err = repo.ListBadges(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, badges)
	assert.Zero(t, userBadgeRows(t, db), "no zero-count rows persist")
}

func TestRevokeWithoutBadgeIsNoOp(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)
	ctx := context.Background()

	// Unknown user.
	require.NoError(t, repo.Revoke(ctx, "999", "Creative"))

	// Known user holding a different badge.
	require.NoError(t, repo.Grant(ctx, "42", "painter", "Creative"))
	require.NoError(t, repo.Revoke(ctx, "42", "Curator"))

	badges, err := repo.ListBadges(ctx, "42")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, 1, badges[0].Count, "an unrelated revoke changes nothing")
}

func TestGrantUnknownBadgeFails(t *testing.T) {
	repo := NewBadgeRepository(newTestDB(t))

	err := repo.Grant(context.Background(), "42", "painter", "Shiny")
	require.Error(t, err)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGrantUpdatesUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Grant(ctx, "42", "painter", "Creative"))
	require.NoError(t, repo.Grant(ctx, "42", "painter-renamed", "Creative"))

	user := new(models.User)
	require.NoError(t, db.NewSelect().Model(user).Where("discord_id = ?", "42").Scan(ctx))
	assert.Equal(t, "painter-renamed", user.Username)
}
