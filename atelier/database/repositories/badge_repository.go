package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/atelier-bot/atelier/atelier/database/models"
	"github.com/uptrace/bun"
)

// OwnedBadge is a badge row joined with its catalog entry for display.
type OwnedBadge struct {
	Name        string `bun:"name"`
	Description string `bun:"description"`
	Emote       string `bun:"emote"`
	Count       int    `bun:"count"`
}

type BadgeRepository interface {
	// Grant increments the count for (user, badge), creating the user and the
	// join row as needed. The badge must exist in the catalog.
	Grant(ctx context.Context, discordID string, username string, badgeName string) error
	// Revoke decrements the count and removes the row at zero. Revoking a
	// badge the user does not hold is a no-op.
	Revoke(ctx context.Context, discordID string, badgeName string) error
	// ListBadges returns all badges held by the user, ordered by name.
	ListBadges(ctx context.Context, discordID string) ([]OwnedBadge, error)
}

type badgeRepository struct {
	db *bun.DB
}

func NewBadgeRepository(db *bun.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) Grant(ctx context.Context, discordID string, username string, badgeName string) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()

		user := &models.User{
			DiscordID: discordID,
			Username:  username,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := tx.NewInsert().
			Model(user).
			On("CONFLICT (discord_id) DO UPDATE").
			Set("username = EXCLUDED.username").
			Set("updated_at = EXCLUDED.updated_at").
			Returning("id").
			Exec(ctx); err != nil {
			return &RepositoryError{Operation: "upsert", Entity: "user", Err: err}
		}

		badge, err := badgeByName(ctx, tx, badgeName)
		if err != nil {
			return err
		}

		userBadge := &models.UserBadge{
			UserID:    user.ID,
			BadgeID:   badge.ID,
			Count:     1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := tx.NewInsert().
			Model(userBadge).
			On("CONFLICT (user_id, badge_id) DO UPDATE").
			Set("count = ub.count + 1").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return &RepositoryError{Operation: "grant", Entity: "user_badge", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Debug("Badge granted",
		slog.String("type", "db"),
		slog.String("discord_id", discordID),
		slog.String("badge", badgeName))
	return nil
}

func (r *badgeRepository) Revoke(ctx context.Context, discordID string, badgeName string) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user := new(models.User)
		err := tx.NewSelect().
			Model(user).
			Where("discord_id = ?", discordID).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return &RepositoryError{Operation: "select", Entity: "user", Err: err}
		}

		badge, err := badgeByName(ctx, tx, badgeName)
		if err != nil {
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*models.UserBadge)(nil)).
			Set("count = count - 1").
			Set("updated_at = ?", time.Now()).
			Where("user_id = ?", user.ID).
			Where("badge_id = ?", badge.ID).
			Exec(ctx); err != nil {
			return &RepositoryError{Operation: "revoke", Entity: "user_badge", Err: err}
		}

		// No zero-count rows persist.
		if _, err := tx.NewDelete().
			Model((*models.UserBadge)(nil)).
			Where("user_id = ?", user.ID).
			Where("badge_id = ?", badge.ID).
			Where("count <= 0").
			Exec(ctx); err != nil {
			return &RepositoryError{Operation: "prune", Entity: "user_badge", Err: err}
		}
		return nil
	})
}

func (r *badgeRepository) ListBadges(ctx context.Context, discordID string) ([]OwnedBadge, error) {
	var owned []OwnedBadge
	err := r.db.NewSelect().
		Model((*models.UserBadge)(nil)).
		ColumnExpr("b.name AS name").
		ColumnExpr("b.description AS description").
		ColumnExpr("b.emote AS emote").
		ColumnExpr("ub.count AS count").
		Join("JOIN badges AS b ON b.id = ub.badge_id").
		Join("JOIN users AS u ON u.id = ub.user_id").
		Where("u.discord_id = ?", discordID).
		OrderExpr("b.name ASC").
		Scan(ctx, &owned)
	if err != nil {
		return nil, &RepositoryError{Operation: "list", Entity: "user_badge", Err: err}
	}
	return owned, nil
}

func badgeByName(ctx context.Context, tx bun.Tx, name string) (*models.Badge, error) {
	badge := new(models.Badge)
	err := tx.NewSelect().
		Model(badge).
		Where("name = ?", name).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "badge", ID: name}
	}
	if err != nil {
		return nil, &RepositoryError{Operation: "select", Entity: "badge", Err: err}
	}
	return badge, nil
}
