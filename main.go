package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/atelier-bot/atelier/atelier"
	"github.com/atelier-bot/atelier/atelier/commands"
	"github.com/atelier-bot/atelier/atelier/database"
	"github.com/atelier-bot/atelier/atelier/database/repositories"
	"github.com/atelier-bot/atelier/atelier/handlers"
	"github.com/atelier-bot/atelier/atelier/logger"
	"github.com/atelier-bot/atelier/atelier/migration"
	"github.com/atelier-bot/atelier/atelier/moderation"
	"github.com/atelier-bot/atelier/atelier/services"
	"github.com/atelier-bot/atelier/atelier/state"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	legacyDir := flag.String("import-legacy", "", "Directory with legacy bson dumps to import on startup")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := atelier.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting Atelier Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := atelier.New(*cfg, version, commit)
	b.DB = db
	b.Badges = repositories.NewBadgeRepository(db.BunDB())
	b.State = state.NewVolatile()

	if *legacyDir != "" {
		stats, err := migration.NewImporter(b.Badges, *legacyDir).ImportAll(ctx)
		if err != nil {
			slog.Error("Legacy import failed", slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("Legacy import complete",
			slog.Int("users", stats.Users),
			slog.Int("grants", stats.Grants),
			slog.Int("skipped", stats.Skipped))
	}

	allowlist, err := moderation.LoadAllowlist(cfg.Moderation.AllowlistPath)
	if err != nil {
		slog.Error("Failed to load source allowlist", slog.Any("error", err))
		os.Exit(-1)
	}
	b.Policy = moderation.NewPolicy(allowlist)

	archive, err := services.NewArchiveService(
		cfg.Spaces.Key,
		cfg.Spaces.Secret,
		cfg.Spaces.Region,
		cfg.Spaces.Bucket,
		cfg.Spaces.ArchiveRoot,
	)
	if err != nil {
		slog.Error("Failed to initialize archive service", slog.Any("error", err))
		os.Exit(-1)
	}
	b.Archive = archive

	h := handler.New()
	h.Command("/help", handlers.WrapWithReporting(b, "help", commands.HelpHandler(b)))
	h.Command("/profile", handlers.WrapWithReporting(b, "profile", commands.ProfileHandler(b)))
	h.Command("/allowlist", handlers.WrapWithReporting(b, "allowlist", commands.AllowlistHandler(b)))
	h.Command("/version", handlers.WrapWithReporting(b, "version", commands.VersionHandler(b)))

	if err = b.SetupBot(append([]bot.EventListener{h}, handlers.EventListeners(b)...)...); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	rest := b.Client.Rest()
	b.Notifier = moderation.NewNotifier(rest, b.State, b.Badges, archive, moderation.NotifierConfig{
		ArtChannel:     cfg.Channels.Art,
		AuditChannel:   cfg.Channels.Audit,
		DeletedLogChan: cfg.Channels.DeletedLog,
	})
	b.Reporter = moderation.NewReporter(rest, cfg.Channels.Operator)
	b.Pager = moderation.NewPager(rest,
		handlers.NewCacheMemberSource(b.Client),
		cfg.Moderation.ModRoleID,
		rand.New(rand.NewSource(time.Now().UnixNano())))

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
