package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/atelier-bot/atelier/atelier"
	"github.com/atelier-bot/atelier/atelier/config"
)

// WrapWithReporting wraps a command handler with logging and the command
// error taxonomy: user errors are echoed back to the invoker, the
// unknown-command miss is dropped, anything else goes to the operator channel.
func WrapWithReporting(b *atelier.Bot, name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
			slog.String("channel_id", e.ChannelID().String()),
		)

		err := h(e)
		duration := time.Since(start)

		attrs := []any{
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.Duration("took", duration),
		}

		switch {
		case err == nil:
			slog.Info("Command completed", append(attrs, slog.String("status", "success"))...)
			return nil

		case errors.Is(err, atelier.ErrUnknownCommand):
			slog.Debug("Unknown command ignored", attrs...)
			return nil

		default:
			var userErr *atelier.UserError
			if errors.As(err, &userErr) {
				slog.Info("Command rejected", append(attrs, slog.String("reason", userErr.Message))...)
				sendErr := e.CreateMessage(discord.MessageCreate{
					Flags: discord.MessageFlagEphemeral,
					Embeds: []discord.Embed{discord.NewEmbedBuilder().
						SetDescription(userErr.Message).
						SetColor(config.WarningColor).
						Build()},
				})
				if sendErr != nil {
					slog.Warn("Failed to echo user error", append(attrs, slog.Any("error", sendErr))...)
				}
				return nil
			}

			slog.Error("Command failed", append(attrs, slog.Any("error", err), slog.String("status", "failed"))...)
			b.Reporter.ReportError("command:"+name, err,
				"user", e.User().Username,
				"channel_id", e.ChannelID().String(),
			)
			return nil
		}
	}
}
