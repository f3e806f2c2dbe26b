package handlers

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/atelier-bot/atelier/atelier"
	"github.com/atelier-bot/atelier/atelier/commands"
	"github.com/atelier-bot/atelier/atelier/logger"
)

var greetingPattern = regexp.MustCompile(`(?i)^(hi|hiya|hello|hey|yo|sup|howdy|good (morning|afternoon|evening))[\s!.]*$`)

const slashHint = "Text commands are retired. Use the built-in slash command menu instead."

// EventListeners wires every gateway event the bot reacts to.
func EventListeners(b *atelier.Bot) []bot.EventListener {
	return []bot.EventListener{
		bot.NewListenerFunc(b.OnReady),
		bot.NewListenerFunc(onMessageCreate(b)),
		bot.NewListenerFunc(onMessageUpdate(b)),
		bot.NewListenerFunc(onMessageDelete(b)),
		bot.NewListenerFunc(onThreadCreate(b)),
		bot.NewListenerFunc(onThreadDelete(b)),
	}
}

func onMessageCreate(b *atelier.Bot) func(e *events.GuildMessageCreate) {
	return func(e *events.GuildMessageCreate) {
		msg := e.Message
		if !isUserMessage(msg) {
			return
		}
		b.Notifier.Remember(msg)

		dispatch(b.Reporter, "message_create", func(ctx context.Context) error {
			return handleMessageCreate(ctx, b, e)
		}, "channel_id", e.ChannelID.String(), "message_id", e.MessageID.String())
	}
}

func handleMessageCreate(ctx context.Context, b *atelier.Bot, e *events.GuildMessageCreate) error {
	msg := e.Message

	if opener, ok := b.State.TicketOpener(e.ChannelID); ok {
		sweepTicketMentions(b, e, opener)
	}

	switch {
	case e.ChannelID == b.Cfg.Channels.Art:
		return handleArtPost(ctx, b, msg)

	case strings.HasPrefix(msg.Content, "/"):
		if !isKnownCommand(msg.Content) {
			return atelier.ErrUnknownCommand
		}
		_, err := b.Client.Rest().CreateMessage(e.ChannelID, discord.NewMessageCreateBuilder().
			SetContent(slashHint).
			SetMessageReferenceByID(e.MessageID).
			Build())
		return err

	case e.ChannelID == b.Cfg.Channels.Commands && greetingPattern.MatchString(msg.Content):
		_, err := b.Client.Rest().CreateMessage(e.ChannelID, discord.NewMessageCreateBuilder().
			SetContentf("Hello %s! 👋 Try `/help` to see what I can do.", msg.Author.Mention()).
			SetMessageReferenceByID(e.MessageID).
			Build())
		return err

	case slices.Contains(msg.MentionRoles, b.Cfg.Moderation.ModRoleID):
		return b.Pager.Page(e.ChannelID, e.GuildID)
	}

	return nil
}

// handleArtPost applies the media-only policy to a new art-channel post.
func handleArtPost(ctx context.Context, b *atelier.Bot, msg discord.Message) error {
	verdict := b.Policy.Evaluate(msg)
	if !verdict.Accepted {
		return b.Notifier.Reject(ctx, msg, verdict.Reason)
	}
	return b.Notifier.Accept(ctx, msg)
}

// sweepTicketMentions removes every mentioned user who has no business in a
// support ticket: anyone who is not the opener, a moderator or a bot.
// Removal failures are logged only; a user already gone is not an error worth
// escalating.
func sweepTicketMentions(b *atelier.Bot, e *events.GuildMessageCreate, opener snowflake.ID) {
	for _, mentioned := range e.Message.Mentions {
		if !shouldEvictFromTicket(mentioned.ID, mentioned.Bot, isGuildModerator(b, e.GuildID, mentioned.ID), opener) {
			continue
		}
		if err := b.Client.Rest().RemoveThreadMember(e.ChannelID, mentioned.ID); err != nil {
			slog.Warn("Failed to remove user from ticket",
				slog.String("type", "mod"),
				slog.String("thread_id", e.ChannelID.String()),
				slog.String("user_id", mentioned.ID.String()),
				slog.Any("error", err))
			continue
		}
		logger.LogModeration("Removed uninvited user from ticket",
			slog.String("thread_id", e.ChannelID.String()),
			slog.String("user_id", mentioned.ID.String()))
	}
}

// isKnownCommand reports whether a "/"-prefixed plain text message names one
// of the registered slash commands.
func isKnownCommand(content string) bool {
	name := strings.TrimPrefix(content, "/")
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	for _, cmd := range commands.Commands {
		if strings.EqualFold(cmd.CommandName(), name) {
			return true
		}
	}
	return false
}

// shouldEvictFromTicket is the membership rule for ticket threads.
func shouldEvictFromTicket(userID snowflake.ID, isBot bool, isModerator bool, opener snowflake.ID) bool {
	if isBot || isModerator {
		return false
	}
	return userID != opener
}

func isGuildModerator(b *atelier.Bot, guildID snowflake.ID, userID snowflake.ID) bool {
	member, ok := b.Client.Caches().Member(guildID, userID)
	if !ok {
		return false
	}
	return b.Client.Caches().MemberPermissions(member).Has(discord.PermissionBanMembers)
}

func onMessageUpdate(b *atelier.Bot) func(e *events.GuildMessageUpdate) {
	return func(e *events.GuildMessageUpdate) {
		msg := e.Message
		if !isUserMessage(msg) {
			return
		}
		b.Notifier.Remember(msg)

		if e.ChannelID != b.Cfg.Channels.Art {
			return
		}

		dispatch(b.Reporter, "message_update", func(ctx context.Context) error {
			// Edits are re-checked so a post cannot be edited into a
			// violation. Badge state is never touched on edit, whichever way
			// the verdict flips.
			verdict := b.Policy.Evaluate(msg)
			if verdict.Accepted {
				return nil
			}
			return b.Notifier.Reject(ctx, msg, verdict.Reason)
		}, "channel_id", e.ChannelID.String(), "message_id", e.MessageID.String())
	}
}

func onMessageDelete(b *atelier.Bot) func(e *events.GuildMessageDelete) {
	return func(e *events.GuildMessageDelete) {
		dispatch(b.Reporter, "message_delete", func(ctx context.Context) error {
			return b.Notifier.OnExternalDelete(ctx, e.MessageID, e.ChannelID)
		}, "channel_id", e.ChannelID.String(), "message_id", e.MessageID.String())
	}
}

// isUserMessage filters out the bot's own traffic, other bots, webhooks and
// platform system messages.
func isUserMessage(msg discord.Message) bool {
	if msg.Author.Bot || msg.Author.System || msg.WebhookID != nil {
		return false
	}
	return msg.Type == discord.MessageTypeDefault || msg.Type == discord.MessageTypeReply
}
