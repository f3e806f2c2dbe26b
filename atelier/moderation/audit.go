package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/atelier-bot/atelier/atelier/config"
	"github.com/atelier-bot/atelier/atelier/database/repositories"
	"github.com/atelier-bot/atelier/atelier/logger"
	"github.com/atelier-bot/atelier/atelier/state"
)

// Rest is the slice of the disgo REST client the notifier needs. bot.Client's
// Rest() satisfies it.
type Rest interface {
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	DeleteMessage(channelID snowflake.ID, messageID snowflake.ID, opts ...rest.RequestOpt) error
	AddReaction(channelID snowflake.ID, messageID snowflake.ID, emoji string, opts ...rest.RequestOpt) error
	CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error)
}

// Archiver copies a message's attachments to long-term storage before the
// message is deleted.
type Archiver interface {
	ArchiveAttachments(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, attachments []discord.Attachment) error
}

// CachedMessage is what the notifier keeps for reconstructing audit entries of
// externally deleted messages.
type CachedMessage struct {
	ID          snowflake.ID
	ChannelID   snowflake.ID
	AuthorID    snowflake.ID
	AuthorName  string
	Content     string
	Attachments []discord.Attachment
}

// NotifierConfig names the fixed channels the notifier posts to.
type NotifierConfig struct {
	ArtChannel     snowflake.ID
	AuditChannel   snowflake.ID
	DeletedLogChan snowflake.ID
}

// Notifier formats and forwards moderation notices, and owns the compensating
// action for rejected messages.
type Notifier struct {
	rest    Rest
	state   *state.Volatile
	badges  repositories.BadgeRepository
	archive Archiver
	cache   *lru.Cache
	cfg     NotifierConfig
}

func NewNotifier(r Rest, st *state.Volatile, badges repositories.BadgeRepository, archive Archiver, cfg NotifierConfig) *Notifier {
	cache, _ := lru.New(config.MessageCacheSize)
	return &Notifier{
		rest:    r,
		state:   st,
		badges:  badges,
		archive: archive,
		cache:   cache,
		cfg:     cfg,
	}
}

// Remember feeds the recent-message cache from create and update events.
func (n *Notifier) Remember(msg discord.Message) {
	n.cache.Add(msg.ID, CachedMessage{
		ID:          msg.ID,
		ChannelID:   msg.ChannelID,
		AuthorID:    msg.Author.ID,
		AuthorName:  msg.Author.Username,
		Content:     msg.Content,
		Attachments: msg.Attachments,
	})
}

// Accept acknowledges a policy-passing art post with the pin reaction and
// grants the author the Creative badge. No grant happens unless the
// reaction went through.
func (n *Notifier) Accept(ctx context.Context, msg discord.Message) error {
	if err := n.rest.AddReaction(msg.ChannelID, msg.ID, config.AcceptReaction); err != nil {
		return fmt.Errorf("failed to add accept reaction: %w", err)
	}
	if err := n.badges.Grant(ctx, msg.Author.ID.String(), msg.Author.Username, config.CreativeBadge); err != nil {
		return fmt.Errorf("failed to grant badge: %w", err)
	}

	logger.LogModeration("Art post accepted",
		slog.String("message_id", msg.ID.String()),
		slog.String("author", msg.Author.Username))
	return nil
}

// Reject deletes a policy-violating message, notifies the author best-effort
// and posts an audit entry. The message id is recorded as self-deleted before
// the delete call so the gateway delete event cannot observe it unrecorded.
func (n *Notifier) Reject(ctx context.Context, msg discord.Message, reason string) error {
	n.state.MarkSelfDeleted(msg.ID)

	if err := n.rest.DeleteMessage(msg.ChannelID, msg.ID); err != nil {
		// Take the mark back, otherwise a later external deletion of the
		// still-existing message would be swallowed as self-initiated.
		n.state.ConsumeSelfDeleted(msg.ID)
		return fmt.Errorf("failed to delete message %s: %w", msg.ID, err)
	}

	// Attachment URLs stay fetchable briefly after the delete; archive what we
	// can. Failures are logged only.
	if n.archive != nil && len(msg.Attachments) > 0 {
		if err := n.archive.ArchiveAttachments(ctx, msg.ChannelID, msg.ID, msg.Attachments); err != nil {
			slog.Warn("Failed to archive attachments",
				slog.String("type", "mod"),
				slog.String("message_id", msg.ID.String()),
				slog.Any("error", err))
		}
	}

	n.notifyAuthor(msg, reason)

	embed := discord.NewEmbedBuilder().
		SetTitle("Post removed").
		SetDescription(orPlaceholder(msg.Content)).
		SetColor(config.ErrorColor).
		AddField("Author", fmt.Sprintf("%s (%s)", msg.Author.Username, msg.Author.Mention()), true).
		AddField("Channel", channelMention(msg.ChannelID), true).
		AddField("Reason", reason, false).
		SetTimestamp(time.Now())

	if field := attachmentField(msg.Attachments); field != "" {
		embed.AddField("Attachments", field, false)
	}

	if _, err := n.rest.CreateMessage(n.cfg.AuditChannel, discord.NewMessageCreateBuilder().
		SetEmbeds(embed.Build()).
		Build()); err != nil {
		return fmt.Errorf("failed to post audit entry: %w", err)
	}

	slog.Info("Message rejected",
		slog.String("type", "mod"),
		slog.String("message_id", msg.ID.String()),
		slog.String("author", msg.Author.Username),
		slog.String("reason", reason))
	return nil
}

// notifyAuthor DMs the rejection reason. A closed DM is not escalated.
func (n *Notifier) notifyAuthor(msg discord.Message, reason string) {
	dmChannel, err := n.rest.CreateDMChannel(msg.Author.ID)
	if err != nil {
		slog.Debug("Could not open DM channel",
			slog.String("type", "mod"),
			slog.String("user_id", msg.Author.ID.String()),
			slog.Any("error", err))
		return
	}

	if _, err = n.rest.CreateMessage(dmChannel.ID(), discord.NewMessageCreateBuilder().
		SetContentf("Your post in %s was removed: %s.", channelMention(msg.ChannelID), reason).
		Build()); err != nil {
		slog.Debug("Could not DM author",
			slog.String("type", "mod"),
			slog.String("user_id", msg.Author.ID.String()),
			slog.Any("error", err))
	}
}

// OnExternalDelete handles every gateway delete event. Self-initiated deletes
// were already audited and are consumed silently; anything else gets an entry
// in the deleted-message log, reconstructed from cache when possible. Deletes
// in the art channel also take the Creative badge back from the author.
func (n *Notifier) OnExternalDelete(ctx context.Context, messageID snowflake.ID, channelID snowflake.ID) error {
	if n.state.ConsumeSelfDeleted(messageID) {
		return nil
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Message deleted").
		SetColor(config.WarningColor).
		AddField("Channel", channelMention(channelID), true).
		SetTimestamp(time.Now())

	var cached CachedMessage
	if v, ok := n.cache.Get(messageID); ok {
		cached = v.(CachedMessage)
		embed.SetDescription(orPlaceholder(cached.Content)).
			AddField("Author", fmt.Sprintf("%s (<@%s>)", cached.AuthorName, cached.AuthorID), true)
		if field := attachmentField(cached.Attachments); field != "" {
			embed.AddField("Attachments", field, false)
		}
	} else {
		// The body is gone; the snowflake still tells us when it was posted.
		embed.SetDescription("*message content not cached*").
			AddField("Posted", messageID.Time().Format(time.RFC1123), true)
	}

	if _, err := n.rest.CreateMessage(n.cfg.DeletedLogChan, discord.NewMessageCreateBuilder().
		SetEmbeds(embed.Build()).
		Build()); err != nil {
		return fmt.Errorf("failed to post deletion entry: %w", err)
	}

	if channelID == n.cfg.ArtChannel && cached.AuthorID != 0 {
		if err := n.badges.Revoke(ctx, cached.AuthorID.String(), config.CreativeBadge); err != nil {
			return fmt.Errorf("failed to revoke badge: %w", err)
		}
	}
	return nil
}

func channelMention(id snowflake.ID) string {
	return fmt.Sprintf("<#%s>", id)
}

func orPlaceholder(content string) string {
	if content == "" {
		return "*no text content*"
	}
	return content
}

func attachmentField(attachments []discord.Attachment) string {
	if len(attachments) == 0 {
		return ""
	}
	var lines []string
	for _, att := range attachments {
		lines = append(lines, fmt.Sprintf("[%s](%s)", att.Filename, att.URL))
	}
	return strings.Join(lines, "\n")
}
