package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/atelier-bot/atelier/atelier"
	"github.com/atelier-bot/atelier/atelier/config"
	"github.com/atelier-bot/atelier/atelier/database/repositories"
	"github.com/atelier-bot/atelier/atelier/utils"
)

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "🎨 View a member's badge collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Member to look up (defaults to you)",
			Required:    false,
		},
	},
}

func ProfileHandler(b *atelier.Bot) handler.CommandHandler {
	return func(event *handler.CommandEvent) error {
		target := event.User()
		if user, ok := event.SlashCommandInteractionData().OptUser("user"); ok {
			target = user
		}
		if target.Bot {
			return atelier.NewUserError("Bots don't keep profiles.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		badges, err := b.Badges.ListBadges(ctx, target.ID.String())
		if err != nil {
			slog.Error("Failed to list badges",
				slog.String("type", "cmd"),
				slog.String("user_id", target.ID.String()),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(event, "Failed to load that profile. Please try again later.")
		}

		embed := discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("🎨 %s's Profile", target.EffectiveName())).
			SetColor(config.EmbedDefaultColor).
			SetTimestamp(time.Now())
		embed.SetThumbnail(target.EffectiveAvatarURL())

		if len(badges) == 0 {
			embed.SetDescription("No badges yet. Accepted posts in the art channel earn the first one.")
		}
		for _, badge := range badges {
			embed.AddField(BadgeFieldName(badge), badge.Description, false)
		}

		if isModerator(b, event, target) {
			embed.AddField("🛡️ Moderator", "Holds moderation permissions on this server.", false)
		}

		return event.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed.Build()},
		})
	}
}

// BadgeFieldName renders one badge line, with a roman-numeral tier for
// repeated grants.
func BadgeFieldName(badge repositories.OwnedBadge) string {
	if badge.Count > 1 {
		return fmt.Sprintf("%s %s %s", badge.Emote, badge.Name, utils.Roman(badge.Count))
	}
	return fmt.Sprintf("%s %s", badge.Emote, badge.Name)
}

// isModerator reports whether the target holds ban permissions. For the
// invoker the interaction carries resolved permissions; anyone else is
// resolved through the member cache.
func isModerator(b *atelier.Bot, event *handler.CommandEvent, target discord.User) bool {
	if member := event.Member(); member != nil && member.User.ID == target.ID {
		return member.Permissions.Has(discord.PermissionBanMembers)
	}

	guildID := event.GuildID()
	if guildID == nil {
		return false
	}
	member, ok := b.Client.Caches().Member(*guildID, target.ID)
	if !ok {
		return false
	}
	return b.Client.Caches().MemberPermissions(member).Has(discord.PermissionBanMembers)
}
