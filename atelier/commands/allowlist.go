package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/atelier-bot/atelier/atelier"
	"github.com/atelier-bot/atelier/atelier/config"
	"github.com/atelier-bot/atelier/atelier/utils"
)

var Allowlist = discord.SlashCommandCreate{
	Name:        "allowlist",
	Description: "🛡️ Show the trusted art-source domains",
}

func AllowlistHandler(b *atelier.Bot) handler.CommandHandler {
	return func(event *handler.CommandEvent) error {
		member := event.Member()
		if member == nil || !member.Permissions.Has(discord.PermissionManageMessages) {
			return utils.EH.CreateErrorEmbed(event, "You need the Manage Messages permission to view the allowlist.")
		}

		domains := b.Policy.Allowlist().Domains()

		var sb strings.Builder
		for _, domain := range domains {
			fmt.Fprintf(&sb, "`%s`\n", domain)
		}
		if sb.Len() == 0 {
			sb.WriteString("*the allowlist is empty*")
		}

		return event.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				discord.NewEmbedBuilder().
					SetTitle("🛡️ Trusted art sources").
					SetDescription(sb.String()).
					SetColor(config.InfoColor).
					SetFooter(fmt.Sprintf("%d domains", len(domains)), "").
					Build(),
			},
			Flags: discord.MessageFlagEphemeral,
		})
	}
}
