package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/sahilm/fuzzy"

	"github.com/atelier-bot/atelier/atelier"
	"github.com/atelier-bot/atelier/atelier/config"
	"github.com/atelier-bot/atelier/atelier/utils"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "📖 Browse the available commands",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Search for a command by name",
			Required:    false,
		},
	},
}

func HelpHandler(b *atelier.Bot) handler.CommandHandler {
	return func(event *handler.CommandEvent) error {
		if query, ok := event.SlashCommandInteractionData().OptString("query"); ok && query != "" {
			return showSearchResults(event, query)
		}

		categories := Categories()
		return b.Paginator.Create(event.Respond, paginator.Pages{
			ID:      event.ID().String(),
			Creator: event.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				category := categories[page]
				embed.
					SetTitle(fmt.Sprintf("%s %s Commands", category.Emoji, category.Name)).
					SetDescription(category.Description).
					SetColor(category.Color).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, len(categories)), "")
				for _, cmd := range category.Commands {
					embed.AddField("/"+cmd.Name, cmd.Description, false)
				}
			},
			Pages:      len(categories),
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

// searchCommands fuzzy-matches the query against every command name.
func searchCommands(query string) []CommandInfo {
	var all []CommandInfo
	for _, category := range Categories() {
		all = append(all, category.Commands...)
	}

	names := make([]string, len(all))
	for i, cmd := range all {
		names[i] = cmd.Name
	}

	var hits []CommandInfo
	for _, match := range fuzzy.Find(query, names) {
		hits = append(hits, all[match.Index])
	}
	return hits
}

func showSearchResults(event *handler.CommandEvent, query string) error {
	hits := searchCommands(query)
	if len(hits) == 0 {
		return utils.EH.CreateErrorEmbed(event, fmt.Sprintf("No command matches %q.", query))
	}

	var sb strings.Builder
	for _, cmd := range hits {
		fmt.Fprintf(&sb, "`/%s` - %s\n", cmd.Name, cmd.Description)
	}

	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{
			discord.NewEmbedBuilder().
				SetTitle(fmt.Sprintf("🔍 Commands matching %q", query)).
				SetDescription(sb.String()).
				SetColor(config.InfoColor).
				Build(),
		},
	})
}
