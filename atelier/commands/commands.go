package commands

import (
	"github.com/disgoorg/disgo/discord"
)

// Commands is the full set synced to Discord.
var Commands = []discord.ApplicationCommandCreate{
	Help,
	Profile,
	Allowlist,
	Version,
}

// CommandInfo describes one command for the help listing.
type CommandInfo struct {
	Name        string
	Description string
}

// Category groups commands for the paginated help listing.
type Category struct {
	Name        string
	Description string
	Emoji       string
	Color       int
	Commands    []CommandInfo
}

// Categories returns the help categories in display order.
func Categories() []Category {
	return []Category{
		{
			Name:        "Profile",
			Description: "Badges and member profiles",
			Emoji:       "🎨",
			Color:       0x7289DA,
			Commands: []CommandInfo{
				{Name: "profile", Description: "View a member's badge collection"},
			},
		},
		{
			Name:        "Moderation",
			Description: "Art-channel policy tooling",
			Emoji:       "🛡️",
			Color:       0xFFAA00,
			Commands: []CommandInfo{
				{Name: "allowlist", Description: "Show the trusted art-source domains"},
			},
		},
		{
			Name:        "System",
			Description: "Bot utilities and information",
			Emoji:       "⚙️",
			Color:       0x2B2D31,
			Commands: []CommandInfo{
				{Name: "help", Description: "Browse the command listing"},
				{Name: "version", Description: "Show the running build"},
			},
		},
	}
}
