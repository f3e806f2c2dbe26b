package atelier

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/atelier-bot/atelier/atelier/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log        LogConfig         `toml:"log"`
	Bot        BotConfig         `toml:"bot"`
	Channels   ChannelsConfig    `toml:"channels"`
	Moderation ModerationConfig  `toml:"moderation"`
	DB         database.DBConfig `toml:"db"`
	Spaces     SpacesConfig      `toml:"spaces"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

// ChannelsConfig names the fixed channels the bot operates on.
type ChannelsConfig struct {
	// Art is the single channel subject to the media-only policy.
	Art snowflake.ID `toml:"art"`
	// Audit receives entries for bot-initiated removals.
	Audit snowflake.ID `toml:"audit"`
	// DeletedLog receives entries for external deletions.
	DeletedLog snowflake.ID `toml:"deleted_log"`
	// Commands is the casual channel where greetings are answered.
	Commands snowflake.ID `toml:"commands"`
	// Operator receives unhandled fault reports.
	Operator snowflake.ID `toml:"operator"`
	// TicketParent is the channel whose threads are support tickets.
	TicketParent snowflake.ID `toml:"ticket_parent"`
}

type ModerationConfig struct {
	ModRoleID     snowflake.ID `toml:"mod_role_id"`
	AllowlistPath string       `toml:"allowlist_path"`
}

type SpacesConfig struct {
	Key         string `toml:"key"`
	Secret      string `toml:"secret"`
	Region      string `toml:"region"`
	Bucket      string `toml:"bucket"`
	ArchiveRoot string `toml:"archive_root"`
}
