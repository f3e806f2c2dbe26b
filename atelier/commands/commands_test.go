package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier-bot/atelier/atelier/database/repositories"
)

func TestBadgeFieldName(t *testing.T) {
	tests := []struct {
		name  string
		badge repositories.OwnedBadge
		want  string
	}{
		{"single grant has no numeral", repositories.OwnedBadge{Name: "Creative", Emote: "🎨", Count: 1}, "🎨 Creative"},
		{"repeat grants get a numeral", repositories.OwnedBadge{Name: "Creative", Emote: "🎨", Count: 2}, "🎨 Creative II"},
		{"larger counts", repositories.OwnedBadge{Name: "Helper", Emote: "🤝", Count: 14}, "🤝 Helper XIV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BadgeFieldName(tt.badge))
		})
	}
}

func TestSearchCommands(t *testing.T) {
	hits := searchCommands("prof")
	if assert.NotEmpty(t, hits) {
		assert.Equal(t, "profile", hits[0].Name)
	}

	assert.Empty(t, searchCommands("zzzzzz"))
}

func TestEveryCommandIsCategorized(t *testing.T) {
	listed := map[string]bool{}
	for _, category := range Categories() {
		for _, cmd := range category.Commands {
			listed[cmd.Name] = true
		}
	}

	for _, create := range Commands {
		assert.True(t, listed[create.CommandName()], "command %q missing from help categories", create.CommandName())
	}
}
