package moderation

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticMembers struct {
	members []discord.Member
}

func (s *staticMembers) OnlineModerators(snowflake.ID) []discord.Member {
	return s.members
}

func moderator(id snowflake.ID) discord.Member {
	return discord.Member{User: discord.User{ID: id, Username: fmt.Sprintf("mod-%d", id)}}
}

func TestPageSelectionIsUniform(t *testing.T) {
	mods := []discord.Member{moderator(1), moderator(2), moderator(3), moderator(4)}
	pager := NewPager(&fakeRest{}, &staticMembers{members: mods}, snowflake.ID(50), rand.New(rand.NewSource(1)))

	const trials = 40000
	counts := make(map[snowflake.ID]int)
	for i := 0; i < trials; i++ {
		picked, ok := pager.pick(mods)
		require.True(t, ok)
		counts[picked.User.ID]++
	}

	for _, mod := range mods {
		share := float64(counts[mod.User.ID]) / trials
		assert.InDelta(t, 0.25, share, 0.02, "moderator %s should be picked uniformly", mod.User.ID)
	}
}

func TestPageMentionsChosenModerator(t *testing.T) {
	rest := &fakeRest{}
	pager := NewPager(rest, &staticMembers{members: []discord.Member{moderator(77)}}, snowflake.ID(50), rand.New(rand.NewSource(1)))

	channel := snowflake.ID(10)
	require.NoError(t, pager.Page(channel, snowflake.ID(1)))

	sent := rest.sentTo(channel)
	require.Len(t, sent, 1)
	assert.True(t, strings.Contains(sent[0].Message.Content, "<@77>"))
}

func TestPageFallsBackToRoleMention(t *testing.T) {
	rest := &fakeRest{}
	modRole := snowflake.ID(50)
	pager := NewPager(rest, &staticMembers{}, modRole, rand.New(rand.NewSource(1)))

	channel := snowflake.ID(10)
	for i := 0; i < 5; i++ {
		require.NoError(t, pager.Page(channel, snowflake.ID(1)))
	}

	sent := rest.sentTo(channel)
	require.Len(t, sent, 5)
	for _, m := range sent {
		assert.True(t, strings.Contains(m.Message.Content, "<@&50>"),
			"with no eligible moderators the role is always mentioned")
	}
}
