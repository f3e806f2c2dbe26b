package moderation

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// MemberSource supplies the currently eligible moderators of a guild: online,
// not a bot, holding the ban-members permission.
type MemberSource interface {
	OnlineModerators(guildID snowflake.ID) []discord.Member
}

// Pager mentions a single randomly chosen online moderator, or the moderator
// role when nobody eligible is online.
type Pager struct {
	rest      Rest
	source    MemberSource
	modRoleID snowflake.ID

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPager(r Rest, source MemberSource, modRoleID snowflake.ID, rng *rand.Rand) *Pager {
	return &Pager{
		rest:      r,
		source:    source,
		modRoleID: modRoleID,
		rng:       rng,
	}
}

// Page posts the mention into the channel the request came from.
func (p *Pager) Page(channelID snowflake.ID, guildID snowflake.ID) error {
	content := fmt.Sprintf("<@&%s> a moderator is needed here.", p.modRoleID)
	if member, ok := p.pick(p.source.OnlineModerators(guildID)); ok {
		content = fmt.Sprintf("%s a moderator is needed here.", member.User.Mention())
	}

	_, err := p.rest.CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetContent(content).
		Build())
	if err != nil {
		return fmt.Errorf("failed to page moderator: %w", err)
	}
	return nil
}

// pick selects uniformly among the eligible members.
func (p *Pager) pick(eligible []discord.Member) (discord.Member, bool) {
	if len(eligible) == 0 {
		return discord.Member{}, false
	}
	p.mu.Lock()
	idx := p.rng.Intn(len(eligible))
	p.mu.Unlock()
	return eligible[idx], true
}
