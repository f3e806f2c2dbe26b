package handlers

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// CacheMemberSource answers moderator-availability queries from the gateway
// member and presence caches. It requires the GuildMembers and GuildPresences
// intents to be active.
type CacheMemberSource struct {
	client bot.Client
}

func NewCacheMemberSource(client bot.Client) *CacheMemberSource {
	return &CacheMemberSource{client: client}
}

func (s *CacheMemberSource) OnlineModerators(guildID snowflake.ID) []discord.Member {
	var online []discord.Member
	s.client.Caches().MembersForEach(guildID, func(member discord.Member) {
		if member.User.Bot {
			return
		}
		presence, ok := s.client.Caches().Presence(guildID, member.User.ID)
		if !ok || presence.Status == discord.OnlineStatusOffline {
			return
		}
		if !s.client.Caches().MemberPermissions(member).Has(discord.PermissionBanMembers) {
			return
		}
		online = append(online, member)
	})
	return online
}
