package moderation

import (
	"errors"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

type sentMessage struct {
	ChannelID snowflake.ID
	Message   discord.MessageCreate
}

type deletedMessage struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

type addedReaction struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Emoji     string
}

// fakeRest records REST calls for assertion.
type fakeRest struct {
	mu        sync.Mutex
	sent      []sentMessage
	deleted   []deletedMessage
	reactions []addedReaction
	dmOpened  []snowflake.ID

	failDM       bool
	failDelete   bool
	failReaction bool
}

func (f *fakeRest) AddReaction(channelID snowflake.ID, messageID snowflake.ID, emoji string, _ ...rest.RequestOpt) error {
	if f.failReaction {
		return errors.New("reaction rejected")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, addedReaction{ChannelID: channelID, MessageID: messageID, Emoji: emoji})
	return nil
}

func (f *fakeRest) CreateMessage(channelID snowflake.ID, msg discord.MessageCreate, _ ...rest.RequestOpt) (*discord.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Message: msg})
	return &discord.Message{ID: snowflake.ID(len(f.sent)), ChannelID: channelID}, nil
}

func (f *fakeRest) DeleteMessage(channelID snowflake.ID, messageID snowflake.ID, _ ...rest.RequestOpt) error {
	if f.failDelete {
		return errors.New("message already gone")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, deletedMessage{ChannelID: channelID, MessageID: messageID})
	return nil
}

func (f *fakeRest) CreateDMChannel(userID snowflake.ID, _ ...rest.RequestOpt) (*discord.DMChannel, error) {
	if f.failDM {
		return nil, errors.New("cannot DM user")
	}
	f.mu.Lock()
	f.dmOpened = append(f.dmOpened, userID)
	f.mu.Unlock()
	return &discord.DMChannel{}, nil
}

// sentTo returns the messages posted to one channel.
func (f *fakeRest) sentTo(channelID snowflake.ID) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}
