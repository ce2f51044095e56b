package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/park285/guild-status-bot-go/internal/constants"
)

// FindChannelByName: 이름이 일치하는 길드 텍스트 채널 ID 를 state 캐시에서 찾는다.
func (s *Session) FindChannelByName(guildID, name string) (string, bool) {
	return findChannelByName(s.dg.State, guildID, name)
}

func findChannelByName(state *discordgo.State, guildID, name string) (string, bool) {
	guild, err := state.Guild(guildID)
	if err != nil {
		return "", false
	}

	state.RLock()
	defer state.RUnlock()
	for _, ch := range guild.Channels {
		if ch != nil && ch.Name == name && ch.Type == discordgo.ChannelTypeGuildText {
			return ch.ID, true
		}
	}
	return "", false
}

// SendChannelMessage 는 채널에 텍스트 메시지를 보낸다.
func (s *Session) SendChannelMessage(ctx context.Context, channelID, content string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout.ChannelPost)
	defer cancel()

	if _, err := s.dg.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send channel message failed channel=%s: %w", channelID, err)
	}
	return nil
}
