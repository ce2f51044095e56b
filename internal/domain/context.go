package domain

import (
	"context"
	"time"
)

// GuildContext: 봇이 담당하는 단일 길드 정보. 전역 상태 대신 명시적으로 주입한다.
type GuildContext struct {
	GuildID     string
	GuildName   string
	MemberCount int
	BotUserID   string
}

// IsZero 는 길드가 아직 결정되지 않았는지 확인한다.
func (g GuildContext) IsZero() bool {
	return g.GuildID == ""
}

// Responder: 명령어 응답 채널. 슬래시 명령과 레거시 명령이 각각 구현한다.
type Responder interface {
	Reply(ctx context.Context, reply Reply) error
}

// CommandContext 는 타입이다.
type CommandContext struct {
	Guild     GuildContext
	ChannelID string
	UserID    string
	UserName  string
	Legacy    bool // "!" 접두사 명령 여부
	Responder Responder
	Timestamp time.Time
}

// NewCommandContext 는 동작을 수행한다.
func NewCommandContext(guild GuildContext, channelID, userID, userName string, legacy bool, responder Responder) *CommandContext {
	return &CommandContext{
		Guild:     guild,
		ChannelID: channelID,
		UserID:    userID,
		UserName:  userName,
		Legacy:    legacy,
		Responder: responder,
		Timestamp: time.Now(),
	}
}
