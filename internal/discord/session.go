// Package discord: discordgo 게이트웨이 세션 어댑터.
// 멤버 목록 조회, presence 갱신, 슬래시 명령 등록, 응답 전송을 서비스 계층 인터페이스로 노출한다.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/park285/guild-status-bot-go/internal/domain"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

// Intents: 길드, 멤버, presence, 메시지 본문 수신에 필요한 게이트웨이 인텐트
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildPresences |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent

// Session: discordgo.Session 래퍼
type Session struct {
	dg     *discordgo.Session
	logger *slog.Logger
	chunks *chunkCollector
	ready  atomic.Bool
}

// NewSession: 토큰으로 세션을 생성한다. 토큰은 여기서만 사용되며 보관하거나 로그에 남기지 않는다.
func NewSession(token string, logger *slog.Logger) (*Session, error) {
	if token == "" {
		return nil, errors.New("discord token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session failed: %w", err)
	}
	dg.Identify.Intents = Intents
	dg.ShouldRetryOnRateLimit = true
	dg.MaxRestRetries = 3
	dg.SyncEvents = true // Ready → GuildCreate 순서 보장
	dg.State.TrackMembers = true
	dg.State.TrackPresences = true

	s := &Session{
		dg:     dg,
		logger: logger,
		chunks: newChunkCollector(),
	}

	dg.AddHandler(func(_ *discordgo.Session, _ *discordgo.Ready) { s.ready.Store(true) })
	dg.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) { s.ready.Store(false) })
	dg.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) { s.ready.Store(true) })
	dg.AddHandler(func(_ *discordgo.Session, c *discordgo.GuildMembersChunk) { s.chunks.handle(c) })

	return s, nil
}

// Ready 는 게이트웨이 세션이 명령을 받을 수 있는 상태인지 반환한다.
func (s *Session) Ready() bool {
	return s != nil && s.ready.Load()
}

// Run: 게이트웨이에 연결하고 ctx 가 끝날 때까지 유지한다. bootstrap.BackgroundTask 로 사용한다.
func (s *Session) Run(ctx context.Context) error {
	if err := s.dg.Open(); err != nil {
		return fmt.Errorf("open discord gateway failed: %w", err)
	}
	s.logger.Info("Discord gateway connected")

	<-ctx.Done()

	s.ready.Store(false)
	if err := s.dg.Close(); err != nil {
		s.logger.Warn("Discord gateway close failed", slog.Any("error", err))
	}
	s.logger.Info("Discord gateway closed")
	return nil
}

// ResolveGuild: preferred 길드에 봇이 있으면 그 길드를, 없으면 state 의 첫 번째 길드를 반환한다.
func (s *Session) ResolveGuild(preferred string) (domain.GuildContext, bool) {
	return resolveGuild(s.dg.State, preferred)
}

func resolveGuild(state *discordgo.State, preferred string) (domain.GuildContext, bool) {
	state.RLock()
	defer state.RUnlock()

	botUserID := ""
	if state.User != nil {
		botUserID = state.User.ID
	}

	var chosen *discordgo.Guild
	for _, g := range state.Guilds {
		if preferred != "" && g.ID == preferred {
			chosen = g
			break
		}
		if chosen == nil {
			chosen = g
		}
	}
	if chosen == nil {
		return domain.GuildContext{}, false
	}

	return domain.GuildContext{
		GuildID:     chosen.ID,
		GuildName:   chosen.Name,
		MemberCount: chosen.MemberCount,
		BotUserID:   botUserID,
	}, true
}

// BotAvatarURL 은 임베드 푸터 아이콘에 쓰는 봇 아바타 주소다.
func (s *Session) BotAvatarURL() string {
	s.dg.State.RLock()
	defer s.dg.State.RUnlock()
	if s.dg.State.User == nil {
		return ""
	}
	return s.dg.State.User.AvatarURL("")
}

func (s *Session) ensureReady() error {
	if !s.Ready() {
		return apperrors.ErrSessionNotReady
	}
	return nil
}
