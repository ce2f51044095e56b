package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

// EventSink 는 변환된 게이트웨이 이벤트를 받는다 (bot.EventBus).
type EventSink interface {
	Publish(event domain.Event)
}

// Subscribe: 게이트웨이 콜백을 domain 이벤트로 변환해 sink 로 보낸다. 반환된 함수로 구독을 해제한다.
// 세션은 SyncEvents 로 동작하므로 sink.Publish 는 게이트웨이 수신 순서대로 호출되며 오래 막혀서는 안 된다.
func (s *Session) Subscribe(sink EventSink) func() {
	removers := []func(){
		s.dg.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			sink.Publish(toReadyEvent(r))
		}),
		s.dg.AddHandler(func(_ *discordgo.Session, g *discordgo.GuildCreate) {
			if g.Guild == nil || g.Unavailable {
				return
			}
			sink.Publish(domain.GuildAvailableEvent{Guild: domain.GuildInfo{ID: g.ID, Name: g.Name, MemberCount: g.MemberCount}})
		}),
		s.dg.AddHandler(func(dg *discordgo.Session, m *discordgo.GuildMemberAdd) {
			if ev, ok := toMemberJoinedEvent(dg.State, m); ok {
				sink.Publish(ev)
			}
		}),
		s.dg.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
			if m.Member == nil || m.User == nil {
				return
			}
			sink.Publish(domain.MemberLeftEvent{GuildID: m.GuildID, UserID: m.User.ID, Username: m.User.Username})
		}),
		s.dg.AddHandler(func(_ *discordgo.Session, p *discordgo.PresenceUpdate) {
			if p.User == nil {
				return
			}
			sink.Publish(domain.PresenceChangedEvent{
				GuildID: p.GuildID,
				UserID:  p.User.ID,
				Status:  domain.ParsePresenceStatus(string(p.Status)),
			})
		}),
		s.dg.AddHandler(func(dg *discordgo.Session, m *discordgo.MessageCreate) {
			if ev, ok := s.toMessageEvent(dg, m); ok {
				sink.Publish(ev)
			}
		}),
		s.dg.AddHandler(func(dg *discordgo.Session, i *discordgo.InteractionCreate) {
			if ev, ok := s.toInteractionEvent(dg, i); ok {
				sink.Publish(ev)
			}
		}),
	}

	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

func toReadyEvent(r *discordgo.Ready) domain.ReadyEvent {
	ev := domain.ReadyEvent{}
	if r.User != nil {
		ev.BotUserID = r.User.ID
		ev.BotTag = r.User.String()
	}
	for _, g := range r.Guilds {
		if g == nil {
			continue
		}
		ev.Guilds = append(ev.Guilds, domain.GuildInfo{ID: g.ID, Name: g.Name, MemberCount: g.MemberCount})
	}
	return ev
}

// toMemberJoinedEvent: state 가 먼저 갱신되므로 MemberCount 는 입장이 반영된 값이다.
func toMemberJoinedEvent(state *discordgo.State, m *discordgo.GuildMemberAdd) (domain.MemberJoinedEvent, bool) {
	if m.Member == nil || m.User == nil {
		return domain.MemberJoinedEvent{}, false
	}

	ev := domain.MemberJoinedEvent{
		GuildID:  m.GuildID,
		UserID:   m.User.ID,
		Username: m.User.Username,
		IsBot:    m.User.Bot,
	}
	if guild, err := state.Guild(m.GuildID); err == nil {
		state.RLock()
		ev.GuildName = guild.Name
		ev.MemberCount = guild.MemberCount
		state.RUnlock()
	}
	return ev, true
}

func (s *Session) toMessageEvent(dg *discordgo.Session, m *discordgo.MessageCreate) (domain.MessageEvent, bool) {
	if m.Message == nil || m.Author == nil {
		return domain.MessageEvent{}, false
	}
	return domain.MessageEvent{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		AuthorBot:  m.Author.Bot,
		Content:    m.Content,
		Responder: &messageResponder{
			dg:         dg,
			channelID:  m.ChannelID,
			reference:  m.Reference(),
			footerIcon: s.BotAvatarURL(),
		},
	}, true
}

func (s *Session) toInteractionEvent(dg *discordgo.Session, i *discordgo.InteractionCreate) (domain.InteractionEvent, bool) {
	if i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return domain.InteractionEvent{}, false
	}

	data := i.ApplicationCommandData()
	ev := domain.InteractionEvent{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Command:   data.Name,
		Options:   interactionOptions(data.Options),
		Responder: &interactionResponder{
			dg:          dg,
			interaction: i.Interaction,
			footerIcon:  s.BotAvatarURL(),
		},
	}

	switch {
	case i.Member != nil && i.Member.User != nil:
		ev.UserID, ev.UserName = i.Member.User.ID, i.Member.User.Username
	case i.User != nil:
		ev.UserID, ev.UserName = i.User.ID, i.User.Username
	}
	return ev, true
}

// interactionOptions: user 옵션은 사용자 ID 문자열로 변환한다.
func interactionOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]any {
	params := make(map[string]any, len(opts))
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt.Type {
		case discordgo.ApplicationCommandOptionUser, discordgo.ApplicationCommandOptionString:
			if v, ok := opt.Value.(string); ok {
				params[opt.Name] = v
			}
		default:
			params[opt.Name] = opt.Value
		}
	}
	return params
}
