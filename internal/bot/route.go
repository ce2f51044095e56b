package bot

import (
	"log/slog"

	"github.com/park285/guild-status-bot-go/internal/adapter"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/service/activity"
)

// RouterState: 라우팅 판단에 필요한 봇 상태 스냅샷. executor 만 갱신한다.
type RouterState struct {
	PreferredGuildID string
	WelcomeChannel   string
	ReadySeen        bool
	TargetGuildID    string
	Started          bool
	Guild            domain.GuildContext // 시작 이후에만 채워진다
}

// Router: 이벤트를 Effect 목록으로 변환한다. 부수 효과가 없다.
type Router struct {
	messages  *adapter.MessageAdapter
	formatter *adapter.ResponseFormatter
}

// NewRouter 는 라우터를 생성한다.
func NewRouter(prefix string) *Router {
	return &Router{
		messages:  adapter.NewMessageAdapter(prefix),
		formatter: adapter.NewResponseFormatter(),
	}
}

// Route 는 이벤트 하나에 대한 Effect 목록을 반환한다.
func (r *Router) Route(ev domain.Event, st RouterState) []Effect {
	switch e := ev.(type) {
	case domain.ReadyEvent:
		return r.routeReady(e, st)
	case domain.GuildAvailableEvent:
		return r.routeGuildAvailable(e, st)
	case domain.PresenceChangedEvent:
		if !st.Started || e.GuildID != st.Guild.GuildID {
			return nil
		}
		return []Effect{TriggerPresenceEffect{}}
	case domain.MemberJoinedEvent:
		return r.routeMemberJoined(e, st)
	case domain.MemberLeftEvent:
		return []Effect{
			LogEffect{Level: slog.LevelInfo, Message: "Member left the server", Attrs: []slog.Attr{
				slog.String("username", e.Username),
				slog.String("user_id", e.UserID),
				slog.String("guild_id", e.GuildID),
			}},
			AuditEffect{Entry: activity.Entry{Type: activity.EntryMemberLeft, GuildID: e.GuildID, UserID: e.UserID, Summary: e.Username}},
		}
	case domain.MessageEvent:
		return r.routeMessage(e, st)
	case domain.InteractionEvent:
		return []Effect{CommandEffect{
			Name:      e.Command,
			Params:    e.Options,
			Guild:     guildFor(e.GuildID, st),
			ChannelID: e.ChannelID,
			UserID:    e.UserID,
			UserName:  e.UserName,
			Responder: e.Responder,
		}}
	default:
		return nil
	}
}

// routeReady: 첫 Ready 에서 길드를 고르고, 이후 Ready(재연결)에서는 presence 를 다시 적용한다.
func (r *Router) routeReady(e domain.ReadyEvent, st RouterState) []Effect {
	if st.ReadySeen {
		return []Effect{RepublishEffect{}}
	}

	target := ""
	for _, g := range e.Guilds {
		if st.PreferredGuildID != "" && g.ID == st.PreferredGuildID {
			target = g.ID
			break
		}
		if target == "" {
			target = g.ID
		}
	}

	effects := []Effect{
		LogEffect{Level: slog.LevelInfo, Message: "Logged in", Attrs: []slog.Attr{slog.String("user", e.BotTag)}},
		SelectGuildEffect{GuildID: target},
	}
	if st.PreferredGuildID != "" && target != st.PreferredGuildID && target != "" {
		effects = append(effects, LogEffect{Level: slog.LevelWarn, Message: "Configured guild not joined; using first guild", Attrs: []slog.Attr{
			slog.String("configured_guild_id", st.PreferredGuildID),
			slog.String("guild_id", target),
		}})
	}
	return effects
}

func (r *Router) routeGuildAvailable(e domain.GuildAvailableEvent, st RouterState) []Effect {
	if st.Started || st.TargetGuildID == "" || e.Guild.ID != st.TargetGuildID {
		return nil
	}
	return []Effect{StartEffect{Guild: domain.GuildContext{
		GuildID:     e.Guild.ID,
		GuildName:   e.Guild.Name,
		MemberCount: e.Guild.MemberCount,
	}}}
}

func (r *Router) routeMemberJoined(e domain.MemberJoinedEvent, st RouterState) []Effect {
	return []Effect{
		WelcomeEffect{
			GuildID:     e.GuildID,
			ChannelName: st.WelcomeChannel,
			Text:        r.formatter.Welcome(e.Username, e.GuildName, e.MemberCount),
		},
		AuditEffect{Entry: activity.Entry{
			Type:    activity.EntryMemberJoined,
			GuildID: e.GuildID,
			UserID:  e.UserID,
			Summary: e.Username,
			Details: map[string]any{"member_count": e.MemberCount, "bot": e.IsBot},
		}},
	}
}

// routeMessage: 봇이 보낸 메시지와 접두사 명령이 아닌 메시지는 무시한다.
func (r *Router) routeMessage(e domain.MessageEvent, st RouterState) []Effect {
	if e.AuthorBot {
		return nil
	}
	parsed := r.messages.ParseMessage(e.Content)
	if parsed.Type == domain.CommandUnknown {
		return nil
	}
	return []Effect{CommandEffect{
		Name:      parsed.Type.String(),
		Guild:     guildFor(e.GuildID, st),
		ChannelID: e.ChannelID,
		UserID:    e.AuthorID,
		UserName:  e.AuthorName,
		Legacy:    true,
		Responder: e.Responder,
	}}
}

// guildFor: 담당 길드면 시작 시 확정된 정보를, 다른 길드면 ID 만 채운다. DM 은 zero 값.
func guildFor(guildID string, st RouterState) domain.GuildContext {
	if guildID == "" {
		return domain.GuildContext{}
	}
	if st.Started && guildID == st.Guild.GuildID {
		return st.Guild
	}
	return domain.GuildContext{GuildID: guildID}
}
