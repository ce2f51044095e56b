package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/park285/guild-status-bot-go/internal/constants"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/service/roster"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

// FetchRoster: Force 면 게이트웨이에 전체 멤버 목록을 다시 요청하고, 아니면 state 캐시에서 읽는다.
func (s *Session) FetchRoster(ctx context.Context, guildID string, opts roster.FetchOptions) (domain.RosterSnapshot, error) {
	if err := s.ensureReady(); err != nil {
		return domain.RosterSnapshot{}, apperrors.FetchError{GuildID: guildID, Force: opts.Force, Err: err}
	}

	if opts.Force {
		snapshot, err := s.fetchFromGateway(ctx, guildID, opts.WithPresence)
		if err != nil {
			return domain.RosterSnapshot{}, apperrors.FetchError{GuildID: guildID, Force: true, Err: err}
		}
		return snapshot, nil
	}

	snapshot, err := snapshotFromState(s.dg.State, guildID, opts.WithPresence, time.Now())
	if err != nil {
		return domain.RosterSnapshot{}, apperrors.FetchError{GuildID: guildID, Err: err}
	}
	return snapshot, nil
}

func (s *Session) fetchFromGateway(ctx context.Context, guildID string, withPresence bool) (domain.RosterSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout.RosterFetch)
	defer cancel()

	nonce := s.chunks.register()
	if err := s.dg.RequestGuildMembers(guildID, "", 0, nonce, withPresence); err != nil {
		s.chunks.cancel(nonce)
		return domain.RosterSnapshot{}, fmt.Errorf("request guild members failed: %w", err)
	}

	members, presences, err := s.chunks.wait(ctx, nonce)
	if err != nil {
		return domain.RosterSnapshot{}, err
	}

	guildName := ""
	if g, err := s.dg.State.Guild(guildID); err == nil {
		s.dg.State.RLock()
		guildName = g.Name
		s.dg.State.RUnlock()
	}

	statuses := make(map[string]discordgo.Status, len(presences))
	for _, p := range presences {
		if p != nil && p.User != nil {
			statuses[p.User.ID] = p.Status
		}
	}

	records := make([]domain.MemberRecord, 0, len(members))
	for _, m := range members {
		if m == nil || m.User == nil {
			continue
		}
		records = append(records, toMemberRecord(m, statuses[m.User.ID], withPresence))
	}

	s.logger.Info("Fetched members from guild",
		slog.String("guild_id", guildID),
		slog.String("guild_name", guildName),
		slog.Int("members", len(records)),
	)
	return domain.NewRosterSnapshot(guildID, guildName, time.Now(), records), nil
}

// snapshotFromState: state 캐시의 멤버/presence 로 스냅샷을 만든다.
func snapshotFromState(state *discordgo.State, guildID string, withPresence bool, now time.Time) (domain.RosterSnapshot, error) {
	guild, err := state.Guild(guildID)
	if err != nil {
		return domain.RosterSnapshot{}, fmt.Errorf("guild not in state: %w", err)
	}

	state.RLock()
	defer state.RUnlock()

	statuses := make(map[string]discordgo.Status, len(guild.Presences))
	for _, p := range guild.Presences {
		if p != nil && p.User != nil {
			statuses[p.User.ID] = p.Status
		}
	}

	records := make([]domain.MemberRecord, 0, len(guild.Members))
	for _, m := range guild.Members {
		if m == nil || m.User == nil {
			continue
		}
		records = append(records, toMemberRecord(m, statuses[m.User.ID], withPresence))
	}

	return domain.NewRosterSnapshot(guild.ID, guild.Name, now, records), nil
}

// toMemberRecord: presence 정보가 없으면 offline 으로 간주한다.
func toMemberRecord(m *discordgo.Member, status discordgo.Status, withPresence bool) domain.MemberRecord {
	presence := domain.PresenceOffline
	if withPresence {
		presence = domain.ParsePresenceStatus(string(status))
	}
	return domain.MemberRecord{
		ID:          m.User.ID,
		DisplayName: m.User.Username,
		IsBot:       m.User.Bot,
		JoinedAt:    m.JoinedAt,
		Presence:    presence,
	}
}

// LookupMember: state 캐시를 먼저 보고 없으면 REST 로 조회한다. 길드 멤버가 아니면 NotAMemberError.
func (s *Session) LookupMember(ctx context.Context, guildID, userID string) (roster.MemberDetail, error) {
	member, err := s.dg.State.Member(guildID, userID)
	if err != nil {
		if !errors.Is(err, discordgo.ErrStateNotFound) {
			return roster.MemberDetail{}, fmt.Errorf("read member state failed: %w", err)
		}
		member, err = s.dg.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			if isUnknownMember(err) {
				return roster.MemberDetail{}, apperrors.NotAMemberError{UserID: userID}
			}
			return roster.MemberDetail{}, fmt.Errorf("fetch guild member failed: %w", err)
		}
	}

	status := discordgo.Status("")
	if p, err := s.dg.State.Presence(guildID, userID); err == nil && p != nil {
		status = p.Status
	}

	return memberDetail(s.dg.State, guildID, member, status), nil
}

func memberDetail(state *discordgo.State, guildID string, m *discordgo.Member, status discordgo.Status) roster.MemberDetail {
	record := toMemberRecord(m, status, true)
	if status == "" {
		record.Presence = ""
	}

	roles := make([]string, 0, len(m.Roles))
	for _, roleID := range m.Roles {
		if roleID == guildID {
			continue
		}
		role, err := state.Role(guildID, roleID)
		if err != nil || role == nil || role.Name == "@everyone" {
			continue
		}
		roles = append(roles, role.Name)
	}

	return roster.MemberDetail{
		Record:    record,
		Tag:       userTag(m.User),
		AvatarURL: m.User.AvatarURL(""),
		Roles:     roles,
	}
}

// userTag: 새 사용자명 체계(구분자 없음 또는 "0")면 사용자명만, 아니면 "name#1234".
func userTag(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

func isUnknownMember(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && (restErr.Message.Code == discordgo.ErrCodeUnknownMember || restErr.Message.Code == discordgo.ErrCodeUnknownUser) {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
