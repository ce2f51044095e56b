package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/park285/guild-status-bot-go/internal/command"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/service/roster"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

func newTestState(t *testing.T) *discordgo.State {
	t.Helper()
	state := discordgo.NewState()
	guild := &discordgo.Guild{
		ID:          "g1",
		Name:        "Prestige Hub",
		MemberCount: 3,
		Members: []*discordgo.Member{
			{GuildID: "g1", User: &discordgo.User{ID: "u1", Username: "alpha"}, JoinedAt: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Roles: []string{"r1", "g1"}},
			{GuildID: "g1", User: &discordgo.User{ID: "u2", Username: "beta"}},
			{GuildID: "g1", User: &discordgo.User{ID: "b1", Username: "robot", Bot: true}},
		},
		Presences: []*discordgo.Presence{
			{User: &discordgo.User{ID: "u1"}, Status: discordgo.StatusIdle},
			{User: &discordgo.User{ID: "b1"}, Status: discordgo.StatusOnline},
		},
		Channels: []*discordgo.Channel{
			{ID: "c-voice", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildVoice},
			{ID: "c-text", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildText},
		},
		Roles: []*discordgo.Role{
			{ID: "g1", Name: "@everyone"},
			{ID: "r1", Name: "Moderator"},
		},
	}
	if err := state.GuildAdd(guild); err != nil {
		t.Fatalf("guild add: %v", err)
	}
	if err := state.GuildAdd(&discordgo.Guild{ID: "g2", Name: "Other"}); err != nil {
		t.Fatalf("guild add: %v", err)
	}
	return state
}

func TestSnapshotFromState(t *testing.T) {
	state := newTestState(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	snapshot, err := snapshotFromState(state, "g1", true, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.GuildName != "Prestige Hub" || snapshot.Len() != 3 {
		t.Fatalf("unexpected snapshot: %s len=%d", snapshot.GuildName, snapshot.Len())
	}

	byID := map[string]domain.MemberRecord{}
	for _, m := range snapshot.Members() {
		byID[m.ID] = m
	}
	if byID["u1"].Presence != domain.PresenceIdle {
		t.Errorf("expected idle for u1, got %s", byID["u1"].Presence)
	}
	if byID["u2"].Presence != domain.PresenceOffline {
		t.Errorf("expected offline for member without presence, got %s", byID["u2"].Presence)
	}
	if !byID["b1"].IsBot {
		t.Error("expected bot flag for b1")
	}
	if byID["u2"].HasJoinedAt() {
		t.Error("expected missing join date for u2")
	}

	if _, err := snapshotFromState(state, "missing", true, now); err == nil {
		t.Fatal("expected error for unknown guild")
	}
}

func TestResolveGuild(t *testing.T) {
	state := newTestState(t)

	guild, ok := resolveGuild(state, "g2")
	if !ok || guild.GuildID != "g2" {
		t.Fatalf("expected preferred guild g2, got %+v", guild)
	}

	guild, ok = resolveGuild(state, "not-joined")
	if !ok || guild.GuildID != "g1" || guild.GuildName != "Prestige Hub" {
		t.Fatalf("expected fallback to first guild, got %+v", guild)
	}

	if _, ok := resolveGuild(discordgo.NewState(), ""); ok {
		t.Fatal("expected no guild in empty state")
	}
}

func TestFindChannelByName(t *testing.T) {
	state := newTestState(t)

	id, ok := findChannelByName(state, "g1", "general")
	if !ok || id != "c-text" {
		t.Fatalf("expected text channel c-text, got %q %v", id, ok)
	}
	if _, ok := findChannelByName(state, "g2", "general"); ok {
		t.Fatal("expected no general channel in g2")
	}
}

func TestMemberDetail(t *testing.T) {
	state := newTestState(t)
	member, err := state.Member("g1", "u1")
	if err != nil {
		t.Fatalf("member: %v", err)
	}

	detail := memberDetail(state, "g1", member, discordgo.StatusDoNotDisturb)
	if detail.Record.Presence != domain.PresenceDND {
		t.Errorf("expected dnd, got %s", detail.Record.Presence)
	}
	if len(detail.Roles) != 1 || detail.Roles[0] != "Moderator" {
		t.Errorf("expected @everyone excluded, got %v", detail.Roles)
	}
	if detail.Tag != "alpha" {
		t.Errorf("unexpected tag: %s", detail.Tag)
	}

	detail = memberDetail(state, "g1", member, "")
	if detail.Record.Presence != "" {
		t.Errorf("expected unknown presence to stay empty, got %s", detail.Record.Presence)
	}
}

func TestUserTag(t *testing.T) {
	tests := []struct {
		discriminator string
		want          string
	}{
		{"", "alpha"},
		{"0", "alpha"},
		{"0420", "alpha#0420"},
	}
	for _, tt := range tests {
		t.Run("disc="+tt.discriminator, func(t *testing.T) {
			got := userTag(&discordgo.User{Username: "alpha", Discriminator: tt.discriminator})
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
	if userTag(nil) != "" {
		t.Error("expected empty tag for nil user")
	}
}

func TestIsUnknownMember(t *testing.T) {
	restErr := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember}}
	if !isUnknownMember(restErr) {
		t.Error("expected unknown member code to match")
	}
	if isUnknownMember(errors.New("boom")) {
		t.Error("expected plain error not to match")
	}
}

func TestToStatusData(t *testing.T) {
	data := toStatusData(domain.PresenceUpdate{Label: "[4/10] on G", Kind: domain.ActivityWatching, Status: domain.PresenceIdle})
	if data.Status != "idle" {
		t.Errorf("expected idle, got %s", data.Status)
	}
	if len(data.Activities) != 1 || data.Activities[0].Type != discordgo.ActivityTypeWatching || data.Activities[0].Name != "[4/10] on G" {
		t.Errorf("unexpected activities: %+v", data.Activities)
	}

	data = toStatusData(domain.PresenceUpdate{Status: domain.PresenceOnline})
	if len(data.Activities) != 0 {
		t.Errorf("expected no activity for empty label, got %+v", data.Activities)
	}
}

func TestToApplicationCommands(t *testing.T) {
	cmds := toApplicationCommands([]command.Definition{
		{Name: "online", Description: "Set bot status to Online"},
		{Name: "memberinfo", Description: "info", Options: []command.OptionSpec{
			{Name: "user", Description: "The member", Type: command.OptionUser, Required: true},
		}},
	})
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	opt := cmds[1].Options[0]
	if opt.Type != discordgo.ApplicationCommandOptionUser || !opt.Required || opt.Name != "user" {
		t.Errorf("unexpected option: %+v", opt)
	}
}

func TestToMessageEmbeds(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	embeds := toMessageEmbeds([]domain.Embed{{
		Title:      "Server Member List",
		Color:      0x00ff00,
		Fields:     []domain.EmbedField{{Name: "Members (Part 1)", Value: "- a\n"}},
		FooterText: "Requested by x",
		Timestamp:  ts,
	}}, "https://cdn/bot.png")

	if len(embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(embeds))
	}
	e := embeds[0]
	if e.Footer == nil || e.Footer.IconURL != "https://cdn/bot.png" {
		t.Errorf("expected bot avatar footer icon, got %+v", e.Footer)
	}
	if e.Timestamp != "2024-05-06T07:08:09Z" {
		t.Errorf("unexpected timestamp: %s", e.Timestamp)
	}
	if e.Image != nil || e.Thumbnail != nil {
		t.Error("expected no image/thumbnail")
	}
	if toMessageEmbeds(nil, "") != nil {
		t.Error("expected nil for no embeds")
	}
}

func TestInteractionOptions(t *testing.T) {
	params := interactionOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
		nil,
	})
	if params["user"] != "42" {
		t.Fatalf("expected user id param, got %v", params)
	}
}

func TestToEvents(t *testing.T) {
	ready := toReadyEvent(&discordgo.Ready{
		User:   &discordgo.User{ID: "bot", Username: "statusbot"},
		Guilds: []*discordgo.Guild{{ID: "g1", Name: "Prestige Hub", MemberCount: 3}},
	})
	if ready.BotUserID != "bot" || len(ready.Guilds) != 1 || ready.Guilds[0].MemberCount != 3 {
		t.Errorf("unexpected ready event: %+v", ready)
	}

	state := newTestState(t)
	joined, ok := toMemberJoinedEvent(state, &discordgo.GuildMemberAdd{Member: &discordgo.Member{
		GuildID: "g1",
		User:    &discordgo.User{ID: "u9", Username: "newbie"},
	}})
	if !ok || joined.GuildName != "Prestige Hub" || joined.MemberCount != 3 || joined.Username != "newbie" {
		t.Errorf("unexpected joined event: %+v", joined)
	}

	if _, ok := toMemberJoinedEvent(state, &discordgo.GuildMemberAdd{}); ok {
		t.Error("expected nil member to be ignored")
	}
}

func TestChunkCollector(t *testing.T) {
	c := newChunkCollector()
	nonce := c.register()

	go func() {
		c.handle(&discordgo.GuildMembersChunk{Nonce: "other", ChunkCount: 1})
		c.handle(&discordgo.GuildMembersChunk{Nonce: nonce, ChunkIndex: 1, ChunkCount: 2,
			Members: []*discordgo.Member{{User: &discordgo.User{ID: "b"}}}})
		c.handle(&discordgo.GuildMembersChunk{Nonce: nonce, ChunkIndex: 1, ChunkCount: 2,
			Members: []*discordgo.Member{{User: &discordgo.User{ID: "dup"}}}})
		c.handle(&discordgo.GuildMembersChunk{Nonce: nonce, ChunkIndex: 0, ChunkCount: 2,
			Members:   []*discordgo.Member{{User: &discordgo.User{ID: "a"}}},
			Presences: []*discordgo.Presence{{User: &discordgo.User{ID: "a"}, Status: discordgo.StatusOnline}}})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	members, presences, err := c.wait(ctx, nonce)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 || len(presences) != 1 {
		t.Fatalf("expected 2 members and 1 presence, got %d/%d", len(members), len(presences))
	}
	if _, _, err := c.wait(ctx, nonce); err == nil {
		t.Fatal("expected nonce to be released after wait")
	}
}

func TestChunkCollector_Timeout(t *testing.T) {
	c := newChunkCollector()
	nonce := c.register()
	c.handle(&discordgo.GuildMembersChunk{Nonce: nonce, ChunkIndex: 0, ChunkCount: 3})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, _, err := c.wait(ctx, nonce); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestApplyPresence_NotReady(t *testing.T) {
	s, err := NewSession("token", nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.ApplyPresence(context.Background(), domain.PresenceUpdate{Label: "x"}); !errors.Is(err, apperrors.ErrSessionNotReady) {
		t.Fatalf("expected ErrSessionNotReady, got %v", err)
	}
	if _, err := s.FetchRoster(context.Background(), "g1", roster.FetchOptions{Force: true}); !errors.Is(err, apperrors.ErrSessionNotReady) {
		t.Fatalf("expected fetch to be rejected before ready, got %v", err)
	}
}
