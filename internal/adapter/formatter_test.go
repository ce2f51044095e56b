package adapter

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/service/roster"
)

var fixedNow = time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)

func TestFormatter_StatusSet(t *testing.T) {
	f := NewResponseFormatter()

	tests := map[domain.PresenceStatus]string{
		domain.PresenceOnline: "Bot status set to **Online**!",
		domain.PresenceIdle:   "Bot status set to **Idle**!",
		domain.PresenceDND:    "Bot status set to **Do Not Disturb**!",
	}
	for status, want := range tests {
		if got := f.StatusSet(status); got != want {
			t.Errorf("status %s: expected %q, got %q", status, want, got)
		}
	}
}

func TestFormatter_Welcome(t *testing.T) {
	f := NewResponseFormatter()
	got := f.Welcome("Xen", "Prestige Hub", 120)
	want := "Welcome Xen to Prestige Hub! We're now 120 strong! 🎉"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatter_Profile(t *testing.T) {
	f := NewResponseFormatter()

	dev := f.Profile(DeveloperProfile, fixedNow)
	if dev.Title != "Bot Developer Profile: Xen" {
		t.Errorf("unexpected title: %s", dev.Title)
	}
	if dev.Color != 0xff9900 || dev.FooterText != "Bot Developer Info" {
		t.Errorf("unexpected color/footer: %#x %s", dev.Color, dev.FooterText)
	}
	if dev.Fields[2].Value != "1/15/2023" {
		t.Errorf("expected joined 1/15/2023, got %s", dev.Fields[2].Value)
	}

	owner := f.Profile(OwnerProfile, fixedNow)
	if owner.Description != "Meet Prestige Beta, the visionary behind this server!" {
		t.Errorf("unexpected description: %s", owner.Description)
	}
	if owner.Color != 0x00ff00 || owner.FooterText != "Bot Owner Info" {
		t.Errorf("unexpected color/footer: %#x %s", owner.Color, owner.FooterText)
	}
}

func TestFormatter_MemberList(t *testing.T) {
	f := NewResponseFormatter()
	set := domain.ChunkSet{Chunks: []domain.DisplayChunk{
		{Label: "Members (Part 1)", Content: "- A (Joined: 1/1/2023)\n"},
		{Label: "Members (Part 2)", Content: "- B (Joined: 1/2/2023)\n"},
	}}

	embed := f.MemberList(set, 2, "requester", fixedNow)
	if embed.Title != "Server Member List" {
		t.Errorf("unexpected title: %s", embed.Title)
	}
	if embed.Description != "List of all 2 non-bot members in the server" {
		t.Errorf("unexpected description: %s", embed.Description)
	}
	if embed.FooterText != "Requested by requester" {
		t.Errorf("unexpected footer: %s", embed.FooterText)
	}
	if len(embed.Fields) != 2 || embed.Fields[1].Name != "Members (Part 2)" || embed.Fields[1].Inline {
		t.Errorf("unexpected fields: %+v", embed.Fields)
	}

	overhead := f.MemberListOverhead(2, "requester")
	want := utf8.RuneCountInString(embed.Title) + utf8.RuneCountInString(embed.Description) + utf8.RuneCountInString(embed.FooterText)
	if overhead != want {
		t.Errorf("expected overhead %d, got %d", want, overhead)
	}
}

func TestFormatter_MemberInfo(t *testing.T) {
	f := NewResponseFormatter()

	detail := roster.MemberDetail{
		Record: domain.MemberRecord{
			ID:          "42",
			DisplayName: "Xen",
			JoinedAt:    time.Date(2023, time.January, 15, 23, 0, 0, 0, time.UTC),
			Presence:    domain.PresenceDND,
		},
		Tag:       "xen#0001",
		AvatarURL: "https://cdn.example/avatar.png",
		Roles:     []string{"Admin", "Dev"},
	}

	embed := f.MemberInfo(detail, "asker", fixedNow)
	if embed.Title != "Member Info: Xen" {
		t.Errorf("unexpected title: %s", embed.Title)
	}
	values := map[string]string{}
	for _, field := range embed.Fields {
		values[field.Name] = field.Value
	}
	if values["Username"] != "xen#0001" || values["User ID"] != "42" {
		t.Errorf("unexpected identity fields: %v", values)
	}
	if values["Joined Server"] != "1/15/2023" {
		t.Errorf("unexpected joined: %s", values["Joined Server"])
	}
	if values["Status"] != "dnd" {
		t.Errorf("unexpected status: %s", values["Status"])
	}
	if values["Roles"] != "Admin, Dev" {
		t.Errorf("unexpected roles: %s", values["Roles"])
	}

	detail.Roles = nil
	detail.Record.Presence = ""
	detail.Record.JoinedAt = time.Time{}
	embed = f.MemberInfo(detail, "asker", fixedNow)
	for _, field := range embed.Fields {
		switch field.Name {
		case "Roles":
			if field.Value != "None" {
				t.Errorf("expected None roles, got %s", field.Value)
			}
		case "Status":
			if field.Value != "Offline" {
				t.Errorf("expected Offline, got %s", field.Value)
			}
		case "Joined Server":
			if !strings.HasPrefix(field.Value, "3/9/2024") {
				t.Errorf("expected missing join date to use now, got %s", field.Value)
			}
		}
	}
}
