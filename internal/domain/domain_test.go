package domain

import (
	"testing"
	"time"
)

func TestParsePresenceStatus(t *testing.T) {
	tests := []struct {
		raw      string
		want     PresenceStatus
		isActive bool
	}{
		{"online", PresenceOnline, true},
		{" IDLE ", PresenceIdle, true},
		{"dnd", PresenceDND, true},
		{"invisible", PresenceOffline, false},
		{"", PresenceOffline, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParsePresenceStatus(tt.raw)
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
			if got.IsActive() != tt.isActive {
				t.Errorf("expected active=%v for %s", tt.isActive, got)
			}
		})
	}

	if PresenceStatus("").String() != "offline" {
		t.Error("expected empty status to print as offline")
	}
}

func TestNewRosterSnapshot_DedupesFirstWins(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := NewRosterSnapshot("g1", "Prestige Hub", now, []MemberRecord{
		{ID: "1", DisplayName: "first"},
		{ID: "2", DisplayName: "bot", IsBot: true},
		{ID: "1", DisplayName: "duplicate"},
		{ID: "3", DisplayName: "third"},
	})

	if snap.Len() != 3 {
		t.Fatalf("expected 3 unique members, got %d", snap.Len())
	}
	members := snap.Members()
	if members[0].DisplayName != "first" {
		t.Errorf("expected first occurrence kept, got %s", members[0].DisplayName)
	}

	members[0].DisplayName = "mutated"
	if snap.Members()[0].DisplayName != "first" {
		t.Error("Members must return a copy")
	}

	humans := snap.Humans()
	if len(humans) != 2 || humans[0].ID != "1" || humans[1].ID != "3" {
		t.Errorf("unexpected humans: %+v", humans)
	}
}

func TestMemberRecord_JoinedAtOr(t *testing.T) {
	fallback := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	joined := time.Date(2021, 6, 5, 0, 0, 0, 0, time.UTC)

	if got := (MemberRecord{}).JoinedAtOr(fallback); !got.Equal(fallback) {
		t.Errorf("expected fallback, got %v", got)
	}
	m := MemberRecord{JoinedAt: joined}
	if !m.HasJoinedAt() || !m.JoinedAtOr(fallback).Equal(joined) {
		t.Errorf("expected joined date, got %v", m.JoinedAtOr(fallback))
	}
}

func TestParseCommandType(t *testing.T) {
	if got := ParseCommandType(" MemberList "); got != CommandMemberList {
		t.Errorf("expected memberlist, got %s", got)
	}
	if got := ParseCommandType("ban"); got != CommandUnknown {
		t.Errorf("expected unknown, got %s", got)
	}
	if got := ParseCommandType("unknown"); got != CommandUnknown {
		t.Errorf("expected unknown, got %s", got)
	}
}

func TestGuildContext_IsZero(t *testing.T) {
	if !(GuildContext{}).IsZero() {
		t.Error("expected zero guild")
	}
	if (GuildContext{GuildID: "g1"}).IsZero() {
		t.Error("expected non-zero guild")
	}
}
