package domain

import (
	"strings"
	"time"
)

// PresenceStatus 는 멤버의 실시간 접속 상태다.
type PresenceStatus string

// PresenceStatus 상수 목록.
const (
	PresenceOnline  PresenceStatus = "online"
	PresenceIdle    PresenceStatus = "idle"
	PresenceDND     PresenceStatus = "dnd"
	PresenceOffline PresenceStatus = "offline"
)

// ParsePresenceStatus: 원시 문자열을 PresenceStatus로 변환한다. 알 수 없는 값은 offline으로 취급한다.
func ParsePresenceStatus(raw string) PresenceStatus {
	switch PresenceStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case PresenceOnline:
		return PresenceOnline
	case PresenceIdle:
		return PresenceIdle
	case PresenceDND:
		return PresenceDND
	default:
		return PresenceOffline
	}
}

// IsActive: online/idle/dnd 이면 true.
func (p PresenceStatus) IsActive() bool {
	switch p {
	case PresenceOnline, PresenceIdle, PresenceDND:
		return true
	default:
		return false
	}
}

func (p PresenceStatus) String() string {
	if p == "" {
		return string(PresenceOffline)
	}
	return string(p)
}

// MemberRecord: 길드 멤버 한 명의 스냅샷 값. 생성 후 변경하지 않는다.
type MemberRecord struct {
	ID          string
	DisplayName string
	IsBot       bool
	JoinedAt    time.Time // zero 값이면 가입일 정보 없음
	Presence    PresenceStatus
}

// HasJoinedAt 는 가입 시각이 존재하는지 여부를 반환한다.
func (m MemberRecord) HasJoinedAt() bool {
	return !m.JoinedAt.IsZero()
}

// JoinedAtOr: 가입 시각이 없으면 fallback을 반환한다.
func (m MemberRecord) JoinedAtOr(fallback time.Time) time.Time {
	if m.JoinedAt.IsZero() {
		return fallback
	}
	return m.JoinedAt
}

// RosterSnapshot: 특정 시점의 길드 멤버 목록. 같은 ID는 한 번만 포함된다.
type RosterSnapshot struct {
	GuildID   string
	GuildName string
	TakenAt   time.Time
	members   []MemberRecord
}

// NewRosterSnapshot: 중복 ID를 제거하여 스냅샷을 생성한다. (먼저 나온 레코드 우선)
func NewRosterSnapshot(guildID, guildName string, takenAt time.Time, members []MemberRecord) RosterSnapshot {
	seen := make(map[string]struct{}, len(members))
	unique := make([]MemberRecord, 0, len(members))
	for _, m := range members {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		unique = append(unique, m)
	}
	return RosterSnapshot{
		GuildID:   guildID,
		GuildName: guildName,
		TakenAt:   takenAt,
		members:   unique,
	}
}

// Members: 멤버 목록의 복사본을 반환한다.
func (s RosterSnapshot) Members() []MemberRecord {
	out := make([]MemberRecord, len(s.members))
	copy(out, s.members)
	return out
}

// Len 는 멤버 수를 반환한다.
func (s RosterSnapshot) Len() int {
	return len(s.members)
}

// Humans: 봇 계정을 제외한 멤버 목록을 입력 순서대로 반환한다.
func (s RosterSnapshot) Humans() []MemberRecord {
	out := make([]MemberRecord, 0, len(s.members))
	for _, m := range s.members {
		if m.IsBot {
			continue
		}
		out = append(out, m)
	}
	return out
}

// AggregateCount: 봇이 아닌 멤버 중 활성 인원과 전체 인원. Active <= Total.
type AggregateCount struct {
	Active int `json:"active"`
	Total  int `json:"total"`
}
