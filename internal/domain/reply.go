package domain

import "time"

// EmbedField 는 임베드 필드다.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed: 플랫폼 독립적인 리치 메시지 표현. discord 어댑터가 SDK 타입으로 변환한다.
type Embed struct {
	Title        string
	Description  string
	Color        int
	Fields       []EmbedField
	ImageURL     string
	ThumbnailURL string
	FooterText   string
	FooterIcon   string
	Timestamp    time.Time
}

// Reply: 명령어 응답 페이로드. Ephemeral이면 요청자에게만 보인다.
type Reply struct {
	Content   string
	Embeds    []Embed
	Ephemeral bool
}

// ActivityKind 는 봇 활동 표시 종류다.
type ActivityKind int

// ActivityKind 상수 목록.
const (
	ActivityWatching ActivityKind = iota
	ActivityPlaying
	ActivityListening
)

func (k ActivityKind) String() string {
	switch k {
	case ActivityPlaying:
		return "Playing"
	case ActivityListening:
		return "Listening"
	default:
		return "Watching"
	}
}

// PresenceUpdate: 봇 자신의 presence에 적용할 값.
type PresenceUpdate struct {
	Label  string
	Kind   ActivityKind
	Status PresenceStatus
}
