package domain

// Event: 게이트웨이 콜백을 변환한 타입 이벤트. bot 패키지가 라우팅한다.
type Event interface {
	Kind() string
}

// GuildInfo 는 Ready 시점의 길드 요약이다.
type GuildInfo struct {
	ID          string
	Name        string
	MemberCount int
}

// ReadyEvent: 게이트웨이 인증 완료. 재연결 시에도 다시 발생한다.
type ReadyEvent struct {
	BotUserID string
	BotTag    string
	Guilds    []GuildInfo
}

// GuildAvailableEvent: 길드 정보가 state 에 적재됨 (Ready 이후 길드마다 한 번, 재연결 시 다시 발생).
type GuildAvailableEvent struct {
	Guild GuildInfo
}

// MemberJoinedEvent 는 멤버 입장 이벤트다. MemberCount 는 입장 반영 후 길드 인원이다.
type MemberJoinedEvent struct {
	GuildID     string
	GuildName   string
	UserID      string
	Username    string
	IsBot       bool
	MemberCount int
}

// MemberLeftEvent 는 멤버 퇴장 이벤트다.
type MemberLeftEvent struct {
	GuildID  string
	UserID   string
	Username string
}

// PresenceChangedEvent 는 멤버 presence 변경 이벤트다.
type PresenceChangedEvent struct {
	GuildID string
	UserID  string
	Status  PresenceStatus
}

// MessageEvent: 길드 채널 텍스트 메시지
type MessageEvent struct {
	GuildID    string
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorName string
	AuthorBot  bool
	Content    string
	Responder  Responder
}

// InteractionEvent: 슬래시 명령 호출
type InteractionEvent struct {
	GuildID   string
	ChannelID string
	UserID    string
	UserName  string
	Command   string
	Options   map[string]any
	Responder Responder
}

// Kind 는 이벤트 종류 이름이다.
func (ReadyEvent) Kind() string { return "ready" }

// Kind 는 이벤트 종류 이름이다.
func (GuildAvailableEvent) Kind() string { return "guild_available" }

// Kind 는 이벤트 종류 이름이다.
func (MemberJoinedEvent) Kind() string { return "member_joined" }

// Kind 는 이벤트 종류 이름이다.
func (MemberLeftEvent) Kind() string { return "member_left" }

// Kind 는 이벤트 종류 이름이다.
func (PresenceChangedEvent) Kind() string { return "presence_changed" }

// Kind 는 이벤트 종류 이름이다.
func (MessageEvent) Kind() string { return "message" }

// Kind 는 이벤트 종류 이름이다.
func (InteractionEvent) Kind() string { return "interaction" }
