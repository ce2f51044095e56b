package constants

import "time"

// DiscordLimits: 외부 플랫폼(Discord) 임베드 제한값. 설정 기본값으로만 사용한다.
var DiscordLimits = struct {
	MaxFieldChars  int
	MaxEmbedFields int
	MaxEmbedChars  int
}{
	MaxFieldChars:  1024,
	MaxEmbedFields: 25,
	MaxEmbedChars:  6000,
}

// SchedulerConfig 는 패키지 변수다.
var SchedulerConfig = struct {
	DebounceDelay time.Duration
	RunTimeout    time.Duration
}{
	DebounceDelay: 30 * time.Second, // presence 폭주 시 30초에 한 번만 재계산
	RunTimeout:    30 * time.Second,
}

// PresenceConfig 는 패키지 변수다.
var PresenceConfig = struct {
	MinInterval time.Duration
	Burst       int
}{
	MinInterval: 500 * time.Millisecond,
	Burst:       1,
}

// RequestTimeout 는 패키지 변수다.
var RequestTimeout = struct {
	BotCommand      time.Duration
	RosterFetch     time.Duration
	CommandRegister time.Duration
	ChannelPost     time.Duration
}{
	BotCommand:      10 * time.Second,
	RosterFetch:     20 * time.Second,
	CommandRegister: 15 * time.Second,
	ChannelPost:     10 * time.Second,
}

// BotDefaults 는 패키지 변수다.
var BotDefaults = struct {
	Prefix         string
	WelcomeChannel string
	CommandWorkers int
	ServerPort     int
}{
	Prefix:         "!",
	WelcomeChannel: "general",
	CommandWorkers: 8,
	ServerPort:     30010,
}

// ServerTimeout 는 패키지 변수다.
var ServerTimeout = struct {
	ReadHeader time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}{
	ReadHeader: 5 * time.Second,
	Idle:       90 * time.Second,
	Shutdown:   10 * time.Second,
}

// EmbedColors 는 패키지 변수다.
var EmbedColors = struct {
	Green  int
	Orange int
}{
	Green:  0x00ff00,
	Orange: 0xff9900,
}
