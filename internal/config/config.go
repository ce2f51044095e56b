package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/park285/guild-status-bot-go/internal/constants"
)

// Config: 길드 상태 봇의 전체 동작에 필요한 설정을 담는 구조체
type Config struct {
	Discord   DiscordConfig
	Scheduler SchedulerConfig
	Presence  PresenceConfig
	Roster    RosterConfig
	Server    ServerConfig
	Logging   LoggingConfig
	Audit     AuditConfig
	Bot       BotConfig
	Version   string
}

// DiscordConfig: 게이트웨이 인증 및 대상 길드 설정
type DiscordConfig struct {
	Token   string `validate:"required"`
	GuildID string // 비어 있으면 state 캐시의 첫 번째 길드 사용
}

// SchedulerConfig: 활동 상태 재계산 스케줄러 설정
type SchedulerConfig struct {
	Debounced  bool
	Delay      time.Duration `validate:"gte=0"`
	RunTimeout time.Duration `validate:"gt=0"`
}

// PresenceConfig: 봇 presence 갱신 속도 제한
type PresenceConfig struct {
	MinInterval time.Duration `validate:"gte=0"`
	Burst       int           `validate:"gte=1"`
}

// RosterConfig: 멤버 목록 페이지네이션 제한 (플랫폼 임베드 제한값)
type RosterConfig struct {
	MaxChunkChars int `validate:"gte=1"`
	MaxChunks     int `validate:"gte=1"`
	CeilingChars  int `validate:"gte=1"`
}

// ServerConfig: 운영용 HTTP 서버(/health, /status, /metrics) 설정
type ServerConfig struct {
	Enabled bool
	Host    string `validate:"required"`
	Port    int    `validate:"gte=1,lte=65535"`
}

// Addr 는 listen 주소를 반환한다.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig: 애플리케이션 로그 설정 (레벨, 디렉토리, 로테이션 정책)
type LoggingConfig struct {
	Level      string `validate:"oneof=debug info warn error"`
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AuditConfig: 입장/퇴장/상태 변경 JSONL 기록 경로 (비어 있으면 비활성화)
type AuditConfig struct {
	Path string
}

// BotConfig: 봇의 기본 동작(레거시 명령어 접두사, 환영 채널, 동시 처리 수) 설정
type BotConfig struct {
	Prefix         string `validate:"required"`
	WelcomeChannel string `validate:"required"`
	CommandWorkers int    `validate:"gte=1"`
}

// Load: .env 파일 및 환경 변수로부터 설정을 로드하고, 기본값을 적용하여 Config 객체를 생성한다.
func Load() (*Config, error) {
	if _, err := LoadDotenvIfPresent(); err != nil {
		return nil, fmt.Errorf("load dotenv failed: %w", err)
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// FromEnv: 현재 환경 변수만으로 Config를 구성한다. (검증은 수행하지 않음)
func FromEnv() (*Config, error) {
	debounced, err := BoolFromEnv("PRESENCE_DEBOUNCE", true)
	if err != nil {
		return nil, fmt.Errorf("read PRESENCE_DEBOUNCE failed: %w", err)
	}

	delay, err := DurationSecondsFromEnv("PRESENCE_DEBOUNCE_SECONDS", int64(constants.SchedulerConfig.DebounceDelay/time.Second))
	if err != nil {
		return nil, fmt.Errorf("read PRESENCE_DEBOUNCE_SECONDS failed: %w", err)
	}

	runTimeout, err := DurationSecondsFromEnv("UPDATE_TIMEOUT_SECONDS", int64(constants.SchedulerConfig.RunTimeout/time.Second))
	if err != nil {
		return nil, fmt.Errorf("read UPDATE_TIMEOUT_SECONDS failed: %w", err)
	}

	minInterval, err := DurationMillisFromEnv("PRESENCE_MIN_INTERVAL_MILLIS", constants.PresenceConfig.MinInterval.Milliseconds())
	if err != nil {
		return nil, fmt.Errorf("read PRESENCE_MIN_INTERVAL_MILLIS failed: %w", err)
	}

	roster, err := readRosterConfig()
	if err != nil {
		return nil, err
	}

	server, err := readServerConfig()
	if err != nil {
		return nil, err
	}

	logging, err := readLoggingConfig()
	if err != nil {
		return nil, err
	}

	workers, err := IntFromEnv("COMMAND_WORKERS", constants.BotDefaults.CommandWorkers)
	if err != nil {
		return nil, fmt.Errorf("read COMMAND_WORKERS failed: %w", err)
	}

	return &Config{
		Discord: DiscordConfig{
			Token:   normalizeToken(StringFromEnvFirstNonEmpty([]string{"DISCORD_TOKEN", "BOT_TOKEN"}, "")),
			GuildID: StringFromEnv("GUILD_ID", ""),
		},
		Scheduler: SchedulerConfig{
			Debounced:  debounced,
			Delay:      delay,
			RunTimeout: runTimeout,
		},
		Presence: PresenceConfig{
			MinInterval: minInterval,
			Burst:       constants.PresenceConfig.Burst,
		},
		Roster:  roster,
		Server:  server,
		Logging: logging,
		Audit: AuditConfig{
			Path: StringFromEnv("AUDIT_LOG_PATH", ""),
		},
		Bot: BotConfig{
			Prefix:         StringFromEnv("COMMAND_PREFIX", constants.BotDefaults.Prefix),
			WelcomeChannel: StringFromEnv("WELCOME_CHANNEL", constants.BotDefaults.WelcomeChannel),
			CommandWorkers: workers,
		},
		Version: StringFromEnv("APP_VERSION", "dev"),
	}, nil
}

func readRosterConfig() (RosterConfig, error) {
	maxChunkChars, err := IntFromEnv("ROSTER_MAX_CHUNK_CHARS", constants.DiscordLimits.MaxFieldChars)
	if err != nil {
		return RosterConfig{}, fmt.Errorf("read ROSTER_MAX_CHUNK_CHARS failed: %w", err)
	}

	maxChunks, err := IntFromEnv("ROSTER_MAX_CHUNKS", constants.DiscordLimits.MaxEmbedFields)
	if err != nil {
		return RosterConfig{}, fmt.Errorf("read ROSTER_MAX_CHUNKS failed: %w", err)
	}

	ceiling, err := IntFromEnv("ROSTER_CEILING_CHARS", constants.DiscordLimits.MaxEmbedChars)
	if err != nil {
		return RosterConfig{}, fmt.Errorf("read ROSTER_CEILING_CHARS failed: %w", err)
	}

	return RosterConfig{
		MaxChunkChars: maxChunkChars,
		MaxChunks:     maxChunks,
		CeilingChars:  ceiling,
	}, nil
}

func readServerConfig() (ServerConfig, error) {
	enabled, err := BoolFromEnv("SERVER_ENABLED", true)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_ENABLED failed: %w", err)
	}

	port, err := IntFromEnv("SERVER_PORT", constants.BotDefaults.ServerPort)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}

	return ServerConfig{
		Enabled: enabled,
		Host:    StringFromEnv("SERVER_HOST", "0.0.0.0"),
		Port:    port,
	}, nil
}

func readLoggingConfig() (LoggingConfig, error) {
	maxSizeMB, err := IntFromEnv("LOG_FILE_MAX_SIZE_MB", 10)
	if err != nil {
		return LoggingConfig{}, fmt.Errorf("read LOG_FILE_MAX_SIZE_MB failed: %w", err)
	}

	maxBackups, err := IntFromEnv("LOG_FILE_MAX_BACKUPS", 5)
	if err != nil {
		return LoggingConfig{}, fmt.Errorf("read LOG_FILE_MAX_BACKUPS failed: %w", err)
	}

	maxAgeDays, err := IntFromEnv("LOG_FILE_MAX_AGE_DAYS", 7)
	if err != nil {
		return LoggingConfig{}, fmt.Errorf("read LOG_FILE_MAX_AGE_DAYS failed: %w", err)
	}

	compress, err := BoolFromEnv("LOG_FILE_COMPRESS", true)
	if err != nil {
		return LoggingConfig{}, fmt.Errorf("read LOG_FILE_COMPRESS failed: %w", err)
	}

	return LoggingConfig{
		Level:      strings.ToLower(StringFromEnv("LOG_LEVEL", "info")),
		Dir:        StringFromEnv("LOG_DIR", ""),
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAgeDays,
		Compress:   compress,
	}, nil
}

// normalizeToken: "Bot " 접두사가 붙어 있어도 원시 토큰만 남긴다.
func normalizeToken(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bot "))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate: 필수 설정값과 값 범위를 검증한다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid %s: rule=%s", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}

	if c.Scheduler.Debounced && c.Scheduler.Delay <= 0 {
		return fmt.Errorf("PRESENCE_DEBOUNCE_SECONDS must be positive when debounce is enabled")
	}
	if c.Roster.CeilingChars < c.Roster.MaxChunkChars {
		return fmt.Errorf("ROSTER_CEILING_CHARS (%d) must be >= ROSTER_MAX_CHUNK_CHARS (%d)", c.Roster.CeilingChars, c.Roster.MaxChunkChars)
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxBackups <= 0 || c.Logging.MaxAgeDays <= 0 {
			return fmt.Errorf("invalid log rotation: size=%d backups=%d age_days=%d",
				c.Logging.MaxSizeMB, c.Logging.MaxBackups, c.Logging.MaxAgeDays)
		}
	}
	return nil
}

// String: 토큰을 제외한 설정 요약. 로그 출력용.
func (c *Config) String() string {
	if c == nil {
		return "<nil>"
	}

	token := "<unset>"
	if c.Discord.Token != "" {
		token = "<redacted>"
	}
	return fmt.Sprintf(
		"guild=%q token=%s debounce=%t delay=%s roster=%d/%d/%d server=%t:%s log=%s version=%s",
		c.Discord.GuildID, token, c.Scheduler.Debounced, c.Scheduler.Delay,
		c.Roster.MaxChunkChars, c.Roster.MaxChunks, c.Roster.CeilingChars,
		c.Server.Enabled, c.Server.Addr(), c.Logging.Level, c.Version,
	)
}
