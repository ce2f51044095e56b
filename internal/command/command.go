package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/guild-status-bot-go/internal/adapter"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/metrics"
	"github.com/park285/guild-status-bot-go/internal/service/activity"
	"github.com/park285/guild-status-bot-go/internal/service/roster"
)

// Command: 봇 명령어를 처리하는 인터페이스 정의 (이름, 설명, 실행 로직)
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// OptionType 은 슬래시 명령 옵션 타입이다.
type OptionType string

// OptionType 상수 목록.
const (
	OptionUser   OptionType = "user"
	OptionString OptionType = "string"
)

// OptionSpec: 슬래시 명령 옵션 정의. discord 어댑터가 SDK 타입으로 변환한다.
type OptionSpec struct {
	Name        string
	Description string
	Type        OptionType
	Required    bool
}

// OptionProvider: 옵션이 있는 명령이 구현한다.
type OptionProvider interface {
	Options() []OptionSpec
}

// LegacyOnly: 접두사 텍스트 명령으로만 제공되는 명령이 구현한다 (슬래시 명령 등록 제외).
type LegacyOnly interface {
	LegacyOnly() bool
}

// StatusSetter 는 status.Publisher 의 상태 변경 기능이다.
type StatusSetter interface {
	SetStatus(ctx context.Context, status domain.PresenceStatus) error
}

// RefreshTrigger 는 scheduler.Scheduler 의 명시적 갱신 기능이다.
type RefreshTrigger interface {
	TriggerExplicit() bool
}

// Dependencies: 명령어 실행에 필요한 서비스 의존성 모음
type Dependencies struct {
	Status    StatusSetter
	Roster    roster.Provider
	Members   roster.MemberLookup
	Paginator *roster.Paginator
	Refresh   RefreshTrigger
	Formatter *adapter.ResponseFormatter
	Activity  *activity.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
	Logger    *slog.Logger
}
