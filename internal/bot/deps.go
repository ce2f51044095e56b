package bot

import (
	"context"
	"log/slog"

	"github.com/park285/guild-status-bot-go/internal/command"
	"github.com/park285/guild-status-bot-go/internal/config"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/metrics"
	"github.com/park285/guild-status-bot-go/internal/service/activity"
)

// Gateway: bot 이 직접 사용하는 게이트웨이 기능 (discord.Session 구현)
type Gateway interface {
	FindChannelByName(guildID, name string) (string, bool)
	SendChannelMessage(ctx context.Context, channelID, content string) error
}

// Scheduler 는 scheduler.Scheduler 의 트리거/수명 기능이다.
type Scheduler interface {
	Start(ctx context.Context, guild domain.GuildContext) error
	TriggerPresence() bool
	Stop()
}

// Republisher 는 status.Publisher 의 재적용 기능이다.
type Republisher interface {
	Republish(ctx context.Context) error
}

// Dependencies 는 타입이다.
type Dependencies struct {
	Config    *config.Config
	Logger    *slog.Logger
	Gateway   Gateway
	Scheduler Scheduler
	Publisher Republisher
	Registry  *command.Registry
	Activity  *activity.Logger
	Metrics   *metrics.Metrics
}
