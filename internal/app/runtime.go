// Package app: 설정으로부터 봇 런타임(세션, 스케줄러, 명령어, HTTP 서버)을 조립한다.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/park285/guild-status-bot-go/internal/bootstrap"
	"github.com/park285/guild-status-bot-go/internal/bot"
	"github.com/park285/guild-status-bot-go/internal/command"
	"github.com/park285/guild-status-bot-go/internal/config"
	"github.com/park285/guild-status-bot-go/internal/constants"
	"github.com/park285/guild-status-bot-go/internal/discord"
	"github.com/park285/guild-status-bot-go/internal/metrics"
	"github.com/park285/guild-status-bot-go/internal/server"
	"github.com/park285/guild-status-bot-go/internal/service/scheduler"
	"github.com/park285/guild-status-bot-go/internal/service/status"
)

// AppName 은 로그와 HTTP 서버에 쓰는 런타임 이름이다.
const AppName = "guild-status-bot"

// BotRuntime 는 타입이다.
type BotRuntime struct {
	Config *config.Config
	Logger *slog.Logger

	Session   *discord.Session
	Publisher *status.Publisher
	Scheduler *scheduler.Scheduler
	Registry  *command.Registry
	Bot       *bot.Bot
	Metrics   *metrics.Metrics
	Server    *http.Server

	unsubscribe func()
}

// BuildRuntime: 의존성을 순서대로 조립한다. 게이트웨이 연결은 Run 에서 시작된다.
func BuildRuntime(cfg *config.Config, logger *slog.Logger) (*BotRuntime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	m := metrics.New()

	session, err := ProvideSession(cfg, logger)
	if err != nil {
		return nil, err
	}
	publisher, err := ProvidePublisher(cfg, session, m, logger)
	if err != nil {
		return nil, err
	}
	paginator, err := ProvidePaginator(cfg, logger)
	if err != nil {
		return nil, err
	}

	// 명령어 레지스트리는 스케줄러(명시적 갱신)에 의존하므로 시작 훅에서는 지연 참조한다.
	var registry *command.Registry
	sched, err := ProvideScheduler(cfg, session, publisher,
		registerCommandsHook(session, func() *command.Registry { return registry }), m, logger)
	if err != nil {
		return nil, err
	}

	activityLogger := ProvideActivityLogger(cfg, logger)
	registry = command.NewDefaultRegistry(ProvideCommandDependencies(session, publisher, paginator, sched, activityLogger, m, logger))

	b, err := ProvideBot(cfg, session, sched, publisher, registry, activityLogger, m, logger)
	if err != nil {
		return nil, err
	}

	httpServer := ProvideHTTPServer(cfg, server.Dependencies{
		Version:   cfg.Version,
		LogLevel:  cfg.Logging.Level,
		Logger:    logger,
		Gateway:   session,
		Scheduler: sched,
		Bot:       b,
		Presence:  publisher,
		Activity:  activityLogger,
		Metrics:   m,
	})

	return &BotRuntime{
		Config:      cfg,
		Logger:      logger,
		Session:     session,
		Publisher:   publisher,
		Scheduler:   sched,
		Registry:    registry,
		Bot:         b,
		Metrics:     m,
		Server:      httpServer,
		unsubscribe: session.Subscribe(b),
	}, nil
}

// Run: 게이트웨이, 봇, HTTP 서버를 함께 실행하고 SIGINT/SIGTERM 또는 오류 시 모두 정리한다.
func (r *BotRuntime) Run(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	defer r.Close()

	return bootstrap.Run(ctx, r.Logger, AppName, r.Server, constants.ServerTimeout.Shutdown,
		bootstrap.BackgroundTask{Name: "gateway", ErrorLogKey: "gateway_failed", Run: r.Session.Run},
		bootstrap.BackgroundTask{Name: "bot", ErrorLogKey: "bot_failed", Run: r.Bot.Run},
	)
}

// Close - 이벤트 구독 해제
func (r *BotRuntime) Close() {
	if r != nil && r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}
