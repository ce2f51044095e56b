package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/quartz"

	"github.com/park285/guild-status-bot-go/internal/adapter"
	"github.com/park285/guild-status-bot-go/internal/bootstrap"
	"github.com/park285/guild-status-bot-go/internal/bot"
	"github.com/park285/guild-status-bot-go/internal/command"
	"github.com/park285/guild-status-bot-go/internal/config"
	"github.com/park285/guild-status-bot-go/internal/constants"
	"github.com/park285/guild-status-bot-go/internal/discord"
	"github.com/park285/guild-status-bot-go/internal/metrics"
	"github.com/park285/guild-status-bot-go/internal/server"
	"github.com/park285/guild-status-bot-go/internal/service/activity"
	"github.com/park285/guild-status-bot-go/internal/service/roster"
	"github.com/park285/guild-status-bot-go/internal/service/scheduler"
	"github.com/park285/guild-status-bot-go/internal/service/status"
)

// ProvideSession - 게이트웨이 세션 생성 (토큰은 여기서 한 번만 소비)
func ProvideSession(cfg *config.Config, logger *slog.Logger) (*discord.Session, error) {
	session, err := discord.NewSession(cfg.Discord.Token, logger)
	if err != nil {
		return nil, fmt.Errorf("provide discord session failed: %w", err)
	}
	return session, nil
}

// ProvidePublisher - 봇 presence 게시기 생성
func ProvidePublisher(cfg *config.Config, sink status.Sink, m *metrics.Metrics, logger *slog.Logger) (*status.Publisher, error) {
	publisher, err := status.NewPublisher(sink, logger, status.Options{
		MinInterval: cfg.Presence.MinInterval,
		Burst:       cfg.Presence.Burst,
		Metrics:     m,
	})
	if err != nil {
		return nil, fmt.Errorf("provide status publisher failed: %w", err)
	}
	return publisher, nil
}

// ProvidePaginator - 멤버 목록 페이지네이터 생성
func ProvidePaginator(cfg *config.Config, logger *slog.Logger) (*roster.Paginator, error) {
	paginator, err := roster.NewPaginator(roster.Options{
		MaxChunkChars: cfg.Roster.MaxChunkChars,
		MaxChunks:     cfg.Roster.MaxChunks,
		CeilingChars:  cfg.Roster.CeilingChars,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("provide paginator failed: %w", err)
	}
	return paginator, nil
}

// ProvideScheduler - 재계산 스케줄러 생성. onStartup 은 첫 재계산 직전에 한 번 실행된다.
func ProvideScheduler(
	cfg *config.Config,
	provider roster.Provider,
	publisher scheduler.LabelPublisher,
	onStartup func(ctx context.Context) error,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*scheduler.Scheduler, error) {
	sched, err := scheduler.New(scheduler.Config{
		Debounced:  cfg.Scheduler.Debounced,
		Delay:      cfg.Scheduler.Delay,
		RunTimeout: cfg.Scheduler.RunTimeout,
	}, scheduler.Dependencies{
		Provider:  provider,
		Publisher: publisher,
		OnStartup: onStartup,
		Clock:     quartz.NewReal(),
		Logger:    logger,
		Metrics:   m,
	})
	if err != nil {
		return nil, fmt.Errorf("provide scheduler failed: %w", err)
	}
	return sched, nil
}

// ProvideActivityLogger - 감사 로그 생성 (경로가 비어 있으면 nil)
func ProvideActivityLogger(cfg *config.Config, logger *slog.Logger) *activity.Logger {
	return activity.NewLogger(cfg.Audit.Path, logger)
}

// ProvideCommandDependencies - 명령어 의존성 모음 구성
func ProvideCommandDependencies(
	session *discord.Session,
	publisher *status.Publisher,
	paginator *roster.Paginator,
	sched *scheduler.Scheduler,
	activityLogger *activity.Logger,
	m *metrics.Metrics,
	logger *slog.Logger,
) *command.Dependencies {
	return &command.Dependencies{
		Status:    publisher,
		Roster:    session,
		Members:   session,
		Paginator: paginator,
		Refresh:   sched,
		Formatter: adapter.NewResponseFormatter(),
		Activity:  activityLogger,
		Metrics:   m,
		Logger:    logger,
	}
}

// ProvideBot - 봇 본체 생성
func ProvideBot(
	cfg *config.Config,
	session *discord.Session,
	sched *scheduler.Scheduler,
	publisher *status.Publisher,
	registry *command.Registry,
	activityLogger *activity.Logger,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*bot.Bot, error) {
	b, err := bot.NewBot(&bot.Dependencies{
		Config:    cfg,
		Logger:    logger,
		Gateway:   session,
		Scheduler: sched,
		Publisher: publisher,
		Registry:  registry,
		Activity:  activityLogger,
		Metrics:   m,
	})
	if err != nil {
		return nil, fmt.Errorf("provide bot failed: %w", err)
	}
	return b, nil
}

// ProvideHTTPServer - 운영용 HTTP 서버 생성 (비활성화면 nil)
func ProvideHTTPServer(cfg *config.Config, deps server.Dependencies) *http.Server {
	if !cfg.Server.Enabled {
		return nil
	}
	router := server.NewRouter(deps)
	return bootstrap.NewHTTPServer(cfg.Server.Addr(), router, constants.ServerTimeout.ReadHeader, constants.ServerTimeout.Idle)
}

// registerCommandsHook: 스케줄러 시작 훅. 슬래시 명령 정의를 전역으로 덮어쓴다.
func registerCommandsHook(registrar commandRegistrar, registry func() *command.Registry) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		r := registry()
		if r == nil {
			return fmt.Errorf("command registry not initialized")
		}
		return registrar.RegisterCommands(ctx, r.Definitions())
	}
}

type commandRegistrar interface {
	RegisterCommands(ctx context.Context, defs []command.Definition) error
}
