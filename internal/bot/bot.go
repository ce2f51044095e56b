// Package bot: 게이트웨이 이벤트를 받아 라우팅하고 Effect 를 실행하는 봇 본체.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"golang.org/x/sync/semaphore"

	"github.com/park285/guild-status-bot-go/internal/adapter"
	"github.com/park285/guild-status-bot-go/internal/command"
	"github.com/park285/guild-status-bot-go/internal/config"
	"github.com/park285/guild-status-bot-go/internal/constants"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/metrics"
	"github.com/park285/guild-status-bot-go/internal/service/activity"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

var errCommandBusy = errors.New("command workers busy")

// Bot: 이벤트 버스 + 라우터 + executor. 상태는 mu 로 보호되며 라우팅은 게이트웨이 수신 순서대로 일어난다.
type Bot struct {
	config    *config.Config
	logger    *slog.Logger
	gateway   Gateway
	scheduler Scheduler
	publisher Republisher
	registry  *command.Registry
	activity  *activity.Logger
	metrics   *metrics.Metrics
	router    *Router

	ctx    context.Context
	cancel context.CancelFunc
	tasks  conc.WaitGroup
	slots  *semaphore.Weighted // 동시에 실행할 수 있는 명령 수

	mu      sync.Mutex
	state   RouterState
	closing bool
	gate    sync.RWMutex // Publish 진행 중에는 tasks.Wait 를 시작하지 않는다
}

// NewBot: 필요한 의존성(Dependencies)을 주입받아 새로운 Bot 인스턴스를 생성한다.
func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("bot dependencies are required")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config dependency is required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("gateway dependency is required")
	}
	if deps.Scheduler == nil {
		return nil, fmt.Errorf("scheduler dependency is required")
	}
	if deps.Publisher == nil {
		return nil, fmt.Errorf("publisher dependency is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("command registry dependency is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := deps.Config.Bot.CommandWorkers
	if workers <= 0 {
		workers = constants.BotDefaults.CommandWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		config:    deps.Config,
		logger:    logger,
		gateway:   deps.Gateway,
		scheduler: deps.Scheduler,
		publisher: deps.Publisher,
		registry:  deps.Registry,
		activity:  deps.Activity,
		metrics:   deps.Metrics,
		router:    NewRouter(deps.Config.Bot.Prefix),
		ctx:       ctx,
		cancel:    cancel,
		slots:     semaphore.NewWeighted(int64(workers)),
		state: RouterState{
			PreferredGuildID: deps.Config.Discord.GuildID,
			WelcomeChannel:   deps.Config.Bot.WelcomeChannel,
		},
	}, nil
}

// Run: ctx 가 끝날 때까지 대기한 뒤 진행 중인 작업과 스케줄러를 정리한다.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting guild status bot...")

	select {
	case <-ctx.Done():
	case <-b.ctx.Done():
	}

	b.shutdown()
	b.logger.Info("Bot stopped")
	return nil
}

func (b *Bot) shutdown() {
	b.mu.Lock()
	if b.closing {
		b.mu.Unlock()
		return
	}
	b.closing = true
	b.mu.Unlock()

	b.cancel()
	b.gate.Lock()
	b.tasks.Wait()
	b.gate.Unlock()
	b.scheduler.Stop()
}

// State 는 현재 라우터 상태 사본을 반환한다.
func (b *Bot) State() RouterState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Publish: discord.EventSink 구현. 라우팅과 가벼운 Effect 는 호출자 고루틴에서, 외부 호출은 백그라운드에서 실행한다.
// 게이트웨이 이벤트 고루틴에서 호출되므로 어떤 경우에도 워커를 기다리지 않는다.
func (b *Bot) Publish(ev domain.Event) {
	if ev == nil {
		return
	}
	b.metrics.Event(ev.Kind())

	b.gate.RLock()
	defer b.gate.RUnlock()

	b.mu.Lock()
	if b.closing {
		b.mu.Unlock()
		return
	}
	effects := b.router.Route(ev, b.state)
	b.mu.Unlock()

	for _, effect := range effects {
		b.apply(effect)
	}
}

func (b *Bot) apply(effect Effect) {
	switch e := effect.(type) {
	case SelectGuildEffect:
		b.mu.Lock()
		b.state.ReadySeen = true
		b.state.TargetGuildID = e.GuildID
		b.mu.Unlock()
		if e.GuildID == "" {
			b.logger.Error("No guild found. Ensure the bot is in a server and the guild ID is correct.")
		}

	case StartEffect:
		b.mu.Lock()
		b.state.Started = true
		b.state.Guild = e.Guild
		b.mu.Unlock()
		b.spawn("scheduler_start", func(ctx context.Context) {
			if err := b.scheduler.Start(ctx, e.Guild); err != nil {
				b.logger.Error("Scheduler start failed", slog.Any("error", err))
				return
			}
			b.logger.Info("Guild ready",
				slog.String("guild_id", e.Guild.GuildID),
				slog.String("guild_name", e.Guild.GuildName),
			)
		})

	case RepublishEffect:
		b.spawn("republish", func(ctx context.Context) {
			if err := b.publisher.Republish(ctx); err != nil {
				b.logger.Warn("Republish presence after reconnect failed", slog.Any("error", err))
			}
		})

	case TriggerPresenceEffect:
		b.scheduler.TriggerPresence()

	case WelcomeEffect:
		b.spawn("welcome", func(ctx context.Context) { b.welcome(ctx, e) })

	case AuditEffect:
		b.activity.Record(e.Entry)

	case LogEffect:
		b.logger.LogAttrs(b.ctx, e.Level, e.Message, e.Attrs...)

	case CommandEffect:
		b.runCommand(e)
	}
}

// runCommand: 빈 슬롯이 없으면 기다리지 않고 바쁨 응답을 보낸다. 게이트웨이 콜백은 막히지 않는다.
func (b *Bot) runCommand(e CommandEffect) {
	if !b.slots.TryAcquire(1) {
		b.metrics.Command(e.Name, errCommandBusy)
		b.logger.Warn("Command rejected: all workers busy",
			slog.String("command", e.Name),
			slog.String("user_id", e.UserID),
		)
		if e.Responder != nil {
			b.spawn("busy_reply", func(ctx context.Context) {
				b.replyPrivate(ctx, e, adapter.ErrBotBusy)
			})
		}
		return
	}
	b.spawn("command", func(ctx context.Context) {
		defer b.slots.Release(1)
		b.dispatch(ctx, e)
	})
}

// spawn: 백그라운드 고루틴에서 실행한다. 호출자를 막지 않으며 shutdown 이 모두 기다린다.
func (b *Bot) spawn(name string, fn func(ctx context.Context)) {
	b.tasks.Go(func() {
		var catcher panics.Catcher
		catcher.Try(func() { fn(b.ctx) })
		if recovered := catcher.Recovered(); recovered != nil {
			b.logger.Error("Panic in background task",
				slog.String("task", name),
				slog.Any("panic", recovered.Value),
				slog.String("stack", string(recovered.Stack)),
			)
		}
	})
}

func (b *Bot) welcome(ctx context.Context, e WelcomeEffect) {
	channelID, ok := b.gateway.FindChannelByName(e.GuildID, e.ChannelName)
	if !ok {
		b.logger.Warn("No welcome channel found in guild",
			slog.String("channel", e.ChannelName),
			slog.String("guild_id", e.GuildID),
		)
		return
	}
	if err := b.gateway.SendChannelMessage(ctx, channelID, e.Text); err != nil {
		b.logger.Error("Failed to send welcome message",
			slog.String("guild_id", e.GuildID),
			slog.String("channel_id", channelID),
			slog.Any("error", err),
		)
	}
}

// dispatch: 명령 실행 경계. panic 을 포함한 모든 실패를 공통 오류 응답으로 바꾼다.
func (b *Bot) dispatch(ctx context.Context, e CommandEffect) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout.BotCommand)
	defer cancel()

	cmdCtx := domain.NewCommandContext(e.Guild, e.ChannelID, e.UserID, e.UserName, e.Legacy, e.Responder)

	b.logger.Info("Command received",
		slog.String("command", e.Name),
		slog.Bool("legacy", e.Legacy),
		slog.String("user_id", e.UserID),
		slog.String("user_name", e.UserName),
		slog.String("channel_id", e.ChannelID),
	)

	started := time.Now()
	var err error
	var catcher panics.Catcher
	catcher.Try(func() {
		err = b.registry.Execute(ctx, cmdCtx, e.Name, e.Params)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		err = fmt.Errorf("command %s panicked: %w", e.Name, recovered.AsError())
	}
	b.metrics.Command(e.Name, err)

	if err == nil {
		b.logger.Debug("Command completed", slog.String("command", e.Name), slog.Duration("elapsed", time.Since(started)))
		return
	}

	switch {
	case apperrors.IsExpectedUserBehavior(err):
		b.logger.Debug("Command rejected", slog.String("command", e.Name), slog.Any("error", err))
	case errors.Is(err, command.ErrUnknownCommand):
		b.logger.Warn("Unknown command", slog.String("command", e.Name))
	default:
		b.logger.Error("Error handling command", slog.String("command", e.Name), slog.Any("error", err))
	}

	if e.Responder == nil {
		return
	}
	b.replyPrivate(ctx, e, adapter.ErrCommandExecuteFailed)
}

func (b *Bot) replyPrivate(ctx context.Context, e CommandEffect, content string) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout.BotCommand)
	defer cancel()
	if err := e.Responder.Reply(ctx, domain.Reply{Content: content, Ephemeral: true}); err != nil {
		b.logger.Warn("Failed to send error reply", slog.String("command", e.Name), slog.Any("error", err))
	}
}
