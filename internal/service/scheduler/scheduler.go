// Package scheduler: 활동 상태 재계산(조회 → 집계 → 게시)을 언제 실행할지 결정하는 상태 기계.
//
// 상태는 Idle 과 Pending 두 가지다. presence 변경은 debounce(마지막 이벤트 후 Delay 경과 시 1회)
// 또는 즉시 실행 중 하나로 처리하며, 재계산은 항상 한 번에 하나만 실행된다.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sourcegraph/conc/panics"

	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/metrics"
	"github.com/park285/guild-status-bot-go/internal/service/presence"
	"github.com/park285/guild-status-bot-go/internal/service/roster"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

// ErrAlreadyStarted: Start 를 두 번 호출했을 때 반환된다.
var ErrAlreadyStarted = errors.New("scheduler already started")

// ErrStopped: Stop 이후 Start 를 호출했을 때 반환된다.
var ErrStopped = errors.New("scheduler stopped")

// State 는 스케줄러 상태다.
type State int

// State 상수 목록.
const (
	StateIdle State = iota
	StatePending
)

func (s State) String() string {
	if s == StatePending {
		return "pending"
	}
	return "idle"
}

// Source 는 재계산 트리거 출처다.
type Source string

// Source 상수 목록.
const (
	SourceStartup  Source = "startup"
	SourceExplicit Source = "explicit"
	SourcePresence Source = "presence"
)

// Config: Debounced 가 false 면 presence 트리거마다 즉시 재계산한다.
type Config struct {
	Debounced  bool
	Delay      time.Duration
	RunTimeout time.Duration
}

// LabelPublisher 는 status.Publisher 의 게시 기능이다.
type LabelPublisher interface {
	Publish(ctx context.Context, label string) error
}

// Dependencies 는 스케줄러 의존성 모음이다.
type Dependencies struct {
	Provider  roster.Provider
	Publisher LabelPublisher
	OnStartup func(ctx context.Context) error // 1회성 명령어 등록 등
	Clock     quartz.Clock
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// RunResult 는 재계산 1회의 결과다.
type RunResult struct {
	Source     Source                `json:"source"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Count      domain.AggregateCount `json:"count"`
	Label      string                `json:"label"`
	Err        error                 `json:"-"`
}

// Scheduler 는 재계산 상태 기계다. 상태 전이는 mu 로 보호되며 타이머 콜백과 트리거가 같은 락을 사용한다.
type Scheduler struct {
	cfg       Config
	provider  roster.Provider
	publisher LabelPublisher
	onStartup func(ctx context.Context) error
	clock     quartz.Clock
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu         sync.Mutex
	ctx        context.Context
	guild      domain.GuildContext
	starting   bool
	started    bool
	stopped    bool
	timer      *quartz.Timer
	generation uint64
	pending    int // 요청되었으나 아직 끝나지 않은 재계산 수
	last       RunResult
	hasLast    bool

	runMu    sync.Mutex // 재계산 직렬화
	inflight sync.WaitGroup
}

// New 는 스케줄러를 생성한다.
func New(cfg Config, deps Dependencies) (*Scheduler, error) {
	if deps.Provider == nil {
		return nil, fmt.Errorf("roster provider dependency is required")
	}
	if deps.Publisher == nil {
		return nil, fmt.Errorf("publisher dependency is required")
	}
	if cfg.Debounced && cfg.Delay <= 0 {
		return nil, fmt.Errorf("debounce delay must be positive: %s", cfg.Delay)
	}
	if cfg.RunTimeout <= 0 {
		return nil, fmt.Errorf("run timeout must be positive: %s", cfg.RunTimeout)
	}
	if deps.Clock == nil {
		deps.Clock = quartz.NewReal()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Scheduler{
		cfg:       cfg,
		provider:  deps.Provider,
		publisher: deps.Publisher,
		onStartup: deps.OnStartup,
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}, nil
}

// Start: 시작 트리거. 호출자 고루틴에서 한 번만 동기 실행한다.
// 시작 훅 → 강제 전체 조회 → 집계 → 게시 후에야 presence/명시 트리거를 받기 시작한다.
// 재계산 실패는 로그로 남기고 LastRun 으로 확인할 수 있으며 Start 자체는 실패하지 않는다.
func (s *Scheduler) Start(ctx context.Context, guild domain.GuildContext) error {
	s.mu.Lock()
	switch {
	case s.stopped:
		s.mu.Unlock()
		return ErrStopped
	case s.starting || s.started:
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.starting = true
	s.ctx = ctx
	s.guild = guild
	s.pending++
	s.inflight.Add(1)
	s.mu.Unlock()

	s.metrics.Trigger(string(SourceStartup), "accepted")

	if s.onStartup != nil {
		if err := s.onStartup(ctx); err != nil {
			s.logger.Error("Startup hook failed", slog.Any("error", err))
		}
	}

	s.execute(SourceStartup)

	s.mu.Lock()
	s.starting = false
	s.started = !s.stopped
	s.mu.Unlock()

	s.logger.Info("Scheduler armed",
		slog.Bool("debounced", s.cfg.Debounced),
		slog.Duration("delay", s.cfg.Delay),
	)
	return nil
}

// TriggerPresence: presence 변경 트리거. debounce 모드에서는 타이머를 Delay 로 (재)설정하고,
// 즉시 모드에서는 바로 재계산을 요청한다.
func (s *Scheduler) TriggerPresence() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(SourcePresence) {
		return false
	}
	if !s.cfg.Debounced {
		s.launchLocked(SourcePresence)
		return true
	}

	s.armLocked()
	return true
}

// TriggerExplicit: 명시적 갱신 요청. 대기 중인 debounce 타이머를 취소하고 즉시 재계산한다.
// 호출자는 결과를 기다리지 않는다.
func (s *Scheduler) TriggerExplicit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(SourceExplicit) {
		return false
	}
	s.cancelTimerLocked()
	s.launchLocked(SourceExplicit)
	return true
}

// State 는 현재 상태를 반환한다. 타이머가 대기 중이거나 재계산이 진행 중이면 Pending.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// LastRun 은 마지막 재계산 결과를 반환한다.
func (s *Scheduler) LastRun() (RunResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Config 는 스케줄러 정책을 반환한다.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Stop: 대기 중인 타이머를 취소하고 진행 중인 재계산이 끝날 때까지 기다린다. 이후 트리거는 무시된다.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cancelTimerLocked()
	s.mu.Unlock()

	s.inflight.Wait()
}

func (s *Scheduler) acceptLocked(source Source) bool {
	if !s.started || s.stopped {
		s.metrics.Trigger(string(source), "dropped")
		s.logger.Debug("Trigger dropped",
			slog.String("source", string(source)),
			slog.Bool("started", s.started),
			slog.Bool("stopped", s.stopped),
		)
		return false
	}
	s.metrics.Trigger(string(source), "accepted")
	return true
}

func (s *Scheduler) stateLocked() State {
	if s.timer != nil || s.pending > 0 {
		return StatePending
	}
	return StateIdle
}

// armLocked: 기존 타이머를 멈추고 새 세대 번호로 타이머를 건다. 늦게 깨어난 이전 콜백은 세대 불일치로 무시된다.
func (s *Scheduler) armLocked() {
	s.cancelTimerLocked()
	gen := s.generation
	s.timer = s.clock.AfterFunc(s.cfg.Delay, func() { s.fire(gen) }, "scheduler", "debounce")
}

func (s *Scheduler) cancelTimerLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.stopped || s.timer == nil {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.pending++
	s.inflight.Add(1)
	s.mu.Unlock()

	s.execute(SourcePresence)
}

func (s *Scheduler) launchLocked(source Source) {
	s.pending++
	s.inflight.Add(1)
	go s.execute(source)
}

// execute: pending/inflight 카운트는 호출 전에 증가되어 있어야 한다.
func (s *Scheduler) execute(source Source) {
	defer s.inflight.Done()

	s.runMu.Lock()
	result := s.recompute(source)
	s.runMu.Unlock()

	s.mu.Lock()
	s.pending--
	s.last = result
	s.hasLast = true
	s.mu.Unlock()
}

func (s *Scheduler) recompute(source Source) RunResult {
	s.mu.Lock()
	baseCtx := s.ctx
	guild := s.guild
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(baseCtx, s.cfg.RunTimeout)
	defer cancel()

	result := RunResult{Source: source, StartedAt: s.clock.Now()}

	var catcher panics.Catcher
	catcher.Try(func() {
		result.Count, result.Label, result.Err = s.pipeline(ctx, guild, source)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		result.Err = fmt.Errorf("recompute panicked: %w", recovered.AsError())
	}
	result.FinishedAt = s.clock.Now()

	s.metrics.Recompute(result.Err, result.FinishedAt.Sub(result.StartedAt))
	if result.Err != nil {
		s.logger.Error("Error updating activity",
			slog.String("source", string(source)),
			slog.String("guild_id", guild.GuildID),
			slog.Any("error", result.Err),
		)
		return result
	}

	s.metrics.RosterCounts(result.Count.Active, result.Count.Total)
	return result
}

func (s *Scheduler) pipeline(ctx context.Context, guild domain.GuildContext, source Source) (domain.AggregateCount, string, error) {
	snapshot, err := s.provider.FetchRoster(ctx, guild.GuildID, roster.FetchOptions{
		WithPresence: true,
		Force:        source == SourceStartup,
	})
	if err != nil {
		var fetchErr apperrors.FetchError
		if !errors.As(err, &fetchErr) {
			err = apperrors.FetchError{GuildID: guild.GuildID, Force: source == SourceStartup, Err: err}
		}
		return domain.AggregateCount{}, "", err
	}

	count := presence.Aggregate(snapshot)
	guildName := snapshot.GuildName
	if guildName == "" {
		guildName = guild.GuildName
	}
	label := presence.FormatLabel(count, guildName)

	if err := s.publisher.Publish(ctx, label); err != nil {
		return count, label, fmt.Errorf("publish activity: %w", err)
	}
	return count, label, nil
}
