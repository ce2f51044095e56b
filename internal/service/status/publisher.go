// Package status: 봇 자신의 presence(활동 문자열 + 온라인 상태)를 게이트웨이에 반영한다.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/metrics"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

// Sink: presence 갱신을 실제로 적용하는 대상. 세션이 준비되지 않았으면 ErrSessionNotReady 를 반환해야 한다.
type Sink interface {
	ApplyPresence(ctx context.Context, update domain.PresenceUpdate) error
}

// Options 는 Publisher 생성 옵션이다.
type Options struct {
	MinInterval time.Duration // 연속 갱신 사이 최소 간격 (0이면 제한 없음)
	Burst       int
	Metrics     *metrics.Metrics
}

// Publisher: 마지막으로 요청된 활동 문자열과 상태를 기억하고 last-write-wins 로 적용한다.
// 실패는 PublishError 로 반환할 뿐 재시도하지 않는다.
type Publisher struct {
	sink    Sink
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  *slog.Logger

	sendMu  sync.Mutex // 갱신 요청 직렬화 (필드 조합 후 적용까지)
	mu      sync.Mutex
	current domain.PresenceUpdate
	applied bool
}

// NewPublisher 는 Publisher 를 생성한다.
func NewPublisher(sink Sink, logger *slog.Logger, opts Options) (*Publisher, error) {
	if sink == nil {
		return nil, fmt.Errorf("presence sink dependency is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Publisher{
		sink:    sink,
		limiter: rate.NewLimiter(limit, burst),
		metrics: opts.Metrics,
		logger:  logger,
		current: domain.PresenceUpdate{
			Kind:   domain.ActivityWatching,
			Status: domain.PresenceOnline,
		},
	}, nil
}

// Publish: 활동 문자열을 "Watching {label}" 로 설정한다. 현재 온라인 상태는 유지한다.
func (p *Publisher) Publish(ctx context.Context, label string) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	p.mu.Lock()
	next := p.current
	next.Label = label
	next.Kind = domain.ActivityWatching
	p.mu.Unlock()

	return p.apply(ctx, next)
}

// SetStatus: 온라인 상태(online/idle/dnd)를 변경한다. 마지막 활동 문자열은 유지한다.
func (p *Publisher) SetStatus(ctx context.Context, status domain.PresenceStatus) error {
	switch status {
	case domain.PresenceOnline, domain.PresenceIdle, domain.PresenceDND:
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unsupported bot status %q", status), "status")
	}

	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	p.mu.Lock()
	next := p.current
	next.Status = status
	p.mu.Unlock()

	return p.apply(ctx, next)
}

// Republish: 재연결 후 마지막으로 적용했던 presence 를 다시 보낸다. 적용 이력이 없으면 아무것도 하지 않는다.
func (p *Publisher) Republish(ctx context.Context) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	p.mu.Lock()
	if !p.applied {
		p.mu.Unlock()
		return nil
	}
	next := p.current
	p.mu.Unlock()

	return p.apply(ctx, next)
}

// Current 는 마지막으로 적용된 presence 와 적용 여부를 반환한다.
func (p *Publisher) Current() (domain.PresenceUpdate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.applied
}

func (p *Publisher) apply(ctx context.Context, next domain.PresenceUpdate) error {
	if err := p.limiter.Wait(ctx); err != nil {
		publishErr := apperrors.PublishError{Label: next.Label, Err: err}
		p.metrics.Publish(publishErr)
		return publishErr
	}

	if err := p.sink.ApplyPresence(ctx, next); err != nil {
		publishErr := apperrors.PublishError{Label: next.Label, Err: err}
		p.metrics.Publish(publishErr)
		return publishErr
	}

	p.mu.Lock()
	p.current = next
	p.applied = true
	p.mu.Unlock()

	p.metrics.Publish(nil)
	p.logger.Info("Updated activity",
		slog.String("activity", next.Kind.String()+" "+next.Label),
		slog.String("status", next.Status.String()),
	)
	return nil
}
