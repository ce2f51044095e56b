package status

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/park285/guild-status-bot-go/internal/domain"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

type fakeSink struct {
	mu      sync.Mutex
	updates []domain.PresenceUpdate
	err     error
}

func (f *fakeSink) ApplyPresence(ctx context.Context, update domain.PresenceUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeSink) last() domain.PresenceUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[len(f.updates)-1]
}

func newTestPublisher(t *testing.T, sink Sink) *Publisher {
	t.Helper()
	p, err := NewPublisher(sink, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	return p
}

func TestPublisher_PublishSetsWatchingActivity(t *testing.T) {
	sink := &fakeSink{}
	p := newTestPublisher(t, sink)

	if err := p.Publish(context.Background(), "[4/10] on Guild"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := sink.last()
	if got.Label != "[4/10] on Guild" || got.Kind != domain.ActivityWatching || got.Status != domain.PresenceOnline {
		t.Fatalf("unexpected update: %+v", got)
	}
}

func TestPublisher_StatusAndLabelArePreserved(t *testing.T) {
	sink := &fakeSink{}
	p := newTestPublisher(t, sink)
	ctx := context.Background()

	if err := p.Publish(ctx, "[1/2] on Guild"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.SetStatus(ctx, domain.PresenceDND); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got := sink.last(); got.Label != "[1/2] on Guild" || got.Status != domain.PresenceDND {
		t.Fatalf("expected label kept with dnd, got %+v", got)
	}

	if err := p.Publish(ctx, "[2/2] on Guild"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := sink.last(); got.Label != "[2/2] on Guild" || got.Status != domain.PresenceDND {
		t.Fatalf("expected dnd kept with new label, got %+v", got)
	}
}

func TestPublisher_SetStatusRejectsOffline(t *testing.T) {
	p := newTestPublisher(t, &fakeSink{})

	err := p.SetStatus(context.Background(), domain.PresenceOffline)
	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublisher_SessionNotReady(t *testing.T) {
	sink := &fakeSink{err: apperrors.ErrSessionNotReady}
	p := newTestPublisher(t, sink)

	err := p.Publish(context.Background(), "[0/0] on Guild")

	var publishErr apperrors.PublishError
	if !errors.As(err, &publishErr) {
		t.Fatalf("expected PublishError, got %v", err)
	}
	if !errors.Is(err, apperrors.ErrSessionNotReady) {
		t.Errorf("expected ErrSessionNotReady cause")
	}
	if _, applied := p.Current(); applied {
		t.Errorf("failed publish must not be recorded as applied")
	}
}

func TestPublisher_Republish(t *testing.T) {
	sink := &fakeSink{}
	p := newTestPublisher(t, sink)
	ctx := context.Background()

	if err := p.Republish(ctx); err != nil {
		t.Fatalf("republish without history: %v", err)
	}
	if len(sink.updates) != 0 {
		t.Fatalf("expected no update before first publish")
	}

	if err := p.Publish(ctx, "[3/5] on Guild"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Republish(ctx); err != nil {
		t.Fatalf("republish: %v", err)
	}
	if len(sink.updates) != 2 || sink.updates[1] != sink.updates[0] {
		t.Fatalf("expected identical republish, got %+v", sink.updates)
	}
}

func TestPublisher_CanceledContext(t *testing.T) {
	p, err := NewPublisher(&fakeSink{}, nil, Options{MinInterval: 1 << 40, Burst: 1})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if err := p.Publish(context.Background(), "first"); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Publish(ctx, "second"); err == nil {
		t.Fatal("expected limiter wait to fail on canceled context")
	}
}

func TestNewPublisher_RequiresSink(t *testing.T) {
	if _, err := NewPublisher(nil, nil, Options{}); err == nil {
		t.Fatal("expected error for nil sink")
	}
}
