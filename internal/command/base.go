package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

// BaseCommand: 모든 커맨드가 공통으로 가지는 기본 의존성과 검증 로직을 제공합니다.
type BaseCommand struct {
	deps *Dependencies
}

// NewBaseCommand: 새로운 BaseCommand 인스턴스를 생성합니다.
func NewBaseCommand(deps *Dependencies) BaseCommand {
	return BaseCommand{deps: deps}
}

// EnsureBaseDeps: 기본 의존성이 올바르게 설정되었는지 검증합니다.
// Logger, Now 는 비어 있으면 log()/now() 가 기본값을 사용한다.
func (b *BaseCommand) EnsureBaseDeps() error {
	if b == nil || b.deps == nil {
		return fmt.Errorf("command dependencies not configured")
	}
	if b.deps.Formatter == nil {
		return fmt.Errorf("response formatter not configured")
	}
	return nil
}

// Deps: 의존성 객체를 반환합니다.
func (b *BaseCommand) Deps() *Dependencies {
	if b == nil {
		return nil
	}
	return b.deps
}

func (b *BaseCommand) log() *slog.Logger {
	if b.deps == nil || b.deps.Logger == nil {
		return slog.Default()
	}
	return b.deps.Logger
}

func (b *BaseCommand) now() time.Time {
	if b.deps == nil || b.deps.Now == nil {
		return time.Now()
	}
	return b.deps.Now()
}

// reply: 요청자 채널로 응답한다.
func reply(ctx context.Context, cmdCtx *domain.CommandContext, r domain.Reply) error {
	if cmdCtx == nil || cmdCtx.Responder == nil {
		return fmt.Errorf("command responder not configured")
	}
	if err := cmdCtx.Responder.Reply(ctx, r); err != nil {
		return fmt.Errorf("send reply failed: %w", err)
	}
	return nil
}

// replyPrivate: 요청자에게만 보이는 텍스트 응답
func replyPrivate(ctx context.Context, cmdCtx *domain.CommandContext, content string) error {
	return reply(ctx, cmdCtx, domain.Reply{Content: content, Ephemeral: true})
}

// replyText: 채널 전체에 보이는 텍스트 응답
func replyText(ctx context.Context, cmdCtx *domain.CommandContext, content string) error {
	return reply(ctx, cmdCtx, domain.Reply{Content: content})
}

func replyEmbed(ctx context.Context, cmdCtx *domain.CommandContext, embed domain.Embed) error {
	return reply(ctx, cmdCtx, domain.Reply{Embeds: []domain.Embed{embed}})
}

func getStringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}
