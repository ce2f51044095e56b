package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

// StatusCommand: /online, /idle, /dnd. 봇 자신의 온라인 상태를 바꾼다 (활동 문구는 유지).
type StatusCommand struct {
	BaseCommand
	status      domain.PresenceStatus
	description string
}

// NewStatusCommands: 세 가지 상태 변경 명령을 생성한다.
func NewStatusCommands(deps *Dependencies) []Command {
	return []Command{
		newStatusCommand(deps, domain.PresenceOnline, "Set bot status to Online"),
		newStatusCommand(deps, domain.PresenceIdle, "Set bot status to Idle"),
		newStatusCommand(deps, domain.PresenceDND, "Set bot status to Do Not Disturb"),
	}
}

func newStatusCommand(deps *Dependencies, status domain.PresenceStatus, description string) *StatusCommand {
	return &StatusCommand{BaseCommand: NewBaseCommand(deps), status: status, description: description}
}

// Name 는 동작을 수행한다.
func (c *StatusCommand) Name() string {
	return string(c.status)
}

// Description 는 동작을 수행한다.
func (c *StatusCommand) Description() string {
	return c.description
}

// Execute: 상태 변경 실패는 호출자(디스패처)에 반환해 공통 오류 응답으로 처리한다.
func (c *StatusCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if err := c.EnsureBaseDeps(); err != nil {
		return err
	}
	deps := c.Deps()
	if deps.Status == nil {
		return fmt.Errorf("status publisher not configured")
	}

	if err := deps.Status.SetStatus(ctx, c.status); err != nil {
		return fmt.Errorf("set status %s: %w", c.status, err)
	}

	c.log().Info("Bot status changed",
		slog.String("status", string(c.status)),
		slog.String("user_id", cmdCtx.UserID),
	)
	deps.Activity.StatusSet(cmdCtx.Guild.GuildID, cmdCtx.UserID, string(c.status))

	return replyText(ctx, cmdCtx, deps.Formatter.StatusSet(c.status))
}
