package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/park285/guild-status-bot-go/internal/adapter"
	"github.com/park285/guild-status-bot-go/internal/domain"
)

// UpdateCommand: 레거시 "!update". 재계산을 요청하고 결과를 기다리지 않고 바로 응답한다.
type UpdateCommand struct {
	BaseCommand
}

// NewUpdateCommand 는 동작을 수행한다.
func NewUpdateCommand(deps *Dependencies) *UpdateCommand {
	return &UpdateCommand{BaseCommand: NewBaseCommand(deps)}
}

// Name 는 동작을 수행한다.
func (c *UpdateCommand) Name() string {
	return string(domain.CommandUpdate)
}

// Description 는 동작을 수행한다.
func (c *UpdateCommand) Description() string {
	return "Recompute the member count shown in the bot status"
}

// LegacyOnly 는 슬래시 명령으로 등록하지 않는다.
func (c *UpdateCommand) LegacyOnly() bool {
	return true
}

// Execute 는 동작을 수행한다.
func (c *UpdateCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if err := c.EnsureBaseDeps(); err != nil {
		return err
	}
	deps := c.Deps()
	if deps.Refresh == nil {
		return fmt.Errorf("refresh trigger not configured")
	}

	if !deps.Refresh.TriggerExplicit() {
		c.log().Warn("Refresh requested before scheduler is ready", slog.String("user_id", cmdCtx.UserID))
	}
	deps.Activity.Refresh(cmdCtx.Guild.GuildID, cmdCtx.UserID)

	return replyText(ctx, cmdCtx, adapter.MsgMemberCountUpdated)
}
