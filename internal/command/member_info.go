package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/park285/guild-status-bot-go/internal/adapter"
	"github.com/park285/guild-status-bot-go/internal/domain"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

// MemberInfoCommand 는 타입이다.
type MemberInfoCommand struct {
	BaseCommand
}

// NewMemberInfoCommand 는 동작을 수행한다.
func NewMemberInfoCommand(deps *Dependencies) *MemberInfoCommand {
	return &MemberInfoCommand{BaseCommand: NewBaseCommand(deps)}
}

// Name 는 동작을 수행한다.
func (c *MemberInfoCommand) Name() string {
	return string(domain.CommandMemberInfo)
}

// Description 는 동작을 수행한다.
func (c *MemberInfoCommand) Description() string {
	return "Displays information about a specific member"
}

// Options 는 필수 user 옵션을 정의한다.
func (c *MemberInfoCommand) Options() []OptionSpec {
	return []OptionSpec{{
		Name:        "user",
		Description: "The member to get info about",
		Type:        OptionUser,
		Required:    true,
	}}
}

// Execute 는 동작을 수행한다.
func (c *MemberInfoCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.EnsureBaseDeps(); err != nil {
		return err
	}
	deps := c.Deps()
	if deps.Members == nil {
		return fmt.Errorf("member lookup not configured")
	}
	if cmdCtx.Guild.IsZero() {
		return replyPrivate(ctx, cmdCtx, adapter.ErrGuildUnavailable)
	}

	userID := getStringParam(params, "user")
	if userID == "" {
		return replyPrivate(ctx, cmdCtx, adapter.ErrMissingUserOption)
	}

	detail, err := deps.Members.LookupMember(ctx, cmdCtx.Guild.GuildID, userID)
	if err != nil {
		var notMember apperrors.NotAMemberError
		var botAccount apperrors.BotAccountError
		switch {
		case errors.As(err, &notMember):
			return replyPrivate(ctx, cmdCtx, adapter.ErrNotAMember)
		case errors.As(err, &botAccount):
			return replyPrivate(ctx, cmdCtx, adapter.ErrBotAccountInfo)
		}
		c.log().Error("Error fetching member info",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return replyPrivate(ctx, cmdCtx, adapter.ErrMemberInfoFailed)
	}

	if detail.Record.IsBot {
		return replyPrivate(ctx, cmdCtx, adapter.ErrBotAccountInfo)
	}

	return replyEmbed(ctx, cmdCtx, deps.Formatter.MemberInfo(detail, cmdCtx.UserName, c.now()))
}
