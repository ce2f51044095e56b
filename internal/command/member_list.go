package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/park285/guild-status-bot-go/internal/adapter"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/service/roster"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

// MemberListCommand: 봇을 제외한 전체 멤버를 가입일 순으로 임베드 필드에 나눠 보여준다.
type MemberListCommand struct {
	BaseCommand
}

// NewMemberListCommand 는 동작을 수행한다.
func NewMemberListCommand(deps *Dependencies) *MemberListCommand {
	return &MemberListCommand{BaseCommand: NewBaseCommand(deps)}
}

// Name 는 동작을 수행한다.
func (c *MemberListCommand) Name() string {
	return string(domain.CommandMemberList)
}

// Description 는 동작을 수행한다.
func (c *MemberListCommand) Description() string {
	return "Displays a list of all non-bot members in the server"
}

// Execute: 조회/페이지네이션 실패는 사용자에게 전용 문구로 응답하고 nil 을 반환한다.
func (c *MemberListCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if err := c.EnsureBaseDeps(); err != nil {
		return err
	}
	deps := c.Deps()
	if deps.Roster == nil || deps.Paginator == nil {
		return fmt.Errorf("roster dependencies not configured")
	}
	if cmdCtx.Guild.IsZero() {
		return replyPrivate(ctx, cmdCtx, adapter.ErrGuildUnavailable)
	}

	snapshot, err := deps.Roster.FetchRoster(ctx, cmdCtx.Guild.GuildID, roster.FetchOptions{WithPresence: true})
	if err != nil {
		c.log().Error("Error fetching member list",
			slog.String("guild_id", cmdCtx.Guild.GuildID),
			slog.Any("error", err),
		)
		return replyPrivate(ctx, cmdCtx, adapter.ErrMemberListFailed)
	}

	humans := snapshot.Humans()
	if len(humans) == 0 {
		return replyPrivate(ctx, cmdCtx, adapter.ErrNoHumanMembers)
	}

	now := c.now()
	paginator := deps.Paginator.WithReserved(deps.Formatter.MemberListOverhead(len(humans), cmdCtx.UserName))

	set, err := paginator.Paginate(humans, now)
	if err != nil {
		var tooLarge apperrors.TooLargeError
		if errors.As(err, &tooLarge) {
			c.log().Error("Embed character limit exceeded",
				slog.Int("size", tooLarge.Size),
				slog.Int("ceiling", tooLarge.Ceiling),
			)
			return replyPrivate(ctx, cmdCtx, adapter.ErrMemberListTooLarge)
		}
		c.log().Error("Error paginating member list", slog.Any("error", err))
		return replyPrivate(ctx, cmdCtx, adapter.ErrMemberListFailed)
	}
	if set.Truncated {
		deps.Metrics.Truncation()
	}

	return replyEmbed(ctx, cmdCtx, deps.Formatter.MemberList(set, len(humans), cmdCtx.UserName, now))
}
