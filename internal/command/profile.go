package command

import (
	"context"

	"github.com/park285/guild-status-bot-go/internal/adapter"
	"github.com/park285/guild-status-bot-go/internal/domain"
)

// ProfileCommand: /developer, /owner 고정 프로필 임베드
type ProfileCommand struct {
	BaseCommand
	name        domain.CommandType
	description string
	profile     adapter.StaticProfile
}

// NewDeveloperCommand 는 동작을 수행한다.
func NewDeveloperCommand(deps *Dependencies) *ProfileCommand {
	return &ProfileCommand{
		BaseCommand: NewBaseCommand(deps),
		name:        domain.CommandDeveloper,
		description: "Displays information about the bot developer",
		profile:     adapter.DeveloperProfile,
	}
}

// NewOwnerCommand 는 동작을 수행한다.
func NewOwnerCommand(deps *Dependencies) *ProfileCommand {
	return &ProfileCommand{
		BaseCommand: NewBaseCommand(deps),
		name:        domain.CommandOwner,
		description: "Displays information about the bot owner",
		profile:     adapter.OwnerProfile,
	}
}

// Name 는 동작을 수행한다.
func (c *ProfileCommand) Name() string {
	return string(c.name)
}

// Description 는 동작을 수행한다.
func (c *ProfileCommand) Description() string {
	return c.description
}

// Execute 는 동작을 수행한다.
func (c *ProfileCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if err := c.EnsureBaseDeps(); err != nil {
		return err
	}
	return replyEmbed(ctx, cmdCtx, c.Deps().Formatter.Profile(c.profile, c.now()))
}
