package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/park285/guild-status-bot-go/internal/command"
	"github.com/park285/guild-status-bot-go/internal/constants"
)

// RegisterCommands: 슬래시 명령을 전역으로 일괄 덮어쓴다.
func (s *Session) RegisterCommands(ctx context.Context, defs []command.Definition) error {
	if err := s.ensureReady(); err != nil {
		return err
	}

	s.dg.State.RLock()
	appID := ""
	if s.dg.State.User != nil {
		appID = s.dg.State.User.ID
	}
	s.dg.State.RUnlock()
	if appID == "" {
		return fmt.Errorf("application id unavailable before ready")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout.CommandRegister)
	defer cancel()

	registered, err := s.dg.ApplicationCommandBulkOverwrite(appID, "", toApplicationCommands(defs), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("register slash commands failed: %w", err)
	}
	s.logger.Info("Slash commands registered successfully", slog.Int("count", len(registered)))
	return nil
}

func toApplicationCommands(defs []command.Definition) []*discordgo.ApplicationCommand {
	cmds := make([]*discordgo.ApplicationCommand, 0, len(defs))
	for _, def := range defs {
		cmd := &discordgo.ApplicationCommand{
			Name:        def.Name,
			Description: def.Description,
		}
		for _, opt := range def.Options {
			cmd.Options = append(cmd.Options, &discordgo.ApplicationCommandOption{
				Type:        toOptionType(opt.Type),
				Name:        opt.Name,
				Description: opt.Description,
				Required:    opt.Required,
			})
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func toOptionType(t command.OptionType) discordgo.ApplicationCommandOptionType {
	if t == command.OptionUser {
		return discordgo.ApplicationCommandOptionUser
	}
	return discordgo.ApplicationCommandOptionString
}
