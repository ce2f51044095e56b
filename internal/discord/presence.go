package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/park285/guild-status-bot-go/internal/domain"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

// ApplyPresence: status.Sink 구현. 세션이 준비되지 않았으면 ErrSessionNotReady.
func (s *Session) ApplyPresence(ctx context.Context, update domain.PresenceUpdate) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dg.UpdateStatusComplex(toStatusData(update)); err != nil {
		if errors.Is(err, discordgo.ErrWSNotFound) {
			return apperrors.ErrSessionNotReady
		}
		return fmt.Errorf("update status failed: %w", err)
	}
	return nil
}

func toStatusData(update domain.PresenceUpdate) discordgo.UpdateStatusData {
	data := discordgo.UpdateStatusData{Status: update.Status.String()}
	if update.Label != "" {
		data.Activities = []*discordgo.Activity{{
			Name: update.Label,
			Type: toActivityType(update.Kind),
		}}
	}
	return data
}

func toActivityType(kind domain.ActivityKind) discordgo.ActivityType {
	switch kind {
	case domain.ActivityPlaying:
		return discordgo.ActivityTypeGame
	case domain.ActivityListening:
		return discordgo.ActivityTypeListening
	default:
		return discordgo.ActivityTypeWatching
	}
}
