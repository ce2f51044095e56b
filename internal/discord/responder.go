package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

// interactionResponder: 첫 응답은 InteractionRespond, 이후 응답은 followup 메시지로 보낸다.
type interactionResponder struct {
	dg          *discordgo.Session
	interaction *discordgo.Interaction
	footerIcon  string

	mu      sync.Mutex
	replied bool
}

func (r *interactionResponder) Reply(ctx context.Context, reply domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	embeds := toMessageEmbeds(reply.Embeds, r.footerIcon)
	var flags discordgo.MessageFlags
	if reply.Ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	if r.replied {
		_, err := r.dg.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
			Content: reply.Content,
			Embeds:  embeds,
			Flags:   flags,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send followup failed: %w", err)
		}
		return nil
	}

	err := r.dg.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: reply.Content,
			Embeds:  embeds,
			Flags:   flags,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("respond interaction failed: %w", err)
	}
	r.replied = true
	return nil
}

// messageResponder: 레거시 명령 응답. 채널 메시지는 ephemeral 을 지원하지 않으므로 답장으로 보낸다.
type messageResponder struct {
	dg         *discordgo.Session
	channelID  string
	reference  *discordgo.MessageReference
	footerIcon string
}

func (r *messageResponder) Reply(ctx context.Context, reply domain.Reply) error {
	if len(reply.Embeds) == 0 {
		if _, err := r.dg.ChannelMessageSendReply(r.channelID, reply.Content, r.reference, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("send reply failed channel=%s: %w", r.channelID, err)
		}
		return nil
	}

	_, err := r.dg.ChannelMessageSendComplex(r.channelID, &discordgo.MessageSend{
		Content:   reply.Content,
		Embeds:    toMessageEmbeds(reply.Embeds, r.footerIcon),
		Reference: r.reference,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send reply failed channel=%s: %w", r.channelID, err)
	}
	return nil
}

// toMessageEmbeds: 푸터 아이콘이 비어 있고 푸터 문구가 있으면 봇 아바타를 사용한다.
func toMessageEmbeds(embeds []domain.Embed, footerIcon string) []*discordgo.MessageEmbed {
	if len(embeds) == 0 {
		return nil
	}

	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		me := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.ImageURL != "" {
			me.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
		}
		if e.ThumbnailURL != "" {
			me.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.ThumbnailURL}
		}
		if e.FooterText != "" {
			icon := e.FooterIcon
			if icon == "" {
				icon = footerIcon
			}
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.FooterText, IconURL: icon}
		}
		if !e.Timestamp.IsZero() {
			me.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
		}
		out = append(out, me)
	}
	return out
}
