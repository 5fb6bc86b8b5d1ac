package discord

import (
	"context"

	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
)

// Reply answers an interaction, or replies to the invoking message.
// Ephemeral only applies to interactions.
func (s *Session) Reply(ctx context.Context, inv *command.Invocation, r command.Reply) error {
	var embeds []*discordgo.MessageEmbed
	if r.Embed != nil {
		embeds = []*discordgo.MessageEmbed{r.Embed}
	}

	if inv.Interaction != nil {
		data := &discordgo.InteractionResponseData{Content: r.Content, Embeds: embeds}
		if r.Ephemeral {
			data.Flags = discordgo.MessageFlagsEphemeral
		}
		return s.dg.InteractionRespond(inv.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: data,
		}, discordgo.WithContext(ctx))
	}

	send := &discordgo.MessageSend{Content: r.Content, Embeds: embeds}
	if inv.Message != nil {
		send.Reference = inv.Message.SoftReference()
	}
	_, err := s.dg.ChannelMessageSendComplex(inv.ChannelID, send, discordgo.WithContext(ctx))
	return err
}
