package core

import (
	"context"

	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
)

// GuildCreate logs guilds the bot joins or becomes available in.
func GuildCreate() *command.Event {
	return &command.Event{
		Name: "GUILD_CREATE",
		Run: func(_ context.Context, rt command.Runtime, payload any) error {
			if g, ok := payload.(*discordgo.GuildCreate); ok && g.Guild != nil {
				rt.Logger().Info("Guild available", "guild", g.ID, "name", g.Name)
			}
			return nil
		},
	}
}
