package discord

import (
	"github.com/bwmarrin/discordgo"
)

func (s *Session) IsUser(id string) bool {
	if id == "" {
		return false
	}
	for _, u := range s.Users() {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) IsRole(guildID, id string) bool {
	r, err := s.dg.State.Role(guildID, id)
	return err == nil && r != nil
}

// MemberPermissions returns the guild-level permission bits of m: the
// @everyone role plus every role the member holds. The owner and
// administrators get every bit.
func (s *Session) MemberPermissions(m *discordgo.Member) int64 {
	if m == nil || m.User == nil {
		return 0
	}
	g := s.Guild(m.GuildID)
	if g == nil {
		return m.Permissions
	}
	return guildPermissions(g, m)
}

func guildPermissions(g *discordgo.Guild, m *discordgo.Member) int64 {
	if m.User.ID == g.OwnerID {
		return discordgo.PermissionAll
	}
	held := make(map[string]bool, len(m.Roles)+1)
	held[g.ID] = true
	for _, id := range m.Roles {
		held[id] = true
	}

	var perms int64
	for _, r := range g.Roles {
		if held[r.ID] {
			perms |= r.Permissions
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}
