package discord

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Session adapts a discordgo session to the directory, resolver and remote
// command surfaces used by the client.
type Session struct {
	dg *discordgo.Session

	mu    sync.Mutex
	appID string
}

func NewSession(dg *discordgo.Session) *Session {
	return &Session{dg: dg}
}

func (s *Session) Discord() *discordgo.Session { return s.dg }

func (s *Session) Guild(id string) *discordgo.Guild {
	g, err := s.dg.State.Guild(id)
	if err != nil {
		return nil
	}
	return g
}

// Users returns the bot user and every cached guild member, deduplicated by id.
func (s *Session) Users() []*discordgo.User {
	st := s.dg.State
	st.RLock()
	defer st.RUnlock()

	seen := map[string]bool{}
	var out []*discordgo.User
	add := func(u *discordgo.User) {
		if u == nil || seen[u.ID] {
			return
		}
		seen[u.ID] = true
		out = append(out, u)
	}
	add(st.User)
	for _, g := range st.Guilds {
		for _, m := range g.Members {
			add(m.User)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Session) Channels() []*discordgo.Channel {
	st := s.dg.State
	st.RLock()
	defer st.RUnlock()

	var out []*discordgo.Channel
	for _, g := range st.Guilds {
		out = append(out, g.Channels...)
		out = append(out, g.Threads...)
	}
	return append(out, st.PrivateChannels...)
}

func (s *Session) Emojis() []*discordgo.Emoji {
	st := s.dg.State
	st.RLock()
	defer st.RUnlock()

	var out []*discordgo.Emoji
	for _, g := range st.Guilds {
		out = append(out, g.Emojis...)
	}
	return out
}

func (s *Session) Roles(guildID string) []*discordgo.Role {
	g := s.Guild(guildID)
	if g == nil {
		return nil
	}
	s.dg.State.RLock()
	defer s.dg.State.RUnlock()
	return append([]*discordgo.Role(nil), g.Roles...)
}

func (s *Session) CachedMessages(channelID string) []*discordgo.Message {
	c, err := s.dg.State.Channel(channelID)
	if err != nil {
		return nil
	}
	s.dg.State.RLock()
	defer s.dg.State.RUnlock()
	return append([]*discordgo.Message(nil), c.Messages...)
}

// CachedInvites is always empty: the gateway state does not track invites.
func (s *Session) CachedInvites(string) []*discordgo.Invite { return nil }

func (s *Session) FetchMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := s.dg.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	m, err := s.dg.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	m.GuildID = guildID
	return m, nil
}

func (s *Session) FetchMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	m, err := s.dg.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.dg.StateEnabled {
		_ = s.dg.State.MessageAdd(m)
	}
	return m, nil
}

func (s *Session) FetchInvite(ctx context.Context, code string) (*discordgo.Invite, error) {
	inv, err := s.dg.Invite(code, discordgo.WithContext(ctx))
	if notFound(err) {
		return nil, nil
	}
	return inv, err
}

func notFound(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return false
	}
	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownInvite, discordgo.ErrCodeUnknownMember:
			return true
		}
	}
	return rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound
}
