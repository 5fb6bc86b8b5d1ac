package coerce

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
)

const (
	inviteURL  = "https://discord.gg/"
	messageURL = "https://discord.com/channels/"
)

func coerceGuild(_ context.Context, c *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	if g := c.dir.Guild(s); g != nil {
		return g, nil
	}
	return nil, nil
}

func (c *Coercer) findUser(s string) *discordgo.User {
	for _, u := range c.dir.Users() {
		if u.ID == s || u.String() == s || "<@"+u.ID+">" == s || "<@!"+u.ID+">" == s {
			return u
		}
	}
	return nil
}

func coerceUser(_ context.Context, c *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	if u := c.findUser(s); u != nil {
		return u, nil
	}
	return nil, nil
}

// coerceMember resolves the user first and fetches its membership in the
// invoking guild. Unlike the other lookups a miss is an error.
func coerceMember(ctx context.Context, c *Coercer, tokens []string, inv *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	u := c.findUser(s)
	if u == nil {
		return nil, fmt.Errorf("%w: %q", ErrMemberNotFound, s)
	}
	if inv.GuildID == "" {
		return nil, fmt.Errorf("member %s: %w", u.ID, ErrNoGuild)
	}
	m, err := c.dir.FetchMember(ctx, inv.GuildID, u.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch member %s: %w", u.ID, err)
	}
	return m, nil
}

func coerceChannel(_ context.Context, c *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	for _, ch := range c.dir.Channels() {
		if ch.ID == s || "<#"+ch.ID+">" == s || "<#!"+ch.ID+">" == s {
			return ch, nil
		}
	}
	return nil, nil
}

// MessageURL is the jump link of a message.
func MessageURL(m *discordgo.Message) string {
	guild := m.GuildID
	if guild == "" {
		guild = "@me"
	}
	return messageURL + guild + "/" + m.ChannelID + "/" + m.ID
}

func coerceMessage(ctx context.Context, c *Coercer, tokens []string, inv *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok || inv.ChannelID == "" {
		return nil, nil
	}
	for _, m := range c.dir.CachedMessages(inv.ChannelID) {
		if m.ID == s || MessageURL(m) == s {
			return m, nil
		}
	}
	id := s
	if strings.HasPrefix(s, messageURL) {
		id = s[strings.LastIndex(s, "/")+1:]
	}
	if !isSnowflake(id) {
		return nil, nil
	}
	m, err := c.dir.FetchMessage(ctx, inv.ChannelID, id)
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", id, err)
	}
	if m == nil {
		return nil, nil
	}
	return m, nil
}

func coerceInvite(ctx context.Context, c *Coercer, tokens []string, inv *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	for _, i := range c.dir.CachedInvites(inv.GuildID) {
		if i.Code == s || inviteURL+i.Code == s {
			return i, nil
		}
	}
	code := strings.TrimPrefix(s, inviteURL)
	if code == "" {
		return nil, nil
	}
	i, err := c.dir.FetchInvite(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("fetch invite %s: %w", code, err)
	}
	if i == nil {
		return nil, nil
	}
	return i, nil
}

// EmojiURL is the CDN address of a custom emoji.
func EmojiURL(e *discordgo.Emoji) string {
	if e.Animated {
		return discordgo.EndpointEmojiAnimated(e.ID)
	}
	return discordgo.EndpointEmoji(e.ID)
}

func coerceEmoji(_ context.Context, c *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	for _, e := range c.dir.Emojis() {
		if e.ID == s || e.Name == s || (e.ID != "" && EmojiURL(e) == s) {
			return e, nil
		}
	}
	return nil, nil
}

func coerceRole(_ context.Context, c *Coercer, tokens []string, inv *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok || inv.GuildID == "" {
		return nil, nil
	}
	for _, r := range c.dir.Roles(inv.GuildID) {
		if r.ID == s || r.Name == s {
			return r, nil
		}
	}
	return nil, nil
}

func isSnowflake(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
