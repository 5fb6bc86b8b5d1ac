// Package coerce turns raw argument tokens into typed values. A coercer
// returns a nil value (not an error) when an entity lookup misses; numeric
// coercers return NaN for input they cannot parse.
package coerce

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrUnknownType    = errors.New("unknown argument type")
	ErrMemberNotFound = errors.New("no user matches the member argument")
	ErrNoGuild        = errors.New("argument needs a guild context")
	ErrColorConvert   = errors.New("unable to convert color to a number")
	ErrColorRange     = errors.New("color must be within the range 0 - 16777215 (0xFFFFFF)")
)

// Directory is the platform cache and fetch surface coercers read from.
type Directory interface {
	Guild(id string) *discordgo.Guild
	Users() []*discordgo.User
	Channels() []*discordgo.Channel
	Emojis() []*discordgo.Emoji
	Roles(guildID string) []*discordgo.Role
	CachedMessages(channelID string) []*discordgo.Message
	CachedInvites(guildID string) []*discordgo.Invite

	FetchMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	// FetchMessage and FetchInvite return nil, nil when the entity does not exist.
	FetchMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)
	FetchInvite(ctx context.Context, code string) (*discordgo.Invite, error)
}

// Finder resolves command references.
type Finder interface {
	Find(name string) *command.Command
}

// Func coerces tokens[0] (plus the rest of tokens for multi-word types).
// An empty tokens slice means the argument was not supplied.
type Func func(ctx context.Context, c *Coercer, tokens []string, inv *command.Invocation) (any, error)

type Coercer struct {
	dir      Directory
	commands Finder
	funcs    map[command.ArgType]Func
}

func New(dir Directory, commands Finder) *Coercer {
	return &Coercer{
		dir:      dir,
		commands: commands,
		funcs: map[command.ArgType]Func{
			command.ArgString:     coerceString,
			command.ArgMString:    coerceMString,
			command.ArgChar:       coerceChar,
			command.ArgNumber:     coerceFloat,
			command.ArgInt:        coerceInt,
			command.ArgFloat:      coerceFloat,
			command.ArgBoolean:    coerceBoolean,
			command.ArgColor:      coerceColor,
			command.ArgGuild:      coerceGuild,
			command.ArgMember:     coerceMember,
			command.ArgUser:       coerceUser,
			command.ArgChannel:    coerceChannel,
			command.ArgMessage:    coerceMessage,
			command.ArgInvite:     coerceInvite,
			command.ArgEmoji:      coerceEmoji,
			command.ArgRole:       coerceRole,
			command.ArgPermission: coercePermission,
			command.ArgTime:       coerceTime,
			command.ArgCommand:    coerceCommand,
		},
	}
}

// Supports reports whether a coercer is registered for t.
func (c *Coercer) Supports(t command.ArgType) bool {
	_, ok := c.funcs[t]
	return ok
}

// Coerce converts tokens for an argument of type t. An unregistered type is
// a programming error and is reported as ErrUnknownType.
func (c *Coercer) Coerce(ctx context.Context, t command.ArgType, tokens []string, inv *command.Invocation) (any, error) {
	f, ok := c.funcs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	if inv == nil {
		inv = &command.Invocation{}
	}
	return f(ctx, c, tokens, inv)
}

func first(tokens []string) (string, bool) {
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[0], true
}
