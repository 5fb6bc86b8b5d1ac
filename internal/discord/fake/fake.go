// Package fake is an in-memory chat platform for tests: entity caches,
// a remote application command store that records calls, and a reply sink.
package fake

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"

	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
)

var ErrInjected = errors.New("injected failure")

// Call is one recorded remote command operation.
type Call struct {
	Op   string // create, edit or delete
	ID   string
	Name string
}

// Reply is one recorded handler reply.
type Reply struct {
	ChannelID string
	Reply     command.Reply
}

type Platform struct {
	mu sync.Mutex

	guilds   map[string]*discordgo.Guild
	users    map[string]*discordgo.User
	channels map[string]*discordgo.Channel
	members  map[string]map[string]*discordgo.Member
	perms    map[string]int64
	messages map[string][]*discordgo.Message
	remote   map[string]*discordgo.Message
	invites  map[string]*discordgo.Invite

	commands []*discordgo.ApplicationCommand
	calls    []Call
	replies  []Reply
	nextID   int

	// FailOn makes the named operation (fetch, create, edit, delete,
	// member, message, invite) return ErrInjected.
	FailOn string
}

func New() *Platform {
	return &Platform{
		guilds:   map[string]*discordgo.Guild{},
		users:    map[string]*discordgo.User{},
		channels: map[string]*discordgo.Channel{},
		members:  map[string]map[string]*discordgo.Member{},
		perms:    map[string]int64{},
		messages: map[string][]*discordgo.Message{},
		remote:   map[string]*discordgo.Message{},
		invites:  map[string]*discordgo.Invite{},
		nextID:   1000,
	}
}

// --- seeding ---

func (p *Platform) AddGuild(g *discordgo.Guild) *discordgo.Guild {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.guilds[g.ID] = g
	return g
}

func (p *Platform) AddRole(guildID string, r *discordgo.Role) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.guilds[guildID]; ok {
		g.Roles = append(g.Roles, r)
	}
}

func (p *Platform) AddEmoji(guildID string, e *discordgo.Emoji) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.guilds[guildID]; ok {
		g.Emojis = append(g.Emojis, e)
	}
}

func (p *Platform) AddUser(u *discordgo.User) *discordgo.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.ID] = u
	return u
}

func (p *Platform) AddChannel(c *discordgo.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[c.ID] = c
}

// AddMember registers u as a member of the guild. The member is only
// reachable through FetchMember; the user joins the known-users cache.
func (p *Platform) AddMember(guildID string, u *discordgo.User, perms int64, roles ...string) *discordgo.Member {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.ID] = u
	m := &discordgo.Member{GuildID: guildID, User: u, Roles: roles}
	if p.members[guildID] == nil {
		p.members[guildID] = map[string]*discordgo.Member{}
	}
	p.members[guildID][u.ID] = m
	p.perms[u.ID] = perms
	return m
}

// CacheMessage puts m in its channel's message cache.
func (p *Platform) CacheMessage(m *discordgo.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[m.ChannelID] = append(p.messages[m.ChannelID], m)
}

// StoreMessage makes m fetchable without caching it.
func (p *Platform) StoreMessage(m *discordgo.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.remote[m.ChannelID+"/"+m.ID] = m
}

func (p *Platform) StoreInvite(inv *discordgo.Invite) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invites[inv.Code] = inv
}

// SeedCommands replaces the remote command set without recording calls.
func (p *Platform) SeedCommands(defs ...*discordgo.ApplicationCommand) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = nil
	for _, d := range defs {
		c := *d
		if c.ID == "" {
			c.ID = p.id()
		}
		p.commands = append(p.commands, &c)
	}
}

// --- inspection ---

func (p *Platform) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.calls)
}

func (p *Platform) ResetCalls() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}

func (p *Platform) Replies() []Reply {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.replies)
}

// RemoteNames returns the names of the remote commands, sorted.
func (p *Platform) RemoteNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.commands))
	for _, c := range p.commands {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func (p *Platform) id() string {
	p.nextID++
	return strconv.Itoa(p.nextID)
}

func (p *Platform) fail(op string) error {
	if p.FailOn == op {
		return fmt.Errorf("%s: %w", op, ErrInjected)
	}
	return nil
}

// --- coercion directory ---

func (p *Platform) Guild(id string) *discordgo.Guild {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.guilds[id]
}

func (p *Platform) Users() []*discordgo.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*discordgo.User, 0, len(p.users))
	for _, u := range p.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (p *Platform) Channels() []*discordgo.Channel {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*discordgo.Channel, 0, len(p.channels))
	for _, c := range p.channels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (p *Platform) Emojis() []*discordgo.Emoji {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*discordgo.Emoji
	for _, g := range p.guilds {
		out = append(out, g.Emojis...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (p *Platform) Roles(guildID string) []*discordgo.Role {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.guilds[guildID]; ok {
		return g.Roles
	}
	return nil
}

func (p *Platform) CachedMessages(channelID string) []*discordgo.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages[channelID]
}

func (p *Platform) CachedInvites(string) []*discordgo.Invite { return nil }

func (p *Platform) FetchMember(_ context.Context, guildID, userID string) (*discordgo.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("member"); err != nil {
		return nil, err
	}
	m, ok := p.members[guildID][userID]
	if !ok {
		return nil, fmt.Errorf("unknown member %s in guild %s", userID, guildID)
	}
	return m, nil
}

func (p *Platform) FetchMessage(_ context.Context, channelID, messageID string) (*discordgo.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("message"); err != nil {
		return nil, err
	}
	m, ok := p.remote[channelID+"/"+messageID]
	if !ok {
		return nil, nil
	}
	p.messages[channelID] = append(p.messages[channelID], m)
	return m, nil
}

func (p *Platform) FetchInvite(_ context.Context, code string) (*discordgo.Invite, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("invite"); err != nil {
		return nil, err
	}
	return p.invites[code], nil
}

// --- permission resolver ---

func (p *Platform) IsUser(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.users[id]
	return ok
}

func (p *Platform) IsRole(guildID, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.guilds[guildID]
	if !ok {
		return false
	}
	for _, r := range g.Roles {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (p *Platform) MemberPermissions(m *discordgo.Member) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m == nil || m.User == nil {
		return 0
	}
	return p.perms[m.User.ID]
}

// --- remote application commands ---

func (p *Platform) Fetch(context.Context) ([]*discordgo.ApplicationCommand, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("fetch"); err != nil {
		return nil, err
	}
	out := make([]*discordgo.ApplicationCommand, 0, len(p.commands))
	for _, c := range p.commands {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (p *Platform) Create(_ context.Context, def *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("create"); err != nil {
		return nil, err
	}
	c := *def
	c.ID = p.id()
	p.commands = append(p.commands, &c)
	p.calls = append(p.calls, Call{Op: "create", ID: c.ID, Name: c.Name})
	return &c, nil
}

func (p *Platform) Edit(_ context.Context, id string, def *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("edit"); err != nil {
		return nil, err
	}
	for i, existing := range p.commands {
		if existing.ID == id {
			c := *def
			c.ID = id
			p.commands[i] = &c
			p.calls = append(p.calls, Call{Op: "edit", ID: id, Name: c.Name})
			return &c, nil
		}
	}
	return nil, fmt.Errorf("unknown application command %s", id)
}

func (p *Platform) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("delete"); err != nil {
		return err
	}
	for i, existing := range p.commands {
		if existing.ID == id {
			p.commands = slices.Delete(p.commands, i, i+1)
			p.calls = append(p.calls, Call{Op: "delete", ID: id, Name: existing.Name})
			return nil
		}
	}
	return fmt.Errorf("unknown application command %s", id)
}

// --- replies ---

func (p *Platform) Reply(_ context.Context, inv *command.Invocation, r command.Reply) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, Reply{ChannelID: inv.ChannelID, Reply: r})
	return nil
}
