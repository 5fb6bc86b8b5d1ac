package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Global application commands. The application id is resolved on first use.

func (s *Session) applicationID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appID != "" {
		return s.appID, nil
	}

	st := s.dg.State
	switch {
	case st.Application != nil && st.Application.ID != "":
		s.appID = st.Application.ID
	case st.User != nil && st.User.ID != "":
		s.appID = st.User.ID
	default:
		u, err := s.dg.User("@me", discordgo.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("resolve application id: %w", err)
		}
		s.appID = u.ID
	}
	return s.appID, nil
}

func (s *Session) Fetch(ctx context.Context) ([]*discordgo.ApplicationCommand, error) {
	appID, err := s.applicationID(ctx)
	if err != nil {
		return nil, err
	}
	return s.dg.ApplicationCommands(appID, "", discordgo.WithContext(ctx))
}

func (s *Session) Create(ctx context.Context, def *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error) {
	appID, err := s.applicationID(ctx)
	if err != nil {
		return nil, err
	}
	return s.dg.ApplicationCommandCreate(appID, "", def, discordgo.WithContext(ctx))
}

func (s *Session) Edit(ctx context.Context, id string, def *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error) {
	appID, err := s.applicationID(ctx)
	if err != nil {
		return nil, err
	}
	return s.dg.ApplicationCommandEdit(appID, "", id, def, discordgo.WithContext(ctx))
}

func (s *Session) Delete(ctx context.Context, id string) error {
	appID, err := s.applicationID(ctx)
	if err != nil {
		return err
	}
	return s.dg.ApplicationCommandDelete(appID, "", id, discordgo.WithContext(ctx))
}
