// Package delivery hands notification messages to Discord through a bounded
// queue so a slow or failing send never blocks the webhook acknowledgement.
package delivery

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

//go:generate mockgen -destination=mocks/mock_sender.go -package=mocks github.com/Forom-ets/discord-forom/internal/delivery Sender

// Sender posts a message to a Discord channel.
type Sender interface {
	Send(ctx context.Context, channelID, content string) error
}

// DiscordSender sends through a bot-token discordgo session. Only the REST
// surface is used; no gateway websocket connection is opened.
type DiscordSender struct {
	session *discordgo.Session
}

// NewDiscordSender builds a sender from a bot token.
func NewDiscordSender(botToken string) (*DiscordSender, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is empty")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordSender{session: session}, nil
}

// NewDiscordSenderFromSession wraps an existing session.
func NewDiscordSenderFromSession(session *discordgo.Session) *DiscordSender {
	return &DiscordSender{session: session}
}

// Send posts content to channelID.
func (s *DiscordSender) Send(ctx context.Context, channelID, content string) error {
	_, err := s.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send channel message: %w", err)
	}
	return nil
}
