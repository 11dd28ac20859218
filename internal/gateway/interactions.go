package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Forom-ets/discord-forom/internal/command"
	"github.com/Forom-ets/discord-forom/internal/game"
	"github.com/Forom-ets/discord-forom/internal/message"
	"github.com/Forom-ets/discord-forom/internal/registry"
	"github.com/Forom-ets/discord-forom/internal/verify"
)

// Component custom-id prefixes for the challenge flow. The originating
// interaction id rides along after the prefix.
const (
	acceptButtonPrefix = "accept_button_"
	selectChoicePrefix = "select_choice_"
)

// handleInteraction verifies and dispatches a Discord interaction callback.
// The ed25519 check runs over the raw body bytes before any decoding.
func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > maxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	signature := r.Header.Get(verify.HeaderSignature)
	timestamp := r.Header.Get(verify.HeaderTimestamp)
	if err := s.interactions.Verify(body, signature, timestamp); err != nil {
		s.logger.Warn("interaction signature verification failed")
		s.respondError(w, http.StatusUnauthorized, "invalid request signature")
		return
	}

	var interaction discordgo.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed interaction payload")
		return
	}

	switch interaction.Type {
	case discordgo.InteractionPing:
		s.respondInteraction(w, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponsePong,
		})

	case discordgo.InteractionApplicationCommand:
		s.handleCommand(r.Context(), w, &interaction)

	case discordgo.InteractionMessageComponent:
		s.handleComponent(w, &interaction)

	default:
		s.logger.Warn("unknown interaction type", "type", int(interaction.Type))
		s.respondError(w, http.StatusBadRequest, "unknown interaction type")
	}
}

// handleCommand dispatches a slash command by name over the closed set of
// supported commands.
func (s *Server) handleCommand(ctx context.Context, w http.ResponseWriter, interaction *discordgo.Interaction) {
	data := interaction.ApplicationCommandData()

	switch data.Name {
	case command.Test:
		s.handleTestCommand(w)
	case command.GitHubSetup:
		s.handleSetupCommand(ctx, w, interaction, data)
	case command.Challenge:
		s.handleChallengeCommand(w, interaction, data)
	default:
		s.logger.Warn("unknown command", "name", data.Name)
		s.respondError(w, http.StatusBadRequest, "unknown command")
	}
}

// handleTestCommand replies with the decorated greeting.
func (s *Server) handleTestCommand(w http.ResponseWriter) {
	s.respondInteraction(w, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsIsComponentsV2,
			Components: []discordgo.MessageComponent{
				discordgo.TextDisplay{Content: message.Greeting()},
			},
		},
	})
}

// handleSetupCommand stores the routing rule for the invoking channel and
// confirms ephemerally.
func (s *Server) handleSetupCommand(ctx context.Context, w http.ResponseWriter, interaction *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) {
	pushRole, ok := optionValue(data.Options, command.OptionPushRole)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "missing required option: "+command.OptionPushRole)
		return
	}
	prRole, ok := optionValue(data.Options, command.OptionPRRole)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "missing required option: "+command.OptionPRRole)
		return
	}
	repo, ok := optionValue(data.Options, command.OptionRepo)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "missing required option: "+command.OptionRepo)
		return
	}

	rule := registry.Rule{
		ChannelID:  interaction.ChannelID,
		PushRoleID: pushRole,
		PRRoleID:   prRole,
		Repo:       repo,
	}
	if err := s.rules.Upsert(ctx, rule); err != nil {
		s.logger.Error("failed to store routing rule", "channel_id", rule.ChannelID, "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to save configuration")
		return
	}

	s.logger.Info("routing rule configured",
		"channel_id", rule.ChannelID,
		"repo", rule.Repo,
	)

	s.respondInteraction(w, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message.SetupConfirmation(rule, s.config.PublicURL),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// handleChallengeCommand opens a rock-paper-scissors session and posts the
// accept button.
func (s *Server) handleChallengeCommand(w http.ResponseWriter, interaction *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) {
	raw, ok := optionValue(data.Options, command.OptionObject)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "missing required option: "+command.OptionObject)
		return
	}
	choice, err := game.ParseChoice(raw)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "unknown choice")
		return
	}

	challengerID := interactionUserID(interaction)
	s.games.Create(game.Session{
		ID:           interaction.ID,
		ChallengerID: challengerID,
		Choice:       choice,
	})

	s.respondInteraction(w, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Rock papers scissors challenge from <@" + challengerID + ">",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Accept",
							Style:    discordgo.PrimaryButton,
							CustomID: acceptButtonPrefix + interaction.ID,
						},
					},
				},
			},
		},
	})
}

// handleComponent routes the challenge flow's button and select menu.
func (s *Server) handleComponent(w http.ResponseWriter, interaction *discordgo.Interaction) {
	data := interaction.MessageComponentData()

	switch {
	case strings.HasPrefix(data.CustomID, acceptButtonPrefix):
		s.handleAcceptButton(w, strings.TrimPrefix(data.CustomID, acceptButtonPrefix))
	case strings.HasPrefix(data.CustomID, selectChoicePrefix):
		s.handleChoiceSelect(w, interaction, strings.TrimPrefix(data.CustomID, selectChoicePrefix), data.Values)
	default:
		s.logger.Warn("unknown component", "custom_id", data.CustomID)
		s.respondError(w, http.StatusBadRequest, "unknown component")
	}
}

// handleAcceptButton shows the responder an ephemeral choice menu.
func (s *Server) handleAcceptButton(w http.ResponseWriter, gameID string) {
	if _, ok := s.games.Get(gameID); !ok {
		s.respondExpiredGame(w)
		return
	}

	choices := game.Choices()
	options := make([]discordgo.SelectMenuOption, 0, len(choices))
	for _, c := range choices {
		options = append(options, discordgo.SelectMenuOption{
			Label: game.Capitalize(string(c)),
			Value: string(c),
		})
	}

	s.respondInteraction(w, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "What is your object of choice?",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							MenuType: discordgo.StringSelectMenu,
							CustomID: selectChoicePrefix + gameID,
							Options:  options,
						},
					},
				},
			},
		},
	})
}

// handleChoiceSelect resolves the match and announces the result.
func (s *Server) handleChoiceSelect(w http.ResponseWriter, interaction *discordgo.Interaction, gameID string, values []string) {
	session, ok := s.games.Get(gameID)
	if !ok {
		s.respondExpiredGame(w)
		return
	}
	if len(values) == 0 {
		s.respondError(w, http.StatusBadRequest, "no choice selected")
		return
	}

	choice, err := game.ParseChoice(values[0])
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "unknown choice")
		return
	}

	responderID := interactionUserID(interaction)
	result := game.ResultMessage(session.ChallengerID, session.Choice, responderID, choice)
	s.games.Delete(gameID)

	s.respondInteraction(w, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: result,
		},
	})
}

func (s *Server) respondExpiredGame(w http.ResponseWriter) {
	s.respondInteraction(w, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "This challenge is no longer active.",
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondInteraction writes a 200 interaction response.
func (s *Server) respondInteraction(w http.ResponseWriter, resp *discordgo.InteractionResponse) {
	s.respondJSON(w, http.StatusOK, resp)
}

// optionValue finds a command option by name. Options arrive by name, not
// position; role and string option values are both strings on the wire.
func optionValue(options []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	for _, opt := range options {
		if opt.Name != name {
			continue
		}
		if v, ok := opt.Value.(string); ok {
			return v, true
		}
	}
	return "", false
}

// interactionUserID returns the invoking user's id for both guild (member)
// and DM (user) contexts.
func interactionUserID(interaction *discordgo.Interaction) string {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User.ID
	}
	if interaction.User != nil {
		return interaction.User.ID
	}
	return ""
}
