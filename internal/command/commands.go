// Package command declares the application command schemas and registers
// them with Discord.
package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Forom-ets/discord-forom/internal/game"
)

// Supported command names. The router dispatches on this closed set.
const (
	Test        = "test"
	Challenge   = "challenge"
	GitHubSetup = "github-setup"
)

// Option names of the github-setup command, matched by name, not position.
const (
	OptionPushRole = "push_role"
	OptionPRRole   = "pr_role"
	OptionRepo     = "repo"
)

// OptionObject is the choice option of the challenge command.
const OptionObject = "object"

// Definitions returns the full command schema set.
func Definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        Test,
			Description: "Basic command",
		},
		{
			Name:        Challenge,
			Description: "Challenge to a match of rock paper scissors",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OptionObject,
					Description: "Pick your object",
					Required:    true,
					Choices:     choiceOptions(),
				},
			},
		},
		{
			Name:        GitHubSetup,
			Description: "Configure GitHub notifications for this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        OptionPushRole,
					Description: "Role to ping for push events",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        OptionPRRole,
					Description: "Role to ping for pull request events",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OptionRepo,
					Description: "Repository name (e.g., owner/repo)",
					Required:    true,
				},
			},
		},
	}
}

func choiceOptions() []*discordgo.ApplicationCommandOptionChoice {
	choices := game.Choices()
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(choices))
	for _, c := range choices {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{
			Name:  game.Capitalize(string(c)),
			Value: string(c),
		})
	}
	return out
}

// Register overwrites the application's commands in one call. An empty
// guildID registers globally.
func Register(s *discordgo.Session, appID, guildID string) error {
	if appID == "" {
		return fmt.Errorf("application id is empty")
	}
	if _, err := s.ApplicationCommandBulkOverwrite(appID, guildID, Definitions()); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}
