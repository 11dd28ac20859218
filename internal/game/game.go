// Package game implements the rock-paper-scissors match logic behind the
// challenge command. Result computation is pure; session state lives in
// Sessions.
package game

import (
	"fmt"
	"strings"
)

// Choice is one playable object.
type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

// beats maps each choice to the choice it defeats and the verb used in the
// result message.
var beats = map[Choice]struct {
	loses Choice
	verb  string
}{
	Rock:     {Scissors, "crushes"},
	Paper:    {Rock, "covers"},
	Scissors: {Paper, "cuts"},
}

// Choices returns the playable objects in a fixed order, for building
// command option choices and select menus.
func Choices() []Choice {
	return []Choice{Rock, Paper, Scissors}
}

// ParseChoice validates a raw option value.
func ParseChoice(raw string) (Choice, error) {
	c := Choice(strings.ToLower(raw))
	if _, ok := beats[c]; !ok {
		return "", fmt.Errorf("unknown choice %q", raw)
	}
	return c, nil
}

// Outcome of a match from the challenger's perspective.
type Outcome int

const (
	Tie Outcome = iota
	ChallengerWins
	ResponderWins
)

// Result compares the two choices. The verb describes the winning move and
// is empty on a tie.
func Result(challenger, responder Choice) (Outcome, string) {
	if challenger == responder {
		return Tie, ""
	}
	if beats[challenger].loses == responder {
		return ChallengerWins, beats[challenger].verb
	}
	return ResponderWins, beats[responder].verb
}

// ResultMessage formats the public result announcement.
func ResultMessage(challengerID string, challenger Choice, responderID string, responder Choice) string {
	outcome, verb := Result(challenger, responder)
	switch outcome {
	case Tie:
		return fmt.Sprintf("<@%s> and <@%s> both chose %s. It's a tie!", challengerID, responderID, challenger)
	case ChallengerWins:
		return fmt.Sprintf("<@%s> wins! %s %s %s.", challengerID, Capitalize(string(challenger)), verb, string(responder))
	default:
		return fmt.Sprintf("<@%s> wins! %s %s %s.", responderID, Capitalize(string(responder)), verb, string(challenger))
	}
}

// Capitalize upper-cases the first letter, for display labels.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
