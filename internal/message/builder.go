// Package message builds outbound message content. Builders are pure: no
// I/O, and missing optional fields render as empty placeholders instead of
// failing the whole message.
package message

import (
	"fmt"
	"math/rand"

	"github.com/Forom-ets/discord-forom/internal/github"
	"github.com/Forom-ets/discord-forom/internal/registry"
)

// WebhookPath is appended to the public base URL in setup confirmations.
const WebhookPath = "/github-webhook"

// placeholderBaseURL is shown when no public base URL is configured.
const placeholderBaseURL = "YOUR_SERVER_URL"

// emojiPool decorates the greeting. The pick is the only non-deterministic
// output in the system.
var emojiPool = []string{
	"😭", "😄", "😌", "🤓", "😎", "😤", "🤖", "😶‍🌫️", "🌏", "📸", "💿", "👋", "🌊", "✨",
}

// Greeting returns the fixed greeting with one random emoji from the pool.
func Greeting() string {
	return "hello world " + emojiPool[rand.Intn(len(emojiPool))]
}

// RoleMention formats a Discord role mention.
func RoleMention(roleID string) string {
	return fmt.Sprintf("<@&%s>", roleID)
}

// SetupConfirmation builds the ephemeral reply to a successful setup
// command. publicURL may be empty, in which case a literal placeholder is
// interpolated so the user still sees where the webhook must point.
func SetupConfirmation(rule registry.Rule, publicURL string) string {
	base := publicURL
	if base == "" {
		base = placeholderBaseURL
	}
	webhookURL := base + WebhookPath

	return fmt.Sprintf(
		"✅ GitHub notifications configured!\n"+
			"**Repository:** %s\n"+
			"**Push notifications:** %s\n"+
			"**PR notifications:** %s\n\n"+
			"**Next step:** Set up a webhook in your GitHub repo pointing to:\n"+
			"`%s`\n"+
			"Select events: `Pushes` and `Pull requests`",
		rule.Repo, RoleMention(rule.PushRoleID), RoleMention(rule.PRRoleID), webhookURL,
	)
}

// PushNotification builds the channel message for a push event.
func PushNotification(rule registry.Rule, push *github.PushEvent) string {
	return fmt.Sprintf(
		"%s 🚀 **New Push to %s**\n"+
			"**Branch:** %s\n"+
			"**By:** %s\n"+
			"**Commits:** %d\n"+
			"**Compare:** %s",
		RoleMention(rule.PushRoleID), push.Repository.FullName,
		push.Branch(), push.Pusher.Name, push.CommitCount(), push.Compare,
	)
}

// PullRequestNotification builds the channel message for a pull_request
// event.
func PullRequestNotification(rule registry.Rule, pr *github.PullRequestEvent) string {
	return fmt.Sprintf(
		"%s 📝 **Pull Request %s on %s**\n"+
			"**Title:** %s\n"+
			"**By:** %s\n"+
			"**URL:** %s",
		RoleMention(rule.PRRoleID), pr.Action, pr.Repository.FullName,
		pr.PullRequest.Title, pr.PullRequest.User.Login, pr.PullRequest.HTMLURL,
	)
}
