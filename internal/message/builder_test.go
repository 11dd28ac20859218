package message

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/Forom-ets/discord-forom/internal/github"
	"github.com/Forom-ets/discord-forom/internal/registry"
)

func TestGreeting(t *testing.T) {
	// The emoji is random; everything else is fixed.
	for range 50 {
		got := Greeting()
		if !strings.HasPrefix(got, "hello world ") {
			t.Fatalf("Greeting() = %q, want 'hello world ' prefix", got)
		}
		emoji := strings.TrimPrefix(got, "hello world ")
		if !slices.Contains(emojiPool, emoji) {
			t.Fatalf("Greeting() emoji %q not in pool", emoji)
		}
	}
}

func TestSetupConfirmation(t *testing.T) {
	rule := registry.Rule{ChannelID: "999", PushRoleID: "111", PRRoleID: "222", Repo: "acme/widgets"}

	got := SetupConfirmation(rule, "https://forom.example.com")
	for _, want := range []string{
		"acme/widgets",
		"<@&111>",
		"<@&222>",
		"`https://forom.example.com/github-webhook`",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("SetupConfirmation missing %q in:\n%s", want, got)
		}
	}
}

func TestSetupConfirmationNoPublicURL(t *testing.T) {
	rule := registry.Rule{ChannelID: "999", PushRoleID: "111", PRRoleID: "222", Repo: "acme/widgets"}

	got := SetupConfirmation(rule, "")
	if !strings.Contains(got, "YOUR_SERVER_URL/github-webhook") {
		t.Errorf("SetupConfirmation without public URL missing placeholder:\n%s", got)
	}
}

func TestPushNotification(t *testing.T) {
	// The concrete scenario: every configured and payload value must land
	// in the delivered content.
	rule := registry.Rule{ChannelID: "999", PushRoleID: "111", PRRoleID: "222", Repo: "acme/widgets"}
	push := &github.PushEvent{
		Ref:        "refs/heads/main",
		Repository: github.Repository{FullName: "acme/widgets"},
		Pusher:     github.Pusher{Name: "ada"},
		Commits:    make([]json.RawMessage, 2),
		Compare:    "http://x/compare",
	}

	got := PushNotification(rule, push)
	for _, want := range []string{"<@&111>", "acme/widgets", "main", "ada", "2", "http://x/compare"} {
		if !strings.Contains(got, want) {
			t.Errorf("PushNotification missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<@&222>") {
		t.Error("push notification must mention the push role, not the PR role")
	}
}

func TestPushNotificationMissingOptionalFields(t *testing.T) {
	rule := registry.Rule{ChannelID: "999", PushRoleID: "111", PRRoleID: "222", Repo: "acme/widgets"}
	push := &github.PushEvent{Repository: github.Repository{FullName: "acme/widgets"}}

	got := PushNotification(rule, push)
	if !strings.Contains(got, "**Commits:** 0") {
		t.Errorf("absent commits should render as 0:\n%s", got)
	}
}

func TestPullRequestNotification(t *testing.T) {
	rule := registry.Rule{ChannelID: "999", PushRoleID: "111", PRRoleID: "222", Repo: "acme/widgets"}
	pr := &github.PullRequestEvent{
		Action:     "opened",
		Repository: github.Repository{FullName: "acme/widgets"},
	}
	pr.PullRequest.Title = "Add gadgets"
	pr.PullRequest.HTMLURL = "https://github.com/acme/widgets/pull/7"
	pr.PullRequest.User.Login = "grace"

	got := PullRequestNotification(rule, pr)
	for _, want := range []string{"<@&222>", "opened", "acme/widgets", "Add gadgets", "grace", "pull/7"} {
		if !strings.Contains(got, want) {
			t.Errorf("PullRequestNotification missing %q in:\n%s", want, got)
		}
	}
}
