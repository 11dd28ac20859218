// Package github models the subset of GitHub webhook payloads the gateway
// routes: push and pull_request events.
package github

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventType is the value of the X-GitHub-Event request header.
type EventType string

const (
	EventPush        EventType = "push"
	EventPullRequest EventType = "pull_request"
	EventPing        EventType = "ping"
)

// Repository is the nested repository object common to all events.
type Repository struct {
	FullName string `json:"full_name"`
}

// Pusher identifies who pushed.
type Pusher struct {
	Name string `json:"name"`
}

// PushEvent is a push webhook payload.
type PushEvent struct {
	Ref        string            `json:"ref"`
	Repository Repository        `json:"repository"`
	Pusher     Pusher            `json:"pusher"`
	Commits    []json.RawMessage `json:"commits"`
	Compare    string            `json:"compare"`
}

// Branch returns the branch name with the refs/heads/ namespace stripped.
// Tags and other refs pass through unchanged.
func (e PushEvent) Branch() string {
	return strings.TrimPrefix(e.Ref, "refs/heads/")
}

// CommitCount returns the number of commits in the push, 0 when the commits
// array is absent.
func (e PushEvent) CommitCount() int {
	return len(e.Commits)
}

// PullRequest is the nested pull_request object.
type PullRequest struct {
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`
}

// PullRequestEvent is a pull_request webhook payload.
type PullRequestEvent struct {
	Action      string      `json:"action"`
	Repository  Repository  `json:"repository"`
	PullRequest PullRequest `json:"pull_request"`
}

// Event is the closed union of payloads the router handles. Exactly one of
// Push/PullRequest is set, matching Type.
type Event struct {
	Type        EventType
	Push        *PushEvent
	PullRequest *PullRequestEvent
}

// RepositoryFullName returns the "owner/name" string used for routing-rule
// lookup, or "" for event types without one.
func (e Event) RepositoryFullName() string {
	switch e.Type {
	case EventPush:
		return e.Push.Repository.FullName
	case EventPullRequest:
		return e.PullRequest.Repository.FullName
	}
	return ""
}

// ErrUnsupportedEvent reports an X-GitHub-Event value the gateway does not
// route. Callers acknowledge these with 200 rather than erroring back at
// GitHub.
type ErrUnsupportedEvent struct {
	Type EventType
}

func (e ErrUnsupportedEvent) Error() string {
	return fmt.Sprintf("unsupported github event %q", string(e.Type))
}

// ParseEvent decodes body according to the declared event type.
func ParseEvent(eventType EventType, body []byte) (Event, error) {
	switch eventType {
	case EventPush:
		var push PushEvent
		if err := json.Unmarshal(body, &push); err != nil {
			return Event{}, fmt.Errorf("decode push event: %w", err)
		}
		return Event{Type: EventPush, Push: &push}, nil
	case EventPullRequest:
		var pr PullRequestEvent
		if err := json.Unmarshal(body, &pr); err != nil {
			return Event{}, fmt.Errorf("decode pull_request event: %w", err)
		}
		return Event{Type: EventPullRequest, PullRequest: &pr}, nil
	default:
		return Event{}, ErrUnsupportedEvent{Type: eventType}
	}
}
