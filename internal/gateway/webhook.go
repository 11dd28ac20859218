package gateway

import (
	"errors"
	"io"
	"net/http"

	"github.com/Forom-ets/discord-forom/internal/delivery"
	"github.com/Forom-ets/discord-forom/internal/github"
	"github.com/Forom-ets/discord-forom/internal/message"
)

// GitHub webhook request headers.
const (
	headerGitHubEvent     = "X-GitHub-Event"
	headerGitHubSignature = "X-Hub-Signature-256"
)

// handleGitHubWebhook verifies, routes, and acknowledges a GitHub event.
// Apart from signature failures this endpoint always answers 200: an
// unconfigured repository, an unroutable event type, or a malformed payload
// is not an error condition GitHub can act on.
func (s *Server) handleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		s.respondText(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > maxBodySize {
		s.respondText(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	signature := r.Header.Get(headerGitHubSignature)
	if err := s.githubPolicy.VerifyGitHub(body, signature); err != nil {
		s.logger.Warn("webhook signature verification failed")
		s.respondText(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	eventType := github.EventType(r.Header.Get(headerGitHubEvent))
	event, err := github.ParseEvent(eventType, body)
	if err != nil {
		var unsupported github.ErrUnsupportedEvent
		if errors.As(err, &unsupported) {
			s.logger.Debug("ignoring github event", "event", string(eventType))
		} else {
			s.logger.Warn("malformed github payload", "event", string(eventType), "error", err)
		}
		s.respondText(w, http.StatusOK, "ignored")
		return
	}

	repo := event.RepositoryFullName()
	rule, found, err := s.rules.FindByRepository(r.Context(), repo)
	if err != nil {
		s.logger.Error("routing rule lookup failed", "repo", repo, "error", err)
		s.respondText(w, http.StatusOK, "ok")
		return
	}
	if !found {
		s.logger.Info("no routing rule for repository", "repo", repo, "event", string(eventType))
		s.respondText(w, http.StatusOK, "no config for this repo")
		return
	}

	var content string
	switch event.Type {
	case github.EventPush:
		content = message.PushNotification(rule, event.Push)
	case github.EventPullRequest:
		content = message.PullRequestNotification(rule, event.PullRequest)
	}

	notification := delivery.NewNotification(rule.ChannelID, content, string(eventType), body)
	s.notifier.Enqueue(notification)

	s.logger.Info("notification queued",
		"delivery_id", notification.ID,
		"channel_id", rule.ChannelID,
		"repo", repo,
		"event", string(eventType),
		"fingerprint", notification.Fingerprint,
	)

	// The acknowledgement never waits on delivery.
	s.respondText(w, http.StatusOK, "ok")
}
