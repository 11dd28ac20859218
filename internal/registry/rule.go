// Package registry holds the routing rules that connect a GitHub repository
// to the Discord channel and roles its notifications go to.
//
// The store is injectable: the in-memory implementation matches the original
// volatile behavior (rules are lost on restart), the SQLite implementation
// survives restarts. Router logic is identical against both.
package registry

import (
	"context"
	"fmt"
)

// Rule maps one destination channel to its notification settings.
type Rule struct {
	// ChannelID is the Discord channel that receives notifications. At most
	// one rule exists per channel; re-running setup replaces it.
	ChannelID string

	// PushRoleID is mentioned on push events.
	PushRoleID string

	// PRRoleID is mentioned on pull request events.
	PRRoleID string

	// Repo is the "owner/name" repository string, matched exactly
	// (case-sensitive) against incoming webhook payloads.
	Repo string
}

// Validate checks that all fields are non-empty. No further validation of
// role or repository identifiers is done.
func (r Rule) Validate() error {
	if r.ChannelID == "" {
		return fmt.Errorf("channel id is empty")
	}
	if r.PushRoleID == "" {
		return fmt.Errorf("push role id is empty")
	}
	if r.PRRoleID == "" {
		return fmt.Errorf("pr role id is empty")
	}
	if r.Repo == "" {
		return fmt.Errorf("repo is empty")
	}
	return nil
}

// Store is the narrow interface the event router depends on.
//
// FindByRepository returns the first rule whose Repo matches fullName.
// Repository names are not unique across rules; when several channels watch
// the same repository, which one wins is a documented first-match-in-order
// semantics, not an error. Implementations must make that order
// deterministic (registration order).
type Store interface {
	Upsert(ctx context.Context, rule Rule) error
	FindByRepository(ctx context.Context, fullName string) (Rule, bool, error)
}
