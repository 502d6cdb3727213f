// Package gate enforces the subscription dimension of access to
// protected surfaces. Identity is the outer guard's problem; this gate
// only asks "is the trial over with no paid plan behind it".
package gate

import (
	"context"
	"sync/atomic"

	"github.com/brainac-app/brainac/internal/pkg/logger"
	"github.com/brainac-app/brainac/pkg/client"
)

// RouteSubscription is the fixed destination a denied check redirects
// to. The prior location is discarded; re-entry passes the gate again.
const RouteSubscription = "/subscription"

// StatusAPI is the slice of the SDK the gate needs.
type StatusAPI interface {
	GetSubscriptionStatus(ctx context.Context) (*client.SubscriptionStatus, error)
}

// Sessions is the slice of the session manager the gate consults.
type Sessions interface {
	IsAuthenticated() bool
	Generation() uint64
}

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed    bool
	RedirectTo string // set only when denied
}

// Gate performs the per-entry subscription check.
//
// The gate is fail-open by contract: a status query that errors grants
// access. Availability is deliberately prioritized over strict
// enforcement; do not tighten this to fail-closed.
type Gate struct {
	api      StatusAPI
	sessions Sessions
	log      *logger.Logger

	lastGeneration atomic.Uint64
}

// New creates a subscription gate.
func New(api StatusAPI, sessions Sessions, log *logger.Logger) *Gate {
	return &Gate{
		api:      api,
		sessions: sessions,
		log:      log,
	}
}

// Check runs one fresh status query and decides. Nothing is cached
// between calls; every protected entry pays for its own query.
func (g *Gate) Check(ctx context.Context) Decision {
	if !g.sessions.IsAuthenticated() {
		// The unauthenticated case belongs to the identity guard.
		return Decision{Allowed: true}
	}

	if gen := g.sessions.Generation(); g.lastGeneration.Swap(gen) != gen {
		g.log.Debugf("subscription check for new identity (generation %d)", gen)
	}

	status, err := g.api.GetSubscriptionStatus(ctx)
	if err != nil {
		g.log.WithError(err).Error("subscription check failed; allowing access")
		return Decision{Allowed: true}
	}

	if status.IsExpired && status.NeedsSubscription {
		return Decision{RedirectTo: RouteSubscription}
	}
	return Decision{Allowed: true}
}
