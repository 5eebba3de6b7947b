package session

import (
	"sync"

	model "auction-client/internal/models"
	"auction-client/utils"
)

// State is the authentication state of the client session.
type State int

const (
	// Unknown means verification has not completed yet. Protected views show
	// a pending indicator in this state, never the login redirect.
	Unknown State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Decision is what a protected view should do given the current state.
type Decision int

const (
	Pending Decision = iota
	Allow
	Redirect
)

// Gate owns the single client session: the opaque credential token (the jwt
// cookie's value upstream) and the verified user profile. It never parses the
// token. Exactly one Gate exists per client instance.
type Gate struct {
	mu    sync.Mutex
	state State
	token string
	user  *model.User
}

// NewGate creates a gate in the Unknown state.
func NewGate() *Gate {
	return &Gate{state: Unknown}
}

// Resolve records the outcome of the initial verification call: a verified
// user moves the gate to Authenticated, anything else to Anonymous.
func (g *Gate) Resolve(user *model.User, token string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if user == nil || token == "" {
		g.state = Anonymous
		g.token = ""
		g.user = nil
		return
	}
	g.state = Authenticated
	g.token = token
	g.user = user
}

// Login moves an Anonymous (or Unknown) gate to Authenticated with a verified
// user profile. An already-Authenticated gate keeps its user; changing users
// requires a full re-verification via Resolve.
func (g *Gate) Login(user model.User, token string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Authenticated {
		utils.Warn("session: login ignored while authenticated", map[string]any{
			"user_id": g.user.UserID,
		})
		return
	}
	g.state = Authenticated
	g.token = token
	g.user = &user
}

// Logout clears the token and moves the gate to Anonymous.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clearLocked("logout")
}

// Invalidate handles a 401 from any protected call: the token is cleared and
// the gate becomes Anonymous, regardless of which call failed.
func (g *Gate) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clearLocked("unauthorized response")
}

func (g *Gate) clearLocked(reason string) {
	if g.state == Authenticated {
		utils.Info("session: cleared", map[string]any{"reason": reason})
	}
	g.state = Anonymous
	g.token = ""
	g.user = nil
}

// State returns the current session state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Decide returns what a protected view should render right now.
func (g *Gate) Decide() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case Unknown:
		return Pending
	case Authenticated:
		return Allow
	default:
		return Redirect
	}
}

// Token returns the opaque credential, or "" when not authenticated.
func (g *Gate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// User returns the verified profile, or nil when not authenticated.
func (g *Gate) User() *model.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user
}
