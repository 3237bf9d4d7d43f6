package session

import (
	"context"

	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
)

const LoginPath = "/login"

// Decision is either a resolved user or a place to send the client.
type Decision struct {
	User       *user.User
	RedirectTo string
}

func (d Decision) Allowed() bool { return d.User != nil }

type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*user.User, error)
}

type Guard struct {
	sessions *Manager
	users    UserLookup
}

func NewGuard(sessions *Manager, users UserLookup) *Guard {
	return &Guard{sessions: sessions, users: users}
}

// Resolve never fails: anything short of a valid token for an existing user
// is a redirect to the login page. A store error is returned alongside so the
// caller can log it.
func (g *Guard) Resolve(ctx context.Context, token string) (Decision, error) {
	userID, err := g.sessions.Parse(token)
	if err != nil {
		return Decision{RedirectTo: LoginPath}, nil
	}

	u, err := g.users.GetUserByID(ctx, userID)
	if err != nil {
		return Decision{RedirectTo: LoginPath}, err
	}
	if u == nil {
		return Decision{RedirectTo: LoginPath}, nil
	}
	return Decision{User: u}, nil
}
