// Package routes decides whether navigation into the protected screens is
// admitted, based solely on the presence of a session token.
package routes

// Paths of the console's screens.
const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathUsers     = "/users"
	PathProducts  = "/products"
	PathOrders    = "/orders"
)

// Session is the read surface the gate needs. The token is re-read on every
// check; the gate never caches it, so an external logout takes effect on
// the next navigation.
type Session interface {
	Token() string
}

// Decision is the outcome of one navigation check.
type Decision struct {
	Allow      bool
	RedirectTo string
}

type Gate struct {
	session Session
}

func NewGate(session Session) *Gate {
	return &Gate{session: session}
}

var protected = map[string]struct{}{
	PathDashboard: {},
	PathUsers:     {},
	PathProducts:  {},
	PathOrders:    {},
}

// Check admits or redirects a navigation attempt.
//
// Unauthenticated: only the login screen renders; everything else, known or
// not, redirects to it. Authenticated: known screens render, the root and
// unknown paths land on the dashboard.
func (g *Gate) Check(path string) Decision {
	authenticated := g.session.Token() != ""

	if !authenticated {
		if path == PathLogin {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: PathLogin}
	}

	if _, ok := protected[path]; ok {
		return Decision{Allow: true}
	}
	if path == PathLogin {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: PathDashboard}
}
