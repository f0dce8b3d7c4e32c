// Package guard decides what the dashboard shows for a route given the
// session state. Every function here is pure.
package guard

import (
	"fmt"
	"strings"
)

// Route is a dashboard location, written as a path.
type Route string

const (
	Root          Route = "/"
	Auth          Route = "/auth"
	Dashboard     Route = "/dashboard"
	Agents        Route = "/agents"
	Reputation    Route = "/agents/reputation"
	Brief         Route = "/agents/brief"
	StressTest    Route = "/agents/stress-test"
	ContentStudio Route = "/agents/content"
)

const maxRedirects = 4

var protected = map[Route]bool{
	Dashboard:     true,
	Agents:        true,
	Reputation:    true,
	Brief:         true,
	StressTest:    true,
	ContentStudio: true,
}

// Protected lists the routes that require a signed-in user, in menu order.
func Protected() []Route {
	return []Route{Dashboard, Agents, Reputation, Brief, StressTest, ContentStudio}
}

// IsProtected reports whether r requires authentication.
func (r Route) IsProtected() bool {
	return protected[r]
}

// Known reports whether r is a route the dashboard can show.
func (r Route) Known() bool {
	return r == Root || r == Auth || protected[r]
}

// ParseRoute normalizes user input such as "agents/brief/" into a Route.
func ParseRoute(s string) Route {
	s = strings.TrimSpace(s)
	s = "/" + strings.Trim(s, "/")
	return Route(strings.ToLower(s))
}

// Action is what the caller should do for a route.
type Action int

const (
	// RenderLoading shows the loading indicator while the session restores.
	RenderLoading Action = iota
	// Render shows the requested route.
	Render
	// Redirect navigates to Outcome.Target.
	Redirect
	// RenderNotFound shows the not-found view for an unknown route.
	RenderNotFound
)

func (a Action) String() string {
	switch a {
	case RenderLoading:
		return "loading"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case RenderNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Outcome is the guard's decision. Target is the route to render or redirect to.
type Outcome struct {
	Action Action
	Target Route
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s %s", o.Action, o.Target)
}

// Decide applies the routing table:
//
//	loading                       -> loading indicator
//	"/"                           -> redirect /dashboard
//	"/auth", signed in            -> redirect /dashboard
//	"/auth", signed out           -> render login
//	protected, signed out         -> redirect /auth
//	protected, signed in          -> render route
//	anything else                 -> not found
func Decide(loading, authenticated bool, route Route) Outcome {
	if loading {
		return Outcome{Action: RenderLoading, Target: route}
	}

	switch {
	case route == Root:
		return Outcome{Action: Redirect, Target: Dashboard}
	case route == Auth && authenticated:
		return Outcome{Action: Redirect, Target: Dashboard}
	case route == Auth:
		return Outcome{Action: Render, Target: Auth}
	case route.IsProtected() && !authenticated:
		return Outcome{Action: Redirect, Target: Auth}
	case route.IsProtected():
		return Outcome{Action: Render, Target: route}
	default:
		return Outcome{Action: RenderNotFound, Target: route}
	}
}

// Resolve follows redirects until the outcome is something to render.
func Resolve(loading, authenticated bool, route Route) Outcome {
	outcome := Decide(loading, authenticated, route)
	for i := 0; outcome.Action == Redirect && i < maxRedirects; i++ {
		outcome = Decide(loading, authenticated, outcome.Target)
	}
	return outcome
}
