package client

import "context"

// Route describes a navigable view and its access rule.
type Route struct {
	Path         string
	RequiresAuth bool // redirect to /login when Anonymous
	GuestOnly    bool // redirect to /home when Authenticated
}

// DefaultRoutes is the application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/home", RequiresAuth: true},
		{Path: "/login", GuestOnly: true},
		{Path: "/register", GuestOnly: true},
	}
}

// Guard gates navigation on the session mirror.
type Guard struct {
	store  *Store
	routes map[string]Route
}

// NewGuard creates a route guard over the given mirror and route table.
func NewGuard(store *Store, routes []Route) *Guard {
	byPath := make(map[string]Route, len(routes))
	for _, r := range routes {
		byPath[r.Path] = r
	}
	return &Guard{store: store, routes: byPath}
}

// Resolve decides where a navigation to path should land. It returns the
// redirect target, or "" to proceed. When the mirror is unset it blocks
// on a best-effort refresh first; a failed refresh means Anonymous and is
// never a navigation error.
func (g *Guard) Resolve(ctx context.Context, path string) string {
	if g.store.CurrentUser == nil {
		g.store.InitAuth(ctx)
	}

	if path == "/" {
		if g.store.CurrentUser != nil {
			return "/home"
		}
		return "/login"
	}

	route, ok := g.routes[path]
	if !ok {
		return ""
	}
	if route.RequiresAuth && g.store.CurrentUser == nil {
		return "/login"
	}
	if route.GuestOnly && g.store.CurrentUser != nil {
		return "/home"
	}
	return ""
}
