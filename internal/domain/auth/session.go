package auth

// Session is the explicit per-request context handed to workflow services:
// who is acting, where they are, and what their active plan grants. Built by
// the transport layer from the verified token plus the stored profile, never
// from ambient globals.
type Session struct {
	ClientID      string
	Region        string
	Tier          string
	AccessPercent int
}
