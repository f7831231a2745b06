package auth

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

const (
	ClientStatusActive   = "active"
	ClientStatusDisabled = "disabled"
)

// UserContext is the verified identity attached to a request.
type UserContext struct {
	UserID    string
	Role      string
	SessionID string
}
