package models

// Role identifies who authored a message
type Role string

const (
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// ParseRole maps a server-supplied role onto a Role.
// Only "user" and "system" are recognised; everything else is the assistant.
func ParseRole(s string) Role {
	switch s {
	case string(RoleUser):
		return RoleUser
	case string(RoleSystem):
		return RoleSystem
	default:
		return RoleAI
	}
}

// Class returns the style class used for transcript nodes of this role
func (r Role) Class() string {
	switch r {
	case RoleUser:
		return "user-message"
	case RoleSystem:
		return "system-message"
	default:
		return "ai-message"
	}
}

// Label returns the display label for the role
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleSystem:
		return "System"
	default:
		return "AI"
	}
}

// Message represents a single chat turn
type Message struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}
