package models

// ReplyKind tags a decoded server reply
type ReplyKind int

const (
	// ReplyMessage carries content to render
	ReplyMessage ReplyKind = iota
	// ReplyError carries a server-reported error detail
	ReplyError
	// ReplyReset means the conversation was wiped and history should be reloaded
	ReplyReset
	// ReplyRefresh means the whole view should be reloaded
	ReplyRefresh
)

// String returns the kind name
func (k ReplyKind) String() string {
	switch k {
	case ReplyMessage:
		return "message"
	case ReplyError:
		return "error"
	case ReplyReset:
		return "reset"
	case ReplyRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Reply is a server response resolved once at the transport boundary.
// Content and Role are set for ReplyMessage, Detail for ReplyError.
type Reply struct {
	Kind    ReplyKind
	Role    Role
	Content string
	Detail  string
}

// MessageReply builds a ReplyMessage
func MessageReply(role Role, content string) Reply {
	return Reply{Kind: ReplyMessage, Role: role, Content: content}
}

// ErrorReply builds a ReplyError
func ErrorReply(detail string) Reply {
	return Reply{Kind: ReplyError, Detail: detail}
}

// Message returns the message a reply should render as, if any.
// Server errors are shown as assistant bubbles.
func (r Reply) Message() (Message, bool) {
	switch r.Kind {
	case ReplyMessage:
		role := r.Role
		if role == "" {
			role = RoleAI
		}
		return Message{Content: r.Content, Role: role}, true
	case ReplyError:
		return Message{Content: r.Detail, Role: RoleAI}, true
	default:
		return Message{}, false
	}
}
