// Package modelclient implements the Streaming Model Client: one
// network attempt plus bounded retries against a single model, over
// an OpenAI-style chat-completions SSE dialect.
package modelclient

// Message is a Conversation Message: a role and its content string.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Usage is the running token-usage accumulator; the last usage object
// seen on the wire wins.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// EventKind tags the shape of an Event.
type EventKind int

const (
	EventToken EventKind = iota
	EventDone
	EventError
)

// Event is a Stream Event: a tagged value carrying a text fragment
// (Token), a final usage tuple (Done), or a message (Error). A stream
// emits zero or more Token events followed by exactly one terminal
// Done or Error.
type Event struct {
	Kind    EventKind
	Token   string
	Usage   Usage
	ErrText string
}
