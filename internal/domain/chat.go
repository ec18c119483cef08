package domain

// ChatRole identifies the speaker of a chat turn.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of a concierge conversation.
type ChatMessage struct {
	Role ChatRole `json:"role" enum:"user,model"`
	Text string   `json:"text"`
}

// ConciergeReply is the concierge's answer to a message.
type ConciergeReply struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
	Books       []Book   `json:"books,omitempty"`
	Source      Source   `json:"source"`
}
