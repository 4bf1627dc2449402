package llm

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System builds a system-role message.
func System(content string) Message {
	return Message{Role: "system", Content: content}
}

// User builds a user-role message.
func User(content string) Message {
	return Message{Role: "user", Content: content}
}
