package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Image is an inline image attached to the last user turn.
type Image struct {
	Data     []byte
	MIMEType string
}

// CompletionRequest contains the parameters for an LLM completion request.
// Providers place Images after the text of the final user message.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Images      []Image
	MaxTokens   int
	Temperature float64
}

// HasImages reports whether the request is multimodal.
func (r CompletionRequest) HasImages() bool {
	return len(r.Images) > 0
}

// lastUserIndex returns the index of the final user message, or -1.
func (r CompletionRequest) lastUserIndex() int {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return i
		}
	}
	return -1
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
