package gateway

// ChatRequest is one inbound client frame. The client resends its view of
// the conversation on every turn; the server treats it as authoritative for
// user and assistant messages.
type ChatRequest struct {
	Messages    []ClientMessage `json:"messages"`
	Model       string          `json:"model,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

// ClientMessage is a conversation turn as the client sends it. Tool traffic
// never crosses the socket.
type ClientMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Outbound frame types.
const (
	TypeMessageReceived = "message_received"
	TypeChatResponse    = "chat_response"
	TypeError           = "error"
)

// AckMessage is the status text sent with the ack frame.
const AckMessage = "Processing your request..."

// Ack tells the client its frame was accepted and a turn is running.
type Ack struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ChatResponse delivers the assistant's reply for one turn.
type ChatResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Role    string `json:"role"`
}

// ErrorMessage reports a failed turn. The message is always user-safe;
// details stay in the server log.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
