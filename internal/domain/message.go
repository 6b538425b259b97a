package domain

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatMessage es una entrada del transcript; el orden de insercion es cronologico.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func UserMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderUser, Text: text}
}

func AssistantMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderAssistant, Text: text}
}
