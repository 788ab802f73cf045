package llm

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/teodorv/medcycle/utils"
)

// MemoryMessage is a single message in a conversation history.
type MemoryMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Tokens  int       `json:"-"`
	SentAt  time.Time `json:"sent_at"`
}

// Memory accumulates conversation context with token-based truncation:
// when the total token count exceeds the limit, the oldest messages are
// dropped first. All operations are safe for concurrent use.
type Memory struct {
	messages    []MemoryMessage
	mutex       sync.Mutex
	totalTokens int
	maxTokens   int
	encoding    *tiktoken.Tiktoken
	logger      utils.Logger
}

// NewMemory creates a Memory bounded to maxTokens, using the token
// encoding for model. Unknown models fall back to the gpt-4o encoding;
// the count only needs to be consistent, not provider-exact.
func NewMemory(maxTokens int, model string, logger utils.Logger) (*Memory, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("failed to get encoding for model, defaulting to gpt-4o", "model", model, "error", err)
		encoding, err = tiktoken.EncodingForModel("gpt-4o")
		if err != nil {
			return nil, fmt.Errorf("failed to get default encoding: %w", err)
		}
	}

	return &Memory{
		messages:  []MemoryMessage{},
		maxTokens: maxTokens,
		encoding:  encoding,
		logger:    logger,
	}, nil
}

// Add appends a message, truncating the oldest messages if the token
// budget is exceeded.
func (m *Memory) Add(role, content string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	tokens := len(m.encoding.Encode(content, nil, nil))
	m.messages = append(m.messages, MemoryMessage{
		Role:    role,
		Content: content,
		Tokens:  tokens,
		SentAt:  time.Now(),
	})
	m.totalTokens += tokens

	m.truncate()
	m.logger.Debug("added message to memory", "role", role, "tokens", tokens, "total_tokens", m.totalTokens)
}

func (m *Memory) truncate() {
	for m.totalTokens > m.maxTokens && len(m.messages) > 1 {
		removed := m.messages[0]
		m.messages = m.messages[1:]
		m.totalTokens -= removed.Tokens
	}
}

// GetPrompt returns the conversation history formatted as "role: content"
// lines, ready to prepend to the next completion prompt.
func (m *Memory) GetPrompt() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var prompt string
	for _, msg := range m.messages {
		prompt += fmt.Sprintf("%s: %s\n", msg.Role, msg.Content)
	}
	return prompt
}

// GetMessages returns a copy of the conversation history.
func (m *Memory) GetMessages() []MemoryMessage {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]MemoryMessage(nil), m.messages...)
}

// Clear removes all messages and resets the token count.
func (m *Memory) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.messages = []MemoryMessage{}
	m.totalTokens = 0
}
