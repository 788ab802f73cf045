package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/teodorv/medcycle/llm"
	"github.com/teodorv/medcycle/utils"
)

// ErrSessionNotFound is returned when a referenced session does not exist
// or has been swept.
var ErrSessionNotFound = errors.New("chat session not found")

// fallbackReply is returned when the completion service stays unavailable
// after retries; the chat flow never surfaces a raw error to the user.
const fallbackReply = "I'm having trouble answering right now. For questions about " +
	"medicine safety, storage, or disposal, please ask again in a moment or " +
	"consult your pharmacist."

var systemTemplate = llm.NewPromptTemplate("chat-system", `You are a careful health-information assistant for a medicine donation and disposal service.
Answer questions about medicine storage, expiry, donation eligibility, and safe disposal.
Always advise consulting a pharmacist or doctor for medical decisions. Never diagnose or prescribe.

Conversation so far:
{{.History}}
user: {{.Message}}
assistant:`)

// Service coordinates chat sessions with the completion client.
type Service struct {
	llm          llm.LLM
	store        Store
	idleTimeout  time.Duration
	memoryTokens int
	model        string
	logger       utils.Logger
}

// NewService creates a chat service backed by client and store. Sessions
// idle longer than idleTimeout are removed by the sweeper.
func NewService(client llm.LLM, store Store, idleTimeout time.Duration, memoryTokens int, model string, logger utils.Logger) *Service {
	return &Service{
		llm:          client,
		store:        store,
		idleTimeout:  idleTimeout,
		memoryTokens: memoryTokens,
		model:        model,
		logger:       logger,
	}
}

// Start creates a new session and returns it.
func (s *Service) Start() (*Session, error) {
	memory, err := llm.NewMemory(s.memoryTokens, s.model, s.logger)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:           uuid.NewString(),
		Memory:       memory,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.store.Put(session)
	s.logger.Info("chat session started", "session_id", session.ID)
	return session, nil
}

// SendMessage records the user message, generates a reply with the
// accumulated context, and records the reply. When the completion service
// fails after retries the static fallback reply is recorded and returned
// instead.
func (s *Service) SendMessage(ctx context.Context, sessionID, message string) (string, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}

	prompt, err := systemTemplate.Execute(map[string]any{
		"History": session.Memory.GetPrompt(),
		"Message": message,
	})
	if err != nil {
		return "", err
	}

	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("chat generation failed, using fallback", "session_id", sessionID, "error", err)
		reply = fallbackReply
	}

	session.Memory.Add("user", message)
	session.Memory.Add("assistant", reply)
	s.store.Touch(sessionID, time.Now())
	return reply, nil
}

// History returns the session's messages.
func (s *Service) History(sessionID string) ([]llm.MemoryMessage, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Memory.GetMessages(), nil
}

// End removes the session.
func (s *Service) End(sessionID string) error {
	if _, ok := s.store.Get(sessionID); !ok {
		return ErrSessionNotFound
	}
	s.store.Delete(sessionID)
	s.logger.Info("chat session ended", "session_id", sessionID)
	return nil
}

// StartSweeper runs the idle-session sweep every interval until ctx is
// cancelled. The sweep runs independently of request traffic.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := s.store.Sweep(time.Now().Add(-s.idleTimeout))
				if removed > 0 {
					s.logger.Info("swept idle chat sessions", "removed", removed)
				}
			}
		}
	}()
}
