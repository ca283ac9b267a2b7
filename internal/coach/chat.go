package coach

import (
	"fmt"
	"sync"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role Role
	Text string
}

// ChatSession is one conversation with the coach. Transcript is what the user
// sees, greeting and fallbacks included; history is what the model is sent
// and only ever holds completed exchanges.
type ChatSession struct {
	Username string

	mu         sync.Mutex
	transcript []Message
	history    []Message
}

func Greeting(username string) string {
	return fmt.Sprintf("Hi %s! I'm Confi, your AI Coach. I see you're ready to grow. What shall we focus on today?", username)
}

// NewChatSession starts a conversation that opens with the coach greeting.
func NewChatSession(username string) *ChatSession {
	return &ChatSession{
		Username:   username,
		transcript: []Message{{Role: RoleModel, Text: Greeting(username)}},
	}
}

// Transcript returns a copy of everything shown so far.
func (s *ChatSession) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// History returns a copy of the exchanges replayed to the model.
func (s *ChatSession) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// record appends one turn. A fallback reply is shown to the user but the
// exchange is kept out of the model history.
func (s *ChatSession) record(message string, reply Result[string]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript,
		Message{Role: RoleUser, Text: message},
		Message{Role: RoleModel, Text: reply.Value},
	)
	if !reply.IsFallback() {
		s.history = append(s.history,
			Message{Role: RoleUser, Text: message},
			Message{Role: RoleModel, Text: reply.Value},
		)
	}
}
