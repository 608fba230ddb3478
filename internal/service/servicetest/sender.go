package servicetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/whatsapp"
)

// SentMessage is one call to Sender.Send.
type SentMessage struct {
	To   string
	Body string
}

// Sender records messages and fails for the numbers listed in Fail.
type Sender struct {
	mu   sync.Mutex
	Sent []SentMessage
	Fail map[string]error
}

func (s *Sender) Provider() string { return "test" }

func (s *Sender) Send(ctx context.Context, to string, body string) (whatsapp.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, SentMessage{To: to, Body: body})
	if err, ok := s.Fail[to]; ok {
		return whatsapp.Result{}, err
	}
	return whatsapp.Result{MessageID: fmt.Sprintf("msg-%d", len(s.Sent))}, nil
}
