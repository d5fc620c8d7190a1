// Package chat relays support-chat messages to the backend, coalescing
// a visitor's rapid repeated sends into one effective call per quiet
// window so button mashing does not fan out into duplicate messages.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/backend"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/debounce"
	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
)

// DefaultWindow is the quiet window within which repeated sends from
// the same conversation collapse into the latest one.
const DefaultWindow = 300 * time.Millisecond

// Sender is the backend call the relay coalesces.
type Sender interface {
	SendChatMessage(ctx context.Context, msg backend.ChatMessage) (backend.ChatReply, error)
}

// Relay debounces chat sends per conversation. Each conversation gets
// its own quiet window; the latest message within the window wins.
type Relay struct {
	sender Sender
	window time.Duration
	logger *slog.Logger

	mu         sync.Mutex
	debouncers map[string]*debounce.Debouncer
	closed     bool
}

func NewRelay(sender Sender, window time.Duration, logger *slog.Logger) *Relay {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Relay{
		sender:     sender,
		window:     window,
		logger:     logger,
		debouncers: make(map[string]*debounce.Debouncer),
	}
}

// Enqueue accepts a message for delivery after the conversation's quiet
// window. It returns immediately; delivery happens in the background
// and failures are logged, not surfaced, because by then there is no
// caller left to tell.
func (r *Relay) Enqueue(msg backend.ChatMessage) error {
	if strings.TrimSpace(msg.Content) == "" {
		return apperrors.InvalidInput("chat message content is empty")
	}
	if msg.ConversationID == "" {
		return apperrors.InvalidInput("conversation id is required")
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return apperrors.ServiceUnavailable("chat relay is shutting down")
	}
	d, ok := r.debouncers[msg.ConversationID]
	if !ok {
		d = debounce.New(r.window)
		r.debouncers[msg.ConversationID] = d
	}
	r.mu.Unlock()

	d.Trigger(func() { r.deliver(msg) })
	return nil
}

func (r *Relay) deliver(msg backend.ChatMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reply, err := r.sender.SendChatMessage(ctx, msg)
	if err != nil {
		r.logger.Error("chat message delivery failed",
			"conversation_id", msg.ConversationID, "error", err)
		return
	}
	r.logger.Info("chat message delivered",
		"conversation_id", msg.ConversationID, "message_id", reply.MessageID)
}

// Close flushes every pending message and stops accepting new ones.
func (r *Relay) Close() {
	r.mu.Lock()
	r.closed = true
	debouncers := make([]*debounce.Debouncer, 0, len(r.debouncers))
	for _, d := range r.debouncers {
		debouncers = append(debouncers, d)
	}
	r.mu.Unlock()

	for _, d := range debouncers {
		d.Flush()
		d.Stop()
	}
}
