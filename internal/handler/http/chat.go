package http

import (
	"log/slog"
	"net/http"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/backend"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/chat"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/event"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/httputil"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/validator"
)

// ChatHandler accepts support-chat messages and hands them to the
// debounced relay.
type ChatHandler struct {
	relay  *chat.Relay
	events *event.Publisher
	logger *slog.Logger
}

func NewChatHandler(relay *chat.Relay, events *event.Publisher, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{relay: relay, events: events, logger: logger}
}

// SendMessageRequest is the JSON request body for sending a chat message.
type SendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required,min=1,max=100"`
	Content        string `json:"content" validate:"required,min=1,max=2000"`
}

// SendMessage handles POST /api/v1/chat/messages. Messages are accepted
// immediately and delivered after the conversation's quiet window, so
// rapid resends collapse into one backend call.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sender := sessionIDFrom(r)
	if sender == "" {
		sender = "guest"
	}

	if err := h.relay.Enqueue(backend.ChatMessage{
		ConversationID: req.ConversationID,
		Sender:         sender,
		Content:        req.Content,
	}); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.events.ChatMessageSent(r.Context(), event.ChatMessageSent{
		ConversationID: req.ConversationID,
	})

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]any{
		"conversationId": req.ConversationID,
		"queued":         true,
	}})
}
