package assistant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"schoolhub/internal/logging"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

var errChatStart = errors.New("chat session could not start")

// Role names match the genai content roles.
const (
	RoleUser  = genai.RoleUser
	RoleModel = genai.RoleModel
)

// Message is one turn of a conversation as shown to the user.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// InitialHistory is what a new conversation shows before the first turn.
func InitialHistory() []Message {
	return []Message{{Role: RoleModel, Text: Greeting}}
}

// Conversation is one Hub AI chat. Sends are serialized; History may be
// read while a send is in flight.
type Conversation struct {
	ID string

	sendMu  sync.Mutex
	session ChatSession
	timeout time.Duration
	model   string
	usage   *Usage

	mu      sync.Mutex
	history []Message
}

// StartChat opens a new conversation seeded with the greeting.
func (c *Client) StartChat(ctx context.Context) (*Conversation, error) {
	session, err := c.startChat(ctx, c.chatModel, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	})
	if err != nil {
		logging.AssistantError("Failed to initialize AI chat: %v", err)
		return nil, fmt.Errorf("%w: %v", errChatStart, err)
	}

	conv := &Conversation{
		ID:      uuid.NewString(),
		session: session,
		history: InitialHistory(),
		timeout: c.timeout,
		model:   c.chatModel,
		usage:   c.usage,
	}
	logging.AssistantDebug("chat %s started on %s", conv.ID, c.chatModel)
	return conv, nil
}

// Send forwards text to the model and returns its reply. On failure the
// reply is MsgReplyFailed, which is also recorded in the history, and the
// error carries the cause for logs.
func (cv *Conversation) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyPrompt
	}

	cv.sendMu.Lock()
	defer cv.sendMu.Unlock()

	cv.record(Message{Role: RoleUser, Text: text})

	ctx, cancel := context.WithTimeout(ctx, cv.timeout)
	defer cancel()

	resp, err := cv.session.SendMessage(ctx, genai.Part{Text: text})
	if err == nil && (resp == nil || resp.Text() == "") {
		err = errors.New("empty response")
	}
	cv.usage.Track(cv.model, OpChat, resp, err)
	if err != nil {
		logging.AssistantError("Error sending message in chat %s: %v", cv.ID, err)
		cv.record(Message{Role: RoleModel, Text: MsgReplyFailed})
		return MsgReplyFailed, fmt.Errorf("failed to get a response from the AI: %w", err)
	}

	reply := resp.Text()
	cv.record(Message{Role: RoleModel, Text: reply})
	return reply, nil
}

func (cv *Conversation) record(msg Message) {
	cv.mu.Lock()
	cv.history = append(cv.history, msg)
	cv.mu.Unlock()
}

// History returns the turns so far, greeting first.
func (cv *Conversation) History() []Message {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return slices.Clone(cv.history)
}
