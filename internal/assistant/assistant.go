// Package assistant wraps the hosted Gemini models behind the "Hub AI"
// study chat and the image creator. Requests and replies pass through
// untouched; this package only owns configuration, timeouts and the fixed
// texts users see when something goes wrong.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"schoolhub/internal/config"
	"schoolhub/internal/logging"

	"google.golang.org/genai"
)

// User-facing texts.
const (
	MsgNotConfigured   = "Hub AI is not available. The feature has not been configured by the administrator."
	MsgChatUnavailable = "Could not start the AI chat session. Please check the connection or API key setup."
	MsgReplyFailed     = "I'm having a little trouble connecting right now. Please check your internet connection and try again in a moment."
	MsgImageFailed     = "Sorry, I couldn't create that image. Please try a different prompt."
	Greeting           = "Hello! I am Hub AI. How can I help you with your studies today?"
)

var (
	ErrNotConfigured = errors.New("assistant api key not configured")
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrNoImage       = errors.New("no image data found in response")
)

// IsConfigured reports whether apiKey looks like a real key rather than
// the "Add your key" placeholder shipped in sample configs.
func IsConfigured(apiKey string) bool {
	return len(apiKey) > 10 && !strings.HasPrefix(apiKey, "Add")
}

// Models is the part of genai.Models the image generator uses.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ChatSession is the part of *genai.Chat a conversation uses.
type ChatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ChatStarter opens a chat session on model.
type ChatStarter func(ctx context.Context, model string, cfg *genai.GenerateContentConfig) (ChatSession, error)

// Client creates conversations and images.
type Client struct {
	models     Models
	startChat  ChatStarter
	chatModel  string
	imageModel string
	timeout    time.Duration
	usage      *Usage
}

// New connects to the Gemini API. It returns ErrNotConfigured when the
// key is missing or a placeholder; callers treat that as "feature off".
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !IsConfigured(cfg.Assistant.APIKey) {
		logging.AssistantWarn("Gemini API key is not configured. AI features will be disabled.")
		return nil, ErrNotConfigured
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Assistant.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	start := func(ctx context.Context, model string, gcfg *genai.GenerateContentConfig) (ChatSession, error) {
		chat, err := gc.Chats.Create(ctx, model, gcfg, nil)
		if err != nil {
			return nil, err
		}
		return chat, nil
	}
	c := NewWith(gc.Models, start, cfg.Assistant.ChatModel, cfg.Assistant.ImageModel, cfg.GetAssistantTimeout())
	logging.Assistant("Hub AI ready (chat %s, images %s)", c.chatModel, c.imageModel)
	return c, nil
}

// NewWith builds a client over explicit model and chat implementations.
func NewWith(models Models, start ChatStarter, chatModel, imageModel string, timeout time.Duration) *Client {
	if chatModel == "" {
		chatModel = "gemini-2.5-pro"
	}
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		models:     models,
		startChat:  start,
		chatModel:  chatModel,
		imageModel: imageModel,
		timeout:    timeout,
	}
}

// SetUsage makes the client record every call in u.
func (c *Client) SetUsage(u *Usage) { c.usage = u }

// Usage returns the recorder set by SetUsage, or nil.
func (c *Client) Usage() *Usage { return c.usage }

// ChatModel returns the model conversations use.
func (c *Client) ChatModel() string { return c.chatModel }

// UserMessage maps an assistant error to the text shown to users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return MsgNotConfigured
	case errors.Is(err, ErrEmptyPrompt):
		return "Please enter a message first."
	case errors.Is(err, errChatStart):
		return MsgChatUnavailable
	case errors.Is(err, errImage), errors.Is(err, ErrNoImage):
		return MsgImageFailed
	default:
		return MsgReplyFailed
	}
}
