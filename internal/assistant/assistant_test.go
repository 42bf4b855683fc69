package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"schoolhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/genai"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

type stubChat struct {
	mu    sync.Mutex
	sent  []string
	reply string
	err   error
}

func (s *stubChat) SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range parts {
		s.sent = append(s.sent, p.Text)
	}
	if s.err != nil {
		return nil, s.err
	}
	return textResponse(s.reply), nil
}

type stubModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (s *stubModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.model, s.contents, s.config = model, contents, config
	return s.resp, s.err
}

func starterFor(chat ChatSession, err error, gotCfg **genai.GenerateContentConfig) ChatStarter {
	return func(ctx context.Context, model string, cfg *genai.GenerateContentConfig) (ChatSession, error) {
		if gotCfg != nil {
			*gotCfg = cfg
		}
		if err != nil {
			return nil, err
		}
		return chat, nil
	}
}

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"short", false},
		{"0123456789", false},
		{"Add your Gemini API key here", false},
		{"AIzaSyExampleKeyValue", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsConfigured(tt.key), "key %q", tt.key)
	}
}

func TestNewRequiresKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Assistant.APIKey = "Add your Gemini API key here"

	c, err := New(context.Background(), cfg)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewWithDefaults(t *testing.T) {
	c := NewWith(&stubModels{}, nil, "", "", 0)
	assert.Equal(t, "gemini-2.5-pro", c.ChatModel())
	assert.Equal(t, "gemini-2.5-flash-image", c.imageModel)
	assert.Equal(t, 60*time.Second, c.timeout)
}

func TestStartChatSeedsGreeting(t *testing.T) {
	var cfg *genai.GenerateContentConfig
	c := NewWith(&stubModels{}, starterFor(&stubChat{}, nil, &cfg), "m", "i", time.Second)

	conv, err := c.StartChat(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, []Message{{Role: RoleModel, Text: Greeting}}, conv.History())

	require.NotNil(t, cfg)
	require.NotNil(t, cfg.SystemInstruction)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	assert.True(t, strings.HasPrefix(cfg.SystemInstruction.Parts[0].Text, "You are Hub AI"))
}

func TestStartChatFailure(t *testing.T) {
	c := NewWith(&stubModels{}, starterFor(nil, errors.New("bad key"), nil), "m", "i", time.Second)

	_, err := c.StartChat(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgChatUnavailable, UserMessage(err))
}

func TestSendAppendsTurns(t *testing.T) {
	chat := &stubChat{reply: "Photosynthesis turns light into sugar."}
	c := NewWith(&stubModels{}, starterFor(chat, nil, nil), "m", "i", time.Second)
	conv, err := c.StartChat(context.Background())
	require.NoError(t, err)

	reply, err := conv.Send(context.Background(), "  What is photosynthesis?  ")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis turns light into sugar.", reply)
	assert.Equal(t, []string{"What is photosynthesis?"}, chat.sent)

	assert.Equal(t, []Message{
		{Role: RoleModel, Text: Greeting},
		{Role: RoleUser, Text: "What is photosynthesis?"},
		{Role: RoleModel, Text: "Photosynthesis turns light into sugar."},
	}, conv.History())
}

func TestSendEmptyPrompt(t *testing.T) {
	chat := &stubChat{reply: "x"}
	c := NewWith(&stubModels{}, starterFor(chat, nil, nil), "m", "i", time.Second)
	conv, err := c.StartChat(context.Background())
	require.NoError(t, err)

	_, err = conv.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Empty(t, chat.sent)
	assert.Len(t, conv.History(), 1)
}

func TestSendFailureRecordsApology(t *testing.T) {
	chat := &stubChat{err: errors.New("connection reset")}
	c := NewWith(&stubModels{}, starterFor(chat, nil, nil), "m", "i", time.Second)
	conv, err := c.StartChat(context.Background())
	require.NoError(t, err)

	reply, err := conv.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, MsgReplyFailed, reply)
	assert.Equal(t, MsgReplyFailed, UserMessage(err))

	h := conv.History()
	require.Len(t, h, 3)
	assert.Equal(t, Message{Role: RoleModel, Text: MsgReplyFailed}, h[2])
}

func TestSendEmptyReplyIsFailure(t *testing.T) {
	c := NewWith(&stubModels{}, starterFor(&stubChat{reply: ""}, nil, nil), "m", "i", time.Second)
	conv, err := c.StartChat(context.Background())
	require.NoError(t, err)

	reply, err := conv.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, MsgReplyFailed, reply)
}

func TestGenerateImage(t *testing.T) {
	models := &stubModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here is your picture"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
			}},
		}},
	}}
	c := NewWith(models, nil, "m", "img-model", time.Second)

	img, err := c.GenerateImage(context.Background(), "a lighthouse at dusk")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "data:image/png;base64,iVBORw==", img.DataURL())

	assert.Equal(t, "img-model", models.model)
	require.Len(t, models.contents, 1)
	assert.Equal(t, imagePromptPrefix+"a lighthouse at dusk", models.contents[0].Parts[0].Text)
	assert.Equal(t, []string{"IMAGE"}, models.config.ResponseModalities)
}

func TestGenerateImageDefaultsMIMEType(t *testing.T) {
	models := &stubModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte("abc")}}}},
		}},
	}}
	img, err := NewWith(models, nil, "", "", 0).GenerateImage(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,YWJj", img.DataURL())
}

func TestGenerateImageErrors(t *testing.T) {
	t.Run("empty prompt", func(t *testing.T) {
		models := &stubModels{}
		_, err := NewWith(models, nil, "", "", 0).GenerateImage(context.Background(), " ")
		assert.ErrorIs(t, err, ErrEmptyPrompt)
		assert.Empty(t, models.model)
	})
	t.Run("no inline data", func(t *testing.T) {
		models := &stubModels{resp: textResponse("I can't draw that")}
		_, err := NewWith(models, nil, "", "", 0).GenerateImage(context.Background(), "cat")
		assert.ErrorIs(t, err, ErrNoImage)
		assert.Equal(t, MsgImageFailed, UserMessage(err))
	})
	t.Run("api error", func(t *testing.T) {
		models := &stubModels{err: errors.New("quota exceeded")}
		_, err := NewWith(models, nil, "", "", 0).GenerateImage(context.Background(), "cat")
		require.Error(t, err)
		assert.Equal(t, MsgImageFailed, UserMessage(err))
	})
	t.Run("nil response", func(t *testing.T) {
		_, err := NewWith(&stubModels{}, nil, "", "", 0).GenerateImage(context.Background(), "cat")
		assert.ErrorIs(t, err, ErrNoImage)
	})
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, MsgNotConfigured, UserMessage(ErrNotConfigured))
	assert.Equal(t, MsgReplyFailed, UserMessage(errors.New("other")))
}
