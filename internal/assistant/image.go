package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"schoolhub/internal/logging"

	"google.golang.org/genai"
)

const imagePromptPrefix = "A safe-for-work, school-appropriate, photorealistic image of: "

var errImage = errors.New("image generation failed")

// Image is a generated picture.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURL renders the image as an inline data: URL.
func (im Image) DataURL() string {
	return "data:" + im.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(im.Data)
}

// GenerateImage asks the image model for a picture of prompt. The prompt
// is always prefixed with a school-appropriate framing.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Image{}, ErrEmptyPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.models.GenerateContent(ctx, c.imageModel, genai.Text(imagePromptPrefix+prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage)},
	})
	img, ok := firstImage(resp)
	trackErr := err
	if trackErr == nil && !ok {
		trackErr = ErrNoImage
	}
	c.usage.Track(c.imageModel, OpImage, resp, trackErr)
	if err != nil {
		logging.AssistantError("Error generating image: %v", err)
		return Image{}, fmt.Errorf("%w: %v", errImage, err)
	}

	if ok {
		logging.AssistantDebug("generated %s image (%d bytes)", img.MIMEType, len(img.Data))
		return img, nil
	}
	logging.AssistantWarn("image response carried no inline data")
	return Image{}, ErrNoImage
}

func firstImage(resp *genai.GenerateContentResponse) (Image, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Image{}, false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mime := part.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return Image{MIMEType: mime, Data: part.InlineData.Data}, true
	}
	return Image{}, false
}
