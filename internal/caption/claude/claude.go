package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/photofolio/internal/caption"
)

// maxTokens is generous for a single sentence.
const maxTokens = 256

type ClaudeCaptioner struct {
	model  string
	client *anthropic.Client
}

func NewClaudeCaptioner(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeCaptioner {
	return &ClaudeCaptioner{
		model:  model,
		client: anthropic.NewClient(apiKey, opts...),
	}
}

func buildMessages(imageData []byte, mimeType string) []anthropic.Message {
	return []anthropic.Message{{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(anthropic.MessageContentSource{
				Type:      "base64",
				MediaType: caption.NormaliseMIME(mimeType),
				Data:      base64.StdEncoding.EncodeToString(imageData),
			}),
			anthropic.NewTextMessageContent(caption.Prompt),
		},
	}}
}

func (c *ClaudeCaptioner) Caption(ctx context.Context, r io.Reader, mimeType string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages:  buildMessages(imageData, mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText {
			return caption.Clean(blk.GetText()), nil
		}
	}
	return "", fmt.Errorf("claude returned no text content")
}
