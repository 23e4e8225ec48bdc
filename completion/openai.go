// Package completion provides CompletionProvider implementations for
// hosted language model APIs.
package completion

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/scrutari/scrutari"
)

// OpenAI implements scrutari.CompletionProvider using the official
// openai-go SDK (chat completions). It works against any server that
// exposes the OpenAI-compatible endpoint when a base URL is supplied.
type OpenAI struct {
	opts []option.RequestOption
}

// NewOpenAI constructs the provider. baseURL may be empty for the
// official API.
func NewOpenAI(apiKey, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key is missing")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{opts: opts}, nil
}

func buildParams(req scrutari.Request) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case scrutari.RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: msgs,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.Temperature >= 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	return params
}

// Complete issues a non-streaming chat completion.
func (o *OpenAI) Complete(ctx context.Context, req scrutari.Request) (string, error) {
	client := openai.NewClient(o.opts...)
	resp, err := client.Chat.Completions.New(ctx, buildParams(req))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream issues a streaming chat completion and adapts the SSE chunk
// stream to a plain text-fragment stream.
func (o *OpenAI) Stream(ctx context.Context, req scrutari.Request) (scrutari.TokenStream, error) {
	client := openai.NewClient(o.opts...)
	stream := client.Chat.Completions.NewStreaming(ctx, buildParams(req))
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return &chunkStream{inner: stream}, nil
}

type chunkStream struct {
	inner   *ssestream.Stream[openai.ChatCompletionChunk]
	current string
}

// Next skips empty deltas so Current always carries text.
func (c *chunkStream) Next() bool {
	for c.inner.Next() {
		chunk := c.inner.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		c.current = chunk.Choices[0].Delta.Content
		return true
	}
	return false
}

func (c *chunkStream) Current() string { return c.current }

func (c *chunkStream) Err() error { return c.inner.Err() }
