package upstream

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
)

const defaultModel = openai.ChatModelGPT4oMini

// OpenAI implements Provider over the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// OpenAIOptions configure the OpenAI provider.
type OpenAIOptions struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewOpenAI builds an OpenAI provider. The API key must be non-empty; model
// and base URL fall back to defaults.
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai: missing API key")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	return &OpenAI{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

func (o *OpenAI) params(prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
}

// Stream opens a streaming chat completion for prompt.
func (o *OpenAI) Stream(ctx context.Context, prompt string) (FragmentStream, error) {
	stream := o.client.Chat.Completions.NewStreaming(ctx, o.params(prompt))
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("openai stream: %w", err)
	}
	return &openaiStream{stream: stream}, nil
}

// Complete issues a blocking chat completion for prompt.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, o.params(prompt))
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Probe issues a tiny completion to verify API connectivity.
func (o *OpenAI) Probe(ctx context.Context) (string, error) {
	params := o.params("Hello")
	params.MaxTokens = openai.Int(10)
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai probe: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai probe: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// openaiStream adapts the SSE chunk stream to FragmentStream. Chunks without
// choices or content yield empty fragments, which the adapter skips.
type openaiStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
}

func (s *openaiStream) Recv() (string, error) {
	if !s.stream.Next() {
		if err := s.stream.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	chunk := s.stream.Current()
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}

func (s *openaiStream) Close() error {
	return s.stream.Close()
}
