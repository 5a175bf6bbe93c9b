package studytutor

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Completer is the text-completion backend. Implementations treat the prompt
// as opaque and return the model's raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const completionSystemPrompt = "You are a helpful tutoring assistant for students. " +
	"Follow the formatting instructions in each request exactly."

// OpenAICompleter calls the OpenAI chat completion API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer backed by the OpenAI API. An empty
// model selects GPT-4o.
func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAICompleter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends the prompt and returns the trimmed reply text.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: completionSystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
