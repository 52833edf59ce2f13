package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

type IChatGPT interface {
	ProcessConversation(ctx context.Context, systemPrompt string, conversationHistory []ConversationMessage, userMessage string) (*ChatResult, error)
	CreateJSONCompletion(ctx context.Context, systemPrompt string, userPrompt string) (*ChatResult, error)
}

type ConversationMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

type ChatResult struct {
	Content    string
	Model      string
	TokensUsed int
}

type chatGPTService struct {
	client        *openai.Client
	model         string
	fallbackModel string
}

func NewChatGPT() IChatGPT {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_CHAT_MODEL")
	fallbackModel := os.Getenv("OPENAI_FALLBACK_MODEL")

	if model == "" {
		model = openai.GPT4TurboPreview
	}
	if fallbackModel == "" {
		fallbackModel = openai.GPT3Dot5Turbo
	}

	return &chatGPTService{
		client:        openai.NewClient(apiKey),
		model:         model,
		fallbackModel: fallbackModel,
	}
}

func (c *chatGPTService) ProcessConversation(
	ctx context.Context,
	systemPrompt string,
	conversationHistory []ConversationMessage,
	userMessage string,
) (*ChatResult, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
	}

	for _, msg := range conversationHistory {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:            c.model,
			Messages:         messages,
			Temperature:      0.7,
			MaxTokens:        1000,
			PresencePenalty:  0.1,
			FrequencyPenalty: 0.1,
		},
	)

	// Primary model failures fall back to the cheaper model once.
	if err != nil {
		resp, err = c.client.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Model:       c.fallbackModel,
				Messages:    messages,
				Temperature: 0.7,
				MaxTokens:   1000,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("chat completion error: %w", err)
		}
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from chat model")
	}

	return &ChatResult{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func (c *chatGPTService) CreateJSONCompletion(
	ctx context.Context,
	systemPrompt string,
	userPrompt string,
) (*ChatResult, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: userPrompt,
		},
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: 0.3,
			MaxTokens:   3000,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)

	if err != nil {
		return nil, fmt.Errorf("chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from chat model")
	}

	return &ChatResult{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
