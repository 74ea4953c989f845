package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// AIService answers chat messages that no canned rule matches.
type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// AnswerVisitorQuestion produces a short reply to a website visitor's message.
func (s *AIService) AnswerVisitorQuestion(ctx context.Context, message string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are the friendly chat assistant on the website of Taro Studio, a design and development agency. Answer the visitor's question in at most two sentences. If the question is about pricing, project timelines, or starting a project, suggest they leave their email so the team can follow up.

Visitor message:
%s`, message)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens: 150,
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
